// Copyright (C) 2022-2026, VigilantDoomer
//
// This file is part of the simmer program.
//
// simmer is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// simmer is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with simmer.  If not, see <https://www.gnu.org/licenses/>.
package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simmer/internal/geomx"
)

// squareCell builds a unit square whose bottom edge (y=0) is given
// color bottom and whose remaining three edges are walls.
func squareCell(userIdx int, bottom LineColor, cIdx, oIdx, sIdx int) RawCell {
	return RawCell{
		UserIdx: userIdx,
		Polygons: [][]PolyPoint{
			{
				{Pos: geomx.Point{X: 0, Y: 0}, Color: bottom, SIdx: sIdx, CIdx: cIdx, OIdx: oIdx, HasSIdx: true},
				{Pos: geomx.Point{X: 1, Y: 0}, Color: LineSolid},
				{Pos: geomx.Point{X: 1, Y: 1}, Color: LineSolid},
				{Pos: geomx.Point{X: 0, Y: 1}, Color: LineSolid},
			},
		},
	}
}

func TestBuildSingleCellWithExit(t *testing.T) {
	raw := squareCell(1, LineExit, 1, 0, 1)
	g, err := Build([]RawCell{raw}, 0)
	require.NoError(t, err)
	require.Equal(t, 1, g.NumCells())

	ext := g.SusoExts(0)
	require.Len(t, ext, 1)
	assert.True(t, ext[0].IsExit(0))
	assert.True(t, g.IsExit(0, ext[0].SIdx))
}

func TestBuildDisconnectedCellIsFatal(t *testing.T) {
	a := squareCell(1, LineExit, 1, 0, 1)
	isolated := RawCell{
		UserIdx: 2,
		Polygons: [][]PolyPoint{
			{
				{Pos: geomx.Point{X: 10, Y: 10}, Color: LineSolid},
				{Pos: geomx.Point{X: 11, Y: 10}, Color: LineSolid},
				{Pos: geomx.Point{X: 11, Y: 11}, Color: LineSolid},
				{Pos: geomx.Point{X: 10, Y: 11}, Color: LineSolid},
			},
		},
	}
	_, err := Build([]RawCell{a, isolated}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2")
}

func TestBuildDuplicateCellIndexIsFatal(t *testing.T) {
	a := squareCell(1, LineExit, 1, 0, 1)
	b := squareCell(1, LineExit, 1, 0, 1)
	_, err := Build([]RawCell{a, b}, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

// twoSquaresInterface builds two unit squares sharing an interface at
// x=1: cell 1 occupies [0,1]x[0,1], cell 2 occupies [1,2]x[0,1]. Cell
// 2's right edge is the exit. Each side tags its own interface line
// with a locally-arbitrary sIdx (1 here) and points the other side's
// oIdx at that same tag -- exercising resolveOIdx's neighbor-sMap
// lookup rather than assuming the tag equals the final mesh-local edge
// index.
func twoSquaresInterface(parity bool, hasParity bool) []RawCell {
	cell1 := RawCell{
		UserIdx: 1,
		Polygons: [][]PolyPoint{
			{
				{Pos: geomx.Point{X: 0, Y: 0}, Color: LineSolid},
				{Pos: geomx.Point{X: 1, Y: 0}, Color: LineInterface, SIdx: 1, CIdx: 2, OIdx: 1, HasSIdx: true, Parity: parity && hasParity},
				{Pos: geomx.Point{X: 1, Y: 1}, Color: LineSolid},
				{Pos: geomx.Point{X: 0, Y: 1}, Color: LineSolid},
			},
		},
	}
	cell2 := RawCell{
		UserIdx: 2,
		Polygons: [][]PolyPoint{
			{
				{Pos: geomx.Point{X: 1, Y: 0}, Color: LineSolid},
				{Pos: geomx.Point{X: 2, Y: 0}, Color: LineExit, SIdx: 2, CIdx: 2, OIdx: 2, HasSIdx: true},
				{Pos: geomx.Point{X: 2, Y: 1}, Color: LineSolid},
				{Pos: geomx.Point{X: 1, Y: 1}, Color: LineInterface, SIdx: 1, CIdx: 1, OIdx: 1, HasSIdx: true},
			},
		},
	}
	return []RawCell{cell1, cell2}
}

func TestBuildTwoCellInterface(t *testing.T) {
	g, err := Build(twoSquaresInterface(false, false), 0)
	require.NoError(t, err)
	require.Equal(t, 2, g.NumCells())

	seq1, ok := g.SeqIdx(1)
	require.True(t, ok)
	seq2, ok := g.SeqIdx(2)
	require.True(t, ok)

	ext1 := g.SusoExts(seq1)
	require.Len(t, ext1, 1)
	assert.False(t, ext1[0].IsExit(seq1))
	assert.Equal(t, seq2, ext1[0].CIdx)

	ext2 := g.SusoExts(seq2)
	require.Len(t, ext2, 2)

	var interfaceTrio Trio
	for _, t2 := range ext2 {
		if !t2.IsExit(seq2) {
			interfaceTrio = t2
		}
	}
	assert.Equal(t, seq1, interfaceTrio.CIdx)
	assert.Equal(t, ext1[0].SIdx, interfaceTrio.OIdx)
	assert.Equal(t, interfaceTrio.SIdx, ext1[0].OIdx)
}

func TestBuildInterfaceMissingTargetLineIsFatal(t *testing.T) {
	raws := twoSquaresInterface(false, false)
	raws[1].Polygons[0][3].OIdx = 99 // no such line in cell 1
	_, err := Build(raws, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target line")
}

func TestIsInsideCellX(t *testing.T) {
	raw := squareCell(1, LineExit, 1, 0, 1)
	g, err := Build([]RawCell{raw}, 0)
	require.NoError(t, err)
	assert.True(t, g.IsInsideCellX(0, geomx.Point{X: 0.5, Y: 0.5}, 0.1))
	assert.False(t, g.IsInsideCellX(0, geomx.Point{X: 0.05, Y: 0.05}, 0.3))
}
