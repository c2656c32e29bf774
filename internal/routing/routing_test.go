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
package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simmer/internal/geometry"
	"simmer/internal/geomx"
)

// singleSquareOneExit is a unit square whose bottom edge is an exit.
func singleSquareOneExit() []geometry.RawCell {
	return []geometry.RawCell{
		{
			UserIdx: 1,
			Polygons: [][]geometry.PolyPoint{
				{
					{Pos: geomx.Point{X: 0, Y: 0}, Color: geometry.LineExit, SIdx: 1, CIdx: 1, OIdx: 1, HasSIdx: true},
					{Pos: geomx.Point{X: 1, Y: 0}, Color: geometry.LineSolid},
					{Pos: geomx.Point{X: 1, Y: 1}, Color: geometry.LineSolid},
					{Pos: geomx.Point{X: 0, Y: 1}, Color: geometry.LineSolid},
				},
			},
		},
	}
}

// twoSquaresOneInterfaceOneExit is two unit squares sharing an interface
// at x=1; the right cell's right edge is the exit.
func twoSquaresOneInterfaceOneExit() []geometry.RawCell {
	return []geometry.RawCell{
		{
			UserIdx: 1,
			Polygons: [][]geometry.PolyPoint{
				{
					{Pos: geomx.Point{X: 0, Y: 0}, Color: geometry.LineSolid},
					{Pos: geomx.Point{X: 1, Y: 0}, Color: geometry.LineInterface, SIdx: 1, CIdx: 2, OIdx: 1, HasSIdx: true},
					{Pos: geomx.Point{X: 1, Y: 1}, Color: geometry.LineSolid},
					{Pos: geomx.Point{X: 0, Y: 1}, Color: geometry.LineSolid},
				},
			},
		},
		{
			UserIdx: 2,
			Polygons: [][]geometry.PolyPoint{
				{
					{Pos: geomx.Point{X: 1, Y: 0}, Color: geometry.LineSolid},
					{Pos: geomx.Point{X: 2, Y: 0}, Color: geometry.LineExit, SIdx: 2, CIdx: 2, OIdx: 2, HasSIdx: true},
					{Pos: geomx.Point{X: 2, Y: 1}, Color: geometry.LineSolid},
					{Pos: geomx.Point{X: 1, Y: 1}, Color: geometry.LineInterface, SIdx: 1, CIdx: 1, OIdx: 1, HasSIdx: true},
				},
			},
		},
	}
}

func buildRouter(t *testing.T, raws []geometry.RawCell) (*geometry.Geometry, *Router) {
	t.Helper()
	g, err := geometry.Build(raws, 0)
	require.NoError(t, err)
	r := Build(g, 2, 2, nil)
	return g, r
}

func TestNextzChainReachesExitWithinBound(t *testing.T) {
	g, r := buildRouter(t, singleSquareOneExit())
	n := g.NumNosos(0)
	for s := 1; s <= n; s++ {
		cur := Duo{CIdx: 0, SIdx: s}
		reached := false
		for hop := 0; hop < n+1; hop++ {
			if g.IsExit(cur.CIdx, cur.SIdx) {
				reached = true
				break
			}
			next := r.NextHop(cur.CIdx, cur.SIdx)
			if next == cur {
				break
			}
			cur = next
		}
		assert.True(t, reached, "edge %d never reached an exit", s)
	}
}

func TestLShrtzNonIncreasingAlongChain(t *testing.T) {
	g, r := buildRouter(t, twoSquaresOneInterfaceOneExit())
	for c := 0; c < g.NumCells(); c++ {
		n := g.NumNosos(c)
		for s := 1; s <= n; s++ {
			cur := Duo{CIdx: c, SIdx: s}
			dist := r.ShortestToExit(c, s)
			for hop := 0; hop < 32; hop++ {
				if g.IsExit(cur.CIdx, cur.SIdx) {
					break
				}
				next := r.NextHop(cur.CIdx, cur.SIdx)
				if next == cur {
					break
				}
				nextDist := r.ShortestToExit(next.CIdx, next.SIdx)
				assert.True(t, nextDist <= dist+1e-9, "lShrtz increased from %v (%.4f) to %v (%.4f)", cur, dist, next, nextDist)
				dist = nextDist
				cur = next
			}
		}
	}
}

func TestDctIsometryAndRoundtrip(t *testing.T) {
	_, r := buildRouter(t, twoSquaresOneInterfaceOneExit())

	p := geomx.Point{X: 1, Y: 0.3}
	q := geomx.Point{X: 1, Y: 0.8}

	tp, ok := r.Translate(0, 1, p)
	require.True(t, ok)
	tq, ok := r.Translate(0, 1, q)
	require.True(t, ok)

	assert.InDelta(t, p.Dist(q), tp.Dist(tq), 1e-9)

	back, ok := r.Translate(1, 0, tp)
	require.True(t, ok)
	assert.InDelta(t, 0, p.Dist(back), 1e-9)
}

func TestFindVisibleReachesExitInSingleCell(t *testing.T) {
	_, r := buildRouter(t, singleSquareOneExit())
	vis := r.FindVisible(0, geomx.Point{X: 0.5, Y: 0.5}, 1000)
	require.NotEmpty(t, vis.Lines)
	last := vis.Cells[len(vis.Cells)-1]
	assert.True(t, r.Geometry().IsExit(last.CIdx, last.SIdx))
}

func TestFindVisibleCrossesInterface(t *testing.T) {
	g, r := buildRouter(t, twoSquaresOneInterfaceOneExit())
	vis := r.FindVisible(0, geomx.Point{X: 0.5, Y: 0.5}, 1000)
	require.NotEmpty(t, vis.Lines)
	touchesCellTwo := false
	for _, c := range vis.Cells {
		if c.CIdx != 0 {
			touchesCellTwo = true
		}
	}
	assert.True(t, touchesCellTwo, "visibility chain never crosses into the second cell")
	last := vis.Cells[len(vis.Cells)-1]
	assert.True(t, g.IsExit(last.CIdx, last.SIdx))
}
