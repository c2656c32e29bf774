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
package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simmer/internal/geometry"
	"simmer/internal/geomx"
	"simmer/internal/routing"
)

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

func TestSimReachesExitSingleCell(t *testing.T) {
	g, err := geometry.Build(singleSquareOneExit(), 0)
	require.NoError(t, err)
	r := routing.Build(g, 2, 2, nil)

	s, err := New(g, r, 8, 0.9, 3, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	s.Run(nil)

	for _, ag := range s.Agents() {
		require.NotEmpty(t, ag.Path)
		last := ag.Path[len(ag.Path)-1]
		lastPt := last.Points[len(last.Points)-1]
		assert.InDelta(t, 0, lastPt.Y, 1e-6, "agent %d did not reach the exit edge", ag.ID)
		assert.True(t, ag.done)
	}
}

func TestSimTerminatesAndCrossesInterface(t *testing.T) {
	g, err := geometry.Build(twoSquaresOneInterfaceOneExit(), 0)
	require.NoError(t, err)
	r := routing.Build(g, 2, 2, nil)

	s, err := New(g, r, 6, 0.9, 3, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	s.Run(nil)

	for _, ag := range s.Agents() {
		require.NotEmpty(t, ag.Path)
		assert.True(t, ag.done)
		last := ag.Path[len(ag.Path)-1]
		lastPt := last.Points[len(last.Points)-1]
		assert.InDelta(t, 2, lastPt.X, 1e-6, "agent %d did not reach the far exit edge", ag.ID)
	}
}

func TestAllocatorIsSequential(t *testing.T) {
	var a Allocator
	assert.Equal(t, 0, a.Next())
	assert.Equal(t, 1, a.Next())
	assert.Equal(t, 2, a.Next())
}
