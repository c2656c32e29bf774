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
package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simmer/internal/geomx"
)

func unitSquare() [][]geomx.Point {
	return [][]geomx.Point{
		{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}},
	}
}

func TestZerothOrderTriangles(t *testing.T) {
	m := New(unitSquare())
	tris, err := m.ZerothOrderTriangles()
	require.NoError(t, err)
	assert.NotEmpty(t, tris)
}

func TestMeshNeighborWiringEveryEdgeHasTriangleNeighbors(t *testing.T) {
	m := New(unitSquare())
	edges, err := m.Mesh(0)
	require.NoError(t, err)
	require.NotEmpty(t, edges)
	for _, e := range edges {
		assert.NotZero(t, e.Neighbors[0], "edge %d missing first in-triangle neighbor", e.Idx)
		assert.NotZero(t, e.Neighbors[1], "edge %d missing second in-triangle neighbor", e.Idx)
	}
}

func TestMeshRefinementIncreasesEdgeCount(t *testing.T) {
	m := New(unitSquare())
	base, err := m.Mesh(0)
	require.NoError(t, err)
	refined, err := m.Mesh(1)
	require.NoError(t, err)
	assert.Greater(t, len(refined), len(base))
}

func TestAugmentRemovesWallsAndKeepsReciprocity(t *testing.T) {
	m := New(unitSquare())
	edges, err := m.Mesh(0)
	require.NoError(t, err)

	walls := []geomx.Line{
		geomx.NewLine(geomx.Point{X: 0, Y: 0}, geomx.Point{X: 1, Y: 0}),
	}
	augmented, err := Augment(edges, walls)
	require.NoError(t, err)
	for _, e := range augmented {
		assert.False(t, e.Line.Equal(walls[0]))
	}
}

func TestAugmentErrorsOnMissingWall(t *testing.T) {
	m := New(unitSquare())
	edges, err := m.Mesh(0)
	require.NoError(t, err)

	walls := []geomx.Line{
		geomx.NewLine(geomx.Point{X: 5, Y: 5}, geomx.Point{X: 6, Y: 6}),
	}
	_, err = Augment(edges, walls)
	assert.Error(t, err)
}
