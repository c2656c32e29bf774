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
package geomx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLineOrdering(t *testing.T) {
	l := NewLine(Point{1, 1}, Point{0, 0})
	assert.True(t, l.U.Less(l.V) || l.U.Equal(l.V))
	assert.Equal(t, Point{0, 0}, l.U)
	assert.Equal(t, Point{1, 1}, l.V)
}

func TestPointSegDistanceRegions(t *testing.T) {
	l := NewLine(Point{0, 0}, Point{10, 0})
	assert.InDelta(t, 5.0, PointSegDistance(Point{-5, 0}, l), CPA)
	assert.InDelta(t, 3.0, PointSegDistance(Point{5, 3}, l), CPA)
	assert.InDelta(t, 5.0, PointSegDistance(Point{15, 0}, l), CPA)
}

func TestIntersectsCross(t *testing.T) {
	a := NewLine(Point{0, 0}, Point{2, 2})
	b := NewLine(Point{0, 2}, Point{2, 0})
	assert.True(t, Intersects(a, b))
}

func TestIntersectsParallelNoOverlap(t *testing.T) {
	a := NewLine(Point{0, 0}, Point{1, 0})
	b := NewLine(Point{0, 1}, Point{1, 1})
	assert.False(t, Intersects(a, b))
}

func TestIntersectsCollinearOverlap(t *testing.T) {
	a := NewLine(Point{0, 0}, Point{2, 0})
	b := NewLine(Point{1, 0}, Point{3, 0})
	assert.True(t, Intersects(a, b))
}

func TestInTriangle(t *testing.T) {
	a, b, c := Point{0, 0}, Point{4, 0}, Point{0, 4}
	assert.True(t, InTriangle(Point{1, 1}, a, b, c))
	assert.False(t, InTriangle(Point{3, 3}, a, b, c))
}

func TestIsClockwise(t *testing.T) {
	assert.True(t, IsClockwise(Point{0, 0}, Point{0, 1}, Point{1, 0}))
	assert.False(t, IsClockwise(Point{0, 0}, Point{1, 0}, Point{0, 1}))
}

func TestIntersectionPoint(t *testing.T) {
	a := NewLine(Point{0, 0}, Point{2, 2})
	b := NewLine(Point{0, 2}, Point{2, 0})
	p, ok := IntersectionPoint(a, b)
	require.True(t, ok)
	assert.InDelta(t, 1.0, p.X, 1e-9)
	assert.InDelta(t, 1.0, p.Y, 1e-9)
}

func TestFEqualToleratesRounding(t *testing.T) {
	assert.True(t, fEqual(0.1+0.2, 0.3))
	assert.False(t, fEqual(0.1, 0.2))
}
