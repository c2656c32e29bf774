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

// Package geometry assembles parsed cells into the validated, frozen
// mesh the router and simulation run on: walls, non-solid edges, the
// per-cell neighbor graph, and interface/exit metadata.
package geometry

import (
	"simmer/internal/geomx"
)

// LineColor is the lineCT code carried by each input point, describing
// the segment from that point to the next one around its polygon.
type LineColor int

const (
	LineInterface LineColor = iota // 0
	LineExit                       // 1
	LineSolid                      // 2
	LineMeta                       // 3, never authored
)

// Trio is "this edge's local index SIdx joins cell CIdx at that cell's
// edge OIdx." A trio whose CIdx equals the owning cell's own sequential
// index denotes an exit.
type Trio struct {
	SIdx, CIdx, OIdx int
}

// IsExit reports whether t denotes an exit for a cell whose own
// sequential index is ownerCell.
func (t Trio) IsExit(ownerCell int) bool { return t.CIdx == ownerCell }

// PolyPoint is one authored vertex of a cell's polygon, plus the
// metadata describing the segment running from it to the next point.
type PolyPoint struct {
	Pos    geomx.Point
	Color  LineColor
	SIdx   int // local line id within this cell (interface/exit only)
	CIdx   int // neighbor cell's nominal index (interface), or own index (exit)
	OIdx   int // the corresponding line's SIdx in the neighbor cell
	Parity bool
	HasSIdx bool
}

// RawCell is a cell as the XML parser hands it to geometry: nominal
// index, dummy flag, and polygons in parse order (first = outer CCW
// boundary, the rest are inner obstacle holes, CW).
type RawCell struct {
	UserIdx  int
	Dummy    bool
	Polygons [][]PolyPoint
}

// Blob is a maximal run of consecutive interface edges around a
// polygon boundary that all share the same neighbor cell -- the
// "pseudo-walls" the router subtracts when an agent crosses that
// interface during a visibility walk.
type Blob struct {
	NeighborCell int // sequential index, filled in by patchUp
	EdgeIdxs     []int
}
