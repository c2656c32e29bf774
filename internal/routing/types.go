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

// Package routing holds the Finder (parallel multi-source Dijkstra) and
// Router (global consolidation, interface transforms, next-hop tables,
// visibility walks).
package routing

import "simmer/internal/geomx"

// Duo is a location on the cell graph: local edge SIdx of cell CIdx.
type Duo struct {
	CIdx, SIdx int
}

// Null is the sentinel Duo (-1, -1), used where a value is absent.
var Null = Duo{CIdx: -1, SIdx: -1}

// IsNull reports whether d is the sentinel null Duo.
func (d Duo) IsNull() bool { return d.CIdx < 0 }

// Quad is the two sides of one globally-consolidated interface: primary
// cell/edge and secondary cell/edge. For an exit the secondary side is
// null.
type Quad struct {
	CIdxP, SIdxP int
	CIdxS, SIdxS int
	IsExit       bool
}

// Dct is the rigid 2-D transform mapping a point on the primary side of
// an interface into the secondary cell's frame:
// x_S = Rot(A)·(x_P - TP) + TS.
type Dct struct {
	Sign bool
	TP   geomx.Point
	TS   geomx.Point
	A    float64
}

// Apply maps point p, expressed in the primary cell's frame, into the
// secondary cell's frame.
func (d Dct) Apply(p geomx.Point) geomx.Point {
	return p.Sub(d.TP).Rotate(d.A).Add(d.TS)
}

// ApplyLine maps both endpoints of l independently.
func (d Dct) ApplyLine(l geomx.Line) geomx.Line {
	return geomx.NewLine(d.Apply(l.U), d.Apply(l.V))
}

// Inverse returns the transform mapping the secondary frame back to the
// primary frame.
func (d Dct) Inverse() Dct {
	return Dct{Sign: d.Sign, TP: d.TS, TS: d.TP, A: -d.A}
}
