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
	"math"

	"simmer/internal/geomx"
)

// formDicts computes, for every consolidated interface quad, the rigid
// transform mapping the primary side's frame into the secondary side's
// frame (and its inverse for the reverse direction).
func (r *Router) formDicts() {
	n := r.g.NumCells()
	r.dcts = make([]map[int]Dct, n)
	for c := 0; c < n; c++ {
		r.dcts[c] = make(map[int]Dct)
	}
	for _, q := range r.quads {
		if q.IsExit {
			continue
		}
		lineP := r.g.EdgeLine(q.CIdxP, q.SIdxP)
		lineS := r.g.EdgeLine(q.CIdxS, q.SIdxS)
		tP := lineP.Mid()
		tS := lineS.Mid()
		dP := lineP.Dir()
		dS := lineS.Dir()
		sign := dP.Dot(dS) > 0
		parity := r.lookupParity(q.CIdxP, q.CIdxS)

		vecP := lineP.V.Sub(tP)
		var target geomx.Point
		if parity != sign {
			target = lineS.V.Sub(tS)
		} else {
			target = lineS.U.Sub(tS)
		}
		a := signedAngle(vecP, target)

		fwd := Dct{Sign: sign, TP: tP, TS: tS, A: a}
		r.dcts[q.CIdxP][q.CIdxS] = fwd
		r.dcts[q.CIdxS][q.CIdxP] = fwd.Inverse()
	}
}

// lookupParity returns the authored parity flag for the interface
// between sequential cells a and b, checked from either side (an
// author may have declared it on only one of the two interface
// segments).
func (r *Router) lookupParity(a, b int) bool {
	if p, ok := r.g.Parity(a, b); ok {
		return p
	}
	if p, ok := r.g.Parity(b, a); ok {
		return p
	}
	return false
}

// signedAngle returns the signed angle (radians) from vector v1 to v2.
func signedAngle(v1, v2 geomx.Point) float64 {
	return math.Atan2(v1.Cross(v2), v1.Dot(v2))
}

// Translate maps point p, expressed in cell from's frame, into cell
// to's frame, following the interface transform chain computed by
// formDicts. Returns false if the two cells share no direct interface.
func (r *Router) Translate(from, to int, p geomx.Point) (geomx.Point, bool) {
	if from == to {
		return p, true
	}
	d, ok := r.dcts[from][to]
	if !ok {
		return geomx.Point{}, false
	}
	return d.Apply(p), true
}

// TranslateLine maps both endpoints of l from cell from's frame into
// cell to's frame.
func (r *Router) TranslateLine(from, to int, l geomx.Line) (geomx.Line, bool) {
	u, ok := r.Translate(from, to, l.U)
	if !ok {
		return geomx.Line{}, false
	}
	v, _ := r.Translate(from, to, l.V)
	return geomx.NewLine(u, v), true
}

// patchUpGlobal builds the condensed inter-cell graph over consolidated
// interface/exit ids -- for every cell and every pair of its local
// susoExt edges, an edge weighted by the local shortest path between
// them, keeping the minimum when the same pair is produced from both
// sides of an interface -- runs all-pairs Dijkstra over it, and
// precomputes each vertex's nearest exit.
func (r *Router) patchUpGlobal(threads int) {
	adj := make([]map[int]float64, r.gIdx)
	for i := range adj {
		adj[i] = make(map[int]float64)
	}

	n := r.g.NumCells()
	for c := 0; c < n; c++ {
		susos := r.g.SusoExts(c)
		lt := r.local[c]
		for j := range susos {
			gj := r.gIds[c][susos[j].SIdx]
			if gj == 0 {
				continue
			}
			for k := range susos {
				if j == k {
					continue
				}
				gk := r.gIds[c][susos[k].SIdx]
				if gk == 0 {
					continue
				}
				d := lt.DistM[(susos[j].SIdx-1)*lt.YSize+k]
				addMinEdge(adj, gj-1, gk-1, d)
			}
		}
	}

	r.pathM, r.distM = PathFinderGlobal(adj, threads)

	r.gShrts = make([]shrt, r.gIdx)
	for i := 0; i < r.gIdx; i++ {
		best := shrt{ExitGID: 0, Dist: inf}
		for _, eg := range r.gEIds {
			d := r.distM[i*r.gIdx+(eg-1)]
			if d < best.Dist {
				best = shrt{ExitGID: eg, Dist: d}
			}
		}
		r.gShrts[i] = best
	}
}

func addMinEdge(adj []map[int]float64, a, b int, w float64) {
	if cur, ok := adj[a][b]; !ok || w < cur {
		adj[a][b] = w
	}
}
