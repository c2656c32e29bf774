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
	"simmer/internal/geometry"
	"simmer/internal/simlog"
)

// shrt pairs a global vertex's nearest exit with the distance to it.
type shrt struct {
	ExitGID int
	Dist    float64
}

// Router is the frozen, immutable-after-Build set of tables every
// agent step reads: consolidated global interface ids, their rigid
// transforms, all-pairs local and global shortest paths, and the
// per-edge next-hop table. None of it mutates once Build returns, so
// it's safe to share across the Simmer's worker pool without locking.
type Router struct {
	g *geometry.Geometry

	gIdx  int
	quads []Quad
	gIds  [][]int // gIds[cell][localEdge] = global id, 0 if not subsolid
	gEIds []int   // global ids that are exits

	dcts []map[int]Dct // dcts[cell][neighborCell]

	local []LocalTables

	pathM  []int
	distM  []float64
	gShrts []shrt

	nextz  [][]Duo
	lShrtz [][]float64
}

// Build runs Consolidate, FormDicts, the global PatchUp (condensed
// graph + all-pairs Dijkstra), and PopulateNexts in order, producing a
// fully-wired Router. outerThreads/innerThreads size Finder's pools;
// logger may be nil.
func Build(g *geometry.Geometry, outerThreads, innerThreads int, logger *simlog.Logger) *Router {
	r := &Router{g: g}
	r.local = FindLocal(g, outerThreads, innerThreads, logger)
	r.consolidate()
	r.formDicts()
	r.patchUpGlobal(outerThreads)
	r.populateNexts()
	return r
}

// consolidate walks every susoExt of every cell in index order,
// assigning each interface a single global id the first time it's
// seen (preferring the lower-index side as primary) and reusing that
// id on the reciprocal side.
func (r *Router) consolidate() {
	n := r.g.NumCells()
	r.gIds = make([][]int, n)
	for c := 0; c < n; c++ {
		r.gIds[c] = make([]int, len(r.g.Nosos(c))+1)
	}

	next := 1
	for c := 0; c < n; c++ {
		for _, t := range r.g.SusoExts(c) {
			if r.gIds[c][t.SIdx] != 0 {
				continue
			}
			if t.IsExit(c) {
				gid := next
				next++
				r.gIds[c][t.SIdx] = gid
				r.quads = append(r.quads, Quad{CIdxP: c, SIdxP: t.SIdx, IsExit: true})
				r.gEIds = append(r.gEIds, gid)
				continue
			}
			if c > t.CIdx {
				// Already assigned when we processed the lower-index side.
				continue
			}
			gid := next
			next++
			r.gIds[c][t.SIdx] = gid
			r.gIds[t.CIdx][t.OIdx] = gid
			r.quads = append(r.quads, Quad{CIdxP: c, SIdxP: t.SIdx, CIdxS: t.CIdx, SIdxS: t.OIdx})
		}
	}
	r.gIdx = next - 1
}

// localColumn returns the LocalTables column index for local edge s of
// cell c, i.e. the position of s among that cell's susoExts, or
// (-1, false) if s isn't a susoExt.
func (r *Router) localColumn(c, s int) (int, bool) {
	for i, src := range r.local[c].Sources {
		if src == s {
			return i, true
		}
	}
	return -1, false
}

// populateNexts computes, for every non-solid edge, the (cell,
// localEdge) an agent standing there should head toward next.
func (r *Router) populateNexts() {
	n := r.g.NumCells()
	r.nextz = make([][]Duo, n)
	r.lShrtz = make([][]float64, n)
	for c := 0; c < n; c++ {
		xSize := len(r.g.Nosos(c))
		r.nextz[c] = make([]Duo, xSize+1)
		r.lShrtz[c] = make([]float64, xSize+1)
		for s := 1; s <= xSize; s++ {
			r.nextz[c][s], r.lShrtz[c][s] = r.nextMark(c, s)
		}
	}
}

func (r *Router) nextMark(c, s int) (Duo, float64) {
	if t, ok := r.g.IsSubsolid(c, s); ok {
		if t.IsExit(c) {
			return Duo{CIdx: c, SIdx: s}, 0
		}
		return r.nextMarkInterface(c, s, t)
	}
	return r.nextMarkInterior(c, s)
}

func (r *Router) nextMarkInterface(c, s int, t geometry.Trio) (Duo, float64) {
	g := r.gIds[c][s]
	sh := r.gShrts[g-1]
	if sh.ExitGID == g {
		return Duo{CIdx: c, SIdx: s}, 0
	}
	nextHopGID := r.pathM[(g-1)*r.gIdx+(sh.ExitGID-1)]
	if nextHopGID == 0 {
		return Duo{CIdx: c, SIdx: s}, sh.Dist
	}
	quad := r.quads[nextHopGID-1]

	recipCell, recipLocal := t.CIdx, t.OIdx

	localHere, hereOK := quadSideIn(quad, c)
	localThere, thereOK := quadSideIn(quad, recipCell)

	var distHere, distThere float64 = inf, inf
	if hereOK {
		if col, ok := r.localColumn(c, localHere); ok {
			distHere = r.local[c].DistM[(s-1)*r.local[c].YSize+col]
		}
	}
	if thereOK {
		if col, ok := r.localColumn(recipCell, localThere); ok {
			distThere = r.local[recipCell].DistM[(recipLocal-1)*r.local[recipCell].YSize+col]
		}
	}

	if distHere <= distThere {
		if col, ok := r.localColumn(c, localHere); ok {
			nextLocal := r.local[c].PathM[(s-1)*r.local[c].YSize+col]
			if nextLocal != 0 {
				return Duo{CIdx: c, SIdx: nextLocal}, sh.Dist
			}
		}
		return Duo{CIdx: c, SIdx: s}, sh.Dist
	}
	return Duo{CIdx: recipCell, SIdx: recipLocal}, sh.Dist
}

func quadSideIn(q Quad, cell int) (int, bool) {
	if q.CIdxP == cell {
		return q.SIdxP, true
	}
	if !q.IsExit && q.CIdxS == cell {
		return q.SIdxS, true
	}
	return 0, false
}

const inf = 1e18

func (r *Router) nextMarkInterior(c, s int) (Duo, float64) {
	lt := r.local[c]
	best := -1
	bestDist := inf
	for col := range lt.Sources {
		gid := r.gIds[c][lt.Sources[col]]
		if gid == 0 {
			continue
		}
		d := lt.DistM[(s-1)*lt.YSize+col] + r.gShrts[gid-1].Dist
		if d < bestDist {
			bestDist = d
			best = col
		}
	}
	if best == -1 {
		return Duo{CIdx: c, SIdx: s}, 0
	}
	nextLocal := lt.PathM[(s-1)*lt.YSize+best]
	if nextLocal == 0 {
		nextLocal = s
	}
	return Duo{CIdx: c, SIdx: nextLocal}, bestDist
}

// NextHop returns the precomputed next-hop Duo for (c,s).
func (r *Router) NextHop(c, s int) Duo { return r.nextz[c][s] }

// ShortestToExit returns the precomputed distance-to-nearest-exit for
// (c,s).
func (r *Router) ShortestToExit(c, s int) float64 { return r.lShrtz[c][s] }

// Geometry exposes the Router's underlying Geometry.
func (r *Router) Geometry() *geometry.Geometry { return r.g }
