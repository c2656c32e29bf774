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
	"sort"

	"simmer/internal/config"
	"simmer/internal/geometry"
	"simmer/internal/geomx"
)

// VisWalk is the confirmed result of one FindVisible call: the chain of
// line segments representing the same physical straight path as seen
// from each cell it threads through (rigid transforms preserve
// length, so every line in the chain has the same length), together
// with the (cell, local edge) reached at the head of each segment.
type VisWalk struct {
	Lines []geomx.Line
	Cells []Duo
}

// findLine picks the non-solid edge of cell c an agent at pt should
// head toward: among the Dichi closest-by-midpoint candidates whose
// connecting segment from pt doesn't already cross a wall, the one
// minimizing point-to-line distance plus distance-to-nearest-exit.
// This is the "findLine" helper a visibility walk calls at each hop.
func (r *Router) findLine(c int, pt geomx.Point) (int, bool) {
	edges := r.g.Nosos(c)
	if len(edges) == 0 {
		return 0, false
	}
	type cand struct {
		idx int
		d   float64
	}
	cands := make([]cand, len(edges))
	for i, e := range edges {
		cands[i] = cand{idx: i + 1, d: pt.Dist(e.Line.Mid())}
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].d < cands[j].d })

	k := config.Dichi
	if k > len(cands) {
		k = len(cands)
	}
	best := -1
	bestScore := inf
	for i := 0; i < k; i++ {
		idx := cands[i].idx
		line := edges[idx-1].Line
		probe := geomx.NewLine(pt, line.Mid())
		if r.g.IntersectsWalls(c, probe, nil) {
			continue
		}
		score := geomx.PointSegDistance(pt, line) + r.lShrtz[c][idx]
		if score < bestScore {
			bestScore = score
			best = idx
		}
	}
	if best == -1 {
		return 0, false
	}
	return best, true
}

// allInterfacePseudoWalls returns the local edge indices of cell c's
// interfaces (exits excluded) -- the full set findVisible subtracts
// the crossed blob from, to get "all other interface edges treated as
// walls during this hop".
func (r *Router) allInterfacePseudoWalls(c int) map[int]bool {
	out := make(map[int]bool)
	for _, t := range r.g.SusoExts(c) {
		if !t.IsExit(c) {
			out[t.SIdx] = true
		}
	}
	return out
}

func subtractBlob(set map[int]bool, g *geometry.Geometry, c, localEdge int) {
	b, ok := g.BlobFor(c, localEdge)
	if !ok {
		return
	}
	for _, m := range b.EdgeIdxs {
		delete(set, m)
	}
}

// FindVisible performs the agent-driven multi-hop visibility walk:
// starting at (cIdx, pt), follow the precomputed
// next-hop chain for up to maxHops hops, transparently crossing
// interfaces via their coordinate transforms, and return the farthest
// confirmed-visible chain of segments together with the cells it
// passes through. A hop is confirmed only after advancing from the
// findLine candidate to its next hop, so an empty VisWalk means findLine
// found no candidate, the candidate's next hop is itself (an exit), or
// no advanced hop was visible from pt.
func (r *Router) FindVisible(cIdx int, pt geomx.Point, maxHops int) VisWalk {
	s, ok := r.findLine(cIdx, pt)
	if !ok {
		return VisWalk{}
	}

	cells := []Duo{{CIdx: cIdx, SIdx: s}}
	tails := []geomx.Point{pt}
	pseudo := map[int]map[int]bool{cIdx: r.allInterfacePseudoWalls(cIdx)}

	var confirmed VisWalk
	cur := Duo{CIdx: cIdx, SIdx: s}

	for hop := 0; hop < maxHops; hop++ {
		next := r.NextHop(cur.CIdx, cur.SIdx)
		if next == cur {
			break
		}

		if next.CIdx != cur.CIdx {
			subtractBlob(pseudo[cur.CIdx], r.g, cur.CIdx, cur.SIdx)

			tail, ok := r.Translate(cur.CIdx, next.CIdx, tails[len(tails)-1])
			if !ok {
				break
			}
			tails = append(tails, tail)
			cells = append(cells, next)

			ps := r.allInterfacePseudoWalls(next.CIdx)
			subtractBlob(ps, r.g, next.CIdx, next.SIdx)
			pseudo[next.CIdx] = ps
		}
		cur = next

		head := r.g.EdgeLine(cur.CIdx, cur.SIdx).Mid()
		lines := make([]geomx.Line, len(cells))
		visible := true
		for i := range cells {
			h := head
			if cells[i].CIdx != cur.CIdx {
				th, ok := r.Translate(cur.CIdx, cells[i].CIdx, head)
				if !ok {
					visible = false
					break
				}
				h = th
			}
			lines[i] = geomx.RawLine(tails[i], h)
			if r.g.IntersectsWalls(cells[i].CIdx, lines[i], pseudo[cells[i].CIdx]) {
				visible = false
				break
			}
		}

		isExit := r.g.IsExit(cur.CIdx, cur.SIdx)
		if visible {
			confirmed = VisWalk{
				Lines: append([]geomx.Line{}, lines...),
				Cells: append([]Duo{}, cells...),
			}
			if isExit {
				break
			}
		} else if isExit {
			break
		}
	}
	return confirmed
}

// FindCell scans a FindVisible chain for the cell that contains the
// same physical point at parameter s along the walk -- lerp(lines[i].U,
// lines[i].V, s), evaluated in every traversed cell's own frame -- and
// returns that point, the chain's unit direction, and the index into
// cells/lines it was found at.
func FindCell(g *geometry.Geometry, lines []geomx.Line, cells []Duo, s float64) (pt, dir geomx.Point, idx int, ok bool) {
	for i, l := range lines {
		p := geomx.Lerp(l.U, l.V, s)
		if g.IsInsideCell(cells[i].CIdx, p) {
			return p, unit(l.Dir()), i, true
		}
	}
	if len(lines) > 0 {
		last := lines[len(lines)-1]
		p := geomx.Lerp(last.U, last.V, s)
		return p, unit(last.Dir()), len(lines) - 1, true
	}
	return geomx.Point{}, geomx.Point{}, 0, false
}

func unit(v geomx.Point) geomx.Point {
	n := v.Len()
	if n == 0 {
		return v
	}
	return v.Scale(1 / n)
}

// FindVisibleG is the simpler alternative walk kept alongside
// FindVisible for comparison: it checks each hop's segment
// only against true walls, never treating other interfaces as
// pseudo-walls to subtract from. The agent-step path (Actuator) never
// calls this; it exists for debugging visibility results against the
// full pseudo-wall-aware walk.
func (r *Router) FindVisibleG(cIdx int, pt geomx.Point, maxHops int) VisWalk {
	s, ok := r.findLine(cIdx, pt)
	if !ok {
		return VisWalk{}
	}

	cells := []Duo{{CIdx: cIdx, SIdx: s}}
	tails := []geomx.Point{pt}
	var confirmed VisWalk
	cur := Duo{CIdx: cIdx, SIdx: s}

	for hop := 0; hop < maxHops; hop++ {
		next := r.NextHop(cur.CIdx, cur.SIdx)
		if next == cur {
			break
		}
		if next.CIdx != cur.CIdx {
			tail, ok := r.Translate(cur.CIdx, next.CIdx, tails[len(tails)-1])
			if !ok {
				break
			}
			tails = append(tails, tail)
			cells = append(cells, next)
		}
		cur = next

		head := r.g.EdgeLine(cur.CIdx, cur.SIdx).Mid()
		lines := make([]geomx.Line, len(cells))
		visible := true
		for i := range cells {
			h := head
			if cells[i].CIdx != cur.CIdx {
				th, ok := r.Translate(cur.CIdx, cells[i].CIdx, head)
				if !ok {
					visible = false
					break
				}
				h = th
			}
			lines[i] = geomx.RawLine(tails[i], h)
			if r.g.IntersectsWalls(cells[i].CIdx, lines[i], nil) {
				visible = false
				break
			}
		}

		isExit := r.g.IsExit(cur.CIdx, cur.SIdx)
		if visible {
			confirmed = VisWalk{
				Lines: append([]geomx.Line{}, lines...),
				Cells: append([]Duo{}, cells...),
			}
			if isExit {
				break
			}
		} else if isExit {
			break
		}
	}
	return confirmed
}
