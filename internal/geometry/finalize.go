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
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// resolveOIdx rewrites every non-exit trio's OIdx from the neighbor's
// user-authored sIdx into that neighbor's computed local edge index, by
// way of the neighbor's own sMaps entry -- the second half of the
// sMaps lookup, the first half already applied to each cell's own sIdx
// inside processCell. Must run before validate, which compares OIdx
// against already-computed SIdx values.
func (g *Geometry) resolveOIdx() error {
	for seq := range g.susoExtz {
		userIdx := g.cMapR[seq]
		for i, t := range g.susoExtz[seq] {
			if t.CIdx == userIdx {
				continue // exit: no neighbor-side oIdx to resolve
			}
			neighborSeq, ok := g.cMap[t.CIdx]
			if !ok {
				continue // reported by validate as an unknown-cell reference
			}
			actual, ok := g.sMaps[neighborSeq][t.OIdx]
			if !ok {
				return errors.Errorf("cell %d edge %d: target line %d does not exist in cell %d", userIdx, t.SIdx, t.OIdx, t.CIdx)
			}
			g.susoExtz[seq][i].OIdx = actual
		}
	}
	return nil
}

// validate confirms every interface's reciprocal edge exists with a
// matching trio, then BFS's the cell-neighbor graph from any cell that
// has a direct exit; any cell not reached is fatal.
func (g *Geometry) validate() error {
	for seq, trios := range g.susoExtz {
		userIdx := g.cMapR[seq]
		for _, t := range trios {
			if t.CIdx == userIdx {
				continue // exit, no reciprocal to check
			}
			neighborSeq, ok := g.cMap[t.CIdx]
			if !ok {
				return errors.Errorf("cell %d interface references unknown cell %d", userIdx, t.CIdx)
			}
			recipTrios := g.susoExtz[neighborSeq]
			found := false
			for _, rt := range recipTrios {
				if rt.SIdx == t.OIdx {
					if rt.CIdx != userIdx || rt.OIdx != t.SIdx {
						return errors.Errorf(
							"cell %d edge %d claims reciprocal (cell %d, edge %d), but that edge's trio is (cell %d, edge %d)",
							userIdx, t.SIdx, t.CIdx, t.OIdx, rt.CIdx, rt.OIdx)
					}
					found = true
					break
				}
			}
			if !found {
				return errors.Errorf("cell %d edge %d: target line %d does not exist in cell %d", userIdx, t.SIdx, t.OIdx, t.CIdx)
			}
		}
	}

	return g.validateReachability()
}

// validateReachability BFS's the cell-to-cell neighbor graph (via
// interfaces) starting from every cell that has at least one direct
// exit, and reports every cell never reached.
func (g *Geometry) validateReachability() error {
	n := len(g.cMapR)
	adj := make([][]int, n)
	hasExit := make([]bool, n)
	for seq, trios := range g.susoExtz {
		userIdx := g.cMapR[seq]
		for _, t := range trios {
			if t.CIdx == userIdx {
				hasExit[seq] = true
				continue
			}
			neighborSeq := g.cMap[t.CIdx]
			adj[seq] = append(adj[seq], neighborSeq)
		}
	}

	reached := make([]bool, n)
	var queue []int
	for seq := 0; seq < n; seq++ {
		if hasExit[seq] {
			reached[seq] = true
			queue = append(queue, seq)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, nb := range adj[cur] {
			if !reached[nb] {
				reached[nb] = true
				queue = append(queue, nb)
			}
		}
	}

	var unreachable []string
	for seq := 0; seq < n; seq++ {
		if !reached[seq] {
			unreachable = append(unreachable, fmt.Sprintf("%d", g.cMapR[seq]))
		}
	}
	if len(unreachable) > 0 {
		return errors.Errorf("cells cannot reach any exit: %s", strings.Join(unreachable, ", "))
	}
	return nil
}

// patchUp rewrites every trio's CIdx, every blob's NeighborCell and
// every pMaps key from user-nominal to sequential form now that
// validation has confirmed every reference resolves. OIdx is left as
// resolveOIdx already set it.
func (g *Geometry) patchUp() {
	for seq := range g.susoExtz {
		for i, t := range g.susoExtz[seq] {
			if t.CIdx == g.cMapR[seq] {
				g.susoExtz[seq][i].CIdx = seq // exit: self-reference in sequential form
				continue
			}
			g.susoExtz[seq][i].CIdx = g.cMap[t.CIdx]
			// OIdx is the neighbor's local edge index, already in local
			// mesh-edge form and stable across the user/sequential rewrite.
		}
	}
	for seq := range g.blobz {
		for i, b := range g.blobz[seq] {
			g.blobz[seq][i].NeighborCell = g.cMap[b.NeighborCell]
		}
	}
	for seq := range g.pMaps {
		rewritten := make(map[int]bool, len(g.pMaps[seq]))
		for neighborUser, parity := range g.pMaps[seq] {
			rewritten[g.cMap[neighborUser]] = parity
		}
		g.pMaps[seq] = rewritten
	}
}

// Parity reports the authored parity flag for the interface between
// sequential cells a and b, if one was declared.
func (g *Geometry) Parity(a, b int) (bool, bool) {
	p, ok := g.pMaps[a][b]
	return p, ok
}
