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
	"sort"

	"github.com/pkg/errors"

	"simmer/internal/geomx"
)

// Augment subtracts wall segments from the meshed edge set, collapses
// the "diamond" pairs of edges shared by two triangles into one edge
// carrying all four neighbor slots, and returns the final dense,
// 1-based-indexed edge set. Only the edge set is returned; the
// zeroth-order triangles are not part of the result and come from
// Mesher.ZerothOrderTriangles instead.
func Augment(edges []Edge, walls []geomx.Line) ([]Edge, error) {
	removed := make(map[int]bool, len(walls))
	for _, wall := range walls {
		found := false
		for i := range edges {
			if edges[i].Line.Equal(wall) {
				removed[edges[i].Idx] = true
				found = true
				clearBackReferences(edges, edges[i].Idx)
				break
			}
		}
		if !found {
			return nil, errors.Errorf("augment: wall %v has no matching mesh edge", wall)
		}
	}

	kept := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if !removed[e.Idx] {
			kept = append(kept, e)
		}
	}

	sort.Slice(kept, func(i, j int) bool {
		return lessLine(kept[i].Line, kept[j].Line)
	})

	byOldIdx := make(map[int]*Edge, len(kept))
	collapsed := make([]Edge, 0, len(kept))
	for i := 0; i < len(kept); i++ {
		if i+1 < len(kept) && kept[i].Line.Equal(kept[i+1].Line) {
			survivor := kept[i]
			other := kept[i+1]
			survivor.Neighbors[2] = other.Neighbors[0]
			survivor.Neighbors[3] = other.Neighbors[1]
			collapsed = append(collapsed, survivor)
			byOldIdx[survivor.Idx] = &collapsed[len(collapsed)-1]
			byOldIdx[other.Idx] = &collapsed[len(collapsed)-1]
			i++
		} else {
			collapsed = append(collapsed, kept[i])
			byOldIdx[kept[i].Idx] = &collapsed[len(collapsed)-1]
		}
	}

	// Dense re-index: 1-based, in current order. Resolve every old
	// neighbor reference (including both original indices a diamond
	// pair collapsed from) to its final new index via oldToNew before
	// mutating any .Idx in place -- byOldIdx's pointers alias into
	// collapsed, so reading survivor.Idx after an earlier iteration has
	// already overwritten it would see the new index instead of the old
	// one and miss in newIdx.
	newIdx := make(map[int]int, len(collapsed))
	for i := range collapsed {
		newIdx[collapsed[i].Idx] = i + 1
	}
	oldToNew := make(map[int]int, len(byOldIdx))
	for old, survivor := range byOldIdx {
		oldToNew[old] = newIdx[survivor.Idx]
	}
	for i := range collapsed {
		for s := 0; s < 4; s++ {
			old := collapsed[i].Neighbors[s]
			if old == 0 {
				continue
			}
			nv, ok := oldToNew[old]
			if !ok {
				// Neighbor was a removed wall; clear it.
				collapsed[i].Neighbors[s] = 0
				continue
			}
			collapsed[i].Neighbors[s] = nv
		}
	}
	for i := range collapsed {
		collapsed[i].Idx = newIdx[collapsed[i].Idx]
	}

	if err := validateBackReferences(collapsed); err != nil {
		return nil, err
	}
	return collapsed, nil
}

func lessLine(a, b geomx.Line) bool {
	if a.U.Equal(b.U) {
		return a.V.Less(b.V)
	}
	return a.U.Less(b.U)
}

func clearBackReferences(edges []Edge, removedIdx int) {
	for i := range edges {
		for s := 0; s < 2; s++ {
			if edges[i].Neighbors[s] == removedIdx {
				edges[i].Neighbors[s] = 0
			}
		}
	}
}

// validateBackReferences is the internal sanity check run after
// augmentation: every non-null neighbor slot must point to an edge
// that, somewhere in its own neighbor slots, points back at us.
// Failure here means the constrained triangulation produced a
// topologically inconsistent mesh, which should never happen.
func validateBackReferences(edges []Edge) error {
	byIdx := make(map[int]*Edge, len(edges))
	for i := range edges {
		byIdx[edges[i].Idx] = &edges[i]
	}
	for _, e := range edges {
		for _, n := range e.Neighbors {
			if n == 0 {
				continue
			}
			other, ok := byIdx[n]
			if !ok {
				return errors.Errorf("augment: edge %d references unknown neighbor %d", e.Idx, n)
			}
			backref := false
			for _, nn := range other.Neighbors {
				if nn == e.Idx {
					backref = true
					break
				}
			}
			if !backref {
				return errors.Errorf("augment: edge %d and %d neighbor references are not reciprocal", e.Idx, n)
			}
		}
	}
	return nil
}
