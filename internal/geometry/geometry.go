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
	"sort"

	"github.com/pkg/errors"

	"simmer/internal/geomx"
	"simmer/internal/mesh"
)

// Geometry is the frozen, validated mesh every downstream package
// reads: parallel arrays indexed by sequential cell index.
type Geometry struct {
	cMap  map[int]int // user idx -> sequential idx
	cMapR []int       // sequential idx -> user idx

	dummy []bool

	triz  [][]mesh.Triangle
	wallz [][]geomx.Line
	nosoz [][]mesh.Edge // final non-wall edges, local Idx is 1-based into this slice

	susoExtz [][]Trio // sequential, cIdx/oIdx rewritten to sequential form
	blobz    [][]Blob // sequential NeighborCell
	blobMapz []map[int]int

	// susoMaps[c][localEdge] = position within susoExtz[c]
	susoMaps []map[int]int

	// sMaps[c][userSIdx] = computed local edge index, the per-cell lookup
	// processCell builds by segment equality; resolveOIdx's neighbor-side
	// oIdx resolution reads another cell's sMaps entry here.
	sMaps []map[int]int

	// pMaps[c][neighborSeq] = parity
	pMaps []map[int]bool
}

// NumCells returns the number of sequential cells.
func (g *Geometry) NumCells() int { return len(g.cMapR) }

// UserIdx returns the nominal index for sequential cell c.
func (g *Geometry) UserIdx(c int) int { return g.cMapR[c] }

// SeqIdx returns the sequential index for nominal cell idx, or
// (-1, false) if unknown.
func (g *Geometry) SeqIdx(userIdx int) (int, bool) {
	s, ok := g.cMap[userIdx]
	return s, ok
}

// IsDummy reports whether sequential cell c is a dummy.
func (g *Geometry) IsDummy(c int) bool { return g.dummy[c] }

// Walls returns cell c's wall segments.
func (g *Geometry) Walls(c int) []geomx.Line { return g.wallz[c] }

// Nosos returns cell c's non-solid mesh edges.
func (g *Geometry) Nosos(c int) []mesh.Edge { return g.nosoz[c] }

// Triangles returns cell c's zeroth-order triangles.
func (g *Geometry) Triangles(c int) []mesh.Triangle { return g.triz[c] }

// SusoExts returns cell c's subsolid (interface+exit) trios.
func (g *Geometry) SusoExts(c int) []Trio { return g.susoExtz[c] }

// Blobs returns cell c's interface blobs.
func (g *Geometry) Blobs(c int) []Blob { return g.blobz[c] }

// Build runs the full parse+finalize pipeline over a list of raw cells
// and returns the frozen Geometry, or the first fatal error encountered
// (schema, geometry, or validation class).
func Build(raws []RawCell, subdivPasses int) (*Geometry, error) {
	g := &Geometry{
		cMap: make(map[int]int),
	}

	seen := make(map[int]bool)
	built := make([]*builtCell, 0, len(raws))
	for _, raw := range raws {
		if raw.UserIdx <= 0 {
			return nil, errors.Errorf("cell index %d must be positive", raw.UserIdx)
		}
		if seen[raw.UserIdx] {
			return nil, errors.Errorf("duplicate cell index %d", raw.UserIdx)
		}
		seen[raw.UserIdx] = true

		bc, err := processCell(raw, subdivPasses)
		if err != nil {
			return nil, err
		}
		built = append(built, bc)
	}

	sort.Slice(built, func(i, j int) bool { return built[i].userIdx < built[j].userIdx })

	for seq, bc := range built {
		g.cMap[bc.userIdx] = seq
		g.cMapR = append(g.cMapR, bc.userIdx)
		g.dummy = append(g.dummy, bc.dummy)
		g.triz = append(g.triz, bc.triangles)
		g.wallz = append(g.wallz, bc.walls)
		g.nosoz = append(g.nosoz, bc.edges)

		trios := make([]Trio, 0, len(bc.trios))
		localToPos := make(map[int]int, len(bc.trios))
		for local, trio := range bc.trios {
			localToPos[local] = len(trios)
			trios = append(trios, Trio{SIdx: local, CIdx: trio.CIdx, OIdx: trio.OIdx})
		}
		g.susoExtz = append(g.susoExtz, trios)
		g.susoMaps = append(g.susoMaps, localToPos)

		sMap := make(map[int]int, len(bc.sMap))
		for k, v := range bc.sMap {
			sMap[k] = v
		}
		g.sMaps = append(g.sMaps, sMap)

		blobs := make([]Blob, len(bc.blobs))
		copy(blobs, bc.blobs)
		g.blobz = append(g.blobz, blobs)
		blobMap := make(map[int]int, len(bc.blobOf))
		for k, v := range bc.blobOf {
			blobMap[k] = v
		}
		g.blobMapz = append(g.blobMapz, blobMap)

		pMap := make(map[int]bool, len(bc.pMapRaw))
		for neighborUser, parity := range bc.pMapRaw {
			pMap[neighborUser] = parity // rewritten to sequential in patchUp
		}
		g.pMaps = append(g.pMaps, pMap)
	}

	if err := g.resolveOIdx(); err != nil {
		return nil, err
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	g.patchUp()
	return g, nil
}
