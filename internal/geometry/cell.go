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
	"github.com/pkg/errors"

	"simmer/internal/geomx"
	"simmer/internal/mesh"
)

// builtCell is the per-cell output of processCell, still carrying
// user-nominal trio indices; patchUp rewrites those to sequential form
// once every cell has been processed.
type builtCell struct {
	userIdx   int
	dummy     bool
	triangles []mesh.Triangle
	walls     []geomx.Line
	edges     []mesh.Edge     // final non-wall mesh edges, 1-based local Idx
	trios     map[int]Trio    // local edge idx -> trio (subsolid only, user-nominal cIdx/oIdx)
	sMap      map[int]int     // user-authored sIdx -> computed local edge idx, this cell's own
	blobs     []Blob          // NeighborCell still user-nominal
	blobOf    map[int]int     // local edge idx -> index into blobs
	pMapRaw   map[int]bool    // neighbor cell (user-nominal) -> parity
}

// coarseSeg is one authored (pre-refinement) interface or exit segment,
// carried alongside the trio and blob metadata it contributes.
type coarseSeg struct {
	line         geomx.Line
	trio         Trio
	color        LineColor
	neighborUser int
	parity       bool
	hasParity    bool
}

// processCell triangulates and augments one cell's polygons, then
// derives its trios, blobs, and parity map from the authored line
// colors.
func processCell(raw RawCell, subdivPasses int) (*builtCell, error) {
	if len(raw.Polygons) == 0 {
		return nil, errors.Errorf("cell %d: no polygons", raw.UserIdx)
	}

	polyPoints := make([][]geomx.Point, len(raw.Polygons))
	var walls []geomx.Line
	var coarse []coarseSeg

	for pi, poly := range raw.Polygons {
		if len(poly) < 3 {
			return nil, errors.Errorf("cell %d polygon %d: fewer than 3 vertices", raw.UserIdx, pi)
		}
		pts := make([]geomx.Point, len(poly))
		for i, pp := range poly {
			pts[i] = pp.Pos
		}
		polyPoints[pi] = pts

		for i, pp := range poly {
			next := poly[(i+1)%len(poly)]
			line := geomx.NewLine(pp.Pos, next.Pos)
			if line.Len() < geomx.CPA {
				return nil, errors.Errorf("cell %d polygon %d: segment shorter than CPA", raw.UserIdx, pi)
			}
			switch pp.Color {
			case LineSolid:
				walls = append(walls, line)
			case LineInterface, LineExit:
				neighborUser := pp.CIdx
				if pp.Color == LineExit {
					neighborUser = raw.UserIdx
				}
				coarse = append(coarse, coarseSeg{
					line: line,
					trio: Trio{SIdx: pp.SIdx, CIdx: neighborUser, OIdx: pp.OIdx},
					color: pp.Color,
					neighborUser: neighborUser,
					parity: pp.Parity,
					hasParity: pp.HasSIdx && pp.Parity,
				})
			case LineMeta:
				return nil, errors.Errorf("cell %d polygon %d: META line color is never authored", raw.UserIdx, pi)
			default:
				return nil, errors.Errorf("cell %d polygon %d: invalid line color %d", raw.UserIdx, pi, pp.Color)
			}
		}
	}

	if err := checkSelfIntersections(walls, coarse); err != nil {
		return nil, errors.Wrapf(err, "cell %d", raw.UserIdx)
	}

	m := mesh.New(polyPoints)
	tris, err := m.ZerothOrderTriangles()
	if err != nil {
		return nil, errors.Wrapf(err, "cell %d: zeroth-order triangulation", raw.UserIdx)
	}
	fineEdges, err := m.Mesh(subdivPasses)
	if err != nil {
		return nil, errors.Wrapf(err, "cell %d: mesh refinement", raw.UserIdx)
	}
	final, err := mesh.Augment(fineEdges, walls)
	if err != nil {
		return nil, errors.Wrapf(err, "cell %d: augment", raw.UserIdx)
	}

	trios := make(map[int]Trio, len(coarse))
	sMap := make(map[int]int, len(coarse))
	coarseLocalIdx := make([]int, len(coarse)) // parallel to coarse, local edge idx or 0
	for i, cs := range coarse {
		found := 0
		for _, e := range final {
			if e.Line.Equal(cs.line) {
				found = e.Idx
				break
			}
		}
		if found == 0 {
			return nil, errors.Errorf("cell %d: no mesh edge matches subsolid segment (sIdx=%d)", raw.UserIdx, cs.trio.SIdx)
		}
		if _, dup := sMap[cs.trio.SIdx]; dup {
			return nil, errors.Errorf("cell %d: duplicate subsolid sIdx %d", raw.UserIdx, cs.trio.SIdx)
		}
		if _, dup := trios[found]; dup {
			return nil, errors.Errorf("cell %d: subsolid segment (sIdx=%d) authored twice", raw.UserIdx, cs.trio.SIdx)
		}
		trios[found] = cs.trio
		sMap[cs.trio.SIdx] = found
		coarseLocalIdx[i] = found
	}

	blobs, blobOf := buildBlobs(raw.Polygons, coarse, coarseLocalIdx)

	pMapRaw := make(map[int]bool)
	for _, cs := range coarse {
		if cs.color == LineInterface && cs.hasParity {
			pMapRaw[cs.neighborUser] = cs.parity
		}
	}

	return &builtCell{
		userIdx:   raw.UserIdx,
		dummy:     raw.Dummy,
		triangles: tris,
		walls:     walls,
		edges:     final,
		trios:     trios,
		sMap:      sMap,
		blobs:     blobs,
		blobOf:    blobOf,
		pMapRaw:   pMapRaw,
	}, nil
}

// buildBlobs groups consecutive INTERFACE segments around each polygon
// boundary that share the same raw neighbor cell into Blobs, recording
// the matched local edge index for each member segment.
func buildBlobs(polys [][]PolyPoint, coarse []coarseSeg, coarseLocalIdx []int) ([]Blob, map[int]int) {
	var blobs []Blob
	blobOf := make(map[int]int)

	ci := 0
	for _, poly := range polys {
		n := len(poly)
		// Walk the polygon's segments in order, collecting the slice of
		// (color, neighbor, localIdx) triples that belong to this polygon.
		type seg struct {
			color    LineColor
			neighbor int
			localIdx int
		}
		// coarse holds only the INTERFACE/EXIT segments, in polygon and
		// point order, so it advances only on those colors.
		segs := make([]seg, n)
		for i := 0; i < n; i++ {
			if poly[i].Color != LineInterface && poly[i].Color != LineExit {
				segs[i] = seg{color: poly[i].Color}
				continue
			}
			segs[i] = seg{color: coarse[ci].color, neighbor: coarse[ci].neighborUser, localIdx: coarseLocalIdx[ci]}
			ci++
		}

		i := 0
		for i < n {
			if segs[i].color != LineInterface {
				i++
				continue
			}
			j := i
			var members []int
			neighbor := segs[i].neighbor
			for j < n && segs[j].color == LineInterface && segs[j].neighbor == neighbor {
				members = append(members, segs[j].localIdx)
				j++
			}
			// A run may wrap around the polygon's start; only handled when
			// the whole polygon is a single run (j reached n starting at i=0).
			idx := len(blobs)
			blobs = append(blobs, Blob{NeighborCell: neighbor, EdgeIdxs: members})
			for _, m := range members {
				blobOf[m] = idx
			}
			i = j
		}
	}
	return blobs, blobOf
}

func checkSelfIntersections(walls []geomx.Line, coarse []coarseSeg) error {
	all := make([]geomx.Line, 0, len(walls)+len(coarse))
	all = append(all, walls...)
	for _, c := range coarse {
		all = append(all, c.line)
	}
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			if all[i].U.Equal(all[j].U) || all[i].U.Equal(all[j].V) ||
				all[i].V.Equal(all[j].U) || all[i].V.Equal(all[j].V) {
				continue // sharing an endpoint is normal adjacency
			}
			if geomx.IntersectsOrCloser(all[i], all[j]) {
				return errors.Errorf("polygon self-intersection within CPA between segments %v and %v", all[i], all[j])
			}
		}
	}
	return nil
}
