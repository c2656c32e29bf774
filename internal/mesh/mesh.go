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

// Package mesh turns a cell's polygons (outer boundary plus obstacle
// holes) into a fine edge set. It leans on github.com/osuushi/triangulate
// as the black-box constrained Delaunay triangulator; everything
// downstream of that one call -- Steiner refinement, half-edge
// construction, neighbor wiring -- is ours.
package mesh

import (
	"github.com/pkg/errors"

	"github.com/osuushi/triangulate"

	"simmer/internal/geomx"
)

// Triangle is three points, CCW or CW as produced by the triangulator.
type Triangle struct {
	A, B, C geomx.Point
}

// Edge is one mesh-interior half-edge: its two endpoints (U<=V per
// geomx.Line's invariant), its own 1-based index, and up to four
// 1-based neighbor edge indices (0 = null). The first two neighbor
// slots are wired to the other two edges of the parent triangle at
// construction time; the Augmenter fills slots 3-4 when an edge turns
// out to be a "diamond" shared with another triangle.
type Edge struct {
	Line      geomx.Line
	Idx       int
	Neighbors [4]int
}

// Mesher owns a cell's polygon set and exposes both mesh construction
// modes: the zeroth-order triangulation and the refined edge mesh.
type Mesher struct {
	Polygons [][]geomx.Point // first = outer CCW boundary, rest = holes
}

// New builds a Mesher over the given polygons.
func New(polygons [][]geomx.Point) *Mesher {
	return &Mesher{Polygons: polygons}
}

// ZerothOrderTriangles triangulates the polygons with no refinement,
// for use in point-in-cell containment tests.
func (m *Mesher) ZerothOrderTriangles() ([]Triangle, error) {
	return m.triangulate(m.Polygons)
}

// Mesh refines the zeroth-order triangulation spt times, each pass
// adding one Steiner point per triangle at lerp(u, midpoint(v,w), 2/3)
// and splitting that triangle into three around it, then emits three
// directed half-edges per final triangle with lex-ordered endpoints and
// neighbor slots wired to the other two edges of the same triangle.
func (m *Mesher) Mesh(spt int) ([]Edge, error) {
	tris, err := m.triangulate(m.Polygons)
	if err != nil {
		return nil, err
	}
	for pass := 0; pass < spt; pass++ {
		tris = refine(tris)
	}
	return buildHalfEdges(tris), nil
}

// triangulate calls into the black-box CDT library: the first polygon
// is wound CCW and taken as solid, the rest are wound CW and taken as
// holes, matching osuushi/triangulate's contract.
func (m *Mesher) triangulate(polygons [][]geomx.Point) ([]Triangle, error) {
	if len(polygons) == 0 {
		return nil, errors.New("mesh: no polygons given")
	}
	pointLists := make([][]*triangulate.Point, len(polygons))
	for i, poly := range polygons {
		if len(poly) < 3 {
			return nil, errors.Errorf("mesh: polygon %d has fewer than 3 vertices", i)
		}
		pts := make([]*triangulate.Point, len(poly))
		for j, p := range poly {
			pts[j] = &triangulate.Point{X: p.X, Y: p.Y}
		}
		pointLists[i] = pts
	}
	tris, err := triangulate.Triangulate(pointLists...)
	if err != nil {
		return nil, errors.Wrap(err, "constrained triangulation failed")
	}
	out := make([]Triangle, len(tris))
	for i, t := range tris {
		out[i] = Triangle{
			A: geomx.Point{X: t.A.X, Y: t.A.Y},
			B: geomx.Point{X: t.B.X, Y: t.B.Y},
			C: geomx.Point{X: t.C.X, Y: t.C.Y},
		}
	}
	return out, nil
}

// refine replaces each triangle with three smaller ones around a
// centroid-biased Steiner point, preserving the triangle's original
// boundary (so constraint edges from the CDT pass are never disturbed).
func refine(tris []Triangle) []Triangle {
	out := make([]Triangle, 0, len(tris)*3)
	for _, t := range tris {
		steiner := steinerPoint(t)
		out = append(out,
			Triangle{A: t.A, B: t.B, C: steiner},
			Triangle{A: t.B, B: t.C, C: steiner},
			Triangle{A: t.C, B: t.A, C: steiner},
		)
	}
	return out
}

// steinerPoint returns lerp(u, midpoint(v,w), 2/3) -- 2/3 of the way
// from u to the midpoint of the opposite side -- using A as u.
func steinerPoint(t Triangle) geomx.Point {
	mid := geomx.Lerp(t.B, t.C, 0.5)
	return geomx.Lerp(t.A, mid, 2.0/3.0)
}

// buildHalfEdges emits three directed half-edges per triangle,
// lex-ordering each edge's endpoints and wiring 1-based neighbor slots
// 1,2 to the other two edges of the same triangle.
func buildHalfEdges(tris []Triangle) []Edge {
	edges := make([]Edge, 0, len(tris)*3)
	for _, t := range tris {
		base := len(edges)
		e1 := geomx.NewLine(t.A, t.B)
		e2 := geomx.NewLine(t.B, t.C)
		e3 := geomx.NewLine(t.C, t.A)
		edges = append(edges,
			Edge{Line: e1, Idx: base + 1, Neighbors: [4]int{base + 2, base + 3, 0, 0}},
			Edge{Line: e2, Idx: base + 2, Neighbors: [4]int{base + 1, base + 3, 0, 0}},
			Edge{Line: e3, Idx: base + 3, Neighbors: [4]int{base + 1, base + 2, 0, 0}},
		)
	}
	return edges
}
