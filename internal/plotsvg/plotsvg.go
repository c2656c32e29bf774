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

// Package plotsvg renders the geometry and agent trajectories to a
// single SVG document for visual debugging. This is hand-built element
// construction over a buffered writer rather than a generic templating
// engine, consistent with how this repo builds its other output
// formats by hand.
package plotsvg

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"

	"simmer/internal/geometry"
	"simmer/internal/geomx"
	"simmer/internal/sim"
)

// DMAX is the target size (in SVG user units) of the longer bounding-
// box dimension; the whole drawing is scaled to fit it with a 1%
// offset on each side.
const DMAX = 2000.0

// Colors configures the plot's stroke/fill colors; Default() matches
// the reference palette.
type Colors struct {
	Background string
	Meta       string
	Interface  string
	Exit       string
	Wall       string
	Agent      string
	AgentStart string
	AgentEnd   string
}

// Default returns the reference color palette.
func Default() Colors {
	return Colors{
		Background: "#ffffff",
		Meta:       "#cccccc",
		Interface:  "#3366cc",
		Exit:       "#cc3333",
		Wall:       "#000000",
		Agent:      "#33aa33",
		AgentStart: "#0000ff",
		AgentEnd:   "#ff0000",
	}
}

type transform struct {
	minX, minY float64
	scale      float64
}

func (t transform) apply(p geomx.Point) (float64, float64) {
	return (p.X - t.minX) * t.scale, (p.Y - t.minY) * t.scale
}

// WritePlot renders g and the agents' recorded trajectories to path.
func WritePlot(path string, g *geometry.Geometry, agents []sim.Agent, colors Colors) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "plotsvg: creating plot output")
	}
	defer f.Close()
	return Encode(f, g, agents, colors)
}

// Encode renders g and the agents' trajectories as SVG to w.
func Encode(w io.Writer, g *geometry.Geometry, agents []sim.Agent, colors Colors) error {
	t := computeTransform(g)

	bw := bufio.NewWriter(w)
	width, height := 0.0, 0.0
	for c := 0; c < g.NumCells(); c++ {
		for _, l := range g.Walls(c) {
			for _, p := range []geomx.Point{l.U, l.V} {
				x, y := t.apply(p)
				width = math.Max(width, x)
				height = math.Max(height, y)
			}
		}
	}
	if width > 0 || height > 0 {
		// Far-side margin matching computeTransform's near-side offset:
		// 1% of the span, which scales to DMAX/100.
		width += DMAX * 0.01
		height += DMAX * 0.01
	}

	fmt.Fprint(bw, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	fmt.Fprintf(bw, "<svg xmlns=\"http://www.w3.org/2000/svg\" width=\"%.2f\" height=\"%.2f\">\n", width, height)
	fmt.Fprintf(bw, "  <rect x=\"0\" y=\"0\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\"/>\n", width, height, colors.Background)

	writeGroup(bw, "meta", colors.Meta, "", metaLines(g), t)
	writeGroup(bw, "interface", colors.Interface, "6,4", interfaceLines(g), t)
	writeGroup(bw, "exit", colors.Exit, "6,4", exitLines(g), t)
	writeGroup(bw, "walls", colors.Wall, "", wallLines(g), t)

	for _, ag := range agents {
		writeAgent(bw, ag, colors, t)
	}

	fmt.Fprint(bw, "</svg>\n")
	return bw.Flush()
}

func computeTransform(g *geometry.Geometry) transform {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	consider := func(p geomx.Point) {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	for c := 0; c < g.NumCells(); c++ {
		for _, l := range g.Walls(c) {
			consider(l.U)
			consider(l.V)
		}
		for _, e := range g.Nosos(c) {
			consider(e.Line.U)
			consider(e.Line.V)
		}
	}
	if math.IsInf(minX, 1) {
		return transform{scale: 1}
	}
	spanX := maxX - minX
	spanY := maxY - minY
	span := math.Max(spanX, spanY)
	if span == 0 {
		span = 1
	}
	scale := DMAX / span
	pad := span * 0.01
	return transform{minX: minX - pad, minY: minY - pad, scale: scale}
}

func metaLines(g *geometry.Geometry) []geomx.Line {
	var out []geomx.Line
	for c := 0; c < g.NumCells(); c++ {
		for _, e := range g.Nosos(c) {
			if _, ok := g.IsSubsolid(c, e.Idx); !ok {
				out = append(out, e.Line)
			}
		}
	}
	return out
}

func interfaceLines(g *geometry.Geometry) []geomx.Line {
	var out []geomx.Line
	for c := 0; c < g.NumCells(); c++ {
		for _, e := range g.Nosos(c) {
			if g.IsInterface(c, e.Idx) {
				out = append(out, e.Line)
			}
		}
	}
	return out
}

func exitLines(g *geometry.Geometry) []geomx.Line {
	var out []geomx.Line
	for c := 0; c < g.NumCells(); c++ {
		for _, e := range g.Nosos(c) {
			if g.IsExit(c, e.Idx) {
				out = append(out, e.Line)
			}
		}
	}
	return out
}

func wallLines(g *geometry.Geometry) []geomx.Line {
	var out []geomx.Line
	for c := 0; c < g.NumCells(); c++ {
		out = append(out, g.Walls(c)...)
	}
	return out
}

func writeGroup(bw *bufio.Writer, class, color, dash string, lines []geomx.Line, t transform) {
	fmt.Fprintf(bw, "  <g class=\"%s\" stroke=\"%s\" fill=\"none\">\n", class, color)
	for _, l := range lines {
		x1, y1 := t.apply(l.U)
		x2, y2 := t.apply(l.V)
		if dash != "" {
			fmt.Fprintf(bw, "    <path d=\"M%.2f,%.2f L%.2f,%.2f\" stroke-dasharray=\"%s\"/>\n", x1, y1, x2, y2, dash)
		} else {
			fmt.Fprintf(bw, "    <path d=\"M%.2f,%.2f L%.2f,%.2f\"/>\n", x1, y1, x2, y2)
		}
	}
	fmt.Fprint(bw, "  </g>\n")
}

func writeAgent(bw *bufio.Writer, ag sim.Agent, colors Colors, t transform) {
	var pts []geomx.Point
	for _, run := range ag.Path {
		pts = append(pts, run.Points...)
	}
	if len(pts) == 0 {
		return
	}
	fmt.Fprintf(bw, "  <polyline points=\"")
	for _, p := range pts {
		x, y := t.apply(p)
		fmt.Fprintf(bw, "%.2f,%.2f ", x, y)
	}
	fmt.Fprintf(bw, "\" fill=\"none\" stroke=\"%s\"/>\n", colors.Agent)

	sx, sy := t.apply(pts[0])
	ex, ey := t.apply(pts[len(pts)-1])
	fmt.Fprintf(bw, "  <circle cx=\"%.2f\" cy=\"%.2f\" r=\"3\" fill=\"%s\"/>\n", sx, sy, colors.AgentStart)
	fmt.Fprintf(bw, "  <circle cx=\"%.2f\" cy=\"%.2f\" r=\"3\" fill=\"%s\"/>\n", ex, ey, colors.AgentEnd)
}
