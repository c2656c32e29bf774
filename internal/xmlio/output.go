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
package xmlio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"simmer/internal/geometry"
	"simmer/internal/sim"
)

// WriteTrajectories writes the trajectory XML document to path: one
// <agent idx="..."> per agent keyed by its nominal (user-facing) index,
// one <cell idx="..."> per contiguous cell run on its path, one <point
// x=".." y=".."/> per recorded position. Index width 3, coordinates
// formatted %.2f, hand-built against a buffered writer rather than via
// a generic marshaler, since the numeric formatting contract is fixed
// and struct-tag marshaling can't express it.
func WriteTrajectories(path string, g *geometry.Geometry, agents []sim.Agent) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "xmlio: creating trajectory output")
	}
	defer f.Close()
	return EncodeTrajectories(f, g, agents)
}

// EncodeTrajectories writes the trajectory XML document to w.
func EncodeTrajectories(w io.Writer, g *geometry.Geometry, agents []sim.Agent) error {
	bw := bufio.NewWriter(w)
	fmt.Fprint(bw, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<agents>\n")
	for _, ag := range agents {
		fmt.Fprintf(bw, "  <agent idx=\"%03d\">\n", ag.NominalIdx)
		for _, run := range ag.Path {
			fmt.Fprintf(bw, "    <cell idx=\"%03d\">\n", g.UserIdx(run.CIdx))
			for _, p := range run.Points {
				fmt.Fprintf(bw, "      <point x=\"%.2f\" y=\"%.2f\"/>\n", p.X, p.Y)
			}
			fmt.Fprint(bw, "    </cell>\n")
		}
		fmt.Fprint(bw, "  </agent>\n")
	}
	fmt.Fprint(bw, "</agents>\n")
	return bw.Flush()
}
