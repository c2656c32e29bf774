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

// Package xmlio holds the geometry-input and trajectory-output XML
// (de)serialization boundary: a <geometry><partition> document in, an
// <agents> trajectory document out. Input is decoded with the stdlib
// encoding/xml; output is written by hand with fmt over a buffered
// writer. This boundary is deliberately external to the simulation
// core, and no third-party XML library is warranted for a schema this
// small.
package xmlio

import (
	"encoding/xml"
	"io"
	"os"

	"github.com/pkg/errors"

	"simmer/internal/geometry"
	"simmer/internal/geomx"
)

type xmlGeometry struct {
	XMLName   xml.Name       `xml:"geometry"`
	Partition *xmlPartition  `xml:"partition"`
}

type xmlPartition struct {
	Cells []xmlCell `xml:"cell"`
}

type xmlCell struct {
	Idx      int         `xml:"idx,attr"`
	Dummy    bool        `xml:"dummy,attr"`
	Polygons []xmlPolygon `xml:"polygon"`
}

type xmlPolygon struct {
	Points []xmlPoint `xml:"point"`
}

type xmlPoint struct {
	X       float64 `xml:"x,attr"`
	Y       float64 `xml:"y,attr"`
	LineCT  int     `xml:"lineCT,attr"`
	SIdx    *int    `xml:"sIdx,attr"`
	CIdx    *int    `xml:"cIdx,attr"`
	OIdx    *int    `xml:"oIdx,attr"`
	Parity  *bool   `xml:"parity,attr"`
}

// ReadGeometry parses an XML geometry document from path into the
// geometry.RawCell slice geometry.Build expects. Schema errors include
// missing/invalid partition, non-positive or duplicate cell index,
// invalid line-color code, missing/zero interface index triple.
func ReadGeometry(path string) ([]geometry.RawCell, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "xmlio: opening geometry input")
	}
	defer f.Close()
	return DecodeGeometry(f)
}

// DecodeGeometry parses an XML geometry document from r.
func DecodeGeometry(r io.Reader) ([]geometry.RawCell, error) {
	var doc xmlGeometry
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "xmlio: malformed geometry XML")
	}
	if doc.Partition == nil {
		return nil, errors.New("xmlio: geometry document missing <partition>")
	}
	if len(doc.Partition.Cells) == 0 {
		return nil, errors.New("xmlio: partition has no <cell> children")
	}

	raws := make([]geometry.RawCell, len(doc.Partition.Cells))
	seen := make(map[int]bool, len(doc.Partition.Cells))
	for i, xc := range doc.Partition.Cells {
		if xc.Idx <= 0 {
			return nil, errors.Errorf("xmlio: cell index %d must be positive", xc.Idx)
		}
		if seen[xc.Idx] {
			return nil, errors.Errorf("xmlio: duplicate cell index %d", xc.Idx)
		}
		seen[xc.Idx] = true
		if len(xc.Polygons) == 0 {
			return nil, errors.Errorf("xmlio: cell %d has no <polygon> children", xc.Idx)
		}
		raw := geometry.RawCell{UserIdx: xc.Idx, Dummy: xc.Dummy}
		raw.Polygons = make([][]geometry.PolyPoint, len(xc.Polygons))
		for pi, xp := range xc.Polygons {
			if len(xp.Points) < 3 {
				return nil, errors.Errorf("xmlio: cell %d polygon %d has fewer than 3 points", xc.Idx, pi)
			}
			pts := make([]geometry.PolyPoint, len(xp.Points))
			for k, xpt := range xp.Points {
				pp, err := convertPoint(xc.Idx, xpt)
				if err != nil {
					return nil, err
				}
				pts[k] = pp
			}
			raw.Polygons[pi] = pts
		}
		raws[i] = raw
	}
	return raws, nil
}

func convertPoint(cellIdx int, xpt xmlPoint) (geometry.PolyPoint, error) {
	var color geometry.LineColor
	switch xpt.LineCT {
	case 0:
		color = geometry.LineInterface
	case 1:
		color = geometry.LineExit
	case 2:
		color = geometry.LineSolid
	case 3:
		return geometry.PolyPoint{}, errors.Errorf("xmlio: cell %d: lineCT=3 (META) is never authored", cellIdx)
	default:
		return geometry.PolyPoint{}, errors.Errorf("xmlio: cell %d: invalid lineCT %d", cellIdx, xpt.LineCT)
	}

	pp := geometry.PolyPoint{
		Pos:   geomx.Point{X: xpt.X, Y: xpt.Y},
		Color: color,
	}

	if color == geometry.LineInterface || color == geometry.LineExit {
		if xpt.SIdx == nil || xpt.CIdx == nil || xpt.OIdx == nil {
			return geometry.PolyPoint{}, errors.Errorf("xmlio: cell %d: interface/exit point missing sIdx/cIdx/oIdx", cellIdx)
		}
		if *xpt.SIdx == 0 || *xpt.CIdx == 0 || *xpt.OIdx == 0 {
			return geometry.PolyPoint{}, errors.Errorf("xmlio: cell %d: interface/exit point has zero sIdx/cIdx/oIdx", cellIdx)
		}
		pp.SIdx = *xpt.SIdx
		pp.CIdx = *xpt.CIdx
		pp.OIdx = *xpt.OIdx
		pp.HasSIdx = true
		if xpt.Parity != nil {
			pp.Parity = *xpt.Parity
		}
	}
	return pp, nil
}
