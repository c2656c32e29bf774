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

// Package sim drives the population of agents across the routed mesh:
// per-round worker pool (Simmer) and per-agent step logic (Actuator).
package sim

import (
	"simmer/internal/geomx"
)

// CellRun is one contiguous run of recorded positions an agent spent
// inside a single cell, in the order visited.
type CellRun struct {
	CIdx   int
	Points []geomx.Point
}

// Claim is what an agent publishes into a cell's visibility view each
// time it steps into that cell: its new position and its velocity
// scaled by its step distance. Read by every other agent stepping
// through the same cell next round, but not acted upon yet -- reserved
// for future inter-agent avoidance.
type Claim struct {
	Pos geomx.Point
	Vel geomx.Point
}

// Agent is one simulated pedestrian. Every field but NominalIdx mutates
// round over round; Path is append-only.
type Agent struct {
	ID         int // dense id, 0-based, assigned once at creation
	NominalIdx int // user-facing index, preserved end-to-end for output

	CIdx int
	Pos  geomx.Point
	Vel  geomx.Point
	Dpt  float64

	Path []CellRun

	done bool // reached an exit or got stuck; never re-enqueued again
}

// appendPoint records pt as the agent's latest position, starting a
// new CellRun if the agent just changed cells.
func (a *Agent) appendPoint(cIdx int, pt geomx.Point) {
	if len(a.Path) == 0 || a.Path[len(a.Path)-1].CIdx != cIdx {
		a.Path = append(a.Path, CellRun{CIdx: cIdx})
	}
	last := &a.Path[len(a.Path)-1]
	last.Points = append(last.Points, pt)
}

// Allocator hands out agent ids deterministically: explicit state held
// on the Simmer that owns it, rather than a package-level counter.
type Allocator struct {
	next int
}

// Next returns the next dense id, starting at 0.
func (a *Allocator) Next() int {
	id := a.next
	a.next++
	return id
}
