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
package sim

import (
	"sync"

	"simmer/internal/geomx"
	"simmer/internal/routing"
)

// step is one agent's per-round action. It reads (but doesn't yet act
// on) the inbound visibility view under vueMu, performs the agent's
// visibility walk and advances it, then -- if the agent isn't done --
// publishes its new claim into oVue and pushes its own index back onto
// oQue, both under their respective mutexes.
func (s *Simmer) step(idx int, iVue [][]Claim, oQue *[]int, oVue *[][]Claim, queMu, vueMu *sync.Mutex) {
	ag := &s.agents[idx]
	if ag.done {
		return
	}

	vueMu.Lock()
	_ = iVue[ag.CIdx] // reserved for future inter-agent avoidance; unused
	vueMu.Unlock()

	vis := s.router.FindVisible(ag.CIdx, ag.Pos, IdxTypeMax)
	if len(vis.Lines) == 0 {
		ag.done = true
		return
	}

	lastCell := vis.Cells[len(vis.Cells)-1]
	exitInSight := s.g.IsExit(lastCell.CIdx, lastCell.SIdx)
	dptA := vis.Lines[0].Len()

	dpt := dptA
	if dpt > s.dptM {
		dpt = s.dptM
	}
	if exitInSight {
		dpt = s.dptM
	}

	if exitInSight && dptA < dpt {
		final := vis.Lines[len(vis.Lines)-1]
		ag.Pos = final.V
		ag.Vel = unitDir(final)
		ag.Dpt = dptA
		ag.CIdx = lastCell.CIdx
		ag.appendPoint(ag.CIdx, ag.Pos)
		ag.done = true
		return
	}

	if s.g.IsDummy(ag.CIdx) {
		ag.done = true
		return
	}

	ratio := 1.0
	if dptA > 0 {
		ratio = dpt / dptA
	}
	pt, dir, i, ok := routing.FindCell(s.g, vis.Lines, vis.Cells, ratio)
	if !ok {
		ag.done = true
		return
	}

	ag.Pos = pt
	ag.Vel = dir
	ag.Dpt = dpt
	ag.CIdx = vis.Cells[i].CIdx
	ag.appendPoint(ag.CIdx, ag.Pos)

	queMu.Lock()
	*oQue = append(*oQue, idx)
	queMu.Unlock()

	vueMu.Lock()
	(*oVue)[ag.CIdx] = append((*oVue)[ag.CIdx], Claim{Pos: ag.Pos, Vel: ag.Vel.Scale(ag.Dpt)})
	vueMu.Unlock()
}

func unitDir(l geomx.Line) geomx.Point {
	d := l.Dir()
	n := d.Len()
	if n == 0 {
		return d
	}
	return d.Scale(1 / n)
}
