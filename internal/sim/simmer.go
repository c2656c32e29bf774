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
	"math"
	"math/rand"
	"sync"

	"github.com/pkg/errors"

	"simmer/internal/config"
	"simmer/internal/geometry"
	"simmer/internal/geomx"
	"simmer/internal/routing"
	"simmer/internal/simlog"
)

// IdxTypeMax is the "unbounded hops" sentinel Actuator passes to
// Router.FindVisible.
const IdxTypeMax = math.MaxInt32

// maxPlacementAttempts bounds the candidate-edge-midpoint re-roll loop
// in New: a geometry in which no non-solid edge midpoint lies at least
// Imdw from every wall of its cell can never satisfy IsInsideCellX, so
// placement must give up rather than spin forever.
const maxPlacementAttempts = 10000

// Simmer holds the agent population and drives it round by round: a
// double-buffered work queue (iQue/oQue) and per-cell visibility view
// (iVue/oVue), a fixed-size worker pool, and an Intervene hook called
// once between rounds.
type Simmer struct {
	g      *geometry.Geometry
	router *routing.Router
	agents []Agent
	dptM   float64
	threads int

	// Intervene is called once per round, after buffers are swapped and
	// before the next round starts. The default is a no-op; this stays
	// available as an extension point.
	Intervene func(*Simmer)

	rounds int
}

// New places numAgents agents at random non-solid edge midpoints of
// non-dummy cells and returns a ready-to-run Simmer. rng is the only
// random source placement draws from (not math/rand's global source),
// so runs are reproducible given the same seed; it is used only here
// and not kept on the Simmer.
func New(g *geometry.Geometry, router *routing.Router, numAgents int, dptM float64, threads int, rng *rand.Rand) (*Simmer, error) {
	var candidates []int
	for c := 0; c < g.NumCells(); c++ {
		if !g.IsDummy(c) && g.NumNosos(c) > 0 {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return nil, errors.New("sim: no non-dummy cell has any non-solid edge to place an agent on")
	}

	var alloc Allocator
	agents := make([]Agent, numAgents)
	for i := 0; i < numAgents; i++ {
		var c, s int
		var pos geomx.Point
		placed := false
		for attempt := 0; attempt < maxPlacementAttempts; attempt++ {
			c = candidates[rng.Intn(len(candidates))]
			s = rng.Intn(g.NumNosos(c)) + 1
			pos = g.EdgeLine(c, s).Mid()
			if g.IsInsideCellX(c, pos, config.Imdw) {
				placed = true
				break
			}
		}
		if !placed {
			return nil, errors.Errorf("sim: could not place agent %d at least %v from a wall after %d attempts", i, config.Imdw, maxPlacementAttempts)
		}
		id := alloc.Next()
		ag := Agent{
			ID:         id,
			NominalIdx: id + 1,
			CIdx:       c,
			Pos:        pos,
		}
		ag.appendPoint(c, pos)
		agents[i] = ag
	}

	return &Simmer{
		g:       g,
		router:  router,
		agents:  agents,
		dptM:    dptM,
		threads: threads,
	}, nil
}

// Agents returns the simulation's final agent slice, valid after Run
// returns.
func (s *Simmer) Agents() []Agent { return s.agents }

// Run drives the simulation to completion: rounds continue until no
// agent moved, i.e. the swapped-in output queue is empty. The
// parity-shift double-barrier collapses naturally here because each
// round's worker pool is closed and fully drained (sync.WaitGroup)
// before the main goroutine swaps buffers -- no worker is ever
// mid-step when the swap happens.
func (s *Simmer) Run(logger *simlog.Logger) {
	n := len(s.agents)
	iQue := make([]int, n)
	for i := range iQue {
		iQue[i] = i
	}
	iVue := make([][]Claim, s.g.NumCells())
	for i := range s.agents {
		ag := &s.agents[i]
		iVue[ag.CIdx] = append(iVue[ag.CIdx], Claim{Pos: ag.Pos})
	}

	for len(iQue) > 0 {
		oQue := make([]int, 0, len(iQue))
		oVue := make([][]Claim, s.g.NumCells())
		var queMu, vueMu sync.Mutex

		workChan := make(chan int)
		var wg sync.WaitGroup
		threads := s.threads
		if threads < 1 {
			threads = 1
		}
		for w := 0; w < threads; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				var mini simlog.MiniLogger
				for idx := range workChan {
					s.step(idx, iVue, &oQue, &oVue, &queMu, &vueMu)
					mini.Printf("agent %d stepped\n", s.agents[idx].ID)
				}
				mini.MergeInto(logger)
			}()
		}
		for _, idx := range iQue {
			workChan <- idx
		}
		close(workChan)
		wg.Wait()

		s.rounds++
		if logger != nil {
			logger.Verbose(1, "round %d: %d agents stepped, %d queued for next round", s.rounds, len(iQue), len(oQue))
		}
		iQue = oQue
		iVue = oVue

		if s.Intervene != nil {
			s.Intervene(s)
		}
	}
}
