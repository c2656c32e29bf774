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

// Command simmer reads a partitioned-geometry XML document, routes it,
// runs a population of agents across it to completion, and writes their
// trajectories back out as XML.
package main

import (
	"fmt"
	"math/rand"
	"os"

	"simmer/internal/config"
	"simmer/internal/geometry"
	"simmer/internal/plotsvg"
	"simmer/internal/routing"
	"simmer/internal/sim"
	"simmer/internal/simlog"
	"simmer/internal/xmlio"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run is main's testable body; it returns the process exit code instead
// of calling os.Exit directly.
func run(args []string) int {
	cfg, err := config.Parse(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simmer: %v\n", err)
		return 1
	}

	logger := simlog.New(cfg.Verbosity)

	raws, err := xmlio.ReadGeometry(cfg.GeometryPath)
	if err != nil {
		logger.Error("%v", err)
		return 1
	}

	g, err := geometry.Build(raws, cfg.SubdivPasses)
	if err != nil {
		logger.Error("%v", err)
		return 1
	}
	logger.Verbose(1, "geometry built: %d cells", g.NumCells())

	router := routing.Build(g, cfg.OuterThreads, cfg.InnerThreads, logger)
	logger.Verbose(1, "router built")

	rng := rand.New(rand.NewSource(cfg.Seed))
	simmer, err := sim.New(g, router, cfg.Agents, config.DptM, cfg.SimThreads, rng)
	if err != nil {
		logger.Error("%v", err)
		return 1
	}

	simmer.Run(logger)
	logger.Verbose(1, "simulation complete")

	if err := xmlio.WriteTrajectories(cfg.OutputPath, g, simmer.Agents()); err != nil {
		logger.Error("%v", err)
		return 1
	}

	if cfg.PlotPath != "" {
		if err := plotsvg.WritePlot(cfg.PlotPath, g, simmer.Agents(), plotsvg.Default()); err != nil {
			logger.Error("%v", err)
			return 1
		}
	}

	return 0
}
