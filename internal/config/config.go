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

// Package config holds the simulation's tunable constants and the
// hand-rolled -g/-o/-p command line grammar that populates them, in the
// same style as the program this one grew out of: flags are parsed by
// hand rather than through a flags framework, defaults are applied
// after parsing, and a malformed argument is a descriptive error rather
// than a panic.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

const (
	// CPA is the closest-point-of-approach tolerance shared with geomx.CPA.
	CPA = 1e-6
	// DptM is the maximum distance an agent may advance in a single step.
	DptM = 0.9
	// Imdw is the minimum initial distance from any wall an agent may be
	// placed at.
	Imdw = 0.3
	// DefaultAgents is the default agent population size.
	DefaultAgents = 400
	// DefaultSpt is the default number of Mesher Steiner-refinement passes.
	DefaultSpt = 4
	// Dichi is the number of midpoint-nearest candidate edges findLine
	// considers before picking a visible one.
	Dichi = 7
	// DefaultInnerThreads is the default Finder inner (per-cell Dijkstra
	// source) worker count.
	DefaultInnerThreads = 2
	// DefaultOuterThreads is the default Finder outer (per-cell) worker
	// count.
	DefaultOuterThreads = 4
	// DefaultSimThreads is the default Simmer round worker count.
	DefaultSimThreads = 7
)

// Config is the process-wide configuration populated by Parse. It is
// threaded explicitly through cmd/simmer as a value rather than kept in
// a package-level var, so packages never read global mutable state.
type Config struct {
	GeometryPath string
	OutputPath   string
	PlotPath     string

	Agents       int
	SubdivPasses int
	Seed         int64
	SeedSet      bool

	InnerThreads int
	OuterThreads int
	SimThreads   int

	Verbosity int
}

// Default returns a Config with every reference-design default applied,
// no paths set.
func Default() Config {
	return Config{
		Agents:       DefaultAgents,
		SubdivPasses: DefaultSpt,
		InnerThreads: DefaultInnerThreads,
		OuterThreads: DefaultOuterThreads,
		SimThreads:   DefaultSimThreads,
	}
}

// Parse reads args (conventionally os.Args[1:]) and returns a populated
// Config. -g and -o are required; -p is optional. Invalid or missing
// required arguments are reported as a descriptive error; the caller is
// expected to print it and exit(1).
func Parse(args []string) (Config, error) {
	c := Default()
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case hasPrefixValue(arg, "-g="):
			c.GeometryPath = valueOf(arg, "-g=")
		case arg == "-g":
			i++
			if i >= len(args) {
				return c, errors.New("-g requires a path argument")
			}
			c.GeometryPath = args[i]
		case hasPrefixValue(arg, "-o="):
			c.OutputPath = valueOf(arg, "-o=")
		case arg == "-o":
			i++
			if i >= len(args) {
				return c, errors.New("-o requires a path argument")
			}
			c.OutputPath = args[i]
		case hasPrefixValue(arg, "-p="):
			c.PlotPath = valueOf(arg, "-p=")
		case arg == "-p":
			i++
			if i >= len(args) {
				return c, errors.New("-p requires a path argument")
			}
			c.PlotPath = args[i]
		case hasPrefixValue(arg, "-agents="):
			n, err := atoi(valueOf(arg, "-agents="))
			if err != nil {
				return c, errors.Wrap(err, "-agents=")
			}
			c.Agents = n
		case hasPrefixValue(arg, "-spt="):
			n, err := atoi(valueOf(arg, "-spt="))
			if err != nil {
				return c, errors.Wrap(err, "-spt=")
			}
			c.SubdivPasses = n
		case hasPrefixValue(arg, "-seed="):
			n, err := atoi(valueOf(arg, "-seed="))
			if err != nil {
				return c, errors.Wrap(err, "-seed=")
			}
			c.Seed = int64(n)
			c.SeedSet = true
		case hasPrefixValue(arg, "-it="):
			n, err := atoi(valueOf(arg, "-it="))
			if err != nil {
				return c, errors.Wrap(err, "-it=")
			}
			c.InnerThreads = n
		case hasPrefixValue(arg, "-ot="):
			n, err := atoi(valueOf(arg, "-ot="))
			if err != nil {
				return c, errors.Wrap(err, "-ot=")
			}
			c.OuterThreads = n
		case hasPrefixValue(arg, "-jt="):
			n, err := atoi(valueOf(arg, "-jt="))
			if err != nil {
				return c, errors.Wrap(err, "-jt=")
			}
			c.SimThreads = n
		case hasPrefixValue(arg, "-v="):
			n, err := atoi(valueOf(arg, "-v="))
			if err != nil {
				return c, errors.Wrap(err, "-v=")
			}
			c.Verbosity = n
		default:
			return c, errors.Errorf("unrecognized argument %q", arg)
		}
	}

	if c.GeometryPath == "" {
		return c, errors.New("you must specify an input geometry file with -g")
	}
	if c.OutputPath == "" {
		return c, errors.New("you must specify an output trajectory file with -o")
	}

	if fi, err := os.Stat(c.GeometryPath); err != nil || fi.IsDir() {
		return c, errors.Errorf("input geometry file %q does not exist", c.GeometryPath)
	}
	outDir := filepath.Dir(c.OutputPath)
	if fi, err := os.Stat(outDir); err != nil || !fi.IsDir() {
		return c, errors.Errorf("output directory %q does not exist", outDir)
	}
	if c.PlotPath != "" {
		plotDir := filepath.Dir(c.PlotPath)
		if fi, err := os.Stat(plotDir); err != nil || !fi.IsDir() {
			return c, errors.Errorf("plot directory %q does not exist", plotDir)
		}
	}
	if !c.SeedSet {
		c.Seed = time.Now().UnixNano()
	}
	return c, nil
}

func hasPrefixValue(arg, prefix string) bool {
	return len(arg) > len(prefix) && arg[:len(prefix)] == prefix
}

func valueOf(arg, prefix string) string { return arg[len(prefix):] }

func atoi(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
