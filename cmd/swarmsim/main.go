//----------------------------------------------------------------------
// This file is part of swarmsim.
// Copyright (C) 2026 the swarmsim authors
//
// swarmsim is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// swarmsim is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later
//----------------------------------------------------------------------

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"swarmsim/core"
	"swarmsim/swarm"
	"swarmsim/visual"
)

func main() {
	var (
		configFile string
		svgFile    string
		seed       int64
		quiet      bool
		rtDump     string
	)
	flag.StringVar(&configFile, "c", "", "configuration file (JSON)")
	flag.StringVar(&svgFile, "svg", "", "write a final-state SVG snapshot to this file")
	flag.Int64Var(&seed, "seed", 0, "override the configured RNG seed (0 keeps config value)")
	flag.BoolVar(&quiet, "quiet", false, "suppress routing-table event logging")
	flag.StringVar(&rtDump, "rt-dump", "", "comma-separated node ids to dump routing tables for at shutdown")
	flag.Parse()

	if configFile != "" {
		if err := swarm.ReadConfig(configFile); err != nil {
			log.Fatalf("swarmsim: reading config %s: %v", configFile, err)
		}
	}
	if seed != 0 {
		swarm.Cfg.Net.Seed = seed
	}
	core.SetConfiguration(swarm.Cfg.Core)
	if svgFile != "" {
		swarm.Cfg.Render.File = svgFile
	}

	log.Printf("swarmsim: building %d nodes in a %.0fx%.0fm field", swarm.Cfg.Net.NumNodes, swarm.Cfg.Net.WorldWidth, swarm.Cfg.Net.WorldHeight)
	sim := swarm.NewSimulation(swarm.Cfg.Net, swarm.Cfg.Net.Seed, nil)
	sim.Verbose = !quiet

	if !quiet {
		sim.AttachListener(func(ev *core.Event) {
			log.Printf("rt: node=%d type=%d ref=%d val=%v", ev.Self, ev.Type, ev.Ref, ev.Val)
		})
	}

	trace := visual.NewPathTraceSink(swarm.Cfg.Render.TraceMax)
	sim.AttachTraceSink(trace.Sink())

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("swarmsim: interrupted, shutting down")
		cancel()
	}()

	sim.Run(ctx)
	cancel()

	report := sim.Report()
	fmt.Println(report.String())

	for _, id := range parseIDs(rtDump) {
		n := sim.Node(id)
		if n == nil {
			log.Printf("rt-dump: node %d not found", id)
			continue
		}
		fmt.Printf("node %d: %s\n", id, n.RoutingTable().String())
	}

	if swarm.Cfg.Render.File != "" {
		canvas := visual.NewSVGCanvas(swarm.Cfg.Render.File)
		visual.RenderNetwork(canvas, swarm.Cfg.Net, sim.Nodes(), trace.Paths())
		log.Printf("swarmsim: wrote snapshot to %s", swarm.Cfg.Render.File)
	}
}

func parseIDs(s string) []int {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.Atoi(p)
		if err != nil {
			log.Printf("rt-dump: skipping invalid id %q", p)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
