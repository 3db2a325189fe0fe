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

package swarm

import (
	"context"
	"fmt"
	"log"
	"time"

	"swarmsim/core"
)

// Simulation owns the channel and the node population and drives the
// build/run/report lifecycle.
type Simulation struct {
	cfg   *NetworkCfg
	rng   *RNG
	ch    *Channel
	nodes []*Node

	Verbose bool
}

// NewSimulation builds num_nodes nodes with positions from place,
// attaches each to a freshly created channel. This is the "Build
// phase" of a run.
func NewSimulation(cfg *NetworkCfg, seed int64, place Placement) *Simulation {
	rng := NewRNG(seed)
	ch := NewChannel(cfg, rng)
	if place == nil {
		place = RandomPlacement(cfg, rng)
	}

	sim := &Simulation{cfg: cfg, rng: rng, ch: ch}
	for i := 0; i < cfg.NumNodes; i++ {
		n := NewNode(i, place(i), cfg, rng, ch)
		ch.Attach(n)
		sim.nodes = append(sim.nodes, n)
	}
	return sim
}

// Nodes returns the node population, in id order.
func (s *Simulation) Nodes() []*Node {
	return s.nodes
}

// Node returns the node with the given id, or nil.
func (s *Simulation) Node(id int) *Node {
	for _, n := range s.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// AttachListener installs a routing-table event listener on every
// node, for observability during the run.
func (s *Simulation) AttachListener(l core.Listener) {
	for _, n := range s.nodes {
		n.SetListener(l)
	}
}

// AttachTraceSink installs the path-trace observer on every node.
func (s *Simulation) AttachTraceSink(sink TraceSink) {
	for _, n := range s.nodes {
		n.SetTraceSink(sink)
	}
}

// Run starts every node's tasks and blocks for sim_time_s, then
// cancels all tasks and waits for them to unwind.
func (s *Simulation) Run(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, durationSeconds(s.cfg.SimTimeS))
	defer cancel()

	if s.Verbose {
		log.Printf("swarmsim: starting %d nodes for %.1fs", len(s.nodes), s.cfg.SimTimeS)
	}
	for _, n := range s.nodes {
		n.Start(runCtx)
	}

	<-runCtx.Done()

	for _, n := range s.nodes {
		n.Wait()
	}
	s.ch.Wait()

	if s.Verbose {
		log.Printf("swarmsim: all tasks stopped")
	}
}

// Report aggregates per-node counters into the run totals.
type Report struct {
	Generated     uint64
	Delivered     uint64
	DeliveryRatio float64
	AvgLatencyS   float64
	AvgHops       float64
}

// Report computes the final summary over every node's counters.
func (s *Simulation) Report() Report {
	var r Report
	var latSum time.Duration
	var hopSum, samples int

	for _, n := range s.nodes {
		r.Generated += n.Generated()
		r.Delivered += n.Delivered()
		for _, lat := range n.Latencies() {
			latSum += lat
			samples++
		}
		for _, h := range n.Hops() {
			hopSum += h
		}
	}

	if r.Generated > 0 {
		r.DeliveryRatio = float64(r.Delivered) / float64(r.Generated)
	}
	if samples > 0 {
		r.AvgLatencyS = latSum.Seconds() / float64(samples)
		r.AvgHops = float64(hopSum) / float64(samples)
	}
	return r
}

// String renders the report summary: delivery ratio to 3 places,
// latency to 4, hops to 3.
func (r Report) String() string {
	return fmt.Sprintf(
		"generated=%d delivered=%d ratio=%.3f avg_latency_s=%.4f avg_hops=%.3f",
		r.Generated, r.Delivered, r.DeliveryRatio, r.AvgLatencyS, r.AvgHops,
	)
}
