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
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"swarmsim/core"
)

// TraceSink is invoked exactly once per data delivery, with a copy of
// the delivered frame's forwarding path. It must tolerate concurrent
// calls from whichever node happens to be the final hop.
type TraceSink func(dst int, path []int, latency time.Duration, hops int)

// Node is one drone in the swarm: a position, a routing table, an
// inbox, and six cooperating tasks (mobility, hello, dv,
// neighbor watch, receive, application). Only this node's own tasks and the
// channel's delivery goroutines (via inbox.Push) touch its state.
type Node struct {
	ID  int
	cfg *NetworkCfg
	rng *RNG
	ch  *Channel
	rt  *core.RoutingTable

	inbox *Inbox

	posMu sync.RWMutex
	pos   Position

	// mobility state, touched only by mobilityTask
	target     Position
	speed      float64
	pausing    bool
	pauseUntil time.Time

	neighMu   sync.Mutex
	neighbors map[int]struct{}
	lastSeen  map[int]time.Time

	helloSeq atomic.Uint64
	dvSeq    atomic.Uint64

	generated atomic.Uint64
	delivered atomic.Uint64

	statsMu   sync.Mutex
	latencies []time.Duration
	hops      []int

	traceSink TraceSink

	wg sync.WaitGroup
}

// NewNode creates a node at pos, attached to ch via cfg/rng, with its
// own fresh routing table.
func NewNode(id int, pos Position, cfg *NetworkCfg, rng *RNG, ch *Channel) *Node {
	return &Node{
		ID:        id,
		cfg:       cfg,
		rng:       rng,
		ch:        ch,
		rt:        core.NewRoutingTable(id),
		inbox:     NewInbox(),
		pos:       pos,
		neighbors: make(map[int]struct{}),
		lastSeen:  make(map[int]time.Time),
	}
}

// Pos returns the node's current position. Safe to call from any
// goroutine, including the channel's delivery machinery.
func (n *Node) Pos() Position {
	n.posMu.RLock()
	defer n.posMu.RUnlock()
	return n.pos
}

func (n *Node) setPos(p Position) {
	n.posMu.Lock()
	n.pos = p
	n.posMu.Unlock()
}

// SetListener installs a routing-table event listener.
func (n *Node) SetListener(l core.Listener) {
	n.rt.SetListener(l)
}

// SetTraceSink installs the path-trace observer invoked on delivery.
func (n *Node) SetTraceSink(sink TraceSink) {
	n.traceSink = sink
}

// RoutingTable exposes the node's table for inspection (reports, rt
// dumps, tests). Callers must treat it as read-mostly.
func (n *Node) RoutingTable() *core.RoutingTable {
	return n.rt
}

// Neighbors returns a sorted snapshot of the current neighbor set,
// for observers and tests. The live set keeps changing underneath.
func (n *Node) Neighbors() []int {
	n.neighMu.Lock()
	defer n.neighMu.Unlock()
	out := make([]int, 0, len(n.neighbors))
	for id := range n.neighbors {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Generated and Delivered report the data-plane counters.
func (n *Node) Generated() uint64 { return n.generated.Load() }
func (n *Node) Delivered() uint64 { return n.delivered.Load() }

// Latencies and Hops return copies of the per-delivery samples
// recorded at this node, for report aggregation.
func (n *Node) Latencies() []time.Duration {
	n.statsMu.Lock()
	defer n.statsMu.Unlock()
	out := make([]time.Duration, len(n.latencies))
	copy(out, n.latencies)
	return out
}

func (n *Node) Hops() []int {
	n.statsMu.Lock()
	defer n.statsMu.Unlock()
	out := make([]int, len(n.hops))
	copy(out, n.hops)
	return out
}

func (n *Node) String() string {
	return fmt.Sprintf("Node{%d @ %s, %d routes}", n.ID, n.Pos(), n.rt.NumRoutes())
}

//----------------------------------------------------------------------
// Lifecycle
//----------------------------------------------------------------------

// Start launches the six cooperating tasks. It returns immediately;
// tasks run until ctx is cancelled.
func (n *Node) Start(ctx context.Context) {
	n.pickWaypoint()
	n.wg.Add(6)
	go n.mobilityTask(ctx)
	go n.helloTask(ctx)
	go n.dvTask(ctx)
	go n.neighborWatchTask(ctx)
	go n.rxLoop(ctx)
	go n.appTask(ctx)
}

// Wait blocks until every task has observed cancellation and
// returned. Call after cancelling the context the node was started
// with.
func (n *Node) Wait() {
	n.wg.Wait()
	n.inbox.Close()
}

// Deliver enqueues a frame addressed to this node. The channel is the
// only caller; it is the sole cross-task hand-off in the system.
func (n *Node) Deliver(f core.Frame) {
	n.inbox.Push(f)
}

//----------------------------------------------------------------------
// mobility task: random waypoint
//----------------------------------------------------------------------

func (n *Node) mobilityTask(ctx context.Context) {
	defer n.wg.Done()
	ticker := time.NewTicker(durationSeconds(n.cfg.MobilityStepS))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.advanceMobility()
		}
	}
}

func (n *Node) pickWaypoint() {
	n.target = Position{
		X: n.rng.Uniform(0, n.cfg.WorldWidth),
		Y: n.rng.Uniform(0, n.cfg.WorldHeight),
	}
	n.speed = n.rng.Uniform(n.cfg.SpeedLoMps, n.cfg.SpeedHiMps)
}

func (n *Node) advanceMobility() {
	now := time.Now()
	if n.pausing {
		if now.Before(n.pauseUntil) {
			return
		}
		n.pausing = false
		n.pickWaypoint()
		return
	}

	cur := n.Pos()
	dx := n.target.X - cur.X
	dy := n.target.Y - cur.Y
	dist := math.Hypot(dx, dy)
	step := n.speed * n.cfg.MobilityStepS

	if dist <= step {
		n.setPos(n.target)
		pause := n.rng.Uniform(n.cfg.WaypointPauseLoS, n.cfg.WaypointPauseHiS)
		n.pausing = true
		n.pauseUntil = now.Add(durationSeconds(pause))
		return
	}

	ratio := step / dist
	n.setPos(Position{X: cur.X + dx*ratio, Y: cur.Y + dy*ratio})
}

//----------------------------------------------------------------------
// hello / dv tasks: control plane
//----------------------------------------------------------------------

func (n *Node) helloTask(ctx context.Context) {
	defer n.wg.Done()
	ticker := time.NewTicker(durationSeconds(n.cfg.HelloPeriodS))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			seq := n.helloSeq.Add(1)
			pos := n.Pos()
			frame := core.NewHelloFrame(n.ID, [3]float64{pos.X, pos.Y, pos.Z}, seq)
			n.ch.Broadcast(n.ID, frame)
		}
	}
}

func (n *Node) dvTask(ctx context.Context) {
	defer n.wg.Done()
	ticker := time.NewTicker(durationSeconds(n.cfg.DVPeriodS))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			seq := n.dvSeq.Add(1)
			vector := n.rt.Snapshot()
			n.rt.Notify(&core.Event{Type: core.EvDVBroadcast, Ref: n.ID, Val: seq})
			frame := core.NewDVFrame(n.ID, vector, seq)
			n.ch.Broadcast(n.ID, frame)
		}
	}
}

//----------------------------------------------------------------------
// neighbor watch: aging
//----------------------------------------------------------------------

func (n *Node) neighborWatchTask(ctx context.Context) {
	defer n.wg.Done()
	period := n.cfg.NeighborTimeoutS / 3
	ticker := time.NewTicker(durationSeconds(period))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n.reapDeadNeighbors()
		}
	}
}

func (n *Node) reapDeadNeighbors() {
	now := time.Now()
	timeout := durationSeconds(n.cfg.NeighborTimeoutS)

	n.neighMu.Lock()
	var dead []int
	for id, ts := range n.lastSeen {
		if now.Sub(ts) > timeout {
			dead = append(dead, id)
		}
	}
	for _, id := range dead {
		delete(n.neighbors, id)
		delete(n.lastSeen, id)
	}
	n.neighMu.Unlock()

	for _, id := range dead {
		n.rt.PurgeNeighbor(id)
	}
}

func (n *Node) touchNeighbor(id int) {
	n.neighMu.Lock()
	defer n.neighMu.Unlock()
	n.neighbors[id] = struct{}{}
	n.lastSeen[id] = time.Now()
}

//----------------------------------------------------------------------
// receive loop: dispatch by frame variant
//----------------------------------------------------------------------

func (n *Node) rxLoop(ctx context.Context) {
	defer n.wg.Done()
	for {
		frame, ok := n.inbox.Pop(ctx)
		if !ok {
			return
		}
		switch f := frame.(type) {
		case *core.HelloFrame:
			n.touchNeighbor(f.SrcID)
			n.rt.EnsureOneHop(f.SrcID)
		case *core.DVFrame:
			n.rt.ApplyDistanceVector(f.SrcID, f.Vector)
		case *core.SessionReqFrame:
			n.handleSessionReq(f)
		case *core.SessionAckFrame:
			n.handleSessionAck(f)
		case *core.DataFrame:
			n.handleData(f)
		}
	}
}

//----------------------------------------------------------------------
// Forwarding handlers
//----------------------------------------------------------------------

// routeFrame looks up the route to dst and, if one exists, advances
// hopCount and unicasts frame to the next hop. A missing route is a
// silent drop: no retry, no report.
func (n *Node) routeFrame(dst int, frame core.Frame, hopCount *int) {
	route, ok := n.rt.Lookup(dst)
	if !ok {
		return
	}
	*hopCount++
	n.ch.Unicast(n.ID, route.NextHop, frame)
}

func (n *Node) handleSessionReq(f *core.SessionReqFrame) {
	f.AppendSelf(n.ID)
	if f.DstID == n.ID {
		ack := core.NewSessionAckFrame(n.ID, f.SrcID, f.SessionID, time.Now())
		ack.AppendSelf(n.ID)
		n.routeFrame(ack.DstID, ack, &ack.HopCount)
		return
	}
	n.routeFrame(f.DstID, f, &f.HopCount)
}

func (n *Node) handleSessionAck(f *core.SessionAckFrame) {
	f.AppendSelf(n.ID)
	if f.DstID == n.ID {
		if _, ok := n.rt.Lookup(f.Target); ok {
			payload := make([]byte, n.cfg.DataPayloadBytes)
			n.rng.Bytes(payload)
			id := int64(n.rng.Intn(10_000_000) + 1)
			data := core.NewDataFrame(n.ID, f.Target, payload, time.Now(), id)
			data.AppendSelf(n.ID)
			n.generated.Add(1)
			n.routeFrame(data.DstID, data, &data.HopCount)
		}
		return
	}
	n.routeFrame(f.DstID, f, &f.HopCount)
}

func (n *Node) handleData(f *core.DataFrame) {
	f.AppendSelf(n.ID)
	if f.DstID == n.ID {
		n.delivered.Add(1)
		latency := time.Since(f.CreatedAt)
		n.recordDelivery(latency, f.HopCount, core.Clone(f.Path))
		return
	}
	n.routeFrame(f.DstID, f, &f.HopCount)
}

func (n *Node) recordDelivery(latency time.Duration, hopCount int, path []int) {
	n.statsMu.Lock()
	n.latencies = append(n.latencies, latency)
	n.hops = append(n.hops, hopCount)
	n.statsMu.Unlock()

	if n.traceSink != nil {
		n.traceSink(n.ID, path, latency, hopCount)
	}
}

//----------------------------------------------------------------------
// application task: session initiation
//----------------------------------------------------------------------

func (n *Node) appTask(ctx context.Context) {
	defer n.wg.Done()
	ticker := time.NewTicker(durationSeconds(n.cfg.AppSendPeriodS))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for i := 0; i < n.cfg.AppPairsPeriod; i++ {
				n.initiateSession()
			}
		}
	}
}

func (n *Node) initiateSession() {
	dst := n.rng.Intn(n.cfg.NumNodes)
	if dst == n.ID {
		return
	}
	if !n.rt.Has(dst) {
		return
	}
	sessionID := int64(n.rng.Intn(10_000_000) + 1)
	req := core.NewSessionReqFrame(n.ID, dst, sessionID, time.Now())
	req.AppendSelf(n.ID)
	n.routeFrame(dst, req, &req.HopCount)
}
