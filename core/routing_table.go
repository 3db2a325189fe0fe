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

package core

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

//----------------------------------------------------------------------
// Distance-vector routing table: one entry per destination, holding
// the cost (hop count), the next hop towards it and the time the
// entry was last updated. A node's own entry (cost 0, next hop self)
// always exists and is never purged.
//
// Routes are created on Hello or DV receipt (EnsureOneHop), refined by
// later DV relaxations (ApplyDistanceVector) and destroyed when their
// next hop's liveness expires (PurgeNeighbor).
//----------------------------------------------------------------------

// Route is one routing table entry.
type Route struct {
	Cost      float64
	NextHop   int
	UpdatedAt time.Time
}

// String returns a human-readable representation.
func (r Route) String() string {
	return fmt.Sprintf("{hop=%d,cost=%.1f}", r.NextHop, r.Cost)
}

// RoutingTable is a node's distance-vector table, keyed by destination
// node id. It is safe for concurrent use.
type RoutingTable struct {
	mu       sync.RWMutex
	self     int
	routes   map[int]*Route
	listener Listener
}

// NewRoutingTable creates a table for node self, pre-populated with
// the mandatory self-route (cost 0, next hop self).
func NewRoutingTable(self int) *RoutingTable {
	tbl := &RoutingTable{
		self:   self,
		routes: make(map[int]*Route),
	}
	tbl.routes[self] = &Route{Cost: 0, NextHop: self, UpdatedAt: time.Now()}
	return tbl
}

// SetListener installs an event listener. Pass nil to remove it.
func (tbl *RoutingTable) SetListener(l Listener) {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	tbl.listener = l
}

func (tbl *RoutingTable) notify(ev *Event) {
	if tbl.listener != nil {
		ev.Self = tbl.self
		tbl.listener(ev)
	}
}

// Notify fires ev through the installed listener. It lets a caller
// outside the table report on routing state it doesn't itself mutate,
// such as a node announcing it is about to broadcast its vector.
func (tbl *RoutingTable) Notify(ev *Event) {
	tbl.mu.RLock()
	l := tbl.listener
	tbl.mu.RUnlock()
	if l != nil {
		ev.Self = tbl.self
		l(ev)
	}
}

// Lookup returns the route to dest and whether it exists.
func (tbl *RoutingTable) Lookup(dest int) (Route, bool) {
	tbl.mu.RLock()
	defer tbl.mu.RUnlock()
	r, ok := tbl.routes[dest]
	if !ok {
		return Route{}, false
	}
	return *r, true
}

// Has reports whether a route to dest exists.
func (tbl *RoutingTable) Has(dest int) bool {
	_, ok := tbl.Lookup(dest)
	return ok
}

// Snapshot returns the advertised vector: dest -> (cost, next hop), a
// copy safe to hand to a DV broadcast.
func (tbl *RoutingTable) Snapshot() map[int]DVEntry {
	tbl.mu.RLock()
	defer tbl.mu.RUnlock()
	out := make(map[int]DVEntry, len(tbl.routes))
	for dest, r := range tbl.routes {
		out[dest] = DVEntry{Cost: r.Cost, NextHop: r.NextHop}
	}
	return out
}

// Destinations returns the sorted list of known destinations,
// including self.
func (tbl *RoutingTable) Destinations() []int {
	tbl.mu.RLock()
	defer tbl.mu.RUnlock()
	out := make([]int, 0, len(tbl.routes))
	for dest := range tbl.routes {
		out = append(out, dest)
	}
	sort.Ints(out)
	return out
}

// EnsureOneHop installs a direct (cost 1.0) route to neighbor if no
// route exists yet, or the existing route is costlier than one hop.
// Called on every Hello receipt and as a prelude to DV relaxation.
func (tbl *RoutingTable) EnsureOneHop(neighbor int) {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()
	tbl.ensureOneHopLocked(neighbor)
}

func (tbl *RoutingTable) ensureOneHopLocked(neighbor int) {
	if neighbor == tbl.self {
		return
	}
	existing, ok := tbl.routes[neighbor]
	if !ok || existing.Cost > 1.0 {
		isNew := !ok
		tbl.routes[neighbor] = &Route{Cost: 1.0, NextHop: neighbor, UpdatedAt: time.Now()}
		if isNew {
			tbl.notify(&Event{Type: EvNeighborAdded, Ref: neighbor})
		} else {
			tbl.notify(&Event{Type: EvNeighborUpdated, Ref: neighbor})
		}
	}
}

// ApplyDistanceVector performs one round of Bellman-Ford relaxation
// against the vector advertised by neighbor src.
//
// It first ensures a one-hop route to src exists, then for every
// destination in their_vector (excluding self) installs a route via
// src when any of:
//  1. no route to dest exists yet,
//  2. the cost via src is strictly cheaper (within epsilon),
//  3. src is already the next hop to dest (accept the refresh even if
//     cost increased, so routes track topology changes instead of
//     getting stuck on a stale optimistic cost).
func (tbl *RoutingTable) ApplyDistanceVector(src int, vector map[int]DVEntry) {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()

	tbl.ensureOneHopLocked(src)

	now := time.Now()
	for dest, adv := range vector {
		if dest == tbl.self {
			continue
		}
		costViaSrc := 1.0 + adv.Cost
		existing, ok := tbl.routes[dest]

		install := false
		switch {
		case !ok:
			install = true
		case costViaSrc+cfg.Epsilon < existing.Cost:
			install = true
		case existing.NextHop == src:
			install = true
		}
		if !install {
			continue
		}
		tbl.routes[dest] = &Route{Cost: costViaSrc, NextHop: src, UpdatedAt: now}
		tbl.notify(&Event{Type: EvRouteInstalled, Ref: dest, Val: costViaSrc})
	}
}

// PurgeNeighbor removes a dead neighbor from the table: first the
// direct route to it (if it is still its own next hop), then every
// transitive route that depends on it as next hop.
func (tbl *RoutingTable) PurgeNeighbor(neighbor int) {
	tbl.mu.Lock()
	defer tbl.mu.Unlock()

	if r, ok := tbl.routes[neighbor]; ok && r.NextHop == neighbor {
		delete(tbl.routes, neighbor)
	}
	for dest, r := range tbl.routes {
		if r.NextHop == neighbor {
			delete(tbl.routes, dest)
			tbl.notify(&Event{Type: EvRoutePurged, Ref: dest})
		}
	}
	tbl.notify(&Event{Type: EvNeighborExpired, Ref: neighbor})
}

// NumRoutes returns the number of known destinations, including self.
func (tbl *RoutingTable) NumRoutes() int {
	tbl.mu.RLock()
	defer tbl.mu.RUnlock()
	return len(tbl.routes)
}

// String returns a sorted, human-readable dump of the table.
func (tbl *RoutingTable) String() string {
	tbl.mu.RLock()
	defer tbl.mu.RUnlock()
	dests := make([]int, 0, len(tbl.routes))
	for d := range tbl.routes {
		dests = append(dests, d)
	}
	sort.Ints(dests)
	out := "["
	for i, d := range dests {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%d:%s", d, tbl.routes[d])
	}
	return out + "]"
}
