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

package visual

import (
	"fmt"

	"swarmsim/swarm"
)

// RenderNetwork draws every node, its comm-range ring, and the direct
// routes it currently holds, plus any recorded delivery traces, onto
// c. Nodes are drawn after the route lines so their ids stay legible.
func RenderNetwork(c Canvas, cfg *swarm.NetworkCfg, nodes []*swarm.Node, traces [][]int) {
	margin := cfg.CommRange * 0.1
	c.Open()
	c.Start(cfg.WorldWidth+2*margin, cfg.WorldHeight+2*margin)
	defer c.End()

	byID := make(map[int]*swarm.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	for _, path := range traces {
		drawPath(c, byID, path, margin)
	}

	for _, n := range nodes {
		pos := n.Pos()
		for _, dest := range n.RoutingTable().Destinations() {
			route, ok := n.RoutingTable().Lookup(dest)
			if !ok || route.Cost != 1.0 || dest == n.ID {
				continue
			}
			peer, ok := byID[dest]
			if !ok {
				continue
			}
			p2 := peer.Pos()
			c.Line(pos.X+margin, pos.Y+margin, p2.X+margin, p2.Y+margin, 0.5, ClrGray)
		}
	}

	for _, n := range nodes {
		pos := n.Pos()
		x, y := pos.X+margin, pos.Y+margin
		c.Circle(x, y, cfg.CommRange, 0.2, ClrGray, nil)
		c.Circle(x, y, 4, 0, nil, ClrBlue)
		c.Text(x, y-cfg.CommRange*0.06, cfg.CommRange*0.08, fmt.Sprintf("%d", n.ID))
	}
}

func drawPath(c Canvas, byID map[int]*swarm.Node, path []int, margin float64) {
	for i := 0; i+1 < len(path); i++ {
		a, aok := byID[path[i]]
		b, bok := byID[path[i+1]]
		if !aok || !bok {
			continue
		}
		pa, pb := a.Pos(), b.Pos()
		c.Line(pa.X+margin, pa.Y+margin, pb.X+margin, pb.Y+margin, 1.2, ClrTrace)
	}
}
