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
	"sync"
	"time"

	"swarmsim/swarm"
)

// PathTraceSink collects the most recent delivery paths, bounded to
// max entries, for a post-run render. Older traces are dropped as new
// ones arrive so a long simulation's trace set stays renderable.
type PathTraceSink struct {
	mu    sync.Mutex
	max   int
	paths [][]int
}

// NewPathTraceSink creates a sink retaining at most max paths. max<=0
// means unbounded.
func NewPathTraceSink(max int) *PathTraceSink {
	return &PathTraceSink{max: max}
}

// Sink is a swarm.TraceSink suitable for swarm.Simulation.AttachTraceSink.
func (s *PathTraceSink) Sink() swarm.TraceSink {
	return func(dst int, path []int, latency time.Duration, hops int) {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.paths = append(s.paths, path)
		if s.max > 0 && len(s.paths) > s.max {
			s.paths = s.paths[len(s.paths)-s.max:]
		}
	}
}

// Paths returns a copy of the currently retained delivery paths.
func (s *PathTraceSink) Paths() [][]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]int, len(s.paths))
	copy(out, s.paths)
	return out
}
