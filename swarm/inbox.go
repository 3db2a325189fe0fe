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
	"container/list"
	"context"
	"sync"

	"swarmsim/core"
)

// Inbox is an unbounded FIFO mailbox for a single node. It is the only
// cross-task hand-off point in the system: the channel's
// delivery goroutines push into it, the node's own receive loop pops from
// it. Push never blocks; Pop blocks until a frame arrives or ctx is
// cancelled.
type Inbox struct {
	mu     sync.Mutex
	cond   *sync.Cond
	frames *list.List
	closed bool
}

// NewInbox creates an empty inbox.
func NewInbox() *Inbox {
	in := &Inbox{frames: list.New()}
	in.cond = sync.NewCond(&in.mu)
	return in
}

// Push enqueues a frame. It is a no-op on a closed inbox, so a frame
// in flight to a node that is being torn down is simply dropped
// instead of corrupting teardown state.
func (in *Inbox) Push(f core.Frame) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.closed {
		return
	}
	in.frames.PushBack(f)
	in.cond.Signal()
}

// Pop removes and returns the oldest frame, blocking until one is
// available. It returns false if ctx is done or the inbox is closed
// before a frame arrives.
func (in *Inbox) Pop(ctx context.Context) (core.Frame, bool) {
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			in.mu.Lock()
			in.cond.Broadcast()
			in.mu.Unlock()
		case <-done:
		}
	}()
	defer close(done)

	in.mu.Lock()
	defer in.mu.Unlock()
	for in.frames.Len() == 0 && !in.closed {
		if ctx.Err() != nil {
			return nil, false
		}
		in.cond.Wait()
	}
	if in.frames.Len() == 0 {
		return nil, false
	}
	elem := in.frames.Front()
	in.frames.Remove(elem)
	return elem.Value.(core.Frame), true
}

// Close marks the inbox closed and wakes any blocked Pop.
func (in *Inbox) Close() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.closed = true
	in.cond.Broadcast()
}
