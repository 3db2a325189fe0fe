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
	"time"
)

// Frame kinds, used for dispatch in a node's receive loop.
const (
	FrameHello = iota + 1
	FrameDV
	FrameSessionReq
	FrameSessionAck
	FrameData
)

// Frame is the common interface implemented by all five wire shapes.
// Every frame carries the id of the node that emitted it.
type Frame interface {
	Kind() int
	Src() int
	String() string
}

// DVEntry is one destination's advertised cost/next-hop pair, as sent
// in a DV frame's vector.
type DVEntry struct {
	Cost    float64
	NextHop int
}

// HelloFrame is the periodic neighbor-presence beacon.
type HelloFrame struct {
	SrcID int
	Pos   [3]float64
	Seq   uint64
}

func NewHelloFrame(src int, pos [3]float64, seq uint64) *HelloFrame {
	return &HelloFrame{SrcID: src, Pos: pos, Seq: seq}
}

func (f *HelloFrame) Kind() int { return FrameHello }
func (f *HelloFrame) Src() int  { return f.SrcID }
func (f *HelloFrame) String() string {
	return fmt.Sprintf("Hello{%d,#%d}", f.SrcID, f.Seq)
}

// DVFrame carries a node's full routing snapshot to its neighbors.
type DVFrame struct {
	SrcID  int
	Vector map[int]DVEntry
	Seq    uint64
}

func NewDVFrame(src int, vector map[int]DVEntry, seq uint64) *DVFrame {
	return &DVFrame{SrcID: src, Vector: vector, Seq: seq}
}

func (f *DVFrame) Kind() int { return FrameDV }
func (f *DVFrame) Src() int  { return f.SrcID }
func (f *DVFrame) String() string {
	return fmt.Sprintf("DV{%d,#%d,%d entries}", f.SrcID, f.Seq, len(f.Vector))
}

// pathFrame is embedded by the three handshake/data frame shapes; they
// all accumulate a forwarding path and a hop count the same way.
type pathFrame struct {
	Path     []int
	HopCount int
}

// AppendSelf appends self to the path unless it is already the last
// hop, so a node handling a frame appears in its path exactly once.
func (p *pathFrame) AppendSelf(self int) {
	if len(p.Path) == 0 || p.Path[len(p.Path)-1] != self {
		p.Path = append(p.Path, self)
	}
}

// SessionReqFrame is the first half of the handshake.
type SessionReqFrame struct {
	pathFrame
	SrcID     int
	DstID     int
	SessionID int64
	CreatedAt time.Time
}

func NewSessionReqFrame(src, dst int, sessionID int64, now time.Time) *SessionReqFrame {
	return &SessionReqFrame{
		SrcID:     src,
		DstID:     dst,
		SessionID: sessionID,
		CreatedAt: now,
	}
}

func (f *SessionReqFrame) Kind() int { return FrameSessionReq }
func (f *SessionReqFrame) Src() int  { return f.SrcID }
func (f *SessionReqFrame) String() string {
	return fmt.Sprintf("SessionReq{%d->%d,sid=%d,hops=%d}", f.SrcID, f.DstID, f.SessionID, f.HopCount)
}

// SessionAckFrame is the reply that traces back to the initiator.
type SessionAckFrame struct {
	pathFrame
	SrcID     int // responder (target)
	DstID     int // initiator
	SessionID int64
	Target    int // same as SrcID at creation time
	CreatedAt time.Time
}

func NewSessionAckFrame(responder, initiator int, sessionID int64, now time.Time) *SessionAckFrame {
	return &SessionAckFrame{
		SrcID:     responder,
		DstID:     initiator,
		SessionID: sessionID,
		Target:    responder,
		CreatedAt: now,
	}
}

func (f *SessionAckFrame) Kind() int { return FrameSessionAck }
func (f *SessionAckFrame) Src() int  { return f.SrcID }
func (f *SessionAckFrame) String() string {
	return fmt.Sprintf("SessionAck{%d->%d,sid=%d,hops=%d}", f.SrcID, f.DstID, f.SessionID, f.HopCount)
}

// DataFrame is application payload, emitted only after a handshake
// completes at the initiator.
type DataFrame struct {
	pathFrame
	SrcID     int
	DstID     int
	Payload   []byte
	CreatedAt time.Time
	ID        int64
}

func NewDataFrame(src, dst int, payload []byte, now time.Time, id int64) *DataFrame {
	return &DataFrame{
		SrcID:     src,
		DstID:     dst,
		Payload:   payload,
		CreatedAt: now,
		ID:        id,
	}
}

func (f *DataFrame) Kind() int { return FrameData }
func (f *DataFrame) Src() int  { return f.SrcID }
func (f *DataFrame) String() string {
	return fmt.Sprintf("Data{%d->%d,id=%d,hops=%d}", f.SrcID, f.DstID, f.ID, f.HopCount)
}
