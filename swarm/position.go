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

import "fmt"

// Position is a node's location in the field. Altitude is always 0;
// the z coordinate exists so beacons and the distance formula stay
// 3-dimensional without a special case.
type Position struct {
	X, Y, Z float64
}

// Distance2 returns the squared Euclidean distance to pos; it skips
// the square root, so it is the cheaper choice when only a range
// comparison is needed.
func (p Position) Distance2(pos Position) float64 {
	dx := p.X - pos.X
	dy := p.Y - pos.Y
	dz := p.Z - pos.Z
	return dx*dx + dy*dy + dz*dz
}

func (p Position) String() string {
	return fmt.Sprintf("(%.2f,%.2f,%.2f)", p.X, p.Y, p.Z)
}
