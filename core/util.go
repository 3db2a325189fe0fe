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

//----------------------------------------------------------------------
// generic array helpers, used to hand observers an independent copy of
// a delivered frame's path (the frame itself stays mutable while it is
// being forwarded).
//----------------------------------------------------------------------

// Clone creates a new slice with the same content as the argument.
func Clone[T []E, E any](d T) T {
	if d == nil {
		return nil
	}
	r := make(T, len(d))
	copy(r, d)
	return r
}

// Equal returns true if two slices have the same length and content.
func Equal[T []E, E comparable](a, b T) bool {
	if len(a) != len(b) {
		return false
	}
	for i, e := range a {
		if e != b[i] {
			return false
		}
	}
	return true
}
