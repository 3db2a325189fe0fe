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

// Placement describes how to place the i-th node at build time.
type Placement func(i int) Position

// RandomPlacement scatters nodes uniformly across the world rectangle
// described by cfg, using rng for the draws.
func RandomPlacement(cfg *NetworkCfg, rng *RNG) Placement {
	return func(i int) Position {
		return Position{
			X: rng.Uniform(0, cfg.WorldWidth),
			Y: rng.Uniform(0, cfg.WorldHeight),
		}
	}
}

// FixedPlacement returns the i-th entry of positions verbatim, used by
// scenario tests that pin exact starting coordinates.
func FixedPlacement(positions []Position) Placement {
	return func(i int) Position {
		return positions[i]
	}
}
