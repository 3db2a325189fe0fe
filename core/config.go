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

// Config holds tuning knobs for the distance-vector routing engine.
// It is deliberately small: the bulk of simulation parameters (timing,
// mobility, MAC behavior) live in the swarm package.
type Config struct {
	// Epsilon is the tolerance used when comparing a candidate DV cost
	// against the existing route cost (rule 2 of ApplyDistanceVector).
	Epsilon float64 `json:"epsilon"`
}

// package-local configuration data (with default values)
var cfg = &Config{
	Epsilon: 1e-9,
}

// SetConfiguration installs c as the active routing configuration.
// Zero-valued fields fall back to the existing default.
func SetConfiguration(c *Config) {
	if c == nil {
		return
	}
	if c.Epsilon > 0 {
		cfg.Epsilon = c.Epsilon
	}
}
