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
	"encoding/json"
	"os"

	"swarmsim/core"
)

// NetworkCfg describes the radio/world and application traffic shape.
type NetworkCfg struct {
	NumNodes    int     `json:"numNodes"`
	WorldWidth  float64 `json:"worldWidth"`
	WorldHeight float64 `json:"worldHeight"`
	CommRange   float64 `json:"commRange"`

	HelloPeriodS   float64 `json:"helloPeriodS"`
	DVPeriodS      float64 `json:"dvPeriodS"`
	MobilityStepS  float64 `json:"mobilityStepS"`
	AppSendPeriodS float64 `json:"appSendPeriodS"`
	AppPairsPeriod int     `json:"appPairsPerPeriod"`
	SimTimeS       float64 `json:"simTimeS"`

	SpeedLoMps float64 `json:"speedLoMps"`
	SpeedHiMps float64 `json:"speedHiMps"`

	WaypointPauseLoS float64 `json:"waypointPauseLoS"`
	WaypointPauseHiS float64 `json:"waypointPauseHiS"`

	ChannelJitterLoS  float64 `json:"channelJitterLoS"`
	ChannelJitterHiS  float64 `json:"channelJitterHiS"`
	ChannelBaseDelayS float64 `json:"channelBaseDelayS"`
	PropSpeedMps      float64 `json:"propSpeedMps"`
	MaxPerHopDelayS   float64 `json:"maxPerHopDelayS"`

	MacMinBackoffS float64 `json:"macMinBackoffS"`
	MacMaxBackoffS float64 `json:"macMaxBackoffS"`
	MacSlotS       float64 `json:"macSlotS"`
	MacTxDurationS float64 `json:"macTxDurationS"`

	NeighborTimeoutS float64 `json:"neighborTimeoutS"`
	DataPayloadBytes int     `json:"dataPayloadBytes"`

	Seed int64 `json:"seed"`
}

// RenderCfg controls the optional SVG render of the final network
// state (see the visual package).
type RenderCfg struct {
	File          string `json:"file"`
	TraceMax      int    `json:"traceMax"`
	RTDumpNodes   []int  `json:"rtDumpNodes"`
	VerboseEvents bool   `json:"verboseEvents"`
}

// Config aggregates every simulation tunable.
type Config struct {
	Core   *core.Config `json:"core"`
	Net    *NetworkCfg  `json:"network"`
	Render *RenderCfg   `json:"render"`
}

// Cfg is the global, mutable default configuration.
var Cfg = &Config{
	Core: &core.Config{
		Epsilon: 1e-9,
	},
	Net: &NetworkCfg{
		NumNodes:    4,
		WorldWidth:  1000.0,
		WorldHeight: 700.0,
		CommRange:   260.0,

		HelloPeriodS:   0.6,
		DVPeriodS:      1.2,
		MobilityStepS:  0.20,
		AppSendPeriodS: 1.6,
		AppPairsPeriod: 2,
		SimTimeS:       120.0,

		SpeedLoMps: 10.0,
		SpeedHiMps: 22.0,

		WaypointPauseLoS: 0.0,
		WaypointPauseHiS: 0.4,

		ChannelJitterLoS:  0.002,
		ChannelJitterHiS:  0.020,
		ChannelBaseDelayS: 0.001,
		PropSpeedMps:      3e8,
		MaxPerHopDelayS:   0.015,

		MacMinBackoffS: 0.001,
		MacMaxBackoffS: 0.006,
		MacSlotS:       0.001,
		MacTxDurationS: 0.003,

		NeighborTimeoutS: 2.0,
		DataPayloadBytes: 32,

		Seed: 42,
	},
	Render: &RenderCfg{
		TraceMax: 600,
	},
}

// ReadConfig deserializes a configuration from a JSON file, merging
// onto the existing defaults in Cfg (unset fields keep their default).
func ReadConfig(fn string) error {
	data, err := os.ReadFile(fn)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, Cfg)
}
