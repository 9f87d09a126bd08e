// This file contains the types describing ghost sample data and the
// richer CtnGhost entity that carries it alongside race metadata and
// recorded control-input events.

package gbx

import (
	"math"

	"github.com/gbxkit/gbx/gbxcore"
)

// GhostSample is one recorded driving frame.
type GhostSample struct {
	Position    Vector3
	Angle       uint16
	AxisHeading int16
	AxisPitch   int16

	// Speed is the raw wire value. 0x8000 is the "idle" sentinel: it
	// displays as 0 regardless of the formula in DisplaySpeed.
	Speed int16

	VelHeading int8
	VelPitch   int8

	// RawData is whatever trailing bytes remained in this sample's declared
	// size after the fixed fields above were read. Its length depends on
	// the sample-size table computed while decoding (see gbxparser/ghost.go).
	RawData []byte
}

// idleSpeed is the sentinel wire value meaning "ghost is stationary".
const idleSpeed = int16(-0x8000) // 0x8000 as a signed int16

// DisplaySpeed returns the speed as it would be shown in the race UI
// (km/h, rounded toward zero, clamped to [0, 1000]).
func (s GhostSample) DisplaySpeed() int {
	if s.Speed == idleSpeed {
		return 0
	}
	v := int(math.Abs(math.Exp(float64(s.Speed)/1000.0) * 3.6))
	switch {
	case v < 0:
		return 0
	case v > 1000:
		return 1000
	default:
		return v
	}
}

// Ghost models a CGameGhost node: a sample stream with a fixed recording
// period, with no race-specific metadata attached.
type Ghost struct {
	ClassID gbxcore.ClassID

	// SamplePeriod is the recording interval in milliseconds.
	SamplePeriod uint32

	Samples []GhostSample
}

// EntityClassID implements Entity.
func (g *Ghost) EntityClassID() gbxcore.ClassID { return g.ClassID }

// ControlEntry is one recorded control-input event.
type ControlEntry struct {
	// Time is milliseconds, already biased: wire_value - 100000.
	Time int32

	// EventName is the entry of CtnGhost.ControlNames that the wire's name
	// index selects; empty if the index is out of range.
	EventName string

	Enabled uint16
	Flags   uint16
}

// CtnGhost models a CGameCtnGhost node: a Ghost extended with race results,
// player identity, and recorded control-input events.
type CtnGhost struct {
	Ghost

	RaceTime      uint32
	NumRespawns   uint32
	LightTrailRGB Vector3
	StuntsScore   uint32

	// Uid is the ghost's lookback-string unique id.
	Uid string

	// Login is the player login. For a replay-header version >= 8, this is
	// read tentatively from chunk 0x0309200E and rolled back on failure;
	// it is also set directly by chunk 0x0309200F when present.
	Login string

	// CPTimes holds checkpoint split times (milliseconds).
	CPTimes []uint32

	ControlNames   []string
	ControlEntries []ControlEntry

	GameVersion string

	// EventsDuration is 0 when no control-event block was present (or it
	// was present but declared zero duration).
	EventsDuration uint32

	// IsManiaplanet is set when the control-event chunk used the
	// Maniaplanet variant (0x03092025 / 0x2401B011) rather than the
	// legacy one (0x03092019 / 0x2401B019).
	IsManiaplanet bool
}
