// This file contains the types describing a Challenge (map) and the blocks
// and items placed on it.

package gbx

import "github.com/gbxkit/gbx/gbxcore"

// MedalTimes are the race times (milliseconds) required for each medal.
// A zero value for a field means the medal time was not set.
type MedalTimes struct {
	Bronze int32
	Silver int32
	Gold   int32
	Author int32
}

// CheckpointEntry is one entry of a challenge's checkpoint order list
// (chunk 0x03043017). The second and third wire values are unknown/unused,
// preserved only so the record shape matches the wire layout.
type CheckpointEntry struct {
	Value  uint32
	Extra1 uint32
	Extra2 uint32
}

// MapBlock is one block placement read from a challenge body.
type MapBlock struct {
	// Name is the block's lookback-string name. Blocks named "Unassigned1"
	// are never appended to Challenge.Blocks (see the flags invariant).
	Name string

	// Rotation is the 0-3 block rotation (one of the four 90 degree steps).
	Rotation byte

	// Position is the block's grid coordinates.
	Position BytePos

	// Flags is the raw wire flags value, 16 or 32 bits wide depending on
	// the challenge's version (see Challenge.Flags).
	Flags uint32

	// SkinAuthor is the lookback-string author of a custom skin, if any
	// (flags bit 0x8000).
	SkinAuthor string

	// Skin is the node index of a referenced skin node (legacy layout,
	// flags < TM2). -1 if absent.
	Skin int32

	// Params is the node index of a referenced parameter node
	// (flags bit 0x100000). -1 if absent.
	Params int32

	// Waypoint is attached when this block carries a waypoint special
	// property (order/finish/checkpoint/start).
	Waypoint *WaypointSpecialProperty
}

// BlockItem is one free item placement (chunk 0x03043040).
type BlockItem struct {
	Path       string
	Collection string
	Author     string
	Rotation   float32
	Position   Vector3
	Waypoint   *WaypointSpecialProperty
}

// Challenge models a CGameCtnChallenge node: a TrackMania map.
type Challenge struct {
	ClassID gbxcore.ClassID

	UID         string
	Environment string
	Author      string
	Name        string
	Mood        string
	EnvBg       string
	EnvAuthor   string

	// MapSize is the (x, y, z) block-grid size.
	MapSize [3]int32

	ReqUnlock int32

	// Flags is the raw challenge-version-carrying flags value read right
	// before the block list; besides gating block-flag width (>0 means
	// 32-bit block flags), it also gates the TM2 block-skin layout
	// (flags >= 6).
	Flags int32

	Times MedalTimes

	Blocks []MapBlock
	Items  []BlockItem

	CheckpointOrder []CheckpointEntry

	// Community is attached from the parser-local community string
	// (user-data chunk 0x03043005 / 0x24003005), if one was present.
	Community string

	// PasswordReserved is always empty: the wire carries 16 reserved bytes
	// (once an MD5 password hash) plus a 4-byte CRC that this parser never
	// computes, per spec. Kept only to document the skip, not to surface
	// data.
	PasswordReserved struct{}
}

// EntityClassID implements Entity.
func (c *Challenge) EntityClassID() gbxcore.ClassID { return c.ClassID }

// BlockCount returns len(Blocks), the count of placed blocks excluding
// "Unassigned1" and end-of-sequence markers.
func (c *Challenge) BlockCount() int {
	return len(c.Blocks)
}

