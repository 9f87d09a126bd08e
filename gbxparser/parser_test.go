package gbxparser

import (
	"testing"

	"github.com/gbxkit/gbx"
)

// TestCheckMagicAccepts covers spec §8 end-to-end scenario 1's accept case.
func TestCheckMagicAccepts(t *testing.T) {
	r := newReader([]byte{0x47, 0x42, 0x58, 0x00}, nil)
	if err := checkMagic(r); err != nil {
		t.Fatalf("checkMagic() = %v, want nil", err)
	}
}

// TestCheckMagicRejects covers spec §8 end-to-end scenario 1's reject case.
func TestCheckMagicRejects(t *testing.T) {
	r := newReader([]byte{0x47, 0x42, 0x59}, nil)
	err := checkMagic(r)
	if _, ok := err.(*InvalidMagicError); !ok {
		t.Fatalf("checkMagic() = %v (%T), want *InvalidMagicError", err, err)
	}
}

// TestMedalTimesChunk covers spec §8 end-to-end scenario 2.
func TestMedalTimesChunk(t *testing.T) {
	var data []byte
	for _, v := range []int32{20000, 18000, 16000, 15000} {
		data = append(data, u32le(uint32(v))...)
	}
	data = append(data, u32le(0)...)

	r := newReader(data, nil)
	c := &gbx.Challenge{}
	chunkMedalTimes(nil, r, c, -1)

	want := gbx.MedalTimes{Bronze: 20000, Silver: 18000, Gold: 16000, Author: 15000}
	if c.Times != want {
		t.Fatalf("Times = %+v, want %+v", c.Times, want)
	}
}

// TestControlEventManiaplanet covers spec §8 end-to-end scenario 3.
func TestControlEventManiaplanet(t *testing.T) {
	var data []byte
	data = append(data, u32le(0)...)     // version-gate skip(4) for the 0x03092025 prefix
	data = append(data, u32le(60000)...) // events_duration
	data = append(data, u32le(0)...)     // skip(4)
	data = append(data, u32le(2)...)     // num_control_names
	// Control names as fresh lookback introductions ("Accelerate", "Brake").
	data = append(data, u32le(0)...)
	data = append(data, strField("Accelerate")...)
	data = append(data, u32le(0)...)
	data = append(data, strField("Brake")...)
	data = append(data, u32le(1)...) // num_entries
	data = append(data, u32le(0)...) // skip(4)
	data = append(data, u32le(100500)...)
	data = append(data, 1) // name_index -> "Brake"
	data = append(data, u32le(1)[:2]...)
	data = append(data, u32le(0)[:2]...)
	data = append(data, strField("1.0.0")...)
	data = append(data, make([]byte, 12)...)
	data = append(data, strField("")...)
	data = append(data, u32le(0)...)

	r := newReader(data, nil)
	r.lookbackInit = true

	ghost := &gbx.CtnGhost{}
	decodeControlEvents(r, ghost, 0x03092025)

	if !ghost.IsManiaplanet {
		t.Fatalf("IsManiaplanet = false, want true")
	}
	if ghost.EventsDuration != 60000 {
		t.Fatalf("EventsDuration = %d, want 60000", ghost.EventsDuration)
	}
	if len(ghost.ControlEntries) != 1 {
		t.Fatalf("ControlEntries = %+v, want 1 entry", ghost.ControlEntries)
	}
	entry := ghost.ControlEntries[0]
	if entry.Time != 500 || entry.EventName != "Brake" || entry.Enabled != 1 || entry.Flags != 0 {
		t.Fatalf("entry = %+v, want {Time:500 EventName:Brake Enabled:1 Flags:0}", entry)
	}
}

// TestBlockFlagsWidth covers spec §8 end-to-end scenario 5: challenge
// flags gate whether a block's own flags field is read as u16 or u32.
func TestBlockFlagsWidth(t *testing.T) {
	for _, tc := range []struct {
		name        string
		challengeFl int32
		flagBytes   []byte
		want        uint32
	}{
		{"u32 width when flags>0", 5, u32le(0x1234), 0x1234},
		{"u16 width when flags==0", 0, []byte{0x34, 0x12}, 0x1234},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var data []byte
			data = append(data, u32le(3)...) // lookback version prefix
			data = append(data, u32le(0x40000000)...)
			data = append(data, strField("MyBlock")...)
			data = append(data, 0) // rotation
			data = append(data, 0, 0, 0) // position
			data = append(data, tc.flagBytes...)

			r := newReader(data, nil)
			c := &gbx.Challenge{Flags: tc.challengeFl}
			block, endOfSequence := decodeMapBlock(nil, r, c)
			if endOfSequence {
				t.Fatalf("decodeMapBlock reported end-of-sequence")
			}
			if block == nil {
				t.Fatalf("decodeMapBlock returned nil")
			}
			if block.Flags != tc.want {
				t.Fatalf("Flags = 0x%X, want 0x%X", block.Flags, tc.want)
			}
		})
	}
}

// TestMapBlockEndOfSequenceMarker covers the 0xFFFFFFFF boundary test: the
// block is not appended and the wire still only consumes the fixed header
// fields (name/rotation/position/flags), nothing more.
func TestMapBlockEndOfSequenceMarker(t *testing.T) {
	var data []byte
	data = append(data, u32le(3)...)
	data = append(data, u32le(0x40000000)...)
	data = append(data, strField("SomeBlock")...)
	data = append(data, 0, 0, 0, 0)
	data = append(data, u32le(0xFFFFFFFF)...)

	r := newReader(data, nil)
	c := &gbx.Challenge{Flags: 5}
	block, endOfSequence := decodeMapBlock(nil, r, c)
	if !endOfSequence {
		t.Fatalf("decodeMapBlock did not report end-of-sequence")
	}
	if block != nil {
		t.Fatalf("decodeMapBlock returned %+v, want nil for end-of-sequence marker", block)
	}
	if r.Len() != 0 {
		t.Fatalf("unread bytes remain: %d", r.Len())
	}
}

// TestChallengeBodyBlockLoopSkipsSentinelWithoutCounting covers the
// maintainer-flagged regression: a 0xFFFFFFFF sentinel encountered before
// numBlocks blocks have been counted must not advance the loop counter, so
// the true blocks that follow are still read (spec §3, gbx.py:461-483's
// `continue`).
func TestChallengeBodyBlockLoopSkipsSentinelWithoutCounting(t *testing.T) {
	var data []byte
	data = append(data, u32le(3)...) // lookback version prefix
	// uid, environment, author: empty lookback references
	for i := 0; i < 3; i++ {
		data = append(data, u32le(0xFFFFFFFF)...)
	}
	data = append(data, strField("Map")...) // name
	// mood, env_bg, env_author: empty lookback references
	for i := 0; i < 3; i++ {
		data = append(data, u32le(0xFFFFFFFF)...)
	}
	for _, v := range []uint32{1, 1, 1, 0, 5} { // map size, req_unlock, flags
		data = append(data, u32le(v)...)
	}
	data = append(data, u32le(2)...) // numBlocks

	// First counted slot: a 0xFFFFFFFF sentinel, must not count.
	data = append(data, u32le(0x40000000)...)
	data = append(data, strField("Sentinel")...)
	data = append(data, 0, 0, 0, 0)
	data = append(data, u32le(0xFFFFFFFF)...)

	// Two real blocks must still be read to satisfy numBlocks==2.
	for _, name := range []string{"BlockA", "BlockB"} {
		data = append(data, u32le(0)...)
		data = append(data, strField(name)...)
		data = append(data, 0, 0, 0, 0)
		data = append(data, u32le(0)...)
	}

	r := newReader(data, nil)
	ctx := newParseContext(DefaultConfig)
	c := &gbx.Challenge{}
	chunkChallengeBody(ctx, r, c, -1)
	blocks := c.Blocks

	if len(blocks) != 2 || blocks[0].Name != "BlockA" || blocks[1].Name != "BlockB" {
		t.Fatalf("blocks = %+v, want [BlockA BlockB]", blocks)
	}
	if r.Len() != 0 {
		t.Fatalf("unread bytes remain: %d", r.Len())
	}
}

// TestMapBlockUnassignedNotAppended covers the "Unassigned1" exclusion
// rule: the block itself is still consumed, but decodeMapBlock reports it
// as not-appendable.
func TestMapBlockUnassignedNotAppended(t *testing.T) {
	var data []byte
	data = append(data, u32le(3)...)
	data = append(data, u32le(0x40000000)...)
	data = append(data, strField("Unassigned1")...)
	data = append(data, 0, 0, 0, 0)
	data = append(data, u32le(0x1234)...)

	r := newReader(data, nil)
	c := &gbx.Challenge{Flags: 5}
	block, endOfSequence := decodeMapBlock(nil, r, c)
	if endOfSequence {
		t.Fatalf("decodeMapBlock reported end-of-sequence for Unassigned1")
	}
	if block != nil {
		t.Fatalf("decodeMapBlock returned %+v, want nil for Unassigned1", block)
	}
}

// TestMapBlockSkinAuthorReadForTM2 covers the maintainer-flagged regression:
// the skin-author lookback string must be read unconditionally once
// flags&0x8000 is set, before branching on the TM2 (c.Flags>=6) waypoint
// path, per gbx.py:464-476.
func TestMapBlockSkinAuthorReadForTM2(t *testing.T) {
	var data []byte
	data = append(data, u32le(3)...)
	data = append(data, u32le(0x40000000)...)
	data = append(data, strField("TM2Block")...)
	data = append(data, 0, 0, 0, 0)
	data = append(data, u32le(0x8000)...) // flags: bit 0x8000 set, TM2 waypoint path

	// Skin-author lookback string, read unconditionally before the TM2
	// branch.
	data = append(data, u32le(0x40000000)...)
	data = append(data, strField("SkinAuthorName")...)

	// readTM2BlockWaypoint: a discarded string, a discarded i32, then the
	// fixed-class inline waypoint's own chunk stream: chunk id 0x0313B000
	// (version 1 layout) followed by the end-of-chunks sentinel.
	data = append(data, strField("")...)
	data = append(data, u32le(0)...)
	data = append(data, u32le(0x0313B000)...) // waypoint chunk id
	data = append(data, u32le(1)...)          // version
	data = append(data, u32le(7)...)          // spawn
	data = append(data, u32le(9)...)          // order
	data = append(data, u32le(sentinelEndOfChunks)...)

	r := newReader(data, nil)
	c := &gbx.Challenge{Flags: 6}
	block, endOfSequence := decodeMapBlock(nil, r, c)
	if endOfSequence {
		t.Fatalf("decodeMapBlock reported end-of-sequence")
	}
	if block == nil {
		t.Fatalf("decodeMapBlock returned nil")
	}
	if block.SkinAuthor != "SkinAuthorName" {
		t.Fatalf("SkinAuthor = %q, want %q", block.SkinAuthor, "SkinAuthorName")
	}
	if block.Waypoint == nil || block.Waypoint.Spawn != 7 || block.Waypoint.Order != 9 {
		t.Fatalf("Waypoint = %+v, want {Spawn:7 Order:9}", block.Waypoint)
	}
	if r.Len() != 0 {
		t.Fatalf("unread bytes remain: %d", r.Len())
	}
}
