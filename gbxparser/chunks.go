// This file contains the body chunk handler catalogue (spec §4.E): the
// table mapping a canonical chunk id to the decoder that mutates the
// entity currently being parsed. Handlers are grounded on pygbx's gbx.py
// _read_node chunk dispatch, re-expressed per DESIGN NOTES as a table of
// small functions instead of one long elif chain, each receiving the
// concrete variant it needs instead of a duck-typed generic object.

package gbxparser

import (
	"github.com/gbxkit/gbx"
	"github.com/gbxkit/gbx/gbxcore"
)

// chunkHandler mutates entity (already resolved to this node's index) by
// reading exactly its chunk body from r.
type chunkHandler func(ctx *parseContext, r *reader, entity gbx.Entity, index int)

var chunkHandlers = map[uint32]chunkHandler{
	0x0304301F: chunkChallengeBody,
	0x03043040: chunkItemList,
	0x03043017: chunkCheckpointOrder,
	0x03043014: chunkPasswordReserved,
	0x03043029: chunkPasswordReserved,
	0x03043021: chunkChallengeNodeRefTriple,
	0x03043022: chunkSkip4,
	0x03043024: chunkChallengeFilePath,
	0x03043025: chunkSkip16,
	0x03043026: chunkChallengeNodeRef,
	0x0304302A: chunkSkipI32,
	0x0301B000: chunkCollectorList,
	0x0305B004: chunkMedalTimes,
	0x0303F005: chunkGhostData,
	0x0303F006: chunkGhostDataV6,
	0x0313B000: chunkWaypointSpecialProp,
	0x03093002: chunkReplayEmbeddedTrack,
	0x03093014: chunkReplayGhostList,
	0x03092005: chunkGhostRaceTime,
	0x03092008: chunkGhostNumRespawns,
	0x03092009: chunkGhostLightTrailColor,
	0x0309200A: chunkGhostStuntsScore,
	0x0309200B: chunkCheckpointTimes,
	0x0309200E: chunkGhostUID,
	0x0309200F: chunkGhostLogin,
	0x03092019: chunkControlEventsLegacy,
	0x03092025: chunkControlEventsManiaplanet,
}

// chunkChallengeBody decodes 0x0304301F: the main challenge body — uid,
// environment, author, name (marked), mood (marked), background and
// author environment tags, map size, unlock requirement, flags, and the
// block list.
func chunkChallengeBody(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	c := ent.(*gbx.Challenge)

	c.UID = r.LookbackString()
	c.Environment = r.LookbackString()
	c.Author = r.LookbackString()

	r.PushInfo()
	c.Name = r.String()
	ctx.result.Marks["map_name"] = r.PopInfo()

	r.PushInfo()
	c.Mood = r.LookbackString()
	ctx.result.Marks["mood"] = r.PopInfo()

	c.EnvBg = r.LookbackString()
	c.EnvAuthor = r.LookbackString()

	c.MapSize = [3]int32{r.I32(), r.I32(), r.I32()}
	c.ReqUnlock = r.I32()
	c.Flags = r.I32()

	r.PushInfo()
	numBlocks := r.U32()
	for i := uint32(0); i < numBlocks; {
		block, endOfSequence := decodeMapBlock(ctx, r, c)
		if endOfSequence {
			continue
		}
		if block != nil {
			c.Blocks = append(c.Blocks, *block)
		}
		i++
	}
	ctx.result.Marks["block_data"] = r.PopInfo()
}

// decodeMapBlock reads one block record. The flags==0xFFFFFFFF end-of-sequence
// marker reports endOfSequence=true: per spec §3's invariant (and gbx.py:
// 461-483's `continue`), it is skipped WITHOUT incrementing the caller's
// block counter. A block named "Unassigned1" is still counted (nil block,
// endOfSequence=false) — only its append is suppressed.
func decodeMapBlock(ctx *parseContext, r *reader, c *gbx.Challenge) (block *gbx.MapBlock, endOfSequence bool) {
	block = &gbx.MapBlock{Name: r.LookbackString()}
	skip := block.Name == "Unassigned1"

	block.Rotation = r.U8()
	block.Position = r.BytePos()

	if c.Flags > 0 {
		block.Flags = r.U32()
	} else {
		block.Flags = uint32(r.U16())
	}

	if block.Flags == 0xFFFFFFFF {
		return nil, true
	}

	block.Skin = -1
	block.Params = -1

	if block.Flags&0x8000 != 0 {
		block.SkinAuthor = r.LookbackString()

		if c.Flags >= 6 {
			block.Waypoint = readTM2BlockWaypoint(ctx, r)
		} else {
			refPos := r.Pos()
			block.Skin = r.I32()
			r.Seek(refPos)
			readNodeRef(ctx, r)
		}

		if block.Flags&0x100000 != 0 {
			refPos := r.Pos()
			block.Params = r.I32()
			r.Seek(refPos)
			readNodeRef(ctx, r)
		}
	}

	if skip {
		return nil, false
	}
	return block, false
}

// readTM2BlockWaypoint decodes the TM2-era inline waypoint attached to a
// skinned block, after decodeMapBlock has read the skin author: a waypoint
// type string, a discarded i32, and an inline (unregistered)
// waypoint-special-property node. Grounded on gbx.py's `bp.read_string(); bp.read_int32();
// self._read_node(0x2E009000, 0, bp, False)` sequence.
func readTM2BlockWaypoint(ctx *parseContext, r *reader) *gbx.WaypointSpecialProperty {
	r.String()
	r.I32()
	return readInlineWaypoint(ctx, r)
}

// readInlineWaypoint constructs and decodes an unregistered
// WaypointSpecialProperty node, the pattern pygbx calls with add=False.
func readInlineWaypoint(ctx *parseContext, r *reader) *gbx.WaypointSpecialProperty {
	w := &gbx.WaypointSpecialProperty{ClassID: gbxcore.ByID(gbxcore.IDWaypointSpecial)}
	parseInlineNode(ctx, r, w)
	return w
}

// chunkWaypointSpecialProp decodes the waypoint node's own single chunk:
// version 1 carries the legacy spawn/order integers, version 2 the tag
// string plus order.
func chunkWaypointSpecialProp(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	w := ent.(*gbx.WaypointSpecialProperty)
	version := r.U32()
	switch version {
	case 1:
		w.Spawn = r.U32()
		w.Order = r.U32()
	case 2:
		w.Tag = r.String()
		w.Order = r.U32()
	}
}

// chunkItemList decodes 0x03043040: the free item placement list. It
// reads within a cloned reader positioned at the chunk's start (the
// "bp.pos -= 4" pattern DESIGN NOTES calls out: the region is not
// self-describing, so the outer cursor is advanced to match the clone's
// final position rather than trusting a declared chunk size).
func chunkItemList(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	c := ent.(*gbx.Challenge)

	item := newReader(r.b, r.diagnostics)
	item.pos = r.pos

	item.Skip(8)
	item.PushInfo()
	item.Skip(8)

	numItems := item.U32()
	for i := uint32(0); i < numItems; i++ {
		item.Skip(12)

		it := gbx.BlockItem{
			Path:       item.LookbackString(),
			Collection: item.LookbackString(),
			Author:     item.LookbackString(),
			Rotation:   item.F32(),
		}
		item.Skip(15)
		it.Position = item.Vec3()

		idx := int(item.I32())
		if idx >= 0 {
			readFixedClassNodeAt(ctx, item, gbxcore.IDWaypointSpecial, idx)
		}

		it.Waypoint = ctx.waypoint
		ctx.waypoint = nil

		item.Skip(4*4 + 2)

		readInlineNode(ctx, item, 0x3101004)

		c.Items = append(c.Items, it)
	}

	item.Skip(4)
	r.Seek(item.Pos())
}

// readFixedClassNodeAt recurses at a caller-supplied index using a class
// id that is fixed by the call site rather than read from the wire — the
// item list's own waypoint reference, grounded on gbx.py's
// `self._read_node(0x2E009000, idx, item_bp)` (no child_class_id read).
func readFixedClassNodeAt(ctx *parseContext, r *reader, classID uint32, idx int) gbx.Entity {
	if existing, ok := ctx.result.Body[idx]; ok {
		return existing
	}
	return bodyChunkLoop(ctx, r, classID, idx)
}

// readInlineNode parses an unregistered node of a known class directly,
// for call sites (the item list's trailing fixed child node) that carry
// no index at all on the wire.
func readInlineNode(ctx *parseContext, r *reader, classID uint32) gbx.Entity {
	return parseInlineNode(ctx, r, newEntityForClass(ctx, classID))
}

// chunkCheckpointOrder decodes 0x03043017: the checkpoint ordering list.
func chunkCheckpointOrder(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	c := ent.(*gbx.Challenge)
	numCPs := r.U32()
	for i := uint32(0); i < numCPs; i++ {
		c.CheckpointOrder = append(c.CheckpointOrder, gbx.CheckpointEntry{
			Value:  r.U32(),
			Extra1: r.U32(),
			Extra2: r.U32(),
		})
	}
}

// chunkPasswordReserved decodes 0x03043014/0x03043029: a 16-byte password
// hash plus a 4-byte CRC, read and discarded per spec ("Preserve as
// reserved").
func chunkPasswordReserved(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	r.Skip(16 + 4)
}

// chunkChallengeNodeRefTriple decodes 0x03043021: three node references in
// a row, none of them stored anywhere named.
func chunkChallengeNodeRefTriple(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	for i := 0; i < 3; i++ {
		readNodeRef(ctx, r)
	}
}

// chunkSkip4 implements the first-occurrence clause for 0x03043022 (spec
// §9's duplicate-handler ambiguity): the source defines this id twice with
// divergent skip sizes; the first (elif-chain-reachable) clause wins.
func chunkSkip4(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	r.Skip(4)
}

// chunkChallengeFilePath implements the first-occurrence clause for
// 0x03043024.
func chunkChallengeFilePath(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	version := r.U8()
	if version >= 3 {
		r.Skip(32)
	}
	path := r.String()
	if len(path) > 0 || version >= 3 {
		r.String()
	}
}

// chunkSkip16 implements the first-occurrence clause for 0x03043025.
func chunkSkip16(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	r.Skip(16)
}

// chunkChallengeNodeRef implements the first-occurrence clause for
// 0x03043026: a single node reference, unstored.
func chunkChallengeNodeRef(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	readNodeRef(ctx, r)
}

// chunkSkipI32 implements the first-occurrence clause for 0x0304302A: one
// discarded i32.
func chunkSkipI32(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	r.I32()
}

// chunkCollectorList decodes 0x0301B000/0x2403C000: the stock list of a
// CGameCtnCollectorList node.
func chunkCollectorList(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	cl := ent.(*gbx.CollectorList)
	count := r.U32()
	for i := uint32(0); i < count; i++ {
		cl.Stocks = append(cl.Stocks, gbx.CollectorStock{
			BlockName:  r.LookbackString(),
			Collection: r.LookbackString(),
			Author:     r.LookbackString(),
		})
		r.U32() // stock quantity, unused
	}
}

// chunkMedalTimes decodes 0x0305B004/0x2400C004: the four medal times plus
// one discarded trailing u32.
func chunkMedalTimes(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	c := ent.(*gbx.Challenge)
	c.Times = gbx.MedalTimes{
		Bronze: r.I32(),
		Silver: r.I32(),
		Gold:   r.I32(),
		Author: r.I32(),
	}
	r.U32()
}

// chunkGhostData decodes 0x0303F005: ghost sample data.
func chunkGhostData(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	decodeGhostSamples(r, ghostOf(ent))
}

// chunkGhostDataV6 decodes 0x0303F006: a 4-byte prefix, then identical to
// 0x0303F005.
func chunkGhostDataV6(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	r.Skip(4)
	decodeGhostSamples(r, ghostOf(ent))
}

// ghostOf returns the embedded *gbx.Ghost of whichever entity variant owns
// the sample stream (a bare Ghost or a CtnGhost).
func ghostOf(ent gbx.Entity) *gbx.Ghost {
	switch g := ent.(type) {
	case *gbx.Ghost:
		return g
	case *gbx.CtnGhost:
		return &g.Ghost
	default:
		return &gbx.Ghost{}
	}
}

// chunkReplayEmbeddedTrack decodes 0x03093002 as it appears in the body
// (distinct from the user-data occurrence of the same id, see
// headerentries.go): the next `size` bytes are an entire nested GBX
// stream for the replay's track. A failure here is non-fatal: it is
// recorded as an EmbeddedTrackParseFailure diagnostic and Replay.Track is
// left nil.
func chunkReplayEmbeddedTrack(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	replay := ent.(*gbx.Replay)
	size := int(r.U32())
	data := r.Bytes(size)

	if !ctx.cfg.ParseEmbeddedTracks {
		return
	}

	nested, err := Parse(data)
	if err != nil {
		ctx.diagnostic("EmbeddedTrackParseFailure", newEmbeddedTrackError(err.Error()).Error())
		return
	}
	if track, ok := nested.GetClassByID(gbxcore.IDChallenge).(*gbx.Challenge); ok {
		replay.Track = track
	}
}

// chunkReplayGhostList decodes 0x03093014/0x2403F014: the ghost node
// references attached to a replay.
func chunkReplayGhostList(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	replay := ent.(*gbx.Replay)
	r.Skip(4)
	numGhosts := r.U32()
	for i := uint32(0); i < numGhosts; i++ {
		if g, ok := readNodeRef(ctx, r).(*gbx.CtnGhost); ok {
			replay.Ghosts = append(replay.Ghosts, g)
		}
	}
	r.Skip(4)
}

// chunkGhostRaceTime decodes 0x03092005/0x2401B005.
func chunkGhostRaceTime(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	ctnGhostOf(ent).RaceTime = r.U32()
}

// chunkGhostNumRespawns decodes 0x03092008/0x2401B008.
func chunkGhostNumRespawns(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	ctnGhostOf(ent).NumRespawns = r.U32()
}

// chunkGhostLightTrailColor decodes 0x03092009/0x2401B009.
func chunkGhostLightTrailColor(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	ctnGhostOf(ent).LightTrailRGB = r.Vec3()
}

// chunkGhostStuntsScore decodes 0x0309200A/0x2401B00A.
func chunkGhostStuntsScore(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	ctnGhostOf(ent).StuntsScore = r.U32()
}

// ctnGhostOf panics with an implementation-bug-shaped value (not a
// FramingError) if ent is not a *gbx.CtnGhost: this only happens if a
// chunk id table entry were miswired to a class it cannot apply to.
func ctnGhostOf(ent gbx.Entity) *gbx.CtnGhost {
	return ent.(*gbx.CtnGhost)
}

// chunkCheckpointTimes decodes 0x0309200B/0x2401B00B: despite the id
// suggesting a single count, the wire carries count x (time, ignored)
// pairs. Grounded on pygbx's explicit comment noting the official GBX
// documentation is wrong about this chunk's shape.
func chunkCheckpointTimes(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	g := ctnGhostOf(ent)
	count := r.U32()
	for i := uint32(0); i < count; i++ {
		g.CPTimes = append(g.CPTimes, r.U32())
		r.Skip(4)
	}
}

// chunkGhostUID decodes 0x0309200E/0x2401B00E: the ghost uid, plus a
// tentative (snapshot/rollback) login read gated on the replay-header
// version recorded from user-data chunk 0x03093000.
func chunkGhostUID(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	g := ctnGhostOf(ent)
	g.Uid = r.LookbackString()

	if ctx.replayHeaderVersion >= 8 {
		snap := r.snapshot()
		func() {
			defer func() {
				if recover() != nil {
					r.restore(snap)
				}
			}()
			g.Login = r.String()
		}()
	}
}

// chunkGhostLogin decodes 0x0309200F/0x2401B00F: the ghost login.
func chunkGhostLogin(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	ctnGhostOf(ent).Login = r.String()
}

// chunkControlEventsLegacy decodes 0x03092019/0x2401B019: recorded
// control-input events (see controlevents.go for the algorithm).
func chunkControlEventsLegacy(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	decodeControlEvents(r, ctnGhostOf(ent), 0x03092019)
}

// chunkControlEventsManiaplanet decodes 0x03092025/0x2401B011: the
// Maniaplanet variant of the control-events block.
func chunkControlEventsManiaplanet(ctx *parseContext, r *reader, ent gbx.Entity, index int) {
	decodeControlEvents(r, ctnGhostOf(ent), 0x03092025)
}
