// This file contains the body chunk loop (spec §4.D): given a class id and
// a body reader, construct or look up the target entity and repeatedly
// dispatch (chunk_id, optional SKIP size) records to per-chunk handlers
// until the 0xFACADE01 sentinel or an unrecoverable framing condition ends
// the node's stream.

package gbxparser

import (
	"github.com/gbxkit/gbx"
	"github.com/gbxkit/gbx/gbxcore"
)

// bodyChunkLoop realizes the node at index (creating it from classID on
// first reference), reads its chunk stream, and returns the entity. A
// FramingError raised anywhere in this node's chunks is caught here: it is
// recorded as a diagnostic and only this node's remaining chunks are
// abandoned, per spec §7's "non-fatal per-chunk where possible" policy.
func bodyChunkLoop(ctx *parseContext, r *reader, classID uint32, index int) gbx.Entity {
	existing, ok := ctx.result.Body[index]
	var entity gbx.Entity
	if ok {
		entity = existing
	} else {
		entity = newEntityForClass(ctx, classID)
		ctx.result.Body[index] = entity
	}

	return runChunkDispatchLoop(ctx, r, entity, index)
}

// parseInlineNode runs the chunk dispatch loop for a node that is never
// registered in the body-entity map: the "add=False" pattern pygbx uses
// for a TM2 block's inline waypoint-special-property node. Grounded on
// gbx.py's `self._read_node(0x2E009000, 0, bp, False)` call.
func parseInlineNode(ctx *parseContext, r *reader, entity gbx.Entity) gbx.Entity {
	return runChunkDispatchLoop(ctx, r, entity, -1)
}

// runChunkDispatchLoop is the chunk stream walk shared by bodyChunkLoop and
// parseInlineNode: read (chunk_id, optional SKIP marker + size) records and
// dispatch until the 0xFACADE01 sentinel, an unrecognized unframed chunk,
// or an unrecoverable framing/decompression condition ends the stream. A
// FramingError or DecompressionError raised anywhere in entity's chunks is
// caught here: it is recorded as a diagnostic and only this node's
// remaining chunks are abandoned, per spec §7's "non-fatal per-chunk where
// possible" policy.
func runChunkDispatchLoop(ctx *parseContext, r *reader, entity gbx.Entity, index int) (result gbx.Entity) {
	result = entity

	defer func() {
		if rec := recover(); rec != nil {
			switch e := rec.(type) {
			case *FramingError:
				ctx.diagnostic("FramingError", e.Error())
			case *DecompressionError:
				ctx.diagnostic("DecompressionFailure", e.Error())
			default:
				panic(rec)
			}
		}
	}()

	for {
		if r.Len() < 4 {
			ctx.diagnostic("FramingError", newFramingError("chunk stream ended without 0xFACADE01 sentinel", r.Pos()).Error())
			return entity
		}

		chunkID := r.U32()
		if chunkID == sentinelEndOfChunks {
			return entity
		}

		markerPos := r.Pos()
		skipSize := -1
		if r.Len() >= 4 {
			if marker := r.U32(); marker == skipMarker {
				skipSize = int(r.U32())
			} else {
				r.Seek(markerPos)
			}
		}

		canon := canonicalizeChunkID(chunkID)
		handler, found := chunkHandlers[canon]
		switch {
		case found:
			handler(ctx, r, entity, index)
		case skipSize >= 0:
			ctx.diagnostic("UnknownChunk", newUnknownChunkError(chunkID, r.Pos()).Error())
			r.Skip(skipSize)
		default:
			ctx.diagnostic("UnknownChunk", newUnknownChunkError(chunkID, r.Pos()).Error())
			return entity
		}
	}
}

// readNodeRef implements the node-reference pattern shared by several
// chunk handlers (spec §4.D "Node references"): an i32 index, followed —
// only if the index is new — by a u32 child class id and a recursive
// parse at that index. A re-used index reads only the i32; its entity is
// looked up instead of re-parsed.
func readNodeRef(ctx *parseContext, r *reader) gbx.Entity {
	idx := int(r.I32())
	if idx < 0 {
		return nil
	}
	if existing, ok := ctx.result.Body[idx]; ok {
		return existing
	}

	childClassID := r.U32()

	ctx.depth++
	if ctx.depth > ctx.cfg.MaxRecursionDepth {
		ctx.depth--
		panic(newFramingError("node reference recursion exceeded configured maximum depth", r.Pos()))
	}
	entity := bodyChunkLoop(ctx, r, childClassID, idx)
	ctx.depth--
	return entity
}

// newEntityForClass builds the zero-value entity appropriate for classID,
// attaching whatever parser-local side-channel state (community string,
// replay header fields) was already collected from the user-data header,
// since those chunks are always read before the body.
func newEntityForClass(ctx *parseContext, classID uint32) gbx.Entity {
	cid := gbxcore.ByID(classID)

	switch gbxcore.Canonicalize(classID) {
	case gbxcore.IDChallenge:
		return &gbx.Challenge{ClassID: cid, Community: ctx.community}
	case gbxcore.IDReplayRecord:
		return &gbx.Replay{
			ClassID:     cid,
			Nickname:    ctx.replayNickname,
			DriverLogin: ctx.replayDriverLogin,
		}
	case gbxcore.IDGameGhost:
		return &gbx.Ghost{ClassID: cid}
	case gbxcore.IDCtnGhost:
		return &gbx.CtnGhost{Ghost: gbx.Ghost{ClassID: cid}}
	case gbxcore.IDCollectorList:
		return &gbx.CollectorList{ClassID: cid}
	case gbxcore.IDWaypointSpecial:
		w := &gbx.WaypointSpecialProperty{ClassID: cid}
		// Waypoint nodes are registered in the single-slot waypoint
		// register at the moment they are created, not when their chunk
		// is parsed: the item list's "attach current waypoint register"
		// step (spec §4.E) relies on this being set as soon as the node
		// reference that introduced it returns.
		ctx.waypoint = w
		return w
	default:
		return &gbx.Header{ClassID: cid}
	}
}
