// This file contains the header-entry handler table: the per-chunk-id
// decoders for the pre-body user-data chunks (spec §4.C). Each handler is
// tolerant to end-of-buffer — it must bail cleanly without overrunning the
// chunk's declared size — because the caller forces the cursor to the
// chunk's end regardless of what was actually consumed.
package gbxparser

import (
	"fmt"

	"github.com/gbxkit/gbx"
	"github.com/gbxkit/gbx/gbxcore"
)

// headerEntryHandler decodes one user-data chunk payload. size is the
// chunk's declared byte length, should a handler need it.
type headerEntryHandler func(ctx *parseContext, r *reader, size int)

var headerEntryHandlers = map[uint32]headerEntryHandler{
	0x03043002: headerChallengeParams,
	0x03043003: headerCommonTrackName,
	0x03043005: headerCommunity,
	0x03093000: headerReplayInfo,
	0x03093002: headerReplayEmbeddedStrings,
}

// runHeaderEntryHandler resolves aliases, finds the handler (defaulting to
// a plain skip for unrecognized ids), and recovers from any FramingError
// the handler raises so one malformed chunk cannot take down the whole
// user-data section.
func runHeaderEntryHandler(ctx *parseContext, r *reader, chunkID uint32, size int) {
	defer func() {
		if rec := recover(); rec != nil {
			if fe, ok := rec.(*FramingError); ok {
				ctx.diagnostic("FramingError", fe.Error())
				return
			}
			panic(rec)
		}
	}()

	handler, ok := headerEntryHandlers[canonicalizeChunkID(chunkID)]
	if !ok {
		r.Skip(size)
		return
	}
	handler(ctx, r, size)
}

// markKeyForChunkID names the position mark published for a user-data
// chunk: its id as decimal, per the accessor contract in spec §6.
func markKeyForChunkID(chunkID uint32) string {
	return fmt.Sprintf("%d", chunkID)
}

// headerChallengeParams decodes 0x03043002/0x24003002: versioned challenge
// parameters. The ladder of version-gated skips/reads is preserved exactly
// as spec §4.C lists it; every value, including the lookback strings and
// the one u32 at version >= 7, is read and discarded, since nothing
// downstream consumes them.
func headerChallengeParams(ctx *parseContext, r *reader, size int) {
	version := r.U8()

	if version <= 2 {
		r.LookbackString()
		r.LookbackString()
		r.LookbackString()
		r.String()
	}
	r.Skip(4)

	if version >= 1 {
		r.Skip(16)
	}
	if version == 2 {
		r.Skip(4)
	}
	if version >= 4 {
		r.Skip(4)
	}
	if version >= 5 {
		r.Skip(4)
	}
	if version == 6 {
		r.Skip(4)
	}
	if version >= 7 {
		r.U32()
	}
	if version >= 9 {
		r.Skip(4)
	}
	if version >= 10 {
		r.Skip(4)
	}
	if version >= 11 {
		r.Skip(4)
	}
	if version >= 12 {
		r.Skip(4)
	}
	if version >= 13 {
		r.Skip(8)
	}
}

// headerCommonTrackName decodes 0x03043003/0x24003003: a root-level Common
// entity carrying the track name, filed in the root-entity map keyed by
// the canonical chunk id.
func headerCommonTrackName(ctx *parseContext, r *reader, size int) {
	r.PushInfo()
	name := r.String()
	ctx.result.Marks["track_name"] = r.PopInfo()

	ctx.result.RootEntities[gbxcore.IDCommon] = &gbx.Common{
		ClassID:   gbxcore.ByID(gbxcore.IDCommon),
		TrackName: name,
	}
}

// headerCommunity decodes 0x03043005/0x24003005: a community string
// attached to the Challenge entity once the body is parsed.
func headerCommunity(ctx *parseContext, r *reader, size int) {
	ctx.community = r.String()
}

// headerReplayInfo decodes 0x03093000/0x2403F000: the replay header
// version plus the nickname and (version >= 6) driver login.
func headerReplayInfo(ctx *parseContext, r *reader, size int) {
	version := r.I32()
	ctx.replayHeaderVersion = version

	if version >= 2 {
		ctx.replayNickname = r.String()
	}
	if version >= 6 {
		ctx.replayDriverLogin = r.String()
		r.Skip(1)
		r.LookbackString()
	}
}

// headerReplayEmbeddedStrings decodes 0x03093002/0x2403F002 as it appears
// in the user-data table: unlike the body chunk of the same id (the
// embedded-track payload, see chunks.go), this occurrence carries no track
// data — just an 8-byte skip and four length-prefixed strings that no
// downstream consumer names. The two share an id because they live in
// separate dispatch tables (user-data vs. body); this is not the
// duplicate-clause ambiguity spec §9 calls out.
func headerReplayEmbeddedStrings(ctx *parseContext, r *reader, size int) {
	r.Skip(8)
	r.String()
	r.String()
	r.String()
	r.String()
}
