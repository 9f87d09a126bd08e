// This file contains the error-kind taxonomy the parser uses to distinguish
// fatal conditions (returned from Parse) from recoverable ones (recorded as
// gbx.Diagnostic entries and otherwise swallowed).

package gbxparser

import "fmt"

// ParseError is the base type embedded by every concrete error kind below.
// Offset, when set, is a byte position in whichever stream the error
// occurred in (outer container or a decompressed body).
type ParseError struct {
	Message string
	Offset  *int
}

func (e *ParseError) Error() string {
	if e.Offset != nil {
		return fmt.Sprintf("%s at offset 0x%X", e.Message, *e.Offset)
	}
	return e.Message
}

// InvalidMagicError: the first three bytes were not "GBX". Always fatal.
type InvalidMagicError struct {
	ParseError
	Got [3]byte
}

// DecompressionError: LZO or zlib returned fewer/more bytes than declared,
// or the adapter reported failure outright. Fatal when it occurs on the
// top-level body; recorded as a diagnostic and the offending node
// abandoned otherwise (a ghost sample block that fails to inflate takes
// this path).
type DecompressionError struct {
	ParseError
}

// StringDecodeError: invalid UTF-8 in a length-prefixed string. Always
// non-fatal; the field reads back as empty and parsing continues.
type StringDecodeError struct {
	ParseError
}

// UnknownChunkError: a chunk id absent from the handler table. Non-fatal
// when the chunk carried a SKIP marker (the declared size is skipped and
// the loop continues); otherwise the node's remaining chunks are abandoned.
type UnknownChunkError struct {
	ParseError
	ChunkID uint32
}

// FramingError: a read would exceed its declared region, the 0xFACADE01
// sentinel was never reached with no SKIP fallback, or node-reference
// recursion exceeded the configured maximum depth. Non-fatal per-chunk
// where the region can be clamped; fatal at top level.
type FramingError struct {
	ParseError
}

// EmbeddedTrackError: the nested GBX stream inside a replay's embedded
// track chunk failed to parse. Always non-fatal: recorded as a diagnostic,
// Replay.Track left nil, and the parent parse continues with ghost data
// intact.
type EmbeddedTrackError struct {
	ParseError
}

func newInvalidMagicError(got [3]byte) *InvalidMagicError {
	return &InvalidMagicError{
		ParseError: ParseError{Message: fmt.Sprintf("invalid magic: % X", got)},
		Got:        got,
	}
}

func newDecompressionError(msg string, offset int) *DecompressionError {
	return &DecompressionError{ParseError{Message: msg, Offset: &offset}}
}

func newStringDecodeError(offset int) *StringDecodeError {
	return &StringDecodeError{ParseError{Message: "invalid UTF-8 in length-prefixed string", Offset: &offset}}
}

func newUnknownChunkError(chunkID uint32, offset int) *UnknownChunkError {
	return &UnknownChunkError{
		ParseError: ParseError{
			Message: fmt.Sprintf("unknown chunk id 0x%08X", chunkID),
			Offset:  &offset,
		},
		ChunkID: chunkID,
	}
}

func newFramingError(msg string, offset int) *FramingError {
	return &FramingError{ParseError{Message: msg, Offset: &offset}}
}

func newEmbeddedTrackError(msg string) *EmbeddedTrackError {
	return &EmbeddedTrackError{ParseError{Message: msg}}
}
