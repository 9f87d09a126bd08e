// This file contains the Gbx type: the parsed result of a single GBX file,
// and the accessors callers use to navigate it.

package gbx

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/gbxkit/gbx/gbxcore"
)

// Mark is a named byte-range a chunk handler captured while decoding, e.g.
// the "map_name" or "block_data" regions. Offset and Length are relative to
// the stream the mark was captured from: the outer (compressed-container)
// stream for header-level marks, the decompressed body for body-level
// marks.
type Mark struct {
	Offset int
	Length int
}

// Diagnostic records a recoverable parse anomaly (spec §7's non-fatal error
// kinds): StringDecodeFailure, UnknownChunk, FramingError,
// EmbeddedTrackParseFailure, and a per-node DecompressionFailure. Fatal
// errors (InvalidMagic, top-level DecompressionFailure) are returned
// directly from Parse instead.
type Diagnostic struct {
	// Kind names the anomaly: "StringDecodeError", "UnknownChunk",
	// "FramingError", "DecompressionFailure" or
	// "EmbeddedTrackParseFailure".
	Kind string

	// Message is a short human-readable description.
	Message string
}

// Gbx is the parsed tree of a single GBX file: the class id of its root
// node, every entity reached while decoding, and the byte-range marks and
// diagnostics recorded along the way.
type Gbx struct {
	// ClassID of the root node (the class the file's header declares).
	ClassID gbxcore.ClassID

	// Body holds entities keyed by their node index in the decompressed
	// body (the root node is keyed -1).
	Body map[int]Entity

	// RootEntities holds entities recovered directly from the user-data
	// header, keyed by the chunk id that produced them (e.g. a Common
	// entity keyed by 0x03043003).
	RootEntities map[uint32]Entity

	// Marks holds the named position marks captured during parsing.
	Marks map[string]Mark

	// Diagnostics accumulates non-fatal parse anomalies in encounter order.
	Diagnostics []Diagnostic

	// RawBody is the decompressed body this tree was parsed from, kept
	// only so FindRawChunkID can do its linear byte-level search.
	RawBody []byte
}

// New creates an empty Gbx ready to be populated by a parser.
func New() *Gbx {
	return &Gbx{
		Body:         map[int]Entity{},
		RootEntities: map[uint32]Entity{},
		Marks:        map[string]Mark{},
	}
}

// GetClassByID returns the first entity (searching Body then RootEntities)
// whose class id matches, or nil if none match.
func (g *Gbx) GetClassByID(classID uint32) Entity {
	classes := g.GetClassesByIDs(classID)
	if len(classes) == 0 {
		return nil
	}
	return classes[0]
}

// GetClassesByIDs returns every entity (from both Body and RootEntities)
// whose class id matches any of the given ids.
func (g *Gbx) GetClassesByIDs(classIDs ...uint32) []Entity {
	want := make(map[uint32]bool, len(classIDs))
	for _, id := range classIDs {
		want[id] = true
	}

	var result []Entity
	for _, e := range g.Body {
		if want[e.EntityClassID().ID] {
			result = append(result, e)
		}
	}
	for _, e := range g.RootEntities {
		if want[e.EntityClassID().ID] {
			result = append(result, e)
		}
	}
	return result
}

// FindRawChunkID performs a linear byte-level search for the first
// occurrence of chunkID (little-endian) in the decompressed body and
// returns a reader positioned immediately after it. There is no guarantee
// the match lands on a true chunk boundary (spec §6); this is a debugging
// aid, not a structural query.
func (g *Gbx) FindRawChunkID(chunkID uint32) (io.ReadSeeker, bool) {
	var needle [4]byte
	binary.LittleEndian.PutUint32(needle[:], chunkID)

	idx := bytes.Index(g.RawBody, needle[:])
	if idx < 0 {
		return nil, false
	}
	return bytes.NewReader(g.RawBody[idx+4:]), true
}

// AddDiagnostic appends a recoverable-error record. Called by gbxparser as
// it encounters non-fatal anomalies; exported so alternative decoders built
// against this data model can record diagnostics the same way.
func (g *Gbx) AddDiagnostic(kind, message string) {
	g.Diagnostics = append(g.Diagnostics, Diagnostic{Kind: kind, Message: message})
}
