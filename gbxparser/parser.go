/*

Package gbxparser implements parsing of GBX binary container files: the
TrackMania challenge (map), replay, and ghost objects embedded in the
format's node graph.

The package is safe for concurrent use: each call to Parse owns its own
reader, lookback dictionary, and entity maps.

Information sources:

The pygbx project, the Python GBX reader this package's wire-format
understanding is grounded on:

https://github.com/donadigo/pygbx

*/
package gbxparser

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/gbxkit/gbx"
	"github.com/gbxkit/gbx/gbxcore"
	"github.com/gbxkit/gbx/gbxparser/gbxdecoder"
)

const (
	// Version is a Semver2 compatible version of the parser.
	Version = "v0.1.0"

	// defaultMaxRecursionDepth bounds node-reference recursion per spec §5.
	defaultMaxRecursionDepth = 64

	sentinelEndOfChunks uint32 = 0xFACADE01
	skipMarker          uint32 = 0x534B4950 // "SKIP"
)

// ErrParsing indicates that an unexpected error occurred, which may be due
// to a corrupt/invalid GBX file or an implementation bug. It wraps panics
// caught at the top level; all recoverable conditions instead surface as
// gbx.Diagnostic entries on the returned tree.
var ErrParsing = errors.New("gbxparser: parsing")

// Config holds parser configuration.
type Config struct {
	// MaxRecursionDepth bounds node-reference recursion (spec §5). Zero
	// selects the suggested default of 64.
	MaxRecursionDepth int

	// ParseEmbeddedTracks tells the parser to recursively parse a replay's
	// embedded track stream (chunk 0x03093002) into Replay.Track. When
	// false, the embedded bytes are skipped and Track is left nil.
	ParseEmbeddedTracks bool

	_ struct{} // To prevent unkeyed literals
}

// DefaultConfig is used by Parse and ParseFile.
var DefaultConfig = Config{MaxRecursionDepth: defaultMaxRecursionDepth, ParseEmbeddedTracks: true}

// ParseFile opens and parses a GBX file from disk using DefaultConfig.
func ParseFile(name string) (*gbx.Gbx, error) {
	return ParseFileConfig(name, DefaultConfig)
}

// ParseFileConfig opens and parses a GBX file from disk using cfg.
func ParseFileConfig(name string, cfg Config) (*gbx.Gbx, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ParseReaderConfig(f, cfg)
}

// Parse parses a GBX file already fully loaded into memory, using
// DefaultConfig.
func Parse(data []byte) (*gbx.Gbx, error) {
	return ParseConfig(data, DefaultConfig)
}

// ParseConfig parses a GBX byte slice using cfg.
func ParseConfig(data []byte, cfg Config) (*gbx.Gbx, error) {
	return parseProtected(data, cfg)
}

// ParseReader reads and parses a GBX stream using DefaultConfig. The
// stream is read to completion; the caller remains responsible for
// closing it.
func ParseReader(src io.Reader) (*gbx.Gbx, error) {
	return ParseReaderConfig(src, DefaultConfig)
}

// ParseReaderConfig reads and parses a GBX stream using cfg.
func ParseReaderConfig(src io.Reader, cfg Config) (*gbx.Gbx, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("gbxparser: reading input: %w", err)
	}
	return parseProtected(data, cfg)
}

// parseProtected calls parse, but protects the call from panics raised by
// implementation bugs (bugs in a handler, not malformed input: malformed
// input is handled per-node by the recovers in runChunkDispatchLoop and
// runHeaderEntryHandler). Any panic that escapes those inner recoveries,
// including a read past the end of the header outside the user-data
// entries, is logged and reported as ErrParsing.
func parseProtected(data []byte, cfg Config) (result *gbx.Gbx, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("gbxparser: parsing error: %v", r)
			buf := make([]byte, 2000)
			n := runtime.Stack(buf, false)
			log.Printf("gbxparser: stack: %s", buf[:n])
			err = ErrParsing
		}
	}()

	if cfg.MaxRecursionDepth <= 0 {
		cfg.MaxRecursionDepth = defaultMaxRecursionDepth
	}

	return parse(data, cfg)
}

// parseContext threads the parser-local side channels that flow laterally
// between the header scanner and body chunk handlers in pygbx's original
// source (community string, replay-header state, waypoint register) as
// named fields instead of module-level globals, per DESIGN NOTES.
type parseContext struct {
	cfg Config

	result *gbx.Gbx

	// community is set by user-data chunk 0x03043005 and attached to the
	// Challenge entity once the body is parsed.
	community string

	// replayHeaderVersion, replayNickname and replayDriverLogin are set by
	// user-data chunk 0x03093000 and attached to the Replay entity.
	replayHeaderVersion int32
	replayNickname      string
	replayDriverLogin   string

	// waypoint is the single-slot register chunk handlers stash a parsed
	// WaypointSpecialProperty in; the next consumer clears it.
	waypoint *gbx.WaypointSpecialProperty

	depth int
}

func newParseContext(cfg Config) *parseContext {
	return &parseContext{cfg: cfg, result: gbx.New()}
}

func (ctx *parseContext) diagnostic(kind, message string) {
	ctx.result.AddDiagnostic(kind, message)
}

// parse is the entry point shared by every public Parse* function: decode
// the header, decompress the body, and walk the body chunk loop for the
// root node.
func parse(data []byte, cfg Config) (*gbx.Gbx, error) {
	ctx := newParseContext(cfg)

	outer := newReader(data, nil)

	if err := checkMagic(outer); err != nil {
		return nil, err
	}

	classID, body, err := parseHeader(ctx, outer)
	if err != nil {
		return nil, err
	}

	ctx.result.ClassID = gbxcore.ByID(classID)

	ctx.result.RawBody = body

	bodyReader := newReader(body, &ctx.result.Diagnostics)
	root := bodyChunkLoop(ctx, bodyReader, classID, -1)

	if replay, ok := root.(*gbx.Replay); ok {
		if common, ok := ctx.result.RootEntities[gbxcore.IDCommon].(*gbx.Common); ok {
			replay.TrackName = common.TrackName
		}
	}

	return ctx.result, nil
}

// checkMagic consumes and validates the three-byte "GBX" magic, per spec
// §8's universal invariant 1.
func checkMagic(r *reader) error {
	var magic [3]byte
	copy(magic[:], r.Bytes(3))
	if string(magic[:]) != "GBX" {
		return newInvalidMagicError(magic)
	}
	return nil
}

// lzoDecompress and zlibDecompress adapt the external decompression
// collaborators (spec component B) behind the signature the header
// scanner and ghost sample decoder expect: pure functions of compressed
// bytes and the declared uncompressed size.
func lzoDecompress(compressed []byte, uncompressedSize int) ([]byte, error) {
	return gbxdecoder.LZO(compressed, uncompressedSize)
}

func zlibDecompress(compressed []byte, uncompressedSize int) ([]byte, error) {
	return gbxdecoder.Zlib(compressed, uncompressedSize)
}
