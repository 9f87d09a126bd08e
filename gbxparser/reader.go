// This file contains reader, the positioned cursor over a GBX byte stream.
// It decodes wire primitives, maintains the lookback-string dictionary, and
// tracks the single active position mark, mirroring the role screp's
// sliceReader plays for StarCraft replays but extended with the
// lookback-string and mark machinery GBX requires.

package gbxparser

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/gbxkit/gbx"
)

// wellKnownLookback maps the low-bit codes of a lookback reference to their
// hard-coded strings, per the GBX wire format's collection-name table.
var wellKnownLookback = map[uint32]string{
	11:    "Valley",
	12:    "Canyon",
	13:    "Lagoon",
	17:    "TMCommon",
	202:   "Storm",
	299:   "SMCommon",
	10003: "Common",
}

// mark is a pending push_info/pop_info bracket.
type mark struct {
	start int
}

// reader is a positioned cursor over a single byte slice. Out-of-range
// reads panic; callers that need per-node recoverability (the body chunk
// loop, the header scanner) recover around a node's worth of reads and
// translate the panic into a FramingError diagnostic.
type reader struct {
	b   []byte
	pos int

	// lookbackInit is set once the version-prefix u32 of the first
	// lookback read has been consumed.
	lookbackInit bool
	lookback     []string

	activeMark *mark

	// diagnostics is shared with the parser that owns this reader so
	// recoverable errors (bad UTF-8) surface without aborting the read.
	diagnostics *[]gbx.Diagnostic
}

// newReader wraps b in a fresh reader with its own lookback dictionary.
// diagnostics, if non-nil, receives StringDecodeError records; pass nil for
// callers (e.g. tests) that don't care.
func newReader(b []byte, diagnostics *[]gbx.Diagnostic) *reader {
	return &reader{b: b, diagnostics: diagnostics}
}

// Len returns the number of unread bytes.
func (r *reader) Len() int { return len(r.b) - r.pos }

// Pos returns the current cursor offset.
func (r *reader) Pos() int { return r.pos }

// Seek moves the cursor to an absolute offset. A negative offset is
// clamped to 0; an offset past the end of the buffer panics with a
// FramingError and leaves the cursor where it was.
func (r *reader) Seek(pos int) {
	if pos < 0 {
		pos = 0
	}
	if pos > len(r.b) {
		panic(newFramingError("seek past end of buffer", r.pos))
	}
	r.pos = pos
}

func (r *reader) need(n int) {
	if r.pos+n > len(r.b) {
		panic(newFramingError("read past end of buffer", r.pos))
	}
}

// Skip advances the cursor by n bytes without interpreting them.
func (r *reader) Skip(n int) {
	r.need(n)
	r.pos += n
}

// U8 reads an unsigned 8-bit integer.
func (r *reader) U8() uint8 {
	r.need(1)
	v := r.b[r.pos]
	r.pos++
	return v
}

// I8 reads a signed 8-bit integer.
func (r *reader) I8() int8 { return int8(r.U8()) }

// U16 reads a little-endian unsigned 16-bit integer.
func (r *reader) U16() uint16 {
	r.need(2)
	v := binary.LittleEndian.Uint16(r.b[r.pos:])
	r.pos += 2
	return v
}

// I16 reads a little-endian signed 16-bit integer.
func (r *reader) I16() int16 { return int16(r.U16()) }

// U32 reads a little-endian unsigned 32-bit integer.
func (r *reader) U32() uint32 {
	r.need(4)
	v := binary.LittleEndian.Uint32(r.b[r.pos:])
	r.pos += 4
	return v
}

// I32 reads a little-endian signed 32-bit integer.
func (r *reader) I32() int32 { return int32(r.U32()) }

// F32 reads a little-endian IEEE-754 float.
func (r *reader) F32() float32 {
	return math.Float32frombits(r.U32())
}

// Vec3 reads three consecutive floats as a Vector3.
func (r *reader) Vec3() gbx.Vector3 {
	return gbx.Vector3{X: r.F32(), Y: r.F32(), Z: r.F32()}
}

// BytePos reads three consecutive bytes as a BytePos.
func (r *reader) BytePos() gbx.BytePos {
	return gbx.BytePos{X: r.U8(), Y: r.U8(), Z: r.U8()}
}

// Bytes reads n raw bytes and returns a copy.
func (r *reader) Bytes(n int) []byte {
	r.need(n)
	out := make([]byte, n)
	copy(out, r.b[r.pos:r.pos+n])
	r.pos += n
	return out
}

// String reads a u32-length-prefixed UTF-8 string. Invalid UTF-8 is
// recorded as a StringDecodeError diagnostic and the field reads back
// empty, per spec: this is never fatal.
func (r *reader) String() string {
	n := r.U32()
	raw := r.Bytes(int(n))
	if !utf8.Valid(raw) {
		if r.diagnostics != nil {
			*r.diagnostics = append(*r.diagnostics, gbx.Diagnostic{
				Kind:    "StringDecodeError",
				Message: newStringDecodeError(r.pos - int(n)).Error(),
			})
		}
		return ""
	}
	return string(raw)
}

// cString decodes a raw, non-length-prefixed buffer as a caller would a
// legacy user-data string: UTF-8 if valid, else a Windows-1252 fallback.
// Grounded on screp's cString/koreanString pair, generalized from its
// EUC-KR fallback to the Windows-1252 charset GBX user data actually uses.
func cString(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}

// PushInfo arms the single position mark at the current cursor. At most
// one mark may be active; arming again before PopInfo overwrites it.
func (r *reader) PushInfo() {
	r.activeMark = &mark{start: r.pos}
}

// PopInfo disarms the active mark and returns the (start, length) span it
// bracketed. Calling it with no active mark returns a zero-length mark at
// the current position.
func (r *reader) PopInfo() gbx.Mark {
	if r.activeMark == nil {
		return gbx.Mark{Offset: r.pos, Length: 0}
	}
	m := gbx.Mark{Offset: r.activeMark.start, Length: r.pos - r.activeMark.start}
	r.activeMark = nil
	return m
}

// snapshot captures enough state to roll back a tentative read: the
// cursor and the lookback dictionary length. Re-expresses pygbx's
// push_info/try-except rewind trick (used by chunk 0x0309200E's tentative
// login read) as the transactional operation DESIGN NOTES calls for.
type snapshot struct {
	pos        int
	lookbackLen int
}

func (r *reader) snapshot() snapshot {
	return snapshot{pos: r.pos, lookbackLen: len(r.lookback)}
}

func (r *reader) restore(s snapshot) {
	r.pos = s.pos
	r.lookback = r.lookback[:s.lookbackLen]
}

// LookbackString implements the lookback-string decode rules of spec §4.A.
func (r *reader) LookbackString() string {
	if !r.lookbackInit {
		r.U32() // version prefix, discarded
		r.lookbackInit = true
	}

	code := r.U32()

	switch {
	case (code&0xC0000000) != 0 && (code&0x3FFFFFFF) == 0:
		s := r.String()
		r.lookback = append(r.lookback, s)
		return s
	case code == 0:
		s := r.String()
		r.lookback = append(r.lookback, s)
		return s
	case code == 0xFFFFFFFF: // -1 as signed
		return ""
	case (code & 0xC0000000) == 0:
		if s, ok := wellKnownLookback[code]; ok {
			return s
		}
		fallthrough
	default:
		idx := int(code&0x3FFFFFFF) - 1
		if idx < 0 || idx >= len(r.lookback) {
			return ""
		}
		return r.lookback[idx]
	}
}
