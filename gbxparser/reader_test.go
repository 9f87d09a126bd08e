package gbxparser

import (
	"encoding/binary"
	"testing"

	"github.com/gbxkit/gbx"
)

func u32le(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func strField(s string) []byte {
	b := u32le(uint32(len(s)))
	return append(b, []byte(s)...)
}

// TestLookbackFreshStringAppendsOnce covers spec §8's boundary test:
// code 0x40000000 on first use reads a fresh string and the dictionary
// grows to size 1; a later masked reference to the same slot returns the
// same string without growing the dictionary again.
func TestLookbackFreshStringAppendsOnce(t *testing.T) {
	var data []byte
	data = append(data, u32le(3)...) // lookback version prefix
	data = append(data, u32le(0x40000000)...)
	data = append(data, strField("Valley2")...)
	data = append(data, u32le(0x40000001)...)

	r := newReader(data, nil)

	if got := r.LookbackString(); got != "Valley2" {
		t.Fatalf("first read = %q, want %q", got, "Valley2")
	}
	if len(r.lookback) != 1 {
		t.Fatalf("dictionary size = %d, want 1", len(r.lookback))
	}

	if got := r.LookbackString(); got != "Valley2" {
		t.Fatalf("second read = %q, want %q", got, "Valley2")
	}
	if len(r.lookback) != 1 {
		t.Fatalf("dictionary size after back-reference = %d, want 1 (unchanged)", len(r.lookback))
	}
}

// TestLookbackMinusOneIsEmptyAndDoesNotMutate covers the 0xFFFFFFFF
// boundary test.
func TestLookbackMinusOneIsEmptyAndDoesNotMutate(t *testing.T) {
	var data []byte
	data = append(data, u32le(3)...)
	data = append(data, u32le(0xFFFFFFFF)...)

	r := newReader(data, nil)
	if got := r.LookbackString(); got != "" {
		t.Fatalf("got %q, want empty string", got)
	}
	if len(r.lookback) != 0 {
		t.Fatalf("dictionary size = %d, want 0", len(r.lookback))
	}
}

// TestLookbackWellKnownIDs covers the well-known-code table, including the
// literal scenarios for codes 13 and 17.
func TestLookbackWellKnownIDs(t *testing.T) {
	cases := []struct {
		code uint32
		want string
	}{
		{11, "Valley"},
		{12, "Canyon"},
		{13, "Lagoon"},
		{17, "TMCommon"},
		{202, "Storm"},
		{299, "SMCommon"},
		{10003, "Common"},
	}

	for _, c := range cases {
		var data []byte
		data = append(data, u32le(3)...)
		data = append(data, u32le(c.code)...)

		r := newReader(data, nil)
		start := r.Pos()
		if got := r.LookbackString(); got != c.want {
			t.Errorf("code %d: got %q, want %q", c.code, got, c.want)
		}
		// Cursor must advance by exactly the version prefix (4) plus the
		// code itself (4); no further bytes are consumed for well-known
		// codes.
		if want := start + 8; r.Pos() != want {
			t.Errorf("code %d: cursor at %d, want %d", c.code, r.Pos(), want)
		}
		if len(r.lookback) != 0 {
			t.Errorf("code %d: dictionary size = %d, want 0", c.code, len(r.lookback))
		}
	}
}

// TestLookbackOutOfRangeIndexIsEmpty covers the "out of range returns
// empty string (recoverable)" rule.
func TestLookbackOutOfRangeIndexIsEmpty(t *testing.T) {
	var data []byte
	data = append(data, u32le(3)...)
	data = append(data, u32le(0x80000005)...) // masked index 4, empty dictionary

	r := newReader(data, nil)
	if got := r.LookbackString(); got != "" {
		t.Fatalf("got %q, want empty string for out-of-range index", got)
	}
}

// TestLookbackLowUnknownCodeIndexesDictionary covers the maintainer-flagged
// regression: a code with the upper two bits clear that is not one of the
// well-known collection ids must still index the lookback dictionary
// (bytereader.py has no else branch that returns empty for this case),
// rather than unconditionally reading back empty.
func TestLookbackLowUnknownCodeIndexesDictionary(t *testing.T) {
	var data []byte
	data = append(data, u32le(3)...) // lookback version prefix
	data = append(data, u32le(0x40000000)...)
	data = append(data, strField("CustomCollection")...)
	data = append(data, u32le(1)...) // low, non-well-known code -> dictionary index 0

	r := newReader(data, nil)
	if got := r.LookbackString(); got != "CustomCollection" {
		t.Fatalf("first read = %q, want %q", got, "CustomCollection")
	}
	if got := r.LookbackString(); got != "CustomCollection" {
		t.Fatalf("low-code dictionary read = %q, want %q", got, "CustomCollection")
	}
}

// TestPushPopInfo covers the position-mark bracket.
func TestPushPopInfo(t *testing.T) {
	data := make([]byte, 16)
	r := newReader(data, nil)

	r.Skip(2)
	r.PushInfo()
	r.Skip(5)
	m := r.PopInfo()

	if m.Offset != 2 || m.Length != 5 {
		t.Fatalf("mark = %+v, want {Offset:2 Length:5}", m)
	}
}

// TestStringInvalidUTF8RecordsDiagnostic covers the StringDecodeFailure
// non-fatal contract: an invalid-UTF-8 length-prefixed string reads back
// empty and is recorded, rather than aborting the read.
func TestStringInvalidUTF8RecordsDiagnostic(t *testing.T) {
	data := append(u32le(3), 0xFF, 0xFE, 0xFD)

	var diags []gbx.Diagnostic
	r := newReader(data, &diags)
	if got := r.String(); got != "" {
		t.Fatalf("got %q, want empty string for invalid UTF-8", got)
	}
	if len(diags) != 1 || diags[0].Kind != "StringDecodeError" {
		t.Fatalf("diagnostics = %+v, want one StringDecodeError", diags)
	}
}
