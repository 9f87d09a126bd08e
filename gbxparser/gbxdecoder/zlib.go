package gbxdecoder

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// Zlib inflates compressed, a standard zlib (RFC 1950) stream, to exactly
// uncompressedSize bytes. Grounded on screp's modernDecoder.Section, which
// wraps the same stdlib reader over per-chunk compressed replay data.
func Zlib(compressed []byte, uncompressedSize int) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	defer zr.Close()

	out := make([]byte, uncompressedSize)
	n, err := io.ReadFull(zr, out)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	if n != uncompressedSize {
		return nil, fmt.Errorf("zlib: got %d bytes, want %d", n, uncompressedSize)
	}
	return out, nil
}
