package gbxdecoder

import (
	"fmt"

	"github.com/woozymasta/lzo"
)

// LZO decompresses compressed, an LZO1X stream, to exactly
// uncompressedSize bytes. GBX bodies are always compressed with LZO1X, so
// this wraps woozymasta/lzo's decoder directly rather than sniffing the
// variant.
func LZO(compressed []byte, uncompressedSize int) ([]byte, error) {
	out, err := lzo.Decompress1X(compressed, uncompressedSize)
	if err != nil {
		return nil, fmt.Errorf("lzo1x decompress: %w", err)
	}
	if len(out) != uncompressedSize {
		return nil, fmt.Errorf("lzo1x decompress: got %d bytes, want %d", len(out), uncompressedSize)
	}
	return out, nil
}
