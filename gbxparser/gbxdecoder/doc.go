// Package gbxdecoder wraps the two decompression collaborators the GBX
// format depends on — LZO1X over the main body, zlib over ghost sample
// blocks — behind the pure `(compressed, uncompressedSize) -> (bytes,
// error)` contract spec component B calls for. Neither codec is
// implemented here: this package only adapts an external LZO1X port and
// the standard library's zlib reader to a common shape.
package gbxdecoder
