// This file contains the header scanner: everything read before the body
// is handed to the LZO adapter, per spec §4.C.

package gbxparser

import "github.com/gbxkit/gbx"

// parseHeader consumes the version, class id, user-data section and
// external-node table, then decompresses and returns the body bytes along
// with the resolved root class id. The "GBX" magic itself is consumed by
// the caller before parseHeader runs.
func parseHeader(ctx *parseContext, r *reader) (classID uint32, body []byte, err error) {
	version := r.U16()
	r.Skip(3)
	if version >= 4 {
		r.Skip(1)
	}

	if version >= 3 {
		classID = r.U32()
	}

	if version >= 6 {
		parseUserDataSection(ctx, r)
		r.U32() // num_nodes, unused: the body chunk loop discovers nodes as it references them
	}

	numExternalNodes := r.U32()
	if numExternalNodes != 0 {
		r.Skip(4)
		skipExternalFolderTree(r)
		for i := uint32(0); i < numExternalNodes; i++ {
			flags := r.U32()
			if flags&4 == 0 {
				r.String()
			} else {
				r.Skip(4)
			}
			r.Skip(4)
			if version >= 5 {
				r.Skip(4)
			}
			if flags&4 == 0 {
				r.Skip(4)
			}
		}
	}

	r.PushInfo()
	uncompressedSize := int(r.U32())
	compressedSize := int(r.U32())
	compressed := r.Bytes(compressedSize)
	ctx.result.Marks["data_size"] = r.PopInfo()

	decompressed, derr := lzoDecompress(compressed, uncompressedSize)
	if derr != nil {
		return 0, nil, newDecompressionError("body LZO decompression failed: "+derr.Error(), r.Pos())
	}

	return classID, decompressed, nil
}

// skipExternalFolderTree walks the recursive (count, N x (name, recurse))
// sub-folder tree that precedes the external node table.
func skipExternalFolderTree(r *reader) {
	count := r.U32()
	for i := uint32(0); i < count; i++ {
		r.String()
		skipExternalFolderTree(r)
	}
}

// parseUserDataSection reads the pre-body user-data chunk table, dispatching
// each payload to its header-entry handler, then forces the cursor to the
// section end regardless of how much the handler actually consumed.
func parseUserDataSection(ctx *parseContext, r *reader) {
	r.PushInfo()
	userDataSize := r.U32()
	sectionStart := r.Pos()
	sectionEnd := sectionStart + int(userDataSize)

	numChunks := r.U32()

	type chunkEntry struct {
		id   uint32
		size uint32
	}
	entries := make([]chunkEntry, numChunks)
	for i := range entries {
		entries[i] = chunkEntry{id: r.U32(), size: r.U32()}
	}

	for _, e := range entries {
		chunkStart := r.Pos()
		runHeaderEntryHandler(ctx, r, e.id, int(e.size))
		markKey := markKeyForChunkID(e.id)
		ctx.result.Marks[markKey] = gbx.Mark{Offset: chunkStart, Length: int(e.size)}
		// Force the cursor to the chunk's declared end regardless of how
		// much the handler consumed, so one malformed/partial handler
		// cannot desync the remaining table.
		r.Seek(chunkStart + int(e.size))
	}

	ctx.result.Marks["user_data_size"] = r.PopInfo()
	if r.Pos() != sectionEnd {
		r.Seek(sectionEnd)
	}
}
