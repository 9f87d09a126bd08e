// This file contains the ghost sample decoder (spec §4.F): zlib-inflate a
// compressed sample block, then walk its variable-sized sample records.

package gbxparser

import "github.com/gbxkit/gbx"

// decodeGhostSamples reads a ghost's compressed sample block from r and
// populates ghost.SamplePeriod / ghost.Samples. A decompression failure
// panics a *DecompressionError; the caller (a chunk handler running
// inside bodyChunkLoop) lets it propagate so the node's recover turns it
// into a diagnostic and abandons only this node's remaining chunks.
func decodeGhostSamples(r *reader, ghost *gbx.Ghost) {
	uncompressedSize := int(r.U32())
	compressedSize := int(r.U32())
	compressed := r.Bytes(compressedSize)

	inflated, err := zlibDecompress(compressed, uncompressedSize)
	if err != nil {
		panic(newDecompressionError("ghost sample zlib decompression failed: "+err.Error(), r.Pos()))
	}

	gr := newReader(inflated, nil)
	gr.Skip(12)
	ghost.SamplePeriod = gr.U32()
	gr.Skip(4)

	sampleDataSize := int(gr.U32())
	sampleDataPos := gr.Pos()
	gr.Skip(sampleDataSize)

	numSamples := int(gr.U32())
	if numSamples == 0 {
		return
	}

	firstSampleOffset := int(gr.U32())

	var sampleSizes []int
	if numSamples > 1 {
		sps := gr.I32()
		if sps == -1 {
			sampleSizes = make([]int, numSamples-1)
			for i := range sampleSizes {
				sampleSizes[i] = int(gr.U32())
			}
		} else {
			sampleSizes = []int{int(sps)}
		}
	}

	gr.Seek(sampleDataPos)
	gr.Skip(firstSampleOffset)

	for i := 0; i < numSamples; i++ {
		samplePos := gr.Pos()

		sample := gbx.GhostSample{
			Position:    gr.Vec3(),
			Angle:       gr.U16(),
			AxisHeading: gr.I16(),
			AxisPitch:   gr.I16(),
			Speed:       gr.I16(),
			VelHeading:  gr.I8(),
			VelPitch:    gr.I8(),
		}

		var sampleSize int
		switch {
		case i < len(sampleSizes):
			sampleSize = sampleSizes[i]
		case len(sampleSizes) >= 1:
			sampleSize = sampleSizes[0]
		default:
			sampleSize = 0
		}

		remaining := sampleSize - (gr.Pos() - samplePos)
		if remaining > 0 {
			sample.RawData = gr.Bytes(remaining)
		}

		ghost.Samples = append(ghost.Samples, sample)
	}
}
