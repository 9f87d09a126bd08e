// This file contains the chunk-id alias table: most chunk and header-entry
// ids have a legacy form with the high nibble shifted (the 0x030... /
// 0x240... pattern spec §4.E calls out), and both forms must dispatch
// identically. Grounded on screp's practice of resolving command/unit
// aliases through a single lookup table (rep/repcmd, rep/repcore) before
// dispatch, generalized here to chunk ids instead of command bytes.
package gbxparser

var chunkAlias = map[uint32]uint32{
	0x24003002: 0x03043002,
	0x24003003: 0x03043003,
	0x24003005: 0x03043005,
	0x2403F000: 0x03093000,
	0x2403F002: 0x03093002,
	0x2403F014: 0x03093014,
	0x2403C000: 0x0301B000,
	0x2400C004: 0x0305B004,
	0x2401B005: 0x03092005,
	0x2401B008: 0x03092008,
	0x2401B009: 0x03092009,
	0x2401B00A: 0x0309200A,
	0x2401B00B: 0x0309200B,
	0x2401B00E: 0x0309200E,
	0x2401B00F: 0x0309200F,
	0x2401B019: 0x03092019,
	0x2401B011: 0x03092025,
	0x2E009000: 0x0313B000,
	0x24003021: 0x03043021,
	0x24003022: 0x03043022,
	0x24003024: 0x03043024,
	0x24003025: 0x03043025,
	0x24003026: 0x03043026,
	0x2400301F: 0x0304301F,
}

// canonicalizeChunkID resolves a legacy alias chunk id to its current
// form, or returns id unchanged if it carries no alias.
func canonicalizeChunkID(id uint32) uint32 {
	if canon, ok := chunkAlias[id]; ok {
		return canon
	}
	return id
}
