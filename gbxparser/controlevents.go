// This file contains the control-event block decoder (spec §4.E.1).

package gbxparser

import "github.com/gbxkit/gbx"

// decodeControlEvents implements the 0x03092019/0x03092025 control-event
// block. chunkID tells it which variant triggered the call so it can set
// the Maniaplanet flag and its extra 4-byte skip.
func decodeControlEvents(r *reader, ghost *gbx.CtnGhost, chunkID uint32) {
	if chunkID == 0x03092025 {
		ghost.IsManiaplanet = true
		r.Skip(4)
	}

	ghost.EventsDuration = r.U32()
	if ghost.EventsDuration == 0 {
		return
	}

	r.Skip(4)
	numControlNames := r.U32()
	ghost.ControlNames = nil
	for i := uint32(0); i < numControlNames; i++ {
		name := r.LookbackString()
		if name != "" {
			ghost.ControlNames = append(ghost.ControlNames, name)
		}
	}
	if len(ghost.ControlNames) == 0 {
		return
	}

	numEntries := r.U32()
	r.Skip(4)
	for i := uint32(0); i < numEntries; i++ {
		rawTime := r.U32()
		nameIndex := r.U8()
		enabled := r.U16()
		flags := r.U16()

		var name string
		if int(nameIndex) < len(ghost.ControlNames) {
			name = ghost.ControlNames[nameIndex]
		}

		ghost.ControlEntries = append(ghost.ControlEntries, gbx.ControlEntry{
			Time:      int32(rawTime) - 100000,
			EventName: name,
			Enabled:   enabled,
			Flags:     flags,
		})
	}

	ghost.GameVersion = r.String()
	r.Skip(12)
	r.String()
	r.Skip(4)
}
