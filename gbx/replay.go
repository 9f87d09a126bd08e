// This file contains the types describing a Replay.

package gbx

import "github.com/gbxkit/gbx/gbxcore"

// Replay models a CGameCtnReplayRecord node: a recorded race, embedding a
// nested Challenge payload.
type Replay struct {
	ClassID gbxcore.ClassID

	// TrackName, if the user-data Common chunk (0x03043003/0x24003003) was
	// present ahead of the body.
	TrackName string

	// Nickname and DriverLogin come from the user-data replay-header chunk
	// (0x03093000/0x2403F000); DriverLogin requires header version >= 6.
	Nickname    string
	DriverLogin string

	// Track is the nested challenge parsed out of the embedded GBX stream
	// in chunk 0x03093002/0x2403F002. Nil if absent or if the embedded
	// parse failed (see EmbeddedTrackError in gbxparser).
	Track *Challenge

	// Ghosts are the CtnGhost nodes referenced from the replay's ghost list
	// (chunk 0x03093014/0x2403F014).
	Ghosts []*CtnGhost
}

// EntityClassID implements Entity.
func (r *Replay) EntityClassID() gbxcore.ClassID { return r.ClassID }
