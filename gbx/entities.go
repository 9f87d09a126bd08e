// This file contains the generic entity types: the ones that carry little
// more than a class ID, plus the small record types shared across the
// richer entities (Challenge, Replay, Ghost).

package gbx

import "github.com/gbxkit/gbx/gbxcore"

// Entity is implemented by every decoded GBX node. Most callers will type
// switch or type assert on the concrete kind (*Challenge, *Replay, *Ghost,
// *CtnGhost, ...); Entity only guarantees a class ID is available.
type Entity interface {
	// EntityClassID returns the wire class ID this entity was built from.
	EntityClassID() gbxcore.ClassID
}

// Header is a generic entity: one that carries only its class ID because no
// specific chunk handler recognized its class.
type Header struct {
	ClassID gbxcore.ClassID
}

// EntityClassID implements Entity.
func (h *Header) EntityClassID() gbxcore.ClassID { return h.ClassID }

// Common holds a CGameCommon node: currently just a track name, found in the
// user-data header of Replay files ahead of the main body.
type Common struct {
	ClassID   gbxcore.ClassID
	TrackName string
}

// EntityClassID implements Entity.
func (c *Common) EntityClassID() gbxcore.ClassID { return c.ClassID }

// WaypointSpecialProperty describes a checkpoint/finish/start waypoint
// attached to a block or item, and is addressable as a value hung off the
// MapBlock/BlockItem that owns it. A TM2 block's inline waypoint is never
// added to the parser's entity maps. An item's waypoint is passed to the
// item through the single-slot waypoint register, and it is also stored in
// Gbx.Body under the node index the item list gives it.
type WaypointSpecialProperty struct {
	ClassID gbxcore.ClassID

	// Tag is the waypoint's string tag (version 2 wire encoding).
	Tag string

	// Spawn and Order are the legacy integer fields (version 1 wire
	// encoding). Spawn is 0 for version-2 waypoints.
	Spawn uint32
	Order uint32
}

// EntityClassID implements Entity.
func (w *WaypointSpecialProperty) EntityClassID() gbxcore.ClassID { return w.ClassID }

// CollectorStock is one (block_name, collection, author) entry of a
// CollectorList.
type CollectorStock struct {
	BlockName  string
	Collection string
	Author     string
}

// CollectorList holds the ordered stock list read from a CGameCtnCollectorList
// node (chunk 0x0301B000 / 0x2403C000).
type CollectorList struct {
	ClassID gbxcore.ClassID
	Stocks  []CollectorStock
}

// EntityClassID implements Entity.
func (c *CollectorList) EntityClassID() gbxcore.ClassID { return c.ClassID }
