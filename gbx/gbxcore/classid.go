// This file contains the class ID enumeration shared by the gbx and
// gbxparser packages.

package gbxcore

import "fmt"

// ClassID identifies the concrete entity kind a GBX node decodes to.
// Most classes have a legacy alias (the high nibble of the ID shifted)
// that must resolve to the same ClassID.
type ClassID struct {
	// ID as it appears on the wire. This is always the "current", non-legacy
	// form; aliases are resolved to it by ByID.
	ID uint32

	// Name is a short human-readable name of the class.
	Name string
}

// String returns the class name.
func (c ClassID) String() string {
	return c.Name
}

// Unknown constructs a ClassID for an ID not present in the known
// enumeration, preserving the raw ID for debugging.
func Unknown(id uint32) ClassID {
	return ClassID{ID: id, Name: fmt.Sprintf("Unknown 0x%08X", id)}
}

// Known class IDs and their legacy aliases.
const (
	IDChallenge       uint32 = 0x03043000
	IDChallengeOld    uint32 = 0x24003000
	IDCollectorList   uint32 = 0x0301B000
	IDCollectorListOl uint32 = 0x2403C000
	IDChallengeParams uint32 = 0x0305B000
	IDChallengeParamO uint32 = 0x2400C000
	IDBlockSkin       uint32 = 0x03059000
	IDWaypointSpecial uint32 = 0x0313B000
	IDWaypointSpecOld uint32 = 0x2E009000
	IDItemModel       uint32 = 0x2E002000
	IDReplayRecord    uint32 = 0x03093000
	IDReplayRecordOld uint32 = 0x2403F000
	IDGameGhost       uint32 = 0x0303F005
	IDCtnGhost        uint32 = 0x03092000
	IDCtnGhostOld     uint32 = 0x2401B000
	IDCtnCollector    uint32 = 0x0301A000
	IDCtnObjectInfo   uint32 = 0x0301C000
	IDCtnDecoration   uint32 = 0x03038000
	IDCtnCollection   uint32 = 0x03033000
	IDGameSkin        uint32 = 0x03031000
	IDGamePlayerProf  uint32 = 0x0308C000
	IDCommon          uint32 = 0x03043003
	IDCommonOld       uint32 = 0x24003003
	IDMwNod           uint32 = 0x01001000
)

var classNames = map[uint32]string{
	IDChallenge:       "Challenge",
	IDCollectorList:   "CollectorList",
	IDChallengeParams: "ChallengeParams",
	IDBlockSkin:       "BlockSkin",
	IDWaypointSpecial: "WaypointSpecialProperty",
	IDItemModel:       "ItemModel",
	IDReplayRecord:    "ReplayRecord",
	IDGameGhost:       "Ghost",
	IDCtnGhost:        "CtnGhost",
	IDCtnCollector:    "CtnCollector",
	IDCtnObjectInfo:   "CtnObjectInfo",
	IDCtnDecoration:   "CtnDecoration",
	IDCtnCollection:   "CtnCollection",
	IDGameSkin:        "GameSkin",
	IDGamePlayerProf:  "GamePlayerProfile",
	IDCommon:          "Common",
	IDMwNod:           "MwNod",
}

// legacyAlias maps a legacy (high-nibble-shifted) wire ID to its current
// form. Both forms must dispatch identically; ByID normalizes before
// lookup so callers never need to special-case the alias themselves.
var legacyAlias = map[uint32]uint32{
	IDChallengeOld:    IDChallenge,
	IDCollectorListOl: IDCollectorList,
	IDChallengeParamO: IDChallengeParams,
	IDWaypointSpecOld: IDWaypointSpecial,
	IDReplayRecordOld: IDReplayRecord,
	IDCtnGhostOld:     IDCtnGhost,
	IDCommonOld:       IDCommon,
}

// Canonicalize resolves a legacy alias ID to its current form, or returns
// id unchanged if it carries no alias.
func Canonicalize(id uint32) uint32 {
	if canon, ok := legacyAlias[id]; ok {
		return canon
	}
	return id
}

// ByID resolves a wire class ID (current or legacy form) to a ClassID.
// Unrecognized IDs resolve to an Unknown ClassID rather than failing,
// per the "unrecognized ids are tolerated" invariant.
func ByID(id uint32) ClassID {
	canon := Canonicalize(id)
	if name, ok := classNames[canon]; ok {
		return ClassID{ID: canon, Name: name}
	}
	return Unknown(id)
}
