package format

// ExtraDataTag identifies one variant of the per-record extra-data stream.
// The catalogue is open-ended in the wild; this table lists every kind
// this implementation names. Only some of them have a structural decoder
// in package extradata; the others are reported as unknown variants. Two codes (Teleport=43,
// LeveledCreature=45) have exactly documented field sequences; the rest
// are assigned sequentially and are significant only as stable dispatch
// keys, not as a claim about any particular game's exact byte values.
type ExtraDataTag uint8

const (
	TagHasNoRumors ExtraDataTag = iota
	TagStartingWorldOrCell
	TagFriendHits
	TagHeadingTarget
	TagStartingPosition
	TagAnimation
	TagScript
	TagLeveledItem
	TagCannotWear
	TagMagicCaster
	TagHotkey
	TagCellWaterType
	TagOutfitItem
	TagLeveledCreatureData
	TagCellMusicType
	TagRefrPath
	TagSound
	TagTeleportGroup
	TagBoundAnimObject
	TagActivateRef
	TagActivatingChildren
	TagEnableStateParent
	TagEnablePoints
	TagLevCreaModifier
	TagGhost
	TagFollower
	TagLightData
	TagCellImageSpace
	TagUnused1
	TagTimeLeft
	TagCharge
	TagDecalData
	TagDroppedItemList
	TagDoorDefaultOpen
	TagNorthRotation
	TagObjectHealth
	TagLockList
	TagCellCanary
	TagRadius
	TagInfoGeneralTopic
	TagHealth
	TagColor
	TagLinkedRef
	TagTeleport // tag 43: destination pos/rot, unknown byte, target RefID
	TagMapMarker
	TagLeveledCreature // tag 45: base/template RefID pair, flags, inline NPC
	TagHorse
	TagIgnoredBySandbox
	TagMerchantContainer
	TagReflectedRefractedBy
	TagPersistentCell
	TagSavedHavokData
	TagCellInherited
	TagPrimitive
	TagOpenCloseActivateRef
	TagAnimNoteReceiver
	TagAshPileRef
	TagCreatureAwakeState
	TagPatrolRefData
	TagCannotMoveFromCellAlarm
	TagSkyCell
	TagFactionChanges
	TagUniqueID
	TagPoison
	TagRank
	TagModScale
	TagGuardedRefData
	TagCombatStyle
	TagPackageStartLocation
	TagAlias
	TagOwnership
	TagWornItem
	TagEncounterZone
)

var extraDataTagNames = map[ExtraDataTag]string{
	TagHasNoRumors:             "HasNoRumors",
	TagStartingWorldOrCell:     "StartingWorldOrCell",
	TagFriendHits:              "FriendHits",
	TagHeadingTarget:           "HeadingTarget",
	TagStartingPosition:        "StartingPosition",
	TagAnimation:               "Animation",
	TagScript:                  "Script",
	TagLeveledItem:             "LeveledItem",
	TagCannotWear:              "CannotWear",
	TagMagicCaster:             "MagicCaster",
	TagHotkey:                  "Hotkey",
	TagCellWaterType:           "CellWaterType",
	TagOutfitItem:              "OutfitItem",
	TagLeveledCreatureData:     "LeveledCreatureData",
	TagCellMusicType:           "CellMusicType",
	TagRefrPath:                "RefrPath",
	TagSound:                   "Sound",
	TagTeleportGroup:           "TeleportGroup",
	TagBoundAnimObject:         "BoundAnimObject",
	TagActivateRef:             "ActivateRef",
	TagActivatingChildren:      "ActivatingChildren",
	TagEnableStateParent:       "EnableStateParent",
	TagEnablePoints:            "EnablePoints",
	TagLevCreaModifier:         "LevCreaModifier",
	TagGhost:                   "Ghost",
	TagFollower:                "Follower",
	TagLightData:               "LightData",
	TagCellImageSpace:          "CellImageSpace",
	TagUnused1:                 "Unused1",
	TagTimeLeft:                "TimeLeft",
	TagCharge:                  "Charge",
	TagDecalData:               "DecalData",
	TagDroppedItemList:         "DroppedItemList",
	TagDoorDefaultOpen:         "DoorDefaultOpen",
	TagNorthRotation:           "NorthRotation",
	TagObjectHealth:            "ObjectHealth",
	TagLockList:                "LockList",
	TagCellCanary:              "CellCanary",
	TagRadius:                  "Radius",
	TagInfoGeneralTopic:        "InfoGeneralTopic",
	TagHealth:                  "Health",
	TagColor:                   "Color",
	TagLinkedRef:               "LinkedRef",
	TagTeleport:                "Teleport",
	TagMapMarker:               "MapMarker",
	TagLeveledCreature:         "LeveledCreature",
	TagHorse:                   "Horse",
	TagIgnoredBySandbox:        "IgnoredBySandbox",
	TagMerchantContainer:       "MerchantContainer",
	TagReflectedRefractedBy:    "ReflectedRefractedBy",
	TagPersistentCell:          "PersistentCell",
	TagSavedHavokData:          "SavedHavokData",
	TagCellInherited:           "CellInherited",
	TagPrimitive:               "Primitive",
	TagOpenCloseActivateRef:    "OpenCloseActivateRef",
	TagAnimNoteReceiver:        "AnimNoteReceiver",
	TagAshPileRef:              "AshPileRef",
	TagCreatureAwakeState:      "CreatureAwakeState",
	TagPatrolRefData:           "PatrolRefData",
	TagCannotMoveFromCellAlarm: "CannotMoveFromCellAlarm",
	TagSkyCell:                 "SkyCell",
	TagFactionChanges:          "FactionChanges",
	TagUniqueID:                "UniqueID",
	TagPoison:                  "Poison",
	TagRank:                    "Rank",
	TagModScale:                "ModScale",
	TagGuardedRefData:          "GuardedRefData",
	TagCombatStyle:             "CombatStyle",
	TagPackageStartLocation:    "PackageStartLocation",
	TagAlias:                   "Alias",
	TagOwnership:               "Ownership",
	TagWornItem:                "WornItem",
	TagEncounterZone:           "EncounterZone",
}

func (t ExtraDataTag) String() string {
	if n, ok := extraDataTagNames[t]; ok {
		return n
	}

	return "Unknown"
}
