// Package extradata decodes and encodes the per-record extra-data stream:
// a VSVal count followed by that many tag-discriminated variants.
package extradata

import (
	"fmt"

	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/errs"
	"github.com/sagahold/essedit/format"
	"github.com/sagahold/essedit/refid"
)

// MaxEntries bounds a single stream's record count: extra-data arrays
// are rejected above 1024 entries.
const MaxEntries = 1024

// Variant is one decoded extra-data record. Concrete types implement
// Write to re-encode themselves; Tag reports the dispatch tag so the
// stream writer can emit it ahead of the payload.
type Variant interface {
	Tag() format.ExtraDataTag
	Write(c *cursor.Cursor)
}

// Entry pairs a decoded Variant with its source tag for callers that want
// the tag without a type switch.
type Entry struct {
	Tag  format.ExtraDataTag
	Data Variant
}

// Options carries the per-container dependencies a stream decode needs:
// the RefID registry for canonicalisation, and a hook for the
// LeveledCreature variant's recursively embedded NPC change-form. The
// hook exists because extradata is a lower layer than changeform in the
// dependency order yet tag 45 embeds a change-form body;
// changeform injects the hook at call time rather than extradata
// importing changeform directly.
type Options struct {
	Registry *refid.Registry
	// DecodeNPCInline decodes a recursively embedded NPC_ change-form body
	// directly off the shared stream cursor, using npcChangeFlags as that
	// embedded record's own change-flags word (there is no length prefix
	// framing it, so the decoder must stop exactly where the NPC_ fields
	// end rather than guessing a boundary).
	DecodeNPCInline func(c *cursor.Cursor, npcChangeFlags uint32) (any, error)
}

type decodeFunc func(c *cursor.Cursor, opts Options) (Variant, error)

var dispatch = map[format.ExtraDataTag]decodeFunc{
	format.TagTeleport:         decodeTeleport,
	format.TagLeveledCreature:  decodeLeveledCreature,
	format.TagHealth:           decodeFloat(format.TagHealth),
	format.TagCharge:           decodeFloat(format.TagCharge),
	format.TagTimeLeft:         decodeFloat(format.TagTimeLeft),
	format.TagRadius:           decodeFloat(format.TagRadius),
	format.TagModScale:         decodeFloat(format.TagModScale),
	format.TagNorthRotation:    decodeFloat(format.TagNorthRotation),
	format.TagRank:             decodeU32(format.TagRank),
	format.TagColor:            decodeU32(format.TagColor),
	format.TagCellImageSpace:   decodeU32(format.TagCellImageSpace),
	format.TagStartingWorldOrCell: decodeSingleRefID(format.TagStartingWorldOrCell),
	format.TagLinkedRef:        decodeSingleRefID(format.TagLinkedRef),
	format.TagLockList:         decodeSingleRefID(format.TagLockList),
	format.TagOwnership:        decodeSingleRefID(format.TagOwnership),
	format.TagWornItem:         decodeSingleRefID(format.TagWornItem),
	format.TagMerchantContainer: decodeSingleRefID(format.TagMerchantContainer),
	format.TagEncounterZone:    decodeSingleRefID(format.TagEncounterZone),
	format.TagActivateRef:      decodeActivateRef,
	format.TagUniqueID:         decodeUniqueID,
	format.TagHotkey:           decodeHotkey,
	format.TagCombatStyle:      decodeSingleRefID(format.TagCombatStyle),
	format.TagScript:           decodeScript,
	format.TagAnimation:        decodeAnimation,
	format.TagLightData:        decodeLightData,
	format.TagFactionChanges:   decodeFactionChanges,
	// Marker tags: the record's presence alone conveys a boolean state,
	// no payload follows.
	format.TagGhost:                      decodeMarker(format.TagGhost),
	format.TagFollower:                   decodeMarker(format.TagFollower),
	format.TagCannotWear:                 decodeMarker(format.TagCannotWear),
	format.TagIgnoredBySandbox:           decodeMarker(format.TagIgnoredBySandbox),
	format.TagPersistentCell:             decodeMarker(format.TagPersistentCell),
	format.TagSkyCell:                    decodeMarker(format.TagSkyCell),
	format.TagDoorDefaultOpen:            decodeMarker(format.TagDoorDefaultOpen),
	format.TagCreatureAwakeState:         decodeMarker(format.TagCreatureAwakeState),
	format.TagHasNoRumors:                decodeMarker(format.TagHasNoRumors),
	format.TagCannotMoveFromCellAlarm:    decodeMarker(format.TagCannotMoveFromCellAlarm),
	format.TagCellInherited:              decodeMarker(format.TagCellInherited),
}

// ReadStream decodes a VSVal-counted sequence of tagged records. On an
// unrecognised tag, it returns the entries successfully decoded so far
// wrapped in an errs.Partial, per the "Unknown ExtraData" contract.
func ReadStream(c *cursor.Cursor, opts Options) ([]Entry, error) {
	count, err := c.ReadVSVal()
	if err != nil {
		return nil, err
	}
	if count > MaxEntries {
		return nil, errs.ErrOversizeCount
	}

	entries := make([]Entry, 0, count)
	for i := uint32(0); i < count; i++ {
		tagByte, err := c.ReadU8()
		if err != nil {
			return entries, errs.NewPartial(entries, err)
		}
		tag := format.ExtraDataTag(tagByte)

		decode, ok := dispatch[tag]
		if !ok {
			return entries, errs.NewPartial(entries, fmt.Errorf("%w: type=%d", errs.ErrUnknownVariant, tagByte))
		}

		data, err := decode(c, opts)
		if err != nil {
			return entries, errs.NewPartial(entries, err)
		}
		entries = append(entries, Entry{Tag: tag, Data: data})
	}

	return entries, nil
}

// WriteStream encodes entries back to the VSVal-counted tagged form.
func WriteStream(c *cursor.Cursor, entries []Entry) error {
	if err := c.WriteVSVal(uint32(len(entries))); err != nil {
		return err
	}
	for _, e := range entries {
		c.WriteU8(uint8(e.Tag))
		e.Data.Write(c)
	}

	return nil
}

func readRefID(c *cursor.Cursor, reg *refid.Registry) (*refid.RefID, error) {
	raw, err := c.ReadRefIDRaw()
	if err != nil {
		return nil, err
	}

	return reg.Intern(raw), nil
}
