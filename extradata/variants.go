package extradata

import (
	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/errs"
	"github.com/sagahold/essedit/format"
	"github.com/sagahold/essedit/refid"
)

// TeleportData is tag 43: a destination
// position/rotation, an unknown flag byte, and the target marker RefID.
type TeleportData struct {
	Pos     [3]float32
	Rot     [3]float32
	Unknown uint8
	Target  *refid.RefID
}

func (d *TeleportData) Tag() format.ExtraDataTag { return format.TagTeleport }

func (d *TeleportData) Write(c *cursor.Cursor) {
	for _, v := range d.Pos {
		c.WriteF32(v)
	}
	for _, v := range d.Rot {
		c.WriteF32(v)
	}
	c.WriteU8(d.Unknown)
	c.WriteRefIDRaw(d.Target.Raw())
}

func decodeTeleport(c *cursor.Cursor, opts Options) (Variant, error) {
	d := &TeleportData{}
	for i := range d.Pos {
		v, err := c.ReadF32()
		if err != nil {
			return nil, err
		}
		d.Pos[i] = v
	}
	for i := range d.Rot {
		v, err := c.ReadF32()
		if err != nil {
			return nil, err
		}
		d.Rot[i] = v
	}
	u, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	d.Unknown = u

	target, err := readRefID(c, opts.Registry)
	if err != nil {
		return nil, err
	}
	d.Target = target

	return d, nil
}

// LeveledCreatureData is tag 45: two
// RefIDs, a nested 32-bit flags word, and a recursively embedded NPC
// change-form decoded in inline mode (it must not consume trailing
// unparsed bytes).
type LeveledCreatureData struct {
	Base     *refid.RefID
	Template *refid.RefID
	Flags    uint32
	NPC      any
}

func (d *LeveledCreatureData) Tag() format.ExtraDataTag { return format.TagLeveledCreature }

func (d *LeveledCreatureData) Write(c *cursor.Cursor) {
	c.WriteRefIDRaw(d.Base.Raw())
	c.WriteRefIDRaw(d.Template.Raw())
	c.WriteU32(d.Flags)
	// NPC re-encoding is delegated to the changeform package through the
	// same injection point used on decode; callers that only read never
	// need this path, so Write leaves it to a caller-supplied NPC.Write
	// when NPC implements it.
	if w, ok := d.NPC.(interface{ Write(*cursor.Cursor) }); ok {
		w.Write(c)
	}
}

func decodeLeveledCreature(c *cursor.Cursor, opts Options) (Variant, error) {
	base, err := readRefID(c, opts.Registry)
	if err != nil {
		return nil, err
	}
	template, err := readRefID(c, opts.Registry)
	if err != nil {
		return nil, err
	}
	flags, err := c.ReadU32()
	if err != nil {
		return nil, err
	}

	d := &LeveledCreatureData{Base: base, Template: template, Flags: flags}

	if opts.DecodeNPCInline != nil {
		npc, err := opts.DecodeNPCInline(c, flags)
		if err != nil {
			return nil, err
		}
		d.NPC = npc
	}

	return d, nil
}

// floatData is the shared shape for tags whose entire payload is a
// single f32 (Health, Charge, TimeLeft, Radius, ModScale, NorthRotation).
type floatData struct {
	tag   format.ExtraDataTag
	Value float32
}

func (d *floatData) Tag() format.ExtraDataTag { return d.tag }
func (d *floatData) Write(c *cursor.Cursor)   { c.WriteF32(d.Value) }

func decodeFloat(tag format.ExtraDataTag) decodeFunc {
	return func(c *cursor.Cursor, _ Options) (Variant, error) {
		v, err := c.ReadF32()
		if err != nil {
			return nil, err
		}

		return &floatData{tag: tag, Value: v}, nil
	}
}

// u32Data is the shared shape for tags whose entire payload is a single
// u32 (Rank, Color, CellImageSpace).
type u32Data struct {
	tag   format.ExtraDataTag
	Value uint32
}

func (d *u32Data) Tag() format.ExtraDataTag { return d.tag }
func (d *u32Data) Write(c *cursor.Cursor)   { c.WriteU32(d.Value) }

func decodeU32(tag format.ExtraDataTag) decodeFunc {
	return func(c *cursor.Cursor, _ Options) (Variant, error) {
		v, err := c.ReadU32()
		if err != nil {
			return nil, err
		}

		return &u32Data{tag: tag, Value: v}, nil
	}
}

// refIDData is the shared shape for tags whose entire payload is a
// single RefID (StartingWorldOrCell, LinkedRef, LockList, Ownership,
// WornItem, MerchantContainer, EncounterZone).
type refIDData struct {
	tag   format.ExtraDataTag
	Value *refid.RefID
}

func (d *refIDData) Tag() format.ExtraDataTag { return d.tag }
func (d *refIDData) Write(c *cursor.Cursor)   { c.WriteRefIDRaw(d.Value.Raw()) }

func decodeSingleRefID(tag format.ExtraDataTag) decodeFunc {
	return func(c *cursor.Cursor, opts Options) (Variant, error) {
		r, err := readRefID(c, opts.Registry)
		if err != nil {
			return nil, err
		}

		return &refIDData{tag: tag, Value: r}, nil
	}
}

// markerData is the shared shape for tags whose presence alone conveys a
// boolean state, with no payload bytes (Ghost, Follower, CannotWear,
// IgnoredBySandbox, PersistentCell, SkyCell, DoorDefaultOpen,
// CreatureAwakeState, HasNoRumors, CannotMoveFromCellAlarm, CellInherited).
type markerData struct {
	tag format.ExtraDataTag
}

func (d *markerData) Tag() format.ExtraDataTag { return d.tag }
func (d *markerData) Write(c *cursor.Cursor)   {}

func decodeMarker(tag format.ExtraDataTag) decodeFunc {
	return func(c *cursor.Cursor, _ Options) (Variant, error) {
		return &markerData{tag: tag}, nil
	}
}

// ActivateRefData is tag 19: a target RefID plus a flags byte controlling
// activation behaviour (open/use/etc.).
type ActivateRefData struct {
	Target *refid.RefID
	Flags  uint8
}

func (d *ActivateRefData) Tag() format.ExtraDataTag { return format.TagActivateRef }
func (d *ActivateRefData) Write(c *cursor.Cursor) {
	c.WriteRefIDRaw(d.Target.Raw())
	c.WriteU8(d.Flags)
}

func decodeActivateRef(c *cursor.Cursor, opts Options) (Variant, error) {
	target, err := readRefID(c, opts.Registry)
	if err != nil {
		return nil, err
	}
	flags, err := c.ReadU8()
	if err != nil {
		return nil, err
	}

	return &ActivateRefData{Target: target, Flags: flags}, nil
}

// UniqueIDData is tag 62: a 32-bit unique identifier plus a 16-bit
// unknown field.
type UniqueIDData struct {
	ID      uint32
	Unknown uint16
}

func (d *UniqueIDData) Tag() format.ExtraDataTag { return format.TagUniqueID }
func (d *UniqueIDData) Write(c *cursor.Cursor) {
	c.WriteU32(d.ID)
	c.WriteU16(d.Unknown)
}

func decodeUniqueID(c *cursor.Cursor, _ Options) (Variant, error) {
	id, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	unk, err := c.ReadU16()
	if err != nil {
		return nil, err
	}

	return &UniqueIDData{ID: id, Unknown: unk}, nil
}

// ScriptData is tag 6: an embedded Papyrus script instance, framed by a
// VSVal length and otherwise left opaque. Script variable interpretation
// belongs to the scripting-VM sub-system, an out-of-scope external
// collaborator (see format.TagScript and the VM-state global-data block,
// which is opaque for the same reason); this variant only frames the
// bytes so the stream can skip past them and re-emit them unchanged.
type ScriptData struct {
	Raw []byte
}

func (d *ScriptData) Tag() format.ExtraDataTag { return format.TagScript }
func (d *ScriptData) Write(c *cursor.Cursor) {
	c.WriteVSVal(uint32(len(d.Raw)))
	c.WriteBytes(d.Raw)
}

func decodeScript(c *cursor.Cursor, _ Options) (Variant, error) {
	n, err := c.ReadVSVal()
	if err != nil {
		return nil, err
	}
	raw, err := c.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}

	return &ScriptData{Raw: raw}, nil
}

// AnimationData is tag 5: a named animation sequence plus an unknown
// u16, the same "length-prefixed name then fixed trailer" shape the NPC_
// change-form body uses for its full-name field.
type AnimationData struct {
	Sequence string
	Unknown  uint16
}

func (d *AnimationData) Tag() format.ExtraDataTag { return format.TagAnimation }
func (d *AnimationData) Write(c *cursor.Cursor) {
	_ = c.WriteLString(d.Sequence)
	c.WriteU16(d.Unknown)
}

func decodeAnimation(c *cursor.Cursor, _ Options) (Variant, error) {
	seq, err := c.ReadLString()
	if err != nil {
		return nil, err
	}
	unk, err := c.ReadU16()
	if err != nil {
		return nil, err
	}

	return &AnimationData{Sequence: seq, Unknown: unk}, nil
}

// LightData is tag 26: the light-record override fields a placed light
// carries when its color, radius, or fade differ from its base record.
type LightData struct {
	Color  uint32
	Radius float32
	Fade   float32
}

func (d *LightData) Tag() format.ExtraDataTag { return format.TagLightData }
func (d *LightData) Write(c *cursor.Cursor) {
	c.WriteU32(d.Color)
	c.WriteF32(d.Radius)
	c.WriteF32(d.Fade)
}

func decodeLightData(c *cursor.Cursor, _ Options) (Variant, error) {
	color, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	radius, err := c.ReadF32()
	if err != nil {
		return nil, err
	}
	fade, err := c.ReadF32()
	if err != nil {
		return nil, err
	}

	return &LightData{Color: color, Radius: radius, Fade: fade}, nil
}

// FactionRank pairs a faction RefID with the rank held in it, the same
// shape spec.md §4.9 describes for the NPC_ change-form's faction-rank
// table.
type FactionRank struct {
	Faction *refid.RefID
	Rank    int8
}

// FactionChangesData is tag 61: a VSVal-counted list of faction/rank
// pairs recording changes since the base record.
type FactionChangesData struct {
	Factions []FactionRank
}

func (d *FactionChangesData) Tag() format.ExtraDataTag { return format.TagFactionChanges }
func (d *FactionChangesData) Write(c *cursor.Cursor) {
	_ = c.WriteVSVal(uint32(len(d.Factions)))
	for _, f := range d.Factions {
		c.WriteRefIDRaw(f.Faction.Raw())
		c.WriteI8(f.Rank)
	}
}

func decodeFactionChanges(c *cursor.Cursor, opts Options) (Variant, error) {
	n, err := c.ReadVSVal()
	if err != nil {
		return nil, err
	}
	if n > MaxEntries {
		return nil, errs.ErrOversizeCount
	}

	factions := make([]FactionRank, 0, n)
	for i := uint32(0); i < n; i++ {
		f, err := readRefID(c, opts.Registry)
		if err != nil {
			return nil, err
		}
		rank, err := c.ReadI8()
		if err != nil {
			return nil, err
		}
		factions = append(factions, FactionRank{Faction: f, Rank: rank})
	}

	return &FactionChangesData{Factions: factions}, nil
}

// HotkeyData is tag 10: a single hotkey slot index.
type HotkeyData struct {
	Slot uint8
}

func (d *HotkeyData) Tag() format.ExtraDataTag { return format.TagHotkey }
func (d *HotkeyData) Write(c *cursor.Cursor)   { c.WriteU8(d.Slot) }

func decodeHotkey(c *cursor.Cursor, _ Options) (Variant, error) {
	slot, err := c.ReadU8()
	if err != nil {
		return nil, err
	}

	return &HotkeyData{Slot: slot}, nil
}
