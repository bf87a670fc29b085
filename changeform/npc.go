package changeform

import (
	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/flags"
	"github.com/sagahold/essedit/refid"
)

// Bit positions of the NPC_ change-flags word. As with REFR/ACHR,
// spec.md §4.9 names these fields in declaration order without assigning
// numeric positions; this implementation numbers them sequentially.
const (
	npcBitHeader         flags.Bit = 0
	npcBitBaseData       flags.Bit = 1
	npcBitFactionRanks   flags.Bit = 2
	npcBitSpells         flags.Bit = 3
	npcBitLevelledSpells flags.Bit = 4
	npcBitShouts         flags.Bit = 5
	npcBitAI             flags.Bit = 6
	npcBitFullName       flags.Bit = 7
	npcBitSkills         flags.Bit = 8
	npcBitClass          flags.Bit = 9
	npcBitRacePair       flags.Bit = 10
	npcBitFace           flags.Bit = 11
	npcBitGender         flags.Bit = 12
	npcBitDefaultOutfit  flags.Bit = 13
	npcBitSleepOutfit    flags.Bit = 14
)

// FactionRank is one row of an NPC_'s faction-ranks table.
type FactionRank struct {
	Faction *refid.RefID
	Rank    uint8
}

// FaceData is the NPC_ face sub-block: u8-gated presence, then (on
// presence) hair/skin/head-part references and an optionally-present
// morph/preset data block.
type FaceData struct {
	HairColor *refid.RefID
	SkinTone  uint32
	Skin      *refid.RefID
	HeadParts []*refid.RefID

	HasMorphData bool
	MorphValues  []float32
	PresetValues []uint32
}

func readFaceData(c *cursor.Cursor, reg *refid.Registry) (*FaceData, bool, error) {
	present, err := c.ReadU8()
	if err != nil || present == 0 {
		return nil, false, err
	}

	f := &FaceData{}

	hairRaw, err := c.ReadRefIDRaw()
	if err != nil {
		return f, true, err
	}
	f.HairColor = reg.Intern(hairRaw)

	if f.SkinTone, err = c.ReadU32(); err != nil {
		return f, true, err
	}

	skinRaw, err := c.ReadRefIDRaw()
	if err != nil {
		return f, true, err
	}
	f.Skin = reg.Intern(skinRaw)

	headCount, err := c.ReadVSVal()
	if err != nil {
		return f, true, err
	}
	f.HeadParts = make([]*refid.RefID, 0, headCount)
	for i := uint32(0); i < headCount; i++ {
		raw, err := c.ReadRefIDRaw()
		if err != nil {
			return f, true, err
		}
		f.HeadParts = append(f.HeadParts, reg.Intern(raw))
	}

	faceDataPresent, err := c.ReadU8()
	if err != nil {
		return f, true, err
	}
	if faceDataPresent != 0 {
		morphCount, err := c.ReadU32()
		if err != nil {
			return f, true, err
		}
		f.MorphValues = make([]float32, morphCount)
		for i := range f.MorphValues {
			if f.MorphValues[i], err = c.ReadF32(); err != nil {
				return f, true, err
			}
		}

		presetCount, err := c.ReadU32()
		if err != nil {
			return f, true, err
		}
		f.PresetValues = make([]uint32, presetCount)
		for i := range f.PresetValues {
			if f.PresetValues[i], err = c.ReadU32(); err != nil {
				return f, true, err
			}
		}
		f.HasMorphData = true
	}

	return f, true, nil
}

func (f *FaceData) write(c *cursor.Cursor) {
	c.WriteU8(1)
	c.WriteRefIDRaw(f.HairColor.Raw())
	c.WriteU32(f.SkinTone)
	c.WriteRefIDRaw(f.Skin.Raw())
	_ = c.WriteVSVal(uint32(len(f.HeadParts)))
	for _, r := range f.HeadParts {
		c.WriteRefIDRaw(r.Raw())
	}
	if f.HasMorphData {
		c.WriteU8(1)
		c.WriteU32(uint32(len(f.MorphValues)))
		for _, v := range f.MorphValues {
			c.WriteF32(v)
		}
		c.WriteU32(uint32(len(f.PresetValues)))
		for _, v := range f.PresetValues {
			c.WriteU32(v)
		}
	} else {
		c.WriteU8(0)
	}
}

// NPCData is an NPC_ change-form body.
type NPCData struct {
	HasHeader bool
	Header    ChangeFormFlags

	HasBaseData bool
	BaseData    [24]byte

	HasFactionRanks bool
	FactionRanks    []FactionRank

	HasSpells bool
	Spells    []*refid.RefID

	HasLevelledSpells bool
	LevelledSpells    []*refid.RefID

	HasShouts bool
	Shouts    []*refid.RefID

	HasAI bool
	AI    [20]byte

	HasFullName bool
	FullName    string

	HasSkills bool
	Skills    [52]byte

	HasClass bool
	Class    *refid.RefID

	HasRacePair bool
	RaceNew     *refid.RefID
	RaceOld     *refid.RefID

	// HasFace mirrors the face change-flag; Face is nil when the face
	// block's presence byte is zero.
	HasFace bool
	Face    *FaceData

	HasGender bool
	Gender    uint8

	HasDefaultOutfit bool
	DefaultOutfit    *refid.RefID

	HasSleepOutfit bool
	SleepOutfit    *refid.RefID
}

func (d *NPCData) changeFormData() {}

func (d *NPCData) Write(c *cursor.Cursor) {
	if d.HasHeader {
		d.Header.write(c)
	}
	if d.HasBaseData {
		c.WriteBytes(d.BaseData[:])
	}
	if d.HasFactionRanks {
		_ = c.WriteVSVal(uint32(len(d.FactionRanks)))
		for _, r := range d.FactionRanks {
			c.WriteRefIDRaw(r.Faction.Raw())
			c.WriteU8(r.Rank)
		}
	}
	writeRefIDArray(c, d.HasSpells, d.Spells)
	writeRefIDArray(c, d.HasLevelledSpells, d.LevelledSpells)
	writeRefIDArray(c, d.HasShouts, d.Shouts)
	if d.HasAI {
		c.WriteBytes(d.AI[:])
	}
	if d.HasFullName {
		_ = c.WriteLString(d.FullName)
	}
	if d.HasSkills {
		c.WriteBytes(d.Skills[:])
	}
	if d.HasClass {
		c.WriteRefIDRaw(d.Class.Raw())
	}
	if d.HasRacePair {
		c.WriteRefIDRaw(d.RaceNew.Raw())
		c.WriteRefIDRaw(d.RaceOld.Raw())
	}
	if d.HasFace {
		if d.Face == nil {
			c.WriteU8(0)
		} else {
			d.Face.write(c)
		}
	}
	if d.HasGender {
		c.WriteU8(d.Gender)
	}
	if d.HasDefaultOutfit {
		c.WriteRefIDRaw(d.DefaultOutfit.Raw())
	}
	if d.HasSleepOutfit {
		c.WriteRefIDRaw(d.SleepOutfit.Raw())
	}
}

func writeRefIDArray(c *cursor.Cursor, present bool, refs []*refid.RefID) {
	if !present {
		return
	}
	_ = c.WriteVSVal(uint32(len(refs)))
	for _, r := range refs {
		c.WriteRefIDRaw(r.Raw())
	}
}

func readRefIDArray(c *cursor.Cursor, reg *refid.Registry) ([]*refid.RefID, error) {
	count, err := c.ReadVSVal()
	if err != nil {
		return nil, err
	}
	out := make([]*refid.RefID, 0, count)
	for i := uint32(0); i < count; i++ {
		raw, err := c.ReadRefIDRaw()
		if err != nil {
			return out, err
		}
		out = append(out, reg.Intern(raw))
	}

	return out, nil
}

// decodeNPC decodes an NPC_ change-form body from npcChangeFlags. When
// inline is true, this is a recursively embedded decode (extra-data tag
// 45, LeveledCreature) that must not consume trailing bytes: the caller's
// stream continues immediately after the last conditional field this
// decoder reads.
func decodeNPC(c *cursor.Cursor, npcChangeFlags uint32, opts Options, inline bool) (*NPCData, error) {
	cf := flagsFromU32(npcChangeFlags)
	d := &NPCData{}

	if npcBitHeader.Has(cf) {
		hdr, err := readChangeFormFlags(c)
		if err != nil {
			return d, err
		}
		d.HasHeader, d.Header = true, hdr
	}

	if npcBitBaseData.Has(cf) {
		b, err := c.ReadBytes(24)
		if err != nil {
			return d, err
		}
		d.HasBaseData = true
		copy(d.BaseData[:], b)
	}

	if npcBitFactionRanks.Has(cf) {
		count, err := c.ReadVSVal()
		if err != nil {
			return d, err
		}
		ranks := make([]FactionRank, 0, count)
		for i := uint32(0); i < count; i++ {
			raw, err := c.ReadRefIDRaw()
			if err != nil {
				return d, err
			}
			rank, err := c.ReadU8()
			if err != nil {
				return d, err
			}
			ranks = append(ranks, FactionRank{Faction: opts.Registry.Intern(raw), Rank: rank})
		}
		d.HasFactionRanks, d.FactionRanks = true, ranks
	}

	if npcBitSpells.Has(cf) {
		refs, err := readRefIDArray(c, opts.Registry)
		d.HasSpells, d.Spells = true, refs
		if err != nil {
			return d, err
		}
	}
	if npcBitLevelledSpells.Has(cf) {
		refs, err := readRefIDArray(c, opts.Registry)
		d.HasLevelledSpells, d.LevelledSpells = true, refs
		if err != nil {
			return d, err
		}
	}
	if npcBitShouts.Has(cf) {
		refs, err := readRefIDArray(c, opts.Registry)
		d.HasShouts, d.Shouts = true, refs
		if err != nil {
			return d, err
		}
	}

	if npcBitAI.Has(cf) {
		b, err := c.ReadBytes(20)
		if err != nil {
			return d, err
		}
		d.HasAI = true
		copy(d.AI[:], b)
	}

	if npcBitFullName.Has(cf) {
		name, err := c.ReadLString()
		if err != nil {
			return d, err
		}
		d.HasFullName, d.FullName = true, name
	}

	if npcBitSkills.Has(cf) {
		b, err := c.ReadBytes(52)
		if err != nil {
			return d, err
		}
		d.HasSkills = true
		copy(d.Skills[:], b)
	}

	if npcBitClass.Has(cf) {
		raw, err := c.ReadRefIDRaw()
		if err != nil {
			return d, err
		}
		d.HasClass, d.Class = true, opts.Registry.Intern(raw)
	}

	if npcBitRacePair.Has(cf) {
		newRaw, err := c.ReadRefIDRaw()
		if err != nil {
			return d, err
		}
		oldRaw, err := c.ReadRefIDRaw()
		if err != nil {
			return d, err
		}
		d.HasRacePair = true
		d.RaceNew = opts.Registry.Intern(newRaw)
		d.RaceOld = opts.Registry.Intern(oldRaw)
	}

	if npcBitFace.Has(cf) {
		face, present, err := readFaceData(c, opts.Registry)
		if err != nil {
			return d, err
		}
		d.HasFace = true
		if present {
			d.Face = face
		}
	}

	if npcBitGender.Has(cf) {
		g, err := c.ReadU8()
		if err != nil {
			return d, err
		}
		d.HasGender, d.Gender = true, g
	}

	if npcBitDefaultOutfit.Has(cf) {
		raw, err := c.ReadRefIDRaw()
		if err != nil {
			return d, err
		}
		d.HasDefaultOutfit, d.DefaultOutfit = true, opts.Registry.Intern(raw)
	}

	if npcBitSleepOutfit.Has(cf) {
		raw, err := c.ReadRefIDRaw()
		if err != nil {
			return d, err
		}
		d.HasSleepOutfit, d.SleepOutfit = true, opts.Registry.Intern(raw)
	}

	_ = inline // inline mode's contract (no trailing-byte consumption) is
	// satisfied simply by this decoder never reading past its last
	// conditional field, on either call path.

	return d, nil
}

func flagsFromU32(v uint32) flags.Flags32 { return flags.Flags32(v) }
