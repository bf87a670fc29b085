package changeform

import (
	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/extradata"
	"github.com/sagahold/essedit/flags"
	"github.com/sagahold/essedit/format"
	"github.com/sagahold/essedit/refid"
)

// Bit positions of the REFR/ACHR change-flags word. spec.md §4.9 names
// these fields and the type-selection precedence between the first four
// but never assigns numeric positions (unlike FLST/leveled/RELA, which
// get explicit bit numbers); this implementation assigns its own
// consistent, self-round-tripping scheme in declaration order, recorded
// in DESIGN.md's change-form codec section.
const (
	refrBitMove         flags.Bit = 0
	refrBitHavokMove     flags.Bit = 1
	refrBitCellChanged   flags.Bit = 2
	refrBitPromoted      flags.Bit = 3
	refrBitHavok         flags.Bit = 4
	refrBitAchrUnknown   flags.Bit = 5 // ACHR only
	refrBitFormFlags     flags.Bit = 6
	refrBitBaseObject    flags.Bit = 7
	refrBitScale         flags.Bit = 8
	refrBitExtraData     flags.Bit = 9
	refrBitInventory     flags.Bit = 10
	refrBitPromotedRefs  flags.Bit = 11 // REFR only
	refrBitAnimations    flags.Bit = 12
)

// initialDataKind computes the placed-reference "initial data" type per
// the priority table in spec.md §4.9: CREATED beats PROMOTED/CELL_CHANGED
// beats HAVOK_MOVE/MOVE beats the empty default.
func initialDataKind(ref *refid.RefID, cf flags.Flags32) int {
	switch {
	case ref.Tag() == refid.TagCreated:
		return 5
	case refrBitPromoted.Has(cf) || refrBitCellChanged.Has(cf):
		return 6
	case refrBitHavokMove.Has(cf) || refrBitMove.Has(cf):
		return 4
	default:
		return 0
	}
}

// InitialData is the placed reference's leading data block, whose layout
// is selected by initialDataKind (spec.md §4.9's type 0-6 table). Only the
// fields relevant to Kind are populated.
type InitialData struct {
	Kind int

	// kind 1: u16, u8, u8, u32
	K1A uint16
	K1B uint8
	K1C uint8
	K1D uint32

	// kind 2: u16, u16, u16, u32
	K2A, K2B, K2C uint16
	K2D           uint32

	// kind 3: u32
	K3A uint32

	// kinds 4/5/6 share cell + pos + rot
	Cell *refid.RefID
	Pos  [3]float32
	Rot  [3]float32

	// kind 5 additionally: u8, base RefID
	K5A  uint8
	Base *refid.RefID

	// kind 6 additionally: starting-cell RefID, u16, u16
	StartingCell *refid.RefID
	K6A, K6B     uint16
}

func readInitialData(c *cursor.Cursor, kind int, reg *refid.Registry) (*InitialData, error) {
	d := &InitialData{Kind: kind}

	var err error
	switch kind {
	case 1:
		if d.K1A, err = c.ReadU16(); err != nil {
			return d, err
		}
		if d.K1B, err = c.ReadU8(); err != nil {
			return d, err
		}
		if d.K1C, err = c.ReadU8(); err != nil {
			return d, err
		}
		if d.K1D, err = c.ReadU32(); err != nil {
			return d, err
		}
	case 2:
		if d.K2A, err = c.ReadU16(); err != nil {
			return d, err
		}
		if d.K2B, err = c.ReadU16(); err != nil {
			return d, err
		}
		if d.K2C, err = c.ReadU16(); err != nil {
			return d, err
		}
		if d.K2D, err = c.ReadU32(); err != nil {
			return d, err
		}
	case 3:
		if d.K3A, err = c.ReadU32(); err != nil {
			return d, err
		}
	case 4, 5, 6:
		cellRaw, err := c.ReadRefIDRaw()
		if err != nil {
			return d, err
		}
		d.Cell = reg.Intern(cellRaw)
		for i := range d.Pos {
			if d.Pos[i], err = c.ReadF32(); err != nil {
				return d, err
			}
		}
		for i := range d.Rot {
			if d.Rot[i], err = c.ReadF32(); err != nil {
				return d, err
			}
		}
		if kind == 5 {
			if d.K5A, err = c.ReadU8(); err != nil {
				return d, err
			}
			baseRaw, err := c.ReadRefIDRaw()
			if err != nil {
				return d, err
			}
			d.Base = reg.Intern(baseRaw)
		}
		if kind == 6 {
			startRaw, err := c.ReadRefIDRaw()
			if err != nil {
				return d, err
			}
			d.StartingCell = reg.Intern(startRaw)
			if d.K6A, err = c.ReadU16(); err != nil {
				return d, err
			}
			if d.K6B, err = c.ReadU16(); err != nil {
				return d, err
			}
		}
	case 0:
		// empty
	}

	return d, nil
}

func (d *InitialData) write(c *cursor.Cursor) {
	switch d.Kind {
	case 1:
		c.WriteU16(d.K1A)
		c.WriteU8(d.K1B)
		c.WriteU8(d.K1C)
		c.WriteU32(d.K1D)
	case 2:
		c.WriteU16(d.K2A)
		c.WriteU16(d.K2B)
		c.WriteU16(d.K2C)
		c.WriteU32(d.K2D)
	case 3:
		c.WriteU32(d.K3A)
	case 4, 5, 6:
		c.WriteRefIDRaw(d.Cell.Raw())
		for _, v := range d.Pos {
			c.WriteF32(v)
		}
		for _, v := range d.Rot {
			c.WriteF32(v)
		}
		if d.Kind == 5 {
			c.WriteU8(d.K5A)
			c.WriteRefIDRaw(d.Base.Raw())
		}
		if d.Kind == 6 {
			c.WriteRefIDRaw(d.StartingCell.Raw())
			c.WriteU16(d.K6A)
			c.WriteU16(d.K6B)
		}
	case 0:
		// empty
	}
}

// InventoryItem is one ChangeFormInventoryItem row: an item RefID and a
// signed stack count. spec.md names the field without specifying its
// exact byte layout; this mirrors the (RefID, count) shape used
// elsewhere in the format (leveled-list entries, animation rows).
type InventoryItem struct {
	Item  *refid.RefID
	Count int32
}

// PlacedData is the shared REFR/ACHR change-form body.
type PlacedData struct {
	Kind    format.ChangeFormType // CFReference or CFActorReference
	Initial *InitialData

	HasHavok bool
	Havok    []byte

	HasAchrUnknown   bool // ACHR only
	AchrUnknownInt   uint32
	AchrUnknownBytes [4]byte

	HasFormFlags bool
	FormFlags    ChangeFormFlags

	HasBaseObject bool
	BaseObject    *refid.RefID

	HasScale bool
	Scale    float32

	HasExtraData bool
	ExtraData    []extradata.Entry

	HasInventory bool
	Inventory    []InventoryItem

	HasPromotedRefs bool // REFR only
	PromotedRefs    []*refid.RefID

	HasAnimations bool
	Animations    []byte

	// Unparsed holds any bytes left over after every conditional field is
	// read; a non-empty Unparsed flags the record as having unparsed
	// data (e.g. an explosion sub-block this core never reads, per
	// spec.md's analysis-dependent Open Question).
	Unparsed []byte
}

func (d *PlacedData) changeFormData() {}

func (d *PlacedData) Write(c *cursor.Cursor) {
	d.Initial.write(c)

	if d.HasHavok {
		_ = c.WriteVSVal(uint32(len(d.Havok)))
		c.WriteBytes(d.Havok)
	}
	if d.HasAchrUnknown {
		c.WriteU32(d.AchrUnknownInt)
		c.WriteBytes(d.AchrUnknownBytes[:])
	}
	if d.HasFormFlags {
		d.FormFlags.write(c)
	}
	if d.HasBaseObject {
		c.WriteRefIDRaw(d.BaseObject.Raw())
	}
	if d.HasScale {
		c.WriteF32(d.Scale)
	}
	if d.HasExtraData {
		_ = extradata.WriteStream(c, d.ExtraData)
	}
	if d.HasInventory {
		_ = c.WriteVSVal(uint32(len(d.Inventory)))
		for _, it := range d.Inventory {
			c.WriteRefIDRaw(it.Item.Raw())
			c.WriteI32(it.Count)
		}
	}
	if d.HasPromotedRefs {
		_ = c.WriteVSVal(uint32(len(d.PromotedRefs)))
		for _, r := range d.PromotedRefs {
			c.WriteRefIDRaw(r.Raw())
		}
	}
	if d.HasAnimations {
		_ = c.WriteVSVal(uint32(len(d.Animations)))
		c.WriteBytes(d.Animations)
	}
	c.WriteBytes(d.Unparsed)
}

func decodePlaced(sub *cursor.Cursor, cf *ChangeForm, opts Options) (*PlacedData, error) {
	kind := initialDataKind(cf.Ref, cf.ChangeFlags)
	initial, err := readInitialData(sub, kind, opts.Registry)
	if err != nil {
		return &PlacedData{Kind: cf.Type, Initial: initial}, err
	}

	d := &PlacedData{Kind: cf.Type, Initial: initial}

	if refrBitHavok.Has(cf.ChangeFlags) {
		n, err := sub.ReadVSVal()
		if err != nil {
			return d, err
		}
		havok, err := sub.ReadBytes(int(n))
		if err != nil {
			return d, err
		}
		d.HasHavok, d.Havok = true, havok
	}

	if cf.Type == format.CFActorReference && refrBitAchrUnknown.Has(cf.ChangeFlags) {
		u, err := sub.ReadU32()
		if err != nil {
			return d, err
		}
		b, err := sub.ReadBytes(4)
		if err != nil {
			return d, err
		}
		d.HasAchrUnknown, d.AchrUnknownInt = true, u
		copy(d.AchrUnknownBytes[:], b)
	}

	if refrBitFormFlags.Has(cf.ChangeFlags) {
		hdr, err := readChangeFormFlags(sub)
		if err != nil {
			return d, err
		}
		d.HasFormFlags, d.FormFlags = true, hdr
	}

	if refrBitBaseObject.Has(cf.ChangeFlags) {
		raw, err := sub.ReadRefIDRaw()
		if err != nil {
			return d, err
		}
		d.HasBaseObject, d.BaseObject = true, opts.Registry.Intern(raw)
	}

	if refrBitScale.Has(cf.ChangeFlags) {
		v, err := sub.ReadF32()
		if err != nil {
			return d, err
		}
		d.HasScale, d.Scale = true, v
	}

	if refrBitExtraData.Has(cf.ChangeFlags) {
		entries, err := extradata.ReadStream(sub, toExtraDataOptions(opts))
		d.HasExtraData, d.ExtraData = true, entries
		if err != nil {
			return d, err
		}
	}

	if refrBitInventory.Has(cf.ChangeFlags) {
		count, err := sub.ReadVSVal()
		if err != nil {
			return d, err
		}
		items := make([]InventoryItem, 0, count)
		for i := uint32(0); i < count; i++ {
			raw, err := sub.ReadRefIDRaw()
			if err != nil {
				return d, err
			}
			cnt, err := sub.ReadI32()
			if err != nil {
				return d, err
			}
			items = append(items, InventoryItem{Item: opts.Registry.Intern(raw), Count: cnt})
		}
		d.HasInventory, d.Inventory = true, items
	}

	if cf.Type == format.CFReference && refrBitPromotedRefs.Has(cf.ChangeFlags) {
		count, err := sub.ReadVSVal()
		if err != nil {
			return d, err
		}
		refs := make([]*refid.RefID, 0, count)
		for i := uint32(0); i < count; i++ {
			raw, err := sub.ReadRefIDRaw()
			if err != nil {
				return d, err
			}
			refs = append(refs, opts.Registry.Intern(raw))
		}
		d.HasPromotedRefs, d.PromotedRefs = true, refs
	}

	if refrBitAnimations.Has(cf.ChangeFlags) {
		n, err := sub.ReadVSVal()
		if err != nil {
			return d, err
		}
		blob, err := sub.ReadBytes(int(n))
		if err != nil {
			return d, err
		}
		d.HasAnimations, d.Animations = true, blob
	}

	// The REFR explosion sub-block is conditional on an analysis lookup
	// this core does not perform (spec.md §4.9/§9 Open Question); any
	// bytes it would have consumed surface below as Unparsed instead.
	if sub.Len() > 0 {
		rest, err := sub.ReadBytes(sub.Len())
		if err != nil {
			return d, err
		}
		d.Unparsed = rest
	}

	return d, nil
}
