package changeform

import (
	"fmt"

	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/errs"
	"github.com/sagahold/essedit/flags"
	"github.com/sagahold/essedit/refid"
)

// Bit positions of the QUST change-flags word. spec.md §4.9 lists these
// fields in order without numbering them (as with REFR/ACHR and NPC_);
// numbered sequentially here.
const (
	questBitHeader      flags.Bit = 0
	questBitQuestFlags  flags.Bit = 1
	questBitScriptDelay flags.Bit = 2
	questBitStages      flags.Bit = 3
	questBitObjectives  flags.Bit = 4
	questBitRunData     flags.Bit = 5
	questBitAlreadyRun  flags.Bit = 6
)

// QuestStage is one row of a QUST's VSVal-counted stage array.
type QuestStage struct {
	Stage  int16
	Status uint8
}

// QuestObjective is one row of a QUST's VSVal-counted objective array.
type QuestObjective struct {
	A uint32
	B uint32
}

// Item1 is a QuestRunData row whose RefID array length depends on its own
// flags word: 1 element when AllZero, otherwise 5.
type Item1 struct {
	A     uint32
	Flags uint8
	Refs  []*refid.RefID
}

// Item2 is a QuestRunData row: a u32 plus a single RefID.
type Item2 struct {
	A   uint32
	Ref *refid.RefID
}

// Item3DataType discriminates an Item3Data's payload shape.
type Item3DataType uint32

const (
	Item3TypeRef1   Item3DataType = 1
	Item3TypeRef2   Item3DataType = 2
	Item3TypeU32    Item3DataType = 3
	Item3TypeRef4   Item3DataType = 4
)

// Item3Data is one entry of Item3's array: a type tag selecting either a
// single RefID (types 1, 2, 4) or a raw u32 (type 3).
type Item3Data struct {
	Type  Item3DataType
	Ref   *refid.RefID
	Value uint32
}

// Item3 is QuestRunData's optional trailing record, present when its
// gating flags byte is not all-zero.
type Item3 struct {
	A     uint32
	B     float32
	Items []Item3Data
}

// QuestRunData is the QUST sub-record described in spec.md §4.9.
type QuestRunData struct {
	U8A uint8

	Items1 []Item1
	Items2 []Item2

	Flag uint8

	HasItem3 bool
	Item3    *Item3
}

// QuestData is a QUST change-form body.
type QuestData struct {
	HasHeader bool
	Header    ChangeFormFlags

	HasQuestFlags bool
	QuestFlags    uint16

	HasScriptDelay bool
	ScriptDelay    float32

	HasStages bool
	Stages    []QuestStage

	HasObjectives bool
	Objectives    []QuestObjective

	HasRunData bool
	RunData    *QuestRunData

	HasAlreadyRun bool
	AlreadyRun    uint8
}

func (d *QuestData) changeFormData() {}

func (d *QuestData) Write(c *cursor.Cursor) {
	if d.HasHeader {
		d.Header.write(c)
	}
	if d.HasQuestFlags {
		c.WriteU16(d.QuestFlags)
	}
	if d.HasScriptDelay {
		c.WriteF32(d.ScriptDelay)
	}
	if d.HasStages {
		_ = c.WriteVSVal(uint32(len(d.Stages)))
		for _, s := range d.Stages {
			c.WriteI16(s.Stage)
			c.WriteU8(s.Status)
		}
	}
	if d.HasObjectives {
		_ = c.WriteVSVal(uint32(len(d.Objectives)))
		for _, o := range d.Objectives {
			c.WriteU32(o.A)
			c.WriteU32(o.B)
		}
	}
	if d.HasRunData {
		d.RunData.write(c)
	}
	if d.HasAlreadyRun {
		c.WriteU8(d.AlreadyRun)
	}
}

func (rd *QuestRunData) write(c *cursor.Cursor) {
	c.WriteU8(rd.U8A)

	c.WriteU32(uint32(len(rd.Items1)))
	for _, it := range rd.Items1 {
		c.WriteU32(it.A)
		c.WriteU8(it.Flags)
		for _, r := range it.Refs {
			c.WriteRefIDRaw(r.Raw())
		}
	}

	c.WriteU32(uint32(len(rd.Items2)))
	for _, it := range rd.Items2 {
		c.WriteU32(it.A)
		c.WriteRefIDRaw(it.Ref.Raw())
	}

	c.WriteU8(rd.Flag)
	if rd.HasItem3 {
		rd.Item3.write(c)
	}
}

func (it3 *Item3) write(c *cursor.Cursor) {
	c.WriteU32(it3.A)
	c.WriteF32(it3.B)
	c.WriteU32(uint32(len(it3.Items)))
	for _, d := range it3.Items {
		c.WriteU32(uint32(d.Type))
		switch d.Type {
		case Item3TypeRef1, Item3TypeRef2, Item3TypeRef4:
			c.WriteRefIDRaw(d.Ref.Raw())
		case Item3TypeU32:
			c.WriteU32(d.Value)
		}
	}
}

func decodeQuest(sub *cursor.Cursor, cf flags.Flags32, opts Options) (*QuestData, error) {
	d := &QuestData{}

	if questBitHeader.Has(cf) {
		hdr, err := readChangeFormFlags(sub)
		if err != nil {
			return d, err
		}
		d.HasHeader, d.Header = true, hdr
	}

	if questBitQuestFlags.Has(cf) {
		v, err := sub.ReadU16()
		if err != nil {
			return d, err
		}
		d.HasQuestFlags, d.QuestFlags = true, v
	}

	if questBitScriptDelay.Has(cf) {
		v, err := sub.ReadF32()
		if err != nil {
			return d, err
		}
		d.HasScriptDelay, d.ScriptDelay = true, v
	}

	if questBitStages.Has(cf) {
		count, err := sub.ReadVSVal()
		if err != nil {
			return d, err
		}
		stages := make([]QuestStage, 0, count)
		for i := uint32(0); i < count; i++ {
			stage, err := sub.ReadI16()
			if err != nil {
				return d, err
			}
			status, err := sub.ReadU8()
			if err != nil {
				return d, err
			}
			stages = append(stages, QuestStage{Stage: stage, Status: status})
		}
		d.HasStages, d.Stages = true, stages
	}

	if questBitObjectives.Has(cf) {
		count, err := sub.ReadVSVal()
		if err != nil {
			return d, err
		}
		objs := make([]QuestObjective, 0, count)
		for i := uint32(0); i < count; i++ {
			a, err := sub.ReadU32()
			if err != nil {
				return d, err
			}
			b, err := sub.ReadU32()
			if err != nil {
				return d, err
			}
			objs = append(objs, QuestObjective{A: a, B: b})
		}
		d.HasObjectives, d.Objectives = true, objs
	}

	if questBitRunData.Has(cf) {
		rd, err := decodeQuestRunData(sub, opts)
		d.HasRunData, d.RunData = true, rd
		if err != nil {
			return d, err
		}
	}

	if questBitAlreadyRun.Has(cf) {
		v, err := sub.ReadU8()
		if err != nil {
			return d, err
		}
		d.HasAlreadyRun, d.AlreadyRun = true, v
	}

	return d, nil
}

func decodeQuestRunData(sub *cursor.Cursor, opts Options) (*QuestRunData, error) {
	rd := &QuestRunData{}

	u8a, err := sub.ReadU8()
	if err != nil {
		return rd, err
	}
	rd.U8A = u8a

	count1, err := sub.ReadU32()
	if err != nil {
		return rd, err
	}
	rd.Items1 = make([]Item1, 0, count1)
	for i := uint32(0); i < count1; i++ {
		a, err := sub.ReadU32()
		if err != nil {
			return rd, err
		}
		f, err := sub.ReadU8()
		if err != nil {
			return rd, err
		}
		n := 5
		if flags.Flags8(f).AllZero() {
			n = 1
		}
		refs := make([]*refid.RefID, 0, n)
		for j := 0; j < n; j++ {
			raw, err := sub.ReadRefIDRaw()
			if err != nil {
				return rd, err
			}
			refs = append(refs, opts.Registry.Intern(raw))
		}
		rd.Items1 = append(rd.Items1, Item1{A: a, Flags: f, Refs: refs})
	}

	count2, err := sub.ReadU32()
	if err != nil {
		return rd, err
	}
	rd.Items2 = make([]Item2, 0, count2)
	for i := uint32(0); i < count2; i++ {
		a, err := sub.ReadU32()
		if err != nil {
			return rd, err
		}
		raw, err := sub.ReadRefIDRaw()
		if err != nil {
			return rd, err
		}
		rd.Items2 = append(rd.Items2, Item2{A: a, Ref: opts.Registry.Intern(raw)})
	}

	flag, err := sub.ReadU8()
	if err != nil {
		return rd, err
	}
	rd.Flag = flag

	if !flags.Flags8(flag).AllZero() {
		it3, err := decodeItem3(sub, opts)
		rd.HasItem3, rd.Item3 = true, it3
		if err != nil {
			return rd, err
		}
	}

	return rd, nil
}

func decodeItem3(sub *cursor.Cursor, opts Options) (*Item3, error) {
	it3 := &Item3{}

	a, err := sub.ReadU32()
	if err != nil {
		return it3, err
	}
	it3.A = a

	b, err := sub.ReadF32()
	if err != nil {
		return it3, err
	}
	it3.B = b

	count, err := sub.ReadU32()
	if err != nil {
		return it3, err
	}
	it3.Items = make([]Item3Data, 0, count)
	for i := uint32(0); i < count; i++ {
		typ, err := sub.ReadU32()
		if err != nil {
			return it3, err
		}

		switch Item3DataType(typ) {
		case Item3TypeRef1, Item3TypeRef2, Item3TypeRef4:
			raw, err := sub.ReadRefIDRaw()
			if err != nil {
				return it3, err
			}
			it3.Items = append(it3.Items, Item3Data{Type: Item3DataType(typ), Ref: opts.Registry.Intern(raw)})
		case Item3TypeU32:
			v, err := sub.ReadU32()
			if err != nil {
				return it3, err
			}
			it3.Items = append(it3.Items, Item3Data{Type: Item3TypeU32, Value: v})
		default:
			return it3, fmt.Errorf("%w: QuestRunDataItem3Data type=%d", errs.ErrUnknownVariant, typ)
		}
	}

	return it3, nil
}
