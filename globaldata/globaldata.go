// Package globaldata decodes and encodes the three groups of typed
// global-data blocks. Every block shares the same
// outer framing: a type tag, a declared size, and that many bytes. Only
// types 3 (global variables) and 1002 (animations) get structured
// decoders in the core; everything else -- including type 1001, the
// scripting-VM state, which is an external collaborator
// is stored as opaque bytes unless a decoder is injected.
package globaldata

import (
	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/errs"
	"github.com/sagahold/essedit/refid"
)

// Group identifies which of the three type-range groups a block belongs
// to: Group1 [0,100], Group2 [100,1000], Group3 [1000,1100].
type Group int

const (
	Group1 Group = iota
	Group2
	Group3
)

// GroupOf returns which Group a block type falls in.
func GroupOf(blockType uint32) Group {
	switch {
	case blockType < 100:
		return Group1
	case blockType < 1000:
		return Group2
	default:
		return Group3
	}
}

// Known block types.
const (
	TypeVariables  uint32 = 3
	TypeVMState    uint32 = 1001
	TypeAnimations uint32 = 1002
)

// Data is the decoded payload of a Block. Concrete types implement Write
// to re-encode themselves into the block body.
type Data interface {
	Write(c *cursor.Cursor)
}

// Block is one `(type, size, body)` global-data entry.
type Block struct {
	Type uint32
	Data Data
}

// Options carries the per-container dependencies a block decode needs:
// the RefID registry for canonicalisation, and an optional hook for
// parsing the scripting-VM state block (type 1001). Without the hook,
// type 1001 decodes as a VMStateData holding only the raw bytes, and every
// other unmapped type decodes as OpaqueData.
type Options struct {
	Registry *refid.Registry
	VMDecode func(c *cursor.Cursor) (any, error)
	VMWrite  func(c *cursor.Cursor, v any)
}

// OpaqueData is the fallback payload for any block type the core does
// not structurally understand.
type OpaqueData struct {
	Raw []byte
}

func (d *OpaqueData) Write(c *cursor.Cursor) { c.WriteBytes(d.Raw) }

// VariableEntry is one row of a type-3 global-variables table.
type VariableEntry struct {
	Ref   *refid.RefID
	Value float32
}

// VariablesData is the type-3 payload: a table of (RefID, f32) pairs.
type VariablesData struct {
	Entries []VariableEntry
}

func (d *VariablesData) Write(c *cursor.Cursor) {
	for _, e := range d.Entries {
		c.WriteRefIDRaw(e.Ref.Raw())
		c.WriteF32(e.Value)
	}
}

// AnimationEntry is one row of a type-1002 animations list.
type AnimationEntry struct {
	Actor     *refid.RefID
	Animation *refid.RefID
	Flag      uint8
}

// AnimationsData is the type-1002 payload: a count followed by that many
// (actor RefID, animation RefID, flag) triples.
type AnimationsData struct {
	Entries []AnimationEntry
}

func (d *AnimationsData) Write(c *cursor.Cursor) {
	c.WriteU32(uint32(len(d.Entries)))
	for _, e := range d.Entries {
		c.WriteRefIDRaw(e.Actor.Raw())
		c.WriteRefIDRaw(e.Animation.Raw())
		c.WriteU8(e.Flag)
	}
}

// VMStateData wraps an injected VM parser's result alongside the raw
// bytes it was parsed from, so a Write with no VM writer configured can
// still fall back to re-emitting the original bytes unchanged.
type VMStateData struct {
	Parsed  any
	Raw     []byte
	writeFn func(c *cursor.Cursor, v any)
}

func (d *VMStateData) Write(c *cursor.Cursor) {
	if d.writeFn != nil && d.Parsed != nil {
		d.writeFn(c, d.Parsed)
		return
	}
	c.WriteBytes(d.Raw)
}

// ReadBlock decodes one `(type, size, body)` block from c.
func ReadBlock(c *cursor.Cursor, opts Options) (*Block, error) {
	typ, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	size, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	sub, err := c.Slice(int(size))
	if err != nil {
		return nil, err
	}

	data, err := decodeBody(typ, sub, opts)
	if err != nil {
		return nil, err
	}

	return &Block{Type: typ, Data: data}, nil
}

func decodeBody(typ uint32, sub *cursor.Cursor, opts Options) (Data, error) {
	switch typ {
	case TypeVariables:
		return decodeVariables(sub, opts.Registry)
	case TypeAnimations:
		return decodeAnimations(sub, opts.Registry)
	case TypeVMState:
		return decodeVMState(sub, opts)
	default:
		raw, err := sub.ReadBytes(sub.Len())
		if err != nil {
			return nil, err
		}

		return &OpaqueData{Raw: raw}, nil
	}
}

func decodeVariables(sub *cursor.Cursor, reg *refid.Registry) (*VariablesData, error) {
	d := &VariablesData{}
	for sub.Len() > 0 {
		raw, err := sub.ReadRefIDRaw()
		if err != nil {
			return d, err
		}
		v, err := sub.ReadF32()
		if err != nil {
			return d, err
		}
		d.Entries = append(d.Entries, VariableEntry{Ref: reg.Intern(raw), Value: v})
	}

	return d, nil
}

func decodeAnimations(sub *cursor.Cursor, reg *refid.Registry) (*AnimationsData, error) {
	count, err := sub.ReadU32()
	if err != nil {
		return nil, err
	}

	d := &AnimationsData{Entries: make([]AnimationEntry, 0, count)}
	for i := uint32(0); i < count; i++ {
		actorRaw, err := sub.ReadRefIDRaw()
		if err != nil {
			return d, err
		}
		animRaw, err := sub.ReadRefIDRaw()
		if err != nil {
			return d, err
		}
		flag, err := sub.ReadU8()
		if err != nil {
			return d, err
		}
		d.Entries = append(d.Entries, AnimationEntry{
			Actor:     reg.Intern(actorRaw),
			Animation: reg.Intern(animRaw),
			Flag:      flag,
		})
	}

	return d, nil
}

// decodeVMState treats the scripting-VM block as a recoverable partial on
// failure: if a VM decoder is injected and it
// fails, the raw bytes are still returned alongside the error so the
// container can keep going with a "broken" flag rather than aborting.
func decodeVMState(sub *cursor.Cursor, opts Options) (Data, error) {
	raw := sub.Remaining()
	rawCopy := append([]byte(nil), raw...)

	if opts.VMDecode == nil {
		return &VMStateData{Raw: rawCopy}, nil
	}

	parsed, err := opts.VMDecode(sub)
	if err != nil {
		return &VMStateData{Raw: rawCopy, writeFn: opts.VMWrite}, errs.NewPartial(&VMStateData{Raw: rawCopy}, err)
	}

	return &VMStateData{Parsed: parsed, Raw: rawCopy, writeFn: opts.VMWrite}, nil
}

// WriteBlock encodes a Block back to its `(type, size, body)` framing,
// computing size from the bytes Data actually writes.
func WriteBlock(c *cursor.Cursor, b *Block) {
	c.WriteU32(b.Type)

	sizePos := c.Pos()
	c.WriteU32(0) // patched below
	bodyStart := c.Pos()

	b.Data.Write(c)

	size := uint32(c.Pos() - bodyStart)
	buf := c.Written()
	buf[sizePos+0] = byte(size)
	buf[sizePos+1] = byte(size >> 8)
	buf[sizePos+2] = byte(size >> 16)
	buf[sizePos+3] = byte(size >> 24)
}
