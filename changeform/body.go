package changeform

import (
	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/extradata"
	"github.com/sagahold/essedit/format"
)

// ChangeFormData is the tagged-union body a change-form's raw payload
// decodes to. Concrete types implement Write to re-encode themselves;
// Default is the fallback carrying opaque bytes when a type isn't
// structurally decoded or decoding failed under Options.Tolerant.
type ChangeFormData interface {
	Write(c *cursor.Cursor)
	changeFormData()
}

// ChangeFormFlags is the small embedded sub-record ("a 32-bit flags field
// + u16 unknown") several body types optionally carry as their first
// field.
type ChangeFormFlags struct {
	Flags   uint32
	Unknown uint16
}

func readChangeFormFlags(c *cursor.Cursor) (ChangeFormFlags, error) {
	f, err := c.ReadU32()
	if err != nil {
		return ChangeFormFlags{}, err
	}
	u, err := c.ReadU16()
	if err != nil {
		return ChangeFormFlags{}, err
	}

	return ChangeFormFlags{Flags: f, Unknown: u}, nil
}

func (f ChangeFormFlags) write(c *cursor.Cursor) {
	c.WriteU32(f.Flags)
	c.WriteU16(f.Unknown)
}

// DefaultData is the fallback body: an opaque byte array, used when the
// change-form's type has no structural decoder or (with Options.Tolerant)
// when structural decoding failed.
type DefaultData struct {
	Raw []byte
}

func (d *DefaultData) changeFormData() {}
func (d *DefaultData) Write(c *cursor.Cursor) {
	c.WriteBytes(d.Raw)
}

// toExtraDataOptions adapts a changeform Options into the extradata
// package's own Options, wiring the NPC inline-decode hook back into this
// package (extradata sits below changeform in the dependency order and
// cannot import it directly).
func toExtraDataOptions(opts Options) extradata.Options {
	return extradata.Options{
		Registry: opts.Registry,
		DecodeNPCInline: func(c *cursor.Cursor, npcChangeFlags uint32) (any, error) {
			return decodeNPC(c, npcChangeFlags, opts, true)
		},
	}
}

// parseBody dispatches a change-form's decompressed payload to the body
// decoder matching cf.Type, falling back to DefaultData for any type
// without a structural decoder.
func parseBody(sub *cursor.Cursor, cf *ChangeForm, opts Options) (ChangeFormData, error) {
	switch cf.Type {
	case format.CFFormList:
		return decodeFormList(sub, cf.ChangeFlags, opts)
	case format.CFLeveledNPC, format.CFLeveledItem:
		return decodeLeveledList(sub, cf.ChangeFlags, opts)
	case format.CFReference, format.CFActorReference:
		return decodePlaced(sub, cf, opts)
	case format.CFNPC:
		return decodeNPC(sub, uint32(cf.ChangeFlags), opts, false)
	case format.CFRelationship:
		return decodeRelationship(sub, cf, opts)
	case format.CFQuest:
		return decodeQuest(sub, cf.ChangeFlags, opts)
	default:
		raw, err := sub.ReadBytes(sub.Len())
		if err != nil {
			return nil, err
		}

		return &DefaultData{Raw: raw}, nil
	}
}
