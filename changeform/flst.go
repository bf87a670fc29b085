package changeform

import (
	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/errs"
	"github.com/sagahold/essedit/flags"
	"github.com/sagahold/essedit/refid"
)

// MaxFormListEntries is the hard cap on a FLST's entry count (spec's
// 0x3FFF limit).
const MaxFormListEntries = 0x3FFF

// Bit positions of the FLST change-flags word.
const (
	flstBitHeader  flags.Bit = 0
	flstBitEntries flags.Bit = 31
)

// FormListData is a FLST change-form body: an optional embedded
// ChangeFormFlags header and an optional array of member RefIDs.
type FormListData struct {
	HasHeader bool
	Header    ChangeFormFlags

	HasEntries bool
	Entries    []*refid.RefID
}

func (d *FormListData) changeFormData() {}

func (d *FormListData) Write(c *cursor.Cursor) {
	if d.HasHeader {
		d.Header.write(c)
	}
	if d.HasEntries {
		c.WriteU32(uint32(len(d.Entries)))
		for _, r := range d.Entries {
			c.WriteRefIDRaw(r.Raw())
		}
	}
}

func decodeFormList(sub *cursor.Cursor, cf flags.Flags32, opts Options) (*FormListData, error) {
	d := &FormListData{}

	if flstBitHeader.Has(cf) {
		hdr, err := readChangeFormFlags(sub)
		if err != nil {
			return d, err
		}
		d.HasHeader, d.Header = true, hdr
	}

	if flstBitEntries.Has(cf) {
		count, err := sub.ReadU32()
		if err != nil {
			return d, err
		}
		if count > MaxFormListEntries {
			return d, errs.ErrOversizeCount
		}

		entries := make([]*refid.RefID, 0, count)
		for i := uint32(0); i < count; i++ {
			raw, err := sub.ReadRefIDRaw()
			if err != nil {
				return d, err
			}
			entries = append(entries, opts.Registry.Intern(raw))
		}
		d.HasEntries, d.Entries = true, entries
	}

	return d, nil
}

// Cleanse removes every zero-value (null) RefID entry in place, reporting
// how many were removed. Idempotent: cleansing an already-cleansed list
// removes nothing further.
func (d *FormListData) Cleanse() int {
	if !d.HasEntries {
		return 0
	}

	kept := make([]*refid.RefID, 0, len(d.Entries))
	removed := 0
	for _, r := range d.Entries {
		if r.IsZero() {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	d.Entries = kept

	return removed
}

// ContainsNullRefs reports whether any entry is the zero RefID.
func (d *FormListData) ContainsNullRefs() bool {
	for _, r := range d.Entries {
		if r.IsZero() {
			return true
		}
	}

	return false
}
