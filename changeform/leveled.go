package changeform

import (
	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/flags"
	"github.com/sagahold/essedit/refid"
)

// Bit positions of the leveled-list (LVLN/LVLI) change-flags word.
const (
	leveledBitHeader  flags.Bit = 0
	leveledBitEntries flags.Bit = 31
)

// LeveledEntry is one row of a leveled list's entry table.
type LeveledEntry struct {
	Ref    *refid.RefID
	Level  int8
	Count  uint16
	Chance int8
}

// LeveledListData is a LVLN/LVLI change-form body: an optional embedded
// ChangeFormFlags header and an optional u8-counted entry array.
type LeveledListData struct {
	HasHeader bool
	Header    ChangeFormFlags

	HasEntries bool
	Entries    []LeveledEntry
}

func (d *LeveledListData) changeFormData() {}

func (d *LeveledListData) Write(c *cursor.Cursor) {
	if d.HasHeader {
		d.Header.write(c)
	}
	if d.HasEntries {
		c.WriteU8(uint8(len(d.Entries)))
		for _, e := range d.Entries {
			c.WriteRefIDRaw(e.Ref.Raw())
			c.WriteI8(e.Level)
			c.WriteU16(e.Count)
			c.WriteI8(e.Chance)
		}
	}
}

func decodeLeveledList(sub *cursor.Cursor, cf flags.Flags32, opts Options) (*LeveledListData, error) {
	d := &LeveledListData{}

	if leveledBitHeader.Has(cf) {
		hdr, err := readChangeFormFlags(sub)
		if err != nil {
			return d, err
		}
		d.HasHeader, d.Header = true, hdr
	}

	if leveledBitEntries.Has(cf) {
		count, err := sub.ReadU8()
		if err != nil {
			return d, err
		}

		entries := make([]LeveledEntry, 0, count)
		for i := uint8(0); i < count; i++ {
			raw, err := sub.ReadRefIDRaw()
			if err != nil {
				return d, err
			}
			level, err := sub.ReadI8()
			if err != nil {
				return d, err
			}
			cnt, err := sub.ReadU16()
			if err != nil {
				return d, err
			}
			chance, err := sub.ReadI8()
			if err != nil {
				return d, err
			}
			entries = append(entries, LeveledEntry{
				Ref: opts.Registry.Intern(raw), Level: level, Count: cnt, Chance: chance,
			})
		}
		d.HasEntries, d.Entries = true, entries
	}

	return d, nil
}
