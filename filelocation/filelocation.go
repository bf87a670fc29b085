// Package filelocation decodes, encodes, and rebuilds the fixed 100-byte
// file-location table that records the absolute offsets of every body
// section.
package filelocation

import (
	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/format"
)

// Size is the fixed on-disk size of a FileLocationTable, in bytes.
const Size = 100

// reservedWords is the count of trailing u32 reserved slots that pad the
// table out to Size bytes.
const reservedWords = 15

// Table holds the ten offsets/counts plus the reserved words. All offsets
// are absolute from the start of the body (i.e. relative to the position
// right after decompression, not the file).
type Table struct {
	FormIDArrayCountOffset uint32
	UnknownTable3Offset    uint32
	Table1Offset           uint32
	Table2Offset           uint32
	ChangeFormsOffset      uint32
	Table3Offset           uint32

	Table1Count     uint32
	Table2Count     uint32
	Table3Count     uint32
	ChangeFormCount uint32

	Reserved [reservedWords]uint32
}

// Read decodes a Table from c. game selects whether Table3Count was
// serialized with the LE-family's count-1 bias; the bias is preserved
// exactly even though its provenance is undocumented upstream.
func Read(c *cursor.Cursor, game format.Game) (*Table, error) {
	t := &Table{}

	var err error
	if t.FormIDArrayCountOffset, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if t.UnknownTable3Offset, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if t.Table1Offset, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if t.Table2Offset, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if t.ChangeFormsOffset, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if t.Table3Offset, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if t.Table1Count, err = c.ReadU32(); err != nil {
		return nil, err
	}
	if t.Table2Count, err = c.ReadU32(); err != nil {
		return nil, err
	}

	rawTable3Count, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	t.Table3Count = uint32(int64(rawTable3Count) - int64(game.TableThreeCountBias()))

	if t.ChangeFormCount, err = c.ReadU32(); err != nil {
		return nil, err
	}
	for i := range t.Reserved {
		if t.Reserved[i], err = c.ReadU32(); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// Write encodes t to c, applying game's Table3Count serialization bias.
func (t *Table) Write(c *cursor.Cursor, game format.Game) {
	c.WriteU32(t.FormIDArrayCountOffset)
	c.WriteU32(t.UnknownTable3Offset)
	c.WriteU32(t.Table1Offset)
	c.WriteU32(t.Table2Offset)
	c.WriteU32(t.ChangeFormsOffset)
	c.WriteU32(t.Table3Offset)
	c.WriteU32(t.Table1Count)
	c.WriteU32(t.Table2Count)
	c.WriteU32(uint32(int64(t.Table3Count) + int64(game.TableThreeCountBias())))
	c.WriteU32(t.ChangeFormCount)
	for _, r := range t.Reserved {
		c.WriteU32(r)
	}
}

// RebuildParams carries the section sizes (in bytes) and tail array
// lengths needed to recompute every offset in the table.
type RebuildParams struct {
	// BaseOffset is the body position immediately past the
	// file-location table itself.
	BaseOffset int

	Table1Size      int
	Table2Size      int
	ChangeFormsSize int
	Table3Size      int

	FormIDCount         int
	VisitedWorldspaceCount int
}

// Rebuild recomputes every offset field from p, leaving the *Count fields
// and Reserved untouched (those are set directly from the in-memory
// section lengths by the caller before Rebuild is invoked).
func (t *Table) Rebuild(p RebuildParams) {
	t.Table1Offset = uint32(p.BaseOffset)
	t.Table2Offset = t.Table1Offset + uint32(p.Table1Size)
	t.ChangeFormsOffset = t.Table2Offset + uint32(p.Table2Size)
	t.Table3Offset = t.ChangeFormsOffset + uint32(p.ChangeFormsSize)
	t.FormIDArrayCountOffset = t.Table3Offset + uint32(p.Table3Size)

	// UnknownTable3Offset sits past both tail arrays; its exact
	// relationship to the form-ID table is undocumented upstream, so this
	// follows the known formula literally rather than guessing at intent.
	t.UnknownTable3Offset = t.FormIDArrayCountOffset + 4 + 4*uint32(p.FormIDCount) + 4 + 4*uint32(p.VisitedWorldspaceCount)
}
