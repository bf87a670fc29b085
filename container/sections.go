package container

import (
	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/format"
	"github.com/sagahold/essedit/globaldata"
	"github.com/sagahold/essedit/refid"
)

// encodedSections holds each body section's bytes, pre-assembled
// independently of the others so the file-location table's offsets can be
// computed from their lengths before the sections are concatenated.
type encodedSections struct {
	prelude            []byte
	table1             []byte
	table2             []byte
	changeForms        []byte
	table3             []byte
	formIDArray        []byte
	visitedWorldspaces []byte
}

// encodeSections serializes every body section of c independently, so the
// file-location table's offsets can be computed from each section's
// length before they are concatenated in Write.
func (c *Container) encodeSections() (*encodedSections, error) {
	sec := &encodedSections{}

	prelude := cursor.NewWriter()
	prelude.WriteU8(c.FormVersion)
	if c.Game == format.GameFallout4 || c.Game == format.GameFallout4VR {
		if err := prelude.WriteLString(c.VersionString); err != nil {
			return nil, err
		}
	}
	supportsLite := c.Game.SupportsLite(c.FormVersion)
	if err := refid.WritePluginInfo(prelude, c.Plugins, supportsLite); err != nil {
		return nil, err
	}
	sec.prelude = prelude.Written()

	sec.table1 = encodeBlocks(c.Table1)
	sec.table2 = encodeBlocks(c.Table2)

	cfw := cursor.NewWriter()
	for _, cf := range c.ChangeForms {
		cf.Write(cfw)
	}
	sec.changeForms = cfw.Written()

	sec.table3 = encodeBlocks(c.Table3)

	faw := cursor.NewWriter()
	writeU32Array(faw, c.FormIDArray)
	sec.formIDArray = faw.Written()

	vww := cursor.NewWriter()
	writeU32Array(vww, c.VisitedWorldspaces)
	sec.visitedWorldspaces = vww.Written()

	return sec, nil
}

func encodeBlocks(blocks []*globaldata.Block) []byte {
	w := cursor.NewWriter()
	for _, b := range blocks {
		globaldata.WriteBlock(w, b)
	}

	return w.Written()
}

func writeU32Array(w *cursor.Cursor, vals []uint32) {
	w.WriteU32(uint32(len(vals)))
	for _, v := range vals {
		w.WriteU32(v)
	}
}
