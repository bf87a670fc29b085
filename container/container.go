// Package container orchestrates the full save-game read/write pipeline:
// header, optional whole-body compression, plugin table, file-location
// table, the three global-data groups, the change-form catalogue, and the
// tail arrays. It is the top-level entry point the rest of essedit's
// packages exist to serve.
package container

import (
	"errors"
	"fmt"
	"hash/crc64"

	"github.com/sagahold/essedit/changeform"
	"github.com/sagahold/essedit/compress"
	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/errs"
	"github.com/sagahold/essedit/filelocation"
	"github.com/sagahold/essedit/format"
	"github.com/sagahold/essedit/globaldata"
	"github.com/sagahold/essedit/header"
	"github.com/sagahold/essedit/internal/options"
	"github.com/sagahold/essedit/internal/pool"
	"github.com/sagahold/essedit/refid"
)

// crc64Table is the ISO polynomial table used for the identity checksum
// spec.md §4.6 step 3 describes; the value is stored for identity
// comparison only and is never validated against a second source.
var crc64Table = crc64.MakeTable(crc64.ISO)

// Container is the full in-memory object graph of a save file.
type Container struct {
	Header        *header.Header
	Game          format.Game
	FormVersion   uint8
	VersionString string // Fallout4/Fallout4VR only

	Plugins *refid.PluginInfo
	FLT     *filelocation.Table

	FormIDArray        []uint32
	Table1             []*globaldata.Block
	Table2             []*globaldata.Block
	ChangeForms        []*changeform.ChangeForm
	Table3             []*globaldata.Block
	VisitedWorldspaces []uint32
	Trailing           []byte

	Registry *refid.Registry

	IdentityCRC uint64

	// bestEffort mirrors the WithBestEffort option a container was opened
	// with, and is reused by every later change-form Parse call (Write's
	// re-encode pass, ResetHavok, CleanseFormLists, RemoveElements) so a
	// container stays internally consistent about how tolerant it is.
	bestEffort bool

	// Broken records whether any section-read step above tolerated a
	// failure rather than aborting outright. A broken container can still
	// be read and inspected but Write refuses it (errs.ErrBrokenContainer).
	Broken bool
}

// Open decodes a full save file from data. filenameHint disambiguates the
// remastered/handheld edition the way header.Read does.
func Open(data []byte, filenameHint string, opts ...Option) (*Container, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	c := cursor.New(data)
	h, game, err := header.Read(c, filenameHint)
	if err != nil {
		return nil, err
	}
	cfg.advance(1)

	cnt := &Container{
		Header:     h,
		Game:       game,
		Registry:   refid.NewRegistry(),
		bestEffort: cfg.bestEffort,
	}

	body, err := decompressBody(c, h, game)
	if err != nil {
		return nil, err
	}

	cnt.IdentityCRC = crc64.Checksum(data, crc64Table)

	bc := cursor.New(body)

	cnt.FormVersion, err = bc.ReadU8()
	if err != nil {
		return nil, err
	}
	if game == format.GameFallout4 || game == format.GameFallout4VR {
		cnt.VersionString, err = bc.ReadLString()
		if err != nil {
			return nil, err
		}
	}

	supportsLite := game.SupportsLite(cnt.FormVersion)
	cnt.Plugins, err = refid.ReadPluginInfo(bc, supportsLite)
	if err != nil {
		return nil, err
	}
	cfg.advance(1)

	cnt.FLT, err = filelocation.Read(bc, game)
	if err != nil {
		return nil, err
	}
	cfg.advance(1)

	if err := cnt.readTailArrays(bc, cfg); err != nil {
		cnt.Broken = true
	}

	gdOpts := globaldata.Options{Registry: cnt.Registry, VMDecode: cfg.vmDecode, VMWrite: cfg.vmWrite}

	if err := bc.Seek(int(cnt.FLT.Table1Offset)); err != nil {
		cnt.Broken = true
	} else {
		cnt.Table1, err = readGlobalDataBlocks(bc, int(cnt.FLT.Table1Count), gdOpts)
		if err != nil {
			cnt.Broken = true
		}
	}
	cfg.advance(1)

	cnt.Table2, err = readGlobalDataBlocks(bc, int(cnt.FLT.Table2Count), gdOpts)
	if err != nil {
		cnt.Broken = true
	}
	cfg.advance(1)

	cnt.ChangeForms, err = readChangeForms(bc, int(cnt.FLT.ChangeFormCount), game, cnt.Registry)
	if err != nil {
		cnt.Broken = true
	}
	cfg.advance(1)

	cnt.Table3, err = readTable3(bc, int(cnt.FLT.Table3Count), gdOpts)
	if err != nil {
		cnt.Broken = true
	}
	cfg.advance(1)

	// UnknownTable3Offset sits immediately past the form-ID array and the
	// visited-worldspace array (see filelocation.Table.Rebuild); everything
	// from there to the end of the body is the opaque trailing block.
	if err := bc.Seek(int(cnt.FLT.UnknownTable3Offset)); err != nil {
		cnt.Broken = true
	} else {
		trailing, err := bc.ReadBytes(bc.Len())
		if err != nil {
			cnt.Broken = true
		} else {
			cnt.Trailing = trailing
		}
	}

	if !cnt.Broken && bc.Pos() != len(body) {
		cnt.Broken = true
	}

	return cnt, nil
}

// readTailArrays reads the form-ID array and visited-worldspace array by
// jumping to the offsets the file-location table records, leaving the
// cursor positioned past them. A read failure on either array marks the
// container broken, per spec.md §4.6 steps 7/12.
func (c *Container) readTailArrays(bc *cursor.Cursor, cfg *config) error {
	if err := bc.Seek(int(c.FLT.FormIDArrayCountOffset)); err != nil {
		return err
	}
	formIDs, err := readU32Array(bc)
	if err != nil {
		return err
	}
	c.FormIDArray = formIDs

	visited, err := readU32Array(bc)
	if err != nil {
		return err
	}
	c.VisitedWorldspaces = visited
	cfg.advance(1)

	return nil
}

func readU32Array(bc *cursor.Cursor) ([]uint32, error) {
	count, err := bc.ReadU32()
	if err != nil {
		return nil, err
	}
	if count > 0x10000000 {
		return nil, errs.ErrOversizeCount
	}
	out := make([]uint32, count)
	for i := range out {
		if out[i], err = bc.ReadU32(); err != nil {
			return out[:i], err
		}
	}

	return out, nil
}

func readGlobalDataBlocks(bc *cursor.Cursor, count int, opts globaldata.Options) ([]*globaldata.Block, error) {
	blocks := make([]*globaldata.Block, 0, count)
	for i := 0; i < count; i++ {
		b, err := globaldata.ReadBlock(bc, opts)
		if err != nil {
			return blocks, err
		}
		blocks = append(blocks, b)
	}

	return blocks, nil
}

// readTable3 reads the third global-data group, tolerating a failed
// scripting-VM block (type 1001) per spec.md §4.6 step 11: the block's
// partial value is recovered from the wrapping errs.Partial rather than
// discarded, and reading continues with the block list so far. The VM
// block's error is still returned once all blocks are read, so the caller
// marks the container broken.
func readTable3(bc *cursor.Cursor, count int, opts globaldata.Options) ([]*globaldata.Block, error) {
	blocks := make([]*globaldata.Block, 0, count)
	var vmErr error
	for i := 0; i < count; i++ {
		b, err := globaldata.ReadBlock(bc, opts)
		if err == nil {
			blocks = append(blocks, b)
			continue
		}

		var partial *errs.Partial[*globaldata.VMStateData]
		if errors.As(err, &partial) {
			blocks = append(blocks, &globaldata.Block{Type: globaldata.TypeVMState, Data: partial.Value})
			vmErr = err
			continue
		}

		return blocks, err
	}

	return blocks, vmErr
}

func readChangeForms(bc *cursor.Cursor, count int, game format.Game, reg *refid.Registry) ([]*changeform.ChangeForm, error) {
	forms := make([]*changeform.ChangeForm, 0, count)
	for i := 0; i < count; i++ {
		cf, err := changeform.Read(bc, game, reg)
		if err != nil {
			return forms, err
		}
		forms = append(forms, cf)
	}

	return forms, nil
}

// decompressBody returns the decoded body bytes following the header,
// inflating the ZLIB/LZ4 framing for the remastered/handheld edition when
// the header selects one.
func decompressBody(c *cursor.Cursor, h *header.Header, game format.Game) ([]byte, error) {
	if !game.SupportsCompression() || h.Compression == format.CompressionUncompressed {
		return c.ReadBytes(c.Len())
	}

	uncompressedLen, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	compressedLen, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	compressed, err := c.ReadBytes(int(compressedLen))
	if err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(h.Compression)
	if err != nil {
		return nil, err
	}

	return codec.Decompress(compressed, int(uncompressedLen))
}

// Write re-encodes the container to a byte-identical (for uncompressed
// saves) or round-trippable (for compressed saves) file, per spec.md §4.7.
// A broken container is refused.
func (c *Container) Write(opts ...Option) ([]byte, error) {
	if c.Broken {
		return nil, errs.ErrBrokenContainer
	}

	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	// Testing-mode re-encode: every change-form whose body parses is
	// rewritten from its parsed form, exercising the variant codec paths;
	// a parse or re-encode failure leaves the stored raw bytes untouched.
	cfOpts := changeform.Options{Registry: c.Registry, Game: c.Game, Tolerant: c.bestEffort}
	for _, cf := range c.ChangeForms {
		body, err := cf.Parse(cfOpts)
		if err == nil {
			cf.UpdateRaw(body, nil)
		}
	}

	sec, err := c.encodeSections()
	if err != nil {
		return nil, err
	}

	baseOffset := len(sec.prelude) + filelocation.Size
	c.FLT.Table1Count = uint32(len(c.Table1))
	c.FLT.Table2Count = uint32(len(c.Table2))
	c.FLT.ChangeFormCount = uint32(len(c.ChangeForms))
	c.FLT.Table3Count = uint32(len(c.Table3))
	c.FLT.Rebuild(filelocation.RebuildParams{
		BaseOffset:             baseOffset,
		Table1Size:             len(sec.table1),
		Table2Size:             len(sec.table2),
		ChangeFormsSize:        len(sec.changeForms),
		Table3Size:             len(sec.table3),
		FormIDCount:            len(c.FormIDArray),
		VisitedWorldspaceCount: len(c.VisitedWorldspaces),
	})

	scratch := pool.GetContainerBuffer()
	defer pool.PutContainerBuffer(scratch)
	w := cursor.New(scratch.Bytes())

	w.WriteBytes(sec.prelude)
	c.FLT.Write(w, c.Game)
	w.WriteBytes(sec.table1)
	w.WriteBytes(sec.table2)
	w.WriteBytes(sec.changeForms)
	w.WriteBytes(sec.table3)
	w.WriteBytes(sec.formIDArray)
	w.WriteBytes(sec.visitedWorldspaces)
	w.WriteBytes(c.Trailing)

	cfg.advance(1)

	body := append([]byte(nil), w.Written()...)

	out := cursor.NewWriter()
	if err := c.Header.Write(out, c.Game); err != nil {
		return nil, err
	}

	if c.Game.SupportsCompression() && c.Header.Compression != format.CompressionUncompressed {
		codec, err := compress.GetCodec(c.Header.Compression)
		if err != nil {
			return nil, err
		}
		compressed, err := codec.Compress(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrCompression, err)
		}
		out.WriteU32(uint32(len(body)))
		out.WriteU32(uint32(len(compressed)))
		out.WriteBytes(compressed)
	} else {
		out.WriteBytes(body)
	}

	return out.Written(), nil
}
