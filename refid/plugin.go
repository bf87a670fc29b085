package refid

import (
	"fmt"
	"strings"

	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/errs"
	"github.com/sagahold/essedit/internal/hash"
)

// Plugin is one entry of the plugin table. Names are raw
// bytes with a 16-bit length prefix on disk, not constrained to UTF-8;
// equality and ordering are case-insensitive on the decoded form.
type Plugin struct {
	RawName []byte
	Index   uint16
	Lite    bool
}

// Name returns the plugin's decoded name.
func (p *Plugin) Name() string { return string(p.RawName) }

// Equal reports case-insensitive name equality.
func (p *Plugin) Equal(other *Plugin) bool {
	return hash.NameKey(p.Name()) == hash.NameKey(other.Name()) &&
		strings.EqualFold(p.Name(), other.Name())
}

// Less orders plugins case-insensitively by name, for stable display
// ordering in tooling built on top of this package.
func (p *Plugin) Less(other *Plugin) bool {
	return strings.ToLower(p.Name()) < strings.ToLower(other.Name())
}

// IndexName formats a plugin's load-order index the way the in-game
// console and modding tools do: "FE003: Name.esl" for a lite plugin,
// "07: Name.esp" for a full one.
func (p *Plugin) IndexName() string {
	if p.Lite {
		return fmt.Sprintf("FE%03x: %s", p.Index, p.Name())
	}

	return fmt.Sprintf("%02x: %s", p.Index, p.Name())
}

// Created is the built-in pseudo-plugin occupying full-list index 0xFF,
// used for records created at runtime rather than loaded from a plugin file.
var Created = &Plugin{RawName: []byte("Created"), Index: 0xFF, Lite: false}

// PluginInfo is the full (<=255) and optional lite (<=4095) plugin lists
// read from a save's plugin table.
type PluginInfo struct {
	Full []*Plugin
	Lite []*Plugin

	fullByKey map[uint64]*Plugin
	liteByKey map[uint64]*Plugin
}

// MaxFullPlugins and MaxLitePlugins are the hard limits a plugin table may
// not exceed.
const (
	MaxFullPlugins = 255
	MaxLitePlugins = 4095
)

// NewPluginInfo builds a PluginInfo from decoded full/lite lists,
// indexing both by case-insensitive name key for O(1) lookup.
func NewPluginInfo(full, lite []*Plugin) *PluginInfo {
	pi := &PluginInfo{
		Full:      full,
		Lite:      lite,
		fullByKey: make(map[uint64]*Plugin, len(full)),
		liteByKey: make(map[uint64]*Plugin, len(lite)),
	}
	for _, p := range full {
		pi.fullByKey[hash.NameKey(p.Name())] = p
	}
	for _, p := range lite {
		pi.liteByKey[hash.NameKey(p.Name())] = p
	}

	return pi
}

// Find looks up a plugin by name, case-insensitively, checking the full
// list first and then the lite list.
func (pi *PluginInfo) Find(name string) (*Plugin, error) {
	key := hash.NameKey(name)
	if p, ok := pi.fullByKey[key]; ok {
		return p, nil
	}
	if p, ok := pi.liteByKey[key]; ok {
		return p, nil
	}

	return nil, errs.ErrPluginNotFound
}

// ResolveFormID resolves a 32-bit form id against this plugin table
//: if the top byte is 0xFE, the next 12
// bits index the lite list and the low 12 bits are the local id;
// otherwise the top byte indexes the full list (0xFF selecting the
// built-in Created plugin) and the low 24 bits are the local id.
func (pi *PluginInfo) ResolveFormID(formID uint32) (*Plugin, uint32, error) {
	top := byte(formID >> 24)

	if top == 0xFE {
		liteIdx := (formID >> 12) & 0xFFF
		localID := formID & 0xFFF
		if int(liteIdx) >= len(pi.Lite) {
			return nil, 0, errs.ErrPluginNotFound
		}

		return pi.Lite[liteIdx], localID, nil
	}

	if top == 0xFF {
		return Created, formID & 0xFFFFFF, nil
	}

	if int(top) >= len(pi.Full) {
		return nil, 0, errs.ErrPluginNotFound
	}

	return pi.Full[top], formID & 0xFFFFFF, nil
}

// MakeFormID is the inverse of ResolveFormID: for a lite plugin it packs
// 0xFE, the plugin's 12-bit lite index, and the low 12 bits of localID;
// for a full plugin it packs the plugin's byte index and the low 24 bits
// of localID.
func MakeFormID(p *Plugin, localID uint32) uint32 {
	if p.Lite {
		return 0xFE000000 | (uint32(p.Index)<<12)&0x00FFF000 | (localID & 0xFFF)
	}

	return (uint32(p.Index)<<24)&0xFF000000 | (localID & 0xFFFFFF)
}

// ReadPluginInfo decodes the plugin table per spec.md §4.3: a 32-bit
// declared size, a u8 full-plugin count and that many plugin records,
// and — only when supportsLite — a u16 lite-plugin count and that many
// more. The declared size must equal the bytes consumed after it.
func ReadPluginInfo(c *cursor.Cursor, supportsLite bool) (*PluginInfo, error) {
	declaredSize, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	start := c.Pos()

	fullCount, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	full := make([]*Plugin, 0, fullCount)
	for i := 0; i < int(fullCount); i++ {
		p, err := readPlugin(c, uint16(i), false)
		if err != nil {
			return nil, err
		}
		full = append(full, p)
	}

	var lite []*Plugin
	if supportsLite {
		liteCount, err := c.ReadU16()
		if err != nil {
			return nil, err
		}
		lite = make([]*Plugin, 0, liteCount)
		for i := 0; i < int(liteCount); i++ {
			p, err := readPlugin(c, uint16(i), true)
			if err != nil {
				return nil, err
			}
			lite = append(lite, p)
		}
	}

	written := uint32(c.Pos() - start)
	if declaredSize != written {
		return nil, fmt.Errorf("%w: plugin table declared size %d, consumed %d", errs.ErrPositionMismatch, declaredSize, written)
	}

	return NewPluginInfo(full, lite), nil
}

func readPlugin(c *cursor.Cursor, index uint16, lite bool) (*Plugin, error) {
	name, err := c.ReadLString()
	if err != nil {
		return nil, err
	}

	return &Plugin{RawName: []byte(name), Index: index, Lite: lite}, nil
}

// WritePluginInfo encodes pi in the same order ReadPluginInfo consumes it,
// recomputing the declared size from the bytes actually written.
func WritePluginInfo(c *cursor.Cursor, pi *PluginInfo, supportsLite bool) error {
	sizePos := c.Pos()
	c.WriteU32(0) // patched below

	start := c.Pos()
	if len(pi.Full) > MaxFullPlugins {
		return errs.ErrOversizeCount
	}
	c.WriteU8(uint8(len(pi.Full)))
	for _, p := range pi.Full {
		if err := c.WriteLString(p.Name()); err != nil {
			return err
		}
	}

	if supportsLite {
		if len(pi.Lite) > MaxLitePlugins {
			return errs.ErrOversizeCount
		}
		c.WriteU16(uint16(len(pi.Lite)))
		for _, p := range pi.Lite {
			if err := c.WriteLString(p.Name()); err != nil {
				return err
			}
		}
	}

	written := uint32(c.Pos() - start)
	buf := c.Written()
	buf[sizePos+0] = byte(written)
	buf[sizePos+1] = byte(written >> 8)
	buf[sizePos+2] = byte(written >> 16)
	buf[sizePos+3] = byte(written >> 24)

	return nil
}
