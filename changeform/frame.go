// Package changeform decodes and encodes change-form records: the
// per-record delta the game engine writes to capture runtime
// modifications to a placed or created form. A change-form is framed as
// a fixed header (RefID, change-flags, type/version, length class) around
// a raw, possibly-compressed payload; the payload itself is a flag-driven
// tagged union decoded lazily on first Parse and cached until UpdateRaw.
package changeform

import (
	"fmt"

	"github.com/sagahold/essedit/compress"
	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/errs"
	"github.com/sagahold/essedit/flags"
	"github.com/sagahold/essedit/format"
	"github.com/sagahold/essedit/internal/pool"
	"github.com/sagahold/essedit/refid"
)

// LengthClass selects the on-disk width of a change-form's Length1/Length2
// fields: the high 2 bits of the frame's type_field byte.
type LengthClass uint8

const (
	LengthClassU8  LengthClass = 0
	LengthClassU16 LengthClass = 1
	LengthClassU32 LengthClass = 2
)

// minimalLengthClass picks the smallest LengthClass whose width covers v.
func minimalLengthClass(v uint32) LengthClass {
	switch {
	case v <= 0xFF:
		return LengthClassU8
	case v <= 0xFFFF:
		return LengthClassU16
	default:
		return LengthClassU32
	}
}

// Options carries the per-container dependencies a change-form body
// decode needs.
type Options struct {
	Registry *refid.Registry
	Game     format.Game
	// Tolerant enables best-effort parsing: a body decoder's failure is
	// swallowed and the change-form's raw bytes are wrapped in a
	// DefaultData instead of surfacing a typed error.
	Tolerant bool
}

// ChangeForm is one `refid, change_flags, type_field, version, length1,
// length2, raw[length1]` record. Body decoding is lazy: Raw is kept as
// read, and Parse decodes + caches the typed body on first use.
type ChangeForm struct {
	Ref         *refid.RefID
	ChangeFlags flags.Flags32
	Type        format.ChangeFormType
	Version     uint8
	LengthClass LengthClass
	Length1     uint32
	Length2     uint32
	Raw         []byte

	parsed    ChangeFormData
	parsedErr error
	parsedOK  bool
}

// Compressed reports whether Raw is a zlib stream inflating to Length2
// bytes, per the length2>0 convention.
func (cf *ChangeForm) Compressed() bool { return cf.Length2 > 0 }

// Read decodes one change-form frame from c.
func Read(c *cursor.Cursor, game format.Game, reg *refid.Registry) (*ChangeForm, error) {
	refRaw, err := c.ReadRefIDRaw()
	if err != nil {
		return nil, err
	}
	changeFlagsRaw, err := c.ReadU32()
	if err != nil {
		return nil, err
	}
	typeField, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	version, err := c.ReadU8()
	if err != nil {
		return nil, err
	}

	lengthClass := LengthClass(typeField >> 6)
	length1, length2, err := readLengths(c, lengthClass)
	if err != nil {
		return nil, err
	}

	cfType, err := format.ResolveChangeFormType(game, typeField&0x3F)
	if err != nil {
		return nil, err
	}

	raw, err := c.ReadBytes(int(length1))
	if err != nil {
		return nil, err
	}

	return &ChangeForm{
		Ref:         reg.Intern(refRaw),
		ChangeFlags: flags.Flags32(changeFlagsRaw),
		Type:        cfType,
		Version:     version,
		LengthClass: lengthClass,
		Length1:     length1,
		Length2:     length2,
		Raw:         raw,
	}, nil
}

func readLengths(c *cursor.Cursor, class LengthClass) (uint32, uint32, error) {
	switch class {
	case LengthClassU8:
		a, err := c.ReadU8()
		if err != nil {
			return 0, 0, err
		}
		b, err := c.ReadU8()
		if err != nil {
			return 0, 0, err
		}

		return uint32(a), uint32(b), nil
	case LengthClassU16:
		a, err := c.ReadU16()
		if err != nil {
			return 0, 0, err
		}
		b, err := c.ReadU16()
		if err != nil {
			return 0, 0, err
		}

		return uint32(a), uint32(b), nil
	case LengthClassU32:
		a, err := c.ReadU32()
		if err != nil {
			return 0, 0, err
		}
		b, err := c.ReadU32()
		if err != nil {
			return 0, 0, err
		}

		return a, b, nil
	default:
		return 0, 0, errs.ErrInvalidLengthClass
	}
}

// Write encodes cf to c in the inverse of Read.
func (cf *ChangeForm) Write(c *cursor.Cursor) {
	c.WriteRefIDRaw(cf.Ref.Raw())
	c.WriteU32(uint32(cf.ChangeFlags))
	typeField := (uint8(cf.LengthClass) << 6) | (uint8(cf.Type) & 0x3F)
	c.WriteU8(typeField)
	c.WriteU8(cf.Version)
	writeLengths(c, cf.LengthClass, cf.Length1, cf.Length2)
	c.WriteBytes(cf.Raw)
}

func writeLengths(c *cursor.Cursor, class LengthClass, l1, l2 uint32) {
	switch class {
	case LengthClassU8:
		c.WriteU8(uint8(l1))
		c.WriteU8(uint8(l2))
	case LengthClassU16:
		c.WriteU16(uint16(l1))
		c.WriteU16(uint16(l2))
	default:
		c.WriteU32(l1)
		c.WriteU32(l2)
	}
}

// rawPayload returns the decompressed body bytes, inflating Raw when
// Compressed() is true.
func (cf *ChangeForm) rawPayload() ([]byte, error) {
	if !cf.Compressed() {
		return cf.Raw, nil
	}

	codec := compress.NewZlibCompressor()
	payload, err := codec.Decompress(cf.Raw, int(cf.Length2))
	if err != nil {
		return nil, err
	}

	return payload, nil
}

// Parse decodes and caches the typed body. Subsequent calls return the
// cached value until UpdateRaw invalidates it. With opts.Tolerant set, a
// decode failure degrades to a DefaultData carrying the raw payload
// instead of surfacing the error.
func (cf *ChangeForm) Parse(opts Options) (ChangeFormData, error) {
	if cf.parsedOK {
		return cf.parsed, cf.parsedErr
	}

	payload, err := cf.rawPayload()
	if err != nil {
		if opts.Tolerant {
			cf.parsed, cf.parsedErr, cf.parsedOK = &DefaultData{}, nil, true
			return cf.parsed, nil
		}
		cf.parsedErr, cf.parsedOK = err, true

		return nil, err
	}

	sub := cursor.New(payload)
	data, err := parseBody(sub, cf, opts)
	if err != nil {
		if opts.Tolerant {
			cf.parsed = &DefaultData{Raw: append([]byte(nil), payload...)}
			cf.parsedErr, cf.parsedOK = nil, true

			return cf.parsed, nil
		}
		cf.parsed, cf.parsedErr, cf.parsedOK = data, err, true

		return data, err
	}

	cf.parsed, cf.parsedErr, cf.parsedOK = data, nil, true

	return data, nil
}

// UpdateRaw re-encodes body into Raw, recomputing Length1/Length2 (and,
// if Compressed(), re-deflating). newFlags, if non-nil, replaces
// ChangeFlags. Reports false (without mutating cf) on any encode or
// compression failure instead of panicking, matching the "fails
// soft" contract.
func (cf *ChangeForm) UpdateRaw(body ChangeFormData, newFlags *flags.Flags32) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()

	scratch := pool.GetRecordBuffer()
	defer pool.PutRecordBuffer(scratch)
	w := cursor.New(scratch.Bytes())
	body.Write(w)
	plain := append([]byte(nil), w.Written()...)

	if cf.Compressed() {
		codec := compress.NewZlibCompressor()
		compressed, err := codec.Compress(plain)
		if err != nil {
			return false
		}
		cf.Length2 = uint32(len(plain))
		cf.Length1 = uint32(len(compressed))
		cf.Raw = compressed
		cf.LengthClass = minimalLengthClass(max32(cf.Length1, cf.Length2))
	} else {
		cf.Length1 = uint32(len(plain))
		cf.Length2 = 0
		cf.Raw = plain
		cf.LengthClass = minimalLengthClass(cf.Length1)
	}

	cf.parsed, cf.parsedErr, cf.parsedOK = body, nil, true
	if newFlags != nil {
		cf.ChangeFlags = *newFlags
	}

	return true
}

func max32(a, b uint32) uint32 {
	if a > b {
		return a
	}

	return b
}

func (cf *ChangeForm) String() string {
	return fmt.Sprintf("ChangeForm{%s %s v%d len1=%d len2=%d}", cf.Type, cf.Ref, cf.Version, cf.Length1, cf.Length2)
}
