// Package cursor provides the little-endian, random-access byte cursor that
// every higher-level essedit decoder reads from.
//
// A Cursor borrows a byte slice it does not own and tracks a position and a
// limit. All primitive reads advance the position; no read may cross the
// limit. Slicing produces an independent sub-cursor bound to the next N
// bytes, mirroring the teacher's endian.EndianEngine + pool.ByteBuffer
// split between byte-order policy and buffer ownership.
package cursor

import (
	"encoding/binary"
	"math"

	"github.com/sagahold/essedit/errs"
)

// Cursor is a little-endian reader/writer over a byte slice. The zero value
// is not usable; construct one with New or NewWriter.
type Cursor struct {
	buf []byte
	pos int
	lim int // exclusive upper bound, always <= len(buf)
}

// New creates a Cursor over buf, with the limit set to len(buf).
func New(buf []byte) *Cursor {
	return &Cursor{buf: buf, pos: 0, lim: len(buf)}
}

// Pos returns the current read/write position.
func (c *Cursor) Pos() int { return c.pos }

// Len returns the number of bytes remaining before the limit.
func (c *Cursor) Len() int { return c.lim - c.pos }

// Limit returns the cursor's exclusive upper bound.
func (c *Cursor) Limit() int { return c.lim }

// Bytes returns the full backing slice up to the limit, regardless of
// position. Callers must not modify the returned slice.
func (c *Cursor) Bytes() []byte { return c.buf[:c.lim] }

// Remaining returns the unread portion of the buffer, from pos to the
// limit. Callers must not modify the returned slice.
func (c *Cursor) Remaining() []byte { return c.buf[c.pos:c.lim] }

// Seek repositions the cursor to an absolute offset within [0, limit].
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > c.lim {
		return errs.ErrTruncated
	}
	c.pos = pos

	return nil
}

// Skip advances the position by n bytes without reading.
func (c *Cursor) Skip(n int) error {
	return c.Seek(c.pos + n)
}

func (c *Cursor) require(n int) error {
	if n < 0 || c.pos+n > c.lim {
		return errs.ErrTruncated
	}

	return nil
}

// ReadBytes reads n raw bytes and advances the position. The returned slice
// aliases the cursor's backing array; copy it if it must outlive further
// reads from the same underlying buffer.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	if err := c.require(n); err != nil {
		return nil, err
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n

	return b, nil
}

// ReadU8 reads an unsigned 8-bit integer.
func (c *Cursor) ReadU8() (uint8, error) {
	if err := c.require(1); err != nil {
		return 0, err
	}
	v := c.buf[c.pos]
	c.pos++

	return v, nil
}

// ReadI8 reads a signed 8-bit integer.
func (c *Cursor) ReadI8() (int8, error) {
	v, err := c.ReadU8()
	return int8(v), err
}

// ReadU16 reads a little-endian unsigned 16-bit integer.
func (c *Cursor) ReadU16() (uint16, error) {
	if err := c.require(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(c.buf[c.pos:])
	c.pos += 2

	return v, nil
}

// ReadI16 reads a little-endian signed 16-bit integer.
func (c *Cursor) ReadI16() (int16, error) {
	v, err := c.ReadU16()
	return int16(v), err
}

// ReadU32 reads a little-endian unsigned 32-bit integer.
func (c *Cursor) ReadU32() (uint32, error) {
	if err := c.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(c.buf[c.pos:])
	c.pos += 4

	return v, nil
}

// ReadI32 reads a little-endian signed 32-bit integer.
func (c *Cursor) ReadI32() (int32, error) {
	v, err := c.ReadU32()
	return int32(v), err
}

// ReadU64 reads a little-endian unsigned 64-bit integer.
func (c *Cursor) ReadU64() (uint64, error) {
	if err := c.require(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(c.buf[c.pos:])
	c.pos += 8

	return v, nil
}

// ReadI64 reads a little-endian signed 64-bit integer.
func (c *Cursor) ReadI64() (int64, error) {
	v, err := c.ReadU64()
	return int64(v), err
}

// ReadF32 reads a little-endian IEEE-754 single-precision float.
func (c *Cursor) ReadF32() (float32, error) {
	v, err := c.ReadU32()
	if err != nil {
		return 0, err
	}

	return math.Float32frombits(v), nil
}

// ReadF64 reads a little-endian IEEE-754 double-precision float.
func (c *Cursor) ReadF64() (float64, error) {
	v, err := c.ReadU64()
	if err != nil {
		return 0, err
	}

	return math.Float64frombits(v), nil
}

// ReadLString reads a length-prefixed string: a u16 length followed by
// that many raw bytes, returned as-is (ASCII/latin-1/UTF-8 callers decide).
func (c *Cursor) ReadLString() (string, error) {
	n, err := c.ReadU16()
	if err != nil {
		return "", err
	}
	b, err := c.ReadBytes(int(n))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// ReadCString reads a zero-terminated string. The terminator is consumed
// but not included in the returned string.
func (c *Cursor) ReadCString() (string, error) {
	start := c.pos
	for c.pos < c.lim {
		if c.buf[c.pos] == 0 {
			s := string(c.buf[start:c.pos])
			c.pos++

			return s, nil
		}
		c.pos++
	}
	c.pos = start

	return "", errs.ErrTruncated
}

// Slice borrows the next n bytes as an independent sub-cursor and advances
// the parent past them. The sub-cursor's limit is exactly n; reads on the
// parent after this call start immediately past the slice.
func (c *Cursor) Slice(n int) (*Cursor, error) {
	if err := c.require(n); err != nil {
		return nil, err
	}
	sub := &Cursor{buf: c.buf[c.pos : c.pos+n], pos: 0, lim: n}
	c.pos += n

	return sub, nil
}

// ReadVSVal reads a variable-size non-negative integer (see vsval.go).
func (c *Cursor) ReadVSVal() (uint32, error) {
	return readVSVal(c)
}

// ReadRefIDRaw reads a packed 24-bit RefID value: 3 raw little-endian
// bytes. Higher-level packages wrap the result with
// refid.New or a refid.Registry.
func (c *Cursor) ReadRefIDRaw() (uint32, error) {
	b, err := c.ReadBytes(3)
	if err != nil {
		return 0, err
	}

	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16, nil
}

// --- Writing ---

// WriteU8 appends an unsigned 8-bit integer, growing buf as needed.
func (c *Cursor) WriteU8(v uint8) {
	c.grow(1)
	c.buf[c.pos] = v
	c.pos++
	c.growLimit()
}

// WriteI8 appends a signed 8-bit integer.
func (c *Cursor) WriteI8(v int8) { c.WriteU8(uint8(v)) }

// WriteU16 appends a little-endian unsigned 16-bit integer.
func (c *Cursor) WriteU16(v uint16) {
	c.grow(2)
	binary.LittleEndian.PutUint16(c.buf[c.pos:], v)
	c.pos += 2
	c.growLimit()
}

// WriteI16 appends a little-endian signed 16-bit integer.
func (c *Cursor) WriteI16(v int16) { c.WriteU16(uint16(v)) }

// WriteU32 appends a little-endian unsigned 32-bit integer.
func (c *Cursor) WriteU32(v uint32) {
	c.grow(4)
	binary.LittleEndian.PutUint32(c.buf[c.pos:], v)
	c.pos += 4
	c.growLimit()
}

// WriteI32 appends a little-endian signed 32-bit integer.
func (c *Cursor) WriteI32(v int32) { c.WriteU32(uint32(v)) }

// WriteU64 appends a little-endian unsigned 64-bit integer.
func (c *Cursor) WriteU64(v uint64) {
	c.grow(8)
	binary.LittleEndian.PutUint64(c.buf[c.pos:], v)
	c.pos += 8
	c.growLimit()
}

// WriteI64 appends a little-endian signed 64-bit integer.
func (c *Cursor) WriteI64(v int64) { c.WriteU64(uint64(v)) }

// WriteF32 appends a little-endian IEEE-754 single-precision float.
func (c *Cursor) WriteF32(v float32) { c.WriteU32(math.Float32bits(v)) }

// WriteF64 appends a little-endian IEEE-754 double-precision float.
func (c *Cursor) WriteF64(v float64) { c.WriteU64(math.Float64bits(v)) }

// WriteBytes appends raw bytes verbatim.
func (c *Cursor) WriteBytes(b []byte) {
	c.grow(len(b))
	copy(c.buf[c.pos:], b)
	c.pos += len(b)
	c.growLimit()
}

// WriteLString appends a u16 length prefix followed by the raw bytes of s.
func (c *Cursor) WriteLString(s string) error {
	if len(s) > math.MaxUint16 {
		return errs.ErrNameTooLong
	}
	c.WriteU16(uint16(len(s)))
	c.WriteBytes([]byte(s))

	return nil
}

// WriteVSVal appends a variable-size non-negative integer.
func (c *Cursor) WriteVSVal(v uint32) error {
	return writeVSVal(c, v)
}

// WriteRefIDRaw appends a packed 24-bit RefID value as 3 raw
// little-endian bytes.
func (c *Cursor) WriteRefIDRaw(v uint32) {
	c.WriteBytes([]byte{byte(v), byte(v >> 8), byte(v >> 16)})
}

// grow ensures n more bytes are available past pos, extending buf (and lim)
// if necessary. Writing is append-oriented: a Cursor constructed for
// writing starts with buf set to an empty, growable slice.
func (c *Cursor) grow(n int) {
	needed := c.pos + n
	if needed <= cap(c.buf) {
		if needed > len(c.buf) {
			c.buf = c.buf[:needed]
		}

		return
	}

	newBuf := make([]byte, needed, max(needed, 2*cap(c.buf)))
	copy(newBuf, c.buf)
	c.buf = newBuf
}

func (c *Cursor) growLimit() {
	if c.pos > c.lim {
		c.lim = c.pos
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}

	return b
}

// NewWriter creates a Cursor with an empty, growable backing buffer,
// suitable for building output. Use Bytes() (sliced to Pos()) to retrieve
// the written data, or Written() for convenience.
func NewWriter() *Cursor {
	return &Cursor{buf: make([]byte, 0, 256), pos: 0, lim: 0}
}

// Written returns the bytes written so far to a writer cursor.
func (c *Cursor) Written() []byte {
	return c.buf[:c.pos]
}
