package cursor

import "github.com/sagahold/essedit/errs"

// MaxVSVal is the largest value a VSVal can represent. Three size classes
// (1/2/3 bytes) leave 6/14/22 payload bits after the 2-bit class and the
// left-shift-by-2 encoding, so the ceiling is 2^22-1, not the 0x4000_0000
// figure named loosely in SPEC_FULL.md — see DESIGN.md.
const MaxVSVal = (1 << 22) - 1

// EncodeVSVal encodes n as a 1-3 byte variable-size integer. The low 2
// bits of the first byte select the size class (0/1/2 => 1/2/3 bytes); the
// remaining bits of the accumulator hold the payload shifted left by 2.
// EncodeVSVal always picks the smallest class that fits n.
func EncodeVSVal(n uint32) ([]byte, error) {
	if n > MaxVSVal {
		return nil, errs.ErrInvalidVSVal
	}

	shifted := n << 2
	switch {
	case n < (1 << 6): // fits in 1 byte: 6 payload bits, class 0
		return []byte{byte(shifted)}, nil
	case n < (1 << 14): // fits in 2 bytes: 14 payload bits, class 1
		b0 := byte(shifted) | 1
		b1 := byte(shifted >> 8)

		return []byte{b0, b1}, nil
	case n < (1 << 22): // fits in 3 bytes: 22 payload bits, class 2
		b0 := byte(shifted) | 2
		b1 := byte(shifted >> 8)
		b2 := byte(shifted >> 16)

		return []byte{b0, b1, b2}, nil
	default:
		return nil, errs.ErrInvalidVSVal
	}
}

// DecodeVSVal decodes a VSVal from the head of data, returning the value
// and the number of bytes consumed (1-3).
func DecodeVSVal(data []byte) (uint32, int, error) {
	if len(data) < 1 {
		return 0, 0, errs.ErrTruncated
	}

	class := data[0] & 0x03
	if class == 3 {
		return 0, 0, errs.ErrInvalidVSVal
	}
	size := int(class) + 1
	if len(data) < size {
		return 0, 0, errs.ErrTruncated
	}

	var raw uint32
	switch size {
	case 1:
		raw = uint32(data[0])
	case 2:
		raw = uint32(data[0]) | uint32(data[1])<<8
	case 3:
		raw = uint32(data[0]) | uint32(data[1])<<8 | uint32(data[2])<<16
	}

	return raw >> 2, size, nil
}

// readVSVal decodes a VSVal from c, advancing its position past the
// consumed bytes.
func readVSVal(c *Cursor) (uint32, error) {
	b0, err := c.ReadU8()
	if err != nil {
		return 0, err
	}
	class := b0 & 0x03
	if class == 3 {
		return 0, errs.ErrInvalidVSVal
	}
	size := int(class)

	var raw uint32 = uint32(b0)
	for i := 0; i < size; i++ {
		b, err := c.ReadU8()
		if err != nil {
			return 0, err
		}
		raw |= uint32(b) << (8 * (i + 1))
	}

	return raw >> 2, nil
}

// writeVSVal encodes v and appends it to c using the smallest size class.
func writeVSVal(c *Cursor, v uint32) error {
	enc, err := EncodeVSVal(v)
	if err != nil {
		return err
	}
	c.WriteBytes(enc)

	return nil
}
