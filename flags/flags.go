// Package flags provides immutable 8/16/32-bit bitfields with positional
// access, modeled on the bit-twiddling style of section.NumericFlag in the
// teacher package but generalized: change-form change-flags and extra-data
// sub-flags are flat integers whose individual bit meanings are supplied
// by the caller as constants, not baked into the type.
package flags

import "strconv"

// Flags8 is an immutable 8-bit bitfield.
type Flags8 uint8

// Flags16 is an immutable 16-bit bitfield.
type Flags16 uint16

// Flags32 is an immutable 32-bit bitfield.
type Flags32 uint32

// Get returns whether bit i is set. i must be in [0, 8).
func (f Flags8) Get(i int) bool { return f&(1<<uint(i)) != 0 }

// With returns a copy of f with bit i set.
func (f Flags8) With(i int) Flags8 { return f | (1 << uint(i)) }

// Without returns a copy of f with bit i cleared.
func (f Flags8) Without(i int) Flags8 { return f &^ (1 << uint(i)) }

// GetAny returns true if any of the given bit positions are set.
func (f Flags8) GetAny(positions ...int) bool {
	for _, p := range positions {
		if f.Get(p) {
			return true
		}
	}

	return false
}

// AllZero returns true if no bits are set.
func (f Flags8) AllZero() bool { return f == 0 }

// String renders f as a zero-padded binary literal.
func (f Flags8) String() string {
	return "0b" + pad(strconv.FormatUint(uint64(f), 2), 8)
}

// Get returns whether bit i is set. i must be in [0, 16).
func (f Flags16) Get(i int) bool { return f&(1<<uint(i)) != 0 }

// With returns a copy of f with bit i set.
func (f Flags16) With(i int) Flags16 { return f | (1 << uint(i)) }

// Without returns a copy of f with bit i cleared.
func (f Flags16) Without(i int) Flags16 { return f &^ (1 << uint(i)) }

// GetAny returns true if any of the given bit positions are set.
func (f Flags16) GetAny(positions ...int) bool {
	for _, p := range positions {
		if f.Get(p) {
			return true
		}
	}

	return false
}

// AllZero returns true if no bits are set.
func (f Flags16) AllZero() bool { return f == 0 }

// String renders f as a zero-padded binary literal.
func (f Flags16) String() string {
	return "0b" + pad(strconv.FormatUint(uint64(f), 2), 16)
}

// Get returns whether bit i is set. i must be in [0, 32).
func (f Flags32) Get(i int) bool { return f&(1<<uint(i)) != 0 }

// With returns a copy of f with bit i set.
func (f Flags32) With(i int) Flags32 { return f | (1 << uint(i)) }

// Without returns a copy of f with bit i cleared.
func (f Flags32) Without(i int) Flags32 { return f &^ (1 << uint(i)) }

// GetAny returns true if any of the given bit positions are set.
func (f Flags32) GetAny(positions ...int) bool {
	for _, p := range positions {
		if f.Get(p) {
			return true
		}
	}

	return false
}

// AllZero returns true if no bits are set.
func (f Flags32) AllZero() bool { return f == 0 }

// String renders f as a zero-padded binary literal.
func (f Flags32) String() string {
	return "0b" + pad(strconv.FormatUint(uint64(f), 2), 32)
}

func pad(s string, width int) string {
	for len(s) < width {
		s = "0" + s
	}

	return s
}

// Bit is a named change-flag position: an enumeration value carrying the
// bit index it corresponds to in a record's change-flags word. Consumers
// pass Bit constants; they never interpret bit semantics directly.
type Bit int

// Has reports whether flags32 has the bit named by b set: a query takes an
// enumeration value carrying a position and delegates to Get(pos).
func (b Bit) Has(f Flags32) bool { return f.Get(int(b)) }
