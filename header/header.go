// Package header decodes and encodes the fixed save header: magic
// detection, game/version discrimination, and the embedded screenshot
// pixel block.
package header

import (
	"fmt"

	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/errs"
	"github.com/sagahold/essedit/format"
)

// Header is the fixed, always-uncompressed leading section of a save.
// Its own Compression field only applies to the remastered/handheld
// family; other variants leave it at
// format.CompressionUncompressed and never serialize it.
type Header struct {
	Magic   string
	Version uint32

	SaveIndex       uint32
	PlayerName      string
	PlayerLocation  string
	GameDate        string
	PlayerRace      string
	Sex             uint8
	CurrentXP       float32
	NeededXP        float32
	FileTime        uint64
	ScreenshotWidth uint32
	ScreenshotHeight uint32
	Compression     format.CompressionType

	ScreenshotPixels []byte
}

// peekMagic looks at the first 4 bytes of buf without consuming them and
// reports which known prefix, if any, they match.
func peekMagic(buf []byte) (string, error) {
	if len(buf) < 4 {
		return "", errs.ErrTruncated
	}
	switch string(buf[:4]) {
	case "TES4":
		return format.MagicTES4, nil
	case "TESV":
		return format.MagicTESV, nil
	case "FO4_":
		return format.MagicFO4, nil
	default:
		return "", errs.ErrMagicMismatch
	}
}

// Read decodes a Header from c, which must be positioned at the start of
// the save. filenameHint disambiguates the remastered/handheld variants
// when version alone is insufficient.
func Read(c *cursor.Cursor, filenameHint string) (*Header, format.Game, error) {
	prefix, err := peekMagic(c.Remaining())
	if err != nil {
		return nil, format.GameUnknown, err
	}

	magicBytes, err := c.ReadBytes(format.MagicLen(prefix))
	if err != nil {
		return nil, format.GameUnknown, err
	}

	declaredSize, err := c.ReadU32()
	if err != nil {
		return nil, format.GameUnknown, err
	}

	// The partialSize window starts here, at the version
	// field, and runs through the optional compression tag.
	partialStart := c.Pos()

	h := &Header{Magic: string(magicBytes)}

	h.Version, err = c.ReadU32()
	if err != nil {
		return nil, format.GameUnknown, err
	}

	game := format.DetectGame(prefix, h.Version, filenameHint)
	if game == format.GameUnknown {
		return nil, game, errs.ErrUnknownGame
	}

	if err := h.readFixedFields(c); err != nil {
		return nil, game, err
	}

	if game.SupportsCompression() {
		ct, err := c.ReadU32()
		if err != nil {
			return nil, game, err
		}
		h.Compression = format.CompressionType(ct)
	} else {
		h.Compression = format.CompressionUncompressed
	}

	partialSize := uint32(c.Pos() - partialStart)
	if partialSize != declaredSize {
		return nil, game, fmt.Errorf("%w: header declared size %d, computed %d", errs.ErrPositionMismatch, declaredSize, partialSize)
	}

	pixelCount := int(h.ScreenshotWidth) * int(h.ScreenshotHeight) * game.ScreenshotBytesPerPixel()
	h.ScreenshotPixels, err = c.ReadBytes(pixelCount)
	if err != nil {
		return nil, game, err
	}

	return h, game, nil
}

func (h *Header) readFixedFields(c *cursor.Cursor) error {
	var err error
	if h.SaveIndex, err = c.ReadU32(); err != nil {
		return err
	}
	if h.PlayerName, err = c.ReadLString(); err != nil {
		return err
	}
	if h.PlayerLocation, err = c.ReadLString(); err != nil {
		return err
	}
	if h.GameDate, err = c.ReadLString(); err != nil {
		return err
	}
	if h.PlayerRace, err = c.ReadLString(); err != nil {
		return err
	}
	if h.Sex, err = c.ReadU8(); err != nil {
		return err
	}
	if h.CurrentXP, err = c.ReadF32(); err != nil {
		return err
	}
	if h.NeededXP, err = c.ReadF32(); err != nil {
		return err
	}
	if h.FileTime, err = c.ReadU64(); err != nil {
		return err
	}
	if h.ScreenshotWidth, err = c.ReadU32(); err != nil {
		return err
	}
	if h.ScreenshotHeight, err = c.ReadU32(); err != nil {
		return err
	}

	return nil
}

// Write encodes h to c in the same field order Read consumes them,
// recomputing the declared header size from the fields actually written.
func (h *Header) Write(c *cursor.Cursor, game format.Game) error {
	c.WriteBytes([]byte(h.Magic))

	sizePos := c.Pos()
	c.WriteU32(0) // patched below

	partialStart := c.Pos()
	c.WriteU32(h.Version)
	c.WriteU32(h.SaveIndex)
	if err := c.WriteLString(h.PlayerName); err != nil {
		return err
	}
	if err := c.WriteLString(h.PlayerLocation); err != nil {
		return err
	}
	if err := c.WriteLString(h.GameDate); err != nil {
		return err
	}
	if err := c.WriteLString(h.PlayerRace); err != nil {
		return err
	}
	c.WriteU8(h.Sex)
	c.WriteF32(h.CurrentXP)
	c.WriteF32(h.NeededXP)
	c.WriteU64(h.FileTime)
	c.WriteU32(h.ScreenshotWidth)
	c.WriteU32(h.ScreenshotHeight)

	if game.SupportsCompression() {
		c.WriteU32(uint32(h.Compression))
	}

	partialSize := uint32(c.Pos() - partialStart)
	c.WriteBytes(h.ScreenshotPixels)

	written := c.Written()
	patchU32(written, sizePos, partialSize)

	return nil
}

func patchU32(buf []byte, at int, v uint32) {
	buf[at+0] = byte(v)
	buf[at+1] = byte(v >> 8)
	buf[at+2] = byte(v >> 16)
	buf[at+3] = byte(v >> 24)
}
