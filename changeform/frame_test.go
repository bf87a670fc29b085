package changeform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagahold/essedit/changeform"
	"github.com/sagahold/essedit/compress"
	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/flags"
	"github.com/sagahold/essedit/format"
	"github.com/sagahold/essedit/refid"
)

var zlibCodec = compress.NewZlibCompressor()

func writeFrame(t *testing.T, ref uint32, changeFlags uint32, typ format.ChangeFormType, class changeform.LengthClass, version uint8, payload []byte, length2 uint32) []byte {
	t.Helper()
	w := cursor.NewWriter()
	w.WriteRefIDRaw(ref)
	w.WriteU32(changeFlags)
	w.WriteU8((uint8(class) << 6) | (uint8(typ) & 0x3F))
	w.WriteU8(version)
	switch class {
	case changeform.LengthClassU8:
		w.WriteU8(uint8(len(payload)))
		w.WriteU8(uint8(length2))
	case changeform.LengthClassU16:
		w.WriteU16(uint16(len(payload)))
		w.WriteU16(uint16(length2))
	default:
		w.WriteU32(uint32(len(payload)))
		w.WriteU32(length2)
	}
	w.WriteBytes(payload)

	return w.Written()
}

func TestChangeFormFrameRoundTrip(t *testing.T) {
	reg := refid.NewRegistry()
	payload := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	raw := writeFrame(t, 0x010005, 0, format.CFMisc, changeform.LengthClassU8, 57, payload, 0)

	cf, err := changeform.Read(cursor.New(raw), format.GameSkyrimSE, reg)
	require.NoError(t, err)
	assert.Equal(t, format.CFMisc, cf.Type)
	assert.False(t, cf.Compressed())
	assert.Equal(t, payload, cf.Raw)

	w := cursor.NewWriter()
	cf.Write(w)
	assert.Equal(t, raw, w.Written())
}

func TestChangeFormFrameInvalidLengthClass(t *testing.T) {
	// type_field top 2 bits = 3, an invalid length class.
	w := cursor.NewWriter()
	w.WriteRefIDRaw(0x010001)
	w.WriteU32(0)
	w.WriteU8(0xC0 | uint8(format.CFMisc))
	w.WriteU8(1)

	reg := refid.NewRegistry()
	_, err := changeform.Read(cursor.New(w.Written()), format.GameSkyrimSE, reg)
	require.Error(t, err)
}

func TestChangeFormUpdateRawUncompressed(t *testing.T) {
	reg := refid.NewRegistry()
	raw := writeFrame(t, 0x010005, uint32(flags.Flags32(0).With(31)), format.CFFormList, changeform.LengthClassU8, 1, []byte{0, 0, 0, 0}, 0)

	cf, err := changeform.Read(cursor.New(raw), format.GameSkyrimSE, reg)
	require.NoError(t, err)

	body, err := cf.Parse(changeform.Options{Registry: reg, Game: format.GameSkyrimSE})
	require.NoError(t, err)
	flst := body.(*changeform.FormListData)
	flst.Entries = append(flst.Entries, reg.Intern(0x010099))

	ok := cf.UpdateRaw(flst, nil)
	require.True(t, ok)
	assert.Equal(t, uint32(7), cf.Length1) // u32 count + one 3-byte RefID
	assert.Equal(t, uint32(0), cf.Length2)

	// Re-parsing after UpdateRaw must return the cached, updated body.
	reparsed, err := cf.Parse(changeform.Options{Registry: reg, Game: format.GameSkyrimSE})
	require.NoError(t, err)
	assert.Same(t, flst, reparsed)
}

func TestChangeFormCompressedRoundTrip(t *testing.T) {
	reg := refid.NewRegistry()

	w := cursor.NewWriter()
	flst := &changeform.FormListData{HasEntries: true, Entries: []*refid.RefID{reg.Intern(0x010001)}}
	flst.Write(w)
	plain := w.Written()

	codec := compressZlib(t, plain)

	frame := cursor.NewWriter()
	frame.WriteRefIDRaw(0x010005)
	frame.WriteU32(uint32(flags.Flags32(0).With(31)))
	frame.WriteU8((uint8(changeform.LengthClassU16) << 6) | uint8(format.CFFormList))
	frame.WriteU8(1)
	frame.WriteU16(uint16(len(codec)))
	frame.WriteU16(uint16(len(plain)))
	frame.WriteBytes(codec)

	cf, err := changeform.Read(cursor.New(frame.Written()), format.GameSkyrimSE, reg)
	require.NoError(t, err)
	require.True(t, cf.Compressed())

	body, err := cf.Parse(changeform.Options{Registry: reg, Game: format.GameSkyrimSE})
	require.NoError(t, err)
	got := body.(*changeform.FormListData)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, uint32(0x010001), got.Entries[0].Raw())
}

func compressZlib(t *testing.T, data []byte) []byte {
	t.Helper()
	out, err := zlibCodec.Compress(data)
	require.NoError(t, err)

	return out
}
