package globaldata_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/globaldata"
	"github.com/sagahold/essedit/refid"
)

func TestGroupOf(t *testing.T) {
	assert.Equal(t, globaldata.Group1, globaldata.GroupOf(3))
	assert.Equal(t, globaldata.Group1, globaldata.GroupOf(99))
	assert.Equal(t, globaldata.Group2, globaldata.GroupOf(100))
	assert.Equal(t, globaldata.Group2, globaldata.GroupOf(999))
	assert.Equal(t, globaldata.Group3, globaldata.GroupOf(1000))
	assert.Equal(t, globaldata.Group3, globaldata.GroupOf(1002))
}

func TestVariablesRoundTrip(t *testing.T) {
	reg := refid.NewRegistry()
	opts := globaldata.Options{Registry: reg}

	orig := &globaldata.Block{
		Type: globaldata.TypeVariables,
		Data: &globaldata.VariablesData{
			Entries: []globaldata.VariableEntry{
				{Ref: reg.Intern(0x010001), Value: 1.5},
				{Ref: reg.Intern(0x010002), Value: -2.25},
			},
		},
	}

	w := cursor.NewWriter()
	globaldata.WriteBlock(w, orig)

	r := cursor.New(w.Written())
	got, err := globaldata.ReadBlock(r, opts)
	require.NoError(t, err)
	assert.Equal(t, globaldata.TypeVariables, got.Type)

	data := got.Data.(*globaldata.VariablesData)
	require.Len(t, data.Entries, 2)
	assert.Equal(t, float32(1.5), data.Entries[0].Value)
	assert.Equal(t, uint32(0x010002), data.Entries[1].Ref.Raw())
}

func TestAnimationsRoundTrip(t *testing.T) {
	reg := refid.NewRegistry()
	opts := globaldata.Options{Registry: reg}

	orig := &globaldata.Block{
		Type: globaldata.TypeAnimations,
		Data: &globaldata.AnimationsData{
			Entries: []globaldata.AnimationEntry{
				{Actor: reg.Intern(0x010001), Animation: reg.Intern(0x010002), Flag: 1},
			},
		},
	}

	w := cursor.NewWriter()
	globaldata.WriteBlock(w, orig)

	r := cursor.New(w.Written())
	got, err := globaldata.ReadBlock(r, opts)
	require.NoError(t, err)
	assert.Equal(t, globaldata.TypeAnimations, got.Type)

	data := got.Data.(*globaldata.AnimationsData)
	require.Len(t, data.Entries, 1)
	assert.Equal(t, uint8(1), data.Entries[0].Flag)
}

func TestUnknownTypeStoresOpaque(t *testing.T) {
	reg := refid.NewRegistry()
	opts := globaldata.Options{Registry: reg}

	w := cursor.NewWriter()
	w.WriteU32(42)
	w.WriteU32(3)
	w.WriteBytes([]byte{1, 2, 3})

	r := cursor.New(w.Written())
	got, err := globaldata.ReadBlock(r, opts)
	require.NoError(t, err)
	assert.Equal(t, uint32(42), got.Type)

	data, ok := got.Data.(*globaldata.OpaqueData)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, data.Raw)
}

func TestVMStateWithoutDecoderIsOpaque(t *testing.T) {
	reg := refid.NewRegistry()
	opts := globaldata.Options{Registry: reg}

	w := cursor.NewWriter()
	w.WriteU32(globaldata.TypeVMState)
	w.WriteU32(2)
	w.WriteBytes([]byte{0xAA, 0xBB})

	r := cursor.New(w.Written())
	got, err := globaldata.ReadBlock(r, opts)
	require.NoError(t, err)

	data := got.Data.(*globaldata.VMStateData)
	assert.Equal(t, []byte{0xAA, 0xBB}, data.Raw)
	assert.Nil(t, data.Parsed)
}

func TestVMStateDecoderFailureReturnsPartial(t *testing.T) {
	reg := refid.NewRegistry()
	boom := errors.New("boom")
	opts := globaldata.Options{
		Registry: reg,
		VMDecode: func(c *cursor.Cursor) (any, error) {
			return nil, boom
		},
	}

	w := cursor.NewWriter()
	w.WriteU32(globaldata.TypeVMState)
	w.WriteU32(1)
	w.WriteU8(0xFF)

	r := cursor.New(w.Written())
	_, err := globaldata.ReadBlock(r, opts)
	assert.ErrorIs(t, err, boom)
}

func TestVMStateDecoderSuccess(t *testing.T) {
	reg := refid.NewRegistry()
	opts := globaldata.Options{
		Registry: reg,
		VMDecode: func(c *cursor.Cursor) (any, error) {
			return c.ReadU8()
		},
	}

	w := cursor.NewWriter()
	w.WriteU32(globaldata.TypeVMState)
	w.WriteU32(1)
	w.WriteU8(0x7A)

	r := cursor.New(w.Written())
	got, err := globaldata.ReadBlock(r, opts)
	require.NoError(t, err)

	data := got.Data.(*globaldata.VMStateData)
	assert.Equal(t, uint8(0x7A), data.Parsed)
}

func TestWriteBlockComputesSize(t *testing.T) {
	block := &globaldata.Block{Type: 99, Data: &globaldata.OpaqueData{Raw: []byte{1, 2, 3, 4, 5}}}

	w := cursor.NewWriter()
	globaldata.WriteBlock(w, block)

	buf := w.Written()
	require.Len(t, buf, 4+4+5)
	size := uint32(buf[4]) | uint32(buf[5])<<8 | uint32(buf[6])<<16 | uint32(buf[7])<<24
	assert.Equal(t, uint32(5), size)
}
