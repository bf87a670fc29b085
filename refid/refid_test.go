package refid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagahold/essedit/refid"
)

func TestTagDecoding(t *testing.T) {
	cases := []struct {
		raw uint32
		tag refid.Tag
	}{
		{0x000123, refid.TagFormIndex},
		{0x400123, refid.TagDefault},
		{0x800123, refid.TagCreated},
		{0xC00123, refid.TagInvalid},
	}
	for _, c := range cases {
		r := refid.New(c.raw)
		assert.Equal(t, c.tag, r.Tag())
	}
}

func TestIndexMasksOutTag(t *testing.T) {
	r := refid.New(0x800ABC)
	assert.Equal(t, uint32(0xABC), r.Index())
}

func TestIsZero(t *testing.T) {
	assert.True(t, refid.New(0).IsZero())
	assert.False(t, refid.New(1).IsZero())
}

func TestRegistryCanonicalizes(t *testing.T) {
	reg := refid.NewRegistry()
	a := reg.Intern(0x400042)
	b := reg.Intern(0x400042)
	assert.Same(t, a, b)
	assert.Equal(t, 1, reg.Len())

	c := reg.Intern(0x400043)
	assert.NotSame(t, a, c)
	assert.Equal(t, 2, reg.Len())
}

func TestResolveDefault(t *testing.T) {
	full := []*refid.Plugin{{RawName: []byte("Skyrim.esm"), Index: 0}}
	plugins := refid.NewPluginInfo(full, nil)

	r := refid.New(0x400055)
	resolved, err := r.Resolve(plugins, nil)
	require.NoError(t, err)
	assert.Same(t, full[0], resolved.Plugin)
	assert.Equal(t, uint32(0x55), resolved.FormID)
}

func TestResolveCreated(t *testing.T) {
	plugins := refid.NewPluginInfo(nil, nil)
	r := refid.New(0x800007)

	resolved, err := r.Resolve(plugins, nil)
	require.NoError(t, err)
	assert.Same(t, refid.Created, resolved.Plugin)
	assert.Equal(t, uint32(0xFF000007), resolved.FormID)
}

func TestResolveFormIndex(t *testing.T) {
	full := []*refid.Plugin{{RawName: []byte("Skyrim.esm"), Index: 0}}
	plugins := refid.NewPluginInfo(full, nil)
	formIDArray := []uint32{0x00123456}

	r := refid.New(0x000001) // FORMIDX, index=1 -> formIDArray[0]
	resolved, err := r.Resolve(plugins, formIDArray)
	require.NoError(t, err)
	assert.Same(t, full[0], resolved.Plugin)
	assert.Equal(t, uint32(0x00123456), resolved.FormID)
}

func TestResolveFormIndexOutOfRange(t *testing.T) {
	plugins := refid.NewPluginInfo(nil, nil)
	r := refid.New(0x000005)

	_, err := r.Resolve(plugins, []uint32{0x1})
	assert.Error(t, err)
}

func TestResolveInvalidTag(t *testing.T) {
	plugins := refid.NewPluginInfo(nil, nil)
	r := refid.New(0xC00000)

	_, err := r.Resolve(plugins, nil)
	assert.Error(t, err)
}
