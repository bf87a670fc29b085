package refid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagahold/essedit/refid"
)

func newPlugin(name string, idx uint16, lite bool) *refid.Plugin {
	return &refid.Plugin{RawName: []byte(name), Index: idx, Lite: lite}
}

func TestPluginEqualCaseInsensitive(t *testing.T) {
	a := newPlugin("Skyrim.esm", 0, false)
	b := newPlugin("SKYRIM.ESM", 0, false)
	assert.True(t, a.Equal(b))
}

func TestPluginIndexNameFormatting(t *testing.T) {
	full := newPlugin("Dawnguard.esm", 0x02, false)
	lite := newPlugin("SmallMod.esl", 0x003, true)

	assert.Equal(t, "02: Dawnguard.esm", full.IndexName())
	assert.Equal(t, "FE003: SmallMod.esl", lite.IndexName())
}

func TestPluginInfoFindCaseInsensitive(t *testing.T) {
	full := []*refid.Plugin{newPlugin("Skyrim.esm", 0, false)}
	lite := []*refid.Plugin{newPlugin("SmallMod.esl", 0, true)}
	pi := refid.NewPluginInfo(full, lite)

	p, err := pi.Find("SKYRIM.ESM")
	require.NoError(t, err)
	assert.Same(t, full[0], p)

	p, err = pi.Find("smallmod.esl")
	require.NoError(t, err)
	assert.Same(t, lite[0], p)

	_, err = pi.Find("nonexistent.esp")
	assert.Error(t, err)
}

func TestResolveFormIDFullPlugin(t *testing.T) {
	full := []*refid.Plugin{newPlugin("Skyrim.esm", 0, false), newPlugin("Dawnguard.esm", 1, false)}
	pi := refid.NewPluginInfo(full, nil)

	p, localID, err := pi.ResolveFormID(0x01000ABC)
	require.NoError(t, err)
	assert.Same(t, full[1], p)
	assert.Equal(t, uint32(0x000ABC), localID)
}

func TestResolveFormIDLitePlugin(t *testing.T) {
	lite := []*refid.Plugin{newPlugin("A.esl", 0, true), newPlugin("B.esl", 1, true)}
	pi := refid.NewPluginInfo(nil, lite)

	// top byte 0xFE, lite index 1, local id 0x123
	formID := uint32(0xFE000000) | (1 << 12) | 0x123
	p, localID, err := pi.ResolveFormID(formID)
	require.NoError(t, err)
	assert.Same(t, lite[1], p)
	assert.Equal(t, uint32(0x123), localID)
}

func TestResolveFormIDCreated(t *testing.T) {
	pi := refid.NewPluginInfo(nil, nil)
	p, localID, err := pi.ResolveFormID(0xFF000042)
	require.NoError(t, err)
	assert.Same(t, refid.Created, p)
	assert.Equal(t, uint32(0x000042), localID)
}

func TestResolveFormIDOutOfRange(t *testing.T) {
	pi := refid.NewPluginInfo(nil, nil)
	_, _, err := pi.ResolveFormID(0x05000000)
	assert.Error(t, err)
}
