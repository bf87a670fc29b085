package changeform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagahold/essedit/changeform"
	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/flags"
	"github.com/sagahold/essedit/format"
	"github.com/sagahold/essedit/refid"
)

// TestPlacedInitialDataPrecedence matches spec.md §8 scenario 6: for a
// CREATED RefID with HAVOK_MOVE also set, CREATED wins (kind 5); for a
// FORMIDX RefID with both PROMOTED and MOVE set, PROMOTED wins (kind 6).
func TestPlacedInitialDataPrecedence(t *testing.T) {
	reg := refid.NewRegistry()

	createdRef := reg.Intern(uint32(refid.TagCreated)<<22 | 0x123)
	createdFlags := flags.Flags32(0).With(1) // HAVOK_MOVE

	kind5 := placedReadKind(t, reg, createdRef, createdFlags)
	assert.Equal(t, 5, kind5.Initial.Kind)

	formIdxRef := reg.Intern(uint32(refid.TagFormIndex)<<22 | 0x456)
	mixedFlags := flags.Flags32(0).With(3).With(0) // PROMOTED(3) + MOVE(0)

	kind6 := placedReadKind(t, reg, formIdxRef, mixedFlags)
	assert.Equal(t, 6, kind6.Initial.Kind)
}

// placedReadKind builds a minimal REFR change-form whose only flag-driven
// field is the initial-data block (all other optional flags clear) and
// decodes it, returning the resulting PlacedData.
func placedReadKind(t *testing.T, reg *refid.Registry, ref *refid.RefID, cflags flags.Flags32) *changeform.PlacedData {
	t.Helper()

	payload := cursor.NewWriter()
	switch {
	case ref.Tag() == refid.TagCreated:
		// kind 5: cell RefID, pos, rot, u8, base RefID
		payload.WriteRefIDRaw(0x010001)
		for i := 0; i < 6; i++ {
			payload.WriteF32(0)
		}
		payload.WriteU8(0)
		payload.WriteRefIDRaw(0x010002)
	default:
		// kind 6: cell RefID, pos, rot, starting-cell RefID, u16, u16
		payload.WriteRefIDRaw(0x010001)
		for i := 0; i < 6; i++ {
			payload.WriteF32(0)
		}
		payload.WriteRefIDRaw(0x010003)
		payload.WriteU16(0)
		payload.WriteU16(0)
	}

	frame := cursor.NewWriter()
	frame.WriteRefIDRaw(ref.Raw())
	frame.WriteU32(uint32(cflags))
	frame.WriteU8(uint8(format.CFReference))
	frame.WriteU8(1)
	frame.WriteU8(uint8(len(payload.Written())))
	frame.WriteU8(0)
	frame.WriteBytes(payload.Written())

	cf, err := changeform.Read(cursor.New(frame.Written()), format.GameSkyrimSE, reg)
	require.NoError(t, err)

	body, err := cf.Parse(changeform.Options{Registry: reg, Game: format.GameSkyrimSE})
	require.NoError(t, err)

	return body.(*changeform.PlacedData)
}
