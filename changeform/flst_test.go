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

// TestFormListCleanse matches spec.md §8 scenario 2: a change-flags=bit31
// FLST with [non-null, null, null] entries cleanses to one entry, removing
// two.
func TestFormListCleanse(t *testing.T) {
	reg := refid.NewRegistry()

	d := &changeform.FormListData{
		HasEntries: true,
		Entries: []*refid.RefID{
			reg.Intern(5), // RefID tag DEFAULT, value 5: non-null
			reg.Intern(0),
			reg.Intern(0),
		},
	}
	assert.True(t, d.ContainsNullRefs())

	removed := d.Cleanse()
	assert.Equal(t, 2, removed)
	require.Len(t, d.Entries, 1)
	assert.Equal(t, uint32(5), d.Entries[0].Raw())
	assert.False(t, d.ContainsNullRefs())

	// Idempotent: cleansing again removes nothing further.
	assert.Equal(t, 0, d.Cleanse())

	w := cursor.NewWriter()
	d.Write(w)

	r := cursor.New(w.Written())
	count, err := r.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), count)
}

func TestFormListOversizeEntries(t *testing.T) {
	reg := refid.NewRegistry()

	payload := cursor.NewWriter()
	payload.WriteU32(changeform.MaxFormListEntries + 1)

	frame := cursor.NewWriter()
	frame.WriteRefIDRaw(0x010001)
	frame.WriteU32(uint32(flags.Flags32(0).With(31)))
	frame.WriteU8(uint8(format.CFFormList))
	frame.WriteU8(1)
	frame.WriteU8(uint8(len(payload.Written())))
	frame.WriteU8(0)
	frame.WriteBytes(payload.Written())

	cf, err := changeform.Read(cursor.New(frame.Written()), format.GameSkyrimSE, reg)
	require.NoError(t, err)

	_, err = cf.Parse(changeform.Options{Registry: reg, Game: format.GameSkyrimSE})
	require.Error(t, err)
}
