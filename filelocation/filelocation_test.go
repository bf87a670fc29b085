package filelocation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sagahold/essedit/cursor"
	"github.com/sagahold/essedit/filelocation"
	"github.com/sagahold/essedit/format"
)

func sampleTable() *filelocation.Table {
	return &filelocation.Table{
		FormIDArrayCountOffset: 1000,
		UnknownTable3Offset:    2000,
		Table1Offset:           100,
		Table2Offset:           200,
		ChangeFormsOffset:      300,
		Table3Offset:           900,
		Table1Count:            5,
		Table2Count:            6,
		Table3Count:            7,
		ChangeFormCount:        8,
	}
}

func TestRoundTripSE(t *testing.T) {
	table := sampleTable()
	w := cursor.NewWriter()
	table.Write(w, format.GameSkyrimSE)
	assert.Equal(t, filelocation.Size, w.Pos())

	r := cursor.New(w.Written())
	got, err := filelocation.Read(r, format.GameSkyrimSE)
	require.NoError(t, err)
	assert.Equal(t, table.Table3Count, got.Table3Count)
	assert.Equal(t, table.Table1Offset, got.Table1Offset)
}

func TestTable3CountBiasLE(t *testing.T) {
	table := sampleTable()
	w := cursor.NewWriter()
	table.Write(w, format.GameSkyrimLE)

	r := cursor.New(w.Written())
	got, err := filelocation.Read(r, format.GameSkyrimLE)
	require.NoError(t, err)
	// The on-disk value is Table3Count-1; Read must undo the bias so the
	// round-tripped in-memory count matches the original.
	assert.Equal(t, table.Table3Count, got.Table3Count)
}

func TestRebuildComputesOffsetsFromSizes(t *testing.T) {
	table := &filelocation.Table{}
	table.Rebuild(filelocation.RebuildParams{
		BaseOffset:             1000,
		Table1Size:             50,
		Table2Size:             60,
		ChangeFormsSize:        700,
		Table3Size:             80,
		FormIDCount:            10,
		VisitedWorldspaceCount: 2,
	})

	assert.Equal(t, uint32(1000), table.Table1Offset)
	assert.Equal(t, uint32(1050), table.Table2Offset)
	assert.Equal(t, uint32(1110), table.ChangeFormsOffset)
	assert.Equal(t, uint32(1810), table.Table3Offset)
	assert.Equal(t, uint32(1890), table.FormIDArrayCountOffset)
	assert.Equal(t, uint32(1890+4+40+4+8), table.UnknownTable3Offset)
}
