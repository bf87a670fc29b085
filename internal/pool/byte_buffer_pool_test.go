package pool

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewByteBuffer(t *testing.T) {
	bb := NewByteBuffer(1024)
	require.NotNil(t, bb)
	assert.Equal(t, 0, len(bb.B))
	assert.Equal(t, 1024, cap(bb.B))
}

func TestByteBuffer_MustWriteAndReset(t *testing.T) {
	bb := NewByteBuffer(RecordBufferDefaultSize)
	bb.MustWrite([]byte("hello"))
	assert.Equal(t, []byte("hello"), bb.Bytes())

	cap0 := cap(bb.B)
	bb.Reset()
	assert.Equal(t, 0, bb.Len())
	assert.Equal(t, cap0, cap(bb.B), "reset preserves capacity")
}

func TestByteBuffer_WriteTo(t *testing.T) {
	bb := NewByteBuffer(RecordBufferDefaultSize)
	bb.MustWrite([]byte("change-form bytes"))

	var out bytes.Buffer
	n, err := bb.WriteTo(&out)
	require.NoError(t, err)
	assert.Equal(t, int64(len("change-form bytes")), n)
	assert.Equal(t, "change-form bytes", out.String())
}

func TestByteBuffer_WriteToPropagatesError(t *testing.T) {
	bb := NewByteBuffer(RecordBufferDefaultSize)
	bb.MustWrite([]byte("x"))

	_, err := bb.WriteTo(&errorWriter{err: io.ErrShortWrite})
	assert.ErrorIs(t, err, io.ErrShortWrite)
}

func TestByteBuffer_GrowReallocatesAndPreservesData(t *testing.T) {
	bb := NewByteBuffer(RecordBufferDefaultSize)
	bb.B = append(bb.B, make([]byte, RecordBufferDefaultSize)...)
	data := []byte("preserve me")
	bb.B = append(bb.B, data...)

	bb.Grow(RecordBufferDefaultSize * 2)
	assert.GreaterOrEqual(t, cap(bb.B), RecordBufferDefaultSize*3)
	assert.Equal(t, data, bb.B[RecordBufferDefaultSize:])
}

func TestByteBufferPool_GetPutResets(t *testing.T) {
	p := NewByteBufferPool(1024, 4096)
	bb := p.Get()
	bb.MustWrite([]byte("sensitive"))
	p.Put(bb)

	bb2 := p.Get()
	assert.Equal(t, 0, bb2.Len())
}

func TestByteBufferPool_DiscardsOversizeBuffers(t *testing.T) {
	p := NewByteBufferPool(1024, 4096)
	bb := p.Get()
	bb.Grow(10000)
	require.Greater(t, cap(bb.B), 4096)
	p.Put(bb) // discarded, not pooled

	bb2 := p.Get()
	assert.LessOrEqual(t, cap(bb2.B), 4096*2)
}

func TestPutNilBufferDoesNotPanic(t *testing.T) {
	p := NewByteBufferPool(1024, 4096)
	assert.NotPanics(t, func() { p.Put(nil) })
}

func TestDefaultPoolsAreIndependent(t *testing.T) {
	record := GetRecordBuffer()
	container := GetContainerBuffer()
	defer PutRecordBuffer(record)
	defer PutContainerBuffer(container)

	assert.GreaterOrEqual(t, cap(record.B), RecordBufferDefaultSize)
	assert.GreaterOrEqual(t, cap(container.B), ContainerBufferDefaultSize)
	assert.NotEqual(t, cap(record.B), cap(container.B))
}

func TestRecordBufferPool_ConcurrentAccess(t *testing.T) {
	const goroutines = 32
	const iterations = 200

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				bb := GetRecordBuffer()
				bb.MustWrite([]byte("refr"))
				PutRecordBuffer(bb)
			}
		}()
	}
	wg.Wait()
}

type errorWriter struct{ err error }

func (ew *errorWriter) Write(p []byte) (int, error) { return 0, ew.err }
