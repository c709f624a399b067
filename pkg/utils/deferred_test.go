package utils

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingWriter keeps each Write as a separate slice.
type recordingWriter struct {
	writes [][]byte
}

func (r *recordingWriter) Write(p []byte) (int, error) {
	buf := make([]byte, len(p))
	copy(buf, p)
	r.writes = append(r.writes, buf)
	return len(p), nil
}

func TestDeferredWriter_FlushReplaysEvents(t *testing.T) {
	var d DeferredWriter

	_, err := d.Write([]byte(`{"level":"info","message":"one"}` + "\n"))
	require.NoError(t, err)
	_, err = d.Write([]byte(`{"level":"warn","message":"two"}` + "\n"))
	require.NoError(t, err)

	var rec recordingWriter
	require.NoError(t, d.Flush(&rec))

	// Each buffered write must arrive as its own event so line-oriented
	// consumers can parse them individually.
	require.Len(t, rec.writes, 2)
	assert.Contains(t, string(rec.writes[0]), "one")
	assert.Contains(t, string(rec.writes[1]), "two")
}

func TestDeferredWriter_FlushClearsBuffer(t *testing.T) {
	var d DeferredWriter

	_, err := d.Write([]byte("hello"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, d.Flush(&buf))
	assert.Equal(t, "hello", buf.String())

	buf.Reset()
	require.NoError(t, d.Flush(&buf))
	assert.Empty(t, buf.String(), "second flush should write nothing")
}

func TestDeferredWriter_ConcurrentWrites(t *testing.T) {
	var d DeferredWriter

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = d.Write([]byte("x"))
		}()
	}
	wg.Wait()

	var rec recordingWriter
	require.NoError(t, d.Flush(&rec))
	assert.Len(t, rec.writes, 10)
}
