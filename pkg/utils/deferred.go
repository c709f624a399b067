// Package utils provides small shared helpers.
package utils

import (
	"io"
	"sync"
)

// DeferredWriter buffers writes in memory until flushed to another writer.
// Each Write call is kept as a separate event so log lines can be replayed
// one at a time. The zero value is ready to use and safe for concurrent
// writes.
type DeferredWriter struct {
	mu     sync.Mutex
	events [][]byte
}

// Write implements io.Writer by buffering p.
func (d *DeferredWriter) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf := make([]byte, len(p))
	copy(buf, p)
	d.events = append(d.events, buf)

	return len(p), nil
}

// Flush replays each buffered write to w and clears the buffer.
func (d *DeferredWriter) Flush(w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, event := range d.events {
		if _, err := w.Write(event); err != nil {
			return err
		}
	}

	d.events = nil
	return nil
}
