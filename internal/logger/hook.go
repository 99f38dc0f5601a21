package logger

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

// AsyncHook formats entries on the caller goroutine and writes them from a single
// background goroutine. When the buffer is full the entry is dropped.
type AsyncHook struct {
	writers []io.Writer
	lines   chan []byte
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
}

// NewAsyncHookWithWriters starts the writer goroutine.
func NewAsyncHookWithWriters(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	h := &AsyncHook{
		writers: writers,
		lines:   make(chan []byte, bufferSize),
	}
	h.wg.Add(1)
	go h.run()
	return h
}

// Levels implements logrus.Hook.
func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook. Entries are formatted here because logrus reuses the
// entry buffer once Fire returns.
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	data, err := entry.Logger.Formatter.Format(entry)
	if err != nil {
		return err
	}
	line := make([]byte, len(data))
	copy(line, data)

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.write(line)
		return nil
	}
	select {
	case h.lines <- line:
	default:
	}
	return nil
}

func (h *AsyncHook) run() {
	defer h.wg.Done()
	for line := range h.lines {
		h.write(line)
	}
}

func (h *AsyncHook) write(line []byte) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "[LOGGER PANIC] %v\n", r)
		}
	}()
	for _, w := range h.writers {
		_, _ = w.Write(line)
	}
}

// Close drains pending entries. Later entries are written synchronously.
func (h *AsyncHook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	close(h.lines)
	h.mu.Unlock()

	h.wg.Wait()
	return nil
}
