package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// AsyncHook writes formatted entries on a background goroutine so slow writers never block
// a request. Entries are formatted in Fire, while logrus still owns them; only the bytes are
// queued. Lines are dropped when the buffer is full.
type AsyncHook struct {
	writers []io.Writer
	lines   chan []byte
	wg      sync.WaitGroup
	mu      sync.RWMutex
	closed  bool
}

// NewAsyncHookWithWriters starts the writer goroutine. bufferSize <= 0 means 1000.
func NewAsyncHookWithWriters(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	h := &AsyncHook{
		writers: writers,
		lines:   make(chan []byte, bufferSize),
	}
	h.wg.Add(1)
	go h.process()
	return h
}

// Levels implements logrus.Hook.
func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook.
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	if isFiltered(entry) {
		return nil
	}

	data, err := format(entry)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.write(data)
		return nil
	}

	select {
	case h.lines <- data:
	default:
	}
	return nil
}

func (h *AsyncHook) process() {
	defer h.wg.Done()
	for data := range h.lines {
		h.write(data)
	}
}

func (h *AsyncHook) write(data []byte) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "[LOGGER PANIC] recovered: %v\n", r)
			debug.PrintStack()
		}
	}()

	for _, w := range h.writers {
		_, _ = w.Write(data)
	}
}

// Close flushes queued entries and stops the writer goroutine.
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

// format renders entry into a fresh slice. Hooks run before logrus attaches its pooled
// buffer, so the formatter allocates and the result is not shared with logrus.
func format(entry *logrus.Entry) ([]byte, error) {
	if entry.Logger != nil && entry.Logger.Formatter != nil {
		data, err := entry.Logger.Formatter.Format(entry)
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), data...), nil
	}
	line, err := entry.String()
	return []byte(line), err
}

const filteredKey = "_filtered"

func isFiltered(entry *logrus.Entry) bool {
	v, ok := entry.Data[filteredKey].(bool)
	return ok && v
}

// FilterHook marks entries whose "module" field is not in the allow list.
// Entries without a module field always pass.
type FilterHook struct {
	allowed map[string]bool
}

// NewFilterHook parses a comma separated module list. Empty or "*" allows everything.
func NewFilterHook(modules string) *FilterHook {
	allowed := make(map[string]bool)
	for _, m := range strings.Split(modules, ",") {
		m = strings.TrimSpace(strings.ToLower(m))
		if m == "*" {
			return &FilterHook{}
		}
		if m != "" {
			allowed[m] = true
		}
	}
	return &FilterHook{allowed: allowed}
}

// Levels implements logrus.Hook.
func (f *FilterHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire implements logrus.Hook. Warnings and errors are never filtered.
func (f *FilterHook) Fire(entry *logrus.Entry) error {
	if len(f.allowed) == 0 || entry.Level <= logrus.WarnLevel {
		return nil
	}
	module, ok := entry.Data["module"].(string)
	if !ok {
		return nil
	}
	if !f.allowed[strings.ToLower(module)] {
		entry.Data[filteredKey] = true
	}
	return nil
}
