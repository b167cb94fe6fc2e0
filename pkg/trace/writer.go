// Package trace implements the append-only decision log: one JSON record
// per pipeline decision, plus a streaming stats reader. Records are
// write-once; the read path never mutates history.
package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cardpulse/card-bot/pkg/types"
)

// Logger appends decision records to a newline-delimited JSON file.
// Safe for concurrent use.
type Logger struct {
	mu sync.Mutex

	path string
	file *os.File
	w    *bufio.Writer
}

// Open opens (or creates) the trace log at path for appending.
func Open(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening trace log: %w", err)
	}
	return &Logger{
		path: path,
		file: f,
		w:    bufio.NewWriter(f),
	}, nil
}

// Record appends one decision. Missing ID and timestamp are filled in;
// everything else is written exactly as given.
func (l *Logger) Record(t *types.DecisionTrace) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now().UTC()
	}

	line, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("marshaling trace record: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.w.Write(line); err != nil {
		return fmt.Errorf("appending trace record: %w", err)
	}
	if err := l.w.WriteByte('\n'); err != nil {
		return fmt.Errorf("appending trace record: %w", err)
	}
	return l.w.Flush()
}

// Close flushes and closes the log.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.w.Flush(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}
