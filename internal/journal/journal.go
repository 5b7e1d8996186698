// Package journal writes an append-only trail of completed extraction
// results, one JSON object per line. It complements the extraction log
// store: the store tracks attempt state, the journal is the flat audit
// record operators grep through.
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/core"
	"github.com/mdMaikon/Mesa-Premium-sub001/internal/redact"
)

// Entry is one journaled extraction outcome. The result inside has already
// passed through the redactor before it reaches the journal.
type Entry struct {
	Time      time.Time             `json:"time"`
	ProcessID string                `json:"process_id"`
	UserLogin string                `json:"user_login"`
	Result    core.ExtractionResult `json:"result"`
}

type Journal interface {
	Record(entry Entry) error
	Close() error
}

// File appends entries to a JSONL file.
type File struct {
	mu      sync.Mutex
	file    *os.File
	encoder *json.Encoder
}

var _ Journal = (*File)(nil)

func NewFile(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening journal file: %w", err)
	}
	return &File{file: f, encoder: json.NewEncoder(f)}, nil
}

func (f *File) Record(entry Entry) error {
	entry.UserLogin = redact.MaskUsername(entry.UserLogin)
	entry.Result.UserLogin = redact.MaskUsername(entry.Result.UserLogin)
	entry.Result.Message = redact.Sanitize(entry.Result.Message)
	entry.Result.ErrorDetails = redact.Sanitize(entry.Result.ErrorDetails)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.encoder.Encode(entry); err != nil {
		return fmt.Errorf("writing journal entry: %w", err)
	}
	return nil
}

func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file.Close()
}

// Noop discards entries; used when no journal path is configured.
type Noop struct{}

var _ Journal = (*Noop)(nil)

func NewNoop() *Noop { return &Noop{} }

func (*Noop) Record(Entry) error { return nil }
func (*Noop) Close() error       { return nil }
