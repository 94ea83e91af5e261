// Package history keeps the ordered, append-only log of commands issued in
// a shell session and persists it as a JSON array.
package history

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/Neev4n/vfs-shell/internal/clock"
	"github.com/Neev4n/vfs-shell/internal/config"
	"github.com/Neev4n/vfs-shell/internal/debug"
)

type Entry struct {
	Command   string `json:"command"`
	Timestamp string `json:"timestamp"`
}

type Log struct {
	fs         afero.Fs
	path       string
	timeFormat string
	flushEach  bool
	entries    []Entry
}

type Option func(*Log)

func WithTimeFormat(format string) Option {
	return func(l *Log) {
		if format != "" {
			l.timeFormat = format
		}
	}
}

// WithFlushEachCommand saves the log after every Record, so a crash loses
// nothing already recorded.
func WithFlushEachCommand(flush bool) Option {
	return func(l *Log) {
		l.flushEach = flush
	}
}

func New(fs afero.Fs, path string, opts ...Option) *Log {
	l := &Log{
		fs:         fs,
		path:       path,
		timeFormat: config.DefaultTimeFormat,
		entries:    []Entry{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Record appends command stamped with the current time.
func (l *Log) Record(command string) error {
	l.entries = append(l.entries, Entry{
		Command:   command,
		Timestamp: clock.Now().Format(l.timeFormat),
	})
	if l.flushEach {
		return l.Save()
	}
	return nil
}

// Entries returns a copy of the recorded entries in order.
func (l *Log) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Save overwrites the log file with every entry recorded so far.
func (l *Log) Save() error {
	data, err := json.Marshal(l.entries)
	if err != nil {
		return errors.Wrap(err, "encode history")
	}
	if err := afero.WriteFile(l.fs, l.path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write history %s", l.path)
	}
	debug.DPrintf(debug.HISTORY, "saved %d entries to %s", len(l.entries), l.path)
	return nil
}

// Load reads a log file previously written by Save.
func Load(fs afero.Fs, path string) ([]Entry, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "read history %s", path)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, errors.Wrapf(err, "decode history %s", path)
	}
	return entries, nil
}
