// Package runlog writes compressed JSONL records of completed runs and
// in-run effect events for offline analysis. Files rotate hourly.
package runlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

type jsonlZstdWriter struct {
	baseDir string
	prefix  string

	mu      sync.Mutex
	curHour string
	f       *os.File
	enc     *zstd.Encoder
	w       *bufio.Writer
}

func newJSONLZstdWriter(baseDir, prefix string) *jsonlZstdWriter {
	return &jsonlZstdWriter{
		baseDir: baseDir,
		prefix:  prefix,
	}
}

func (w *jsonlZstdWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *jsonlZstdWriter) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	hour := time.Now().UTC().Format("2006-01-02-15")
	if hour != w.curHour {
		if err := w.rotateLocked(hour); err != nil {
			return err
		}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	if err := w.w.WriteByte('\n'); err != nil {
		return err
	}
	return w.w.Flush()
}

func (w *jsonlZstdWriter) rotateLocked(hour string) error {
	if err := w.closeLocked(); err != nil {
		return err
	}
	path := filepath.Join(w.baseDir, fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	w.f = f
	w.enc = enc
	w.w = bufio.NewWriterSize(enc, 64*1024)
	w.curHour = hour
	return nil
}

func (w *jsonlZstdWriter) closeLocked() error {
	var err1 error
	if w.w != nil {
		_ = w.w.Flush()
	}
	if w.enc != nil {
		err1 = w.enc.Close()
		w.enc = nil
	}
	if w.f != nil {
		_ = w.f.Close()
		w.f = nil
	}
	w.w = nil
	return err1
}

// RunRecord summarizes one completed run.
type RunRecord struct {
	Session    string `json:"session"`
	Player     string `json:"player"`
	Score      int    `json:"score"`
	DurationMs int64  `json:"duration_ms"`
	Ticks      uint64 `json:"ticks"`
	GridSize   int    `json:"grid_size"` // final board side
	EndedAt    string `json:"ended_at"`  // RFC3339
}

// EventRecord is one eat or collision effect.
type EventRecord struct {
	Session string `json:"session"`
	Kind    string `json:"kind"`
	Cell    [2]int `json:"cell"`
	Tick    uint64 `json:"tick"`
	At      string `json:"at"` // RFC3339
}

// RunLogger writes one JSONL entry per completed run (compressed).
type RunLogger struct{ w *jsonlZstdWriter }

func NewRunLogger(dataDir string) *RunLogger {
	return &RunLogger{w: newJSONLZstdWriter(filepath.Join(dataDir, "runs"), "runs")}
}

func (l *RunLogger) WriteRun(v RunRecord) error {
	if l == nil {
		return nil
	}
	return l.w.Write(v)
}

func (l *RunLogger) Close() error {
	if l == nil {
		return nil
	}
	return l.w.Close()
}

// EventLogger writes eat/collision JSONL entries (compressed).
type EventLogger struct{ w *jsonlZstdWriter }

func NewEventLogger(dataDir string) *EventLogger {
	return &EventLogger{w: newJSONLZstdWriter(filepath.Join(dataDir, "events"), "events")}
}

func (l *EventLogger) WriteEvent(v EventRecord) error {
	if l == nil {
		return nil
	}
	return l.w.Write(v)
}

func (l *EventLogger) Close() error {
	if l == nil {
		return nil
	}
	return l.w.Close()
}
