// Package trace records search expansions as zstd-compressed JSON lines.
package trace

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Event kinds.
const (
	KindStart       = "start"
	KindVantage     = "vantage"
	KindExpand      = "expand"
	KindSolved      = "solved"
	KindExhausted   = "exhausted"
	KindUnreachable = "unreachable"
)

var ErrClosed = errors.New("trace: writer closed")

// Event is one trace line.
type Event struct {
	RunID     string `json:"run_id"`
	Step      int    `json:"step"`
	Kind      string `json:"kind"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Remaining int    `json:"remaining"`
	G         int    `json:"g,omitempty"`
	F         int    `json:"f,omitempty"`
}

// Writer is safe for concurrent use; runs are told apart by RunID.
type Writer struct {
	mu  sync.Mutex
	c   io.Closer
	enc *zstd.Encoder
	w   *bufio.Writer
}

// NewWriter compresses events into dst. Closing the Writer does not close dst.
func NewWriter(dst io.Writer) (*Writer, error) {
	enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		return nil, err
	}
	return &Writer{
		enc: enc,
		w:   bufio.NewWriterSize(enc, 64*1024),
	}, nil
}

// NewFileWriter creates dir if needed and opens <prefix>-<UTC time>.jsonl.zst in it.
// It returns the writer and the file path.
func NewFileWriter(dir, prefix string) (*Writer, string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("%s-%s.jsonl.zst", prefix, time.Now().UTC().Format("2006-01-02T15-04-05.000000000"))
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, "", err
	}
	w, err := NewWriter(f)
	if err != nil {
		_ = f.Close()
		return nil, "", err
	}
	w.c = f
	return w, path, nil
}

func (w *Writer) Write(ev Event) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return ErrClosed
	}
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := w.w.Write(b); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Flush pushes buffered events through the encoder.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return ErrClosed
	}
	if err := w.w.Flush(); err != nil {
		return err
	}
	return w.enc.Flush()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.w == nil {
		return nil
	}
	err1 := w.w.Flush()
	err2 := w.enc.Close()
	var err3 error
	if w.c != nil {
		err3 = w.c.Close()
	}
	w.w, w.enc, w.c = nil, nil, nil
	return errors.Join(err1, err2, err3)
}

// Read decodes every event of a compressed trace stream.
func Read(r io.Reader) ([]Event, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var out []Event
	jd := json.NewDecoder(dec)
	for {
		var ev Event
		if err := jd.Decode(&ev); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, fmt.Errorf("trace: event %d: %w", len(out), err)
		}
		out = append(out, ev)
	}
}

func ReadFile(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
