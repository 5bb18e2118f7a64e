package trace

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestWriter_ConcurrentRuns(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	var wg sync.WaitGroup
	for _, run := range []string{"a", "b", "c"} {
		wg.Add(1)
		go func(run string) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				if err := w.Write(Event{RunID: run, Step: i, Kind: KindExpand, X: i, Y: 1, Remaining: 2}); err != nil {
					t.Errorf("write: %v", err)
					return
				}
			}
		}(run)
	}
	wg.Wait()
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Write(Event{}); !errors.Is(err, ErrClosed) {
		t.Fatalf("write after close: %v", err)
	}

	events, err := Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(events) != 300 {
		t.Fatalf("got %d events, want 300", len(events))
	}
	// Each run keeps its own step order.
	last := map[string]int{"a": -1, "b": -1, "c": -1}
	for _, ev := range events {
		if ev.Step != last[ev.RunID]+1 {
			t.Fatalf("run %s: step %d after %d", ev.RunID, ev.Step, last[ev.RunID])
		}
		last[ev.RunID] = ev.Step
	}
}

func TestNewFileWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	w, path, err := NewFileWriter(dir, "solve")
	if err != nil {
		t.Fatalf("new file writer: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(path), "solve-") || !strings.HasSuffix(path, ".jsonl.zst") {
		t.Fatalf("unexpected path %s", path)
	}
	if err := w.Write(Event{RunID: "r", Kind: KindSolved, G: 7, F: 7}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	events, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if len(events) != 1 || events[0].Kind != KindSolved || events[0].G != 7 {
		t.Fatalf("events = %+v", events)
	}
}
