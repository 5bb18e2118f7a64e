package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdrpinto/biathlon/trace"
)

func TestRun_Testdata(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-workers", "3", "../../testdata"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d\nstdout:\n%s\nstderr:\n%s", code, stdout.String(), stderr.String())
	}
	out := stdout.String()
	for _, want := range []string{
		"t0_corner_shot\t2\t",
		"t5_mud_corridors\t14\t",
		"n0_walled_in\tunsolvable",
		"adjacent_targets\t2\tS",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
}

func TestRun_ExpectationMismatch(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "wrong.json")
	body := `{"name":"wrong","rows":["XXXXXX","XT...X","X....X","X@...X","XXXXXX"],"expect":{"solvable":true,"cost":3}}`
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), []string{p}, &stdout, &stderr); code != 1 {
		t.Fatalf("exit code %d, want 1\n%s", code, stderr.String())
	}
	if code := run(context.Background(), []string{"-verify=false", p}, &stdout, &stderr); code != 0 {
		t.Fatalf("exit code %d without verify, want 0\n%s", code, stderr.String())
	}
}

func TestRun_Trace(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-trace", dir, "../../testdata/t0_corner_shot.json"}, &stdout, &stderr)
	if code != 0 {
		t.Fatalf("exit code %d\n%s", code, stderr.String())
	}
	files, err := filepath.Glob(filepath.Join(dir, "biathlon-*.jsonl.zst"))
	if err != nil || len(files) != 1 {
		t.Fatalf("trace files = %v, %v", files, err)
	}
	events, err := trace.ReadFile(files[0])
	if err != nil {
		t.Fatalf("read trace: %v", err)
	}
	if len(events) == 0 || events[0].Kind != trace.KindStart || events[len(events)-1].Kind != trace.KindSolved {
		t.Fatalf("events = %+v", events)
	}
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run(context.Background(), nil, &stdout, &stderr); code != 2 {
		t.Fatalf("no args: exit code %d, want 2", code)
	}
	if code := run(context.Background(), []string{"-workers", "x", "a"}, &stdout, &stderr); code != 2 {
		t.Fatalf("bad flag: exit code %d, want 2", code)
	}
	if code := run(context.Background(), []string{"does-not-exist"}, &stdout, &stderr); code != 1 {
		t.Fatalf("missing path: exit code %d, want 1", code)
	}
}
