package puzzle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdrpinto/biathlon/maze"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestDecode_RejectsSchemaViolations(t *testing.T) {
	cases := map[string]string{
		"missing rows":  `{"name":"a"}`,
		"bad cell":      `{"name":"a","rows":["XXX","X@Q","XXX"]}`,
		"zero cost":     `{"name":"a","rows":["XXX","X@X","XXX"],"costs":{"move":0,"mud":3,"shoot":2}}`,
		"unknown field": `{"name":"a","rows":["XXX","X@X","XXX"],"seed":1}`,
		"not json":      `{"name":`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Decode([]byte(doc)); !errors.Is(err, ErrInvalidPuzzle) {
				t.Fatalf("err = %v, want ErrInvalidPuzzle", err)
			}
		})
	}
}

func TestLoad_JSONWithCosts(t *testing.T) {
	dir := t.TempDir()
	p, err := Load(writeFile(t, dir, "mud.json", `{
	  "name": "cheap mud",
	  "rows": ["XXXXX", "X@MTX", "XXXXX"],
	  "costs": {"move": 1, "mud": 1, "shoot": 5},
	  "expect": {"solvable": true, "cost": 5}
	}`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Name != "cheap mud" || p.Expect == nil || p.Expect.Cost != 5 {
		t.Fatalf("puzzle = %+v", p)
	}
	m, err := p.Maze(maze.DefaultCosts)
	if err != nil {
		t.Fatalf("maze: %v", err)
	}
	if m.Costs() != (maze.Costs{Move: 1, Mud: 1, Shoot: 5}) {
		t.Fatalf("costs = %+v", m.Costs())
	}
	if err := p.Check(true, 5); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := p.Check(true, 6); err == nil {
		t.Fatalf("wrong cost accepted")
	}
	if err := p.Check(false, 0); err == nil {
		t.Fatalf("wrong solvability accepted")
	}
}

func TestLoad_PlainText(t *testing.T) {
	dir := t.TempDir()
	p, err := Load(writeFile(t, dir, "small.txt", "# comment\n\nXXXX\nX@TX\nXXXX\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Name != "small" || len(p.Rows) != 3 || p.Expect != nil {
		t.Fatalf("puzzle = %+v", p)
	}
	if err := p.Check(false, 0); err != nil {
		t.Fatalf("no expectation must always pass: %v", err)
	}
	if _, err := Load(writeFile(t, dir, "empty.txt", "# nothing\n")); !errors.Is(err, ErrInvalidPuzzle) {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadDir_Repository(t *testing.T) {
	puzzles, err := LoadDir(filepath.Join("..", "..", "testdata"))
	if err != nil {
		t.Fatalf("load dir: %v", err)
	}
	if len(puzzles) < 10 {
		t.Fatalf("got %d puzzles", len(puzzles))
	}
	for i := 1; i < len(puzzles); i++ {
		if filepath.Base(puzzles[i-1].Path) > filepath.Base(puzzles[i].Path) {
			t.Fatalf("puzzles not sorted: %s before %s", puzzles[i-1].Path, puzzles[i].Path)
		}
	}
	for _, p := range puzzles {
		if _, err := p.Maze(maze.DefaultCosts); err != nil {
			t.Errorf("%s: %v", p.Path, err)
		}
	}
}
