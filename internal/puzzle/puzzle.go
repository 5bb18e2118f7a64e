// Package puzzle loads biathlon mazes from disk.
//
// A .json file is a puzzle document validated against puzzle.schema.json;
// any other file is read as plain maze rows. Lines starting with '#' and
// blank lines are ignored in plain files.
package puzzle

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/pdrpinto/biathlon/maze"
)

//go:embed puzzle.schema.json
var schemaJSON string

var ErrInvalidPuzzle = errors.New("puzzle: invalid")

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("puzzle.schema.json", schemaJSON)
})

// Puzzle is one maze plus optional cost overrides and expected outcome.
type Puzzle struct {
	Name   string       `json:"name"`
	Rows   []string     `json:"rows"`
	Costs  *maze.Costs  `json:"costs,omitempty"`
	Expect *Expectation `json:"expect,omitempty"`

	Path string `json:"-"`
}

// Expectation is what a correct solver must report.
type Expectation struct {
	Solvable bool `json:"solvable"`
	Cost     int  `json:"cost,omitempty"`
}

// Maze parses the puzzle rows. The puzzle's own costs win over defaults.
func (p Puzzle) Maze(defaults maze.Costs) (*maze.Maze, error) {
	costs := defaults
	if p.Costs != nil {
		costs = *p.Costs
	}
	m, err := maze.Parse(p.Rows, maze.WithCosts(costs))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name, err)
	}
	return m, nil
}

// Check compares a solver outcome with the expectation, if any.
func (p Puzzle) Check(found bool, cost int) error {
	if p.Expect == nil {
		return nil
	}
	if found != p.Expect.Solvable {
		return fmt.Errorf("%s: solvable=%t, want %t", p.Name, found, p.Expect.Solvable)
	}
	if found && cost != p.Expect.Cost {
		return fmt.Errorf("%s: cost=%d, want %d", p.Name, cost, p.Expect.Cost)
	}
	return nil
}

// Decode validates and decodes a JSON puzzle document.
func Decode(data []byte) (Puzzle, error) {
	schema, err := compiledSchema()
	if err != nil {
		return Puzzle{}, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return Puzzle{}, fmt.Errorf("%w: %v", ErrInvalidPuzzle, err)
	}
	if err := schema.Validate(doc); err != nil {
		return Puzzle{}, fmt.Errorf("%w: %v", ErrInvalidPuzzle, err)
	}
	var p Puzzle
	if err := json.Unmarshal(data, &p); err != nil {
		return Puzzle{}, fmt.Errorf("%w: %v", ErrInvalidPuzzle, err)
	}
	return p, nil
}

// Load reads one puzzle file.
func Load(path string) (Puzzle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Puzzle{}, err
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		p, err := Decode(data)
		if err != nil {
			return Puzzle{}, fmt.Errorf("%s: %w", path, err)
		}
		p.Path = path
		return p, nil
	}

	p := Puzzle{
		Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Path: path,
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p.Rows = append(p.Rows, line)
	}
	if len(p.Rows) == 0 {
		return Puzzle{}, fmt.Errorf("%w: %s: no rows", ErrInvalidPuzzle, path)
	}
	return p, nil
}

// LoadDir loads every .json, .txt and .maze file of dir, sorted by file name.
func LoadDir(dir string) ([]Puzzle, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(ents))
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".json", ".txt", ".maze":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	out := make([]Puzzle, 0, len(names))
	for _, name := range names {
		p, err := Load(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}
