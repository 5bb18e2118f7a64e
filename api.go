package biathlon

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pdrpinto/biathlon/internal"
	"github.com/pdrpinto/biathlon/maze"
	"github.com/pdrpinto/biathlon/trace"
)

var ErrNilMaze = errors.New("biathlon: nil maze")

// contextCheckInterval is how many expansions run between context checks.
const contextCheckInterval = 1024

// Tracer receives search events. *trace.Writer implements it.
type Tracer interface {
	Write(ev trace.Event) error
}

// Result contains the outcome of a search.
// Found is false when no sequence of actions destroys every target.
type Result struct {
	Actions       []maze.Action
	TotalCost     int
	ExpandedNodes int
	Found         bool
}

// Options defines parameters for the search.
type Options struct {
	NumberOfWorkers int
	Logger          *log.Logger
	Tracer          Tracer
}

// Option is a function that modifies Options.
type Option func(*Options)

// WithWorkers sets how many mazes SolveAll solves at the same time.
// A single search always runs on the calling goroutine.
func WithWorkers(numberOfWorkers int) Option {
	return func(options *Options) { options.NumberOfWorkers = numberOfWorkers }
}

// WithLogger sets the logger for debug output. The default discards.
func WithLogger(logger *log.Logger) Option {
	return func(options *Options) { options.Logger = logger }
}

// WithTracer records every expansion.
func WithTracer(tracer Tracer) Option {
	return func(options *Options) { options.Tracer = tracer }
}

func buildOptions(options []Option) Options {
	searchOptions := Options{
		NumberOfWorkers: runtime.NumCPU(),
	}
	for _, option := range options {
		option(&searchOptions)
	}
	if searchOptions.Logger == nil {
		searchOptions.Logger = log.New(io.Discard)
	}
	if searchOptions.NumberOfWorkers < 1 {
		searchOptions.NumberOfWorkers = 1
	}
	return searchOptions
}

// Solve searches for the cheapest action sequence that destroys every
// target of m. A maze without a solution yields Found == false and a nil
// error; errors are reserved for a nil maze, a cancelled context and trace
// write failures.
func Solve(contextObject context.Context, m *maze.Maze, options ...Option) (Result, error) {
	if m == nil {
		return Result{}, ErrNilMaze
	}
	e, err := newEngine(m, buildOptions(options))
	if err != nil {
		return Result{}, err
	}
	for !e.done {
		if e.expanded%contextCheckInterval == 0 {
			if err := contextObject.Err(); err != nil {
				return Result{ExpandedNodes: e.expanded}, err
			}
		}
		if err := e.step(); err != nil {
			return Result{ExpandedNodes: e.expanded}, err
		}
	}
	return e.result, nil
}

// searchNode is immutable once stored in the arena.
type searchNode struct {
	loc    maze.Position
	left   maze.TargetSet
	action maze.Action
	g      int
}

type stateKey struct {
	loc  maze.Position
	left maze.TargetSet
}

type vantage struct {
	pos maze.Position
	ok  bool
}

// engine owns one search: the arena, the frontier and the best known cost
// per (location, remaining targets) state.
type engine struct {
	maze    *maze.Maze
	costs   maze.Costs
	log     *log.Logger
	tracer  Tracer
	runID   string
	arena   internal.Arena[searchNode]
	openSet PriorityQueue
	bestG   map[stateKey]int
	// vantages is keyed by remaining targets; the entry is computed from the
	// location where that target set first appeared.
	vantages map[maze.TargetSet]vantage
	seq      uint64

	expanded int
	current  int32
	done     bool
	result   Result
}

func newEngine(m *maze.Maze, searchOptions Options) (*engine, error) {
	e := &engine{
		maze:     m,
		costs:    m.Costs(),
		log:      searchOptions.Logger,
		tracer:   searchOptions.Tracer,
		bestG:    make(map[stateKey]int),
		vantages: make(map[maze.TargetSet]vantage),
		current:  internal.NoParent,
	}
	if e.tracer != nil {
		e.runID = uuid.NewString()
	}
	heap.Init(&e.openSet)

	start := m.Start()
	all := m.AllTargets()
	if err := e.emit(trace.KindStart, start, all, 0, 0); err != nil {
		return nil, err
	}

	if all.Empty() {
		e.log.Debug("nothing to shoot")
		e.done = true
		e.result = Result{Actions: []maze.Action{}, Found: true}
		return e, e.emit(trace.KindSolved, start, all, 0, 0)
	}

	for i := 0; i < m.NumTargets(); i++ {
		if t := m.Target(i); walledIn(m, t) {
			e.log.Debug("target walled in, no solution", "target", t)
			e.done = true
			return e, e.emit(trace.KindUnreachable, t, all, 0, 0)
		}
	}

	root := e.arena.Add(searchNode{loc: start, left: all}, internal.NoParent)
	e.bestG[stateKey{start, all}] = 0
	if err := e.push(root, 0, start, all); err != nil {
		return nil, err
	}
	return e, nil
}

// walledIn reports whether the target at t has walls on all four sides. The
// probe asks the maze for the target cell's own transitions with walls as
// the only obstacles: without a move out, no line of fire can reach it.
func walledIn(m *maze.Maze, t maze.Position) bool {
	for _, tr := range m.Transitions(t, maze.TargetSet{}) {
		if tr.Action != maze.Shoot {
			return false
		}
	}
	return true
}

// heuristic never overestimates: every remaining target still needs the
// agent on its row or column, and at least one more shot is needed.
func (e *engine) heuristic(loc maze.Position, left maze.TargetSet) int {
	if left.Empty() {
		return 0
	}
	farthest := 0
	left.Each(func(i int) {
		t := e.maze.Target(i)
		d := min(abs(t.X-loc.X), abs(t.Y-loc.Y))
		if d > farthest {
			farthest = d
		}
	})
	return e.costs.Shoot + e.costs.MinStep()*farthest
}

func (e *engine) vantageFor(left maze.TargetSet, from maze.Position) (vantage, error) {
	if v, ok := e.vantages[left]; ok {
		return v, nil
	}
	pos, ok := BestVantage(e.maze, left, from)
	v := vantage{pos: pos, ok: ok}
	e.vantages[left] = v
	e.log.Debug("vantage", "remaining", left.Len(), "from", from, "vantage", pos, "ok", ok)
	return v, e.emit(trace.KindVantage, pos, left, 0, 0)
}

func (e *engine) push(node int32, g int, loc maze.Position, left maze.TargetSet) error {
	v, err := e.vantageFor(left, loc)
	if err != nil {
		return err
	}
	tie := 0
	if v.ok {
		tie = maze.Manhattan(loc, v.pos)
	}
	e.seq++
	heap.Push(&e.openSet, &PriorityQueueItem{
		Node:   node,
		GScore: g,
		FCost:  g + e.heuristic(loc, left),
		Tie:    tie,
		Seq:    e.seq,
	})
	return nil
}

// step expands one frontier node, skipping stale entries.
func (e *engine) step() error {
	for !e.done {
		if e.openSet.Len() == 0 {
			e.done = true
			e.result = Result{ExpandedNodes: e.expanded}
			e.log.Debug("frontier exhausted, no solution", "expanded", e.expanded, "nodes", e.arena.Len())
			return e.emit(trace.KindExhausted, e.maze.Start(), e.maze.AllTargets(), 0, 0)
		}

		currentItem := heap.Pop(&e.openSet).(*PriorityQueueItem)
		node := e.arena.Get(currentItem.Node)
		if best := e.bestG[stateKey{node.loc, node.left}]; node.g > best {
			continue
		}
		e.expanded++
		e.current = currentItem.Node
		if err := e.emit(trace.KindExpand, node.loc, node.left, node.g, currentItem.FCost); err != nil {
			return err
		}

		// Goal check
		if node.left.Empty() {
			e.done = true
			e.result = Result{
				Actions:       e.actions(currentItem.Node),
				TotalCost:     node.g,
				ExpandedNodes: e.expanded,
				Found:         true,
			}
			e.log.Debug("solved", "cost", node.g, "expanded", e.expanded, "nodes", e.arena.Len())
			return e.emit(trace.KindSolved, node.loc, node.left, node.g, node.g)
		}

		for _, tr := range e.maze.Transitions(node.loc, node.left) {
			left := node.left
			if tr.Action == maze.Shoot {
				// A shot that hits nothing leads back to the same state.
				if tr.Hit.Empty() {
					continue
				}
				left = left.Minus(tr.Hit)
			}
			g := node.g + tr.Cost
			key := stateKey{tr.Next, left}
			if best, seen := e.bestG[key]; seen && g >= best {
				continue
			}
			e.bestG[key] = g
			child := e.arena.Add(searchNode{loc: tr.Next, left: left, action: tr.Action, g: g}, currentItem.Node)
			if err := e.push(child, g, tr.Next, left); err != nil {
				return err
			}
		}
		return nil
	}
	return nil
}

func (e *engine) actions(leaf int32) []maze.Action {
	path := e.arena.ReconstructPath(leaf)
	out := make([]maze.Action, len(path))
	for i, n := range path {
		out[i] = n.action
	}
	return out
}

func (e *engine) emit(kind string, at maze.Position, left maze.TargetSet, g, f int) error {
	if e.tracer == nil {
		return nil
	}
	err := e.tracer.Write(trace.Event{
		RunID:     e.runID,
		Step:      e.expanded,
		Kind:      kind,
		X:         at.X,
		Y:         at.Y,
		Remaining: left.Len(),
		G:         g,
		F:         f,
	})
	if err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
