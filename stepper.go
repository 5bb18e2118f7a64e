package biathlon

import (
	"context"

	"github.com/pdrpinto/biathlon/internal"
	"github.com/pdrpinto/biathlon/maze"
)

// StepSnapshot exposes the per-iteration state of the search
type StepSnapshot struct {
	Current maze.Position
	// Remaining counts the targets still standing at Current.
	Remaining    int
	Vantage      maze.Position
	HasVantage   bool
	FrontierSize int
	Explored     int
	Done         bool
	Found        bool
	Actions      []maze.Action
	TotalCost    int
	StepIndex    int
}

// Stepper drives a search one expansion at a time, for viewers and debugging.
// It runs the same engine as Solve and produces the same result.
type Stepper struct {
	ctx    context.Context
	cancel context.CancelFunc
	e      *engine
	err    error

	stepCount int
}

// NewStepper prepares a search over m. The context bounds every later Step.
func NewStepper(parent context.Context, m *maze.Maze, options ...Option) (*Stepper, error) {
	if m == nil {
		return nil, ErrNilMaze
	}
	e, err := newEngine(m, buildOptions(options))
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(parent)
	return &Stepper{ctx: ctx, cancel: cancel, e: e}, nil
}

// Close stops the stepper; later calls to Step return the context error.
func (s *Stepper) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Result returns the search result once Done.
func (s *Stepper) Result() (Result, bool) {
	return s.e.result, s.e.done
}

// Step advances the search by one node expansion and returns a snapshot
func (s *Stepper) Step() (StepSnapshot, error) {
	if s.err != nil {
		return s.snapshot(), s.err
	}
	if !s.e.done {
		if err := s.ctx.Err(); err != nil {
			s.err = err
			return s.snapshot(), err
		}
		s.stepCount++
		if err := s.e.step(); err != nil {
			s.err = err
			return s.snapshot(), err
		}
	}
	return s.snapshot(), nil
}

func (s *Stepper) snapshot() StepSnapshot {
	snap := StepSnapshot{
		FrontierSize: s.e.openSet.Len(),
		Explored:     s.e.arena.Len(),
		Done:         s.e.done,
		Found:        s.e.result.Found,
		StepIndex:    s.stepCount,
	}
	if s.e.current != internal.NoParent {
		node := s.e.arena.Get(s.e.current)
		snap.Current = node.loc
		snap.Remaining = node.left.Len()
		if v, ok := s.e.vantages[node.left]; ok {
			snap.Vantage, snap.HasVantage = v.pos, v.ok
		}
	} else {
		snap.Current = s.e.maze.Start()
		snap.Remaining = s.e.maze.NumTargets()
	}
	if snap.Found {
		snap.Actions = append([]maze.Action(nil), s.e.result.Actions...)
		snap.TotalCost = s.e.result.TotalCost
	}
	return snap
}
