// Package maze models the biathlon grid: walls, mud, targets and the agent
// start, plus the transition, cost and line-of-sight rules the solver and
// the solution checker share.
package maze

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// Cell alphabet.
const (
	WallCell   = 'X'
	TargetCell = 'T'
	FloorCell  = '.'
	MudCell    = 'M'
	StartCell  = '@'
)

var (
	ErrEmptyMaze      = errors.New("maze: empty maze")
	ErrRaggedRows     = errors.New("maze: rows differ in length")
	ErrUnknownCell    = errors.New("maze: unknown cell")
	ErrNoStart        = errors.New("maze: no start cell")
	ErrMultipleStarts = errors.New("maze: more than one start cell")
	ErrOpenBorder     = errors.New("maze: border is not walled")
	ErrTooManyTargets = errors.New("maze: too many targets")
	ErrInvalidCosts   = errors.New("maze: invalid costs")
	ErrUnknownAction  = errors.New("maze: unknown action")
)

// Costs are the per-transition costs. Every field must be at least 1.
type Costs struct {
	Move  int `json:"move" yaml:"move"`
	Mud   int `json:"mud" yaml:"mud"`
	Shoot int `json:"shoot" yaml:"shoot"`
}

// DefaultCosts: plain step 1, stepping onto mud 3, shooting 2.
var DefaultCosts = Costs{Move: 1, Mud: 3, Shoot: 2}

func (c Costs) Validate() error {
	if c.Move < 1 || c.Mud < 1 || c.Shoot < 1 {
		return fmt.Errorf("%w: move=%d mud=%d shoot=%d (all must be >= 1)", ErrInvalidCosts, c.Move, c.Mud, c.Shoot)
	}
	return nil
}

// MinStep is the cheapest cost of any move.
func (c Costs) MinStep() int {
	if c.Mud < c.Move {
		return c.Mud
	}
	return c.Move
}

type options struct {
	costs Costs
}

// Option configures Parse.
type Option func(*options)

// WithCosts overrides DefaultCosts.
func WithCosts(c Costs) Option {
	return func(o *options) { o.costs = c }
}

// Transition describes the outcome of one action.
type Transition struct {
	Action Action
	Next   Position
	Cost   int
	// Hit is non-empty only for Shoot.
	Hit TargetSet
}

// Verdict is the result of replaying a candidate solution.
type Verdict struct {
	IsSolution bool
	Cost       int
}

// Maze is immutable once parsed.
type Maze struct {
	width, height int
	walls         mapset.Set[Position]
	mud           mapset.Set[Position]
	targets       []Position
	targetIndex   map[Position]int
	start         Position
	costs         Costs
}

// ParseString parses a maze given as newline separated rows.
// Blank lines and surrounding spaces are ignored.
func ParseString(s string, opts ...Option) (*Maze, error) {
	var rows []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rows = append(rows, line)
	}
	return Parse(rows, opts...)
}

// Parse builds a Maze from its rows, top to bottom.
func Parse(rows []string, opts ...Option) (*Maze, error) {
	o := options{costs: DefaultCosts}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.costs.Validate(); err != nil {
		return nil, err
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyMaze
	}

	m := &Maze{
		width:       len(rows[0]),
		height:      len(rows),
		walls:       mapset.New[Position](),
		mud:         mapset.New[Position](),
		targetIndex: make(map[Position]int),
		costs:       o.costs,
	}
	starts := 0
	for y, row := range rows {
		if len(row) != m.width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedRows, y, len(row), m.width)
		}
		for x := 0; x < len(row); x++ {
			p := Position{X: x, Y: y}
			c := row[x]
			border := x == 0 || y == 0 || x == m.width-1 || y == m.height-1
			if border && c != WallCell {
				return nil, fmt.Errorf("%w: %q at %v", ErrOpenBorder, c, p)
			}
			switch c {
			case WallCell:
				m.walls.Put(p)
			case MudCell:
				m.mud.Put(p)
			case TargetCell:
				if len(m.targets) == MaxTargets {
					return nil, fmt.Errorf("%w: more than %d", ErrTooManyTargets, MaxTargets)
				}
				m.targetIndex[p] = len(m.targets)
				m.targets = append(m.targets, p)
			case StartCell:
				starts++
				if starts > 1 {
					return nil, fmt.Errorf("%w: second start at %v", ErrMultipleStarts, p)
				}
				m.start = p
			case FloorCell:
			default:
				return nil, fmt.Errorf("%w: %q at %v", ErrUnknownCell, c, p)
			}
		}
	}
	if starts == 0 {
		return nil, ErrNoStart
	}
	return m, nil
}

func (m *Maze) Width() int      { return m.width }
func (m *Maze) Height() int     { return m.height }
func (m *Maze) Start() Position { return m.start }
func (m *Maze) Costs() Costs    { return m.costs }

// NumTargets returns the size of the initial target set.
func (m *Maze) NumTargets() int { return len(m.targets) }

// Target returns the position of target i.
func (m *Maze) Target(i int) Position { return m.targets[i] }

// Targets returns a copy of the initial targets, indexed as in TargetSet.
func (m *Maze) Targets() []Position {
	return append([]Position(nil), m.targets...)
}

// TargetIndex returns the index of the target at p.
func (m *Maze) TargetIndex(p Position) (int, bool) {
	i, ok := m.targetIndex[p]
	return i, ok
}

// AllTargets returns the full initial target set.
func (m *Maze) AllTargets() TargetSet {
	var s TargetSet
	for i := range m.targets {
		s = s.With(i)
	}
	return s
}

// InBounds reports whether p lies inside the grid.
func (m *Maze) InBounds(p Position) bool {
	return p.X >= 0 && p.X < m.width && p.Y >= 0 && p.Y < m.height
}

// IsWall reports whether p is a wall. Cells outside the grid count as walls.
func (m *Maze) IsWall(p Position) bool {
	return !m.InBounds(p) || m.walls.Has(p)
}

func (m *Maze) IsMud(p Position) bool { return m.mud.Has(p) }

// IsTarget reports whether p holds a target that is still in left.
func (m *Maze) IsTarget(p Position, left TargetSet) bool {
	i, ok := m.targetIndex[p]
	return ok && left.Has(i)
}

// TransitionCost returns the cost of taking action and ending up on next.
// It depends on nothing else.
func (m *Maze) TransitionCost(action Action, next Position) int {
	if action == Shoot {
		return m.costs.Shoot
	}
	if m.mud.Has(next) {
		return m.costs.Mud
	}
	return m.costs.Move
}

// VisibleTargets returns the targets of left a shot from `from` would hit.
// A shot travels along all four cardinal rays, passes through targets and
// stops at the first wall.
func (m *Maze) VisibleTargets(from Position, left TargetSet) TargetSet {
	var hit TargetSet
	if left.Empty() || m.IsWall(from) {
		return hit
	}
	for _, a := range Actions[:4] {
		dx, dy := a.Offset()
		for p := from.Add(dx, dy); !m.IsWall(p); p = p.Add(dx, dy) {
			if i, ok := m.targetIndex[p]; ok && left.Has(i) {
				hit = hit.With(i)
			}
		}
	}
	return hit
}

// Transitions lists the legal actions from loc in canonical action order.
// Moves may not enter walls or targets still in left; Shoot is legal from
// any open cell.
func (m *Maze) Transitions(loc Position, left TargetSet) []Transition {
	if m.IsWall(loc) {
		return nil
	}
	out := make([]Transition, 0, len(Actions))
	for _, a := range Actions {
		dx, dy := a.Offset()
		next := loc.Add(dx, dy)
		if m.IsWall(next) || m.IsTarget(next, left) {
			continue
		}
		t := Transition{Action: a, Next: next, Cost: m.TransitionCost(a, next)}
		if a == Shoot {
			t.Hit = m.VisibleTargets(next, left)
		}
		out = append(out, t)
	}
	return out
}

// TestSolution replays actions from the start. A move into a wall or into
// a standing target fails with cost -1; otherwise the accumulated cost is
// reported and IsSolution tells whether every target was destroyed.
func (m *Maze) TestSolution(actions []Action) Verdict {
	fail := Verdict{IsSolution: false, Cost: -1}
	if actions == nil {
		return fail
	}
	left := m.AllTargets()
	loc := m.start
	cost := 0
	for _, a := range actions {
		if !a.Valid() {
			return fail
		}
		dx, dy := a.Offset()
		loc = loc.Add(dx, dy)
		if m.IsWall(loc) || m.IsTarget(loc, left) {
			return fail
		}
		if a == Shoot {
			left = left.Minus(m.VisibleTargets(loc, left))
		}
		cost += m.TransitionCost(a, loc)
	}
	return Verdict{IsSolution: left.Empty(), Cost: cost}
}

// String renders the maze in its cell alphabet.
func (m *Maze) String() string {
	var b strings.Builder
	b.Grow((m.width + 1) * m.height)
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			p := Position{X: x, Y: y}
			switch {
			case m.walls.Has(p):
				b.WriteByte(WallCell)
			case m.mud.Has(p):
				b.WriteByte(MudCell)
			case p == m.start:
				b.WriteByte(StartCell)
			default:
				if _, ok := m.targetIndex[p]; ok {
					b.WriteByte(TargetCell)
				} else {
					b.WriteByte(FloorCell)
				}
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
