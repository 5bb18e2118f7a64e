package maze

import (
	"fmt"
	"strings"
)

// Position is a grid cell: X is the column, Y the row.
type Position struct {
	X, Y int
}

// String provides a string representation of Position
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Add returns p shifted by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Manhattan returns |a.X-b.X| + |a.Y-b.Y|.
func Manhattan(a, b Position) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Action is one agent action.
type Action byte

const (
	Up    Action = 'U'
	Down  Action = 'D'
	Left  Action = 'L'
	Right Action = 'R'
	Shoot Action = 'S'
)

// Actions lists every action in canonical order.
var Actions = [...]Action{Up, Down, Left, Right, Shoot}

func (a Action) String() string { return string(a) }

// Offset returns the location delta of the action. Shoot does not move.
func (a Action) Offset() (dx, dy int) {
	switch a {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	case Right:
		return 1, 0
	}
	return 0, 0
}

// Valid reports whether a is one of the five known actions.
func (a Action) Valid() bool {
	switch a {
	case Up, Down, Left, Right, Shoot:
		return true
	}
	return false
}

// ParseAction parses a single action letter.
func ParseAction(s string) (Action, error) {
	if len(s) != 1 || !Action(s[0]).Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, s)
	}
	return Action(s[0]), nil
}

// ParseActions parses a compact action string such as "UUSRS".
// Whitespace and commas are ignored.
func ParseActions(s string) ([]Action, error) {
	out := make([]Action, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == ',' || c == '\t' || c == '\n' {
			continue
		}
		a := Action(c)
		if !a.Valid() {
			return nil, fmt.Errorf("%w: %q at offset %d", ErrUnknownAction, c, i)
		}
		out = append(out, a)
	}
	return out, nil
}

// FormatActions renders actions as a compact string.
func FormatActions(actions []Action) string {
	var b strings.Builder
	b.Grow(len(actions))
	for _, a := range actions {
		b.WriteByte(byte(a))
	}
	return b.String()
}
