package biathlon

import (
	"context"
	"errors"
	"testing"

	"github.com/pdrpinto/biathlon/maze"
)

func TestStepper_MatchesSolve(t *testing.T) {
	m := mustMaze(t,
		"XXXXXX",
		"XTM.XX",
		"XXMX.X",
		"XX@X.X",
		"X.M.TX",
		"XXXXXX",
	)
	want, err := Solve(context.Background(), m)
	if err != nil || !want.Found {
		t.Fatalf("solve: %v %+v", err, want)
	}

	s, err := NewStepper(context.Background(), m)
	if err != nil {
		t.Fatalf("new stepper: %v", err)
	}
	defer s.Close()

	var snap StepSnapshot
	for i := 1; ; i++ {
		snap, err = s.Step()
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if snap.StepIndex != i {
			t.Fatalf("step index = %d, want %d", snap.StepIndex, i)
		}
		if snap.Done {
			break
		}
		if snap.Remaining == 0 {
			t.Fatalf("unexpected snapshot mid-search: %+v", snap)
		}
		if i > 10000 {
			t.Fatalf("stepper did not finish")
		}
	}
	if !snap.Found || snap.TotalCost != want.TotalCost || maze.FormatActions(snap.Actions) != maze.FormatActions(want.Actions) {
		t.Fatalf("stepper result %+v, solve result %+v", snap, want)
	}
	if res, done := s.Result(); !done || res.ExpandedNodes != want.ExpandedNodes {
		t.Fatalf("stepper Result() = %+v,%t", res, done)
	}

	// Stepping a finished search is a no-op.
	again, err := s.Step()
	if err != nil || !again.Done || again.StepIndex != snap.StepIndex {
		t.Fatalf("step after done: %+v %v", again, err)
	}
}

func TestStepper_Unsolvable(t *testing.T) {
	m := mustMaze(t,
		"XXXXXXX",
		"X@X...X",
		"XXX.T.X",
		"X.....X",
		"XXXXXXX",
	)
	s, err := NewStepper(context.Background(), m)
	if err != nil {
		t.Fatalf("new stepper: %v", err)
	}
	defer s.Close()
	snap, err := s.Step()
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if snap.Current != m.Start() || snap.Done {
		t.Fatalf("first step: %+v", snap)
	}
	snap, err = s.Step()
	if err != nil || !snap.Done || snap.Found || snap.Actions != nil {
		t.Fatalf("second step: %+v %v", snap, err)
	}
}

func TestStepper_Close(t *testing.T) {
	m := mustMaze(t, "XXXXXX", "XT...X", "X....X", "X@...X", "XXXXXX")
	s, err := NewStepper(context.Background(), m)
	if err != nil {
		t.Fatalf("new stepper: %v", err)
	}
	s.Close()
	if _, err := s.Step(); !errors.Is(err, context.Canceled) {
		t.Fatalf("step after close: %v", err)
	}
	if _, err := NewStepper(context.Background(), nil); !errors.Is(err, ErrNilMaze) {
		t.Fatalf("nil maze: %v", err)
	}
}
