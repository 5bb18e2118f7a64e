package biathlon

import (
	"slices"

	"github.com/pdrpinto/biathlon/maze"
)

// BestVantage returns the firing position that hits the most targets of
// left, preferring the one closest to from. ok is false when there is no
// candidate at all.
//
// With a single target left only the two cells lining it up with from are
// considered. Otherwise candidates are every open, non-target cell whose
// column holds a target and whose row holds a target.
func BestVantage(m *maze.Maze, left maze.TargetSet, from maze.Position) (best maze.Position, ok bool) {
	bestHits, bestDist := -1, 0
	for _, c := range vantageCandidates(m, left, from) {
		hits := m.VisibleTargets(c, left).Len()
		dist := maze.Manhattan(c, from)
		if hits > bestHits || (hits == bestHits && dist < bestDist) {
			best, bestHits, bestDist, ok = c, hits, dist, true
		}
	}
	return best, ok
}

func vantageCandidates(m *maze.Maze, left maze.TargetSet, from maze.Position) []maze.Position {
	targets := left.Positions(m)
	switch len(targets) {
	case 0:
		return nil
	case 1:
		t := targets[0]
		return []maze.Position{{X: t.X, Y: from.Y}, {X: from.X, Y: t.Y}}
	}

	xs := make([]int, 0, len(targets))
	ys := make([]int, 0, len(targets))
	for _, t := range targets {
		xs = append(xs, t.X)
		ys = append(ys, t.Y)
	}
	slices.Sort(xs)
	slices.Sort(ys)
	xs = slices.Compact(xs)
	ys = slices.Compact(ys)

	out := make([]maze.Position, 0, len(xs)*len(ys))
	for _, x := range xs {
		for _, y := range ys {
			p := maze.Position{X: x, Y: y}
			if m.IsWall(p) || m.IsTarget(p, left) {
				continue
			}
			out = append(out, p)
		}
	}
	return out
}
