// Package biathlon solves the pathfinding biathlon: an agent on a walled grid
// must shoot every target, moving through floor and mud and firing along rows
// and columns, at the lowest total action cost.
//
// It exposes three entry points:
//
//   - Solve: run the search to completion and get a Result.
//   - Stepper: iterate the search one expansion at a time to drive UIs or debugging tools.
//   - SolveAll: solve many mazes concurrently, one search per worker.
//
// The search is A* over (location, remaining targets) states. A vantage point
// (see BestVantage) is recomputed whenever the remaining targets change and
// steers the search among equally promising nodes. A single search is
// single-threaded and owns all of its state.
package biathlon
