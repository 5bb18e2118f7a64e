package biathlon

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pdrpinto/biathlon/maze"
)

// SolveAll solves independent mazes on a pool of NumberOfWorkers goroutines.
// Results keep the order of mazes. The first error cancels the remaining
// searches; "no solution" is not an error.
func SolveAll(contextObject context.Context, mazes []*maze.Maze, options ...Option) ([]Result, error) {
	searchOptions := buildOptions(options)
	results := make([]Result, len(mazes))

	group, groupContext := errgroup.WithContext(contextObject)
	group.SetLimit(searchOptions.NumberOfWorkers)
	for i, m := range mazes {
		i, m := i, m
		group.Go(func() error {
			result, err := Solve(groupContext, m, options...)
			if err != nil {
				return fmt.Errorf("maze %d: %w", i, err)
			}
			results[i] = result
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
