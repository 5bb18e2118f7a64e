package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/pdrpinto/biathlon"
	"github.com/pdrpinto/biathlon/config"
	"github.com/pdrpinto/biathlon/internal/puzzle"
	"github.com/pdrpinto/biathlon/maze"
	"github.com/pdrpinto/biathlon/trace"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run solves every puzzle named by args and returns the process exit code:
// 0 when all checks pass, 1 on a mismatch or runtime error, 2 on bad usage.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("biathlon", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "path to biathlon.yaml (optional)")
		workers    = fs.Int("workers", 0, "mazes solved concurrently (overrides config)")
		traceDir   = fs.String("trace", "", "write a zstd JSONL search trace into this dir (overrides config)")
		verify     = fs.Bool("verify", true, "replay solutions and compare with puzzle expectations (overrides config)")
		verbose    = fs.Bool("v", false, "debug logging")
	)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: biathlon [flags] <puzzle file or dir>...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 2
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "workers":
			cfg.Workers = *workers
		case "trace":
			cfg.Trace.Enabled = *traceDir != ""
			cfg.Trace.Dir = *traceDir
		case "verify":
			cfg.Verify = *verify
		case "v":
			if *verbose {
				cfg.LogLevel = "debug"
			}
		}
	})
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 2
	}

	logger := log.NewWithOptions(stderr, log.Options{Prefix: "biathlon", ReportTimestamp: true})
	logger.SetLevel(cfg.Level())

	puzzles, err := loadPuzzles(fs.Args())
	if err != nil {
		logger.Error("load puzzles", "err", err)
		return 1
	}
	mazes := make([]*maze.Maze, len(puzzles))
	for i, p := range puzzles {
		m, err := p.Maze(cfg.Costs)
		if err != nil {
			logger.Error("parse maze", "path", p.Path, "err", err)
			return 1
		}
		mazes[i] = m
	}

	opts := []biathlon.Option{biathlon.WithWorkers(cfg.Workers), biathlon.WithLogger(logger)}
	if cfg.Trace.Enabled {
		tw, path, err := trace.NewFileWriter(cfg.Trace.Dir, "biathlon")
		if err != nil {
			logger.Error("open trace", "dir", cfg.Trace.Dir, "err", err)
			return 1
		}
		defer func() {
			if err := tw.Close(); err != nil {
				logger.Error("close trace", "path", path, "err", err)
			}
		}()
		logger.Info("tracing", "path", path)
		opts = append(opts, biathlon.WithTracer(tw))
	}

	results, err := biathlon.SolveAll(ctx, mazes, opts...)
	if err != nil {
		logger.Error("solve", "err", err)
		return 1
	}

	failed := 0
	for i, res := range results {
		p := puzzles[i]
		if !res.Found {
			fmt.Fprintf(stdout, "%s\tunsolvable\n", p.Name)
		} else {
			fmt.Fprintf(stdout, "%s\t%d\t%s\n", p.Name, res.TotalCost, formatActions(res.Actions))
		}
		logger.Debug("solved", "puzzle", p.Name, "found", res.Found, "cost", res.TotalCost, "expanded", res.ExpandedNodes)
		if !cfg.Verify {
			continue
		}
		if err := check(p, mazes[i], res); err != nil {
			logger.Error("verify", "puzzle", p.Name, "err", err)
			failed++
		}
	}
	if failed > 0 {
		logger.Error("verification failed", "puzzles", failed, "total", len(results))
		return 1
	}
	logger.Info("done", "puzzles", len(results))
	return 0
}

func loadPuzzles(paths []string) ([]puzzle.Puzzle, error) {
	var out []puzzle.Puzzle
	for _, path := range paths {
		st, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if st.IsDir() {
			ps, err := puzzle.LoadDir(path)
			if err != nil {
				return nil, err
			}
			out = append(out, ps...)
			continue
		}
		p, err := puzzle.Load(path)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func check(p puzzle.Puzzle, m *maze.Maze, res biathlon.Result) error {
	if res.Found {
		v := m.TestSolution(res.Actions)
		if !v.IsSolution || v.Cost != res.TotalCost {
			return fmt.Errorf("replay of %q: solution=%t cost=%d, reported %d",
				maze.FormatActions(res.Actions), v.IsSolution, v.Cost, res.TotalCost)
		}
	}
	return p.Check(res.Found, res.TotalCost)
}

func formatActions(actions []maze.Action) string {
	if len(actions) == 0 {
		return "-"
	}
	return maze.FormatActions(actions)
}
