package interpreter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"mlang/interpreter-go/pkg/driver"
	"mlang/interpreter-go/pkg/runtime"
)

// ProgramTask is one independent evaluation scheduled by an Executor.
type ProgramTask func(ctx context.Context) error

// Executor abstracts the scheduling strategy used to run several programs.
// Execute returns the first task error, if any.
type Executor interface {
	Execute(ctx context.Context, tasks []ProgramTask) error
}

func safeInvoke(ctx context.Context, task ProgramTask) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during evaluation: %v", r)
		}
	}()
	return task(ctx)
}

// GoroutineExecutor runs tasks concurrently, at most Limit at a time when
// Limit is positive. With FailFast the first failure cancels the context seen
// by the remaining tasks.
type GoroutineExecutor struct {
	Limit    int
	FailFast bool
}

func (e *GoroutineExecutor) Execute(ctx context.Context, tasks []ProgramTask) error {
	var g *errgroup.Group
	gctx := ctx
	if e.FailFast {
		g, gctx = errgroup.WithContext(ctx)
	} else {
		g = new(errgroup.Group)
	}
	if e.Limit > 0 {
		g.SetLimit(e.Limit)
	}
	for _, task := range tasks {
		g.Go(func() error {
			return safeInvoke(gctx, task)
		})
	}
	return g.Wait()
}

// SerialExecutor runs tasks one after another in order, which keeps output
// deterministic for tests.
type SerialExecutor struct {
	FailFast bool
}

func (e *SerialExecutor) Execute(ctx context.Context, tasks []ProgramTask) error {
	var first error
	for _, task := range tasks {
		if err := ctx.Err(); err != nil {
			if first == nil {
				first = err
			}
			break
		}
		if err := safeInvoke(ctx, task); err != nil {
			if first == nil {
				first = err
			}
			if e.FailFast {
				break
			}
		}
	}
	return first
}

// BatchResult is the outcome of one program in a batch.
type BatchResult struct {
	Path     string
	Value    runtime.Value
	Stdout   string
	Warnings []Warning
	Err      error
}

// BatchOptions configures RunBatch. Executor defaults to an unbounded
// GoroutineExecutor.
type BatchOptions struct {
	Options  Options
	Executor Executor
}

// RunBatch evaluates each program with its own Interpreter and environment.
// Results are returned in input order and carry each program's captured
// output; the returned error is the first failure reported by the executor.
func RunBatch(ctx context.Context, programs []*driver.Program, opts BatchOptions) ([]BatchResult, error) {
	executor := opts.Executor
	if executor == nil {
		executor = &GoroutineExecutor{}
	}
	baseLogger := opts.Options.Logger
	results := make([]BatchResult, len(programs))
	tasks := make([]ProgramTask, len(programs))
	for idx, program := range programs {
		if program != nil {
			results[idx].Path = program.Path
		}
		tasks[idx] = func(ctx context.Context) error {
			res := &results[idx]
			if program == nil {
				res.Err = fmt.Errorf("batch: program %d is nil", idx)
				return res.Err
			}

			var stdout bytes.Buffer
			runOpts := opts.Options
			runOpts.Stdout = &stdout
			if baseLogger != nil {
				runOpts.Logger = baseLogger.With(slog.String("program", program.Path))
			}
			interp := NewWithOptions(runOpts)
			val, err := interp.EvaluateNode(ctx, program.Root)
			res.Value = val
			res.Stdout = stdout.String()
			res.Warnings = interp.Warnings()
			if err != nil {
				res.Err = fmt.Errorf("%s: %w", program.Path, err)
				return res.Err
			}
			return nil
		}
	}
	err := executor.Execute(ctx, tasks)
	return results, err
}

// OptionsFromManifest maps manifest settings onto interpreter options.
func OptionsFromManifest(m *driver.Manifest) Options {
	var opts Options
	if m == nil {
		return opts
	}
	opts.MaxCallDepth = m.Interpreter.MaxCallDepth
	opts.SilentRedeclare = m.Interpreter.Redeclaration == driver.RedeclarationSilent
	return opts
}
