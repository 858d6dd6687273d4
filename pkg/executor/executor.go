// Package executor orchestrates a full provisioning run: it resolves the
// dependency graph, validates every pipeline step, schedules independent
// elements onto a bounded worker pool and runs the remainder sequentially
// in topological order.
//
// A run moves through a fixed state sequence:
//
//	Loaded -> GraphResolved -> Scheduled -> Executing -> Completed | Aborted
//
// Graph violations and structural step errors abort before anything
// executes. During execution an element failure never interrupts elements
// already dispatched to the pool; sequentially-run elements stop at the
// first failure, and elements whose dependencies did not succeed are
// skipped.
package executor

import (
	"context"
	"os"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dotrig/dotrig/pkg/element"
	"github.com/dotrig/dotrig/pkg/errors"
	"github.com/dotrig/dotrig/pkg/execctx"
	"github.com/dotrig/dotrig/pkg/graph"
	"github.com/dotrig/dotrig/pkg/logging"
	"github.com/dotrig/dotrig/pkg/pool"
	"github.com/dotrig/dotrig/pkg/tool"
)

// State is the lifecycle phase of a run
type State string

const (
	StateLoaded        State = "loaded"
	StateGraphResolved State = "graph-resolved"
	StateScheduled     State = "scheduled"
	StateExecuting     State = "executing"
	StateCompleted     State = "completed"
	StateAborted       State = "aborted"
)

// ElementStatus is the outcome of one element within a run
type ElementStatus string

const (
	StatusSucceeded ElementStatus = "succeeded"
	StatusFailed    ElementStatus = "failed"
	StatusSkipped   ElementStatus = "skipped"
)

// ElementResult records one element's outcome. Err is set only for failed
// elements.
type ElementResult struct {
	Name   string
	Status ElementStatus
	Err    error
}

// RunResult summarizes a run. Results are in execution order: the parallel
// batch first (input order), then the sequential remainder.
type RunResult struct {
	RunID    string
	State    State
	Results  []ElementResult
	Parallel int // number of elements dispatched to the pool
}

// Failed returns the results of elements that failed
func (r *RunResult) Failed() []ElementResult {
	var out []ElementResult
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			out = append(out, res)
		}
	}
	return out
}

// Options configures an Executor
type Options struct {
	// Registry is the tool set available to pipeline steps
	Registry tool.Registry

	// Workers bounds parallel element execution
	Workers int

	// StorageDir is created if missing and passed to every element context
	StorageDir string

	// LockPath, when non-empty, is flocked for the duration of the run
	LockPath string

	// Env is the filtered environment snapshot handed to every tool request
	Env []string
}

// Executor runs element sets
type Executor struct {
	opts   Options
	logger zerolog.Logger
}

// New creates an executor
func New(opts Options) *Executor {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Executor{
		opts:   opts,
		logger: logging.GetLogger("executor"),
	}
}

// Run executes the element set to completion. It returns a RunResult even
// on failure whenever execution started; a nil result means the run never
// left the planning states.
func (e *Executor) Run(ctx context.Context, elements []*element.Element) (*RunResult, error) {
	runID := uuid.New().String()
	logger := e.logger.With().Str("run", runID).Logger()
	logger.Info().Int("elements", len(elements)).Msg("Run loaded")

	order, parallel, sequential, err := e.plan(elements)
	if err != nil {
		return nil, err
	}
	logger.Debug().
		Int("parallel", len(parallel)).
		Int("sequential", len(sequential)).
		Msg("Run scheduled")

	if e.opts.StorageDir != "" {
		if err := os.MkdirAll(e.opts.StorageDir, 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrInternal,
				"failed to create storage dir %s", e.opts.StorageDir)
		}
	}

	if e.opts.LockPath != "" {
		lock := flock.New(e.opts.LockPath)
		locked, err := lock.TryLock()
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrRunLocked,
				"failed to acquire run lock %s", e.opts.LockPath)
		}
		if !locked {
			return nil, errors.Newf(errors.ErrRunLocked,
				"another run holds the lock %s", e.opts.LockPath)
		}
		defer func() { _ = lock.Unlock() }()
	}

	result := &RunResult{
		RunID:    runID,
		State:    StateExecuting,
		Parallel: len(parallel),
	}
	outcome := make(map[string]ElementStatus, len(order))

	// Parallel phase: independents race on the pool. Failures are carried
	// in the result values so every outcome survives the batch.
	tasks := make([]pool.Task[ElementResult], len(parallel))
	for i, el := range parallel {
		el := el
		tasks[i] = func(ctx context.Context) (ElementResult, error) {
			if err := e.runElement(ctx, logger, el); err != nil {
				return ElementResult{Name: el.Name, Status: StatusFailed, Err: err}, nil
			}
			return ElementResult{Name: el.Name, Status: StatusSucceeded}, nil
		}
	}
	parallelResults, _ := pool.Run(ctx, e.opts.Workers, tasks)
	for _, res := range parallelResults {
		result.Results = append(result.Results, res)
		outcome[res.Name] = res.Status
	}

	// Sequential phase: stop at the first failure, skip elements whose
	// dependencies did not succeed.
	halted := false
	for _, el := range sequential {
		switch {
		case halted:
			result.Results = append(result.Results, ElementResult{Name: el.Name, Status: StatusSkipped})
			outcome[el.Name] = StatusSkipped
		case !depsSucceeded(el, outcome):
			logger.Warn().Str("element", el.Name).Msg("Skipping element, dependency did not succeed")
			result.Results = append(result.Results, ElementResult{Name: el.Name, Status: StatusSkipped})
			outcome[el.Name] = StatusSkipped
		default:
			if err := e.runElement(ctx, logger, el); err != nil {
				result.Results = append(result.Results, ElementResult{Name: el.Name, Status: StatusFailed, Err: err})
				outcome[el.Name] = StatusFailed
				halted = true
				continue
			}
			result.Results = append(result.Results, ElementResult{Name: el.Name, Status: StatusSucceeded})
			outcome[el.Name] = StatusSucceeded
		}
	}

	for _, status := range outcome {
		if status != StatusSucceeded {
			result.State = StateAborted
			logger.Warn().Msg("Run aborted")
			return result, errors.Newf(errors.ErrRunAborted,
				"run %s aborted: %d of %d elements did not succeed",
				runID, len(order)-countSucceeded(outcome), len(order))
		}
	}

	result.State = StateCompleted
	logger.Info().Msg("Run completed")
	return result, nil
}

// Plan resolves and validates without executing. It returns the full
// execution order plus the parallel/sequential split, so callers can
// preview a run.
func (e *Executor) Plan(elements []*element.Element) (order, parallel, sequential []*element.Element, err error) {
	return e.plan(elements)
}

func (e *Executor) plan(elements []*element.Element) (order, parallel, sequential []*element.Element, err error) {
	resolver, err := graph.New(elements)
	if err != nil {
		return nil, nil, nil, err
	}
	order, err = resolver.ExecutionOrder()
	if err != nil {
		return nil, nil, nil, err
	}

	for _, el := range order {
		if err := tool.ValidateElement(e.opts.Registry, el); err != nil {
			return nil, nil, nil, err
		}
	}

	for _, el := range order {
		if el.Independent() {
			parallel = append(parallel, el)
		} else {
			sequential = append(sequential, el)
		}
	}
	return order, parallel, sequential, nil
}

// runElement executes an element's pipeline against a fresh context seeded
// only with the element's own facts and the storage directory.
func (e *Executor) runElement(ctx context.Context, logger zerolog.Logger, el *element.Element) error {
	elLogger := logger.With().Str("element", el.Name).Logger()
	elLogger.Info().Int("steps", len(el.Pipeline)).Msg("Executing element")

	ectx := execctx.New(el.FactSource())
	if e.opts.StorageDir != "" {
		if err := ectx.Set("storageDir", e.opts.StorageDir); err != nil {
			return errors.Wrapf(err, errors.ErrInternal,
				"element %q: failed to seed context", el.Name)
		}
	}

	for i, step := range el.Pipeline {
		elLogger.Debug().Int("step", i).Str("tool", step.Tool).Msg("Running step")

		impl, err := e.opts.Registry.Get(step.Tool)
		if err != nil {
			return errors.Wrapf(err, errors.ErrToolNotFound,
				"element %q step %d: unknown tool %q", el.Name, i, step.Tool)
		}

		expanded, err := ectx.ProcessObjectTemplate(step.With)
		if err != nil {
			return errors.Wrapf(err, errors.ErrToolParams,
				"element %q step %d (%s): template expansion failed", el.Name, i, step.Tool)
		}
		params, ok := expanded.(map[string]any)
		if !ok {
			params = map[string]any{}
		}

		if err := impl.Schema().Validate(step.Tool, params); err != nil {
			return errors.Wrapf(err, errors.ErrToolParams,
				"element %q step %d (%s): invalid parameters", el.Name, i, step.Tool)
		}

		req := &tool.Request{
			Params:     params,
			Context:    ectx,
			Env:        e.opts.Env,
			StorageDir: e.opts.StorageDir,
		}
		if err := impl.Execute(ctx, req); err != nil {
			return errors.Wrapf(err, errors.ErrToolExecute,
				"element %q step %d (%s) failed", el.Name, i, step.Tool)
		}
	}

	elLogger.Info().Msg("Element succeeded")
	return nil
}

func depsSucceeded(el *element.Element, outcome map[string]ElementStatus) bool {
	for _, dep := range el.Metadata.Dependencies {
		if outcome[dep] != StatusSucceeded {
			return false
		}
	}
	return true
}

func countSucceeded(outcome map[string]ElementStatus) int {
	n := 0
	for _, status := range outcome {
		if status == StatusSucceeded {
			n++
		}
	}
	return n
}
