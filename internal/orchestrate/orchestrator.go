// Package orchestrate composes unit-of-work executions under four policies:
// a callback-sequenced chain, a blocking sequential loop, an all-parallel
// join and a first-to-finish race. All four drive the same executor and
// report through the same presentation boundary.
package orchestrate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/domain"
	"taskflow/internal/exec"
	"taskflow/internal/ports"
	"taskflow/pkg/future"
)

type Policy string

const (
	// PolicyChain sequences the error-first callback convention, one task
	// in flight at a time.
	PolicyChain Policy = "chain"
	// PolicySequential runs the blocking convention in a loop, one task in
	// flight at a time.
	PolicySequential Policy = "sequential"
	// PolicyParallel starts every task before awaiting any, then joins.
	PolicyParallel Policy = "parallel"
	// PolicyRace starts every task and settles with whichever finishes
	// first, success or failure alike.
	PolicyRace Policy = "race"
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case PolicyChain, PolicySequential, PolicyParallel, PolicyRace:
		return p, nil
	default:
		return "", fmt.Errorf("unknown policy %q", s)
	}
}

// Report is the structured outcome of one orchestration call.
type Report struct {
	RunID   string          `json:"run_id"`
	Policy  Policy          `json:"policy"`
	Results []domain.Result `json:"results"`
	Elapsed time.Duration   `json:"elapsed"`
}

type Orchestrator struct {
	exec *exec.Executor
	rep  ports.Reporter
}

func New(e *exec.Executor, rep ports.Reporter) *Orchestrator {
	return &Orchestrator{exec: e, rep: rep}
}

// Run executes one batch under the given policy. The batch is rejected
// before any executor work when it is empty. On failure the returned error
// is the first (or winning) taxonomy error; results collected before the
// failure, where the policy surfaces any, reach the reporter via RunFailed.
func (o *Orchestrator) Run(ctx context.Context, policy Policy, batch []domain.Descriptor) (*Report, error) {
	run := ports.Run{
		ID:        uuid.NewString(),
		Policy:    string(policy),
		TaskCount: len(batch),
		StartedAt: time.Now(),
	}
	o.rep.RunStarted(run)

	if len(batch) == 0 {
		err := domain.ErrEmptyBatch()
		o.rep.RunFailed(run, nil, time.Since(run.StartedAt), err)
		return nil, err
	}

	var results []domain.Result
	var err error
	switch policy {
	case PolicyChain:
		results, err = o.runChain(ctx, run, batch)
	case PolicySequential:
		results, err = o.runSequential(ctx, run, batch)
	case PolicyParallel:
		results, err = o.runParallel(ctx, run, batch)
	case PolicyRace:
		results, err = o.runRace(ctx, run, batch)
	default:
		err = fmt.Errorf("unknown policy %q", policy)
	}

	elapsed := time.Since(run.StartedAt)
	if err != nil {
		o.rep.RunFailed(run, results, elapsed, err)
		return nil, err
	}
	o.rep.RunCompleted(run, len(results), elapsed)

	return &Report{RunID: run.ID, Policy: policy, Results: results, Elapsed: elapsed}, nil
}

type settlement struct {
	res domain.Result
	err error
}

// runChain drives the callback convention with an explicit cursor and
// accumulator: each Start publishes its settlement on a channel the loop
// consumes before moving the cursor. Task N+1 never begins until task N has
// settled. The first failure stops the chain; results collected so far are
// returned as partials.
func (o *Orchestrator) runChain(ctx context.Context, run ports.Run, batch []domain.Descriptor) ([]domain.Result, error) {
	settled := make(chan settlement, 1)
	results := make([]domain.Result, 0, len(batch))

	for cursor := range batch {
		o.exec.Start(&batch[cursor], func(err error, res domain.Result) {
			settled <- settlement{res: res, err: err}
		})

		select {
		case s := <-settled:
			if s.err != nil {
				return results, s.err
			}
			results = append(results, s.res)
			o.rep.TaskSucceeded(run, s.res)
		case <-ctx.Done():
			return results, ctx.Err()
		}
	}
	return results, nil
}

// runSequential is the direct-style twin of runChain: same one-in-flight
// ordering, same partial-result behavior on first failure.
func (o *Orchestrator) runSequential(ctx context.Context, run ports.Run, batch []domain.Descriptor) ([]domain.Result, error) {
	results := make([]domain.Result, 0, len(batch))
	for i := range batch {
		res, err := o.exec.Process(ctx, &batch[i])
		if err != nil {
			return results, err
		}
		results = append(results, res)
		o.rep.TaskSucceeded(run, res)
	}
	return results, nil
}

// runParallel submits every task before awaiting any, then joins. Results
// come back in input order regardless of completion order. A single failure
// fails the aggregate with no partial results; the survivors run out through
// the discard sink inside WaitAll.
func (o *Orchestrator) runParallel(ctx context.Context, run ports.Run, batch []domain.Descriptor) ([]domain.Result, error) {
	handles := make([]*future.Future[domain.Result], len(batch))
	for i := range batch {
		handles[i] = o.exec.Submit(&batch[i])
	}

	results, err := future.WaitAll(ctx, handles)
	if err != nil {
		return nil, err
	}
	for _, res := range results {
		o.rep.TaskSucceeded(run, res)
	}
	return results, nil
}

// runRace submits every task and returns whichever settles first, failure
// and success alike. Ties at the same settle instant resolve to the earlier
// input position. Losers are routed through the discard sink and left to
// finish in the background.
func (o *Orchestrator) runRace(ctx context.Context, run ports.Run, batch []domain.Descriptor) ([]domain.Result, error) {
	handles := make([]*future.Future[domain.Result], len(batch))
	for i := range batch {
		handles[i] = o.exec.Submit(&batch[i])
	}

	winner, res, err := future.WaitFirst(ctx, handles)
	for i, h := range handles {
		if i != winner {
			future.Discard(h)
		}
	}
	if err != nil {
		return nil, err
	}
	o.rep.TaskSucceeded(run, res)
	return []domain.Result{res}, nil
}
