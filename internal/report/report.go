// Package report holds the Reporter implementations: a zerolog reporter for
// the CLI/server logs and a collecting reporter backing the HTTP run API and
// the tests.
package report

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"taskflow/internal/domain"
	"taskflow/internal/ports"
)

// LogReporter renders run lifecycle events through zerolog.
type LogReporter struct {
	Log zerolog.Logger
}

var _ ports.Reporter = (*LogReporter)(nil)

func (r *LogReporter) RunStarted(run ports.Run) {
	r.Log.Info().Str("run_id", run.ID).Str("policy", run.Policy).
		Int("tasks", run.TaskCount).Msg("run started")
}

func (r *LogReporter) TaskSucceeded(run ports.Run, res domain.Result) {
	r.Log.Info().Str("run_id", run.ID).Int("task_id", res.TaskID).
		Str("task_name", res.TaskName).Msg(res.Summary)
}

func (r *LogReporter) RunCompleted(run ports.Run, count int, elapsed time.Duration) {
	r.Log.Info().Str("run_id", run.ID).Str("policy", run.Policy).
		Int("completed", count).Dur("elapsed", elapsed).Msg("run completed")
}

func (r *LogReporter) RunFailed(run ports.Run, partial []domain.Result, elapsed time.Duration, err error) {
	evt := r.Log.Error().Str("run_id", run.ID).Str("policy", run.Policy).
		Int("partial", len(partial)).Dur("elapsed", elapsed)
	if te, ok := err.(*domain.TaskError); ok {
		evt = evt.Str("kind", string(te.Kind))
		if te.TaskID != 0 {
			evt = evt.Int("task_id", te.TaskID).Str("task_name", te.TaskName)
		}
	}
	evt.Err(err).Msg("run failed")
}

// Collector records every event for later inspection. Safe for concurrent
// use; the orchestrator may call it from joined goroutines.
type Collector struct {
	mu        sync.Mutex
	Started   []ports.Run
	Succeeded []domain.Result
	Completed bool
	Failed    error
	Partial   []domain.Result
	Elapsed   time.Duration
}

var _ ports.Reporter = (*Collector)(nil)

func (c *Collector) RunStarted(run ports.Run) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Started = append(c.Started, run)
}

func (c *Collector) TaskSucceeded(run ports.Run, res domain.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Succeeded = append(c.Succeeded, res)
}

func (c *Collector) RunCompleted(run ports.Run, count int, elapsed time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Completed = true
	c.Elapsed = elapsed
}

func (c *Collector) RunFailed(run ports.Run, partial []domain.Result, elapsed time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Failed = err
	c.Partial = partial
	c.Elapsed = elapsed
}

// Results returns a copy of the incremental success notifications.
func (c *Collector) Results() []domain.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Result, len(c.Succeeded))
	copy(out, c.Succeeded)
	return out
}
