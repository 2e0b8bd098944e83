package ports

import (
	"time"

	"taskflow/internal/domain"
)

// Run identifies one orchestration call for the presentation layer.
type Run struct {
	ID        string
	Policy    string
	TaskCount int
	StartedAt time.Time
}

// Reporter is the presentation/reporting boundary. The orchestrator supplies
// enough structured context (task identity, error kind, elapsed time) that
// implementations never need to re-derive it.
type Reporter interface {
	// RunStarted marks the start of one orchestration call.
	RunStarted(run Run)
	// TaskSucceeded is an incremental success notification. Sequential
	// policies emit it in input order as each task settles; Parallel emits
	// it in input order after the join; Race emits it only for a winning
	// success.
	TaskSucceeded(run Run, res domain.Result)
	// RunCompleted is the terminal success summary.
	RunCompleted(run Run, count int, elapsed time.Duration)
	// RunFailed is the terminal failure notification. partial holds
	// results collected before the failure, if the policy surfaces any.
	RunFailed(run Run, partial []domain.Result, elapsed time.Duration, err error)
}
