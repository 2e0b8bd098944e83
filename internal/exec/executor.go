// Package exec runs a single unit of simulated work. Each descriptor is
// validated, then either fails immediately (malformed, or tagged to fail) or
// waits out its duration and succeeds. The same path is exposed through three
// calling conventions so the orchestration policies can compose whichever
// style they demonstrate.
package exec

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"taskflow/internal/domain"
	"taskflow/pkg/future"
)

type Executor struct{}

func New() *Executor { return &Executor{} }

// Submit is the deferred-value convention: the returned handle settles
// exactly once and cannot be canceled.
//
// Validation and the error-type check happen before any timer is scheduled;
// descriptors that are going to fail settle immediately with no elapsed-time
// cost. Only a descriptor that is going to succeed ever waits.
func (e *Executor) Submit(d *domain.Descriptor) *future.Future[domain.Result] {
	f := future.New[domain.Result]()

	if err := domain.Validate(d); err != nil {
		f.Reject(err)
		return f
	}
	if d.Type == domain.TaskTypeError {
		f.Reject(domain.NewProcessingError(d))
		return f
	}

	log.Debug().Int("task_id", d.ID).Str("task_name", d.Name).Dur("duration", d.Duration).
		Msg("task started")
	time.AfterFunc(d.Duration, func() {
		f.Resolve(domain.NewResult(d))
	})
	return f
}

// Process is the direct blocking convention: it suspends the calling
// goroutine until the outcome is available and either returns the result or
// the corresponding error. An expired ctx abandons the wait with ctx.Err();
// the underlying timer still fires.
func (e *Executor) Process(ctx context.Context, d *domain.Descriptor) (domain.Result, error) {
	return e.Submit(d).Wait(ctx)
}

// Start is the error-first callback convention: exactly one of err and res
// is populated, and done is invoked exactly once, always from a different
// stack turn than the Start call itself.
func (e *Executor) Start(d *domain.Descriptor, done func(err error, res domain.Result)) {
	f := e.Submit(d)
	go func() {
		<-f.Done()
		res, err := f.Wait(context.Background())
		done(err, res)
	}()
}
