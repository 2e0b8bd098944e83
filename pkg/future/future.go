// Package future provides a settle-once deferred value and the join
// primitives (wait-for-all, wait-for-first) the orchestration policies
// are built on.
package future

import (
	"context"
	"sync"
	"time"
)

// Future is a handle that eventually settles to either a value or an error,
// exactly once. It is not cancelable: once the producing work is scheduled it
// runs to completion whether or not anyone waits.
type Future[T any] struct {
	once      sync.Once
	done      chan struct{}
	value     T
	err       error
	settledAt time.Time
}

func New[T any]() *Future[T] {
	return &Future[T]{done: make(chan struct{})}
}

// Resolve settles the future with a value. Later settles are no-ops.
func (f *Future[T]) Resolve(v T) {
	f.once.Do(func() {
		f.value = v
		f.settledAt = time.Now()
		close(f.done)
	})
}

// Reject settles the future with an error. Later settles are no-ops.
func (f *Future[T]) Reject(err error) {
	f.once.Do(func() {
		f.err = err
		f.settledAt = time.Now()
		close(f.done)
	})
}

// Done is closed once the future has settled.
func (f *Future[T]) Done() <-chan struct{} { return f.done }

// Wait blocks until the future settles or ctx expires. An expired ctx
// abandons the wait, it does not unsettle or cancel the future.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// SettledAt returns the settle time. Valid only after Done is closed.
func (f *Future[T]) SettledAt() time.Time { return f.settledAt }

type settlement[T any] struct {
	index int
	value T
	err   error
	at    time.Time
}

// WaitAll waits for every future and returns the values in input order,
// not completion order. The first failure to settle becomes the aggregate
// error and the wait stops there; the remaining futures are handed to
// Discard and run out in the background.
func WaitAll[T any](ctx context.Context, fs []*Future[T]) ([]T, error) {
	ch := make(chan settlement[T], len(fs))
	for i, f := range fs {
		go func(i int, f *Future[T]) {
			<-f.Done()
			ch <- settlement[T]{index: i, value: f.value, err: f.err, at: f.settledAt}
		}(i, f)
	}

	values := make([]T, len(fs))
	for range fs {
		select {
		case s := <-ch:
			if s.err != nil {
				Discard(fs...)
				return nil, s.err
			}
			values[s.index] = s.value
		case <-ctx.Done():
			Discard(fs...)
			return nil, ctx.Err()
		}
	}
	return values, nil
}

// WaitFirst waits for the earliest settlement among fs and returns its input
// index along with its value or error. A failure that settles first wins like
// any other outcome. When two futures settled at the same instant, the one
// with the lower input index wins. Losing futures must be routed through
// Discard by the caller.
func WaitFirst[T any](ctx context.Context, fs []*Future[T]) (int, T, error) {
	ch := make(chan settlement[T], len(fs))
	for i, f := range fs {
		go func(i int, f *Future[T]) {
			<-f.Done()
			ch <- settlement[T]{index: i, value: f.value, err: f.err, at: f.settledAt}
		}(i, f)
	}

	var zero T
	var winner settlement[T]
	select {
	case winner = <-ch:
	case <-ctx.Done():
		return -1, zero, ctx.Err()
	}

	// The fan-in send order can lag the settle order, so settlements already
	// queued behind the first receive still compete: an earlier settle
	// instant wins outright, an equal instant wins on the lower input index.
	for {
		select {
		case s := <-ch:
			if s.at.Before(winner.at) || (s.at.Equal(winner.at) && s.index < winner.index) {
				winner = s
			}
		default:
			return winner.index, winner.value, winner.err
		}
	}
}

// Discard is the sink for futures whose outcomes nobody will consume: losing
// race branches and the unawaited remainder of a failed WaitAll. They are not
// canceled, their timers fire and their settlements are dropped here.
func Discard[T any](fs ...*Future[T]) {
	for _, f := range fs {
		go func(f *Future[T]) { <-f.Done() }(f)
	}
}
