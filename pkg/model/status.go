package model

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Status errors.
var (
	ErrStatusTimeout = errors.New("move did not complete before timeout")
)

// MoveOptions controls how a move request is carried out.
type MoveOptions struct {
	// Wait blocks the caller until the move completes.
	Wait bool

	// Timeout bounds the wait. Zero waits for as long as the context allows.
	Timeout time.Duration

	// MovedCB is called once with the moved object when the move finishes
	// successfully.
	MovedCB func(obj any)
}

// Status tracks the completion of a move.
type Status struct {
	mu        sync.Mutex
	obj       any
	done      chan struct{}
	finished  bool
	err       error
	callbacks []func(*Status)
}

// NewStatus creates an unfinished status for obj.
func NewStatus(obj any) *Status {
	return &Status{
		obj:  obj,
		done: make(chan struct{}),
	}
}

// FinishedStatus returns a status that has already completed successfully.
func FinishedStatus(obj any) *Status {
	s := NewStatus(obj)
	s.MarkFinished(nil)
	return s
}

// Obj returns the object the status belongs to.
func (s *Status) Obj() any {
	return s.obj
}

// MarkFinished completes the status. Only the first call has an effect.
func (s *Status) MarkFinished(err error) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.finished = true
	s.err = err
	callbacks := s.callbacks
	s.callbacks = nil
	s.mu.Unlock()

	// Waiters are released only after every callback ran.
	for _, cb := range callbacks {
		cb(s)
	}
	close(s.done)
}

// Done returns a channel closed when the status completes.
func (s *Status) Done() <-chan struct{} {
	return s.done
}

// Finished reports whether the status completed.
func (s *Status) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// Success reports whether the status completed without error.
func (s *Status) Success() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished && s.err == nil
}

// Err returns the completion error, if any.
func (s *Status) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// AddCallback registers cb to run on completion. If the status already
// completed, cb runs immediately.
func (s *Status) AddCallback(cb func(*Status)) {
	s.mu.Lock()
	if !s.finished {
		s.callbacks = append(s.callbacks, cb)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	cb(s)
}

// Wait blocks until the status completes or ctx is done.
func (s *Status) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// WaitTimeout waits with an optional timeout; zero means no timeout.
func (s *Status) WaitTimeout(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	err := s.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrStatusTimeout
	}
	return err
}

// AndStatus combines statuses into one that completes when all of them
// have. The first error wins.
func AndStatus(obj any, statuses ...*Status) *Status {
	combined := NewStatus(obj)
	if len(statuses) == 0 {
		combined.MarkFinished(nil)
		return combined
	}

	var (
		mu        sync.Mutex
		remaining = len(statuses)
		firstErr  error
	)
	for _, st := range statuses {
		st.AddCallback(func(st *Status) {
			mu.Lock()
			if firstErr == nil {
				firstErr = st.Err()
			}
			remaining--
			last := remaining == 0
			err := firstErr
			mu.Unlock()

			if last {
				combined.MarkFinished(err)
			}
		})
	}
	return combined
}

// Complete applies opts to a status returned by a move: it installs the
// moved callback and waits if requested.
func Complete(ctx context.Context, st *Status, opts MoveOptions) (*Status, error) {
	if opts.MovedCB != nil {
		cb := opts.MovedCB
		st.AddCallback(func(s *Status) {
			if s.Err() == nil {
				cb(s.Obj())
			}
		})
	}
	if opts.Wait {
		if err := st.WaitTimeout(ctx, opts.Timeout); err != nil {
			return st, err
		}
	}
	return st, nil
}
