// Package session coordinates mood searches: it supersedes in-flight
// searches, publishes filtered and sorted results, and re-ranks them
// synchronously when filters change.
package session

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/sells-group/moodmap/internal/model"
)

// State is a session's lifecycle position.
type State int

const (
	// Idle means no search has started.
	Idle State = iota
	// Searching means a search is in flight.
	Searching
	// Completed means results were published.
	Completed
	// Failed means the search ended with an error.
	Failed
	// Cancelled means a later search superseded this one.
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Searching:
		return "searching"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == Completed || s == Failed || s == Cancelled
}

// Session is one search from mood text to published results. Its
// cancellation token belongs to it alone, so overlapping supersessions
// cannot interfere with each other.
type Session struct {
	id        string
	mood      string
	cancelled atomic.Bool

	once    sync.Once
	done    chan struct{}
	state   State
	results []model.Place
	err     error
}

func newSession(mood string) *Session {
	return &Session{
		id:   uuid.NewString(),
		mood: mood,
		done: make(chan struct{}),
	}
}

// ID returns the session's unique id.
func (s *Session) ID() string { return s.id }

// Mood returns the text the session searched for.
func (s *Session) Mood() string { return s.mood }

// Cancelled reports whether a later search superseded this one.
func (s *Session) Cancelled() bool { return s.cancelled.Load() }

// Done is closed once the session reaches a terminal state.
func (s *Session) Done() <-chan struct{} { return s.done }

// State returns the terminal state, or Searching while in flight.
func (s *Session) State() State {
	select {
	case <-s.done:
		return s.state
	default:
		return Searching
	}
}

// Wait blocks until the session finishes or ctx ends. A superseded session
// returns model.ErrCancelled.
func (s *Session) Wait(ctx context.Context) ([]model.Place, error) {
	select {
	case <-s.done:
		return s.results, s.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Session) cancel() {
	s.cancelled.Store(true)
	s.finish(Cancelled, nil, model.ErrCancelled)
}

// finish records the outcome once; later calls are ignored.
func (s *Session) finish(state State, results []model.Place, err error) {
	s.once.Do(func() {
		s.state = state
		s.results = results
		s.err = err
		close(s.done)
	})
}
