// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session tracks the search state of each browser session. A
// session runs at most one search at a time: starting a new one cancels
// the previous, and a cancelled search never overwrites the state.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/pdiddy/fund-matcher/internal/match"
	"github.com/pdiddy/fund-matcher/pkg/types"
)

// MatchFunc performs one search.
type MatchFunc func(ctx context.Context, info types.BusinessInfo) (types.SearchResult, error)

// Session holds one browser's search state.
type Session struct {
	ID string

	mu      sync.Mutex
	state   types.SearchState
	cancel  context.CancelFunc
	seq     uint64
	touched time.Time
	now     func() time.Time
}

// New returns an idle session.
func New(id string) *Session {
	s := &Session{ID: id, now: time.Now}
	s.state.Status = types.StatusIdle
	s.touched = s.now()
	return s
}

// State returns a copy of the current state.
func (s *Session) State() types.SearchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = s.now()
	return s.state
}

// LastSeen is the time of the last access.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// Start cancels any in-flight search, marks the session loading and runs fn
// in the background. The returned channel receives the state once the
// search ends and is then closed. If the search was superseded or stopped,
// the state it receives is whatever the session holds at that point.
func (s *Session) Start(parent context.Context, info types.BusinessInfo, fn MatchFunc) <-chan types.SearchState {
	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	seq := s.seq
	s.cancel = cancel
	s.touched = s.now()
	s.state = types.SearchState{
		Status:    types.StatusLoading,
		IsLoading: true,
		Info:      info,
		StartedAt: timePtr(s.touched),
	}
	s.mu.Unlock()

	out := make(chan types.SearchState, 1)
	go func() {
		defer close(out)
		defer cancel()

		result, err := fn(ctx, info)

		s.mu.Lock()
		if seq == s.seq {
			if ctx.Err() != nil {
				// The parent context ended; Stop and Start bump seq instead.
				s.markCancelled()
			} else {
				s.finish(result, err)
			}
			s.cancel = nil
		}
		state := s.state
		s.mu.Unlock()

		out <- state
	}()
	return out
}

// finish records the outcome. Callers hold s.mu.
func (s *Session) finish(result types.SearchResult, err error) {
	s.state.IsLoading = false
	s.state.FinishedAt = timePtr(s.now())
	if err != nil {
		s.state.Status = types.StatusError
		s.state.Error = match.Message(err)
		s.state.Data = nil
		return
	}
	s.state.Status = types.StatusSuccess
	s.state.Error = ""
	s.state.Data = &result
}

// Run starts a search and waits for it to end or for ctx to be done.
func (s *Session) Run(ctx context.Context, info types.BusinessInfo, fn MatchFunc) types.SearchState {
	done := s.Start(ctx, info, fn)
	select {
	case state := <-done:
		return state
	case <-ctx.Done():
		return s.State()
	}
}

// Stop cancels the in-flight search, if any, and records the cancelled
// state. It reports whether a search was running.
func (s *Session) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = s.now()
	if s.cancel == nil {
		return false
	}
	s.cancel()
	s.cancel = nil
	s.seq++
	s.markCancelled()
	return true
}

// markCancelled records the cancelled terminal state. Callers hold s.mu.
func (s *Session) markCancelled() {
	s.state.Status = types.StatusCancelled
	s.state.IsLoading = false
	s.state.Error = match.MsgCancelled
	s.state.Data = nil
	s.state.FinishedAt = timePtr(s.now())
}

// Reset cancels any search and returns the session to idle.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
	s.touched = s.now()
	s.state = types.SearchState{Status: types.StatusIdle}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
