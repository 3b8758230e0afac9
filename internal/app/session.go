package app

import (
	"context"
	"sync"
	"time"

	"game-arena/internal/domain"
)

// Session owns one running game: its lifetime context, its subscribers, and
// the outcome of reporting its result.
type Session struct {
	id        string
	studentID int64
	createdAt time.Time
	now       func() time.Time
	ctx       context.Context
	cancel    context.CancelFunc

	mu          sync.RWMutex
	game        Game
	closed      bool
	reporting   bool
	report      *domain.ScoreReport
	subscribers map[chan domain.Snapshot]struct{}
}

func newSession(id string, studentID int64, now func() time.Time) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:          id,
		studentID:   studentID,
		createdAt:   now(),
		now:         now,
		ctx:         ctx,
		cancel:      cancel,
		subscribers: make(map[chan domain.Snapshot]struct{}),
	}
}

// NewSession wraps a game for infrastructure layers and tests.
func NewSession(id string, game Game) *Session {
	s := newSession(id, 0, time.Now)
	s.attach(game)
	return s
}

func (s *Session) attach(game Game) {
	s.mu.Lock()
	s.game = game
	s.mu.Unlock()
}

func (s *Session) ID() string { return s.id }

// Game returns the state machine behind the session.
func (s *Session) Game() Game {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.game
}

// Context is cancelled when the session is torn down.
func (s *Session) Context() context.Context { return s.ctx }

// IsClosed reports whether the session was torn down.
func (s *Session) IsClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// beginReport claims the session's single report slot.
func (s *Session) beginReport() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reporting || s.closed {
		return false
	}
	s.reporting = true
	return true
}

func (s *Session) setReport(report domain.ScoreReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.report = &report
}

// close cancels the session context, stops the game and releases subscribers.
func (s *Session) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	game := s.game
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
	s.mu.Unlock()

	s.cancel()
	if game != nil {
		game.Close()
	}
}

func (s *Session) subscribe() (<-chan domain.Snapshot, func()) {
	ch := make(chan domain.Snapshot, 8)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

// broadcast publishes the current snapshot; a stale update is dropped for slow subscribers.
func (s *Session) broadcast() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := s.snapshotLocked()
	if s.closed {
		return snap
	}
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

// Snapshot returns the current state without publishing it.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{
		SessionID: s.id,
		UpdatedAt: s.now(),
		Report:    s.report,
	}
	if s.game == nil {
		return snap
	}
	snap.Game = s.game.Kind()
	snap.State = s.game.View()
	if res, ok := s.game.Result(); ok {
		snap.Result = &res
	}
	return snap
}

// sessionScheduler runs game callbacks only while the session is alive and
// publishes the state they produce.
type sessionScheduler struct {
	base    Scheduler
	session *Session
	after   func(*Session)
}

func (s sessionScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return s.base.AfterFunc(d, func() {
		if s.session.IsClosed() {
			return
		}
		f()
		s.after(s.session)
	})
}
