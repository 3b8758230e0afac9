package app

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"game-arena/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionRepository abstracts where live game sessions are kept (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
}

// QuestionRepository yields the ordered questions of a module or ErrEmptyResult.
type QuestionRepository interface {
	Load(ctx context.Context, moduleID int64) ([]domain.Question, error)
}

// Options tunes a GameService. Zero values fall back to the arena defaults.
type Options struct {
	Limits Limits
	// TickInterval drives session clocks; zero or less leaves ticking to Tick.
	TickInterval time.Duration
	Scheduler    Scheduler
	// Seed makes card shuffles and CPU draws reproducible; zero seeds from the clock.
	Seed   int64
	NewID  func() string
	Now    func() time.Time
	Logger *zap.Logger
}

// GameService starts game sessions, routes player actions to them and reports
// their results when they complete.
type GameService struct {
	questions QuestionRepository
	sessions  SessionRepository
	reporter  *ResultReporter

	limits Limits
	tick   time.Duration
	sched  Scheduler
	seed   int64
	seq    atomic.Int64
	newID  func() string
	now    func() time.Time
	log    *zap.Logger
}

func NewGameService(questions QuestionRepository, sessions SessionRepository, reporter *ResultReporter, opts Options) *GameService {
	s := &GameService{
		questions: questions,
		sessions:  sessions,
		reporter:  reporter,
		limits:    opts.Limits,
		tick:      opts.TickInterval,
		sched:     opts.Scheduler,
		seed:      opts.Seed,
		newID:     opts.NewID,
		now:       opts.Now,
		log:       opts.Logger,
	}
	if s.limits == (Limits{}) {
		s.limits = DefaultLimits
	}
	if s.sched == nil {
		s.sched = RealScheduler{}
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.seed == 0 {
		s.seed = time.Now().UnixNano()
	}
	return s
}

// StartQuiz loads the module's questions and opens a quiz session.
func (s *GameService) StartQuiz(ctx context.Context, studentID, moduleID int64) (domain.Snapshot, error) {
	questions, err := s.questions.Load(ctx, moduleID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return s.start(KindQuiz, studentID, moduleID, func(_ Scheduler, rnd Randomness) (Game, error) {
		return NewQuizGame(studentID, moduleID, questions, s.limits.QuizTimeLimit, rnd)
	})
}

// StartMatching loads the module's questions and deals a matching deck.
func (s *GameService) StartMatching(ctx context.Context, studentID, moduleID int64) (domain.Snapshot, error) {
	questions, err := s.questions.Load(ctx, moduleID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return s.start(KindMatching, studentID, moduleID, func(sched Scheduler, rnd Randomness) (Game, error) {
		return NewMatchingGame(studentID, moduleID, questions, s.limits.MatchingPairs, sched, rnd)
	})
}

// StartRPS opens a rock-paper-scissors session. Without a mode it waits at the
// menu. A module without questions still plays, with no bonus rounds.
func (s *GameService) StartRPS(ctx context.Context, studentID, moduleID int64, mode domain.RPSMode) (domain.Snapshot, error) {
	questions, err := s.questions.Load(ctx, moduleID)
	if err != nil && !errors.Is(err, domain.ErrEmptyResult) {
		return domain.Snapshot{}, err
	}
	return s.start(KindRPS, studentID, moduleID, func(_ Scheduler, rnd Randomness) (Game, error) {
		game := NewRPSGame(studentID, moduleID, questions, s.limits, rnd)
		if mode != "" && mode != domain.ModeMenu {
			if err := game.ChooseMode(mode); err != nil {
				return nil, err
			}
		}
		return game, nil
	})
}

func (s *GameService) start(kind string, studentID, moduleID int64, build func(Scheduler, Randomness) (Game, error)) (domain.Snapshot, error) {
	session := newSession(s.newID(), studentID, s.now)
	sched := sessionScheduler{base: s.sched, session: session, after: func(sess *Session) { s.publish(sess) }}

	game, err := build(sched, SeededRandomness(s.seed+s.seq.Add(1)))
	if err != nil {
		session.cancel()
		return domain.Snapshot{}, err
	}
	session.attach(game)
	s.sessions.Put(session)
	if s.tick > 0 && kind != KindMatching {
		go s.runClock(session)
	}

	s.log.Info("game session started",
		zap.String("session_id", session.id),
		zap.String("game", kind),
		zap.Int64("student_id", studentID),
		zap.Int64("module_id", moduleID),
	)
	return session.Snapshot(), nil
}

// runClock ticks the session once per interval until it completes or is torn down.
func (s *GameService) runClock(session *Session) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-session.ctx.Done():
			return
		case <-ticker.C:
			if session.IsClosed() {
				return
			}
			session.Game().Tick()
			if snap := s.publish(session); snap.Result != nil {
				return
			}
		}
	}
}

// publish reports a newly completed result, then broadcasts the session state.
func (s *GameService) publish(session *Session) domain.Snapshot {
	if res, ok := session.Game().Result(); ok && s.reporter != nil && session.beginReport() {
		report, err := s.reporter.Report(session.ctx, session.id, res)
		if !errors.Is(err, domain.ErrAlreadySubmitted) {
			session.setReport(report)
		}
		// End may have run while the report was in flight.
		if session.IsClosed() {
			s.reporter.release(session.id)
		}
	}
	return session.broadcast()
}

// Tick advances the session clock by one second.
func (s *GameService) Tick(_ context.Context, sessionID string) (domain.Snapshot, error) {
	return withGame(s, sessionID, func(g Game) error {
		g.Tick()
		return nil
	})
}

func (s *GameService) DismissInstructions(_ context.Context, sessionID string) (domain.Snapshot, error) {
	return withGame(s, sessionID, func(g *QuizGame) error {
		g.DismissInstructions()
		return nil
	})
}

func (s *GameService) OpenHint(_ context.Context, sessionID string) (domain.Snapshot, error) {
	return withGame(s, sessionID, func(g *QuizGame) error {
		g.OpenHint()
		return nil
	})
}

func (s *GameService) CloseHint(_ context.Context, sessionID string) (domain.Snapshot, error) {
	return withGame(s, sessionID, func(g *QuizGame) error {
		g.CloseHint()
		return nil
	})
}

func (s *GameService) UseHint(_ context.Context, sessionID string) (domain.Snapshot, error) {
	return withGame(s, sessionID, func(g *QuizGame) error {
		g.UseHint()
		return nil
	})
}

// SelectAnswer answers the current quiz question.
func (s *GameService) SelectAnswer(_ context.Context, sessionID, answer string) (domain.Snapshot, error) {
	return withGame(s, sessionID, func(g *QuizGame) error {
		g.SelectAnswer(answer)
		return nil
	})
}

// Advance moves the quiz past a revealed answer.
func (s *GameService) Advance(_ context.Context, sessionID string) (domain.Snapshot, error) {
	return withGame(s, sessionID, func(g *QuizGame) error {
		g.Advance()
		return nil
	})
}

// TapCard flips a matching card.
func (s *GameService) TapCard(_ context.Context, sessionID, cardID string) (domain.Snapshot, error) {
	return withGame(s, sessionID, func(g *MatchingGame) error {
		g.TapCard(cardID)
		return nil
	})
}

// ChooseMode selects classic or challenge play and restarts the RPS game.
func (s *GameService) ChooseMode(_ context.Context, sessionID string, mode domain.RPSMode) (domain.Snapshot, error) {
	return withGame(s, sessionID, func(g *RPSGame) error {
		return g.ChooseMode(mode)
	})
}

// Play plays one RPS round.
func (s *GameService) Play(_ context.Context, sessionID string, hand domain.Hand) (domain.Snapshot, error) {
	return withGame(s, sessionID, func(g *RPSGame) error {
		_, err := g.Play(hand)
		return err
	})
}

// AnswerBonus answers the open challenge question.
func (s *GameService) AnswerBonus(_ context.Context, sessionID, answer string) (domain.Snapshot, error) {
	return withGame(s, sessionID, func(g *RPSGame) error {
		g.AnswerBonus(answer)
		return nil
	})
}

// Snapshot returns the current state of a session.
func (s *GameService) Snapshot(_ context.Context, sessionID string) (domain.Snapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	return session.Snapshot(), nil
}

// Subscribe returns a channel that receives the session's snapshots.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *GameService) Subscribe(_ context.Context, sessionID string) (<-chan domain.Snapshot, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// End tears a session down: clocks stop, pending timers and in-flight
// submissions are cancelled, and later callbacks become no-ops.
func (s *GameService) End(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.close()
	s.sessions.Delete(sessionID)
	if s.reporter != nil {
		s.reporter.release(sessionID)
	}
	s.log.Debug("game session ended", zap.String("session_id", sessionID))
}

func withGame[T any](s *GameService, sessionID string, fn func(T) error) (domain.Snapshot, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.Snapshot{}, domain.ErrSessionNotFound
	}
	if session.IsClosed() {
		return domain.Snapshot{}, domain.ErrSessionClosed
	}
	game, ok := session.Game().(T)
	if !ok {
		return session.Snapshot(), domain.ErrWrongGame
	}
	if err := fn(game); err != nil {
		return session.Snapshot(), err
	}
	return s.publish(session), nil
}
