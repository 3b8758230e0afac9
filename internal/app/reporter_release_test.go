package app

import (
	"context"
	"sync"
	"testing"

	"game-arena/internal/domain"
)

type mapSessions struct {
	mu   sync.Mutex
	byID map[string]*Session
}

func (m *mapSessions) Put(session *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[session.ID()] = session
}

func (m *mapSessions) Get(sessionID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byID[sessionID]
	return s, ok
}

func (m *mapSessions) Delete(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byID, sessionID)
}

type oneQuestion struct{}

func (oneQuestion) Load(context.Context, int64) ([]domain.Question, error) {
	return []domain.Question{
		{Question: "What is 2 + 2?", ChoiceA: "3", ChoiceB: "4", ChoiceC: "5", ChoiceD: "6", CorrectAnswer: "4"},
	}, nil
}

type flatScores struct{}

func (flatScores) SaveScore(context.Context, domain.FinalResult) (domain.ScoreReceipt, error) {
	return domain.ScoreReceipt{XPEarned: 10}, nil
}

func TestEndReleasesSubmissionRecord(t *testing.T) {
	ctx := context.Background()
	reporter := NewResultReporter(flatScores{}, nil, nil)
	service := NewGameService(oneQuestion{}, &mapSessions{byID: map[string]*Session{}}, reporter, Options{Seed: 1})

	snap, err := service.StartQuiz(ctx, 1, 7)
	if err != nil {
		t.Fatalf("start quiz: %v", err)
	}
	id := snap.SessionID
	for _, step := range []func() (domain.Snapshot, error){
		func() (domain.Snapshot, error) { return service.DismissInstructions(ctx, id) },
		func() (domain.Snapshot, error) { return service.SelectAnswer(ctx, id, "4") },
		func() (domain.Snapshot, error) { return service.Advance(ctx, id) },
	} {
		if snap, err = step(); err != nil {
			t.Fatalf("step: %v", err)
		}
	}
	if snap.Report == nil {
		t.Fatalf("expected finished quiz to report, got %+v", snap)
	}
	if n := len(reporter.submitted); n != 1 {
		t.Fatalf("expected one submission record, got %d", n)
	}

	service.End(ctx, id)
	if n := len(reporter.submitted); n != 0 {
		t.Fatalf("expected submission record released on end, got %d", n)
	}
	if _, err := service.Advance(ctx, id); err != domain.ErrSessionNotFound {
		t.Fatalf("expected ended session to be gone, got %v", err)
	}
}
