package app_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"game-arena/internal/app"
	"game-arena/internal/domain"
	"game-arena/internal/infra/memory"
)

type fakeScores struct {
	mu       sync.Mutex
	xp       int
	err      error
	received []domain.FinalResult
}

func (f *fakeScores) SaveScore(_ context.Context, result domain.FinalResult) (domain.ScoreReceipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.received = append(f.received, result)
	if f.err != nil {
		return domain.ScoreReceipt{}, f.err
	}
	return domain.ScoreReceipt{XPEarned: f.xp}, nil
}

func (f *fakeScores) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.received)
}

func quizResult(correct, total int) domain.FinalResult {
	return domain.FinalResult{StudentID: 1, ModuleID: 7, GameName: domain.GameQuiz, Correct: correct, Total: total}
}

func TestReportMergesXPOnce(t *testing.T) {
	ctx := context.Background()
	scores := &fakeScores{xp: 20}
	profiles := memory.NewProfileStore(domain.UserProfile{ID: 1, Fullname: "Ana", XP: 100})
	reporter := app.NewResultReporter(scores, profiles, nil)

	report, err := reporter.Report(ctx, "s1", quizResult(3, 4))
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !report.Merged || report.XPEarned != 20 || report.Percentage != 75 {
		t.Fatalf("unexpected report %+v", report)
	}
	if _, err := reporter.Report(ctx, "s1", quizResult(3, 4)); !errors.Is(err, domain.ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
	if p, _ := profiles.Get(ctx, 1); p.XP != 120 {
		t.Fatalf("expected xp 120, got %d", p.XP)
	}
	if scores.calls() != 1 {
		t.Fatalf("expected one submission, got %d", scores.calls())
	}
}

func TestReportNetworkFailureSkipsMerge(t *testing.T) {
	ctx := context.Background()
	scores := &fakeScores{xp: 20, err: &domain.NetworkError{Op: "save score", Status: 502}}
	profiles := memory.NewProfileStore(domain.UserProfile{ID: 1, XP: 100})
	reporter := app.NewResultReporter(scores, profiles, nil)

	report, err := reporter.Report(ctx, "s1", quizResult(1, 2))
	var netErr *domain.NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected network error, got %v", err)
	}
	if report.Merged || report.Error == "" || report.Percentage != 50 {
		t.Fatalf("unexpected report %+v", report)
	}
	if p, _ := profiles.Get(ctx, 1); p.XP != 100 {
		t.Fatalf("xp must be unchanged, got %d", p.XP)
	}
	if _, err := reporter.Report(ctx, "s1", quizResult(1, 2)); !errors.Is(err, domain.ErrAlreadySubmitted) {
		t.Fatalf("failed submissions must not be retried, got %v", err)
	}
	if scores.calls() != 1 {
		t.Fatalf("expected one submission attempt, got %d", scores.calls())
	}
}

func TestReportWithoutCachedProfile(t *testing.T) {
	reporter := app.NewResultReporter(&fakeScores{xp: 15}, memory.NewProfileStore(), nil)
	report, err := reporter.Report(context.Background(), "s1", quizResult(2, 2))
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Merged || report.XPEarned != 15 {
		t.Fatalf("expected unmerged 15 xp report, got %+v", report)
	}
}

func TestReportCancelledSessionSkipsMerge(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	profiles := memory.NewProfileStore(domain.UserProfile{ID: 1, XP: 100})
	reporter := app.NewResultReporter(&fakeScores{xp: 20}, profiles, nil)

	if _, err := reporter.Report(ctx, "s1", quizResult(1, 1)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if p, _ := profiles.Get(context.Background(), 1); p.XP != 100 {
		t.Fatalf("xp must be unchanged, got %d", p.XP)
	}
}

func TestReportClampsResult(t *testing.T) {
	scores := &fakeScores{}
	reporter := app.NewResultReporter(scores, nil, nil)

	report, err := reporter.Report(context.Background(), "s1", quizResult(5, 0))
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.Result.Correct != 1 || report.Result.Total != 1 || report.Percentage != 100 {
		t.Fatalf("expected clamped 1/1, got %+v", report)
	}
	if got := scores.received[0]; got.Correct != 1 || got.Total != 1 {
		t.Fatalf("expected clamped submission, got %+v", got)
	}
}
