package app

import (
	"context"
	"errors"
	"sync"

	"game-arena/internal/domain"
	"go.uber.org/zap"
)

// ScoreSubmitter saves a final result and returns the XP it earned.
type ScoreSubmitter interface {
	SaveScore(ctx context.Context, result domain.FinalResult) (domain.ScoreReceipt, error)
}

// ProfileStore holds the locally persisted user profile.
type ProfileStore interface {
	Get(ctx context.Context, userID int64) (domain.UserProfile, error)
	Save(ctx context.Context, profile domain.UserProfile) error
	// AddXP adds delta to the stored XP and returns the updated profile.
	AddXP(ctx context.Context, userID int64, delta int) (domain.UserProfile, error)
}

// ResultReporter submits each completed session's result at most once and
// merges the earned XP into the local profile.
type ResultReporter struct {
	scores   ScoreSubmitter
	profiles ProfileStore
	log      *zap.Logger

	mu        sync.Mutex
	submitted map[string]struct{}
}

func NewResultReporter(scores ScoreSubmitter, profiles ProfileStore, log *zap.Logger) *ResultReporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &ResultReporter{
		scores:    scores,
		profiles:  profiles,
		log:       log,
		submitted: make(map[string]struct{}),
	}
}

// Report sends result for sessionID. A second call for the same session returns
// ErrAlreadySubmitted without contacting the API, whether or not the first one
// succeeded. On a failed submission the XP merge is skipped.
func (r *ResultReporter) Report(ctx context.Context, sessionID string, result domain.FinalResult) (domain.ScoreReport, error) {
	if !r.claim(sessionID) {
		return domain.ScoreReport{}, domain.ErrAlreadySubmitted
	}

	if result.Total <= 0 {
		result.Total = 1
	}
	if result.Correct < 0 {
		result.Correct = 0
	}
	if result.Correct > result.Total {
		result.Correct = result.Total
	}
	report := domain.ScoreReport{Result: result, Percentage: result.Percentage()}

	receipt, err := r.scores.SaveScore(ctx, result)
	if err != nil {
		r.log.Error("save score failed",
			zap.String("session_id", sessionID),
			zap.String("game", result.GameName),
			zap.Error(err),
		)
		report.Error = err.Error()
		return report, err
	}
	report.XPEarned = receipt.XPEarned

	// A torn-down session must not touch the profile.
	if err := ctx.Err(); err != nil {
		return report, err
	}
	if r.profiles == nil {
		return report, nil
	}
	profile, err := r.profiles.AddXP(ctx, result.StudentID, receipt.XPEarned)
	switch {
	case errors.Is(err, domain.ErrProfileNotFound):
		r.log.Debug("no cached profile, xp merge skipped", zap.Int64("student_id", result.StudentID))
		return report, nil
	case err != nil:
		r.log.Error("xp merge failed", zap.Int64("student_id", result.StudentID), zap.Error(err))
		report.Error = err.Error()
		return report, err
	}
	report.Merged = true
	r.log.Info("result reported",
		zap.String("session_id", sessionID),
		zap.String("game", result.GameName),
		zap.Int("correct", result.Correct),
		zap.Int("total", result.Total),
		zap.Int("xp_earned", receipt.XPEarned),
		zap.Int("xp", profile.XP),
	)
	return report, nil
}

func (r *ResultReporter) claim(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.submitted[sessionID]; ok {
		return false
	}
	r.submitted[sessionID] = struct{}{}
	return true
}

// release drops the submission record of an ended session. The session's own
// report slot keeps a closed session from reporting again.
func (r *ResultReporter) release(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.submitted, sessionID)
}
