package app

import (
	"context"
	"errors"

	"game-arena/internal/domain"
	"go.uber.org/zap"
)

// QuestionSource fetches the question list of a module (remote API, database, cache).
type QuestionSource interface {
	FetchQuestions(ctx context.Context, moduleID int64) ([]domain.Question, error)
}

// QuestionLoader normalizes question fetches into either an ordered list or ErrEmptyResult.
type QuestionLoader struct {
	source QuestionSource
	log    *zap.Logger
}

func NewQuestionLoader(source QuestionSource, log *zap.Logger) *QuestionLoader {
	if log == nil {
		log = zap.NewNop()
	}
	return &QuestionLoader{source: source, log: log}
}

// Load returns the module's questions in source order. Fetch failures are
// logged and reported as ErrEmptyResult; nothing is retried.
func (l *QuestionLoader) Load(ctx context.Context, moduleID int64) ([]domain.Question, error) {
	questions, err := l.source.FetchQuestions(ctx, moduleID)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyResult) {
			return nil, domain.ErrEmptyResult
		}
		l.log.Warn("question fetch failed",
			zap.Int64("module_id", moduleID),
			zap.Error(err),
		)
		return nil, domain.ErrEmptyResult
	}
	if len(questions) == 0 {
		return nil, domain.ErrEmptyResult
	}
	return questions, nil
}
