package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"game-arena/internal/app"
	"game-arena/internal/domain"
)

func TestQuestionCacheCaches(t *testing.T) {
	source := &countingSource{
		QuestionSource: NewStaticQuestionSource(map[int64][]domain.Question{
			7: sampleQuestions(),
		}),
	}
	cache := NewQuestionCache(source, time.Minute)

	got, err := cache.FetchQuestions(context.Background(), 7)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(got) != 2 || got[0].ID != "1" {
		t.Fatalf("expected ordered questions, got %+v", got)
	}
	if source.calls != 1 {
		t.Fatalf("expected source once, got %d", source.calls)
	}

	got[0].Question = "mutated"
	again, err := cache.FetchQuestions(context.Background(), 7)
	if err != nil {
		t.Fatalf("fetch 2: %v", err)
	}
	if source.calls != 1 {
		t.Fatalf("expected cache hit, source calls %d", source.calls)
	}
	if again[0].Question != "What is 2 + 2?" {
		t.Fatalf("cached questions were mutated by a caller")
	}
}

func TestQuestionCacheExpires(t *testing.T) {
	source := &countingSource{
		QuestionSource: NewStaticQuestionSource(map[int64][]domain.Question{7: sampleQuestions()}),
	}
	cache := NewQuestionCache(source, time.Minute)
	now := time.Now()
	cache.clock = func() time.Time { return now }

	_, _ = cache.FetchQuestions(context.Background(), 7)
	now = now.Add(2 * time.Minute)
	_, _ = cache.FetchQuestions(context.Background(), 7)
	if source.calls != 2 {
		t.Fatalf("expected reload after ttl, source calls %d", source.calls)
	}
}

func TestQuestionCacheDoesNotCacheErrors(t *testing.T) {
	source := &countingSource{QuestionSource: NewStaticQuestionSource(nil)}
	cache := NewQuestionCache(source, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := cache.FetchQuestions(context.Background(), 9); !errors.Is(err, domain.ErrEmptyResult) {
			t.Fatalf("expected empty result, got %v", err)
		}
	}
	if source.calls != 2 {
		t.Fatalf("expected misses to reach the source, calls %d", source.calls)
	}
}

type countingSource struct {
	app.QuestionSource
	calls int
}

func (s *countingSource) FetchQuestions(ctx context.Context, moduleID int64) ([]domain.Question, error) {
	s.calls++
	return s.QuestionSource.FetchQuestions(ctx, moduleID)
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: "1", Question: "What is 2 + 2?", ChoiceA: "3", ChoiceB: "4", ChoiceC: "5", ChoiceD: "6", CorrectAnswer: "4"},
		{ID: "2", Question: "Capital of France?", ChoiceA: "Rome", ChoiceB: "Madrid", ChoiceC: "Paris", ChoiceD: "Oslo", CorrectAnswer: "Paris"},
	}
}
