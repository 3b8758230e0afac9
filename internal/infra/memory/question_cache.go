package memory

import (
	"context"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"game-arena/internal/app"
	"game-arena/internal/domain"
	"golang.org/x/sync/singleflight"
)

// QuestionCache caches module question sets with TTL to avoid repeated API calls.
type QuestionCache struct {
	source app.QuestionSource
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand
	rndMu  sync.Mutex

	mu    sync.RWMutex
	cache map[int64]cachedQuestions
}

type cachedQuestions struct {
	questions []domain.Question
	expiresAt time.Time
}

func NewQuestionCache(source app.QuestionSource, ttl time.Duration) *QuestionCache {
	return &QuestionCache{
		source: source,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[int64]cachedQuestions),
	}
}

func (c *QuestionCache) FetchQuestions(ctx context.Context, moduleID int64) ([]domain.Question, error) {
	if questions, ok := c.lookup(moduleID); ok {
		return questions, nil
	}

	result, err, _ := c.sf.Do(strconv.FormatInt(moduleID, 10), func() (interface{}, error) {
		if questions, ok := c.lookup(moduleID); ok {
			return questions, nil
		}

		questions, err := c.source.FetchQuestions(ctx, moduleID)
		if err != nil {
			return nil, err
		}
		// empty sets are not cached so a later publish shows up immediately
		if len(questions) == 0 {
			return questions, nil
		}

		c.mu.Lock()
		c.cache[moduleID] = cachedQuestions{
			questions: questions,
			expiresAt: c.clock().Add(c.ttlWithJitter()),
		}
		c.mu.Unlock()
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return clone(result.([]domain.Question)), nil
}

func (c *QuestionCache) lookup(moduleID int64) ([]domain.Question, bool) {
	now := c.clock()
	c.mu.RLock()
	defer c.mu.RUnlock()
	if entry, ok := c.cache[moduleID]; ok && entry.expiresAt.After(now) {
		return clone(entry.questions), true
	}
	return nil, false
}

func (c *QuestionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}

// clone keeps callers from mutating the cached slice.
func clone(questions []domain.Question) []domain.Question {
	if questions == nil {
		return nil
	}
	out := make([]domain.Question, len(questions))
	copy(out, questions)
	return out
}

// StaticQuestionSource is a simple source backed by an in-memory map (useful for tests/demos).
type StaticQuestionSource struct {
	questions map[int64][]domain.Question
}

func NewStaticQuestionSource(questions map[int64][]domain.Question) *StaticQuestionSource {
	return &StaticQuestionSource{questions: questions}
}

func (s *StaticQuestionSource) FetchQuestions(_ context.Context, moduleID int64) ([]domain.Question, error) {
	if questions, ok := s.questions[moduleID]; ok {
		return clone(questions), nil
	}
	return nil, domain.ErrEmptyResult
}
