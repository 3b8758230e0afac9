package app

import (
	"sync"

	"game-arena/internal/domain"
)

// Game kinds accepted by the service and the transport.
const (
	KindQuiz     = "quiz"
	KindMatching = "matching"
	KindRPS      = "rps"
)

// Game is one running mini-game state machine.
type Game interface {
	Kind() string
	// Tick advances the round clock by one second.
	Tick()
	// View returns the screen state.
	View() any
	// Result reports the final result once the game is complete.
	Result() (domain.FinalResult, bool)
	// Close tears the game down; later calls on it are no-ops.
	Close()
}

// Limits holds the timing and size constants of the games.
type Limits struct {
	QuizTimeLimit  int
	BonusTimeLimit int
	RPSRounds      int
	MatchingPairs  int
}

// DefaultLimits mirrors the arena screens.
var DefaultLimits = Limits{
	QuizTimeLimit:  10,
	BonusTimeLimit: 10,
	RPSRounds:      5,
	MatchingPairs:  3,
}

// finisher holds the shared terminal state of a game.
type finisher struct {
	mu     sync.Mutex
	result *domain.FinalResult
	closed bool
}

func (f *finisher) finishLocked(result domain.FinalResult) {
	if f.result != nil {
		return
	}
	if result.Correct > result.Total {
		result.Correct = result.Total
	}
	if result.Correct < 0 {
		result.Correct = 0
	}
	f.result = &result
}

// inactiveLocked is true once the game finished or was torn down.
func (f *finisher) inactiveLocked() bool {
	return f.closed || f.result != nil
}

func (f *finisher) Result() (domain.FinalResult, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.result == nil {
		return domain.FinalResult{}, false
	}
	return *f.result, true
}

func choiceViews(q domain.Question, eliminated map[domain.ChoiceKey]bool) []domain.ChoiceView {
	out := make([]domain.ChoiceView, 0, len(domain.ChoiceKeys))
	for _, key := range domain.ChoiceKeys {
		out = append(out, domain.ChoiceView{
			Key:        key,
			Text:       q.Choice(key),
			Eliminated: eliminated[key],
		})
	}
	return out
}
