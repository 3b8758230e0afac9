package app

import "game-arena/internal/domain"

func (g *MatchingGame) Cards() []domain.Card {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]domain.Card, len(g.cards))
	copy(out, g.cards)
	return out
}

func (g *QuizGame) ClockState() CountdownState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.clock.State()
}

func (g *RPSGame) MaxScore() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.maxScoreLocked()
}
