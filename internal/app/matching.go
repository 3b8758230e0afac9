package app

import (
	"fmt"
	"time"

	"game-arena/internal/domain"
)

// MismatchDelay is how long two unmatched cards stay face up.
const MismatchDelay = 700 * time.Millisecond

// TapOutcome describes what a card tap did.
type TapOutcome int

const (
	TapIgnored TapOutcome = iota
	TapRevealed
	TapMatched
	TapMismatched
)

// MatchingGame pairs question cards with their answer cards.
type MatchingGame struct {
	finisher

	studentID int64
	moduleID  int64
	sched     Scheduler
	delay     time.Duration

	cards    []domain.Card
	byID     map[string]domain.Card
	selected []domain.Card
	matched  map[string]bool
	score    int
	pairs    int

	// hideGen invalidates hide callbacks scheduled before the latest evaluation.
	hideGen   int
	hideTimer Timer
}

// NewMatchingGame deals up to maxPairs question/answer pairs in shuffled order.
func NewMatchingGame(studentID, moduleID int64, questions []domain.Question, maxPairs int, sched Scheduler, rnd Randomness) (*MatchingGame, error) {
	if maxPairs <= 0 {
		maxPairs = DefaultLimits.MatchingPairs
	}
	if len(questions) > maxPairs {
		questions = questions[:maxPairs]
	}
	if len(questions) == 0 {
		return nil, domain.ErrEmptyResult
	}
	if sched == nil {
		sched = RealScheduler{}
	}

	cards := BuildDeck(questions)
	rnd.orDefault().Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })

	byID := make(map[string]domain.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}
	return &MatchingGame{
		studentID: studentID,
		moduleID:  moduleID,
		sched:     sched,
		delay:     MismatchDelay,
		cards:     cards,
		byID:      byID,
		matched:   make(map[string]bool, len(cards)),
		pairs:     len(questions),
	}, nil
}

// BuildDeck splits every question into a question card and an answer card sharing a pair id.
func BuildDeck(questions []domain.Question) []domain.Card {
	cards := make([]domain.Card, 0, 2*len(questions))
	for i, q := range questions {
		cards = append(cards,
			domain.Card{ID: fmt.Sprintf("Q%d", i), Half: domain.HalfQuestion, Pair: i, Text: q.Question},
			domain.Card{ID: fmt.Sprintf("A%d", i), Half: domain.HalfAnswer, Pair: i, Text: q.CorrectAnswer},
		)
	}
	return cards
}

func (g *MatchingGame) Kind() string { return KindMatching }

// Tick is a no-op; the matching game is untimed.
func (g *MatchingGame) Tick() {}

// TapCard flips a card. Taps are ignored while two cards await evaluation,
// for matched or unknown cards, and for a card that is already face up.
func (g *MatchingGame) TapCard(cardID string) TapOutcome {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.inactiveLocked() || len(g.selected) == 2 || g.matched[cardID] {
		return TapIgnored
	}
	card, ok := g.byID[cardID]
	if !ok {
		return TapIgnored
	}
	for _, s := range g.selected {
		if s.ID == cardID {
			return TapIgnored
		}
	}

	g.selected = append(g.selected, card)
	if len(g.selected) < 2 {
		return TapRevealed
	}

	a, b := g.selected[0], g.selected[1]
	g.hideGen++
	if a.Pair == b.Pair && a.Half != b.Half {
		g.matched[a.ID] = true
		g.matched[b.ID] = true
		g.score++
		g.selected = nil
		if len(g.matched) == len(g.cards) {
			g.finishLocked(domain.FinalResult{
				StudentID: g.studentID,
				ModuleID:  g.moduleID,
				GameName:  domain.GameMatching,
				Correct:   g.score,
				Total:     g.pairs,
			})
		}
		return TapMatched
	}

	gen := g.hideGen
	g.hideTimer = g.sched.AfterFunc(g.delay, func() { g.hide(gen) })
	return TapMismatched
}

// hide turns a mismatched pair face down again.
func (g *MatchingGame) hide(gen int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed || gen != g.hideGen {
		return
	}
	g.selected = nil
	g.hideTimer = nil
}

// Close stops the game and cancels a pending hide.
func (g *MatchingGame) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	g.hideGen++
	if g.hideTimer != nil {
		g.hideTimer.Stop()
		g.hideTimer = nil
	}
}

func (g *MatchingGame) View() any {
	g.mu.Lock()
	defer g.mu.Unlock()
	faceUp := make(map[string]bool, len(g.selected))
	for _, s := range g.selected {
		faceUp[s.ID] = true
	}
	cards := make([]domain.CardView, 0, len(g.cards))
	for _, c := range g.cards {
		v := domain.CardView{ID: c.ID, Matched: g.matched[c.ID]}
		v.Visible = v.Matched || faceUp[c.ID]
		if v.Visible {
			v.Text = c.Text
		}
		cards = append(cards, v)
	}
	return domain.MatchingView{
		Cards:    cards,
		Score:    g.score,
		Pairs:    g.pairs,
		Pending:  len(g.selected) == 2,
		Complete: g.result != nil,
	}
}
