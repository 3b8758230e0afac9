package app_test

import (
	"errors"
	"testing"

	"game-arena/internal/app"
	"game-arena/internal/domain"
)

func newMatching(t *testing.T, sched app.Scheduler) *app.MatchingGame {
	t.Helper()
	game, err := app.NewMatchingGame(1, 7, sampleQuestions(), 3, sched, fixedOrder())
	if err != nil {
		t.Fatalf("new matching: %v", err)
	}
	return game
}

func matchingView(g *app.MatchingGame) domain.MatchingView {
	return g.View().(domain.MatchingView)
}

func TestBuildDeckCapsPairs(t *testing.T) {
	game := newMatching(t, &fakeScheduler{})
	cards := game.Cards()
	if len(cards) != 6 {
		t.Fatalf("expected 6 cards, got %d", len(cards))
	}
	for i, want := range []string{"Q0", "A0", "Q1", "A1", "Q2", "A2"} {
		if cards[i].ID != want {
			t.Fatalf("card %d: expected %s, got %s", i, want, cards[i].ID)
		}
	}
	if cards[1].Half != domain.HalfAnswer || cards[1].Text != "4" || cards[1].Pair != 0 {
		t.Fatalf("unexpected answer card %+v", cards[1])
	}
}

func TestMatchingAllPairs(t *testing.T) {
	game := newMatching(t, &fakeScheduler{})
	for _, pair := range [][2]string{{"A2", "Q2"}, {"Q0", "A0"}, {"A1", "Q1"}} {
		game.TapCard(pair[0])
		if out := game.TapCard(pair[1]); out != app.TapMatched {
			t.Fatalf("expected match for %v, got %v", pair, out)
		}
	}
	res, done := game.Result()
	if !done {
		t.Fatalf("expected finished matching game")
	}
	want := domain.FinalResult{StudentID: 1, ModuleID: 7, GameName: domain.GameMatching, Correct: 3, Total: 3}
	if res != want {
		t.Fatalf("expected %+v, got %+v", want, res)
	}
}

func TestMatchingMismatchHidesAfterDelay(t *testing.T) {
	sched := &fakeScheduler{}
	game := newMatching(t, sched)

	game.TapCard("Q0")
	if out := game.TapCard("A1"); out != app.TapMismatched {
		t.Fatalf("expected mismatch, got %v", out)
	}
	timers := sched.timers()
	if len(timers) != 1 || timers[0].delay != app.MismatchDelay {
		t.Fatalf("expected one hide timer at %v, got %+v", app.MismatchDelay, timers)
	}
	if out := game.TapCard("Q2"); out != app.TapIgnored {
		t.Fatalf("third tap must be ignored while pending, got %v", out)
	}
	if v := matchingView(game); !v.Pending || v.Score != 0 {
		t.Fatalf("expected pending mismatch, got %+v", v)
	}

	if sched.Fire() != 1 {
		t.Fatalf("expected hide callback to run")
	}
	for _, c := range matchingView(game).Cards {
		if c.Visible {
			t.Fatalf("card %s still face up after hide", c.ID)
		}
	}
	if out := game.TapCard("Q2"); out != app.TapRevealed {
		t.Fatalf("expected tap to reveal after hide, got %v", out)
	}
}

func TestMatchingIgnoresRepeatedAndMatchedCards(t *testing.T) {
	game := newMatching(t, &fakeScheduler{})

	game.TapCard("Q0")
	if out := game.TapCard("Q0"); out != app.TapIgnored {
		t.Fatalf("tapping the same card twice must be ignored, got %v", out)
	}
	game.TapCard("A0")
	if out := game.TapCard("A0"); out != app.TapIgnored {
		t.Fatalf("matched card must be ignored, got %v", out)
	}
	if out := game.TapCard("Z9"); out != app.TapIgnored {
		t.Fatalf("unknown card must be ignored, got %v", out)
	}
	if v := matchingView(game); v.Score != 1 || v.Pending {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestMatchingTwoQuestionCardsMismatch(t *testing.T) {
	game := newMatching(t, &fakeScheduler{})
	game.TapCard("Q0")
	if out := game.TapCard("Q1"); out != app.TapMismatched {
		t.Fatalf("expected mismatch, got %v", out)
	}
}

func TestMatchingCloseStopsHideTimer(t *testing.T) {
	sched := &fakeScheduler{}
	game := newMatching(t, sched)
	game.TapCard("Q0")
	game.TapCard("A1")

	timers := sched.timers()
	game.Close()
	if !timers[0].stopped {
		t.Fatalf("expected pending hide timer to be stopped")
	}
	if sched.Fire() != 0 {
		t.Fatalf("stopped timer must not fire")
	}
	if out := game.TapCard("Q2"); out != app.TapIgnored {
		t.Fatalf("closed game must ignore taps, got %v", out)
	}
}

func TestMatchingEmptyQuestionList(t *testing.T) {
	if _, err := app.NewMatchingGame(1, 7, nil, 3, nil, app.Randomness{}); !errors.Is(err, domain.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}
