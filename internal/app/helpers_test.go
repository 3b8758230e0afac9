package app_test

import (
	"sync"
	"time"

	"game-arena/internal/app"
	"game-arena/internal/domain"
)

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: "1", Question: "What is 2 + 2?", ChoiceA: "3", ChoiceB: "4", ChoiceC: "5", ChoiceD: "6", CorrectAnswer: "4"},
		{ID: "2", Question: "Capital of France?", ChoiceA: "Paris", ChoiceB: "Rome", ChoiceC: "Madrid", ChoiceD: "Berlin", CorrectAnswer: "Paris"},
		{ID: "3", Question: "Largest planet?", ChoiceA: "Mars", ChoiceB: "Venus", ChoiceC: "Jupiter", ChoiceD: "Earth", CorrectAnswer: "Jupiter"},
		{ID: "4", Question: "H2O is?", ChoiceA: "Salt", ChoiceB: "Water", ChoiceC: "Air", ChoiceD: "Gold", CorrectAnswer: "Water"},
	}
}

// fixedOrder keeps decks in build order and draws CPU hands from seq.
func fixedOrder(seq ...domain.Hand) app.Randomness {
	var (
		mu sync.Mutex
		i  int
	)
	return app.Randomness{
		Shuffle: func(int, func(i, j int)) {},
		Choose: func(n int) int {
			mu.Lock()
			defer mu.Unlock()
			if len(seq) == 0 {
				return 0
			}
			h := seq[i%len(seq)]
			i++
			for idx, candidate := range domain.Hands {
				if candidate == h {
					return idx
				}
			}
			return 0
		},
	}
}

type fakeTimer struct {
	f       func()
	delay   time.Duration
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeScheduler collects callbacks until Fire runs them.
type fakeScheduler struct {
	mu      sync.Mutex
	pending []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) app.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{f: f, delay: d}
	s.pending = append(s.pending, t)
	return t
}

// Fire runs every pending, unstopped callback and returns how many ran.
func (s *fakeScheduler) Fire() int {
	s.mu.Lock()
	due := s.pending
	s.pending = nil
	s.mu.Unlock()

	ran := 0
	for _, t := range due {
		if t.stopped || t.fired {
			continue
		}
		t.fired = true
		t.f()
		ran++
	}
	return ran
}

func (s *fakeScheduler) timers() []*fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*fakeTimer, len(s.pending))
	copy(out, s.pending)
	return out
}
