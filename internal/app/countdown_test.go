package app_test

import (
	"testing"

	"game-arena/internal/app"
)

func TestCountdownLifecycle(t *testing.T) {
	c := app.NewCountdown(3)
	if c.State() != app.CountdownPaused || c.Left() != 3 {
		t.Fatalf("expected paused at 3, got %s at %d", c.State(), c.Left())
	}
	if c.Tick() || c.Left() != 3 {
		t.Fatalf("paused countdown must not tick")
	}

	c.Resume()
	c.Tick()
	c.Pause()
	c.Tick()
	if c.Left() != 2 {
		t.Fatalf("expected 2 left, got %d", c.Left())
	}

	c.Resume()
	if c.Tick() {
		t.Fatalf("expired early at %d", c.Left())
	}
	if !c.Tick() {
		t.Fatalf("expected expiry on reaching zero")
	}
	if c.State() != app.CountdownExpired {
		t.Fatalf("expected expired, got %s", c.State())
	}
	c.Resume()
	if c.Tick() || c.State() != app.CountdownExpired {
		t.Fatalf("expired countdown must stay expired")
	}

	c.Reset()
	if c.State() != app.CountdownPaused || c.Left() != 3 {
		t.Fatalf("expected reset to paused at 3, got %s at %d", c.State(), c.Left())
	}
}

func TestSeededRandomnessIsReproducible(t *testing.T) {
	a, b := app.SeededRandomness(42), app.SeededRandomness(42)
	for i := 0; i < 20; i++ {
		if x, y := a.Choose(3), b.Choose(3); x != y {
			t.Fatalf("draw %d differs: %d vs %d", i, x, y)
		}
	}
}
