package memory

import (
	"context"
	"errors"
	"testing"

	"game-arena/internal/domain"
)

func TestProfileStoreAddXP(t *testing.T) {
	ctx := context.Background()
	store := NewProfileStore(domain.UserProfile{ID: 1, Fullname: "Ana", XP: 10, Streak: 3})

	p, err := store.AddXP(ctx, 1, 15)
	if err != nil {
		t.Fatalf("add xp: %v", err)
	}
	if p.XP != 25 || p.Streak != 3 || p.Fullname != "Ana" {
		t.Fatalf("expected additive merge keeping other fields, got %+v", p)
	}

	if _, err := store.AddXP(ctx, 2, 5); !errors.Is(err, domain.ErrProfileNotFound) {
		t.Fatalf("expected profile not found, got %v", err)
	}
}
