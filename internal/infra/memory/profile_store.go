package memory

import (
	"context"
	"sync"

	"game-arena/internal/domain"
)

// ProfileStore keeps user profiles in process memory.
type ProfileStore struct {
	mu       sync.Mutex
	profiles map[int64]domain.UserProfile
}

func NewProfileStore(profiles ...domain.UserProfile) *ProfileStore {
	s := &ProfileStore{profiles: make(map[int64]domain.UserProfile, len(profiles))}
	for _, p := range profiles {
		s.profiles[p.ID] = p
	}
	return s
}

func (s *ProfileStore) Get(_ context.Context, userID int64) (domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return domain.UserProfile{}, domain.ErrProfileNotFound
	}
	return p, nil
}

func (s *ProfileStore) Save(_ context.Context, profile domain.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.ID] = profile
	return nil
}

func (s *ProfileStore) AddXP(_ context.Context, userID int64, delta int) (domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return domain.UserProfile{}, domain.ErrProfileNotFound
	}
	p.XP += delta
	s.profiles[userID] = p
	return p, nil
}
