package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"game-arena/internal/domain"
	"github.com/redis/go-redis/v9"
)

// addXPScript increments xp only for a profile that is already cached.
var addXPScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return false
end
return redis.call("HINCRBY", KEYS[1], "xp", ARGV[1])
`)

// ProfileStore keeps user profiles as hashes:
// HSET arena:user:{id} id fullname avatar xp streak
type ProfileStore struct {
	client *redis.Client
}

func NewProfileStore(client *redis.Client) *ProfileStore {
	return &ProfileStore{client: client}
}

func (s *ProfileStore) Get(ctx context.Context, userID int64) (domain.UserProfile, error) {
	fields, err := s.client.HGetAll(ctx, s.key(userID)).Result()
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("get profile: %w", err)
	}
	if len(fields) == 0 {
		return domain.UserProfile{}, domain.ErrProfileNotFound
	}
	return profileFromHash(userID, fields), nil
}

func (s *ProfileStore) Save(ctx context.Context, profile domain.UserProfile) error {
	err := s.client.HSet(ctx, s.key(profile.ID),
		"id", profile.ID,
		"fullname", profile.Fullname,
		"avatar", profile.Avatar,
		"xp", profile.XP,
		"streak", profile.Streak,
	).Err()
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *ProfileStore) AddXP(ctx context.Context, userID int64, delta int) (domain.UserProfile, error) {
	err := addXPScript.Run(ctx, s.client, []string{s.key(userID)}, delta).Err()
	if errors.Is(err, redis.Nil) {
		return domain.UserProfile{}, domain.ErrProfileNotFound
	}
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("add xp: %w", err)
	}
	return s.Get(ctx, userID)
}

func (s *ProfileStore) key(userID int64) string {
	return "arena:user:" + strconv.FormatInt(userID, 10)
}

// profileFromHash treats missing or malformed fields as zero values.
func profileFromHash(userID int64, fields map[string]string) domain.UserProfile {
	xp, _ := strconv.Atoi(fields["xp"])
	streak, _ := strconv.Atoi(fields["streak"])
	return domain.UserProfile{
		ID:       userID,
		Fullname: fields["fullname"],
		Avatar:   fields["avatar"],
		XP:       xp,
		Streak:   streak,
	}
}
