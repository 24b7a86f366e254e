// Package profile persists a user's team choice in a per-user Redis hash.
//
// The caller passes the authenticated Identity explicitly; there is no
// process-wide "current user".
package profile

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sternrassler/pokedex-client/pkg/logging"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// KeyPrefix is the Redis key namespace for user documents.
const KeyPrefix = "users:"

// Document field names.
const (
	FieldEmail = "email"
	FieldTeam  = "team"
)

var (
	// ErrUnauthenticated is returned when no identity is supplied.
	ErrUnauthenticated = errors.New("no authenticated user")

	// ErrInvalidTeam is returned for a team outside Teams().
	ErrInvalidTeam = errors.New("invalid team")
)

// Identity is the authenticated caller.
type Identity struct {
	UID   string
	Email string
}

// Profile is a user's stored profile. Empty Email or Team means absent.
type Profile struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	Team  string `json:"team,omitempty"`
}

// Store reads and writes user documents.
type Store struct {
	redis  *redis.Client
	logger zerolog.Logger
}

// NewStore creates a store on redisClient.
func NewStore(redisClient *redis.Client) *Store {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &Store{
		redis:  redisClient,
		logger: logging.NewLogger(logging.ComponentProfile),
	}
}

// Key returns the document key for uid.
func Key(uid string) string {
	return KeyPrefix + uid
}

// GetProfile returns the caller's profile. UID and Email come from the
// identity; Team comes from the stored document, if any.
func (s *Store) GetProfile(ctx context.Context, id *Identity) (*Profile, error) {
	if id == nil || id.UID == "" {
		return nil, ErrUnauthenticated
	}

	team, err := s.redis.HGet(ctx, Key(id.UID), FieldTeam).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		s.logger.Error().Err(err).Str("uid", id.UID).Msg("Profile read failed")
		return nil, fmt.Errorf("read profile %s: %w", id.UID, err)
	}

	return &Profile{
		UID:   id.UID,
		Email: id.Email,
		Team:  team,
	}, nil
}

// SaveTeam merge-writes email and team into the caller's document. Other
// fields already in the document are preserved.
func (s *Store) SaveTeam(ctx context.Context, id *Identity, team string) error {
	if id == nil || id.UID == "" {
		return ErrUnauthenticated
	}
	if !ValidTeam(team) {
		return fmt.Errorf("%w: %q", ErrInvalidTeam, team)
	}

	fields := map[string]any{FieldTeam: team}
	if id.Email != "" {
		fields[FieldEmail] = id.Email
	}

	if err := s.redis.HSet(ctx, Key(id.UID), fields).Err(); err != nil {
		s.logger.Error().Err(err).Str("uid", id.UID).Msg("Team save failed")
		return fmt.Errorf("save team for %s: %w", id.UID, err)
	}

	s.logger.Info().Str("uid", id.UID).Str("team", team).Msg("Team saved")
	return nil
}

// Ping checks the backing store.
func (s *Store) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}
