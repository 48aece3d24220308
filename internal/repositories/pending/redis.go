package pending

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/coc-keeper/internal/entities"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
	"github.com/KirkDiggler/coc-keeper/internal/pkg/clock"
	"github.com/KirkDiggler/coc-keeper/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/coc-keeper/internal/redis"
)

const (
	// Key pattern: pending:{room_id}:{player_id}
	offerKeyPrefix = "pending:"
	// DefaultTTL is how long an offer waits for .save
	DefaultTTL = 30 * time.Minute

	// Error messages
	errPlayerIDEmpty = "player ID cannot be empty"
	errRoomIDEmpty   = "room ID cannot be empty"
	errSetsEmpty     = "at least one attribute set is required"
	errOfferNotFound = "pending offer not found"
	errOfferExpired  = "pending offer has expired"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client      redisclient.Client
	Clock       clock.Clock
	IDGenerator idgen.Generator
	// TTL defaults to DefaultTTL
	TTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.TTL < 0 {
		vb.Field("TTL", "must not be negative")
	}
	return vb.Build()
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
	ids    idgen.Generator
	ttl    time.Duration
}

// NewRedisRepository creates a Redis repository for pending offers
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
		ids:    cfg.IDGenerator,
		ttl:    ttl,
	}, nil
}

var _ Repository = (*redisRepository)(nil)

// Put stores a new offer, replacing the previous one
func (r *redisRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	if err := validateKey(input.PlayerID, input.RoomID); err != nil {
		return nil, err
	}
	if len(input.Sets) == 0 {
		return nil, errors.InvalidArgument(errSetsEmpty)
	}

	ttl := input.TTL
	if ttl <= 0 {
		ttl = r.ttl
	}

	now := r.clock.Now()
	offer := &entities.PendingOffer{
		ID:        r.ids.Generate(),
		PlayerID:  input.PlayerID,
		RoomID:    input.RoomID,
		Sets:      input.Sets,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	data, err := json.Marshal(offer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal offer")
	}

	if err := r.client.Set(ctx, offerKey(input.RoomID, input.PlayerID), data, ttl).Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to store offer")
	}

	return &PutOutput{Offer: offer}, nil
}

// Get returns the offer unless it is missing or expired
func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if err := validateKey(input.PlayerID, input.RoomID); err != nil {
		return nil, err
	}

	key := offerKey(input.RoomID, input.PlayerID)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.NotFound(errOfferNotFound)
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read offer")
	}

	var offer entities.PendingOffer
	if err := json.Unmarshal(data, &offer); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal offer")
	}

	// Redis TTL and the injected clock can disagree; the clock wins
	if !r.clock.Now().Before(offer.ExpiresAt) {
		_ = r.client.Del(ctx, key)
		return nil, errors.NotFound(errOfferExpired)
	}

	return &GetOutput{Offer: &offer}, nil
}

// Delete removes the offer
func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if err := validateKey(input.PlayerID, input.RoomID); err != nil {
		return nil, err
	}

	n, err := r.client.Del(ctx, offerKey(input.RoomID, input.PlayerID)).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to delete offer")
	}

	return &DeleteOutput{Deleted: n > 0}, nil
}

func offerKey(roomID, playerID string) string {
	return offerKeyPrefix + roomID + ":" + playerID
}

func validateKey(playerID, roomID string) error {
	if playerID == "" {
		return errors.InvalidArgument(errPlayerIDEmpty)
	}
	if roomID == "" {
		return errors.InvalidArgument(errRoomIDEmpty)
	}
	return nil
}
