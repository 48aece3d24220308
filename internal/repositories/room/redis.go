package room

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/coc-keeper/internal/entities"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
	redisclient "github.com/KirkDiggler/coc-keeper/internal/redis"
)

const (
	// Key pattern: room:{room_id}
	roomKeyPrefix = "room:"

	errRoomIDRequired = "room ID is required"
	errRoomRequired   = "room is required"
	errRoomNotFound   = "room not found"
)

// RedisConfig holds the dependencies of the Redis repository
type RedisConfig struct {
	Client redisclient.Client
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	return vb.Build()
}

type redisRepository struct {
	client redisclient.Client
}

// NewRedis creates a Redis backed room repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid redis room config")
	}

	return &redisRepository{client: cfg.Client}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.RoomID == "" {
		return nil, errors.InvalidArgument(errRoomIDRequired)
	}

	data, err := r.client.Get(ctx, roomKeyPrefix+input.RoomID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.NotFound(errRoomNotFound).WithMeta("room_id", input.RoomID)
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read room")
	}

	var room entities.RoomSession
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal room")
	}

	return &GetOutput{Room: &room}, nil
}

func (r *redisRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	if input.Room == nil {
		return nil, errors.InvalidArgument(errRoomRequired)
	}
	if input.Room.RoomID == "" {
		return nil, errors.InvalidArgument(errRoomIDRequired)
	}

	data, err := json.Marshal(input.Room)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal room")
	}

	if err := r.client.Set(ctx, roomKeyPrefix+input.Room.RoomID, data, 0).Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to store room")
	}

	return &PutOutput{Room: input.Room}, nil
}
