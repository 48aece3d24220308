package sheet

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/coc-keeper/internal/entities"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
	redisclient "github.com/KirkDiggler/coc-keeper/internal/redis"
)

const (
	// Key pattern: sheet:{room_id}:{player_id}
	sheetKeyPrefix = "sheet:"
	// Set of player IDs with a sheet in a room: sheet_room:{room_id}
	roomIndexPrefix = "sheet_room:"
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

// NewRedis creates a Redis backed sheet repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid redis sheet config")
	}

	return &redisRepository{client: cfg.Client}, nil
}

var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if err := validateKey(input.PlayerID, input.RoomID); err != nil {
		return nil, err
	}

	data, err := r.client.Get(ctx, sheetKey(input.RoomID, input.PlayerID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.NotFound(errSheetNotFound).
				WithMeta("player_id", input.PlayerID).
				WithMeta("room_id", input.RoomID)
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read sheet")
	}

	sheet, err := decode(data)
	if err != nil {
		return nil, err
	}

	return &GetOutput{Sheet: sheet}, nil
}

func (r *redisRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	if err := validateSheet(input.Sheet); err != nil {
		return nil, err
	}

	data, err := json.Marshal(input.Sheet)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal sheet")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, sheetKey(input.Sheet.RoomID, input.Sheet.PlayerID), data, 0)
	pipe.SAdd(ctx, roomIndexPrefix+input.Sheet.RoomID, input.Sheet.PlayerID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to store sheet")
	}

	return &PutOutput{Sheet: input.Sheet}, nil
}

func (r *redisRepository) ListByRoom(ctx context.Context, input ListByRoomInput) (*ListByRoomOutput, error) {
	if input.RoomID == "" {
		return nil, errors.InvalidArgument(errRoomIDRequired)
	}

	playerIDs, err := r.client.SMembers(ctx, roomIndexPrefix+input.RoomID).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read room index")
	}
	if len(playerIDs) == 0 {
		return &ListByRoomOutput{Sheets: []*entities.CharacterSheet{}}, nil
	}
	sort.Strings(playerIDs)

	keys := make([]string, len(playerIDs))
	for i, id := range playerIDs {
		keys[i] = sheetKey(input.RoomID, id)
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read sheets")
	}

	sheets := make([]*entities.CharacterSheet, 0, len(values))
	for _, v := range values {
		// Index entries can outlive a flushed sheet key
		raw, ok := v.(string)
		if !ok {
			continue
		}
		sheet, err := decode([]byte(raw))
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
	}

	return &ListByRoomOutput{Sheets: sheets}, nil
}

func sheetKey(roomID, playerID string) string {
	return sheetKeyPrefix + roomID + ":" + playerID
}

func decode(data []byte) (*entities.CharacterSheet, error) {
	var sheet entities.CharacterSheet
	if err := json.Unmarshal(data, &sheet); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal sheet")
	}
	sheet.Normalize()
	return &sheet, nil
}
