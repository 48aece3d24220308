package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/KirkDiggler/coc-keeper/internal/entities"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
	"github.com/KirkDiggler/coc-keeper/internal/pkg/clock"
	"github.com/KirkDiggler/coc-keeper/internal/repositories/pending"
	"github.com/KirkDiggler/coc-keeper/internal/repositories/room"
	"github.com/KirkDiggler/coc-keeper/internal/repositories/sheet"
)

// DefaultHistoryLimit is the number of AI turns a room keeps
const DefaultHistoryLimit = 20

const (
	msgNoOffer        = "没有待保存的属性，请先使用 .coc 生成"
	msgIndexRange     = "请输入 1 到 %d 之间的数字"
	msgKeeperTaken    = "%s 已是本场KP"
	msgNoKeeper       = "当前没有KP"
	msgNotKeeper      = "你不是当前KP (当前KP: %s)"
	msgNeedKeeper     = "需要KP权限 (当前KP: %s)"
	msgNeedKeeperHint = "需要KP权限，先用 .kp claim 认领KP"
)

// Config wires the store to its repositories
type Config struct {
	Sheets sheet.Repository
	Rooms  room.Repository
	Offers pending.Repository
	Clock  clock.Clock

	// HistoryLimit defaults to DefaultHistoryLimit
	HistoryLimit int
	// CacheSize defaults to DefaultCacheSize
	CacheSize int
	// CacheTTL defaults to DefaultCacheTTL
	CacheTTL time.Duration
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Sheets == nil {
		vb.RequiredField("Sheets")
	}
	if c.Rooms == nil {
		vb.RequiredField("Rooms")
	}
	if c.Offers == nil {
		vb.RequiredField("Offers")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.HistoryLimit < 0 {
		vb.Field("HistoryLimit", "must not be negative")
	}
	return vb.Build()
}

// Store implements Service on top of the repositories
type Store struct {
	sheets       sheet.Repository
	rooms        room.Repository
	offers       pending.Repository
	clock        clock.Clock
	historyLimit int
	cache        *sheetCache
}

var _ Service = (*Store)(nil)

// NewStore creates a session store
func NewStore(cfg *Config) (*Store, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid session config")
	}

	limit := cfg.HistoryLimit
	if limit == 0 {
		limit = DefaultHistoryLimit
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = DefaultCacheSize
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &Store{
		sheets:       cfg.Sheets,
		rooms:        cfg.Rooms,
		offers:       cfg.Offers,
		clock:        cfg.Clock,
		historyLimit: limit,
		cache:        newSheetCache(size, ttl),
	}, nil
}

// HistoryLimit is the AI turn cap in effect
func (s *Store) HistoryLimit() int {
	return s.historyLimit
}

// Sheet returns the sheet, creating it on first use
func (s *Store) Sheet(ctx context.Context, key SheetKey, name string) (*entities.CharacterSheet, error) {
	cs, err := s.loadSheet(ctx, key)
	if err != nil {
		if !errors.IsNotFound(err) {
			return nil, err
		}
		cs = entities.NewCharacterSheet(key.PlayerID, key.RoomID, name, s.clock.Now())
		slog.Debug("creating character sheet", "player_id", key.PlayerID, "room_id", key.RoomID)
		if err := s.SaveSheet(ctx, cs); err != nil {
			return nil, err
		}
		return cs, nil
	}

	if name != "" && cs.Name != name {
		cs.Name = name
		if err := s.SaveSheet(ctx, cs); err != nil {
			return nil, err
		}
	}

	return cs, nil
}

func (s *Store) loadSheet(ctx context.Context, key SheetKey) (*entities.CharacterSheet, error) {
	if cs, ok := s.cache.get(key); ok {
		return cs, nil
	}

	out, err := s.sheets.Get(ctx, sheet.GetInput{PlayerID: key.PlayerID, RoomID: key.RoomID})
	if err != nil {
		return nil, err
	}
	s.cache.set(key, out.Sheet)
	return out.Sheet, nil
}

// RoomSheets reads straight from the repository; the cache only holds
// single sheets
func (s *Store) RoomSheets(ctx context.Context, roomID string) ([]*entities.CharacterSheet, error) {
	out, err := s.sheets.ListByRoom(ctx, sheet.ListByRoomInput{RoomID: roomID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list sheets")
	}
	return out.Sheets, nil
}

// SaveSheet stamps and persists the sheet
func (s *Store) SaveSheet(ctx context.Context, cs *entities.CharacterSheet) error {
	if cs == nil {
		return errors.InvalidArgument("sheet is required")
	}

	key := SheetKey{PlayerID: cs.PlayerID, RoomID: cs.RoomID}
	cs.UpdatedAt = s.clock.Now()
	if _, err := s.sheets.Put(ctx, sheet.PutInput{Sheet: cs}); err != nil {
		s.cache.invalidate(key)
		return errors.Wrap(err, "failed to save sheet")
	}
	s.cache.set(key, cs)
	return nil
}

// OfferGeneration replaces the player's pending offer
func (s *Store) OfferGeneration(ctx context.Context, key SheetKey, sets []entities.AttributeSet) (*entities.PendingOffer, error) {
	out, err := s.offers.Put(ctx, pending.PutInput{
		PlayerID: key.PlayerID,
		RoomID:   key.RoomID,
		Sets:     sets,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to store pending offer")
	}
	return out.Offer, nil
}

// ConfirmGeneration applies one offered set and consumes the offer
func (s *Store) ConfirmGeneration(ctx context.Context, key SheetKey, name string, index int) (*ConfirmOutput, error) {
	out, err := s.offers.Get(ctx, pending.GetInput{PlayerID: key.PlayerID, RoomID: key.RoomID})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.FailedPrecondition(msgNoOffer)
		}
		return nil, errors.Wrap(err, "failed to read pending offer")
	}

	offer := out.Offer
	if index < 1 || index > len(offer.Sets) {
		return nil, errors.OutOfRangef(msgIndexRange, len(offer.Sets))
	}

	cs, err := s.Sheet(ctx, key, name)
	if err != nil {
		return nil, err
	}

	chosen := offer.Sets[index-1]
	cs.ApplyAttributeSet(chosen)
	if err := s.SaveSheet(ctx, cs); err != nil {
		return nil, err
	}

	if _, err := s.offers.Delete(ctx, pending.DeleteInput{PlayerID: key.PlayerID, RoomID: key.RoomID}); err != nil {
		return nil, errors.Wrap(err, "failed to consume pending offer")
	}

	slog.Info("pending offer confirmed",
		"offer_id", offer.ID,
		"player_id", key.PlayerID,
		"room_id", key.RoomID,
		"index", index)

	return &ConfirmOutput{Sheet: cs, Set: chosen, Index: index}, nil
}

// Room returns the stored room or a new unsaved one
func (s *Store) Room(ctx context.Context, roomID string) (*entities.RoomSession, error) {
	out, err := s.rooms.Get(ctx, room.GetInput{RoomID: roomID})
	if err != nil {
		if errors.IsNotFound(err) {
			now := s.clock.Now()
			return &entities.RoomSession{RoomID: roomID, CreatedAt: now, UpdatedAt: now}, nil
		}
		return nil, errors.Wrap(err, "failed to load room")
	}
	return out.Room, nil
}

func (s *Store) saveRoom(ctx context.Context, rs *entities.RoomSession) error {
	rs.UpdatedAt = s.clock.Now()
	if _, err := s.rooms.Put(ctx, room.PutInput{Room: rs}); err != nil {
		return errors.Wrap(err, "failed to save room")
	}
	return nil
}

// updateRoom loads, mutates and stores a room in one step
func (s *Store) updateRoom(ctx context.Context, roomID string, fn func(*entities.RoomSession) error) (*entities.RoomSession, error) {
	rs, err := s.Room(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := fn(rs); err != nil {
		return nil, err
	}
	if err := s.saveRoom(ctx, rs); err != nil {
		return nil, err
	}
	return rs, nil
}

// ClaimKeeper records the player as Keeper
func (s *Store) ClaimKeeper(ctx context.Context, roomID, playerID, name string) (*entities.RoomSession, error) {
	return s.updateRoom(ctx, roomID, func(rs *entities.RoomSession) error {
		if rs.Keeper != nil && rs.Keeper.PlayerID != playerID {
			return errors.AlreadyExistsf(msgKeeperTaken, rs.Keeper.Name)
		}
		if rs.Keeper != nil {
			rs.Keeper.Name = name
			return nil
		}
		rs.Keeper = &entities.KeeperClaim{PlayerID: playerID, Name: name, ClaimedAt: s.clock.Now()}
		return nil
	})
}

// ResignKeeper drops the caller's claim
func (s *Store) ResignKeeper(ctx context.Context, roomID, playerID string) error {
	_, err := s.updateRoom(ctx, roomID, func(rs *entities.RoomSession) error {
		if rs.Keeper == nil {
			return errors.FailedPrecondition(msgNoKeeper)
		}
		if rs.Keeper.PlayerID != playerID {
			return errors.PermissionDeniedf(msgNotKeeper, rs.Keeper.Name)
		}
		rs.Keeper = nil
		return nil
	})
	return err
}

// RequireKeeper returns the room when playerID is its Keeper
func (s *Store) RequireKeeper(ctx context.Context, roomID, playerID string) (*entities.RoomSession, error) {
	rs, err := s.Room(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if rs.IsKeeper(playerID) {
		return rs, nil
	}
	if rs.Keeper != nil {
		return nil, errors.PermissionDeniedf(msgNeedKeeper, rs.Keeper.Name)
	}
	return nil, errors.PermissionDenied(msgNeedKeeperHint)
}

// StartAI activates narration and resets the history
func (s *Store) StartAI(ctx context.Context, roomID, briefing string) (*entities.RoomSession, error) {
	return s.updateRoom(ctx, roomID, func(rs *entities.RoomSession) error {
		rs.AI = entities.AISession{Active: true, Briefing: briefing}
		return nil
	})
}

// StopAI deactivates narration
func (s *Store) StopAI(ctx context.Context, roomID string) (*entities.RoomSession, error) {
	return s.updateRoom(ctx, roomID, func(rs *entities.RoomSession) error {
		rs.AI.Active = false
		return nil
	})
}

// ClearAI empties the history and keeps the briefing
func (s *Store) ClearAI(ctx context.Context, roomID string) (*entities.RoomSession, error) {
	return s.updateRoom(ctx, roomID, func(rs *entities.RoomSession) error {
		rs.AI.History = nil
		return nil
	})
}

// AppendTurns adds turns and trims to the history limit
func (s *Store) AppendTurns(ctx context.Context, roomID string, turns ...entities.Turn) (*entities.RoomSession, error) {
	return s.updateRoom(ctx, roomID, func(rs *entities.RoomSession) error {
		rs.AppendTurns(s.historyLimit, turns...)
		return nil
	})
}
