package sheet

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	// registers the "sqlite" driver
	_ "modernc.org/sqlite"

	"github.com/KirkDiggler/coc-keeper/internal/entities"
	"github.com/KirkDiggler/coc-keeper/internal/errors"
)

// SchemaVersion is the latest sheet schema. Bump it with each migration.
const SchemaVersion = 1

// SQLiteConfig configures the SQLite repository
type SQLiteConfig struct {
	// Path of the database file; parent directories are created
	Path string
}

// Validate ensures the path is set
func (c *SQLiteConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Path == "" {
		vb.RequiredField("Path")
	}
	return vb.Build()
}

// SQLiteRepository stores sheets in a single SQLite table. It is returned as a
// struct so callers can Close it.
type SQLiteRepository struct {
	db *sql.DB
}

var _ Repository = (*SQLiteRepository)(nil)

// NewSQLite opens (and migrates) the database at cfg.Path
func NewSQLite(cfg *SQLiteConfig) (*SQLiteRepository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid sqlite sheet config")
	}

	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, errors.Wrapf(err, "failed to create directory %s", dir)
		}
	}

	dsn := cfg.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open sqlite")
	}
	// A single writer avoids SQLITE_BUSY between goroutines of one process
	db.SetMaxOpenConns(1)

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteRepository{db: db}, nil
}

// Close releases the database handle
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Get returns the sheet for a player in a room
func (r *SQLiteRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if err := validateKey(input.PlayerID, input.RoomID); err != nil {
		return nil, err
	}

	var data []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM sheets WHERE room_id = ? AND player_id = ?`,
		input.RoomID, input.PlayerID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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

// Put inserts or replaces a sheet
func (r *SQLiteRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	if err := validateSheet(input.Sheet); err != nil {
		return nil, err
	}

	data, err := json.Marshal(input.Sheet)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal sheet")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO sheets (room_id, player_id, name, data, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (room_id, player_id) DO UPDATE SET
		  name = excluded.name,
		  data = excluded.data,
		  updated_at = excluded.updated_at`,
		input.Sheet.RoomID, input.Sheet.PlayerID, input.Sheet.Name, data, input.Sheet.UpdatedAt.Unix(),
	)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to store sheet")
	}

	return &PutOutput{Sheet: input.Sheet}, nil
}

// ListByRoom returns the sheets of a room ordered by player ID
func (r *SQLiteRepository) ListByRoom(ctx context.Context, input ListByRoomInput) (*ListByRoomOutput, error) {
	if input.RoomID == "" {
		return nil, errors.InvalidArgument(errRoomIDRequired)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT data FROM sheets WHERE room_id = ? ORDER BY player_id`, input.RoomID)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to list sheets")
	}
	defer func() { _ = rows.Close() }()

	sheets := []*entities.CharacterSheet{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrap(err, "failed to scan sheet")
		}
		sheet, err := decode(data)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, sheet)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to list sheets")
	}

	return &ListByRoomOutput{Sheets: sheets}, nil
}

// migrate applies schema changes based on user_version
func migrate(db *sql.DB) error {
	var version int
	if err := db.QueryRow(`PRAGMA user_version`).Scan(&version); err != nil {
		return errors.Wrap(err, "failed to read schema version")
	}

	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS sheets (
		  room_id    TEXT NOT NULL,
		  player_id  TEXT NOT NULL,
		  name       TEXT NOT NULL DEFAULT '',
		  data       BLOB NOT NULL,
		  updated_at INTEGER NOT NULL,
		  PRIMARY KEY (room_id, player_id)
		);`
		if _, err := db.Exec(schema); err != nil {
			return errors.Wrap(err, "migration 1 failed")
		}
	}

	if version < SchemaVersion {
		if _, err := db.Exec(fmt.Sprintf(`PRAGMA user_version = %d`, SchemaVersion)); err != nil {
			return errors.Wrap(err, "failed to set schema version")
		}
	}

	return nil
}
