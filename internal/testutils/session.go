package testutils

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/coc-keeper/internal/pkg/clock"
	"github.com/KirkDiggler/coc-keeper/internal/pkg/idgen"
	"github.com/KirkDiggler/coc-keeper/internal/repositories/pending"
	"github.com/KirkDiggler/coc-keeper/internal/repositories/room"
	"github.com/KirkDiggler/coc-keeper/internal/repositories/sheet"
	"github.com/KirkDiggler/coc-keeper/internal/session"
)

// CreateTestStore builds a session store backed by miniredis
func CreateTestStore(t *testing.T, clk clock.Clock) (*session.Store, *miniredis.Miniredis) {
	t.Helper()

	client, mr := CreateTestRedisClient(t)

	sheets, err := sheet.NewRedis(&sheet.RedisConfig{Client: client})
	require.NoError(t, err, "failed to create sheet repository")
	rooms, err := room.NewRedis(&room.RedisConfig{Client: client})
	require.NoError(t, err, "failed to create room repository")
	offers, err := pending.NewRedisRepository(&pending.Config{
		Client:      client,
		Clock:       clk,
		IDGenerator: idgen.NewSequential("offer"),
	})
	require.NoError(t, err, "failed to create pending repository")

	store, err := session.NewStore(&session.Config{
		Sheets: sheets,
		Rooms:  rooms,
		Offers: offers,
		Clock:  clk,
	})
	require.NoError(t, err, "failed to create session store")

	return store, mr
}
