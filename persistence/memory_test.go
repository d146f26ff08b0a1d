package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/sugoroku/config"
	"github.com/wfunc/sugoroku/models"
)

func record(code string, ended time.Time) models.GameRecord {
	return models.GameRecord{
		RoomCode:  code,
		Players:   2,
		Rankings:  []models.Ranking{{Rank: 1, PlayerIndex: 0, Name: "a", Finished: true, FinishOrder: 1}},
		StartedAt: ended.Add(-time.Minute),
		EndedAt:   ended,
	}
}

func TestMemoryStore_RecentNewestFirst(t *testing.T) {
	store := NewMemoryStore(0)
	ctx := context.Background()
	base := time.Now()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.SaveGameRecord(ctx, record(fmt.Sprintf("R%d", i), base.Add(time.Duration(i)*time.Second))))
	}

	got, err := store.RecentGameRecords(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "R2", got[0].RoomCode)
	assert.Equal(t, "R1", got[1].RoomCode)

	all, err := store.RecentGameRecords(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMemoryStore_Capacity(t *testing.T) {
	store := NewMemoryStore(2)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.SaveGameRecord(ctx, record(fmt.Sprintf("R%d", i), time.Now())))
	}

	got, err := store.RecentGameRecords(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "R4", got[0].RoomCode)
	assert.Equal(t, "R3", got[1].RoomCode)
}

func TestMemoryStore_Closed(t *testing.T) {
	store := NewMemoryStore(1)
	require.NoError(t, store.Close())

	err := store.SaveGameRecord(context.Background(), record("X", time.Now()))
	assert.ErrorIs(t, err, ErrClosed)

	_, err = store.RecentGameRecords(context.Background(), 1)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	store := NewMemoryStore(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.SaveGameRecord(ctx, record("X", time.Now())), context.Canceled)
}

func TestOpen(t *testing.T) {
	r, err := Open(config.DatabaseConfig{RecentLimit: 3})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, r)
	require.NoError(t, r.Close())

	_, err = Open(config.DatabaseConfig{Driver: "mongo"})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestGameRecordModel_RoundTrip(t *testing.T) {
	rec := record("ABCDE", time.Now())
	assert.Equal(t, rec, toModel(rec).record())
	assert.Equal(t, "game_records", GameRecordModel{}.TableName())
}
