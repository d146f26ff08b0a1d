package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wfunc/sugoroku/models"
	"github.com/wfunc/sugoroku/persistence"
)

func game(code string) models.GameRecord {
	now := time.Now()
	return models.GameRecord{
		RoomCode:  code,
		Players:   2,
		Rankings:  []models.Ranking{{Rank: 1, Name: "a"}},
		StartedAt: now.Add(-time.Minute),
		EndedAt:   now,
	}
}

func TestRecordService_ArchivesAsync(t *testing.T) {
	store := persistence.NewMemoryStore(0)
	svc := NewRecordService(store, 10)
	svc.Start(context.Background())
	defer svc.Stop()

	svc.Archive(game("AAAAA"))
	svc.Archive(game("BBBBB"))

	assert.Eventually(t, func() bool {
		got, err := svc.Recent(context.Background(), 0)
		return err == nil && len(got) == 2
	}, time.Second, 10*time.Millisecond)

	got, err := svc.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BBBBB", got[0].RoomCode)
}

func TestRecordService_RecentLimitIsCapped(t *testing.T) {
	store := persistence.NewMemoryStore(0)
	for i := 0; i < 5; i++ {
		require.NoError(t, store.SaveGameRecord(context.Background(), game(fmt.Sprintf("R%d", i))))
	}
	svc := NewRecordService(store, 3)

	got, err := svc.Recent(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestRecordService_StopFlushesQueue(t *testing.T) {
	store := persistence.NewMemoryStore(0)
	svc := NewRecordService(store, 10)

	// never started: records wait in the queue until Stop flushes them
	svc.Archive(game("AAAAA"))
	svc.Stop()

	got, err := store.RecentGameRecords(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

// MockRecorder fails every save.
type MockRecorder struct {
	mu    sync.Mutex
	saves int
}

func (m *MockRecorder) SaveGameRecord(ctx context.Context, record models.GameRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	return errors.New("database down")
}

func (m *MockRecorder) RecentGameRecords(ctx context.Context, limit int) ([]models.GameRecord, error) {
	return nil, nil
}

func (m *MockRecorder) Close() error { return nil }

func TestRecordService_SaveErrorsAreSwallowed(t *testing.T) {
	store := &MockRecorder{}
	svc := NewRecordService(store, 10)
	svc.Start(context.Background())

	svc.Archive(game("AAAAA"))
	assert.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return store.saves == 1
	}, time.Second, 10*time.Millisecond)
	svc.Stop()
}

func TestRecordService_FullQueueDrops(t *testing.T) {
	store := persistence.NewMemoryStore(0)
	svc := NewRecordService(store, 0)

	for i := 0; i < queueSize+10; i++ {
		svc.Archive(game(fmt.Sprintf("R%d", i)))
	}
	assert.Len(t, svc.queue, queueSize)
}
