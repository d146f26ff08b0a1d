package persistence

import (
	"context"
	"sync"

	"github.com/wfunc/sugoroku/models"
)

// MemoryStore keeps the last capacity records in process memory.
type MemoryStore struct {
	mutex    sync.RWMutex
	records  []models.GameRecord
	capacity int
	closed   bool
}

// NewMemoryStore returns a store holding at most capacity records; 0 means unbounded.
func NewMemoryStore(capacity int) *MemoryStore {
	return &MemoryStore{capacity: capacity}
}

func (m *MemoryStore) SaveGameRecord(ctx context.Context, record models.GameRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.closed {
		return ErrClosed
	}

	m.records = append(m.records, record)
	if m.capacity > 0 && len(m.records) > m.capacity {
		// 丢弃最旧的记录
		m.records = append(m.records[:0:0], m.records[len(m.records)-m.capacity:]...)
	}
	return nil
}

func (m *MemoryStore) RecentGameRecords(ctx context.Context, limit int) ([]models.GameRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.closed {
		return nil, ErrClosed
	}

	n := len(m.records)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]models.GameRecord, 0, n)
	for i := len(m.records) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, m.records[i])
	}
	return out, nil
}

func (m *MemoryStore) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.closed = true
	m.records = nil
	return nil
}
