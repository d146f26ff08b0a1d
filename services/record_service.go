// services/record_service.go
package services

import (
	"context"
	"sync"
	"time"

	"github.com/wfunc/sugoroku/logger"
	"github.com/wfunc/sugoroku/models"
	"github.com/wfunc/sugoroku/persistence"
)

const queueSize = 64

// RecordService 异步归档已结束的对局. Rooms hand records over without
// waiting on the database.
type RecordService struct {
	store persistence.Recorder
	limit int
	queue chan models.GameRecord

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRecordService(store persistence.Recorder, recentLimit int) *RecordService {
	return &RecordService{
		store: store,
		limit: recentLimit,
		queue: make(chan models.GameRecord, queueSize),
	}
}

// Start launches the archive worker. Stop must be called to release it.
func (s *RecordService) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case record := <-s.queue:
				s.save(ctx, record)
			}
		}
	}()
}

// Stop ends the worker and flushes what is still queued.
func (s *RecordService) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for {
		select {
		case record := <-s.queue:
			s.save(ctx, record)
		default:
			return
		}
	}
}

// Archive queues record for saving. It never blocks; a full queue drops the record.
func (s *RecordService) Archive(record models.GameRecord) {
	select {
	case s.queue <- record:
	default:
		logger.Log.Warnf("Archive queue full, dropping record of room %s", record.RoomCode)
	}
}

func (s *RecordService) save(ctx context.Context, record models.GameRecord) {
	if err := s.store.SaveGameRecord(ctx, record); err != nil {
		logger.Log.Errorf("Failed to archive room %s: %v", record.RoomCode, err)
		return
	}
	logger.Log.Debugf("Archived room %s (%s)", record.RoomCode, record.Duration())
}

// Recent returns the latest archived games, newest first. limit is capped by
// the configured recent limit.
func (s *RecordService) Recent(ctx context.Context, limit int) ([]models.GameRecord, error) {
	if limit <= 0 || (s.limit > 0 && limit > s.limit) {
		limit = s.limit
	}
	return s.store.RecentGameRecords(ctx, limit)
}
