package memory

import (
	"context"
	"sync"

	"lingo-shooter/internal/domain"
)

// HistoryStore keeps answer history in process memory.
type HistoryStore struct {
	mu      sync.Mutex
	records []domain.HistoryRecord
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

func (s *HistoryStore) Save(_ context.Context, rec domain.HistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	return nil
}

// Records returns a copy of the stored history.
func (s *HistoryStore) Records() []domain.HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.HistoryRecord(nil), s.records...)
}

// Recent returns the latest records of a user, newest first.
func (s *HistoryStore) Recent(_ context.Context, userID string, limit int) ([]domain.HistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.HistoryRecord{}
	for i := len(s.records) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if s.records[i].UserID == userID {
			out = append(out, s.records[i])
		}
	}
	return out, nil
}
