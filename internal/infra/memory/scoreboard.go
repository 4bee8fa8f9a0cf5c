package memory

import (
	"context"
	"sort"
	"sync"

	"lingo-shooter/internal/domain"
)

// ScoreBoard keeps the best score per user in memory.
type ScoreBoard struct {
	mu   sync.RWMutex
	best map[string]domain.ScoreEntry
}

func NewScoreBoard() *ScoreBoard {
	return &ScoreBoard{best: make(map[string]domain.ScoreEntry)}
}

func (b *ScoreBoard) Submit(_ context.Context, entry domain.ScoreEntry) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if prev, ok := b.best[entry.UserID]; ok && prev.Score >= entry.Score {
		return nil
	}
	b.best[entry.UserID] = entry
	return nil
}

func (b *ScoreBoard) Top(_ context.Context, limit int) ([]domain.ScoreEntry, error) {
	b.mu.RLock()
	entries := make([]domain.ScoreEntry, 0, len(b.best))
	for _, entry := range b.best {
		entries = append(entries, entry)
	}
	b.mu.RUnlock()

	// Ties go to whoever reached the score first, then by user id.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if !entries[i].AchievedAt.Equal(entries[j].AchievedAt) {
			return entries[i].AchievedAt.Before(entries[j].AchievedAt)
		}
		return entries[i].UserID < entries[j].UserID
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
