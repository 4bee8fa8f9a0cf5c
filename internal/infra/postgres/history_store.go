package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"lingo-shooter/internal/domain"
)

// HistoryStore appends answer records to play_history.
type HistoryStore struct {
	pool *pgxpool.Pool
}

func NewHistoryStore(pool *pgxpool.Pool) *HistoryStore {
	return &HistoryStore{pool: pool}
}

func (s *HistoryStore) Save(ctx context.Context, rec domain.HistoryRecord) error {
	playedAt, err := time.Parse(time.RFC3339Nano, rec.PlayedAt)
	if err != nil {
		return fmt.Errorf("%w: played_at: %v", domain.ErrInvalidRecord, err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO play_history (user_id, question_id, correct, answer_index, elapsed, played_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.UserID, rec.QuestionID, rec.Correct, rec.AnswerIndex, rec.Time, playedAt)
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

// Recent returns the latest records of a user, newest first.
func (s *HistoryStore) Recent(ctx context.Context, userID string, limit int) ([]domain.HistoryRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT user_id, question_id, correct, answer_index, elapsed, played_at
		FROM play_history
		WHERE user_id=$1
		ORDER BY played_at DESC, id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	records := []domain.HistoryRecord{}
	for rows.Next() {
		var (
			rec      domain.HistoryRecord
			playedAt time.Time
		)
		if err := rows.Scan(&rec.UserID, &rec.QuestionID, &rec.Correct, &rec.AnswerIndex, &rec.Time, &playedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		rec.PlayedAt = playedAt.UTC().Format(time.RFC3339Nano)
		records = append(records, rec)
	}
	return records, rows.Err()
}
