package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"lingo-shooter/internal/domain"
)

type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	ID          string    `bun:"id,pk"`
	BankID      string    `bun:"bank_id"`
	Position    int       `bun:"position"`
	Level       int       `bun:"level"`
	Category    string    `bun:"category"`
	Question    string    `bun:"question"`
	Choices     []string  `bun:"choices,type:jsonb"`
	Answer      int       `bun:"answer"`
	Explanation string    `bun:"explanation"`
	CreatedAt   time.Time `bun:"created_at,nullzero,default:current_timestamp"`
}

// SeedBank replaces a bank with the given questions, keeping file order. Rows are
// upserted by id; rows of the bank missing from questions are deleted.
func SeedBank(ctx context.Context, db *bun.DB, bankID string, questions []domain.Question) (int, error) {
	if len(questions) == 0 {
		return 0, domain.ErrEmptyBank
	}
	if err := domain.ValidateBank(questions); err != nil {
		return 0, err
	}

	ids := make([]string, len(questions))
	rows := make([]questionRow, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
		rows[i] = questionRow{
			ID:          q.ID,
			BankID:      bankID,
			Position:    i,
			Level:       q.Level,
			Category:    q.Category,
			Question:    q.Question,
			Choices:     q.Choices,
			Answer:      q.Answer,
			Explanation: q.Explanation,
		}
	}

	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		// Questions dropped from the file leave the bank.
		_, err := tx.NewDelete().
			Model((*questionRow)(nil)).
			Where("bank_id = ?", bankID).
			Where("id NOT IN (?)", bun.In(ids)).
			Exec(ctx)
		if err != nil {
			return err
		}

		_, err = tx.NewInsert().
			Model(&rows).
			On("CONFLICT (id) DO UPDATE").
			Set("bank_id = EXCLUDED.bank_id").
			Set("position = EXCLUDED.position").
			Set("level = EXCLUDED.level").
			Set("category = EXCLUDED.category").
			Set("question = EXCLUDED.question").
			Set("choices = EXCLUDED.choices").
			Set("answer = EXCLUDED.answer").
			Set("explanation = EXCLUDED.explanation").
			Exec(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("seed bank %s: %w", bankID, err)
	}
	return len(rows), nil
}
