package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"lingo-shooter/internal/domain"
)

// QuestionLoader loads question banks from the questions table.
type QuestionLoader struct {
	pool *pgxpool.Pool
}

func NewQuestionLoader(pool *pgxpool.Pool) *QuestionLoader {
	return &QuestionLoader{pool: pool}
}

// LoadBank returns the bank's questions in seed order. A bank without rows is reported
// as domain.ErrBankNotFound.
func (l *QuestionLoader) LoadBank(ctx context.Context, bankID string) ([]domain.Question, error) {
	rows, err := l.pool.Query(ctx, `
		SELECT id, level, category, question, choices, answer, explanation
		FROM questions
		WHERE bank_id=$1
		ORDER BY position, id`, bankID)
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var (
			q       domain.Question
			choices []byte
		)
		if err := rows.Scan(&q.ID, &q.Level, &q.Category, &q.Question, &choices, &q.Answer, &q.Explanation); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(choices, &q.Choices); err != nil {
			return nil, fmt.Errorf("unmarshal choices of %s: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrBankNotFound, bankID)
	}
	return questions, nil
}
