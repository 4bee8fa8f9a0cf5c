package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
	"lingo-shooter/internal/domain"
)

// BankLoader fetches a question bank from a backing store (Postgres, files, ...).
type BankLoader interface {
	LoadBank(ctx context.Context, bankID string) ([]domain.Question, error)
}

// QuestionRepository caches question banks in Redis and falls back to a loader on cache miss.
// A bank is stored as a JSON array: SET bank:{bankID} [...] EX ttl
type QuestionRepository struct {
	client *redis.Client
	loader BankLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewQuestionRepository(client *redis.Client, loader BankLoader, ttl time.Duration) *QuestionRepository {
	return &QuestionRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *QuestionRepository) GetBank(ctx context.Context, bankID string) ([]domain.Question, error) {
	if questions, ok := r.cached(ctx, bankID); ok {
		return questions, nil
	}

	result, err, _ := r.sf.Do(bankID, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if questions, ok := r.cached(ctx, bankID); ok {
			return questions, nil
		}

		questions, err := r.loader.LoadBank(ctx, bankID)
		if err != nil {
			return nil, err
		}

		payload, err := json.Marshal(questions)
		if err != nil {
			return nil, err
		}
		if err := r.client.Set(ctx, bankKey(bankID), payload, r.ttlWithJitter()).Err(); err != nil {
			log.Printf("failed to cache bank %q: %v", bankID, err)
		}
		return questions, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Question), nil
}

// Invalidate drops the cached copy of a bank, e.g. after reseeding it.
func (r *QuestionRepository) Invalidate(ctx context.Context, bankID string) error {
	return r.client.Del(ctx, bankKey(bankID)).Err()
}

func (r *QuestionRepository) cached(ctx context.Context, bankID string) ([]domain.Question, bool) {
	payload, err := r.client.Get(ctx, bankKey(bankID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("bank cache read failed for %q: %v", bankID, err)
		}
		return nil, false
	}
	var questions []domain.Question
	if err := json.Unmarshal(payload, &questions); err != nil {
		log.Printf("dropping corrupt bank cache for %q: %v", bankID, err)
		return nil, false
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	return questions, true
}

func (r *QuestionRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

func bankKey(bankID string) string {
	return "bank:" + bankID
}
