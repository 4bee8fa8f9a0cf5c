package cli

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"lingo-shooter/internal/app"
	"lingo-shooter/internal/config"
	"lingo-shooter/internal/domain"
	"lingo-shooter/internal/infra/file"
	"lingo-shooter/internal/infra/memory"
	pginfra "lingo-shooter/internal/infra/postgres"
	redisinfra "lingo-shooter/internal/infra/redis"
	"lingo-shooter/internal/telemetry"
)

const defaultTTL = 10 * time.Minute

// rulesFromConfig applies the game section of the config to the default rules.
func rulesFromConfig(cfg config.Config) (app.Rules, error) {
	rules := app.DefaultRules()
	profile, err := app.ParseProfile(cfg.Game.Profile)
	if err != nil {
		return app.Rules{}, err
	}
	rules.Profile = profile
	rules.FrameInterval = config.TTLDuration(cfg.Game.FrameInterval, rules.FrameInterval)
	rules.Narrate = cfg.Game.Narrate
	return rules, nil
}

func newRedisClient(cfg config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// bankLoader picks Postgres, then a question file, then the built-in questions.
func bankLoader(cfg config.Config, pool *pgxpool.Pool) memory.BankLoader {
	switch {
	case pool != nil:
		return pginfra.NewQuestionLoader(pool)
	case cfg.Questions.File != "":
		return file.NewQuestionLoader(cfg.Questions.File)
	default:
		return memory.NewStaticBankLoader(map[string][]domain.Question{
			cfg.BankID(): domain.DefaultQuestions(),
		})
	}
}

func questionRepository(cfg config.Config, client *redis.Client, loader memory.BankLoader) app.QuestionRepository {
	ttl := config.TTLDuration(cfg.Questions.TTL, defaultTTL)
	if client != nil {
		return redisinfra.NewQuestionRepository(client, loader, ttl)
	}
	return memory.NewQuestionRepository(loader, ttl)
}

func scoreBoard(client *redis.Client) app.ScoreBoard {
	if client != nil {
		return redisinfra.NewScoreBoard(client)
	}
	return memory.NewScoreBoard()
}

// telemetrySink posts to a remote history endpoint when one is configured,
// otherwise it writes to the local history store.
func telemetrySink(cfg config.Config, store telemetry.Store) telemetry.Sink {
	if cfg.Telemetry.Endpoint != "" {
		timeout := config.TTLDuration(cfg.Telemetry.Timeout, 5*time.Second)
		return telemetry.NewHTTPSink(cfg.Telemetry.Endpoint, &http.Client{Timeout: timeout})
	}
	if store == nil {
		return nil
	}
	return telemetry.NewStoreSink(store)
}

func connectPostgres(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	if cfg.Postgres.URL == "" {
		return nil, nil
	}
	return pgxpool.Connect(ctx, cfg.Postgres.URL)
}
