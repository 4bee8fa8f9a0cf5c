package cli

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"lingo-shooter/internal/app"
	"lingo-shooter/internal/config"
	"lingo-shooter/internal/identity"
	"lingo-shooter/internal/infra/memory"
	"lingo-shooter/internal/telemetry"
	"lingo-shooter/internal/transport/console"
)

type simulateOptions struct {
	players  int
	accuracy float64
	think    time.Duration
	limit    time.Duration
	seed     int64
}

// NewSimulateCmd plays headless games with an auto-player and logs every display command.
func NewSimulateCmd(configPath *string) *cobra.Command {
	opts := simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play headless games with an auto-player",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadOptional(*configPath)
			if err != nil {
				return err
			}
			if opts.accuracy < 0 || opts.accuracy > 1 {
				return fmt.Errorf("accuracy must be within [0, 1]")
			}
			if opts.players < 1 {
				return fmt.Errorf("players must be at least 1")
			}
			return runSimulate(cmd.Context(), cfg, opts)
		},
	}
	cmd.Flags().IntVar(&opts.players, "players", 1, "number of concurrent games")
	cmd.Flags().Float64Var(&opts.accuracy, "accuracy", 0.7, "probability of picking the correct answer")
	cmd.Flags().DurationVar(&opts.think, "think", 800*time.Millisecond, "delay before each answer")
	cmd.Flags().DurationVar(&opts.limit, "limit", 2*time.Minute, "stop a game that runs longer than this")
	cmd.Flags().Int64Var(&opts.seed, "seed", time.Now().UnixNano(), "random seed for the auto-player")
	return cmd
}

func runSimulate(ctx context.Context, cfg config.Config, opts simulateOptions) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rules, err := rulesFromConfig(cfg)
	if err != nil {
		return err
	}

	userID := identity.NewUserID()
	if cfg.Telemetry.UserIDFile != "" {
		if userID, err = identity.NewFileStore(cfg.Telemetry.UserIDFile).LoadOrCreate(); err != nil {
			return err
		}
	}

	history := memory.NewHistoryStore()
	timeout := config.TTLDuration(cfg.Telemetry.Timeout, 5*time.Second)
	recorder := telemetry.NewRecorder(telemetrySink(cfg, history), timeout)

	questions := memory.NewQuestionRepository(bankLoader(cfg, nil), defaultTTL)
	scores := memory.NewScoreBoard()
	service := app.NewGameService(memory.NewSessionStore(), questions, scores, recorder, app.ServiceConfig{
		BankID: cfg.BankID(),
		Rules:  rules,
	})

	var (
		mu      sync.Mutex
		results = make(map[string]int, opts.players)
	)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < opts.players; i++ {
		player := userID
		if i > 0 {
			player = identity.NewUserID()
		}
		rnd := rand.New(rand.NewSource(opts.seed + int64(i)))
		g.Go(func() error {
			score, err := autoPlay(gctx, service, player, rnd, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			results[player] = score
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := recorder.Flush(flushCtx); err != nil {
		log.Printf("telemetry flush incomplete: %v", err)
	}
	for player, score := range results {
		log.Printf("player %s finished with %d points", player, score)
	}
	log.Printf("%d answers recorded", len(history.Records()))
	return nil
}

// autoPlay runs one game until game over, the time limit, or cancellation, and returns the score.
func autoPlay(ctx context.Context, service *app.GameService, userID string, rnd *rand.Rand, opts simulateOptions) (int, error) {
	presenter := console.NewPresenter(log.New(os.Stdout, "["+userID+"] ", log.Ltime|log.Lmicroseconds))
	session := service.NewGame(userID, app.Ports{Presenter: presenter, Sound: presenter, Narrator: presenter})
	defer service.Close(context.Background(), session.ID())

	if err := service.Start(ctx, session.ID()); err != nil {
		return 0, err
	}

	deadline := time.NewTimer(opts.limit)
	defer deadline.Stop()
	ticker := time.NewTicker(opts.think)
	defer ticker.Stop()

	for {
		select {
		case score := <-presenter.GameOver():
			return score, nil
		case <-deadline.C:
			snap := session.Snapshot()
			log.Printf("player %s stopped after %s with %d points", userID, opts.limit, snap.Score)
			return snap.Score, nil
		case <-ctx.Done():
			return session.Snapshot().Score, nil
		case <-ticker.C:
			snap := session.Snapshot()
			if !snap.Active || snap.Reloading || snap.AwaitingNext || len(snap.Choices) == 0 {
				continue
			}
			slot := snap.CorrectSlot
			if rnd.Float64() >= opts.accuracy {
				slot = (slot + 1 + rnd.Intn(len(snap.Choices)-1)) % len(snap.Choices)
			}
			if _, err := service.SubmitAnswer(ctx, session.ID(), slot); err != nil {
				return snap.Score, err
			}
		}
	}
}
