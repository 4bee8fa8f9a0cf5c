package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"lingo-shooter/internal/app"
	"lingo-shooter/internal/config"
	"lingo-shooter/internal/infra/memory"
	pginfra "lingo-shooter/internal/infra/postgres"
	redisinfra "lingo-shooter/internal/infra/redis"
	"lingo-shooter/internal/telemetry"
	transport "lingo-shooter/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the game server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	rules, err := rulesFromConfig(cfg)
	if err != nil {
		return err
	}

	redisClient := newRedisClient(cfg)
	if redisClient != nil {
		defer redisClient.Close()
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, defaultTTL)

	pool, err := connectPostgres(ctx, cfg)
	if err != nil {
		return err
	}
	if pool != nil {
		defer pool.Close()
	}

	questions := questionRepository(cfg, redisClient, bankLoader(cfg, pool))

	var store app.SessionRepository
	if redisClient != nil {
		store = redisinfra.NewSessionStore(redisClient, redisTTL)
	} else {
		store = memory.NewSessionStore()
	}

	var history transport.HistoryStore
	if pool != nil {
		history = pginfra.NewHistoryStore(pool)
	} else {
		history = memory.NewHistoryStore()
	}

	timeout := config.TTLDuration(cfg.Telemetry.Timeout, 5*time.Second)
	recorder := telemetry.NewRecorder(telemetrySink(cfg, history), timeout)

	service := app.NewGameService(store, questions, scoreBoard(redisClient), recorder, app.ServiceConfig{
		BankID: cfg.BankID(),
		Rules:  rules,
	})
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	transport.NewAPIHandler(service, history).Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting lingo-shooter on :%s (bank %q, profile %s)", finalPort, cfg.BankID(), rules.Profile)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := recorder.Flush(shutdownCtx); err != nil {
		log.Printf("telemetry flush incomplete: %v", err)
	}
	return nil
}
