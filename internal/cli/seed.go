package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"lingo-shooter/internal/config"
	"lingo-shooter/internal/infra/file"
	pginfra "lingo-shooter/internal/infra/postgres"
	redisinfra "lingo-shooter/internal/infra/redis"
)

// NewSeedCmd imports a JSON or YAML question file into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var (
		path   string
		bankID string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Import a question file into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if path == "" {
				path = cfg.Questions.File
			}
			if bankID == "" {
				bankID = cfg.BankID()
			}
			return runSeed(cmd.Context(), cfg, path, bankID)
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "question file (defaults to questions.file)")
	cmd.Flags().StringVar(&bankID, "bank", "", "bank id to import into (defaults to questions.bank)")
	return cmd
}

func runSeed(ctx context.Context, cfg config.Config, path, bankID string) error {
	if path == "" {
		return fmt.Errorf("no question file given")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read questions: %w", err)
	}
	questions, err := file.Decode(path, data)
	if err != nil {
		return err
	}

	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}
	db, err := openBunDB(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := pginfra.SeedBank(ctx, db, bankID, questions)
	if err != nil {
		return err
	}
	log.Printf("seeded %d questions into bank %q", n, bankID)

	// Drop the cached copy so servers pick up the new bank.
	if client := newRedisClient(cfg); client != nil {
		defer client.Close()
		repo := redisinfra.NewQuestionRepository(client, nil, 0)
		if err := repo.Invalidate(ctx, bankID); err != nil {
			log.Printf("failed to invalidate cached bank %q: %v", bankID, err)
		}
	}
	return nil
}
