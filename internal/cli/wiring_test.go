package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"lingo-shooter/internal/app"
	"lingo-shooter/internal/config"
	"lingo-shooter/internal/identity"
	"lingo-shooter/internal/infra/file"
	"lingo-shooter/internal/infra/memory"
	"lingo-shooter/internal/telemetry"
)

func TestRulesFromConfig(t *testing.T) {
	var cfg config.Config
	cfg.Game.Profile = "stop-and-attack"
	cfg.Game.FrameInterval = "33ms"
	cfg.Game.Narrate = true

	rules, err := rulesFromConfig(cfg)
	if err != nil {
		t.Fatalf("rules: %v", err)
	}
	if rules.Profile != app.ProfileStopAndAttack || rules.FrameInterval != 33*time.Millisecond || !rules.Narrate {
		t.Fatalf("unexpected rules %+v", rules)
	}
	if rules.MaxHealth != 100 || rules.WrongDamage != 10 {
		t.Fatalf("expected defaults to be kept, got %+v", rules)
	}

	cfg.Game.Profile = "melee"
	if _, err := rulesFromConfig(cfg); err == nil {
		t.Fatalf("expected unknown profile to fail")
	}
}

func TestBankLoaderSelection(t *testing.T) {
	var cfg config.Config
	if _, ok := bankLoader(cfg, nil).(*memory.StaticBankLoader); !ok {
		t.Fatalf("expected built-in questions without a file")
	}
	bank, err := bankLoader(cfg, nil).LoadBank(context.Background(), cfg.BankID())
	if err != nil || len(bank) != 3 {
		t.Fatalf("expected the default bank, got %d questions err=%v", len(bank), err)
	}

	cfg.Questions.File = "questions.json"
	if _, ok := bankLoader(cfg, nil).(*file.QuestionLoader); !ok {
		t.Fatalf("expected file loader")
	}
}

func TestTelemetrySinkSelection(t *testing.T) {
	var cfg config.Config
	if sink := telemetrySink(cfg, nil); sink != nil {
		t.Fatalf("expected no sink without a store")
	}
	if _, ok := telemetrySink(cfg, memory.NewHistoryStore()).(telemetry.StoreSink); !ok {
		t.Fatalf("expected store sink")
	}
	cfg.Telemetry.Endpoint = "http://localhost:9/api/history"
	if _, ok := telemetrySink(cfg, memory.NewHistoryStore()).(*telemetry.HTTPSink); !ok {
		t.Fatalf("expected http sink")
	}
}

func TestSimulateStopsAtLimit(t *testing.T) {
	var cfg config.Config
	cfg.Telemetry.UserIDFile = filepath.Join(t.TempDir(), "user_id")

	err := runSimulate(context.Background(), cfg, simulateOptions{
		players:  2,
		accuracy: 1,
		think:    20 * time.Millisecond,
		limit:    300 * time.Millisecond,
		seed:     1,
	})
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	data, err := os.ReadFile(cfg.Telemetry.UserIDFile)
	if err != nil {
		t.Fatalf("expected user id file: %v", err)
	}
	if id := string(data[:len(data)-1]); !identity.Valid(id) {
		t.Fatalf("unexpected persisted id %q", data)
	}
}
