package memory

import (
	"context"
	"testing"
	"time"

	"lingo-shooter/internal/domain"
)

func TestScoreBoardKeepsBestPerUser(t *testing.T) {
	ctx := context.Background()
	board := NewScoreBoard()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	submissions := []domain.ScoreEntry{
		{UserID: "alice", Score: 300, AchievedAt: at},
		{UserID: "bob", Score: 500, AchievedAt: at.Add(time.Minute)},
		{UserID: "alice", Score: 200, AchievedAt: at.Add(2 * time.Minute)},
		{UserID: "carol", Score: 500, AchievedAt: at.Add(3 * time.Minute)},
		{UserID: "dave", Score: 10, AchievedAt: at},
	}
	for _, entry := range submissions {
		if err := board.Submit(ctx, entry); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	top, err := board.Top(ctx, 3)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	want := []string{"bob", "carol", "alice"}
	if len(top) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), top)
	}
	for i, id := range want {
		if top[i].UserID != id {
			t.Fatalf("position %d: expected %s, got %+v", i, id, top)
		}
	}
	if top[2].Score != 300 {
		t.Fatalf("expected alice's best score 300, got %d", top[2].Score)
	}
}
