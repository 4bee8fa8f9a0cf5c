package console

import (
	"bytes"
	"log"
	"strings"
	"testing"

	"lingo-shooter/internal/domain"
)

func TestPresenterLogsCommands(t *testing.T) {
	var buf bytes.Buffer
	p := NewPresenter(log.New(&buf, "", 0))

	p.ShowStats(domain.Stats{Health: 20, ScoreText: "000450", Danger: true})
	p.ShowQuestion("How are you today?", []domain.Choice{{Text: "I'm fine."}, {Text: "It's sunny."}})
	p.MarkChoice(1, false)
	p.PositionEnemy(1.5, 30)
	p.PositionEnemy(1.6, 32)
	p.ShowGameOver(450)

	out := buf.String()
	for _, want := range []string{
		"hp=20 score=000450 DANGER",
		"question: How are you today? [I'm fine. | It's sunny.]",
		"choice 1: wrong",
		"game over, final score 450",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if p.Frames() != 2 {
		t.Fatalf("expected 2 frames counted, got %d", p.Frames())
	}
	select {
	case score := <-p.GameOver():
		if score != 450 {
			t.Fatalf("unexpected final score %d", score)
		}
	default:
		t.Fatalf("expected game over to be signalled")
	}
}
