// Package console renders a session as log lines, for headless play.
package console

import (
	"log"
	"strings"
	"sync"
	"time"

	"lingo-shooter/internal/domain"
)

// Presenter implements app.Presenter, app.Sound and app.Narrator on top of a logger.
// Enemy movement is counted rather than logged.
type Presenter struct {
	logger *log.Logger

	mu       sync.Mutex
	frames   int
	gameOver chan int
}

func NewPresenter(logger *log.Logger) *Presenter {
	if logger == nil {
		logger = log.Default()
	}
	return &Presenter{logger: logger, gameOver: make(chan int, 1)}
}

// GameOver delivers the final score once the session ends.
func (p *Presenter) GameOver() <-chan int {
	return p.gameOver
}

// Frames reports how many enemy updates were rendered.
func (p *Presenter) Frames() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

func (p *Presenter) ShowStats(stats domain.Stats) {
	danger := ""
	if stats.Danger {
		danger = " DANGER"
	}
	p.logger.Printf("hp=%d score=%s%s", stats.Health, stats.ScoreText, danger)
}

func (p *Presenter) ShowQuestion(prompt string, choices []domain.Choice) {
	texts := make([]string, len(choices))
	for i, c := range choices {
		texts[i] = c.Text
	}
	p.logger.Printf("question: %s [%s]", prompt, strings.Join(texts, " | "))
}

func (p *Presenter) MarkChoice(slot int, correct bool) {
	verdict := "wrong"
	if correct {
		verdict = "correct"
	}
	p.logger.Printf("choice %d: %s", slot, verdict)
}

func (p *Presenter) ShowReload(visible bool, percent float64) {
	if visible && percent == 0 {
		p.logger.Printf("reloading...")
	}
}

func (p *Presenter) ShowScreen(screen domain.Screen) {
	p.logger.Printf("screen: %s", screen)
}

func (p *Presenter) ShowGameOver(finalScore int) {
	p.logger.Printf("game over, final score %d", finalScore)
	select {
	case p.gameOver <- finalScore:
	default:
	}
}

func (p *Presenter) ShowError(message string) {
	p.logger.Printf("error: %s", message)
}

func (p *Presenter) PositionEnemy(float64, float64) {
	p.mu.Lock()
	p.frames++
	p.mu.Unlock()
}

func (p *Presenter) ResetEnemy() {
	p.logger.Printf("enemy respawned")
}

func (p *Presenter) Effect(effect domain.Effect, _ time.Duration) {
	p.logger.Printf("effect: %s", effect)
}

func (p *Presenter) Play(sound domain.Sound) {
	p.logger.Printf("sound: %s", sound)
}

func (p *Presenter) StartAmbient() {}

func (p *Presenter) StopAmbient() {}

func (p *Presenter) Speak(text string) {
	p.logger.Printf("narrator: %s", text)
}
