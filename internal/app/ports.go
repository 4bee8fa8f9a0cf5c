package app

import (
	"time"

	"lingo-shooter/internal/domain"
)

// Presenter receives display commands. Calls are made while the session lock is held,
// so implementations must not call back into the session.
type Presenter interface {
	ShowStats(stats domain.Stats)
	ShowQuestion(prompt string, choices []domain.Choice)
	MarkChoice(slot int, correct bool)
	ShowReload(visible bool, percent float64)
	ShowScreen(screen domain.Screen)
	ShowGameOver(finalScore int)
	ShowError(message string)
	PositionEnemy(scale, offset float64)
	ResetEnemy()
	Effect(effect domain.Effect, duration time.Duration)
}

// Sound plays short effects and the ambient loop.
type Sound interface {
	Play(sound domain.Sound)
	StartAmbient()
	StopAmbient()
}

// Narrator speaks a line of text. Best effort.
type Narrator interface {
	Speak(text string)
}

// Telemetry records answer events without blocking the caller.
type Telemetry interface {
	Record(event domain.AnswerEvent)
}

type nopPorts struct{}

func (nopPorts) ShowStats(domain.Stats)               {}
func (nopPorts) ShowQuestion(string, []domain.Choice) {}
func (nopPorts) MarkChoice(int, bool)                 {}
func (nopPorts) ShowReload(bool, float64)             {}
func (nopPorts) ShowScreen(domain.Screen)             {}
func (nopPorts) ShowGameOver(int)                     {}
func (nopPorts) ShowError(string)                     {}
func (nopPorts) PositionEnemy(float64, float64)       {}
func (nopPorts) ResetEnemy()                          {}
func (nopPorts) Effect(domain.Effect, time.Duration)  {}
func (nopPorts) Play(domain.Sound)                    {}
func (nopPorts) StartAmbient()                        {}
func (nopPorts) StopAmbient()                         {}
func (nopPorts) Speak(string)                         {}
func (nopPorts) Record(domain.AnswerEvent)            {}
