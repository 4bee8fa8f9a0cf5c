package http

import (
	"sync"
	"time"

	"lingo-shooter/internal/domain"
)

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type identityPayload struct {
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
}

type questionPayload struct {
	Prompt  string          `json:"prompt"`
	Choices []domain.Choice `json:"choices"`
}

type choicePayload struct {
	Slot    int  `json:"slot"`
	Correct bool `json:"correct"`
}

type reloadPayload struct {
	Visible bool    `json:"visible"`
	Percent float64 `json:"percent"`
}

type screenPayload struct {
	Screen domain.Screen `json:"screen"`
}

type gameOverPayload struct {
	Score int `json:"score"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type enemyPayload struct {
	Scale  float64 `json:"scale"`
	Offset float64 `json:"offset"`
	Reset  bool    `json:"reset,omitempty"`
}

type effectPayload struct {
	Effect     domain.Effect `json:"effect"`
	DurationMs int64         `json:"durationMs"`
}

type soundPayload struct {
	Sound domain.Sound `json:"sound"`
}

type ambientPayload struct {
	Playing bool `json:"playing"`
}

type speakPayload struct {
	Text string `json:"text"`
}

type mutedPayload struct {
	Muted bool `json:"muted"`
}

// client turns session display, sound and narration commands into outbound websocket
// messages. It implements app.Presenter, app.Sound and app.Narrator.
type client struct {
	send     chan outboundMessage
	done     chan struct{}
	stopOnce sync.Once

	mu      sync.Mutex
	muted   bool
	ambient bool
}

func newClient(buffer int) *client {
	return &client{
		send: make(chan outboundMessage, buffer),
		done: make(chan struct{}),
	}
}

// emit queues a message for the writer, or drops it once the connection is gone.
func (c *client) emit(typ string, payload any) {
	select {
	case c.send <- outboundMessage{Type: typ, Payload: payload}:
	case <-c.done:
	}
}

// stop releases every pending and future emit.
func (c *client) stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

func (c *client) ShowStats(stats domain.Stats) { c.emit("stats", stats) }

func (c *client) ShowQuestion(prompt string, choices []domain.Choice) {
	c.emit("question", questionPayload{Prompt: prompt, Choices: append([]domain.Choice(nil), choices...)})
}

func (c *client) MarkChoice(slot int, correct bool) {
	c.emit("choice", choicePayload{Slot: slot, Correct: correct})
}

func (c *client) ShowReload(visible bool, percent float64) {
	c.emit("reload", reloadPayload{Visible: visible, Percent: percent})
}

func (c *client) ShowScreen(screen domain.Screen) { c.emit("screen", screenPayload{Screen: screen}) }

func (c *client) ShowGameOver(finalScore int) { c.emit("gameOver", gameOverPayload{Score: finalScore}) }

func (c *client) ShowError(message string) { c.emit("error", errorPayload{Message: message}) }

func (c *client) PositionEnemy(scale, offset float64) {
	c.emit("enemy", enemyPayload{Scale: scale, Offset: offset})
}

func (c *client) ResetEnemy() { c.emit("enemy", enemyPayload{Scale: 1, Reset: true}) }

func (c *client) Effect(effect domain.Effect, duration time.Duration) {
	c.emit("effect", effectPayload{Effect: effect, DurationMs: duration.Milliseconds()})
}

func (c *client) Play(sound domain.Sound) {
	if c.isMuted() {
		return
	}
	c.emit("sound", soundPayload{Sound: sound})
}

func (c *client) StartAmbient() {
	c.mu.Lock()
	c.ambient = true
	muted := c.muted
	c.mu.Unlock()
	if !muted {
		c.emit("ambient", ambientPayload{Playing: true})
	}
}

func (c *client) StopAmbient() {
	c.mu.Lock()
	c.ambient = false
	c.mu.Unlock()
	c.emit("ambient", ambientPayload{Playing: false})
}

func (c *client) Speak(text string) {
	if c.isMuted() {
		return
	}
	c.emit("speak", speakPayload{Text: text})
}

// toggleMute flips the mute state and pauses or resumes the ambient loop to match.
func (c *client) toggleMute() {
	c.mu.Lock()
	c.muted = !c.muted
	muted, ambient := c.muted, c.ambient
	c.mu.Unlock()

	c.emit("muted", mutedPayload{Muted: muted})
	if ambient {
		c.emit("ambient", ambientPayload{Playing: !muted})
	}
}

func (c *client) isMuted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}
