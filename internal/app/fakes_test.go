package app

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"lingo-shooter/internal/domain"
)

type mark struct {
	slot    int
	correct bool
}

type reloadCall struct {
	visible bool
	percent float64
}

// recorder captures every port call of a session.
type recorder struct {
	mu        sync.Mutex
	stats     []domain.Stats
	prompts   []string
	marks     []mark
	reloads   []reloadCall
	screens   []domain.Screen
	gameOvers []int
	errors    []string
	effects   []domain.Effect
	sounds    []domain.Sound
	ambient   []bool
	spoken    []string
	events    []domain.AnswerEvent
	enemies   int
	resets    int

	// marks already shown when each game over arrived
	marksAtGameOver []int
}

func (r *recorder) ShowStats(stats domain.Stats) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stats = append(r.stats, stats)
}

func (r *recorder) ShowQuestion(prompt string, _ []domain.Choice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prompts = append(r.prompts, prompt)
}

func (r *recorder) MarkChoice(slot int, correct bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.marks = append(r.marks, mark{slot: slot, correct: correct})
}

func (r *recorder) ShowReload(visible bool, percent float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reloads = append(r.reloads, reloadCall{visible: visible, percent: percent})
}

func (r *recorder) ShowScreen(screen domain.Screen) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.screens = append(r.screens, screen)
}

func (r *recorder) ShowGameOver(finalScore int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gameOvers = append(r.gameOvers, finalScore)
	r.marksAtGameOver = append(r.marksAtGameOver, len(r.marks))
}

func (r *recorder) ShowError(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, message)
}

func (r *recorder) PositionEnemy(float64, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enemies++
}

func (r *recorder) ResetEnemy() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets++
}

func (r *recorder) Effect(effect domain.Effect, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.effects = append(r.effects, effect)
}

func (r *recorder) Play(sound domain.Sound) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sounds = append(r.sounds, sound)
}

func (r *recorder) StartAmbient() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ambient = append(r.ambient, true)
}

func (r *recorder) StopAmbient() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ambient = append(r.ambient, false)
}

func (r *recorder) Speak(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spoken = append(r.spoken, text)
}

func (r *recorder) Record(event domain.AnswerEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorder) countEffect(effect domain.Effect) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.effects {
		if e == effect {
			n++
		}
	}
	return n
}

func (r *recorder) countSound(sound domain.Sound) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sounds {
		if s == sound {
			n++
		}
	}
	return n
}

var epoch0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	session *Session
	clock   *ManualClock
	rec     *recorder
}

func newHarness(t *testing.T, seed int64, rules Rules) *harness {
	t.Helper()
	clock := NewManualClock(epoch0)
	rec := &recorder{}
	session := NewSession("s-1", SessionDeps{
		UserID:    "u-test",
		Rules:     rules,
		Clock:     clock,
		Rand:      rand.New(rand.NewSource(seed)),
		Presenter: rec,
		Sound:     rec,
		Narrator:  rec,
		Telemetry: rec,
	})
	return &harness{session: session, clock: clock, rec: rec}
}

func (h *harness) start(t *testing.T, bank []domain.Question) {
	t.Helper()
	if err := h.session.Start(bank); err != nil {
		t.Fatalf("start: %v", err)
	}
}

func (h *harness) wrongSlot() int {
	snap := h.session.Snapshot()
	return (snap.CorrectSlot + 1) % len(snap.Choices)
}

func numberedBank(n int) []domain.Question {
	bank := make([]domain.Question, n)
	for i := range bank {
		bank[i] = domain.Question{
			ID:       "q" + string(rune('a'+i)),
			Question: "prompt " + string(rune('a'+i)),
			Choices:  []string{"w", "x", "y", "z"},
			Answer:   i % 4,
		}
	}
	return bank
}
