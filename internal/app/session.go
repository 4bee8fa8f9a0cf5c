package app

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"lingo-shooter/internal/domain"
)

const noMissionsMessage = "Error: No missions available."

// SessionDeps wires a Session to its collaborators. Nil ports are replaced by no-ops.
type SessionDeps struct {
	UserID    string
	Rules     Rules
	Clock     Clock
	Rand      *rand.Rand
	Presenter Presenter
	Sound     Sound
	Narrator  Narrator
	Telemetry Telemetry
	// OnGameOver runs on its own goroutine after the session ends.
	OnGameOver func(entry domain.ScoreEntry)
}

// Session is the controller of one player's game. It is driven by its frame loop and by
// discrete player events; all of them are serialized by mu.
type Session struct {
	id     string
	userID string
	rules  Rules
	clock  Clock
	rnd    *rand.Rand

	presenter  Presenter
	sound      Sound
	narrator   Narrator
	telemetry  Telemetry
	onGameOver func(domain.ScoreEntry)

	mu            sync.Mutex
	bank          []domain.Question
	health        int
	score         int
	difficulty    float64
	enemyDistance float64
	active        bool
	closed        bool
	reloading     bool
	reloadStep    int
	awaitingNext  bool
	current       domain.Question
	choices       []domain.Choice
	correctSlot   int
	history       []string

	startTime      time.Time
	lastFrameTime  time.Time
	lastAttackTime time.Time

	// epoch changes on every start and end; timers scheduled under an older epoch are stale.
	epoch       uint64
	frameTimer  Timer
	reloadTimer Timer
	nextTimer   Timer
}

// NewSession creates an inactive session.
func NewSession(id string, deps SessionDeps) *Session {
	s := &Session{
		id:         id,
		userID:     deps.UserID,
		rules:      deps.Rules,
		clock:      deps.Clock,
		rnd:        deps.Rand,
		presenter:  deps.Presenter,
		sound:      deps.Sound,
		narrator:   deps.Narrator,
		telemetry:  deps.Telemetry,
		onGameOver: deps.OnGameOver,
		health:     deps.Rules.MaxHealth,
		difficulty: 1,
	}
	if s.rules.MaxHealth == 0 {
		s.rules = DefaultRules()
		s.health = s.rules.MaxHealth
	}
	if s.clock == nil {
		s.clock = RealClock()
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if s.presenter == nil {
		s.presenter = nopPorts{}
	}
	if s.sound == nil {
		s.sound = nopPorts{}
	}
	if s.narrator == nil {
		s.narrator = nopPorts{}
	}
	if s.telemetry == nil {
		s.telemetry = nopPorts{}
	}
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) UserID() string { return s.userID }

// Start (re)initializes the session with the given bank and begins the frame loop.
// An empty or malformed bank shows an inline error and leaves the session inactive.
func (s *Session) Start(bank []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.ErrSessionNotFound
	}
	if len(bank) == 0 {
		s.presenter.ShowError(noMissionsMessage)
		return domain.ErrEmptyBank
	}
	if err := domain.ValidateBank(bank); err != nil {
		s.presenter.ShowError(noMissionsMessage)
		return err
	}

	s.stopTimersLocked()
	s.epoch++
	s.bank = append(s.bank[:0], bank...)

	s.sound.StartAmbient()

	s.health = s.rules.MaxHealth
	s.score = 0
	s.difficulty = 1
	s.history = s.history[:0]
	s.reloading = false
	s.reloadStep = 0
	s.awaitingNext = false
	s.presenter.ShowReload(false, 0)
	s.refreshStatsLocked()
	s.presenter.ShowScreen(domain.ScreenPlaying)

	s.active = true
	s.selectNextLocked()
	s.lastFrameTime = s.clock.Now()
	s.scheduleFrameLocked()
	return nil
}

// SubmitAnswer handles a click on the choice displayed at slot index.
// Answers are ignored while the session is inactive, reloading, or waiting for the next question.
func (s *Session) SubmitAnswer(index int) (domain.AnswerOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active || s.reloading || s.awaitingNext {
		out := s.outcomeLocked()
		out.Ignored = true
		return out, nil
	}
	if index < 0 || index >= len(s.choices) {
		return domain.AnswerOutcome{}, fmt.Errorf("%w: %d", domain.ErrInvalidChoice, index)
	}

	now := s.clock.Now()
	correct := index == s.correctSlot
	s.telemetry.Record(domain.AnswerEvent{
		UserID:      s.userID,
		QuestionID:  s.current.ID,
		Correct:     correct,
		AnswerIndex: s.choices[index].OriginalIndex,
		Elapsed:     now.Sub(s.startTime),
		At:          now,
	})

	var awarded, damage int
	if correct {
		s.sound.Play(domain.SoundShoot)
		s.presenter.MarkChoice(index, true)
		awarded = s.awardLocked()
		s.score += awarded
		s.difficulty += s.rules.DifficultyStep
		s.winEffectLocked()
		s.scheduleNextLocked()
	} else {
		s.sound.Play(domain.SoundWrong)
		s.presenter.MarkChoice(index, false)
		s.triggerReloadLocked()
		damage = s.applyDamageLocked(s.rules.WrongDamage)
	}
	s.refreshStatsLocked()

	out := s.outcomeLocked()
	out.Correct = correct
	out.Awarded = awarded
	out.Damage = damage
	return out, nil
}

// Close stops all timers without showing the game-over screen. A closed session cannot be restarted.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.active {
		s.sound.StopAmbient()
	}
	s.active = false
	s.epoch++
	s.stopTimersLocked()
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return domain.Snapshot{
		SessionID:     s.id,
		UserID:        s.userID,
		Health:        s.health,
		Score:         s.score,
		Difficulty:    s.difficulty,
		EnemyDistance: s.enemyDistance,
		Active:        s.active,
		Reloading:     s.reloading,
		ReloadPercent: s.reloadPercentLocked(),
		AwaitingNext:  s.awaitingNext,
		QuestionID:    s.current.ID,
		Choices:       append([]domain.Choice(nil), s.choices...),
		CorrectSlot:   s.correctSlot,
		History:       append([]string(nil), s.history...),
	}
}

func (s *Session) awardLocked() int {
	award := int(math.Floor(float64(s.rules.MaxAward) - s.enemyDistance))
	if award < s.rules.MinAward {
		return s.rules.MinAward
	}
	return award
}

func (s *Session) winEffectLocked() {
	s.sound.Play(domain.SoundExplosion)
	s.sound.Play(domain.SoundCorrect)
	s.presenter.Effect(domain.EffectWin, s.rules.EffectDuration)
}

func (s *Session) scheduleNextLocked() {
	s.awaitingNext = true
	epoch := s.epoch
	s.nextTimer = s.clock.AfterFunc(s.rules.NextQuestionDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if epoch != s.epoch || !s.active {
			return
		}
		s.nextTimer = nil
		s.selectNextLocked()
	})
}

// applyDamageLocked subtracts amount from health and ends the game at zero.
// It returns the damage actually applied.
func (s *Session) applyDamageLocked(amount int) int {
	if !s.active {
		return 0
	}
	before := s.health
	s.health -= amount
	if s.health < 0 {
		s.health = 0
	}
	s.presenter.Effect(domain.EffectShake, s.rules.EffectDuration)
	if s.health == 0 {
		s.endGameLocked()
	}
	s.refreshStatsLocked()
	return before - s.health
}

func (s *Session) endGameLocked() {
	s.active = false
	s.epoch++
	s.stopTimersLocked()
	if s.reloading {
		s.reloading = false
		s.reloadStep = 0
		s.presenter.ShowReload(false, 0)
	}
	s.sound.StopAmbient()
	s.presenter.ShowGameOver(s.score)

	if s.onGameOver != nil {
		entry := domain.ScoreEntry{UserID: s.userID, Score: s.score, AchievedAt: s.clock.Now()}
		go s.onGameOver(entry)
	}
}

func (s *Session) stopTimersLocked() {
	for _, t := range []*Timer{&s.frameTimer, &s.reloadTimer, &s.nextTimer} {
		if *t != nil {
			(*t).Stop()
			*t = nil
		}
	}
}

func (s *Session) refreshStatsLocked() {
	s.presenter.ShowStats(domain.Stats{
		Health:    s.health,
		Score:     s.score,
		ScoreText: fmt.Sprintf("%06d", s.score),
		Danger:    s.health < s.rules.DangerHealth,
	})
}

func (s *Session) outcomeLocked() domain.AnswerOutcome {
	return domain.AnswerOutcome{
		Score:      s.score,
		Health:     s.health,
		Difficulty: s.difficulty,
		GameOver:   !s.active && s.health == 0,
	}
}
