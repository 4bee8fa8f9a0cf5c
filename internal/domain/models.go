package domain

import (
	"fmt"
	"time"
)

// ChoiceCount is the fixed number of choices per question.
const ChoiceCount = 4

// Question is one record of the question bank.
type Question struct {
	ID          string   `json:"id" yaml:"id"`
	Level       int      `json:"level" yaml:"level"`
	Category    string   `json:"category" yaml:"category"`
	Question    string   `json:"question" yaml:"question"`
	Choices     []string `json:"choices" yaml:"choices"`
	Answer      int      `json:"answer" yaml:"answer"`
	Explanation string   `json:"explanation" yaml:"explanation"`
}

// Validate checks the structural invariants of a question record.
func (q Question) Validate() error {
	if q.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidQuestion)
	}
	if len(q.Choices) != ChoiceCount {
		return fmt.Errorf("%w: %s has %d choices", ErrInvalidQuestion, q.ID, len(q.Choices))
	}
	if q.Answer < 0 || q.Answer >= len(q.Choices) {
		return fmt.Errorf("%w: %s answer %d out of range", ErrInvalidQuestion, q.ID, q.Answer)
	}
	return nil
}

// ValidateBank validates every record of a bank.
func ValidateBank(questions []Question) error {
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Choice is a displayed answer paired with its index in the original record.
type Choice struct {
	Text          string `json:"text"`
	OriginalIndex int    `json:"originalIndex"`
}

// Stats is the health/score view pushed to the presentation layer.
type Stats struct {
	Health    int    `json:"health"`
	Score     int    `json:"score"`
	ScoreText string `json:"scoreText"`
	Danger    bool   `json:"danger"`
}

// AnswerEvent is emitted for every accepted answer.
type AnswerEvent struct {
	UserID      string
	QuestionID  string
	Correct     bool
	AnswerIndex int
	Elapsed     time.Duration
	At          time.Time
}

// HistoryRecord is the persisted/transmitted form of an AnswerEvent.
type HistoryRecord struct {
	UserID      string  `json:"user_id"`
	QuestionID  string  `json:"question_id"`
	Correct     bool    `json:"correct"`
	AnswerIndex int     `json:"answer_index"`
	Time        float64 `json:"time"`
	PlayedAt    string  `json:"played_at"`
}

// NewHistoryRecord converts an answer event to its wire form.
func NewHistoryRecord(ev AnswerEvent) HistoryRecord {
	return HistoryRecord{
		UserID:      ev.UserID,
		QuestionID:  ev.QuestionID,
		Correct:     ev.Correct,
		AnswerIndex: ev.AnswerIndex,
		Time:        ev.Elapsed.Seconds(),
		PlayedAt:    ev.At.UTC().Format(time.RFC3339Nano),
	}
}

// Validate checks that a record received from a client is usable.
func (r HistoryRecord) Validate() error {
	if r.UserID == "" || r.QuestionID == "" {
		return fmt.Errorf("%w: user_id and question_id are required", ErrInvalidRecord)
	}
	if r.AnswerIndex < 0 || r.AnswerIndex >= ChoiceCount {
		return fmt.Errorf("%w: answer_index %d", ErrInvalidRecord, r.AnswerIndex)
	}
	if r.Time < 0 {
		return fmt.Errorf("%w: negative time", ErrInvalidRecord)
	}
	if _, err := time.Parse(time.RFC3339Nano, r.PlayedAt); err != nil {
		return fmt.Errorf("%w: played_at: %v", ErrInvalidRecord, err)
	}
	return nil
}

// HistoryStatus is the reply of a history sink.
type HistoryStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// AnswerOutcome summarizes the effect of a submitted answer.
type AnswerOutcome struct {
	Ignored    bool    `json:"ignored"`
	Correct    bool    `json:"correct"`
	Awarded    int     `json:"awarded"`
	Damage     int     `json:"damage"`
	Score      int     `json:"score"`
	Health     int     `json:"health"`
	Difficulty float64 `json:"difficulty"`
	GameOver   bool    `json:"gameOver"`
}

// Snapshot is a read-only copy of session state.
type Snapshot struct {
	SessionID     string
	UserID        string
	Health        int
	Score         int
	Difficulty    float64
	EnemyDistance float64
	Active        bool
	Reloading     bool
	ReloadPercent float64
	AwaitingNext  bool
	QuestionID    string
	Choices       []Choice
	CorrectSlot   int
	History       []string
}

// ScoreEntry is one line of the scoreboard.
type ScoreEntry struct {
	UserID     string    `json:"userId"`
	Score      int       `json:"score"`
	AchievedAt time.Time `json:"achievedAt"`
}

// Screen identifies an overlay screen of the game.
type Screen string

const (
	ScreenStart    Screen = "start"
	ScreenPlaying  Screen = "playing"
	ScreenGameOver Screen = "gameOver"
)

// Effect is a transient visual effect.
type Effect string

const (
	EffectShake   Effect = "shake"
	EffectWin     Effect = "shoot-up"
	EffectBeam    Effect = "beam"
	EffectExplode Effect = "explosion"
)

// Sound is a short sound effect played by the client.
type Sound string

const (
	SoundShoot     Sound = "shoot"
	SoundExplosion Sound = "explosion"
	SoundCorrect   Sound = "correct"
	SoundWrong     Sound = "wrong"
	SoundReload    Sound = "reload"
)
