package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"lingo-shooter/internal/domain"
)

// SessionRepository abstracts where live sessions are registered (in-memory, Redis, etc).
type SessionRepository interface {
	Put(session *Session)
	Get(sessionID string) (*Session, bool)
	Delete(sessionID string)
	// Touch marks a session as still in play.
	Touch(sessionID string)
}

// QuestionRepository loads question banks (from cache/backing store).
type QuestionRepository interface {
	GetBank(ctx context.Context, bankID string) ([]domain.Question, error)
}

// ScoreBoard keeps the best final score per player.
type ScoreBoard interface {
	Submit(ctx context.Context, entry domain.ScoreEntry) error
	Top(ctx context.Context, limit int) ([]domain.ScoreEntry, error)
}

// Ports are the per-connection collaborators of a session.
type Ports struct {
	Presenter Presenter
	Sound     Sound
	Narrator  Narrator
}

// ServiceConfig tunes the sessions created by a GameService.
type ServiceConfig struct {
	BankID string
	Rules  Rules
	Clock  Clock
}

// GameService contains the game use cases.
type GameService struct {
	sessions  SessionRepository
	questions QuestionRepository
	scores    ScoreBoard
	telemetry Telemetry
	cfg       ServiceConfig
}

func NewGameService(store SessionRepository, questions QuestionRepository, scores ScoreBoard, telemetry Telemetry, cfg ServiceConfig) *GameService {
	if cfg.Rules.MaxHealth == 0 {
		cfg.Rules = DefaultRules()
	}
	if cfg.Clock == nil {
		cfg.Clock = RealClock()
	}
	return &GameService{
		sessions:  store,
		questions: questions,
		scores:    scores,
		telemetry: telemetry,
		cfg:       cfg,
	}
}

// NewGame registers an inactive session for a player.
func (s *GameService) NewGame(userID string, ports Ports) *Session {
	session := NewSession(uuid.NewString(), SessionDeps{
		UserID:     userID,
		Rules:      s.cfg.Rules,
		Clock:      s.cfg.Clock,
		Presenter:  ports.Presenter,
		Sound:      ports.Sound,
		Narrator:   ports.Narrator,
		Telemetry:  s.telemetry,
		OnGameOver: s.recordScore,
	})
	s.sessions.Put(session)
	return session
}

// Start loads the question bank and (re)starts the session. Start and retry share this path.
func (s *GameService) Start(ctx context.Context, sessionID string) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.ErrSessionNotFound
	}
	s.sessions.Touch(sessionID)
	return session.Start(s.LoadBank(ctx))
}

// SubmitAnswer forwards a choice click to the session.
func (s *GameService) SubmitAnswer(_ context.Context, sessionID string, index int) (domain.AnswerOutcome, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.AnswerOutcome{}, domain.ErrSessionNotFound
	}
	s.sessions.Touch(sessionID)
	return session.SubmitAnswer(index)
}

// Close stops the session and drops it from the registry.
func (s *GameService) Close(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.Close()
	s.sessions.Delete(sessionID)
}

// TopScores returns the best final scores.
func (s *GameService) TopScores(ctx context.Context, limit int) ([]domain.ScoreEntry, error) {
	if s.scores == nil {
		return []domain.ScoreEntry{}, nil
	}
	return s.scores.Top(ctx, limit)
}

// LoadBank returns the configured bank, or the built-in questions when it cannot be loaded.
// A bank that loads successfully but is empty is returned as is.
func (s *GameService) LoadBank(ctx context.Context) []domain.Question {
	questions, err := s.questions.GetBank(ctx, s.cfg.BankID)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("failed to load question bank %q, using default fallback: %v", s.cfg.BankID, err)
		}
		return domain.DefaultQuestions()
	}
	return questions
}

func (s *GameService) recordScore(entry domain.ScoreEntry) {
	if s.scores == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.scores.Submit(ctx, entry); err != nil {
		log.Printf("failed to record score for %s: %v", entry.UserID, err)
	}
}
