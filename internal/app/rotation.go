package app

import (
	"math/rand"

	"lingo-shooter/internal/domain"
)

// selectNextLocked serves a question that is not in the recent history and resets the
// per-question state.
func (s *Session) selectNextLocked() {
	if !s.active || len(s.bank) == 0 {
		return
	}

	q := pickQuestion(s.rnd, s.bank, s.history)
	s.history = pushHistory(s.history, q.ID, historyLimit(len(s.bank)))
	s.current = q

	now := s.clock.Now()
	s.enemyDistance = 0
	s.startTime = now
	s.lastAttackTime = now
	s.awaitingNext = false

	s.choices = shuffleChoices(s.rnd, q.Choices)
	s.correctSlot = correctSlot(s.choices, q.Answer)

	s.presenter.ShowQuestion(q.Question, s.choices)
	s.presenter.ResetEnemy()
	if s.rules.Narrate {
		s.narrator.Speak(q.Question)
	}
}

// historyLimit is half the bank size, at least one.
func historyLimit(bankSize int) int {
	if limit := bankSize / 2; limit > 1 {
		return limit
	}
	return 1
}

func candidates(bank []domain.Question, history []string) []domain.Question {
	if len(bank) <= 1 {
		return bank
	}
	recent := make(map[string]struct{}, len(history))
	for _, id := range history {
		recent[id] = struct{}{}
	}
	out := make([]domain.Question, 0, len(bank))
	for _, q := range bank {
		if _, ok := recent[q.ID]; !ok {
			out = append(out, q)
		}
	}
	if len(out) == 0 {
		return bank
	}
	return out
}

func pickQuestion(rnd *rand.Rand, bank []domain.Question, history []string) domain.Question {
	pool := candidates(bank, history)
	return pool[rnd.Intn(len(pool))]
}

// pushHistory appends id and evicts the oldest entries beyond limit.
func pushHistory(history []string, id string, limit int) []string {
	history = append(history, id)
	if over := len(history) - limit; over > 0 {
		history = append(history[:0], history[over:]...)
	}
	return history
}

// shuffleChoices pairs each choice with its original index and applies a Fisher-Yates shuffle.
func shuffleChoices(rnd *rand.Rand, texts []string) []domain.Choice {
	choices := make([]domain.Choice, len(texts))
	for i, text := range texts {
		choices[i] = domain.Choice{Text: text, OriginalIndex: i}
	}
	for i := len(choices) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		choices[i], choices[j] = choices[j], choices[i]
	}
	return choices
}

func correctSlot(choices []domain.Choice, answer int) int {
	for i, c := range choices {
		if c.OriginalIndex == answer {
			return i
		}
	}
	return -1
}
