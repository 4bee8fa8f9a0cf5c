package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
	"lingo-shooter/internal/domain"
)

// QuestionLoader reads question banks from JSON or YAML files. If path is a directory,
// bank ids map to <path>/<bankID>.json (or .yaml/.yml); otherwise every bank id resolves
// to the single file.
type QuestionLoader struct {
	path string
}

func NewQuestionLoader(path string) *QuestionLoader {
	return &QuestionLoader{path: path}
}

func (l *QuestionLoader) LoadBank(_ context.Context, bankID string) ([]domain.Question, error) {
	path, err := l.resolve(bankID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	questions, err := Decode(path, data)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateBank(questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// Decode parses a question list, choosing the format from the file extension.
func Decode(path string, data []byte) ([]domain.Question, error) {
	var questions []domain.Question
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &questions); err != nil {
			return nil, fmt.Errorf("unmarshal questions: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &questions); err != nil {
			return nil, fmt.Errorf("unmarshal questions: %w", err)
		}
	}
	if questions == nil {
		questions = []domain.Question{}
	}
	return questions, nil
}

func (l *QuestionLoader) resolve(bankID string) (string, error) {
	info, err := os.Stat(l.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", domain.ErrBankNotFound, l.path)
		}
		return "", err
	}
	if !info.IsDir() {
		return l.path, nil
	}
	if bankID == "" || strings.ContainsAny(bankID, `/\`) || strings.HasPrefix(bankID, ".") {
		return "", fmt.Errorf("%w: %q", domain.ErrBankNotFound, bankID)
	}
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		candidate := filepath.Join(l.path, bankID+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", domain.ErrBankNotFound, bankID)
}
