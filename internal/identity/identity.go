// Package identity issues the stable per-installation user id attached to telemetry.
package identity

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	idPrefix = "u"
	idLength = 9
	alphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var (
	rndMu sync.Mutex
	rnd   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// NewUserID returns "u" followed by nine base-36 characters.
func NewUserID() string {
	rndMu.Lock()
	defer rndMu.Unlock()
	var b strings.Builder
	b.Grow(len(idPrefix) + idLength)
	b.WriteString(idPrefix)
	for i := 0; i < idLength; i++ {
		b.WriteByte(alphabet[rnd.Intn(len(alphabet))])
	}
	return b.String()
}

// Valid reports whether id looks like an id issued by NewUserID.
func Valid(id string) bool {
	if len(id) != len(idPrefix)+idLength || !strings.HasPrefix(id, idPrefix) {
		return false
	}
	for _, r := range id[len(idPrefix):] {
		if !strings.ContainsRune(alphabet, r) {
			return false
		}
	}
	return true
}

// FileStore persists the user id in a local file.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// LoadOrCreate returns the stored id, generating and persisting one if absent or unreadable.
func (s *FileStore) LoadOrCreate() (string, error) {
	data, err := os.ReadFile(s.path)
	if err == nil {
		if id := strings.TrimSpace(string(data)); Valid(id) {
			return id, nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("read user id: %w", err)
	}

	id := NewUserID()
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create user id dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write user id: %w", err)
	}
	return id, nil
}
