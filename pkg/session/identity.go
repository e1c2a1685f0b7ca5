// pkg/session/identity.go
package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// identityFile is the file name the user id is stored under, mirroring the
// "user_id" local-storage key of the original dashboard
const identityFile = "user_id"

// Identity supplies the opaque user identifier sent on every backend
// request. Implementations are injected rather than read from global state
// so tests can run multiple simulated sessions side by side.
type Identity interface {
	// UserID returns the stable identifier, creating one on first use
	UserID() (string, error)

	// Reset discards the stored identifier; the next UserID call mints a
	// fresh one
	Reset() error
}

// FileIdentity persists one random UUID in a file under a state directory
type FileIdentity struct {
	dir string
	mu  sync.Mutex
}

// NewFileIdentity creates a file-backed identity rooted at dir
func NewFileIdentity(dir string) (*FileIdentity, error) {
	if dir == "" {
		return nil, errors.New("state directory cannot be empty")
	}
	return &FileIdentity{dir: dir}, nil
}

// UserID returns the persisted identifier, minting and storing a new UUID
// if none exists yet
func (f *FileIdentity) UserID() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := filepath.Join(f.dir, identityFile)

	data, err := os.ReadFile(path)
	if err == nil {
		id := strings.TrimSpace(string(data))
		if id != "" {
			return id, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read identity file: %w", err)
	}

	id := uuid.New().String()
	if err := os.MkdirAll(f.dir, 0o700); err != nil {
		return "", fmt.Errorf("create state directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write identity file: %w", err)
	}

	return id, nil
}

// Reset deletes the stored identifier
func (f *FileIdentity) Reset() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(filepath.Join(f.dir, identityFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove identity file: %w", err)
	}
	return nil
}

// MemoryIdentity holds the identifier in memory only. Useful for tests and
// for running several isolated sessions in one process.
type MemoryIdentity struct {
	mu sync.Mutex
	id string
}

// NewMemoryIdentity creates an in-memory identity. A non-empty seed fixes
// the identifier; an empty seed defers minting to the first UserID call.
func NewMemoryIdentity(seed string) *MemoryIdentity {
	return &MemoryIdentity{id: seed}
}

// UserID returns the held identifier, minting one on first use
func (m *MemoryIdentity) UserID() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.id == "" {
		m.id = uuid.New().String()
	}
	return m.id, nil
}

// Reset discards the held identifier
func (m *MemoryIdentity) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.id = ""
	return nil
}
