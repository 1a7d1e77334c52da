// internal/pkg/session/file_store.go
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"storefront/internal/domain/auth"

	"go.uber.org/zap"
)

type fileRecord struct {
	Token   string     `json:"token"`
	User    *auth.User `json:"user"`
	SavedAt time.Time  `json:"saved_at"`
}

// FileStore persists the session as a JSON document readable only by the owner.
// An empty path behaves like a host without durable storage: nothing is kept.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{path: path, logger: logger}
}

func (f *FileStore) SetSession(_ context.Context, token string, user *auth.User) error {
	if f.path == "" {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(fileRecord{Token: token, User: user, SavedAt: time.Now().UTC()}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (f *FileStore) Token(_ context.Context) (string, bool) {
	rec, ok := f.read()
	if !ok || rec.Token == "" {
		return "", false
	}
	return rec.Token, true
}

func (f *FileStore) User(_ context.Context) (*auth.User, bool) {
	rec, ok := f.read()
	if !ok || rec.User == nil {
		return nil, false
	}
	return rec.User, true
}

func (f *FileStore) ClearSession(_ context.Context) error {
	if f.path == "" {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove session: %w", err)
	}
	return nil
}

func (f *FileStore) read() (fileRecord, bool) {
	if f.path == "" {
		return fileRecord{}, false
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.logger.Warn("session file unreadable", zap.String("path", f.path), zap.Error(err))
		}
		return fileRecord{}, false
	}
	var rec fileRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		f.logger.Warn("session file corrupt", zap.String("path", f.path), zap.Error(err))
		return fileRecord{}, false
	}
	return rec, true
}
