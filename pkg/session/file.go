package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// FileStore is a file-based session store for CLI applications.
// Records are stored as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based session store.
// If baseDir is empty, defaults to ~/.config/exprtree/sessions/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "exprtree", "sessions")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

func (s *FileStore) recordPath(id string) (string, error) {
	if !validID.MatchString(id) {
		return "", fmt.Errorf("invalid session id %q", id)
	}
	return filepath.Join(s.baseDir, id+".json"), nil
}

func (s *FileStore) Get(ctx context.Context, id string) (*Record, error) {
	path, err := s.recordPath(id)
	if err != nil {
		return nil, nil
	}

	s.mu.RLock()
	data, err := os.ReadFile(path)
	s.mu.RUnlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}

	if rec.IsExpired() {
		_ = s.Delete(ctx, id)
		return nil, nil
	}
	return &rec, nil
}

func (s *FileStore) Set(ctx context.Context, rec *Record) error {
	path, err := s.recordPath(rec.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	path, err := s.recordPath(id)
	if err != nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

func (s *FileStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return fmt.Errorf("read session dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			continue
		}
		if rec.IsExpired() {
			_ = os.Remove(path)
		}
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for session files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
