package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/voxboard-ai/dashboard-core/pkg/logger"
)

// FileStore is a substrate persisted to a single session file, so a session
// survives a process restart the way a tab survives a page reload. Writes
// are synchronous relative to the caller; persistence failures are logged
// and the in-memory view stays authoritative.
type FileStore struct {
	mu     sync.RWMutex
	data   map[string]string
	path   string
	logger *logger.Logger
}

// NewFileStore creates a file-backed store, loading any existing session
// file. A corrupt or unreadable file starts the session empty.
func NewFileStore(path string, log *logger.Logger) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	s := &FileStore{
		data:   make(map[string]string),
		path:   path,
		logger: log,
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("could not read session file, starting empty",
				zap.String("path", path), zap.Error(err))
		}
		return s, nil
	}

	if err := json.Unmarshal(content, &s.data); err != nil {
		log.Warn("could not parse session file, starting empty",
			zap.String("path", path), zap.Error(err))
		s.data = make(map[string]string)
	}
	return s, nil
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.data[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = value
	s.persistLocked()
}

func (s *FileStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	s.persistLocked()
}

func (s *FileStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data = make(map[string]string)
	s.persistLocked()
}

func (s *FileStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	return keys
}

// persistLocked writes the session file atomically via a temp file and
// rename. Must be called with s.mu held.
func (s *FileStore) persistLocked() {
	bytes, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		s.logger.Error("failed to serialize session file", zap.Error(err))
		return
	}

	tempPath := s.path + ".tmp"
	if err := os.WriteFile(tempPath, bytes, 0o644); err != nil {
		s.logger.Error("failed to write session file",
			zap.String("path", s.path), zap.Error(err))
		return
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		s.logger.Error("failed to replace session file",
			zap.String("path", s.path), zap.Error(err))
	}
}
