package session

import (
	"encoding/json"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Storage holds the client's persisted key/value state, the local-storage
// analog of a browser session. The only keys ever written are the identity
// provider's session artifacts.
type Storage struct {
	mu     sync.Mutex
	values map[string]string
	path   string
	logger *zap.Logger
}

// NewStorage creates a storage optionally persisted to a JSON file at path.
// An empty path keeps everything in memory.
func NewStorage(path string, logger *zap.Logger) *Storage {
	s := &Storage{
		values: make(map[string]string),
		path:   path,
		logger: logger,
	}
	if path != "" {
		if data, err := os.ReadFile(path); err == nil {
			if err := json.Unmarshal(data, &s.values); err != nil {
				logger.Warn("Failed to decode session storage file, starting empty",
					zap.String("path", path),
					zap.Error(err),
				)
				s.values = make(map[string]string)
			}
		}
	}
	return s
}

func (s *Storage) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.persist()
}

func (s *Storage) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Storage) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	s.persist()
}

func (s *Storage) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	return keys
}

// PurgeAuth removes every stored authentication artifact: any key naming the
// identity provider or containing "auth".
func (s *Storage) PurgeAuth() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.values {
		if strings.Contains(k, "supabase") || strings.Contains(k, "sb-") || strings.Contains(k, "auth") {
			delete(s.values, k)
		}
	}
	s.persist()
	s.logger.Info("Cleared all auth data from storage")
}

// persist is called with the lock held.
func (s *Storage) persist() {
	if s.path == "" {
		return
	}
	data, err := json.Marshal(s.values)
	if err != nil {
		s.logger.Warn("Failed to encode session storage", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		s.logger.Warn("Failed to write session storage file",
			zap.String("path", s.path),
			zap.Error(err),
		)
	}
}
