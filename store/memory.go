package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// Memory is an in-memory ObjectStore used by tests.
type Memory struct {
	mu      sync.RWMutex
	objects map[string][]byte
	mtimes  map[string]time.Time
}

func NewMemory() *Memory {
	return &Memory{
		objects: make(map[string][]byte),
		mtimes:  make(map[string]time.Time),
	}
}

func (s *Memory) List(ctx context.Context, prefix string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Entry
	for p := range s.objects {
		if strings.HasPrefix(p, prefix) {
			out = append(out, Entry{Path: p, Modified: s.mtimes[p]})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (s *Memory) Read(ctx context.Context, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[path]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *Memory) Write(ctx context.Context, path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.objects[path] = cp
	s.mtimes[path] = time.Now()
	return nil
}

// SetModified overrides an object's modification time; tests use it to
// exercise latest-file selection.
func (s *Memory) SetModified(path string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mtimes[path] = t
}

func (s *Memory) EnsureDir(ctx context.Context, prefix string) error {
	return nil
}
