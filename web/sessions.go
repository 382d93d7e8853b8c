package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"ttconvert/importer"
)

// upload is a parsed export kept in memory between page views.
type upload struct {
	ID         string
	FileName   string
	UploadedAt time.Time
	Result     *importer.Result
}

// sessionStore holds uploads keyed by random id and evicts the oldest entry
// once limit is exceeded.
type sessionStore struct {
	mu      sync.RWMutex
	limit   int
	order   []string
	uploads map[string]*upload
}

func newSessionStore(limit int) *sessionStore {
	return &sessionStore{
		limit:   max(limit, 1),
		uploads: make(map[string]*upload),
	}
}

func (s *sessionStore) Put(fileName string, result *importer.Result, now time.Time) *upload {
	entry := &upload{
		ID:         uuid.NewString(),
		FileName:   fileName,
		UploadedAt: now,
		Result:     result,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.uploads[entry.ID] = entry
	s.order = append(s.order, entry.ID)
	for len(s.order) > s.limit {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.uploads, oldest)
	}
	return entry
}

func (s *sessionStore) Get(id string) (*upload, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.uploads[id]
	return entry, ok
}

func (s *sessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.uploads)
}
