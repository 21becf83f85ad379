// Package session owns the single mutable "most recently loaded dataset"
// slot used by the surrounding request layer for sequential
// load-then-plot interactions. The core pipeline never reads this state;
// it always receives the dataset as an explicit argument.
package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/stratviz-lab/stratviz/internal/dataset"
	"github.com/stratviz-lab/stratviz/internal/logger"
	"go.uber.org/zap"
)

// Session holds the last loaded dataset behind a mutex.
type Session struct {
	mu     sync.Mutex
	loadID string
	key    string
	ds     *dataset.Dataset
	logger *logger.Logger
}

// NewSession creates an empty session.
func NewSession(log *logger.Logger) *Session {
	return &Session{logger: log}
}

// SetDataset replaces the slot with a newly loaded dataset and returns the
// load identifier assigned to it.
func (s *Session) SetDataset(key string, ds *dataset.Dataset) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadID = uuid.NewString()
	s.key = key
	s.ds = ds

	s.logger.Info("dataset loaded into session",
		zap.String("load_id", s.loadID),
		zap.String("key", key),
		zap.Int("rows", ds.NumRows()),
	)

	return s.loadID
}

// Dataset returns the current slot content, if any.
func (s *Session) Dataset() (string, *dataset.Dataset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ds == nil {
		return "", nil, false
	}

	return s.key, s.ds, true
}

// LoadID returns the identifier of the current slot content, or an empty
// string when the slot is empty.
func (s *Session) LoadID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.loadID
}

// Clear empties the slot.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadID = ""
	s.key = ""
	s.ds = nil
}
