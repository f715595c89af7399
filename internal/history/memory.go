package history

import (
	"sync"

	"docchat/internal/domain"
)

// MemoryStore keeps the log mirror in memory only. Used when history is
// disabled and as the storage port in tests.
type MemoryStore struct {
	mu       sync.RWMutex
	messages []domain.Message
	saves    int
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

func (s *MemoryStore) Save(messages []domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = make([]domain.Message, len(messages))
	copy(s.messages, messages)
	s.saves++
	return nil
}

// Saves reports how many times Save has been called.
func (s *MemoryStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}
