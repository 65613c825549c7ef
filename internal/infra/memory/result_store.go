package memory

import (
	"context"
	"sync"

	"logic-quiz-service/internal/domain"
)

// ResultStore keeps records in process memory. Useful for tests and demos; nothing survives a restart.
type ResultStore struct {
	mu       sync.RWMutex
	attempts []domain.StoredAttempt
	answers  []domain.AnswerLogEntry
	progress []domain.ProgressSnapshot
}

func NewResultStore() *ResultStore {
	return &ResultStore{}
}

func (s *ResultStore) AppendAttempt(_ context.Context, attempt domain.StoredAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = append(s.attempts, attempt)
	return nil
}

func (s *ResultStore) AppendAnswerLog(_ context.Context, entry domain.AnswerLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = append(s.answers, entry)
	return nil
}

func (s *ResultStore) UpsertProgress(_ context.Context, snapshot domain.ProgressSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := domain.LearnerKey(snapshot.StudentName)
	for i, p := range s.progress {
		if domain.LearnerKey(p.StudentName) == key {
			s.progress[i] = snapshot
			return nil
		}
	}
	s.progress = append(s.progress, snapshot)
	return nil
}

func (s *ResultStore) LoadAttempts(_ context.Context) ([]domain.StoredAttempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.StoredAttempt(nil), s.attempts...), nil
}

func (s *ResultStore) LoadAnswerLogs(_ context.Context) ([]domain.AnswerLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.AnswerLogEntry(nil), s.answers...), nil
}

func (s *ResultStore) LoadProgress(_ context.Context) ([]domain.ProgressSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.ProgressSnapshot(nil), s.progress...), nil
}

func (s *ResultStore) ClearAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = nil
	s.answers = nil
	s.progress = nil
	return nil
}
