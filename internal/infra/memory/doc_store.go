package memory

import (
	"context"
	"sync"

	"quiz-roulette/internal/domain"
)

// DocStore is an in-memory implementation of app.DocumentStore. It is the
// default persistence medium and the test double for the Redis store.
type DocStore struct {
	mu       sync.RWMutex
	seed     func() domain.RoundState
	state    *domain.RoundState
	settings *domain.Settings
	progress *domain.QuestionProgress
}

// NewDocStore builds a store. seed supplies the initial game document on
// first read; nil means the built-in defaults.
func NewDocStore(seed func() domain.RoundState) *DocStore {
	if seed == nil {
		seed = domain.DefaultRoundState
	}
	return &DocStore{seed: seed}
}

func (s *DocStore) LoadState(_ context.Context) (domain.RoundState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		state := s.seed()
		domain.FillStateDefaults(&state)
		s.state = &state
	}
	return s.state.Clone(), nil
}

func (s *DocStore) SaveState(_ context.Context, state domain.RoundState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := state.Clone()
	s.state = &clone
}

func (s *DocStore) LoadSettings(_ context.Context) (domain.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		settings := domain.DefaultSettings()
		s.settings = &settings
	}
	return *s.settings, nil
}

func (s *DocStore) SaveSettings(_ context.Context, settings domain.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &settings
}

func (s *DocStore) LoadProgress(_ context.Context) (domain.QuestionProgress, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.progress == nil {
		return domain.QuestionProgress{}, false
	}
	return *s.progress, true
}

func (s *DocStore) SaveProgress(_ context.Context, progress domain.QuestionProgress) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = &progress
}

func (s *DocStore) ClearProgress(_ context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = nil
}
