package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"reflect"

	"quiz-roulette/internal/domain"

	"github.com/redis/go-redis/v9"
)

// Document keys. Two long-lived documents plus the transient in-flight
// question, mirroring the browser-storage layout of the original game.
const (
	stateKey    = "quizgame:state"
	settingsKey = "quizgame:settings"
	progressKey = "quizgame:progress"
)

// DocStore is a Redis-backed implementation of app.DocumentStore.
// Reads self-heal: a missing or corrupt document is replaced by defaults
// and written back. Writes are best-effort; a failed write is logged and
// the caller's in-memory copy stays authoritative.
type DocStore struct {
	client *redis.Client
	seed   func() domain.RoundState
}

// NewDocStore builds a store. seed supplies the initial game document when
// none is stored; nil means the built-in defaults.
func NewDocStore(client *redis.Client, seed func() domain.RoundState) *DocStore {
	if seed == nil {
		seed = domain.DefaultRoundState
	}
	return &DocStore{client: client, seed: seed}
}

func (s *DocStore) LoadState(ctx context.Context) (domain.RoundState, error) {
	raw, err := s.client.Get(ctx, stateKey).Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		return domain.RoundState{}, err
	}

	if err == nil {
		var state domain.RoundState
		if jsonErr := json.Unmarshal(raw, &state); jsonErr == nil {
			healed := state
			domain.FillStateDefaults(&healed)
			if !reflect.DeepEqual(healed, state) {
				s.set(ctx, stateKey, healed)
			}
			return healed, nil
		}
		log.Printf("stored game state unparseable, resetting to defaults")
	}

	state := s.seed()
	domain.FillStateDefaults(&state)
	s.set(ctx, stateKey, state)
	return state, nil
}

func (s *DocStore) SaveState(ctx context.Context, state domain.RoundState) {
	s.set(ctx, stateKey, state)
}

func (s *DocStore) LoadSettings(ctx context.Context) (domain.Settings, error) {
	raw, err := s.client.Get(ctx, settingsKey).Bytes()
	if err != nil && !errors.Is(err, redis.Nil) {
		return domain.Settings{}, err
	}

	if err == nil {
		var settings domain.Settings
		if jsonErr := json.Unmarshal(raw, &settings); jsonErr == nil {
			healed := settings
			domain.FillSettingsDefaults(&healed)
			if healed != settings {
				s.set(ctx, settingsKey, healed)
			}
			return healed, nil
		}
		log.Printf("stored settings unparseable, resetting to defaults")
	}

	settings := domain.DefaultSettings()
	s.set(ctx, settingsKey, settings)
	return settings, nil
}

func (s *DocStore) SaveSettings(ctx context.Context, settings domain.Settings) {
	s.set(ctx, settingsKey, settings)
}

func (s *DocStore) LoadProgress(ctx context.Context) (domain.QuestionProgress, bool) {
	raw, err := s.client.Get(ctx, progressKey).Bytes()
	if err != nil {
		return domain.QuestionProgress{}, false
	}
	var progress domain.QuestionProgress
	if err := json.Unmarshal(raw, &progress); err != nil {
		// Corrupt transient document; drop it rather than resume garbage.
		s.ClearProgress(ctx)
		return domain.QuestionProgress{}, false
	}
	return progress, true
}

func (s *DocStore) SaveProgress(ctx context.Context, progress domain.QuestionProgress) {
	s.set(ctx, progressKey, progress)
}

func (s *DocStore) ClearProgress(ctx context.Context) {
	if err := s.client.Del(ctx, progressKey).Err(); err != nil {
		log.Printf("clear %s failed: %v", progressKey, err)
	}
}

// set marshals and writes a document, logging failures instead of
// surfacing them.
func (s *DocStore) set(ctx context.Context, key string, doc any) {
	raw, err := json.Marshal(doc)
	if err != nil {
		log.Printf("marshal %s failed: %v", key, err)
		return
	}
	if err := s.client.Set(ctx, key, raw, 0).Err(); err != nil {
		log.Printf("write %s failed: %v", key, err)
	}
}
