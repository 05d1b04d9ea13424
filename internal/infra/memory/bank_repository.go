package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"quiz-roulette/internal/domain"

	"golang.org/x/sync/singleflight"
)

// BankLoader fetches the question bank from a backing store (e.g. the
// Postgres table).
type BankLoader interface {
	LoadBank(ctx context.Context) ([]domain.QuizItem, error)
}

// BankRepository caches the question bank with TTL so synthesizing a fresh
// game document does not hammer the backing store.
type BankRepository struct {
	loader BankLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu        sync.RWMutex
	items     []domain.QuizItem
	expiresAt time.Time
}

func NewBankRepository(loader BankLoader, ttl time.Duration) *BankRepository {
	return &BankRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *BankRepository) GetBank(ctx context.Context) ([]domain.QuizItem, error) {
	now := r.clock()

	r.mu.RLock()
	if r.items != nil && r.expiresAt.After(now) {
		items := cloneItems(r.items)
		r.mu.RUnlock()
		return items, nil
	}
	r.mu.RUnlock()

	result, err, _ := r.sf.Do("bank", func() (interface{}, error) {
		now := r.clock()
		r.mu.RLock()
		if r.items != nil && r.expiresAt.After(now) {
			items := cloneItems(r.items)
			r.mu.RUnlock()
			return items, nil
		}
		r.mu.RUnlock()

		items, err := r.loader.LoadBank(ctx)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.items = cloneItems(items)
		r.expiresAt = now.Add(r.ttlWithJitter())
		r.mu.Unlock()
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.QuizItem), nil
}

// SeedState builds an initial game document from the bank, falling back to
// the built-in trivia set when the bank is empty or unreachable.
func (r *BankRepository) SeedState(ctx context.Context) domain.RoundState {
	state := domain.DefaultRoundState()
	if items, err := r.GetBank(ctx); err == nil && len(items) > 0 {
		state.QuizItems = items
	}
	return state
}

// StaticBankLoader is a loader backed by a fixed slice (tests/demos).
type StaticBankLoader struct {
	items []domain.QuizItem
}

func NewStaticBankLoader(items []domain.QuizItem) *StaticBankLoader {
	return &StaticBankLoader{items: items}
}

func (l *StaticBankLoader) LoadBank(_ context.Context) ([]domain.QuizItem, error) {
	return cloneItems(l.items), nil
}

func (r *BankRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

func cloneItems(items []domain.QuizItem) []domain.QuizItem {
	out := make([]domain.QuizItem, len(items))
	for i, q := range items {
		q.Choices = append([]string(nil), q.Choices...)
		out[i] = q
	}
	return out
}
