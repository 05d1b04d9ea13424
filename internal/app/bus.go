package app

import (
	"sync"

	"quiz-roulette/internal/domain"
)

// SettingsBus is the single explicit settings-changed notification channel
// between the admin surface and live game sessions. The admin publishes
// after a successful save; subscribers re-read promptly instead of polling.
type SettingsBus struct {
	mu          sync.Mutex
	subscribers map[chan domain.Settings]struct{}
}

func NewSettingsBus() *SettingsBus {
	return &SettingsBus{subscribers: make(map[chan domain.Settings]struct{})}
}

// Subscribe returns a channel receiving each published settings document.
// The caller must invoke the returned cancel function to avoid leaks.
func (b *SettingsBus) Subscribe() (<-chan domain.Settings, func()) {
	ch := make(chan domain.Settings, 8)

	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subscribers[ch]; ok {
			delete(b.subscribers, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish fans the settings out to every subscriber. Slow subscribers have
// their oldest pending update dropped rather than blocking the publisher.
func (b *SettingsBus) Publish(settings domain.Settings) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subscribers {
		select {
		case ch <- settings:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- settings
		}
	}
}
