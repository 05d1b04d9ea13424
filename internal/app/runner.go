package app

import (
	"context"
	"time"
)

// RunCountdown drives the one-tick-per-second countdown for a session
// until ctx is cancelled. Tick itself ignores ticks outside the presenting
// phase and while the tab is hidden, so this loop can run unconditionally.
func RunCountdown(ctx context.Context, session *Session) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = session.Tick(ctx)
		}
	}
}

// RunSettingsWatcher forwards settings-changed notifications from the bus
// into the session until ctx is cancelled.
func RunSettingsWatcher(ctx context.Context, session *Session, bus *SettingsBus) {
	updates, cancel := bus.Subscribe()
	defer cancel()
	for {
		select {
		case <-ctx.Done():
			return
		case settings, ok := <-updates:
			if !ok {
				return
			}
			session.ApplySettings(settings)
		}
	}
}
