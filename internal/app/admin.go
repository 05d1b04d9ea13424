package app

import (
	"context"
	"strings"

	"quiz-roulette/internal/domain"

	"github.com/google/uuid"
)

// Admin contains the administrative use cases: roster and question-bank
// edits, bulk saves, settings, and the round reset. It writes straight to
// the shared documents; live sessions pick the changes up on their next
// read (an accepted inconsistency window, not coordinated).
type Admin struct {
	store DocumentStore
	bus   *SettingsBus
}

func NewAdmin(store DocumentStore, bus *SettingsBus) *Admin {
	return &Admin{store: store, bus: bus}
}

// State returns the full game document for the admin surface.
func (a *Admin) State(ctx context.Context) (domain.RoundState, error) {
	return a.store.LoadState(ctx)
}

// SaveState overwrites the game document wholesale (bulk save).
// Last writer wins.
func (a *Admin) SaveState(ctx context.Context, state domain.RoundState) error {
	for _, q := range state.QuizItems {
		if err := validateQuizItem(q); err != nil {
			return err
		}
	}
	domain.FillStateDefaults(&state)
	a.store.SaveState(ctx, state)
	return nil
}

// AddParticipant appends a new entrant to the roster.
func (a *Admin) AddParticipant(ctx context.Context, displayName string) (domain.Participant, error) {
	state, err := a.store.LoadState(ctx)
	if err != nil {
		return domain.Participant{}, err
	}
	p := domain.Participant{
		ID:          uuid.NewString(),
		DisplayName: strings.TrimSpace(displayName),
	}
	state.Participants = append(state.Participants, p)
	a.store.SaveState(ctx, state)
	return p, nil
}

// RenameParticipant updates a participant's display name.
func (a *Admin) RenameParticipant(ctx context.Context, id, displayName string) error {
	return a.updateParticipant(ctx, id, func(p *domain.Participant) {
		p.DisplayName = strings.TrimSpace(displayName)
	})
}

// TogglePlayed flips a participant's played-this-round flag.
func (a *Admin) TogglePlayed(ctx context.Context, id string) error {
	return a.updateParticipant(ctx, id, func(p *domain.Participant) {
		p.HasPlayedThisRound = !p.HasPlayedThisRound
	})
}

// DeleteParticipant removes an entrant from the roster permanently. Past
// round counts are unaffected.
func (a *Admin) DeleteParticipant(ctx context.Context, id string) error {
	state, err := a.store.LoadState(ctx)
	if err != nil {
		return err
	}
	kept := state.Participants[:0]
	found := false
	for _, p := range state.Participants {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return domain.ErrParticipantNotFound
	}
	state.Participants = kept
	a.store.SaveState(ctx, state)
	return nil
}

// AddQuizItem appends a new question to the bank.
func (a *Admin) AddQuizItem(ctx context.Context, prompt string, choices []string, correct int) (domain.QuizItem, error) {
	item := domain.QuizItem{
		ID:                 uuid.NewString(),
		Prompt:             strings.TrimSpace(prompt),
		Choices:            append([]string(nil), choices...),
		CorrectChoiceIndex: correct,
	}
	if err := validateQuizItem(item); err != nil {
		return domain.QuizItem{}, err
	}
	state, err := a.store.LoadState(ctx)
	if err != nil {
		return domain.QuizItem{}, err
	}
	state.QuizItems = append(state.QuizItems, item)
	a.store.SaveState(ctx, state)
	return item, nil
}

// UpdateQuizItem replaces an existing question, keeping its used flag.
func (a *Admin) UpdateQuizItem(ctx context.Context, item domain.QuizItem) error {
	if err := validateQuizItem(item); err != nil {
		return err
	}
	state, err := a.store.LoadState(ctx)
	if err != nil {
		return err
	}
	for i := range state.QuizItems {
		if state.QuizItems[i].ID == item.ID {
			item.UsedThisRound = state.QuizItems[i].UsedThisRound
			state.QuizItems[i] = item
			a.store.SaveState(ctx, state)
			return nil
		}
	}
	return domain.ErrQuizItemNotFound
}

// DeleteQuizItem removes a question from the bank permanently.
func (a *Admin) DeleteQuizItem(ctx context.Context, id string) error {
	state, err := a.store.LoadState(ctx)
	if err != nil {
		return err
	}
	kept := state.QuizItems[:0]
	found := false
	for _, q := range state.QuizItems {
		if q.ID == id {
			found = true
			continue
		}
		kept = append(kept, q)
	}
	if !found {
		return domain.ErrQuizItemNotFound
	}
	state.QuizItems = kept
	a.store.SaveState(ctx, state)
	return nil
}

// ResetRound clears all consumption flags on the stored document.
func (a *Admin) ResetRound(ctx context.Context) error {
	state, err := a.store.LoadState(ctx)
	if err != nil {
		return err
	}
	a.store.SaveState(ctx, domain.ResetRound(state))
	a.store.ClearProgress(ctx)
	return nil
}

// Settings returns the settings document.
func (a *Admin) Settings(ctx context.Context) (domain.Settings, error) {
	return a.store.LoadSettings(ctx)
}

// SaveSettings validates and overwrites the settings document wholesale,
// then notifies subscribed sessions so they re-read promptly.
func (a *Admin) SaveSettings(ctx context.Context, settings domain.Settings) error {
	if settings.QuestionTimeoutSeconds < domain.MinTimeoutSeconds ||
		settings.QuestionTimeoutSeconds > domain.MaxTimeoutSeconds {
		return domain.ErrInvalidTimeout
	}
	domain.FillSettingsDefaults(&settings)
	a.store.SaveSettings(ctx, settings)
	if a.bus != nil {
		a.bus.Publish(settings)
	}
	return nil
}

// VerifyGate checks the admin gate secret. This is a cosmetic gate, not an
// authentication boundary: a plaintext compare, exactly as stored.
func (a *Admin) VerifyGate(ctx context.Context, secret string) bool {
	settings, err := a.store.LoadSettings(ctx)
	if err != nil {
		return false
	}
	return secret == settings.AdminGateSecret
}

func (a *Admin) updateParticipant(ctx context.Context, id string, apply func(*domain.Participant)) error {
	state, err := a.store.LoadState(ctx)
	if err != nil {
		return err
	}
	for i := range state.Participants {
		if state.Participants[i].ID == id {
			apply(&state.Participants[i])
			a.store.SaveState(ctx, state)
			return nil
		}
	}
	return domain.ErrParticipantNotFound
}

func validateQuizItem(item domain.QuizItem) error {
	if len(item.Choices) != 4 {
		return domain.ErrInvalidChoices
	}
	if item.CorrectChoiceIndex < 0 || item.CorrectChoiceIndex > 3 {
		return domain.ErrInvalidChoices
	}
	return nil
}
