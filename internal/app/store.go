package app

import (
	"context"

	"quiz-roulette/internal/domain"
)

// DocumentStore abstracts the key-value persistence medium holding the two
// game documents plus the transient in-flight question (in-memory, Redis,
// etc). Loads self-heal: a missing or unparseable document comes back as
// its defaults, already written back to the medium. Saves are best-effort
// and never fail the caller; implementations log write failures and the
// in-memory working copy stays authoritative for the rest of the session.
type DocumentStore interface {
	LoadState(ctx context.Context) (domain.RoundState, error)
	SaveState(ctx context.Context, state domain.RoundState)

	LoadSettings(ctx context.Context) (domain.Settings, error)
	SaveSettings(ctx context.Context, settings domain.Settings)

	LoadProgress(ctx context.Context) (domain.QuestionProgress, bool)
	SaveProgress(ctx context.Context, progress domain.QuestionProgress)
	ClearProgress(ctx context.Context)
}
