package app_test

import (
	"context"
	"math/rand"
	"testing"

	"quiz-roulette/internal/app"
	"quiz-roulette/internal/domain"
	"quiz-roulette/internal/infra/memory"
)

func seededStore(participants int, questions int) *memory.DocStore {
	return memory.NewDocStore(func() domain.RoundState {
		state := domain.RoundState{}
		for i := 0; i < participants; i++ {
			state.Participants = append(state.Participants, domain.Participant{
				ID:          string(rune('a' + i)),
				DisplayName: "P" + string(rune('A'+i)),
			})
		}
		for i := 0; i < questions; i++ {
			state.QuizItems = append(state.QuizItems, domain.QuizItem{
				ID:                 "q" + string(rune('1'+i)),
				Prompt:             "prompt",
				Choices:            []string{"a", "b", "c", "d"},
				CorrectChoiceIndex: 1,
			})
		}
		return state
	})
}

func newTestSession(t *testing.T, store *memory.DocStore) *app.Session {
	t.Helper()
	session, err := app.NewSession(context.Background(), store, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return session
}

func playOneQuestion(t *testing.T, ctx context.Context, session *app.Session, choice int) app.Snapshot {
	t.Helper()
	if _, err := session.Spin(ctx); err != nil {
		t.Fatalf("spin: %v", err)
	}
	if _, err := session.Begin(ctx); err != nil {
		t.Fatalf("begin: %v", err)
	}
	_, snap, err := session.Submit(ctx, choice)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return snap
}

func TestQuestionPoolExhaustionCompletesRound(t *testing.T) {
	ctx := context.Background()
	store := seededStore(2, 1)
	session := newTestSession(t, store)

	snap := playOneQuestion(t, ctx, session, 1)

	if snap.Phase != app.PhaseRoundComplete {
		t.Fatalf("expected round complete with item pool exhausted, got %s", snap.Phase)
	}
	if snap.LastOutcome == nil || !snap.LastOutcome.Correct || snap.LastOutcome.ChoiceIndex != 1 {
		t.Fatalf("expected correct outcome on the resolution snapshot, got %+v", snap.LastOutcome)
	}
	state, _ := store.LoadState(ctx)
	if !state.RoundComplete {
		t.Fatalf("expected completion persisted")
	}
	// One participant never played; question exhaustion alone completes.
	if got := len(domain.AvailableParticipants(state)); got != 1 {
		t.Fatalf("expected 1 participant left unplayed, got %d", got)
	}
}

func TestFullRoundIncrementsCounterOnce(t *testing.T) {
	ctx := context.Background()
	store := seededStore(3, 3)
	session := newTestSession(t, store)

	var snap app.Snapshot
	for i := 0; i < 3; i++ {
		snap = playOneQuestion(t, ctx, session, 0)
		if i < 2 && snap.Phase != app.PhaseSpinning {
			t.Fatalf("cycle %d: expected return to spinning, got %s", i, snap.Phase)
		}
	}

	if snap.Phase != app.PhaseRoundComplete {
		t.Fatalf("expected round complete after third cycle, got %s", snap.Phase)
	}
	if snap.TotalRoundsCompleted != 1 {
		t.Fatalf("expected counter incremented exactly once, got %d", snap.TotalRoundsCompleted)
	}
}

func TestSpinWithNoQuestionsGoesToComplete(t *testing.T) {
	ctx := context.Background()
	store := seededStore(2, 0)
	store.SaveState(ctx, domain.RoundState{
		Participants: []domain.Participant{
			{ID: "a", DisplayName: "PA"},
			{ID: "b", DisplayName: "PB"},
		},
	})
	// An empty question pool already counts as a complete round on load.
	session := newTestSession(t, store)
	if snap := session.Snapshot(); snap.Phase != app.PhaseRoundComplete {
		t.Fatalf("expected complete phase on load with no questions, got %s", snap.Phase)
	}
}

func TestAdminDeletingQuestionsMidRoundEndsIt(t *testing.T) {
	ctx := context.Background()
	store := seededStore(3, 3)
	session := newTestSession(t, store)

	// Admin wipes the remaining questions while the session idles on the
	// wheel; the next spin must land on the terminal display, not error.
	state, _ := store.LoadState(ctx)
	state.QuizItems = nil
	store.SaveState(ctx, state)

	snap, err := session.Spin(ctx)
	if err != nil {
		t.Fatalf("spin: %v", err)
	}
	if snap.Phase != app.PhaseRoundComplete {
		t.Fatalf("expected complete after admin emptied the bank, got %s", snap.Phase)
	}
	if snap.TotalRoundsCompleted != 0 {
		t.Fatalf("no answer opportunity was consumed; counter must stay 0, got %d", snap.TotalRoundsCompleted)
	}
}

func TestTimerExpiryConsumesWithNoAnswer(t *testing.T) {
	ctx := context.Background()
	store := seededStore(2, 2)
	store.SaveSettings(ctx, domain.Settings{
		QuestionTimeoutSeconds: 10,
		AdminGateSecret:        "admin123",
		DisplayLanguage:        "en",
	})
	session := newTestSession(t, store)

	if _, err := session.Spin(ctx); err != nil {
		t.Fatalf("spin: %v", err)
	}
	if _, err := session.Begin(ctx); err != nil {
		t.Fatalf("begin: %v", err)
	}

	var snap app.Snapshot
	for i := 0; i < 10; i++ {
		snap, _ = session.Tick(ctx)
	}

	if snap.Phase != app.PhaseSpinning {
		t.Fatalf("expected return to spinning after timeout, got %s", snap.Phase)
	}
	if snap.LastOutcome == nil || snap.LastOutcome.ChoiceIndex != domain.NoAnswer || snap.LastOutcome.Correct {
		t.Fatalf("expected the no-answer sentinel recorded on expiry, got %+v", snap.LastOutcome)
	}
	if snap.AvailableParticipants != 1 || snap.AvailableQuizItems != 1 {
		t.Fatalf("timeout must consume the pair, got %d/%d available",
			snap.AvailableParticipants, snap.AvailableQuizItems)
	}
	if _, ok := store.LoadProgress(ctx); ok {
		t.Fatalf("expected progress discarded after timeout")
	}
	// The outcome rides the resolution snapshot only.
	if after := session.Snapshot(); after.LastOutcome != nil {
		t.Fatalf("outcome must not linger past the resolution, got %+v", after.LastOutcome)
	}
}

func TestAbandonConsumesPair(t *testing.T) {
	ctx := context.Background()
	store := seededStore(2, 2)
	session := newTestSession(t, store)

	if _, err := session.Spin(ctx); err != nil {
		t.Fatalf("spin: %v", err)
	}
	if _, err := session.Begin(ctx); err != nil {
		t.Fatalf("begin: %v", err)
	}
	snap, err := session.Abandon(ctx)
	if err != nil {
		t.Fatalf("abandon: %v", err)
	}

	// Leaving mid-timer spends the answer opportunity, same as a timeout.
	if snap.AvailableParticipants != 1 || snap.AvailableQuizItems != 1 {
		t.Fatalf("abandon must consume the pair, got %d/%d available",
			snap.AvailableParticipants, snap.AvailableQuizItems)
	}
	if snap.LastOutcome == nil || snap.LastOutcome.ChoiceIndex != domain.NoAnswer || snap.LastOutcome.Correct {
		t.Fatalf("expected the no-answer sentinel recorded on abandon, got %+v", snap.LastOutcome)
	}
}

func TestNewRoundDuringPresentingRejected(t *testing.T) {
	ctx := context.Background()
	store := seededStore(2, 2)
	session := newTestSession(t, store)

	if _, err := session.Spin(ctx); err != nil {
		t.Fatalf("spin: %v", err)
	}
	if _, err := session.Begin(ctx); err != nil {
		t.Fatalf("begin: %v", err)
	}

	if _, err := session.NewRound(ctx); err != domain.ErrRoundActive {
		t.Fatalf("an in-flight question must block a reset, got %v", err)
	}
	snap := session.Snapshot()
	if snap.Phase != app.PhasePresenting {
		t.Fatalf("expected the question still in flight, got %s", snap.Phase)
	}
	if snap.AvailableParticipants != 2 || snap.AvailableQuizItems != 2 {
		t.Fatalf("rejected reset must not touch the pools, got %d/%d",
			snap.AvailableParticipants, snap.AvailableQuizItems)
	}
}

func TestHiddenTabPausesCountdown(t *testing.T) {
	ctx := context.Background()
	store := seededStore(2, 2)
	session := newTestSession(t, store)

	if _, err := session.Spin(ctx); err != nil {
		t.Fatalf("spin: %v", err)
	}
	if _, err := session.Begin(ctx); err != nil {
		t.Fatalf("begin: %v", err)
	}

	session.SetVisible(false)
	snap, _ := session.Tick(ctx)
	if snap.Progress == nil || snap.Progress.SecondsRemaining != domain.DefaultTimeoutSeconds {
		t.Fatalf("hidden tab must not burn timer seconds, got %+v", snap.Progress)
	}

	session.SetVisible(true)
	snap, _ = session.Tick(ctx)
	if snap.Progress == nil || snap.Progress.SecondsRemaining != domain.DefaultTimeoutSeconds-1 {
		t.Fatalf("visible tab must tick, got %+v", snap.Progress)
	}
}

func TestReloadResumesInFlightQuestion(t *testing.T) {
	ctx := context.Background()
	store := seededStore(3, 3)
	session := newTestSession(t, store)

	if _, err := session.Spin(ctx); err != nil {
		t.Fatalf("spin: %v", err)
	}
	before, err := session.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if _, err := session.SelectChoice(ctx, 2); err != nil {
		t.Fatalf("select: %v", err)
	}
	for i := 0; i < 5; i++ {
		session.Tick(ctx)
	}

	// A hard reload drops the session; a fresh one resumes from the
	// persisted progress document.
	resumed := newTestSession(t, store)
	snap := resumed.Snapshot()
	if snap.Phase != app.PhasePresenting {
		t.Fatalf("expected resume into presenting, got %s", snap.Phase)
	}
	if snap.Participant == nil || snap.Participant.ID != before.Participant.ID {
		t.Fatalf("expected same participant after reload")
	}
	if snap.QuizItem == nil || snap.QuizItem.ID != before.QuizItem.ID {
		t.Fatalf("expected same question after reload")
	}
	if snap.Progress == nil || snap.Progress.SecondsRemaining != domain.DefaultTimeoutSeconds-5 {
		t.Fatalf("expected timer resumed where it left off, got %+v", snap.Progress)
	}
	if snap.Progress.SelectedChoice == nil || *snap.Progress.SelectedChoice != 2 {
		t.Fatalf("expected selection restored, got %+v", snap.Progress)
	}
}

func TestStaleProgressIsDiscarded(t *testing.T) {
	ctx := context.Background()
	store := seededStore(2, 2)
	store.SaveProgress(ctx, domain.QuestionProgress{
		SecondsRemaining: 30,
		ParticipantID:    "ghost",
		QuizItemID:       "q1",
	})

	session := newTestSession(t, store)
	if snap := session.Snapshot(); snap.Phase != app.PhaseSpinning {
		t.Fatalf("progress for an unknown participant must not resume, got %s", snap.Phase)
	}
	if _, ok := store.LoadProgress(ctx); ok {
		t.Fatalf("expected stale progress cleared")
	}
}

func TestNewRoundKeepsCounter(t *testing.T) {
	ctx := context.Background()
	store := seededStore(2, 1)
	session := newTestSession(t, store)

	if snap := playOneQuestion(t, ctx, session, 1); snap.Phase != app.PhaseRoundComplete {
		t.Fatalf("expected complete, got %s", snap.Phase)
	}

	snap, err := session.NewRound(ctx)
	if err != nil {
		t.Fatalf("new round: %v", err)
	}
	if snap.Phase != app.PhaseSpinning {
		t.Fatalf("expected spinning after reset, got %s", snap.Phase)
	}
	if snap.TotalRoundsCompleted != 1 {
		t.Fatalf("reset must not touch the counter, got %d", snap.TotalRoundsCompleted)
	}
	if snap.AvailableParticipants != 2 || snap.AvailableQuizItems != 1 {
		t.Fatalf("expected all flags cleared, got %d/%d", snap.AvailableParticipants, snap.AvailableQuizItems)
	}
}

func TestSubmitOutsidePresentingRejected(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(t, seededStore(2, 2))

	if _, _, err := session.Submit(ctx, 0); err != domain.ErrNotPresenting {
		t.Fatalf("expected ErrNotPresenting, got %v", err)
	}
}

func TestApplySettingsAffectsNextQuestion(t *testing.T) {
	ctx := context.Background()
	store := seededStore(3, 3)
	session := newTestSession(t, store)

	session.ApplySettings(domain.Settings{
		QuestionTimeoutSeconds: 30,
		AdminGateSecret:        "admin123",
		DisplayLanguage:        "en",
	})

	if _, err := session.Spin(ctx); err != nil {
		t.Fatalf("spin: %v", err)
	}
	snap, err := session.Begin(ctx)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	if snap.Progress == nil || snap.Progress.SecondsRemaining != 30 {
		t.Fatalf("expected new timeout applied, got %+v", snap.Progress)
	}
}

func TestSubscribeReceivesTransitions(t *testing.T) {
	ctx := context.Background()
	session := newTestSession(t, seededStore(2, 2))

	updates, cancel := session.Subscribe()
	defer cancel()

	<-updates // initial snapshot

	if _, err := session.Spin(ctx); err != nil {
		t.Fatalf("spin: %v", err)
	}
	snap := <-updates
	if snap.Participant == nil || snap.QuizItem == nil {
		t.Fatalf("expected drawn pair in broadcast snapshot, got %+v", snap)
	}
}
