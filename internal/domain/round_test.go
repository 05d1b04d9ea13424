package domain

import (
	"math/rand"
	"testing"
)

func testState() RoundState {
	return RoundState{
		Participants: []Participant{
			{ID: "u1", DisplayName: "Alice"},
			{ID: "u2", DisplayName: "Bob"},
			{ID: "u3", DisplayName: "Carol"},
		},
		QuizItems: []QuizItem{
			{ID: "q1", Prompt: "one", Choices: []string{"a", "b", "c", "d"}, CorrectChoiceIndex: 0},
			{ID: "q2", Prompt: "two", Choices: []string{"a", "b", "c", "d"}, CorrectChoiceIndex: 1},
		},
	}
}

func TestAvailableFiltersConsumed(t *testing.T) {
	state := testState()
	state.Participants[1].HasPlayedThisRound = true
	state.QuizItems[0].UsedThisRound = true

	if got := AvailableParticipants(state); len(got) != 2 {
		t.Fatalf("expected 2 available participants, got %d", len(got))
	}
	items := AvailableQuizItems(state)
	if len(items) != 1 || items[0].ID != "q2" {
		t.Fatalf("expected only q2 available, got %+v", items)
	}
}

func TestPickRandomEmptyPool(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	if _, ok := PickRandom(rnd, []Participant{}); ok {
		t.Fatalf("expected no draw from empty pool")
	}
}

func TestPickRandomDrawsFromPool(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	pool := AvailableParticipants(testState())
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		p, ok := PickRandom(rnd, pool)
		if !ok {
			t.Fatalf("expected a draw")
		}
		seen[p.ID] = true
	}
	if len(seen) != len(pool) {
		t.Fatalf("expected every pool member drawn eventually, saw %v", seen)
	}
}

func TestMarkParticipantPlayedIdempotent(t *testing.T) {
	state := testState()
	once := MarkParticipantPlayed(state, "u1")
	twice := MarkParticipantPlayed(once, "u1")

	p, _ := twice.FindParticipant("u1")
	if !p.HasPlayedThisRound {
		t.Fatalf("expected u1 flagged as played")
	}
	if orig, _ := state.FindParticipant("u1"); orig.HasPlayedThisRound {
		t.Fatalf("original snapshot must not be mutated")
	}
}

func TestMarkUnknownIDReturnsFreshCopy(t *testing.T) {
	state := testState()
	out := MarkParticipantPlayed(state, "nope")
	out.Participants[0].DisplayName = "changed"
	if state.Participants[0].DisplayName == "changed" {
		t.Fatalf("expected fresh copy even for unknown id")
	}
}

func TestRoundCompleteWhenAllParticipantsPlayed(t *testing.T) {
	state := testState()
	for _, p := range state.Participants {
		state = MarkParticipantPlayed(state, p.ID)
	}
	if !IsRoundComplete(state) {
		t.Fatalf("expected round complete with all participants played")
	}
}

func TestRoundCompleteWhenAllItemsUsed(t *testing.T) {
	state := testState()
	for _, q := range state.QuizItems {
		state = MarkQuizItemUsed(state, q.ID)
	}
	// Participants remain unplayed; question pool exhaustion is enough.
	if !IsRoundComplete(state) {
		t.Fatalf("expected round complete with all items used")
	}
}

func TestRoundNotCompleteWithBothPoolsOpen(t *testing.T) {
	state := MarkParticipantPlayed(testState(), "u1")
	if IsRoundComplete(state) {
		t.Fatalf("round must stay open while both pools have entries")
	}
}

func TestResetRoundIdempotentAndCounterUntouched(t *testing.T) {
	state := testState()
	state.TotalRoundsCompleted = 4
	state.RoundComplete = true
	for _, p := range state.Participants {
		state = MarkParticipantPlayed(state, p.ID)
	}

	once := ResetRound(state)
	twice := ResetRound(once)

	for _, s := range []RoundState{once, twice} {
		if s.RoundComplete {
			t.Fatalf("expected completion flag cleared")
		}
		if len(AvailableParticipants(s)) != 3 || len(AvailableQuizItems(s)) != 2 {
			t.Fatalf("expected all flags cleared, got %+v", s)
		}
		if s.TotalRoundsCompleted != 4 {
			t.Fatalf("reset must not touch the round counter, got %d", s.TotalRoundsCompleted)
		}
	}
}

func TestSeedDocuments(t *testing.T) {
	state := DefaultRoundState()
	if len(state.Participants) != 19 || len(state.QuizItems) != 19 {
		t.Fatalf("expected 19 seeded participants and questions, got %d/%d",
			len(state.Participants), len(state.QuizItems))
	}
	for _, q := range state.QuizItems {
		if len(q.Choices) != 4 {
			t.Fatalf("question %s must have 4 choices", q.ID)
		}
		if q.CorrectChoiceIndex < 0 || q.CorrectChoiceIndex > 3 {
			t.Fatalf("question %s has invalid answer index %d", q.ID, q.CorrectChoiceIndex)
		}
	}
	if IsRoundComplete(state) {
		t.Fatalf("fresh seed must start an open round")
	}
}

func TestFillSettingsDefaults(t *testing.T) {
	s := Settings{}
	FillSettingsDefaults(&s)
	if s.QuestionTimeoutSeconds != 60 || s.AdminGateSecret != "admin123" || s.DisplayLanguage != "en" {
		t.Fatalf("unexpected defaults: %+v", s)
	}

	s = Settings{QuestionTimeoutSeconds: 900, AdminGateSecret: "x", DisplayLanguage: "ckb"}
	FillSettingsDefaults(&s)
	if s.QuestionTimeoutSeconds != MaxTimeoutSeconds {
		t.Fatalf("expected timeout clamped to %d, got %d", MaxTimeoutSeconds, s.QuestionTimeoutSeconds)
	}
	if s.DisplayLanguage != "ckb" {
		t.Fatalf("valid secondary language must be preserved")
	}
}
