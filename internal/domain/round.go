package domain

import "math/rand"

// Round engine: pure functions over RoundState snapshots. Every mutation
// returns a fresh copy so callers can keep the previous snapshot around.

// AvailableParticipants filters out participants who already played this
// round. Order carries no meaning; callers treat the result as a set.
func AvailableParticipants(state RoundState) []Participant {
	out := make([]Participant, 0, len(state.Participants))
	for _, p := range state.Participants {
		if !p.HasPlayedThisRound {
			out = append(out, p)
		}
	}
	return out
}

// AvailableQuizItems filters out questions already used this round.
func AvailableQuizItems(state RoundState) []QuizItem {
	out := make([]QuizItem, 0, len(state.QuizItems))
	for _, q := range state.QuizItems {
		if !q.UsedThisRound {
			out = append(out, q)
		}
	}
	return out
}

// PickRandom draws one element uniformly at random. The second return is
// false when the pool is empty.
func PickRandom[T any](rnd *rand.Rand, pool []T) (T, bool) {
	var zero T
	if len(pool) == 0 {
		return zero, false
	}
	return pool[rnd.Intn(len(pool))], true
}

// MarkParticipantPlayed sets the played flag for the given participant.
// Unknown ids still yield a fresh copy.
func MarkParticipantPlayed(state RoundState, id string) RoundState {
	out := state.Clone()
	for i := range out.Participants {
		if out.Participants[i].ID == id {
			out.Participants[i].HasPlayedThisRound = true
		}
	}
	return out
}

// MarkQuizItemUsed sets the used flag for the given quiz item. Unknown ids
// still yield a fresh copy.
func MarkQuizItemUsed(state RoundState, id string) RoundState {
	out := state.Clone()
	for i := range out.QuizItems {
		if out.QuizItems[i].ID == id {
			out.QuizItems[i].UsedThisRound = true
		}
	}
	return out
}

// IsRoundComplete reports whether the round is over: either every
// participant has played or every question has been used, whichever pool
// exhausts first.
func IsRoundComplete(state RoundState) bool {
	return len(AvailableParticipants(state)) == 0 || len(AvailableQuizItems(state)) == 0
}

// ResetRound clears all played/used flags and the completion flag.
// TotalRoundsCompleted is left untouched: it counts rounds fully finished,
// and is incremented at completion-detection time, never at reset.
func ResetRound(state RoundState) RoundState {
	out := state.Clone()
	for i := range out.Participants {
		out.Participants[i].HasPlayedThisRound = false
	}
	for i := range out.QuizItems {
		out.QuizItems[i].UsedThisRound = false
	}
	out.RoundComplete = false
	return out
}
