package domain

import "errors"

var (
	// ErrStateUnreadable is returned when no usable game state can be
	// produced at all; it is the only operator-facing failure.
	ErrStateUnreadable = errors.New("game state unreadable")
	// ErrParticipantNotFound is returned when an admin edit targets an
	// unknown participant.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrQuizItemNotFound is returned when an admin edit targets an
	// unknown quiz item.
	ErrQuizItemNotFound = errors.New("quiz item not found")
	// ErrInvalidTimeout is returned when a settings save carries a
	// question timeout outside the allowed range.
	ErrInvalidTimeout = errors.New("question timeout out of range")
	// ErrInvalidChoices is returned when a quiz item does not carry
	// exactly four choices with a valid correct index.
	ErrInvalidChoices = errors.New("quiz item must have 4 choices and a valid answer index")
	// ErrNotPresenting is returned when an answer arrives outside the
	// presenting phase.
	ErrNotPresenting = errors.New("no question in progress")
	// ErrNotSpinning is returned when a spin or begin arrives outside the
	// spinning phase.
	ErrNotSpinning = errors.New("selection not available in this phase")
	// ErrRoundActive is returned when a new-round request arrives before
	// the current round has completed.
	ErrRoundActive = errors.New("round still in progress")
)
