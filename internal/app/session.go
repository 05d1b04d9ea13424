package app

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"quiz-roulette/internal/domain"
)

// Phase is the session state machine position.
type Phase string

const (
	// PhaseSpinning means the selection wheel is ready (or a pair has been
	// drawn and awaits confirmation).
	PhaseSpinning Phase = "spinning"
	// PhasePresenting means a drawn participant is answering a drawn
	// question under the countdown.
	PhasePresenting Phase = "presenting"
	// PhaseRoundComplete is the terminal display until the next reset.
	PhaseRoundComplete Phase = "complete"
)

// Snapshot is the view handed to UI surfaces after every transition.
type Snapshot struct {
	Phase                 Phase                    `json:"phase"`
	Participant           *domain.Participant      `json:"participant,omitempty"`
	QuizItem              *domain.QuizItem         `json:"quizItem,omitempty"`
	Progress              *domain.QuestionProgress `json:"progress,omitempty"`
	LastOutcome           *AnswerOutcome           `json:"lastOutcome,omitempty"`
	AvailableParticipants int                      `json:"availableParticipants"`
	AvailableQuizItems    int                      `json:"availableQuizItems"`
	TotalRoundsCompleted  int                      `json:"totalRounds"`
	TimeoutSeconds        int                      `json:"timeoutSeconds"`
}

// AnswerOutcome records how the presented question resolved. ChoiceIndex
// is domain.NoAnswer for a timeout or an abandoned question. It is carried
// on the resolution snapshot only.
type AnswerOutcome struct {
	ChoiceIndex        int  `json:"choiceIndex"`
	Correct            bool `json:"correct"`
	CorrectChoiceIndex int  `json:"correctChoiceIndex"`
}

// Session is the orchestrating state machine one live game runs. All state
// transitions are strictly sequential under the mutex; every mutation is a
// read-modify-write of the working copy followed by a best-effort persist.
type Session struct {
	store DocumentStore
	rnd   *rand.Rand

	mu          sync.Mutex
	phase       Phase
	state       domain.RoundState
	settings    domain.Settings
	participant *domain.Participant
	quizItem    *domain.QuizItem
	progress    *domain.QuestionProgress
	lastOutcome *AnswerOutcome
	paused      bool
	subscribers map[chan Snapshot]struct{}
}

// NewSession loads the persisted documents and positions the state
// machine: terminal display if the stored round is already complete, and
// resume of a persisted in-flight question when its pair is still valid.
func NewSession(ctx context.Context, store DocumentStore, rnd *rand.Rand) (*Session, error) {
	state, err := store.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStateUnreadable, err)
	}
	settings, err := store.LoadSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStateUnreadable, err)
	}

	s := &Session{
		store:       store,
		rnd:         rnd,
		phase:       PhaseSpinning,
		state:       state,
		settings:    settings,
		subscribers: make(map[chan Snapshot]struct{}),
	}
	if domain.IsRoundComplete(state) {
		s.phase = PhaseRoundComplete
		return s, nil
	}

	if progress, ok := store.LoadProgress(ctx); ok {
		p, pOK := state.FindParticipant(progress.ParticipantID)
		q, qOK := state.FindQuizItem(progress.QuizItemID)
		if pOK && qOK && !p.HasPlayedThisRound && !q.UsedThisRound {
			s.phase = PhasePresenting
			s.participant = &p
			s.quizItem = &q
			s.progress = &progress
		} else {
			// Stale progress from a pair that no longer exists or was
			// already consumed.
			store.ClearProgress(ctx)
		}
	}
	return s, nil
}

// Spin re-reads the shared state (picking up any admin edits), then draws
// a participant and a question. An empty pool on either side is not an
// error: the session moves straight to the terminal display.
func (s *Session) Spin(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseSpinning {
		return s.snapshotLocked(), domain.ErrNotSpinning
	}

	if state, err := s.store.LoadState(ctx); err == nil {
		s.state = state
	}

	s.store.ClearProgress(ctx)
	s.progress = nil

	participant, pOK := domain.PickRandom(s.rnd, domain.AvailableParticipants(s.state))
	quizItem, qOK := domain.PickRandom(s.rnd, domain.AvailableQuizItems(s.state))
	if !pOK || !qOK {
		s.participant = nil
		s.quizItem = nil
		s.phase = PhaseRoundComplete
		return s.broadcastLocked(), nil
	}

	s.participant = &participant
	s.quizItem = &quizItem
	return s.broadcastLocked(), nil
}

// Begin confirms the drawn pair and starts presenting, initializing the
// countdown from the settings timeout.
func (s *Session) Begin(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseSpinning || s.participant == nil || s.quizItem == nil {
		return s.snapshotLocked(), domain.ErrNotSpinning
	}

	s.phase = PhasePresenting
	s.progress = &domain.QuestionProgress{
		SecondsRemaining: s.settings.QuestionTimeoutSeconds,
		ParticipantID:    s.participant.ID,
		QuizItemID:       s.quizItem.ID,
	}
	s.store.SaveProgress(ctx, *s.progress)
	return s.broadcastLocked(), nil
}

// SelectChoice records the currently highlighted answer and persists the
// progress so a reload resumes with the same selection.
func (s *Session) SelectChoice(ctx context.Context, choice int) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhasePresenting || s.progress == nil {
		return s.snapshotLocked(), domain.ErrNotPresenting
	}
	if choice < 0 || s.quizItem == nil || choice >= len(s.quizItem.Choices) {
		return s.snapshotLocked(), domain.ErrInvalidChoices
	}

	c := choice
	s.progress.SelectedChoice = &c
	s.store.SaveProgress(ctx, *s.progress)
	return s.broadcastLocked(), nil
}

// Tick advances the countdown by one second. It is a no-op while the tab
// is hidden. Reaching zero submits the no-answer sentinel.
func (s *Session) Tick(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhasePresenting || s.progress == nil {
		return s.snapshotLocked(), nil
	}
	if s.paused {
		return s.snapshotLocked(), nil
	}

	s.progress.SecondsRemaining--
	if s.progress.SecondsRemaining <= 0 {
		s.progress.SecondsRemaining = 0
		return s.resolveLocked(ctx, domain.NoAnswer), nil
	}
	s.store.SaveProgress(ctx, *s.progress)
	return s.broadcastLocked(), nil
}

// Submit resolves the in-flight question with the given answer. A timeout
// submits domain.NoAnswer; correct and incorrect answers consume the
// participant and the question identically.
func (s *Session) Submit(ctx context.Context, choice int) (bool, Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhasePresenting || s.quizItem == nil {
		return false, s.snapshotLocked(), domain.ErrNotPresenting
	}

	correct := choice >= 0 && choice == s.quizItem.CorrectChoiceIndex
	return correct, s.resolveLocked(ctx, choice), nil
}

// Abandon gives up the in-flight question without answering. The answer
// opportunity is still spent: same consumption side effects as a timeout.
func (s *Session) Abandon(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhasePresenting {
		return s.snapshotLocked(), domain.ErrNotPresenting
	}
	return s.resolveLocked(ctx, domain.NoAnswer), nil
}

// resolveLocked records the submitted choice (domain.NoAnswer for a
// timeout or abandon), consumes the drawn pair, persists the new state,
// and moves to the terminal display when the round completed. The round
// counter is incremented exactly once, at the moment completion is
// detected.
func (s *Session) resolveLocked(ctx context.Context, choice int) Snapshot {
	if s.quizItem != nil {
		s.lastOutcome = &AnswerOutcome{
			ChoiceIndex:        choice,
			Correct:            choice >= 0 && choice == s.quizItem.CorrectChoiceIndex,
			CorrectChoiceIndex: s.quizItem.CorrectChoiceIndex,
		}
	}
	if s.participant != nil {
		s.state = domain.MarkParticipantPlayed(s.state, s.participant.ID)
	}
	if s.quizItem != nil {
		s.state = domain.MarkQuizItemUsed(s.state, s.quizItem.ID)
	}
	s.participant = nil
	s.quizItem = nil
	s.progress = nil
	s.store.ClearProgress(ctx)

	if domain.IsRoundComplete(s.state) {
		s.state.TotalRoundsCompleted++
		s.state.RoundComplete = true
		s.phase = PhaseRoundComplete
	} else {
		s.phase = PhaseSpinning
	}
	s.store.SaveState(ctx, s.state)
	snap := s.broadcastLocked()
	s.lastOutcome = nil
	return snap
}

// NewRound clears all consumption flags and returns to the wheel. Only
// the terminal display offers it: a started answer opportunity cannot be
// retaken by resetting around it. The round counter is untouched.
func (s *Session) NewRound(ctx context.Context) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseRoundComplete {
		return s.snapshotLocked(), domain.ErrRoundActive
	}
	if state, err := s.store.LoadState(ctx); err == nil {
		s.state = state
	}
	s.state = domain.ResetRound(s.state)
	s.participant = nil
	s.quizItem = nil
	s.progress = nil
	s.phase = PhaseSpinning
	s.store.SaveState(ctx, s.state)
	s.store.ClearProgress(ctx)
	return s.broadcastLocked(), nil
}

// SetVisible pauses or resumes the countdown; wall-clock time spent hidden
// does not count against the timer.
func (s *Session) SetVisible(visible bool) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = !visible
	return s.snapshotLocked()
}

// ApplySettings swaps in a freshly saved settings document. An in-flight
// countdown keeps its remaining time; the new timeout applies from the
// next question.
func (s *Session) ApplySettings(settings domain.Settings) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return s.broadcastLocked()
}

// Snapshot returns the current view without transitioning.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe returns a channel that receives a snapshot after every
// transition. The caller must invoke the returned cancel function.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() Snapshot {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Phase:                 s.phase,
		AvailableParticipants: len(domain.AvailableParticipants(s.state)),
		AvailableQuizItems:    len(domain.AvailableQuizItems(s.state)),
		TotalRoundsCompleted:  s.state.TotalRoundsCompleted,
		TimeoutSeconds:        s.settings.QuestionTimeoutSeconds,
	}
	if s.participant != nil {
		p := *s.participant
		snap.Participant = &p
	}
	if s.quizItem != nil {
		q := *s.quizItem
		q.Choices = append([]string(nil), q.Choices...)
		snap.QuizItem = &q
	}
	if s.progress != nil {
		pr := *s.progress
		snap.Progress = &pr
	}
	if s.lastOutcome != nil {
		o := *s.lastOutcome
		snap.LastOutcome = &o
	}
	return snap
}
