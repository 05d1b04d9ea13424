package domain

// Participant is a named entrant eligible to be drawn once per round.
type Participant struct {
	ID                 string `json:"id"`
	DisplayName        string `json:"name"`
	HasPlayedThisRound bool   `json:"hasPlayedThisRound"`
}

// QuizItem models an MCQ question with exactly one correct choice.
type QuizItem struct {
	ID                 string   `json:"id"`
	Prompt             string   `json:"question"`
	Choices            []string `json:"options"` // always 4 entries
	CorrectChoiceIndex int      `json:"correctAnswer"`
	UsedThisRound      bool     `json:"usedThisRound"`
}

// RoundState is the aggregate game document: who is left to play, which
// questions are left to ask, and how many rounds have fully finished.
type RoundState struct {
	Participants         []Participant `json:"users"`
	QuizItems            []QuizItem    `json:"questions"`
	TotalRoundsCompleted int           `json:"totalRounds"`
	RoundComplete        bool          `json:"gameRoundComplete"`
}

// Settings is the independently-versioned settings document.
type Settings struct {
	QuestionTimeoutSeconds int    `json:"timerDuration"`
	AdminGateSecret        string `json:"adminPassword"`
	DisplayLanguage        string `json:"language"` // "en" or "ckb"
}

// QuestionProgress is the transient in-flight question document. It is
// persisted on every countdown tick so a reload can resume the timer, and
// carries the drawn pair so a resume can verify it is still unconsumed.
type QuestionProgress struct {
	SecondsRemaining int    `json:"timeLeft"`
	SelectedChoice   *int   `json:"selectedAnswer"`
	ParticipantID    string `json:"userId"`
	QuizItemID       string `json:"questionId"`
}

// NoAnswer is the sentinel choice recorded when the timer expires (or the
// question is abandoned) before an answer is submitted.
const NoAnswer = -1

// Settings bounds.
const (
	MinTimeoutSeconds = 10
	MaxTimeoutSeconds = 300
)

// FindParticipant returns the participant with the given id, if present.
func (s RoundState) FindParticipant(id string) (Participant, bool) {
	for _, p := range s.Participants {
		if p.ID == id {
			return p, true
		}
	}
	return Participant{}, false
}

// FindQuizItem returns the quiz item with the given id, if present.
func (s RoundState) FindQuizItem(id string) (QuizItem, bool) {
	for _, q := range s.QuizItems {
		if q.ID == id {
			return q, true
		}
	}
	return QuizItem{}, false
}

// Clone returns a deep copy so callers can hand out snapshots without
// aliasing the document slices.
func (s RoundState) Clone() RoundState {
	out := s
	out.Participants = make([]Participant, len(s.Participants))
	copy(out.Participants, s.Participants)
	out.QuizItems = make([]QuizItem, len(s.QuizItems))
	for i, q := range s.QuizItems {
		q.Choices = append([]string(nil), q.Choices...)
		out.QuizItems[i] = q
	}
	return out
}
