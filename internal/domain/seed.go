package domain

import "fmt"

// Default documents, synthesized on first read or whenever a stored
// document is missing or unparseable.

const (
	DefaultTimeoutSeconds = 60
	DefaultGateSecret     = "admin123"
	DefaultLanguage       = "en"
	LanguageSecondary     = "ckb"

	defaultParticipantCount = 19
)

// DefaultParticipants returns the seeded placeholder roster.
func DefaultParticipants() []Participant {
	out := make([]Participant, defaultParticipantCount)
	for i := range out {
		out[i] = Participant{
			ID:          fmt.Sprintf("user-%d", i+1),
			DisplayName: fmt.Sprintf("Player %d", i+1),
		}
	}
	return out
}

// DefaultQuizItems returns the seeded trivia question bank.
func DefaultQuizItems() []QuizItem {
	items := []struct {
		prompt  string
		choices [4]string
		correct int
	}{
		{"What is the capital of France?", [4]string{"London", "Berlin", "Paris", "Madrid"}, 2},
		{"What is 2 + 2?", [4]string{"3", "4", "5", "6"}, 1},
		{"Which planet is known as the Red Planet?", [4]string{"Venus", "Mars", "Jupiter", "Saturn"}, 1},
		{"What is the largest ocean on Earth?", [4]string{"Atlantic", "Indian", "Arctic", "Pacific"}, 3},
		{"Who painted the Mona Lisa?", [4]string{"Vincent van Gogh", "Leonardo da Vinci", "Pablo Picasso", "Michelangelo"}, 1},
		{"What is the chemical symbol for gold?", [4]string{"Go", "Gd", "Au", "Ag"}, 2},
		{"Which country is home to Machu Picchu?", [4]string{"Brazil", "Peru", "Chile", "Argentina"}, 1},
		{"What is the smallest prime number?", [4]string{"0", "1", "2", "3"}, 2},
		{"Which instrument has 88 keys?", [4]string{"Guitar", "Violin", "Piano", "Flute"}, 2},
		{"What is the hardest natural substance?", [4]string{"Gold", "Iron", "Diamond", "Platinum"}, 2},
		{"Which gas makes up most of Earth's atmosphere?", [4]string{"Oxygen", "Nitrogen", "Carbon Dioxide", "Hydrogen"}, 1},
		{"In which year did World War II end?", [4]string{"1944", "1945", "1946", "1947"}, 1},
		{"What is the largest mammal in the world?", [4]string{"African Elephant", "Blue Whale", "Giraffe", "Hippopotamus"}, 1},
		{"Which element has the chemical symbol \"O\"?", [4]string{"Gold", "Silver", "Oxygen", "Iron"}, 2},
		{"What is the speed of light in vacuum?", [4]string{"300,000 km/s", "150,000 km/s", "450,000 km/s", "600,000 km/s"}, 0},
		{"Which continent is the Sahara Desert located in?", [4]string{"Asia", "Australia", "Africa", "South America"}, 2},
		{"What is the currency of Japan?", [4]string{"Yuan", "Won", "Yen", "Rupee"}, 2},
		{"How many sides does a hexagon have?", [4]string{"5", "6", "7", "8"}, 1},
		{"Which Shakespeare play features the character Hamlet?", [4]string{"Romeo and Juliet", "Macbeth", "Hamlet", "Othello"}, 2},
	}

	out := make([]QuizItem, len(items))
	for i, it := range items {
		out[i] = QuizItem{
			ID:                 fmt.Sprintf("q%d", i+1),
			Prompt:             it.prompt,
			Choices:            it.choices[:],
			CorrectChoiceIndex: it.correct,
		}
	}
	return out
}

// DefaultRoundState returns the initial game document.
func DefaultRoundState() RoundState {
	return RoundState{
		Participants: DefaultParticipants(),
		QuizItems:    DefaultQuizItems(),
	}
}

// DefaultSettings returns the initial settings document.
func DefaultSettings() Settings {
	return Settings{
		QuestionTimeoutSeconds: DefaultTimeoutSeconds,
		AdminGateSecret:        DefaultGateSecret,
		DisplayLanguage:        DefaultLanguage,
	}
}

// FillStateDefaults heals a partially-shaped stored state document: each
// missing section is filled from its individual default rather than
// discarding the whole document. A present-but-empty collection is kept:
// an admin may legitimately delete every entry.
func FillStateDefaults(state *RoundState) {
	if state.Participants == nil {
		state.Participants = DefaultParticipants()
	}
	if state.QuizItems == nil {
		state.QuizItems = DefaultQuizItems()
	}
	if state.TotalRoundsCompleted < 0 {
		state.TotalRoundsCompleted = 0
	}
}

// FillSettingsDefaults heals a partially-shaped stored settings document,
// clamping an out-of-range stored timeout into bounds.
func FillSettingsDefaults(settings *Settings) {
	switch {
	case settings.QuestionTimeoutSeconds == 0:
		settings.QuestionTimeoutSeconds = DefaultTimeoutSeconds
	case settings.QuestionTimeoutSeconds < MinTimeoutSeconds:
		settings.QuestionTimeoutSeconds = MinTimeoutSeconds
	case settings.QuestionTimeoutSeconds > MaxTimeoutSeconds:
		settings.QuestionTimeoutSeconds = MaxTimeoutSeconds
	}
	if settings.AdminGateSecret == "" {
		settings.AdminGateSecret = DefaultGateSecret
	}
	if settings.DisplayLanguage != DefaultLanguage && settings.DisplayLanguage != LanguageSecondary {
		settings.DisplayLanguage = DefaultLanguage
	}
}
