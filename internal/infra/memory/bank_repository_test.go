package memory

import (
	"context"
	"testing"
	"time"

	"quiz-roulette/internal/domain"
)

func TestBankRepositoryCaches(t *testing.T) {
	loader := &countingLoader{
		BankLoader: NewStaticBankLoader(domain.DefaultQuizItems()[:4]),
	}
	repo := NewBankRepository(loader, time.Minute)

	items, err := repo.GetBank(context.Background())
	if err != nil {
		t.Fatalf("get bank: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 items, got %d", len(items))
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetBank(context.Background()); err != nil {
		t.Fatalf("get bank 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestSeedStateFallsBackWhenBankEmpty(t *testing.T) {
	repo := NewBankRepository(NewStaticBankLoader(nil), time.Minute)
	state := repo.SeedState(context.Background())
	if len(state.QuizItems) != 19 {
		t.Fatalf("expected built-in trivia fallback, got %d items", len(state.QuizItems))
	}
}

func TestSeedStateUsesBank(t *testing.T) {
	bank := []domain.QuizItem{
		{ID: "b1", Prompt: "banked", Choices: []string{"a", "b", "c", "d"}, CorrectChoiceIndex: 0},
	}
	repo := NewBankRepository(NewStaticBankLoader(bank), time.Minute)
	state := repo.SeedState(context.Background())
	if len(state.QuizItems) != 1 || state.QuizItems[0].ID != "b1" {
		t.Fatalf("expected banked questions, got %+v", state.QuizItems)
	}
	if len(state.Participants) != 19 {
		t.Fatalf("participant roster still seeds from defaults")
	}
}

type countingLoader struct {
	BankLoader
	calls int
}

func (l *countingLoader) LoadBank(ctx context.Context) ([]domain.QuizItem, error) {
	l.calls++
	return l.BankLoader.LoadBank(ctx)
}
