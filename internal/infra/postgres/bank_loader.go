package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"quiz-roulette/internal/domain"

	"github.com/jackc/pgx/v4/pgxpool"
)

// BankLoader loads the question bank from Postgres. Each row holds one
// quiz item as JSONB.
type BankLoader struct {
	pool *pgxpool.Pool
}

func NewBankLoader(pool *pgxpool.Pool) *BankLoader {
	return &BankLoader{pool: pool}
}

func (l *BankLoader) LoadBank(ctx context.Context) ([]domain.QuizItem, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM question_bank ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	defer rows.Close()

	var items []domain.QuizItem
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		var item domain.QuizItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("unmarshal question: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	return items, nil
}
