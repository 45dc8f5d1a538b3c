// Package chat persists assistant Q&A transcripts for later review.
package chat

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Log mirrors DB columns from the `chat_logs` table. UserID is nil for
// anonymous questions.
type Log struct {
	ID        int64     `json:"chat_log_id"`
	UserID    *int64    `json:"user_id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

func (r *Repo) Insert(ctx context.Context, userID *int64, question, answer string) error {
	const q = `
INSERT INTO chat_logs (user_id, question, answer, created_at)
VALUES ($1, $2, $3, now())`
	_, err := r.pg.Exec(ctx, q, userID, question, answer)
	return err
}

// Recent returns the newest transcripts, capped at limit.
func (r *Repo) Recent(ctx context.Context, limit int) ([]Log, error) {
	const q = `
SELECT chat_log_id, user_id, question, answer, created_at
FROM chat_logs
ORDER BY created_at DESC
LIMIT $1`
	rows, err := r.pg.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Log
	for rows.Next() {
		var l Log
		if err := rows.Scan(&l.ID, &l.UserID, &l.Question, &l.Answer, &l.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
