// README: Postgres sink backed by pgxpool.
package chatlog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresSink struct {
	db *pgxpool.Pool
}

func NewPostgresSink(db *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) Name() string { return "postgres" }

// EnsureSchema creates the chat_logs table if it does not exist.
func (s *PostgresSink) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS chat_logs (
			id BIGSERIAL PRIMARY KEY,
			logged_at TIMESTAMPTZ NOT NULL,
			user_message TEXT NOT NULL,
			system_response TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure chat_logs: %w", err)
	}
	return nil
}

func (s *PostgresSink) Append(ctx context.Context, e Entry) error {
	at, err := time.Parse(time.RFC3339Nano, e.Timestamp)
	if err != nil {
		return fmt.Errorf("entry timestamp: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO chat_logs (logged_at, user_message, system_response)
		VALUES ($1, $2, $3)`,
		at, e.UserMessage, e.SystemResponse,
	)
	if err != nil {
		return fmt.Errorf("insert chat_logs: %w", err)
	}
	return nil
}
