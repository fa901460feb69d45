package infra

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Vovarama1992/deskmate/internal/models"
	"github.com/Vovarama1992/deskmate/internal/ports"
)

const journalSchema = `
	CREATE TABLE IF NOT EXISTS transcription_log (
		id          UUID PRIMARY KEY,
		created_at  TIMESTAMPTZ NOT NULL,
		audio_bytes INTEGER NOT NULL,
		text_chars  INTEGER NOT NULL,
		status      TEXT NOT NULL,
		error_kind  TEXT NOT NULL DEFAULT '',
		duration_ms BIGINT NOT NULL
	)
`

type PostgresJournal struct {
	pool *pgxpool.Pool
}

func NewPostgresJournal(pool *pgxpool.Pool) *PostgresJournal {
	return &PostgresJournal{pool: pool}
}

func (r *PostgresJournal) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, journalSchema); err != nil {
		return fmt.Errorf("create transcription_log: %w", err)
	}
	return nil
}

func (r *PostgresJournal) Record(ctx context.Context, entry *models.TranscriptionLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO transcription_log
			(id, created_at, audio_bytes, text_chars, status, error_kind, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.CreatedAt,
		entry.AudioBytes,
		entry.TextChars,
		entry.Status,
		entry.ErrorKind,
		entry.DurationMS,
	)
	if err != nil {
		return fmt.Errorf("insert transcription log: %w", err)
	}

	log.Printf("[DB][JOURNAL] id=%s status=%s kind=%s", entry.ID, entry.Status, entry.ErrorKind)
	return nil
}

// NopJournal is used when no database is configured.
type NopJournal struct{}

func (NopJournal) Record(context.Context, *models.TranscriptionLog) error { return nil }

var (
	_ ports.TranscriptionJournal = (*PostgresJournal)(nil)
	_ ports.TranscriptionJournal = NopJournal{}
)
