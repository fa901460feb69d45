package models

import "time"

type TranscriptionLog struct {
	ID         string    `db:"id"`
	CreatedAt  time.Time `db:"created_at"`
	AudioBytes int       `db:"audio_bytes"`
	TextChars  int       `db:"text_chars"`
	Status     string    `db:"status"`     // "ok" или "error"
	ErrorKind  string    `db:"error_kind"` // пусто при успехе
	DurationMS int64     `db:"duration_ms"`
}
