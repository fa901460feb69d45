package ports

import (
	"context"

	"github.com/Vovarama1992/deskmate/internal/models"
)

type TranscriptionJournal interface {
	Record(ctx context.Context, entry *models.TranscriptionLog) error
}
