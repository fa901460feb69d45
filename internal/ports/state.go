package ports

import (
	"context"

	"github.com/Vovarama1992/deskmate/internal/models"
)

type AppDirResolver interface {
	AppDataDir() (string, error)
}

type StateStore interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, contents string) error
}

type StatePublisher interface {
	PublishState(ev models.StateEvent)
}
