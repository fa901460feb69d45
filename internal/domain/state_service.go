package domain

import (
	"context"
	"time"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/deskmate/internal/metrics"
	"github.com/Vovarama1992/deskmate/internal/models"
	"github.com/Vovarama1992/deskmate/internal/ports"
)

type StateService struct {
	store   ports.StateStore
	pub     ports.StatePublisher
	metrics *metrics.Metrics
	log     *logger.ZapLogger
}

// NewStateService wires the store to the event publisher. pub and m may be nil.
func NewStateService(
	store ports.StateStore,
	pub ports.StatePublisher,
	m *metrics.Metrics,
	log *logger.ZapLogger,
) *StateService {
	return &StateService{
		store:   store,
		pub:     pub,
		metrics: m,
		log:     log,
	}
}

func (s *StateService) Read(ctx context.Context) (string, error) {
	contents, err := s.store.Read(ctx)
	if err != nil {
		s.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "state read failed",
			Error:   err,
			Fields:  map[string]any{"kind": string(models.KindOf(err))},
		})
		return "", err
	}

	s.log.Log(logger.LogEntry{
		Level:   "debug",
		Message: "state read",
		Fields:  map[string]any{"bytes": len(contents)},
	})
	return contents, nil
}

func (s *StateService) Write(ctx context.Context, contents string) error {
	if err := s.store.Write(ctx, contents); err != nil {
		s.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "state write failed",
			Error:   err,
			Fields:  map[string]any{"kind": string(models.KindOf(err))},
		})
		return err
	}

	s.metrics.RecordStateWrite(len(contents))
	s.log.Log(logger.LogEntry{
		Level:   "info",
		Message: "state written",
		Fields:  map[string]any{"bytes": len(contents)},
	})

	if s.pub != nil {
		s.pub.PublishState(models.StateEvent{
			Event: models.EventStateChanged,
			Bytes: len(contents),
			At:    time.Now().UTC(),
		})
	}
	return nil
}
