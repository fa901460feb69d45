package domain

import (
	"context"
	"errors"
	"sync"

	"github.com/Vovarama1992/go-utils/logger"
	"go.uber.org/zap"

	"github.com/Vovarama1992/deskmate/internal/models"
)

func testLogger() *logger.ZapLogger {
	return logger.NewZapLogger(zap.NewNop().Sugar())
}

type fakeSTT struct {
	mu     sync.Mutex
	audio  []byte
	apiKey string
	calls  int
	ctxErr error

	text string
	err  error
}

func (f *fakeSTT) Transcribe(ctx context.Context, audio []byte, apiKey string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.audio = audio
	f.apiKey = apiKey
	f.ctxErr = ctx.Err()
	return f.text, f.err
}

type memStore struct {
	mu       sync.Mutex
	contents *string
	readErr  error
	writeErr error
}

func (m *memStore) Read(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return "", m.readErr
	}
	if m.contents == nil {
		return "{}", nil
	}
	return *m.contents, nil
}

func (m *memStore) Write(ctx context.Context, contents string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.contents = &contents
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []models.StateEvent
}

func (p *recordingPublisher) PublishState(ev models.StateEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
}

type memJournal struct {
	mu      sync.Mutex
	entries []models.TranscriptionLog
	err     error
}

func (j *memJournal) Record(ctx context.Context, entry *models.TranscriptionLog) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.entries = append(j.entries, *entry)
	return nil
}

var errDisk = errors.New("disk full")
