package domain

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/deskmate/internal/metrics"
	"github.com/Vovarama1992/deskmate/internal/models"
	"github.com/Vovarama1992/deskmate/internal/ports"
)

const journalTimeout = 3 * time.Second

type TranscriptionOptions struct {
	Timeout       time.Duration // 0 → no deadline
	MaxAudioBytes int           // 0 → no limit
}

type TranscriptionService struct {
	stt     ports.Transcriber
	journal ports.TranscriptionJournal
	opts    TranscriptionOptions
	metrics *metrics.Metrics
	log     *logger.ZapLogger
}

func NewTranscriptionService(
	stt ports.Transcriber,
	journal ports.TranscriptionJournal,
	opts TranscriptionOptions,
	m *metrics.Metrics,
	log *logger.ZapLogger,
) *TranscriptionService {
	return &TranscriptionService{
		stt:     stt,
		journal: journal,
		opts:    opts,
		metrics: m,
		log:     log,
	}
}

// Transcribe never logs or journals apiKey.
func (s *TranscriptionService) Transcribe(ctx context.Context, audio []byte, apiKey string) (string, error) {
	if s.opts.MaxAudioBytes > 0 && len(audio) > s.opts.MaxAudioBytes {
		return "", models.InvalidArgs("audio too large: %d bytes exceeds limit of %d", len(audio), s.opts.MaxAudioBytes)
	}

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	s.metrics.RecordAudio(len(audio))

	start := time.Now()
	text, err := s.stt.Transcribe(ctx, audio, apiKey)
	dur := time.Since(start)

	entry := &models.TranscriptionLog{
		AudioBytes: len(audio),
		DurationMS: dur.Milliseconds(),
		Status:     "ok",
	}

	if err != nil {
		entry.Status = "error"
		entry.ErrorKind = string(models.KindOf(err))
		s.log.Log(logger.LogEntry{
			Level:   "error",
			Message: "transcription failed",
			Error:   err,
			Fields: map[string]any{
				"kind":        entry.ErrorKind,
				"audio_bytes": len(audio),
				"duration":    dur.String(),
			},
		})
	} else {
		entry.TextChars = utf8.RuneCountInString(text)
		s.log.Log(logger.LogEntry{
			Level:   "info",
			Message: "transcription done",
			Fields: map[string]any{
				"audio_bytes": len(audio),
				"text_chars":  entry.TextChars,
				"duration":    dur.String(),
			},
		})
	}

	s.record(ctx, entry)

	if err != nil {
		return "", err
	}
	return text, nil
}

func (s *TranscriptionService) record(ctx context.Context, entry *models.TranscriptionLog) {
	if s.journal == nil {
		return
	}

	jctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()

	if err := s.journal.Record(jctx, entry); err != nil {
		s.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: "journal record failed",
			Error:   err,
		})
	}
}
