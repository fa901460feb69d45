package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"github.com/Vovarama1992/deskmate/internal/config"
	"github.com/Vovarama1992/deskmate/internal/delivery"
	ws "github.com/Vovarama1992/deskmate/internal/delivery/ws"
	"github.com/Vovarama1992/deskmate/internal/domain"
	"github.com/Vovarama1992/deskmate/internal/infra"
	"github.com/Vovarama1992/deskmate/internal/metrics"
	"github.com/Vovarama1992/deskmate/internal/ports"
)

const serviceName = "deskmate"

func main() {

	// CONFIG
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// LOGGER
	zcore, zl := infra.NewLogger(cfg.Logging)
	defer zcore.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// METRICS
	var appMetrics *metrics.Metrics
	if cfg.MetricsEnabled {
		appMetrics = metrics.NewMetrics()
	}

	// JOURNAL (optional)
	var journal ports.TranscriptionJournal = infra.NopJournal{}
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("journal: %v", err)
		}
		defer pool.Close()

		pj := infra.NewPostgresJournal(pool)
		if err := pj.EnsureSchema(ctx); err != nil {
			log.Fatalf("journal: %v", err)
		}
		journal = pj
	}

	// STATE
	dirs := infra.NewOSAppDirResolver(cfg.Storage.AppID, cfg.Storage.DataDir)
	store := infra.NewFileStateStore(dirs)

	hub := ws.NewHub(appMetrics)
	stateService := domain.NewStateService(store, hub, appMetrics, zl)

	// TRANSCRIPTION
	stt := infra.NewOpenAITranscriber(cfg.Transcription.Endpoint, nil)
	transcriptionService := domain.NewTranscriptionService(
		stt,
		journal,
		domain.TranscriptionOptions{
			Timeout:       cfg.Transcription.Timeout,
			MaxAudioBytes: cfg.Transcription.MaxAudioBytes,
		},
		appMetrics,
		zl,
	)

	dispatcher := domain.NewDispatcher(transcriptionService, stateService, appMetrics)
	authService := domain.NewAuthService(cfg.Server.IPCSecret)
	if !authService.Enabled() {
		zl.Log(logger.LogEntry{
			Level:   "warn",
			Message: "DESKMATE_IPC_SECRET is not set; command server accepts any local caller",
		})
	}

	// ROUTER
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Auth"},
	}))

	maxBody := maxBodyBytes(cfg.Transcription.MaxAudioBytes)

	hCmd := delivery.NewCommandHandler(dispatcher, zl, maxBody)
	delivery.RegisterRoutes(r, hCmd, authService, hub, dispatcher, delivery.RouteOptions{
		TranscribePerMinute: cfg.Transcription.RatePerMinute,
		Commands:            dispatcher.Commands(),
		Metrics:             appMetrics,
		AllowedOrigins:      cfg.Server.AllowedOrigins,
		MaxFrameBytes:       maxBody,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zl.Log(logger.LogEntry{
			Level:   "info",
			Message: "server started",
			Service: serviceName,
			Fields: map[string]any{
				"addr":     cfg.Server.Addr,
				"commands": dispatcher.Commands(),
				"journal":  cfg.DatabaseURL != "",
			},
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server crashed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zl.Log(logger.LogEntry{
			Level:   "error",
			Message: "server stopped with error",
			Error:   err,
		})
		os.Exit(1)
	}

	zl.Log(logger.LogEntry{Level: "info", Message: "server stopped"})
}

// maxBodyBytes allows for the JSON byte-array encoding of the largest
// accepted clip (up to 4 bytes per audio byte) plus envelope. It caps both
// HTTP bodies and WebSocket frames.
func maxBodyBytes(maxAudio int) int64 {
	if maxAudio <= 0 {
		return 0
	}
	return int64(maxAudio)*4 + 1<<20
}
