package delivery

import (
	"net/http"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	ws "github.com/Vovarama1992/deskmate/internal/delivery/ws"
	"github.com/Vovarama1992/deskmate/internal/domain"
	"github.com/Vovarama1992/deskmate/internal/metrics"
	"github.com/Vovarama1992/deskmate/internal/ports"
)

type RouteOptions struct {
	TranscribePerMinute int // 0 → no limit
	Commands            []string
	Metrics             *metrics.Metrics // nil → no /metrics
	AllowedOrigins      []string         // browser origins allowed on /invoke and /ws
	MaxFrameBytes       int64            // WebSocket frame cap, 0 → no limit
}

func RegisterRoutes(
	r chi.Router,
	hCmd *CommandHandler,
	auth ports.AuthService,
	hub *ws.Hub,
	invoker ports.CommandInvoker,
	opts RouteOptions,
) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}

	// --- commands ---
	r.Group(func(pr chi.Router) {
		pr.Use(
			httputil.RecoverMiddleware,
			OriginGuard(opts.AllowedOrigins),
			AuthMiddleware(auth),
		)

		pr.Get("/invoke", hCmd.List(opts.Commands))
		pr.With(limitCommand(domain.CmdTranscribeAudio, opts.TranscribePerMinute)).
			Post("/invoke/{command}", hCmd.Invoke)

		pr.Get("/ws", ws.WSHandler(hub, invoker, ws.Options{
			AllowedOrigins: opts.AllowedOrigins,
			MaxFrameBytes:  opts.MaxFrameBytes,
		}))
	})
}

// limitCommand rate-limits a single command per client IP.
func limitCommand(command string, perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	limiter := httprate.LimitByIP(perMinute, time.Minute)

	return func(next http.Handler) http.Handler {
		limited := limiter(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if chi.URLParam(r, "command") == command {
				limited.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
