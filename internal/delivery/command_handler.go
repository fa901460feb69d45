package delivery

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/go-chi/chi/v5"

	"github.com/Vovarama1992/deskmate/internal/domain"
	"github.com/Vovarama1992/deskmate/internal/models"
	"github.com/Vovarama1992/deskmate/internal/ports"
)

type CommandHandler struct {
	invoker ports.CommandInvoker
	log     *logger.ZapLogger
	maxBody int64
}

// NewCommandHandler caps request bodies at maxBody bytes (0 = no cap).
func NewCommandHandler(invoker ports.CommandInvoker, log *logger.ZapLogger, maxBody int64) *CommandHandler {
	return &CommandHandler{
		invoker: invoker,
		log:     log,
		maxBody: maxBody,
	}
}

// POST /invoke/{command}
func (h *CommandHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "command")

	var body io.Reader = r.Body
	if h.maxBody > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBody)
	}

	args, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read body: "+err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.invoker.Invoke(r.Context(), name, args)
	if err != nil {
		h.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: "command failed",
			Error:   err,
			Fields: map[string]any{
				"command": name,
				"kind":    string(models.KindOf(err)),
			},
		})
		writeJSON(w, statusFor(err), map[string]any{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"result": res})
}

// GET /invoke
func (h *CommandHandler) List(commands []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"commands": commands})
	}
}

func statusFor(err error) int {
	kind := models.KindOf(err)
	switch {
	case errors.Is(err, domain.ErrUnknownCommand):
		return http.StatusNotFound
	case kind == models.KindInvalidArgs:
		return http.StatusBadRequest
	case kind.Upstream():
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
