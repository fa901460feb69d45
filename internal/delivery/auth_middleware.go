package delivery

import (
	"log"
	"net/http"

	ws "github.com/Vovarama1992/deskmate/internal/delivery/ws"
	"github.com/Vovarama1992/deskmate/internal/ports"
)

// OriginGuard rejects browser requests whose Origin is not in allowed.
// Requests without an Origin header pass.
func OriginGuard(allowed []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if !ws.AllowedOrigin(allowed, origin) {
				log.Printf("[AUTH] rejected origin=%q path=%s", origin, r.URL.Path)
				http.Error(w, "origin not allowed", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AuthMiddleware checks the IPC token from X-Auth, or from ?token= for
// WebSocket upgrades where the webview cannot set headers.
func AuthMiddleware(auth ports.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			if !auth.Enabled() {
				next.ServeHTTP(w, r)
				return
			}

			token := r.Header.Get("X-Auth")
			if token == "" {
				token = r.URL.Query().Get("token")
			}
			if token == "" {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}

			ok, _ := auth.ValidateToken(r.Context(), token)
			if !ok {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
