package domain

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/Vovarama1992/deskmate/internal/ports"
)

const ipcTokenSubject = "deskmate-ipc"

type authService struct {
	secret string
}

// NewAuthService guards the local command server. With an empty secret
// every token is accepted.
func NewAuthService(secret string) ports.AuthService {
	return &authService{secret: secret}
}

func (s *authService) Enabled() bool { return s.secret != "" }

func (s *authService) ValidateToken(ctx context.Context, token string) (bool, error) {
	if !s.Enabled() {
		return true, nil
	}
	valid := IPCToken(s.secret)
	return hmac.Equal([]byte(token), []byte(valid)), nil
}

// IPCToken is the value the shell sends in X-Auth for the given secret.
func IPCToken(secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(ipcTokenSubject))
	return hex.EncodeToString(h.Sum(nil))
}
