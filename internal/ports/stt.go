package ports

import "context"

type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, apiKey string) (string, error)
}
