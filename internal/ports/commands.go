package ports

import (
	"context"
	"encoding/json"
)

type CommandInvoker interface {
	Invoke(ctx context.Context, name string, args json.RawMessage) (any, error)
}
