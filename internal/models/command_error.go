package models

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorKind string

const (
	KindPathResolution ErrorKind = "PathResolutionError"
	KindIORead         ErrorKind = "IoReadError"
	KindIOWrite        ErrorKind = "IoWriteError"
	KindIOCreateDir    ErrorKind = "IoCreateDirError"
	KindRequestBuild   ErrorKind = "RequestBuildError"
	KindTransport      ErrorKind = "TransportError"
	KindAPI            ErrorKind = "ApiError"
	KindResponseRead   ErrorKind = "ResponseReadError"
	KindPayloadDecode  ErrorKind = "PayloadDecodeError"

	// boundary only: bad command name or arguments
	KindInvalidArgs ErrorKind = "InvalidArgsError"
)

// CommandError keeps the failure cause typed until the command boundary,
// where it is flattened to Error().
type CommandError struct {
	Kind ErrorKind
	Err  error

	Path   string // state file or directory, IO kinds
	Status int    // HTTP status, ApiError
	Body   string // raw response body, ApiError / PayloadDecodeError
}

func (e *CommandError) Error() string {
	switch e.Kind {
	case KindPathResolution:
		return fmt.Sprintf("failed to resolve app data dir: %v", e.Err)
	case KindIORead:
		return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
	case KindIOCreateDir:
		return fmt.Sprintf("failed to create dir %s: %v", e.Path, e.Err)
	case KindIOWrite:
		return fmt.Sprintf("failed to write %s: %v", e.Path, e.Err)
	case KindRequestBuild:
		return fmt.Sprintf("Mime error: %v", e.Err)
	case KindTransport:
		return fmt.Sprintf("Request error: %v", e.Err)
	case KindResponseRead:
		return fmt.Sprintf("Response read error: %v", e.Err)
	case KindAPI:
		return fmt.Sprintf("OpenAI error %d %s: %s", e.Status, http.StatusText(e.Status), e.Body)
	case KindPayloadDecode:
		return fmt.Sprintf("JSON parse error: %v, body: %s", e.Err, e.Body)
	case KindInvalidArgs:
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *CommandError) Unwrap() error { return e.Err }

func NewCommandError(kind ErrorKind, err error) *CommandError {
	return &CommandError{Kind: kind, Err: err}
}

func InvalidArgs(format string, args ...any) *CommandError {
	return &CommandError{Kind: KindInvalidArgs, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first CommandError in err's chain,
// or "" when there is none.
func KindOf(err error) ErrorKind {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

// Upstream reports whether the failure happened on the remote side
// of a transcription call.
func (k ErrorKind) Upstream() bool {
	switch k {
	case KindTransport, KindAPI, KindResponseRead, KindPayloadDecode:
		return true
	}
	return false
}
