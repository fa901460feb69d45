package models

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestCommandErrorMessages(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		err  *CommandError
		want string
	}{
		{NewCommandError(KindRequestBuild, cause), "Mime error: boom"},
		{NewCommandError(KindTransport, cause), "Request error: boom"},
		{NewCommandError(KindResponseRead, cause), "Response read error: boom"},
		{&CommandError{Kind: KindAPI, Status: 401, Body: `{"error":"bad key"}`}, `OpenAI error 401 Unauthorized: {"error":"bad key"}`},
		{&CommandError{Kind: KindPayloadDecode, Err: cause, Body: "<html>"}, "JSON parse error: boom, body: <html>"},
		{&CommandError{Kind: KindIORead, Err: cause, Path: "/d/state.json"}, "failed to read /d/state.json: boom"},
		{&CommandError{Kind: KindIOWrite, Err: cause, Path: "/d/state.json"}, "failed to write /d/state.json: boom"},
		{&CommandError{Kind: KindIOCreateDir, Err: cause, Path: "/d"}, "failed to create dir /d: boom"},
		{NewCommandError(KindPathResolution, cause), "failed to resolve app data dir: boom"},
		{InvalidArgs("missing required key %s", "audio"), "missing required key audio"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("%s: got %q, want %q", tt.err.Kind, got, tt.want)
		}
	}
}

func TestKindOfAndUnwrap(t *testing.T) {
	err := fmt.Errorf("transcribe: %w", NewCommandError(KindResponseRead, io.ErrUnexpectedEOF))

	if KindOf(err) != KindResponseRead {
		t.Errorf("kind = %q", KindOf(err))
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("cause not reachable through Unwrap")
	}
	if KindOf(errors.New("plain")) != "" {
		t.Error("plain error must have no kind")
	}

	sentinel := errors.New("not found")
	if !errors.Is(InvalidArgs("command x: %w", sentinel), sentinel) {
		t.Error("InvalidArgs must keep wrapped errors")
	}
}

func TestUpstreamKinds(t *testing.T) {
	upstream := []ErrorKind{KindTransport, KindAPI, KindResponseRead, KindPayloadDecode}
	local := []ErrorKind{KindRequestBuild, KindPathResolution, KindIORead, KindIOWrite, KindIOCreateDir, KindInvalidArgs}

	for _, k := range upstream {
		if !k.Upstream() {
			t.Errorf("%s should be upstream", k)
		}
	}
	for _, k := range local {
		if k.Upstream() {
			t.Errorf("%s should not be upstream", k)
		}
	}
}
