package domain

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Vovarama1992/deskmate/internal/metrics"
	"github.com/Vovarama1992/deskmate/internal/models"
)

func TestDispatcherCommands(t *testing.T) {
	d := NewDispatcher(&fakeSTT{}, &memStore{}, nil)

	got := strings.Join(d.Commands(), ",")
	want := "read_data_file,transcribe_audio,write_data_file"
	if got != want {
		t.Errorf("commands = %s, want %s", got, want)
	}
}

func TestDispatcherUnknownCommand(t *testing.T) {
	d := NewDispatcher(&fakeSTT{}, &memStore{}, nil)

	_, err := d.Invoke(context.Background(), "delete_everything", nil)
	if !errors.Is(err, ErrUnknownCommand) {
		t.Fatalf("err = %v, want ErrUnknownCommand", err)
	}
	if models.KindOf(err) != models.KindInvalidArgs {
		t.Errorf("kind = %q", models.KindOf(err))
	}
	if !strings.Contains(err.Error(), "delete_everything") {
		t.Errorf("message %q lacks command name", err.Error())
	}
}

func TestTranscribeAudioCommand(t *testing.T) {
	tests := []struct {
		name string
		args string
	}{
		{"byte array", `{"audio":[1,2,255],"apiKey":"sk-1"}`},
		{"base64", `{"audio":"AQL/","apiKey":"sk-1"}`},
		{"extra keys ignored", `{"audio":[1,2,255],"apiKey":"sk-1","lang":"ru"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stt := &fakeSTT{text: " hi there "}
			d := NewDispatcher(stt, &memStore{}, nil)

			res, err := d.Invoke(context.Background(), CmdTranscribeAudio, json.RawMessage(tt.args))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res != " hi there " {
				t.Errorf("result = %#v", res)
			}
			if string(stt.audio) != "\x01\x02\xff" || stt.apiKey != "sk-1" {
				t.Errorf("stt got audio=%v key=%q", stt.audio, stt.apiKey)
			}
		})
	}
}

func TestTranscribeAudioEmptyInputsAreForwarded(t *testing.T) {
	stt := &fakeSTT{text: ""}
	d := NewDispatcher(stt, &memStore{}, nil)

	res, err := d.Invoke(context.Background(), CmdTranscribeAudio, json.RawMessage(`{"audio":[],"apiKey":""}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != "" || stt.calls != 1 {
		t.Errorf("res = %#v, calls = %d", res, stt.calls)
	}
}

func TestCommandArgErrors(t *testing.T) {
	tests := []struct {
		cmd  string
		args string
		want string
	}{
		{CmdTranscribeAudio, `{"apiKey":"k"}`, "missing required key audio"},
		{CmdTranscribeAudio, `{"audio":[1]}`, "missing required key apiKey"},
		{CmdTranscribeAudio, `{"audio":[1],"api_key":"k"}`, "missing required key apiKey"},
		{CmdTranscribeAudio, ``, "missing required key audio"},
		{CmdTranscribeAudio, `{"audio":[300],"apiKey":"k"}`, "invalid args"},
		{CmdTranscribeAudio, `{"audio":[1],"apiKey":5}`, "invalid args"},
		{CmdWriteDataFile, `{}`, "missing required key contents"},
		{CmdWriteDataFile, `{"contents":{"a":1}}`, "invalid args"},
		{CmdReadDataFile, `[1,2]`, "invalid args"},
	}

	for _, tt := range tests {
		stt := &fakeSTT{}
		d := NewDispatcher(stt, &memStore{}, nil)

		_, err := d.Invoke(context.Background(), tt.cmd, json.RawMessage(tt.args))
		if err == nil {
			t.Errorf("%s %s: expected error", tt.cmd, tt.args)
			continue
		}
		if models.KindOf(err) != models.KindInvalidArgs {
			t.Errorf("%s %s: kind = %q", tt.cmd, tt.args, models.KindOf(err))
		}
		if !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%s %s: message %q lacks %q", tt.cmd, tt.args, err.Error(), tt.want)
		}
		if stt.calls != 0 {
			t.Errorf("%s %s: transcriber must not be called", tt.cmd, tt.args)
		}
	}
}

func TestDataFileCommands(t *testing.T) {
	store := &memStore{}
	d := NewDispatcher(&fakeSTT{}, store, nil)
	ctx := context.Background()

	res, err := d.Invoke(ctx, CmdReadDataFile, nil)
	if err != nil || res != "{}" {
		t.Fatalf("initial read = %#v, %v", res, err)
	}

	// the file name is fixed; a client supplied one is ignored
	res, err = d.Invoke(ctx, CmdWriteDataFile, json.RawMessage(`{"file":"../../etc/passwd","contents":"{\"a\":1}"}`))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if res != nil {
		t.Errorf("write result = %#v, want nil", res)
	}

	res, err = d.Invoke(ctx, CmdReadDataFile, json.RawMessage(`{"file":"other.json"}`))
	if err != nil || res != `{"a":1}` {
		t.Errorf("read = %#v, %v", res, err)
	}
}

func TestDataFileCommandErrorsPassThrough(t *testing.T) {
	ioErr := &models.CommandError{Kind: models.KindIOWrite, Err: errDisk, Path: "/x/state.json"}
	store := &memStore{writeErr: ioErr, readErr: ioErr}
	d := NewDispatcher(&fakeSTT{}, store, nil)

	res, err := d.Invoke(context.Background(), CmdWriteDataFile, json.RawMessage(`{"contents":"x"}`))
	if res != nil || !errors.Is(err, errDisk) {
		t.Errorf("write = %#v, %v", res, err)
	}

	res, err = d.Invoke(context.Background(), CmdReadDataFile, nil)
	if res != nil || models.KindOf(err) != models.KindIOWrite {
		t.Errorf("read = %#v, %v", res, err)
	}
}

func TestInvokeIgnoresCallerCancellation(t *testing.T) {
	stt := &fakeSTT{text: "done"}
	d := NewDispatcher(stt, &memStore{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := d.Invoke(ctx, CmdTranscribeAudio, json.RawMessage(`{"audio":[1],"apiKey":"k"}`))
	if err != nil || res != "done" {
		t.Fatalf("res = %#v, err = %v", res, err)
	}
	if stt.ctxErr != nil {
		t.Errorf("transcriber saw cancelled context: %v", stt.ctxErr)
	}
}

func TestInvokePlainErrorRecordedAsFailure(t *testing.T) {
	m := metrics.NewMetrics()
	d := NewDispatcher(&fakeSTT{}, &memStore{writeErr: errDisk}, m)

	if _, err := d.Invoke(context.Background(), CmdWriteDataFile, json.RawMessage(`{"contents":"x"}`)); !errors.Is(err, errDisk) {
		t.Fatalf("err = %v", err)
	}

	if got := testutil.ToFloat64(m.CommandRequests.WithLabelValues(CmdWriteDataFile, "ok")); got != 0 {
		t.Errorf("ok requests = %v, want 0", got)
	}
	if got := testutil.ToFloat64(m.CommandRequests.WithLabelValues(CmdWriteDataFile, "error")); got != 1 {
		t.Errorf("error requests = %v, want 1", got)
	}
}
