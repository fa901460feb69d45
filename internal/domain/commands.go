package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/Vovarama1992/deskmate/internal/metrics"
	"github.com/Vovarama1992/deskmate/internal/models"
	"github.com/Vovarama1992/deskmate/internal/ports"
)

const (
	CmdTranscribeAudio = "transcribe_audio"
	CmdReadDataFile    = "read_data_file"
	CmdWriteDataFile   = "write_data_file"
)

var ErrUnknownCommand = errors.New("unknown command")

type commandFunc func(ctx context.Context, args json.RawMessage) (any, error)

// Dispatcher is the single entry point the shell talks to: a command name
// plus JSON args in, a result or one error out.
type Dispatcher struct {
	commands map[string]commandFunc
	metrics  *metrics.Metrics
}

func NewDispatcher(stt ports.Transcriber, state ports.StateStore, m *metrics.Metrics) *Dispatcher {
	d := &Dispatcher{metrics: m}
	d.commands = map[string]commandFunc{
		CmdTranscribeAudio: transcribeAudio(stt),
		CmdReadDataFile:    readDataFile(state),
		CmdWriteDataFile:   writeDataFile(state),
	}
	return d
}

func (d *Dispatcher) Commands() []string {
	names := make([]string, 0, len(d.commands))
	for n := range d.commands {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the command to completion even if ctx is cancelled by the caller.
func (d *Dispatcher) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	cmd, ok := d.commands[name]
	if !ok {
		return nil, models.InvalidArgs("command %s not found: %w", name, ErrUnknownCommand)
	}

	start := time.Now()
	res, err := cmd(context.WithoutCancel(ctx), args)
	d.metrics.RecordCommand(name, err, time.Since(start).Seconds())

	return res, err
}

type transcribeArgs struct {
	Audio  *models.AudioPayload `json:"audio"`
	APIKey *string              `json:"apiKey"`
}

type writeArgs struct {
	Contents *string `json:"contents"`
}

func transcribeAudio(stt ports.Transcriber) commandFunc {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args transcribeArgs
		if err := decodeArgs(CmdTranscribeAudio, raw, &args); err != nil {
			return nil, err
		}
		if args.Audio == nil {
			return nil, missingKey(CmdTranscribeAudio, "audio")
		}
		if args.APIKey == nil {
			return nil, missingKey(CmdTranscribeAudio, "apiKey")
		}

		text, err := stt.Transcribe(ctx, *args.Audio, *args.APIKey)
		if err != nil {
			return nil, err
		}
		return text, nil
	}
}

func readDataFile(state ports.StateStore) commandFunc {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args struct{}
		if err := decodeArgs(CmdReadDataFile, raw, &args); err != nil {
			return nil, err
		}
		contents, err := state.Read(ctx)
		if err != nil {
			return nil, err
		}
		return contents, nil
	}
}

func writeDataFile(state ports.StateStore) commandFunc {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var args writeArgs
		if err := decodeArgs(CmdWriteDataFile, raw, &args); err != nil {
			return nil, err
		}
		if args.Contents == nil {
			return nil, missingKey(CmdWriteDataFile, "contents")
		}

		if err := state.Write(ctx, *args.Contents); err != nil {
			return nil, err
		}
		return nil, nil
	}
}

func decodeArgs(cmd string, raw json.RawMessage, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return models.InvalidArgs("invalid args for command %s: %v", cmd, err)
	}
	return nil
}

func missingKey(cmd, key string) error {
	return models.InvalidArgs("invalid args for command %s: missing required key %s", cmd, key)
}
