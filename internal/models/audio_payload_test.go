package models

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestAudioPayloadUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr bool
	}{
		{"byte array", `[26,69,223,163,0,255]`, []byte{26, 69, 223, 163, 0, 255}, false},
		{"empty array", `[]`, []byte{}, false},
		{"base64", `"GkXfowD/"`, []byte{26, 69, 223, 163, 0, 255}, false},
		{"null", `null`, nil, false},
		{"out of range", `[1,256]`, nil, true},
		{"negative", `[-1]`, nil, true},
		{"float", `[1.5]`, nil, true},
		{"bad base64", `"%%%"`, nil, true},
		{"object", `{"a":1}`, nil, true},
		{"number", `12`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got AudioPayload
			err := json.Unmarshal([]byte(tt.in), &got)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", []byte(got))
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", []byte(got), tt.want)
			}
		})
	}
}

func TestAudioPayloadInsideStruct(t *testing.T) {
	var args struct {
		Audio  *AudioPayload `json:"audio"`
		APIKey string        `json:"apiKey"`
	}
	if err := json.Unmarshal([]byte(`{"audio":[1,2,3],"apiKey":"sk"}`), &args); err != nil {
		t.Fatal(err)
	}
	if args.Audio == nil || !bytes.Equal(*args.Audio, []byte{1, 2, 3}) {
		t.Errorf("audio = %v", args.Audio)
	}
}
