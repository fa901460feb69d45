package models

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// AudioPayload is one recorded clip. The webview sends it as a JSON array
// of byte values; a base64 string is accepted as well.
type AudioPayload []byte

func (a *AudioPayload) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*a = nil
		return nil

	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return fmt.Errorf("audio: invalid base64: %w", err)
		}
		*a = b
		return nil

	case len(data) > 0 && data[0] == '[':
		var nums []int
		if err := json.Unmarshal(data, &nums); err != nil {
			return fmt.Errorf("audio: expected array of bytes: %w", err)
		}
		out := make([]byte, len(nums))
		for i, n := range nums {
			if n < 0 || n > 255 {
				return fmt.Errorf("audio: value %d at index %d is not a byte", n, i)
			}
			out[i] = byte(n)
		}
		*a = out
		return nil
	}

	return fmt.Errorf("audio: expected array of bytes or base64 string")
}
