package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/Vovarama1992/deskmate/internal/models"
)

const (
	OpenAITranscriptionURL = "https://api.openai.com/v1/audio/transcriptions"
	TranscriptionModel     = "gpt-4o-transcribe"

	audioFileName    = "audio.webm"
	audioContentType = "audio/webm"
)

type OpenAITranscriber struct {
	endpoint string
	client   *http.Client
}

// NewOpenAITranscriber uses the default transport: no client timeout,
// no retries. An empty endpoint means the OpenAI one.
func NewOpenAITranscriber(endpoint string, client *http.Client) *OpenAITranscriber {
	if endpoint == "" {
		endpoint = OpenAITranscriptionURL
	}
	if client == nil {
		client = &http.Client{}
	}
	return &OpenAITranscriber{
		endpoint: endpoint,
		client:   client,
	}
}

type transcriptionResponse struct {
	Text *string `json:"text"`
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, audio []byte, apiKey string) (string, error) {
	body, contentType, err := buildTranscriptionForm(audio, audioContentType)
	if err != nil {
		return "", models.NewCommandError(models.KindRequestBuild, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, body)
	if err != nil {
		return "", models.NewCommandError(models.KindRequestBuild, err)
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", models.NewCommandError(models.KindTransport, err)
	}
	defer resp.Body.Close()

	rawResp, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", models.NewCommandError(models.KindResponseRead, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &models.CommandError{
			Kind:   models.KindAPI,
			Err:    fmt.Errorf("status %d", resp.StatusCode),
			Status: resp.StatusCode,
			Body:   string(rawResp),
		}
	}

	text, err := decodeTranscription(rawResp)
	if err != nil {
		return "", &models.CommandError{
			Kind: models.KindPayloadDecode,
			Err:  err,
			Body: string(rawResp),
		}
	}

	return text, nil
}

// buildTranscriptionForm writes exactly two parts: model and file.
func buildTranscriptionForm(audio []byte, fileType string) (io.Reader, string, error) {
	if _, _, err := mime.ParseMediaType(fileType); err != nil {
		return nil, "", fmt.Errorf("invalid content type %q: %w", fileType, err)
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("model", TranscriptionModel); err != nil {
		return nil, "", fmt.Errorf("write model field: %w", err)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", mime.FormatMediaType("form-data", map[string]string{
		"name":     "file",
		"filename": audioFileName,
	}))
	h.Set("Content-Type", fileType)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return nil, "", fmt.Errorf("write audio: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}

	return &buf, w.FormDataContentType(), nil
}

func decodeTranscription(raw []byte) (string, error) {
	var parsed transcriptionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", err
	}
	if parsed.Text == nil {
		return "", errors.New("missing field `text`")
	}
	return *parsed.Text, nil
}
