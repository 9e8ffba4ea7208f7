package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// DiscordSink posts messages and photos to a Discord webhook.
type DiscordSink struct {
	webhookURL string
	httpClient *http.Client
}

// NewDiscordSink creates a webhook sink with a finite request timeout.
func NewDiscordSink(webhookURL string) *DiscordSink {
	return &DiscordSink{
		webhookURL: webhookURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SendMessage posts plain text content to the webhook.
func (s *DiscordSink) SendMessage(ctx context.Context, text string) error {
	payload, err := json.Marshal(map[string]string{"content": text})
	if err != nil {
		return fmt.Errorf("encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("discord webhook: %s: %s", resp.Status, string(body))
	}
	return nil
}

// SendPhoto posts a PNG attachment with a caption as multipart form data.
func (s *DiscordSink) SendPhoto(ctx context.Context, image []byte, caption string) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("content", caption); err != nil {
		return fmt.Errorf("write caption field: %w", err)
	}
	part, err := writer.CreateFormFile("file", "image.png")
	if err != nil {
		return fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return fmt.Errorf("write image part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("discord webhook photo: %s: %s", resp.Status, string(body))
	}
	return nil
}
