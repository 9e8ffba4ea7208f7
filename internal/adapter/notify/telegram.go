package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTelegramAPI = "https://api.telegram.org"

// TelegramSink sends messages and photos through the Telegram bot API.
type TelegramSink struct {
	apiBase    string
	token      string
	chatID     string
	httpClient *http.Client
}

// NewTelegramSink creates a bot sink. apiBase may be empty for the public API.
func NewTelegramSink(apiBase, token, chatID string) *TelegramSink {
	if apiBase == "" {
		apiBase = defaultTelegramAPI
	}
	return &TelegramSink{
		apiBase: strings.TrimRight(apiBase, "/"),
		token:   token,
		chatID:  chatID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type telegramResult struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// SendMessage delivers HTML-formatted text to the configured chat.
func (s *TelegramSink) SendMessage(ctx context.Context, text string) error {
	form := url.Values{}
	form.Set("chat_id", s.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "html")
	form.Set("disable_web_page_preview", "true")

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", s.apiBase, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return s.do(req)
}

// SendPhoto delivers a PNG with a caption to the configured chat.
func (s *TelegramSink) SendPhoto(ctx context.Context, image []byte, caption string) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("chat_id", s.chatID); err != nil {
		return fmt.Errorf("write chat id field: %w", err)
	}
	if err := writer.WriteField("caption", caption); err != nil {
		return fmt.Errorf("write caption field: %w", err)
	}
	if err := writer.WriteField("parse_mode", "html"); err != nil {
		return fmt.Errorf("write parse mode field: %w", err)
	}
	part, err := writer.CreateFormFile("photo", "image.png")
	if err != nil {
		return fmt.Errorf("create photo part: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return fmt.Errorf("write photo part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finish multipart body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendPhoto", s.apiBase, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return s.do(req)
}

func (s *TelegramSink) do(req *http.Request) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	var result telegramResult
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("decode telegram response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram api: %s", result.Description)
	}
	return nil
}
