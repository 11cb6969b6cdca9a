// Package telegram sends admin notifications through the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	sharedConfig "github.com/autopro-kz/autopro/internal/shared/config"
)

const (
	defaultAPIBaseURL = "https://api.telegram.org"
	maxResponseSize   = 64 << 10
)

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Description string `json:"description,omitempty"`
	Parameters  *struct {
		RetryAfter int `json:"retry_after,omitempty"`
	} `json:"parameters,omitempty"`
}

// BotService is a minimal Bot API client.
type BotService struct {
	httpClient *http.Client
	baseURL    string
}

func NewBotService(config sharedConfig.TelegramConfig) *BotService {
	apiBase := config.APIBaseURL
	if apiBase == "" {
		apiBase = defaultAPIBaseURL
	}
	timeout := config.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &BotService{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    fmt.Sprintf("%s/bot%s", strings.TrimRight(apiBase, "/"), config.BotToken),
	}
}

// SendMessage posts an HTML formatted message with link previews disabled.
func (s *BotService) SendMessage(ctx context.Context, chatID string, text string) error {
	body := map[string]any{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}
	return s.makeRequest(ctx, s.baseURL+"/sendMessage", body)
}

func (s *BotService) makeRequest(ctx context.Context, url string, body map[string]any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var result apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&result); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{ErrorCode: resp.StatusCode, Description: http.StatusText(resp.StatusCode)}
		}
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if !result.OK {
		apiErr := &APIError{ErrorCode: result.ErrorCode, Description: result.Description}
		if apiErr.ErrorCode == 0 {
			apiErr.ErrorCode = resp.StatusCode
		}
		if result.Parameters != nil {
			apiErr.RetryAfter = result.Parameters.RetryAfter
		}
		return apiErr
	}

	return nil
}
