package telegram

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a Bot API response with ok=false.
type APIError struct {
	ErrorCode   int
	Description string
	RetryAfter  int
}

func (e *APIError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("telegram API error %d: %s (retry_after=%ds)", e.ErrorCode, e.Description, e.RetryAfter)
	}
	return fmt.Sprintf("telegram API error %d: %s", e.ErrorCode, e.Description)
}

// IsBotBlocked reports a 403 from Telegram.
func IsBotBlocked(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode == http.StatusForbidden
	}
	return false
}

// GetRetryAfter extracts retry_after seconds from a 429 error, or 0.
func GetRetryAfter(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.ErrorCode == http.StatusTooManyRequests {
		return apiErr.RetryAfter
	}
	return 0
}

// isNonRetryable is true for 400/401/403/404 responses.
func isNonRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return true
		}
	}
	return false
}
