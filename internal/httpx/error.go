package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is a non-2xx response from the remote service.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
	Header     http.Header
	// JSON holds the decoded body when the response declared application/json.
	JSON any
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("http error: %s %s: status=%d body=%s", e.Method, e.URL, e.StatusCode, string(e.Body))
}

// Retryable reports whether the status is considered transient.
func (e *HTTPError) Retryable() bool {
	if e == nil {
		return false
	}
	return retryableStatus(e.StatusCode)
}

// StatusCode returns the status of an *HTTPError anywhere in err's chain, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusRequestTimeout ||
		(code >= 500 && code <= 599)
}

func decodeJSONBody(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	return payload
}
