package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/debemdeboas/blogsync/internal/httpx"
)

// ValidationError is the payload of a 422 response: field name to message.
// Body keeps the response as sent, including shapes Fields cannot hold.
type ValidationError struct {
	Fields map[string]string `json:"error"`
	Body   json.RawMessage   `json:"-"`
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "validation failed"
	}
	if len(e.Fields) == 0 {
		if body := strings.TrimSpace(string(e.Body)); body != "" {
			return "validation failed: " + body
		}
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message for name, or "".
func (e *ValidationError) Field(name string) string {
	if e == nil {
		return ""
	}
	return e.Fields[name]
}

// AsValidationError extracts a validation payload from err. It matches an
// existing *ValidationError or a 422 *httpx.HTTPError whose body decodes.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}

	var httpErr *httpx.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusUnprocessableEntity {
		return nil, false
	}

	verr = &ValidationError{Body: json.RawMessage(httpErr.Body)}
	if err := json.Unmarshal(httpErr.Body, verr); err != nil || verr.Fields == nil {
		verr.Fields = map[string]string{}
	}
	return verr, true
}
