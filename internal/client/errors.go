package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNoResponse marks network and timeout failures: the request left the
// client but no response came back.
var ErrNoResponse = errors.New("no response received")

// APIError is a non-2xx answer from the backend, body retained for
// message extraction.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message(), e.StatusCode)
}

// Message extracts the most specific human-readable description available:
// the backend's detail string, a flattened list of field validation errors,
// the raw body, or the status text, in that order.
func (e *APIError) Message() string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(e.Body, &envelope); err == nil && len(envelope.Detail) > 0 {
		var detail string
		if err := json.Unmarshal(envelope.Detail, &detail); err == nil && detail != "" {
			return detail
		}

		var fields []struct {
			Loc []any  `json:"loc"`
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(envelope.Detail, &fields); err == nil && len(fields) > 0 {
			parts := make([]string, 0, len(fields))
			for _, f := range fields {
				if f.Msg == "" {
					continue
				}
				if name := fieldName(f.Loc); name != "" {
					parts = append(parts, name+": "+f.Msg)
				} else {
					parts = append(parts, f.Msg)
				}
			}
			if len(parts) > 0 {
				return strings.Join(parts, "; ")
			}
		}
	}

	if body := strings.TrimSpace(string(e.Body)); body != "" && len(body) <= 512 {
		return body
	}
	return http.StatusText(e.StatusCode)
}

// fieldName picks the last string element of a validation location path,
// e.g. ["body","email"] -> "email".
func fieldName(loc []any) string {
	for i := len(loc) - 1; i >= 0; i-- {
		if s, ok := loc[i].(string); ok && s != "body" {
			return s
		}
	}
	return ""
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
