package foundry

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// PlatformError is returned when the Agents API responds with an error
// status. Code carries the platform-specific error code string when the
// body is in the common {"error":{"code":...,"message":...}} format.
type PlatformError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *PlatformError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("foundry: HTTP %d: %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("foundry: HTTP %d: %s", e.StatusCode, e.Message)
}

// readPlatformError parses an error response body. Bodies that are not
// in the common error envelope are carried verbatim as the message.
func readPlatformError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &envelope) == nil && envelope.Error.Message != "" {
		return &PlatformError{
			StatusCode: resp.StatusCode,
			Code:       envelope.Error.Code,
			Message:    envelope.Error.Message,
		}
	}
	return &PlatformError{
		StatusCode: resp.StatusCode,
		Message:    strings.TrimSpace(string(body)),
	}
}
