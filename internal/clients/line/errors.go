package line

import (
	"fmt"
	"strings"
)

// APIError is the structured error body returned by the platform API.
type APIError struct {
	StatusCode int           `json:"-"`
	Message    string        `json:"message"`
	Details    []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail points at the request field an API error is about.
type ErrorDetail struct {
	Message  string `json:"message"`
	Property string `json:"property"`
}

func (e *APIError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("line api error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("line api error (status %d): %s (%d details)", e.StatusCode, e.Message, len(e.Details))
}

// Format renders the error for display in a chat reply.
func (e *APIError) Format() string {
	var sb strings.Builder
	sb.WriteString("Error: ")
	sb.WriteString(e.Message)
	for _, detail := range e.Details {
		sb.WriteString("\n- ")
		if detail.Property != "" {
			sb.WriteString(detail.Property)
			sb.WriteString(": ")
		}
		sb.WriteString(detail.Message)
	}
	return sb.String()
}
