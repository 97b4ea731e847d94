package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/childcare-management/childcare-ui/internal/ui/types"
)

// maxErrorBodySize caps how much of an error response is read
const maxErrorBodySize = 64 * 1024

// ClientError represents an error encountered when communicating with the childcare API
// StatusCode 0 = network/connection or internal error, >0 = HTTP response received
type ClientError struct {
	StatusCode  int             `json:"status_code"`
	UserMessage string          `json:"user_message"`
	LogMessage  string          `json:"log_message"`
	Payload     json.RawMessage `json:"payload,omitempty"` // error body sent by the server, if any
}

func (e *ClientError) Error() string {
	return e.LogMessage
}

// UserError returns the user-friendly message
func (e *ClientError) UserError() string {
	return e.UserMessage
}

// NewClientConnectionError creates a ClientError for network/connection issues
func NewClientConnectionError(err error) *ClientError {
	return &ClientError{
		StatusCode:  0,
		UserMessage: "Unable to connect. Please check your internet connection and try again.",
		LogMessage:  fmt.Sprintf("network error: %v", err),
	}
}

// NewClientInternalError creates a ClientError for internal errors, supply the error and an explanation of what was being done when the error occurred
func NewClientInternalError(err error, while string) *ClientError {
	return &ClientError{
		StatusCode:  0,
		UserMessage: "An error occurred. Please try again later.",
		LogMessage:  fmt.Sprintf("internal error: %v while %v", err, while),
	}
}

// NewClientApiError creates a ClientError from an HTTP response sent by the childcare API
func NewClientApiError(res *http.Response) *ClientError {
	var payload []byte
	if res.Body != nil {
		payload, _ = io.ReadAll(io.LimitReader(res.Body, maxErrorBodySize))
	}

	serverMsg := DetailMessage(payload)

	var userMsg string
	switch res.StatusCode {
	case http.StatusUnauthorized:
		userMsg = "Your session is not valid. Please log in again."
	case http.StatusForbidden:
		userMsg = "You don't have permission to access this resource."
	case http.StatusNotFound:
		userMsg = "The requested record was not found."
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		// Use server message for validation errors if available
		if serverMsg != "" {
			userMsg = serverMsg
		} else {
			userMsg = "Invalid request. Please check your input and try again."
		}
	case http.StatusTooManyRequests:
		userMsg = "Too many requests. Please try again in a few moments."
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		userMsg = "The service is temporarily unavailable. Please try again later."
	default:
		userMsg = "An error occurred. Please try again."
	}

	logMsg := fmt.Sprintf("childcare api status %d", res.StatusCode)
	if serverMsg != "" {
		logMsg += fmt.Sprintf(" - %s", serverMsg)
	}

	ce := &ClientError{
		StatusCode:  res.StatusCode,
		UserMessage: userMsg,
		LogMessage:  logMsg,
	}
	if json.Valid(payload) {
		ce.Payload = json.RawMessage(payload)
	}
	return ce
}

// DetailMessage extracts a readable message from an API error body.
//
// FastAPI reports errors as {"detail": "message"} or, for validation failures,
// {"detail": [{"loc": ["body", "name"], "msg": "field required"}, ...]}.
func DetailMessage(payload []byte) string {
	if len(payload) == 0 {
		return ""
	}

	var body types.ErrorResponse
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}

	if len(body.Detail) > 0 {
		var s string
		if err := json.Unmarshal(body.Detail, &s); err == nil {
			return s
		}

		var items []struct {
			Loc []any  `json:"loc"`
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(body.Detail, &items); err == nil && len(items) > 0 {
			msgs := make([]string, 0, len(items))
			for _, item := range items {
				if len(item.Loc) > 0 {
					msgs = append(msgs, fmt.Sprintf("%v: %s", item.Loc[len(item.Loc)-1], item.Msg))
				} else {
					msgs = append(msgs, item.Msg)
				}
			}
			return strings.Join(msgs, "; ")
		}
	}

	return body.Message
}
