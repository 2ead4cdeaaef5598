package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Kind discriminates grouping-client failures so callers can branch on the
// failure class instead of matching message text. Only KindContextLength is
// recoverable; the batch planner retries on it and propagates everything
// else untouched.
type Kind string

const (
	KindContextLength Kind = "context_length"
	KindAuth          Kind = "auth"
	KindRateLimit     Kind = "rate_limit"
	KindConnection    Kind = "connection"
	KindModelNotFound Kind = "model_not_found"
	KindBadResponse   Kind = "bad_response"
	KindOther         Kind = "other"
)

// Error is a provider failure classified at the client boundary.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// IsContextLength reports whether err is a context-length failure, the one
// failure class the batch planner is allowed to recover from.
func IsContextLength(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindContextLength
}

// KindOf returns the failure class of err, or KindOther for errors that did
// not come through the client boundary.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindOther
}

// classifyOpenAIError maps a sashabaranov/go-openai failure onto an Error
// kind. API errors are matched on their structured code and HTTP status
// first; the message is only consulted for the context-length case, where
// older server versions do not set a code.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code, _ := apiErr.Code.(string)
		message := strings.ToLower(apiErr.Message)

		switch {
		case code == "context_length_exceeded" || strings.Contains(message, "maximum context length"):
			return &Error{Kind: KindContextLength, Message: "model context length exceeded", Cause: err}
		case code == "invalid_api_key" || apiErr.HTTPStatusCode == http.StatusUnauthorized:
			return &Error{Kind: KindAuth, Message: "invalid OpenAI API key", Cause: err}
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests || strings.Contains(code, "rate_limit"):
			return &Error{Kind: KindRateLimit, Message: "OpenAI API rate limit exceeded", Cause: err}
		case code == "model_not_found" || apiErr.HTTPStatusCode == http.StatusNotFound:
			return &Error{Kind: KindModelNotFound, Message: "model not found", Cause: err}
		default:
			return &Error{Kind: KindOther, Message: "OpenAI API call failed", Cause: err}
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		switch reqErr.HTTPStatusCode {
		case http.StatusUnauthorized:
			return &Error{Kind: KindAuth, Message: "invalid OpenAI API key", Cause: err}
		case http.StatusTooManyRequests:
			return &Error{Kind: KindRateLimit, Message: "OpenAI API rate limit exceeded", Cause: err}
		}
		return &Error{Kind: KindOther, Message: "OpenAI API call failed", Cause: err}
	}

	if isConnectionError(err) {
		return &Error{Kind: KindConnection, Message: "failed to connect to the OpenAI API", Cause: err}
	}

	return &Error{Kind: KindOther, Message: "OpenAI API call failed", Cause: err}
}

// classifyGeminiError maps a genai failure onto an Error kind. The Gemini
// SDK does not expose stable error codes for these cases, so classification
// falls back to message content.
func classifyGeminiError(err error) error {
	if isConnectionError(err) {
		return &Error{Kind: KindConnection, Message: "failed to connect to the Gemini API", Cause: err}
	}

	message := strings.ToLower(err.Error())
	switch {
	case strings.Contains(message, "exceeds the maximum number of tokens"),
		strings.Contains(message, "token count exceeds"),
		strings.Contains(message, "maximum context length"):
		return &Error{Kind: KindContextLength, Message: "model context length exceeded", Cause: err}
	case strings.Contains(message, "api key not valid"), strings.Contains(message, "api_key_invalid"):
		return &Error{Kind: KindAuth, Message: "invalid Gemini API key", Cause: err}
	case strings.Contains(message, "resource_exhausted"), strings.Contains(message, "quota"), strings.Contains(message, "rate limit"):
		return &Error{Kind: KindRateLimit, Message: "Gemini API rate limit exceeded", Cause: err}
	case strings.Contains(message, "not found") && strings.Contains(message, "model"):
		return &Error{Kind: KindModelNotFound, Message: "model not found", Cause: err}
	default:
		return &Error{Kind: KindOther, Message: "Gemini API call failed", Cause: err}
	}
}

// isConnectionError reports whether err stems from the network rather than
// the API itself.
func isConnectionError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
