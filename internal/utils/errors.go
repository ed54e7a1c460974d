package utils

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrorCodeValidationError     ErrorCode = "VALIDATION_ERROR"
	ErrorCodeInvalidURL          ErrorCode = "INVALID_URL"
	ErrorCodeUnsupportedPlatform ErrorCode = "UNSUPPORTED_PLATFORM"
	ErrorCodeUnsupportedContent  ErrorCode = "UNSUPPORTED_CONTENT"
	ErrorCodeToolUnavailable     ErrorCode = "TOOL_UNAVAILABLE"
	ErrorCodeRateLimited         ErrorCode = "RATE_LIMITED"
	ErrorCodeBotDetected         ErrorCode = "BOT_DETECTED"
	ErrorCodeProcessFailed       ErrorCode = "PROCESS_FAILED"
	ErrorCodeOutputNotFound      ErrorCode = "OUTPUT_NOT_FOUND"
	ErrorCodeTimeout             ErrorCode = "TIMEOUT"
	ErrorCodeParseError          ErrorCode = "PARSE_ERROR"
	ErrorCodeRateLimitExceeded   ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrorCodeInternalError       ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func NewError(code ErrorCode, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    make(map[string]interface{}),
	}
}

func NewErrorWithDetails(code ErrorCode, message string, statusCode int, details map[string]interface{}) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Details:    details,
	}
}

// Input errors (400)

func NewValidationError(message string, details map[string]interface{}) *AppError {
	return NewErrorWithDetails(ErrorCodeValidationError, message, http.StatusBadRequest, details)
}

func NewInvalidURLError(message, link string) *AppError {
	return NewErrorWithDetails(
		ErrorCodeInvalidURL,
		message,
		http.StatusBadRequest,
		map[string]interface{}{
			"provided": link,
		},
	)
}

func NewUnsupportedPlatformError() *AppError {
	return NewError(
		ErrorCodeUnsupportedPlatform,
		"Unsupported platform. Please use YouTube, Instagram, or Spotify URLs.",
		http.StatusBadRequest,
	)
}

func NewUnsupportedContentError(message string) *AppError {
	return NewError(ErrorCodeUnsupportedContent, message, http.StatusBadRequest)
}

// Processing errors (500)

func NewToolUnavailableError(message string) *AppError {
	return NewError(ErrorCodeToolUnavailable, message, http.StatusInternalServerError)
}

func NewRateLimitedError(message string) *AppError {
	return NewError(ErrorCodeRateLimited, message, http.StatusInternalServerError)
}

func NewBotDetectedError(message string) *AppError {
	return NewError(ErrorCodeBotDetected, message, http.StatusInternalServerError)
}

func NewProcessFailedError(message string) *AppError {
	return NewError(ErrorCodeProcessFailed, message, http.StatusInternalServerError)
}

func NewOutputNotFoundError(message string) *AppError {
	return NewError(ErrorCodeOutputNotFound, message, http.StatusInternalServerError)
}

func NewTimeoutError(message string) *AppError {
	return NewError(ErrorCodeTimeout, message, http.StatusInternalServerError)
}

func NewParseError(message string) *AppError {
	return NewError(ErrorCodeParseError, message, http.StatusInternalServerError)
}

// NewRateLimitError is returned by the inbound limiter, not by upstream tools.
func NewRateLimitError() *AppError {
	return NewError(
		ErrorCodeRateLimitExceeded,
		"Too many requests",
		http.StatusTooManyRequests,
	)
}

// NewInternalError keeps the original message so unexpected failures stay debuggable.
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewError(ErrorCodeInternalError, message, http.StatusInternalServerError)
}
