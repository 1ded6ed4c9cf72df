package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error (unreachable, connection refused, DNS)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates the per-call time budget was exceeded
	ErrTypeTimeout
	// ErrTypeAPI indicates a non-success HTTP status with a server message
	ErrTypeAPI
	// ErrTypeNotFound indicates the requested record does not exist
	ErrTypeNotFound
	// ErrTypeValidation indicates a missing navigation precondition
	// (e.g., no selected record on detail entry)
	ErrTypeValidation
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeAPI:
		return "API Error"
	case ErrTypeNotFound:
		return "Not Found"
	case ErrTypeValidation:
		return "Validation Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// ClientError represents an error that occurred while talking to the
// records API. Every failure surfaces to the calling view as status text;
// no error is fatal to the process.
type ClientError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Err        error     // Underlying error (if any)
}

// Error implements the error interface
func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ClientError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes a transport-level error and returns the
// appropriate typed error. Deadline and timeout errors map to Timeout;
// everything else is a NetworkError.
func ClassifyNetworkError(err error) *ClientError {
	if err == nil {
		return nil
	}

	// Unwrap url.Error to classify the underlying cause
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return &ClientError{
				Type:    ErrTypeTimeout,
				Message: "リクエストがタイムアウトしました",
				Err:     err,
			}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return &ClientError{
			Type:    ErrTypeTimeout,
			Message: "リクエストがタイムアウトしました",
			Err:     err,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &ClientError{
			Type:    ErrTypeNetwork,
			Message: fmt.Sprintf("ホスト名を解決できません (%s)", dnsErr.Name),
			Err:     err,
		}
	}

	return &ClientError{
		Type:    ErrTypeNetwork,
		Message: "サーバーに接続できません",
		Err:     err,
	}
}

// NewNetworkError creates a network-level error with automatic classification
func NewNetworkError(message string, err error) *ClientError {
	classified := ClassifyNetworkError(err)
	if classified != nil {
		if message != "" {
			classified.Message = message
		}
		return classified
	}
	return &ClientError{
		Type:    ErrTypeNetwork,
		Message: message,
		Err:     err,
	}
}

// NewAPIError creates an error for a non-success HTTP status. The message
// is the server-supplied one when present.
func NewAPIError(statusCode int, message string) *ClientError {
	if message == "" {
		message = fmt.Sprintf("サーバーがエラーを返しました (HTTP %d)", statusCode)
	}
	return &ClientError{
		Type:       ErrTypeAPI,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewNotFoundError creates a missing-record error
func NewNotFoundError(message string) *ClientError {
	return &ClientError{
		Type:       ErrTypeNotFound,
		Message:    message,
		StatusCode: 404,
	}
}

// NewValidationError creates a precondition error
func NewValidationError(message string) *ClientError {
	return &ClientError{
		Type:    ErrTypeValidation,
		Message: message,
	}
}

// IsNetworkError checks if an error is a network error
func IsNetworkError(err error) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type == ErrTypeNetwork
	}
	return false
}

// IsTimeout checks if an error is a timeout
func IsTimeout(err error) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type == ErrTypeTimeout
	}
	return false
}

// IsAPIError checks if an error is an API error
func IsAPIError(err error) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type == ErrTypeAPI
	}
	return false
}

// IsNotFound checks if an error is a missing-record error
func IsNotFound(err error) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type == ErrTypeNotFound
	}
	return false
}

// IsValidationError checks if an error is a precondition error
func IsValidationError(err error) bool {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type == ErrTypeValidation
	}
	return false
}

// ShortMessage returns a concise, operator-facing status line for an error.
func ShortMessage(err error) string {
	var ce *ClientError
	if !errors.As(err, &ce) {
		return err.Error()
	}

	switch ce.Type {
	case ErrTypeTimeout:
		return "タイムアウト: サーバーが応答しません。"
	case ErrTypeNetwork:
		return fmt.Sprintf("通信エラー: %s", ce.Message)
	case ErrTypeAPI:
		return fmt.Sprintf("APIエラー: %s", ce.Message)
	case ErrTypeNotFound:
		return ce.Message
	case ErrTypeValidation:
		return ce.Message
	default:
		return ce.Message
	}
}
