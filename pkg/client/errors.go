package client

import (
	"fmt"
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents transport and timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents a response body that is not the expected JSON.
	ErrorClassDecode ErrorClass = "decode"
)

// APIError represents a failed results API request with additional context.
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("results API %s error (status %d): %s: %v",
			e.ErrorClass, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("results API %s error (status %d): %s",
		e.ErrorClass, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// classifyStatus maps an HTTP status to an error class. 2xx statuses are not
// errors and yield "".
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return ""
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ErrorClassClient
	}
}
