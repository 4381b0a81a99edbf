package gql

import (
	"fmt"
	"strings"
)

type (
	// ErrorItem is a GraphQL response error entry.
	ErrorItem struct {
		Message string        `json:"message"`
		Path    []interface{} `json:"path,omitempty"`
		// Backend specific error kind (AppSync populates it)
		ErrorType string `json:"errorType,omitempty"`
	}

	// ResponseError is returned when the backend reports GraphQL level errors.
	ResponseError struct {
		Operation string
		Errors    []ErrorItem
	}

	// StatusError is returned for non 2xx HTTP responses.
	StatusError struct {
		Operation  string
		StatusCode int
		Body       string
	}
)

// Error implements the error interface.
func (e *ResponseError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, item := range e.Errors {
		msg := item.Message
		if item.ErrorType != "" {
			msg = fmt.Sprintf("%s (%s)", msg, item.ErrorType)
		}
		msgs = append(msgs, msg)
	}

	return fmt.Sprintf("%s: graphql: %s", e.Operation, strings.Join(msgs, "; "))
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: http status %d: %s", e.Operation, e.StatusCode, e.Body)
}
