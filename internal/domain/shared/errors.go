// Package shared holds the error type common to every domain package.
package shared

import "errors"

// DomainError is a sentinel domain error identified by a stable code
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// CodeOf returns the code of the first DomainError in err's chain
func CodeOf(err error) (string, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code, true
	}
	return "", false
}

// ErrNotFound is returned when a lookup matches no record
var ErrNotFound = NewDomainError("NOT_FOUND", "Resource not found")
