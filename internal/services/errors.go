package services

import (
	"errors"

	"gorm.io/gorm"
)

// ValidationError marks a missing or malformed input field (HTTP 400)
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError marks an absent entity, or one hidden by the visibility
// filter (HTTP 404)
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

// ForbiddenError marks a failed ownership, membership or mention-block check
// (HTTP 403)
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string { return e.Msg }

// ConflictError marks a duplicate mutation such as a repeated like (HTTP 400
// with a specific message)
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string { return e.Msg }

// StoreError wraps an underlying relational failure (HTTP 500, generic
// message to the client)
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return "store error: " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

// notFoundOrStore converts a gorm lookup error into the service taxonomy
func notFoundOrStore(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Msg: msg}
	}
	return &StoreError{Err: err}
}
