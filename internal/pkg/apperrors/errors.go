package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so transports can map it to a status code and
// clients can tell which pipeline stage broke.
type Kind string

const (
	KindInput         Kind = "input"
	KindAuth          Kind = "auth"
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindTranscription Kind = "transcription"
	KindGeneration    Kind = "generation"
	KindSynthesis     Kind = "synthesis"
	KindIdentitySync  Kind = "identity_sync"
	KindInternal      Kind = "internal"
)

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the classification from an error chain, defaulting to
// KindInternal for anything unclassified.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
