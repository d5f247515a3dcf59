// Package apperr defines the error taxonomy shared by all services.
// Handlers map these to HTTP status codes with errors.Is.
package apperr

import "errors"

var (
	// ErrInvalidRequest means a required field is missing or malformed.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInvalidStatus means a dose status outside taken/missed/skipped.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidSymptom means the symptom text failed validation.
	ErrInvalidSymptom = errors.New("invalid symptom description")

	// ErrNotFound means the addressed entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable means the backing store failed to read or write.
	// The whole operation is aborted; partial results are never returned.
	ErrStoreUnavailable = errors.New("store unavailable")
)
