package analytics

import "errors"

var (
	// ErrEventRepositoryRequired is returned when an event repository is not provided.
	ErrEventRepositoryRequired = errors.New("event repository required")

	// ErrRecorderRequired is returned when an inner recorder is not provided.
	ErrRecorderRequired = errors.New("recorder required")
)
