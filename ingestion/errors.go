package ingestion

import "errors"

var (
	// ErrKnowledgeRepositoryRequired is returned when a knowledge repository is not provided.
	ErrKnowledgeRepositoryRequired = errors.New("knowledge repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrInvalidMaxAttempts is returned when a retry is configured with no attempts.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrInvalidPair is returned when a question/answer pair is missing its
	// question or answer.
	ErrInvalidPair = errors.New("invalid question/answer pair")

	// ErrMalformedQuestion is returned when a question field is neither a
	// string nor a list of strings.
	ErrMalformedQuestion = errors.New("question must be a string or a list of strings")
)
