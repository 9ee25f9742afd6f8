package server

import "errors"

var (
	// ErrPipelineRequired is returned when a match pipeline is not provided.
	ErrPipelineRequired = errors.New("match pipeline required")
)
