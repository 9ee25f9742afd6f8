// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package match

import "errors"

var (
	// ErrCandidateSourceRequired is returned when a candidate source is not provided.
	ErrCandidateSourceRequired = errors.New("candidate source required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrInvalidThreshold is returned when an acceptance threshold is outside [0,1].
	ErrInvalidThreshold = errors.New("acceptance threshold must be in [0,1]")

	// ErrInvalidPageSize is returned when the full-scan page size is not positive.
	ErrInvalidPageSize = errors.New("page size must be positive")
)
