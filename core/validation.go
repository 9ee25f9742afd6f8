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


package core

import (
	"fmt"
	"strings"
)

// ValidateKnowledgeRecord validates a KnowledgeRecord according to domain rules.
//
// Validation rules:
//   - At least one question variant, none of them blank
//   - Answer must not be empty
//
// NOT validated (populated by the ingestion pipeline):
//   - NormalizedQuestions, Keywords, Vector (can be empty until processed)
//   - Category (empty defaults to DefaultCategory at the storage boundary)
//   - ID (0 is valid before content hashing)
func ValidateKnowledgeRecord(record *KnowledgeRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidKnowledgeRecord)
	}

	if len(record.Questions) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidKnowledgeRecord, ErrNoQuestions)
	}

	for _, q := range record.Questions {
		if strings.TrimSpace(q) == "" {
			return fmt.Errorf("%w: %w", ErrInvalidKnowledgeRecord, ErrEmptyQuestion)
		}
	}

	if record.Answer == "" {
		return fmt.Errorf("%w: %w", ErrInvalidKnowledgeRecord, ErrEmptyAnswer)
	}

	return nil
}

// ValidateQuery validates a Query according to domain rules.
//
// Validation rules:
//   - Text must not be blank
func ValidateQuery(query *Query) error {
	if query == nil {
		return fmt.Errorf("%w: query is nil", ErrInvalidQuery)
	}

	if strings.TrimSpace(query.Text) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidQuery, ErrEmptyQueryText)
	}

	return nil
}
