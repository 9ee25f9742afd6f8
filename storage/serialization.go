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


package storage

import (
	"encoding/json"
	"fmt"

	"github.com/poiesic/answerit/core"
)

// MarshalKnowledgeRecord serializes a KnowledgeRecord to bytes.
func MarshalKnowledgeRecord(record *core.KnowledgeRecord) ([]byte, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalKnowledgeRecord deserializes a KnowledgeRecord from bytes.
func UnmarshalKnowledgeRecord(data []byte) (*core.KnowledgeRecord, error) {
	var record core.KnowledgeRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &record, nil
}

// MarshalQueryEvent serializes a QueryEvent to bytes.
func MarshalQueryEvent(event *core.QueryEvent) ([]byte, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return data, nil
}

// UnmarshalQueryEvent deserializes a QueryEvent from bytes.
func UnmarshalQueryEvent(data []byte) (*core.QueryEvent, error) {
	var event core.QueryEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &event, nil
}
