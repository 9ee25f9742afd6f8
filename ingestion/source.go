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


package ingestion

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// QAPair is one raw question/answer pair as read from an ingestion source.
type QAPair struct {
	Questions questionList `json:"question"`
	Answer    string       `json:"answer"`
	Category  string       `json:"category,omitempty"`
}

// questionList accepts the question field in any of the shapes ingestion
// sources use: a single string, a comma-joined string of alias phrases, or
// a list of strings. All shapes are canonicalized to a trimmed []string at
// this boundary so the rest of the system sees exactly one representation.
type questionList []string

func (q *questionList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*q = splitPhrases(single)
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		out := make([]string, 0, len(many))
		for _, item := range many {
			out = append(out, splitPhrases(item)...)
		}
		*q = out
		return nil
	}

	return ErrMalformedQuestion
}

// splitPhrases splits comma-joined alias phrases, trimming and dropping empties.
func splitPhrases(s string) []string {
	parts := strings.Split(s, ",")
	phrases := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			phrases = append(phrases, trimmed)
		}
	}
	return phrases
}

// LoadPairs reads a JSON array of question/answer pairs.
// Every pair must carry at least one question and a non-empty answer.
func LoadPairs(r io.Reader) ([]QAPair, error) {
	var pairs []QAPair
	if err := json.NewDecoder(r).Decode(&pairs); err != nil {
		return nil, fmt.Errorf("decoding pairs: %w", err)
	}

	for i, pair := range pairs {
		if len(pair.Questions) == 0 {
			return nil, fmt.Errorf("%w: pair %d has no question", ErrInvalidPair, i)
		}
		if strings.TrimSpace(pair.Answer) == "" {
			return nil, fmt.Errorf("%w: pair %d has no answer", ErrInvalidPair, i)
		}
	}
	return pairs, nil
}
