package core

import (
	"errors"
	"testing"
)

func TestValidateKnowledgeRecord(t *testing.T) {
	tests := []struct {
		name    string
		record  *KnowledgeRecord
		wantErr error
	}{
		{
			name: "valid record",
			record: &KnowledgeRecord{
				Id:        1,
				Questions: []string{"what is your name"},
				Answer:    "I'm answerit.",
			},
			wantErr: nil,
		},
		{
			name: "valid record with empty vector",
			record: &KnowledgeRecord{
				Id:        1,
				Questions: []string{"hello"},
				Answer:    "Hi!",
				Vector:    nil,
			},
			wantErr: nil,
		},
		{
			name: "valid record with empty category",
			record: &KnowledgeRecord{
				Id:        1,
				Questions: []string{"hello"},
				Answer:    "Hi!",
				Category:  "",
			},
			wantErr: nil,
		},
		{
			name: "valid record with comma-joined aliases",
			record: &KnowledgeRecord{
				Id:        1,
				Questions: []string{"xin chào, chào bạn"},
				Answer:    "Hello!",
			},
			wantErr: nil,
		},
		{
			name: "valid record with ID 0",
			record: &KnowledgeRecord{
				Id:        0,
				Questions: []string{"hello"},
				Answer:    "Hi!",
			},
			wantErr: nil,
		},
		{
			name:    "nil record",
			record:  nil,
			wantErr: ErrInvalidKnowledgeRecord,
		},
		{
			name: "no question variants",
			record: &KnowledgeRecord{
				Id:        1,
				Questions: nil,
				Answer:    "Hi!",
			},
			wantErr: ErrNoQuestions,
		},
		{
			name: "blank question variant",
			record: &KnowledgeRecord{
				Id:        1,
				Questions: []string{"hello", "   "},
				Answer:    "Hi!",
			},
			wantErr: ErrEmptyQuestion,
		},
		{
			name: "empty answer",
			record: &KnowledgeRecord{
				Id:        1,
				Questions: []string{"hello"},
				Answer:    "",
			},
			wantErr: ErrEmptyAnswer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKnowledgeRecord(tt.record)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateKnowledgeRecord() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateKnowledgeRecord() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateKnowledgeRecord() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   *Query
		wantErr error
	}{
		{
			name:    "valid query",
			query:   &Query{Text: "xin chào"},
			wantErr: nil,
		},
		{
			name:    "valid query with user and language",
			query:   &Query{Text: "hello", UserID: "u-1", Language: "en"},
			wantErr: nil,
		},
		{
			name:    "nil query",
			query:   nil,
			wantErr: ErrInvalidQuery,
		},
		{
			name:    "empty text",
			query:   &Query{Text: ""},
			wantErr: ErrEmptyQueryText,
		},
		{
			name:    "whitespace-only text",
			query:   &Query{Text: "   \t  "},
			wantErr: ErrEmptyQueryText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuery(tt.query)

			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateQuery() error = %v, want nil", err)
				}
				return
			}

			if err == nil {
				t.Errorf("ValidateQuery() error = nil, want %v", tt.wantErr)
				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateQuery() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
