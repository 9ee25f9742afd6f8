package storage

import (
	"context"

	"github.com/poiesic/answerit/core"
)

// CandidateSource supplies knowledge records to the matching pipeline.
// The pipeline treats every retrieval mode as a view over the same record
// set: a keyword or category retrieval must never surface a record that a
// full retrieval would not.
// Implementations must be thread-safe and support concurrent access.
type CandidateSource interface {
	// GetAllRecords retrieves every knowledge record.
	GetAllRecords(ctx context.Context) ([]*core.KnowledgeRecord, error)

	// GetRecordsByKeywords retrieves records whose keyword set intersects
	// the given tokens. Returns an empty slice when nothing intersects.
	GetRecordsByKeywords(ctx context.Context, tokens []string) ([]*core.KnowledgeRecord, error)

	// GetRecordsByCategory retrieves records carrying the given category label.
	GetRecordsByCategory(ctx context.Context, category string) ([]*core.KnowledgeRecord, error)

	// GetRecordPage retrieves up to limit records starting after cursor.
	// An empty cursor starts from the beginning. The returned cursor resumes
	// the scan on the next call and is empty once no records remain.
	GetRecordPage(ctx context.Context, cursor string, limit int) ([]*core.KnowledgeRecord, string, error)
}

// KnowledgeRepository provides the full knowledge record lifecycle.
// Records are written by ingestion and read-only at query time.
type KnowledgeRepository interface {
	CandidateSource

	// AddRecords adds one or more knowledge records to storage.
	// Record IDs are content-based (ContentID), so re-adding an identical
	// record overwrites it in place. Sets InsertedAt if not already set and
	// defaults an empty Category to core.DefaultCategory.
	// Returns the records with IDs and timestamps populated.
	AddRecords(ctx context.Context, records ...*core.KnowledgeRecord) ([]*core.KnowledgeRecord, error)

	// UpdateRecords updates existing knowledge records.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any record doesn't exist.
	UpdateRecords(ctx context.Context, records ...*core.KnowledgeRecord) ([]*core.KnowledgeRecord, error)

	// DeleteRecords removes knowledge records by their IDs.
	// Also removes associated keyword and category indices.
	// Returns ErrNotFound if any record doesn't exist.
	DeleteRecords(ctx context.Context, ids ...core.ID) error

	// GetRecord retrieves a single knowledge record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetRecord(ctx context.Context, id core.ID) (*core.KnowledgeRecord, error)

	// GetRecords retrieves multiple knowledge records by their IDs.
	// Returns only the records that exist (no error for missing records).
	GetRecords(ctx context.Context, ids ...core.ID) ([]*core.KnowledgeRecord, error)

	// Close closes the repository and releases resources.
	Close() error
}

// EventRepository persists query analytics events.
type EventRepository interface {
	// AddEvent appends one query event.
	AddEvent(ctx context.Context, event *core.QueryEvent) error

	// GetRecentEvents retrieves the N most recent events, newest first.
	GetRecentEvents(ctx context.Context, limit int) ([]*core.QueryEvent, error)

	// Close closes the repository and releases resources.
	Close() error
}
