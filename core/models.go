package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// DefaultCategory is assigned to knowledge records that carry no category label.
const DefaultCategory = "general"

// KnowledgeRecord is a single question/answer entry in the knowledge base.
// A record may list several question variants; each variant may itself pack
// multiple alias phrases joined by commas. Records are created by the
// ingestion pipeline and are immutable at query time.
type KnowledgeRecord struct {
	Id                  ID
	Questions           []string // Question variants as ingested
	NormalizedQuestions []string // Normalized variants (populated by ingestion)
	Keywords            []string // Token set over all variants (populated by ingestion)
	Answer              string
	Category            string
	Vector              []float32 // Embedding of the primary variant (populated by ingestion)
	InsertedAt          time.Time
	UpdatedAt           time.Time
}

// ContentID derives the deterministic record ID from the question variants
// and the answer, so re-ingesting identical pairs is idempotent.
func (r *KnowledgeRecord) ContentID() ID {
	return IDFromContent(strings.Join(r.Questions, "|") + "=>" + r.Answer)
}

// Query is one user question. Transient, one per request.
type Query struct {
	Text     string
	UserID   string
	Language string
}

// MatchType tags how (or whether) a query matched the knowledge base.
type MatchType string

const (
	// MatchTypeExact is a string-equality match after normalization.
	MatchTypeExact MatchType = "exact"
	// MatchTypeSimilarity is a lexical (Jaccard) match above threshold.
	MatchTypeSimilarity MatchType = "similarity"
	// MatchTypeSemantic is an embedding (cosine) match above threshold.
	MatchTypeSemantic MatchType = "semantic"
	// MatchTypeInsufficient is a lexical best match below threshold.
	MatchTypeInsufficient MatchType = "insufficient"
	// MatchTypeInsufficientSemantic is a semantic best match below threshold.
	MatchTypeInsufficientSemantic MatchType = "insufficient_semantic"
	// MatchTypeNone means no candidate scored at all.
	MatchTypeNone MatchType = "none"
	// MatchTypeError means a stage or the whole pipeline degraded on failure.
	MatchTypeError MatchType = "error"
)

// MatchResult is the outcome of matching one query. Constructed fresh per
// query, never persisted.
//
// Invariant: Confidence is a monotonic, banded function of Similarity and
// never exceeds it below the banding thresholds. Exact matches always carry
// Similarity == Confidence == 1.0.
type MatchResult struct {
	Found           bool
	Answer          string
	Category        string
	MatchedQuestion string
	RecordId        ID
	Similarity      float64
	Confidence      float64
	Type            MatchType
}

// QueryEvent is one analytics record of a match outcome.
type QueryEvent struct {
	Id         ID
	Query      string
	UserID     string
	Language   string
	Found      bool
	Type       MatchType
	Similarity float64
	Confidence float64
	Category   string
	RecordId   ID
	Timestamp  time.Time
}
