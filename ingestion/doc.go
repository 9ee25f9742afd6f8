// Package ingestion loads question/answer pairs into the knowledge base.
//
// The Pipeline type manages the ingestion workflow for knowledge records:
//   - Normalizing raw pair shapes into canonical question lists
//   - Deriving normalized question variants and keyword sets
//   - Generating embeddings concurrently on a worker pool, with retry
//   - Storing the finished records
//
// Embedding failures are logged but do not fail ingestion: records without a
// vector are still reachable through the exact and lexical strategies.
package ingestion
