package mock

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/poiesic/answerit/ai"
)

// mockVectorDim matches the dimensionality of common sentence-embedding models.
const mockVectorDim = 384

// MockEmbedder implements ai.Embedder with deterministic, hash-derived unit
// vectors. Behavior is overridable per test through the function fields, and
// every call is counted so tests can assert which pipeline stages ran.
type MockEmbedder struct {
	// EmbedTextFunc overrides EmbedText when set.
	EmbedTextFunc func(ctx context.Context, text string) ([]float32, error)

	// EmbedTextsFunc overrides EmbedTexts when set.
	EmbedTextsFunc func(ctx context.Context, texts []string) ([][]float32, error)

	callCount int
}

var _ ai.Embedder = (*MockEmbedder)(nil)

// NewMockEmbedder creates a mock embedder with the default hash-derived
// behavior. Returns the concrete type so tests can reach the function fields
// and the call counter.
func NewMockEmbedder() *MockEmbedder {
	return &MockEmbedder{}
}

// EmbedText returns EmbedTextFunc's result when set, otherwise a unit vector
// derived from the text. Identical text always yields the identical vector.
func (m *MockEmbedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	m.callCount++

	if m.EmbedTextFunc != nil {
		return m.EmbedTextFunc(ctx, text)
	}
	return hashVector(text), nil
}

// EmbedTexts embeds a batch, one vector per input in order.
func (m *MockEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	m.callCount++

	if m.EmbedTextsFunc != nil {
		return m.EmbedTextsFunc(ctx, texts)
	}

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = hashVector(text)
	}
	return vectors, nil
}

// CallCount reports how many embedding calls the mock has received, counting
// EmbedText and EmbedTexts alike.
func (m *MockEmbedder) CallCount() int {
	return m.callCount
}

// Reset clears the call count and any injected behavior.
func (m *MockEmbedder) Reset() {
	m.callCount = 0
	m.EmbedTextFunc = nil
	m.EmbedTextsFunc = nil
}

// hashVector expands an FNV-1a hash of the text into a unit vector of
// mockVectorDim components using an xorshift sequence, so distinct texts get
// uncorrelated directions and repeated texts get the same one.
func hashVector(text string) []float32 {
	h := fnv.New64a()
	h.Write([]byte(text))
	state := h.Sum64()
	if state == 0 {
		state = 1
	}

	vector := make([]float32, mockVectorDim)
	var sumSquares float64
	for i := range vector {
		state ^= state << 13
		state ^= state >> 7
		state ^= state << 17
		// Spread components over [-1, 1).
		vector[i] = float32(int64(state%2000)-1000) / 1000.0
		sumSquares += float64(vector[i]) * float64(vector[i])
	}

	if norm := math.Sqrt(sumSquares); norm > 0 {
		for i := range vector {
			vector[i] = float32(float64(vector[i]) / norm)
		}
	}
	return vector
}
