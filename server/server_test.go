package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/poiesic/answerit/ai/mock"
	"github.com/poiesic/answerit/analytics"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/match"
	"github.com/poiesic/answerit/storage"
	"github.com/poiesic/answerit/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T, opts ...Option) (*Server, storage.KnowledgeRepository) {
	t.Helper()

	knowledgeRepo, eventRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		eventRepo.Close()
		knowledgeRepo.Close()
		backend.Close()
	})

	_, err = knowledgeRepo.AddRecords(context.Background(), &core.KnowledgeRecord{
		Questions: []string{"xin chào, chào bạn"},
		Keywords:  match.Tokenize("xin chào chào bạn"),
		Answer:    "Hello!",
		Category:  "greeting",
	})
	require.NoError(t, err)

	recorder, err := analytics.NewRecorder(eventRepo)
	require.NoError(t, err)

	pipeline, err := match.NewPipeline(knowledgeRepo, mock.NewMockProvider(),
		match.WithQueryLog(recorder), match.WithPageDelay(0))
	require.NoError(t, err)

	srv, err := NewServer(pipeline, &Config{Addr: ":0", AllowOrigins: []string{"*"}},
		append([]Option{WithRecorder(recorder)}, opts...)...)
	require.NoError(t, err)

	return srv, knowledgeRepo
}

func doRequest(t *testing.T, srv *Server, req *http.Request) (*httptest.ResponseRecorder, askResponse) {
	t.Helper()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	var body askResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestNewServer_RequiresPipeline(t *testing.T) {
	_, err := NewServer(nil, nil)
	assert.Equal(t, ErrPipelineRequired, err)
}

func TestHealth(t *testing.T) {
	srv, _ := testServer(t)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestAsk_QueryString(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ask?q=Xin+Ch%C3%A0o", nil)
	rec, body := doRequest(t, srv, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "Hello!", body.Response)
	assert.Equal(t, "exact", body.MatchType)
	assert.Equal(t, 1.0, body.Confidence)
	assert.Equal(t, "greeting", body.Category)
	assert.Equal(t, "xin chào", body.MatchedQuestion)
	assert.False(t, body.Timestamp.IsZero())
}

func TestAsk_JSONBody(t *testing.T) {
	srv, _ := testServer(t)

	payload := `{"query": "xin chào", "user_id": "u1", "language": "vi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/ask", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec, body := doRequest(t, srv, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "Hello!", body.Response)
}

func TestAsk_EmptyQuery(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ask", nil)
	rec, body := doRequest(t, srv, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, body.Success)
	assert.Equal(t, emptyQueryResponse, body.Response)
	assert.Equal(t, 0.0, body.Confidence)
	assert.Equal(t, "error", body.Category)
}

func TestAsk_NoMatch(t *testing.T) {
	srv, _ := testServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/ask?q=completely+unrelated+question", nil)
	rec, body := doRequest(t, srv, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, body.Success)
	assert.Equal(t, unknownResponse, body.Response)
}

func TestRecentEvents(t *testing.T) {
	srv, _ := testServer(t)

	// Generate one event.
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ask?q=xin+chao", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/recent?limit=10", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/recent?limit=-1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
