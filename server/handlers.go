package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/poiesic/answerit/core"
)

// emptyQueryResponse is the fixed answer for requests without a question.
const emptyQueryResponse = "Please enter a question."

// unknownResponse is the fallback answer when no strategy found a match.
const unknownResponse = "Sorry, I don't have an answer for that yet."

type askRequest struct {
	Query    string `json:"query" query:"q"`
	UserID   string `json:"user_id" query:"user_id"`
	Language string `json:"language" query:"language"`
}

type askResponse struct {
	Success         bool      `json:"success"`
	Response        string    `json:"response"`
	Confidence      float64   `json:"confidence"`
	Similarity      float64   `json:"similarity"`
	Category        string    `json:"category,omitempty"`
	MatchedQuestion string    `json:"matched_question,omitempty"`
	MatchType       string    `json:"match_type"`
	Timestamp       time.Time `json:"timestamp"`
}

func (s *Server) handleAsk(c echo.Context) error {
	var req askRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, askResponse{
			Response:  "invalid request",
			MatchType: string(core.MatchTypeError),
			Timestamp: time.Now().UTC(),
		})
	}

	query := &core.Query{
		Text:     req.Query,
		UserID:   req.UserID,
		Language: req.Language,
	}
	result := s.pipeline.Match(c.Request().Context(), query)

	response := askResponse{
		Success:         result.Found,
		Response:        result.Answer,
		Confidence:      result.Confidence,
		Similarity:      result.Similarity,
		Category:        result.Category,
		MatchedQuestion: result.MatchedQuestion,
		MatchType:       string(result.Type),
		Timestamp:       time.Now().UTC(),
	}
	if !result.Found {
		if strings.TrimSpace(req.Query) == "" {
			response.Response = emptyQueryResponse
		} else {
			response.Response = unknownResponse
		}
	}

	return c.JSON(http.StatusOK, response)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRecentEvents(c echo.Context) error {
	limit := 50
	if v := c.QueryParam("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "limit must be a positive integer"})
		}
		limit = parsed
	}

	events, err := s.recorder.Recent(c.Request().Context(), limit)
	if err != nil {
		s.logger.Error("failed to read recent events", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to read events"})
	}
	return c.JSON(http.StatusOK, events)
}
