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


package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/poiesic/answerit/analytics"
	"github.com/poiesic/answerit/match"
)

// Server serves the matching pipeline over HTTP.
type Server struct {
	echo     *echo.Echo
	pipeline *match.Pipeline
	recorder *analytics.Recorder
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithRecorder wires the analytics recorder, enabling the recent-events route.
func WithRecorder(recorder *analytics.Recorder) Option {
	return func(s *Server) error {
		s.recorder = recorder
		return nil
	}
}

// NewServer creates an HTTP server over the given pipeline.
func NewServer(pipeline *match.Pipeline, cfg *Config, opts ...Option) (*Server, error) {
	if pipeline == nil {
		return nil, ErrPipelineRequired
	}
	if cfg == nil {
		cfg = LoadConfig()
	}

	s := &Server{
		pipeline: pipeline,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
	}))

	e.GET("/health", s.handleHealth)
	e.GET("/api/ask", s.handleAsk)
	e.POST("/api/ask", s.handleAsk)
	if s.recorder != nil {
		e.GET("/api/analytics/recent", s.handleRecentEvents)
	}

	s.echo = e
	return s, nil
}

// Start listens on addr until Shutdown is called or the listener fails.
func (s *Server) Start(addr string) error {
	s.logger.Info("starting HTTP server", "addr", addr)
	return s.echo.Start(addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP implements http.Handler, mainly for tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
