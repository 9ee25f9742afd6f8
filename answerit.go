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


package answerit

import (
	"log/slog"

	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/ai/openai"
	"github.com/poiesic/answerit/analytics"
	"github.com/poiesic/answerit/ingestion"
	"github.com/poiesic/answerit/match"
	"github.com/poiesic/answerit/storage"
	"github.com/poiesic/answerit/storage/badger"
)

// Service wires the storage backend, AI provider and analytics together and
// hands out matching and ingestion pipelines over them.
type Service struct {
	backend       *badger.Backend
	knowledgeRepo storage.KnowledgeRepository
	eventRepo     storage.EventRepository
	provider      ai.AIProvider
	recorder      *analytics.Recorder
	asyncLog      *analytics.AsyncRecorder
	logger        *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	aiConfig *ai.Config
	inMemory bool
}

// WithAIConfig sets the AI provider configuration.
// Default is ai.DefaultConfig().
func WithAIConfig(config *ai.Config) ServiceOption {
	return func(o *serviceOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithInMemoryStorage keeps all data in memory. Intended for tests and
// one-shot CLI runs.
func WithInMemoryStorage() ServiceOption {
	return func(o *serviceOptions) {
		o.inMemory = true
	}
}

// NewService opens the knowledge base at filePath and wires up the service.
func NewService(filePath string, opts ...ServiceOption) (*Service, error) {
	options := &serviceOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	knowledgeRepo, err := badger.NewKnowledgeRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	eventRepo, err := badger.NewEventRepository(backend)
	if err != nil {
		knowledgeRepo.Close()
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		eventRepo.Close()
		knowledgeRepo.Close()
		backend.Close()
		return nil, err
	}

	recorder, err := analytics.NewRecorder(eventRepo)
	if err != nil {
		provider.Close()
		eventRepo.Close()
		knowledgeRepo.Close()
		backend.Close()
		return nil, err
	}

	asyncLog, err := analytics.NewAsyncRecorder(recorder)
	if err != nil {
		provider.Close()
		eventRepo.Close()
		knowledgeRepo.Close()
		backend.Close()
		return nil, err
	}

	return &Service{
		backend:       backend,
		knowledgeRepo: knowledgeRepo,
		eventRepo:     eventRepo,
		provider:      provider,
		recorder:      recorder,
		asyncLog:      asyncLog,
		logger:        slog.Default(),
	}, nil
}

// Close releases every resource the service holds.
func (s *Service) Close() error {
	s.asyncLog.Release()

	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	if err := s.eventRepo.Close(); err != nil {
		s.logger.Error("error closing event repository", "err", err)
		return err
	}
	if err := s.knowledgeRepo.Close(); err != nil {
		s.logger.Error("error closing knowledge repository", "err", err)
		return err
	}

	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// KnowledgeRepository exposes the knowledge record store.
func (s *Service) KnowledgeRepository() storage.KnowledgeRepository {
	return s.knowledgeRepo
}

// Recorder exposes the analytics recorder for reading recent events.
func (s *Service) Recorder() *analytics.Recorder {
	return s.recorder
}

// NewMatchPipeline builds a matching pipeline over the service's knowledge
// base with fire-and-forget analytics logging wired in.
func (s *Service) NewMatchPipeline(opts ...match.Option) (*match.Pipeline, error) {
	withLog := append([]match.Option{match.WithQueryLog(s.asyncLog)}, opts...)
	return match.NewPipeline(s.knowledgeRepo, s.provider, withLog...)
}

// NewIngestionPipeline builds an ingestion pipeline over the service's
// knowledge base.
func (s *Service) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(s.knowledgeRepo, s.provider, opts...)
}
