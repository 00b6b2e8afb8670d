// Copyright 2025 Finsight Systems
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

// Package advisor wires the storage, AI, retrieval, and orchestration
// layers into one customer-analysis system.
package advisor

import (
	"context"
	"log/slog"

	"github.com/finsight/advisor/ai"
	"github.com/finsight/advisor/ai/openai"
	"github.com/finsight/advisor/customer"
	"github.com/finsight/advisor/ingestion"
	"github.com/finsight/advisor/orchestration"
	"github.com/finsight/advisor/search"
	"github.com/finsight/advisor/storage"
	"github.com/finsight/advisor/storage/badger"
)

// System is the assembled advisor: an open knowledge base, an AI
// provider, and a customer profile connector.
type System struct {
	backend   *badger.Backend
	chunkRepo storage.ChunkRepository
	provider  ai.AIProvider
	connector *customer.Connector
	logger    *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	aiConfig    *ai.Config
	customerDSN string
	inMemory    bool
}

// WithAIConfig sets the AI provider configuration.
func WithAIConfig(config *ai.Config) SystemOption {
	return func(o *systemOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithCustomerDatabase attaches a live PostgreSQL customer store.
// Without it, profiles come from the built-in samples.
func WithCustomerDatabase(dsn string) SystemOption {
	return func(o *systemOptions) {
		o.customerDSN = dsn
	}
}

// WithInMemoryStorage uses an in-memory chunk store instead of a
// persistent one. Intended for tests and experiments.
func WithInMemoryStorage() SystemOption {
	return func(o *systemOptions) {
		o.inMemory = true
	}
}

// NewSystem opens the chunk store at filePath and assembles the system.
func NewSystem(filePath string, opts ...SystemOption) (*System, error) {
	options := &systemOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	chunkRepo, err := badger.NewChunkRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(options.aiConfig)
	if err != nil {
		chunkRepo.Close()
		backend.Close()
		return nil, err
	}

	var connectorOpts []customer.ConnectorOption
	if options.customerDSN != "" {
		store, err := customer.NewPostgresStore(context.Background(), options.customerDSN)
		if err != nil {
			// Fall back to sample profiles; the connector logs the miss
			// per lookup.
			slog.Default().Warn("live customer store unavailable, sample profiles only", "err", err)
		} else {
			connectorOpts = append(connectorOpts, customer.WithLiveStore(store))
		}
	}

	return &System{
		backend:   backend,
		chunkRepo: chunkRepo,
		provider:  provider,
		connector: customer.NewConnector(connectorOpts...),
		logger:    slog.Default(),
	}, nil
}

// Close releases all system resources in dependency order.
func (s *System) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}
	if err := s.connector.Close(); err != nil {
		s.logger.Error("error closing customer connector", "err", err)
	}
	if err := s.chunkRepo.Close(); err != nil {
		s.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// ChunkRepository exposes the policy chunk store.
func (s *System) ChunkRepository() storage.ChunkRepository {
	return s.chunkRepo
}

// NewIngestionPipeline creates a document ingestion pipeline bound to
// this system's store and provider.
func (s *System) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(s.chunkRepo, s.provider, opts...)
}

// NewSearcher creates a hybrid retrieval engine bound to this system's
// store and provider.
func (s *System) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(s.chunkRepo, s.provider, opts...)
}

// NewOrchestrator creates the six-stage analysis orchestrator.
func (s *System) NewOrchestrator(opts ...orchestration.OrchestratorOption) (*orchestration.Orchestrator, error) {
	searcher, err := s.NewSearcher()
	if err != nil {
		return nil, err
	}
	return orchestration.NewOrchestrator(searcher, s.provider, s.connector, opts...)
}
