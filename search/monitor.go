package search

import (
	"log/slog"

	"github.com/finsight/advisor/core"
)

// QueryMonitor receives callbacks at each stage of a retrieval.
// Useful for debugging ranking behavior.
type QueryMonitor interface {
	Start(topic, query string)
	AfterSemanticSearch(candidates []*core.RetrievedChunk)
	Finish(results []*core.RetrievedChunk)
}

type noopMonitor struct{}

func (noopMonitor) Start(topic, query string)                             {}
func (noopMonitor) AfterSemanticSearch(candidates []*core.RetrievedChunk) {}
func (noopMonitor) Finish(results []*core.RetrievedChunk)                 {}

// LoggingMonitor logs each retrieval stage at debug level.
type LoggingMonitor struct {
	Logger *slog.Logger
}

func (m *LoggingMonitor) Start(topic, query string) {
	m.Logger.Debug("retrieval started", "topic", topic, "query", query)
}

func (m *LoggingMonitor) AfterSemanticSearch(candidates []*core.RetrievedChunk) {
	m.Logger.Debug("semantic candidates retrieved", "count", len(candidates))
}

func (m *LoggingMonitor) Finish(results []*core.RetrievedChunk) {
	for i, result := range results {
		m.Logger.Debug("ranked result",
			"rank", i,
			"document", result.Chunk.DocumentID,
			"ordinal", result.Chunk.Ordinal,
			"score", result.Score,
			"semantic", result.Semantic,
			"keyword", result.Keyword)
	}
}
