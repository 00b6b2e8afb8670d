package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/finsight/advisor/ai"
	"github.com/finsight/advisor/core"
	"github.com/finsight/advisor/storage"
)

// embedBatchSize bounds the number of texts sent per embedding request.
const embedBatchSize = 16

// Pipeline ingests policy documents into topic-scoped chunk collections.
// It chunks documents, skips chunks that are already stored, embeds the
// rest concurrently, and persists them.
type Pipeline struct {
	chunks    storage.ChunkRepository
	embedder  ai.Embedder
	pool      *ants.Pool
	chunkSize int
	overlap   int
	logger    *slog.Logger

	mu       sync.Mutex
	topicMus map[string]*sync.Mutex
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithChunkSize sets the target chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return fmt.Errorf("chunk size must be positive, got %d", size)
		}
		p.chunkSize = size
		return nil
	}
}

// WithChunkOverlap sets the overlap carried between adjacent chunks.
func WithChunkOverlap(overlap int) Option {
	return func(p *Pipeline) error {
		if overlap < 0 {
			return fmt.Errorf("chunk overlap must be non-negative, got %d", overlap)
		}
		p.overlap = overlap
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(chunks storage.ChunkRepository, provider ai.AIProvider, opts ...Option) (*Pipeline, error) {
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		chunks:    chunks,
		embedder:  provider.Embedder(),
		pool:      pool,
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
		logger:    slog.Default(),
		topicMus:  make(map[string]*sync.Mutex),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// IngestDocument chunks, embeds, and stores one document into a topic
// collection. Chunks already present in the collection are skipped, so
// re-ingesting an unchanged document inserts nothing.
// Returns the number of chunks inserted.
func (p *Pipeline) IngestDocument(ctx context.Context, topic string, doc core.PolicyDocument) (int, error) {
	if doc.Text == "" {
		return 0, fmt.Errorf("%w: %s", ErrEmptyDocument, doc.ID)
	}
	if topic == "" {
		return 0, core.ErrEmptyTopic
	}

	// One writer per topic collection at a time. Keeps the
	// exists-check-then-insert sequence race free.
	topicMu := p.topicMutex(topic)
	topicMu.Lock()
	defer topicMu.Unlock()

	chunks := SplitDocument(doc, topic, p.chunkSize, p.overlap)

	var fresh []*core.PolicyChunk
	for _, chunk := range chunks {
		exists, err := p.chunks.ChunkExists(ctx, chunk.Id)
		if err != nil {
			return 0, err
		}
		if !exists {
			fresh = append(fresh, chunk)
		}
	}

	if len(fresh) == 0 {
		p.logger.Info("document already ingested",
			"document", doc.ID,
			"topic", topic,
			"chunks", len(chunks))
		return 0, nil
	}

	if err := p.embedChunks(ctx, fresh); err != nil {
		return 0, err
	}

	inserted, err := p.chunks.AddChunks(ctx, fresh...)
	if err != nil {
		return 0, err
	}

	p.logger.Info("document ingested",
		"document", doc.ID,
		"topic", topic,
		"chunks", len(chunks),
		"inserted", inserted)
	return inserted, nil
}

// IngestDir loads every supported document in a directory, infers each
// document's topic from its file name, and ingests it. Documents whose
// topic cannot be inferred are skipped with a warning.
// Returns the total number of chunks inserted.
func (p *Pipeline) IngestDir(ctx context.Context, dir string) (int, error) {
	docs, err := LoadDir(dir)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, doc := range docs {
		topic, ok := DetermineTopic(doc.ID)
		if !ok {
			p.logger.Warn("cannot determine topic, skipping document", "document", doc.ID)
			continue
		}
		inserted, err := p.IngestDocument(ctx, topic, doc)
		if err != nil {
			return total, err
		}
		total += inserted
	}
	return total, nil
}

// embedChunks computes embeddings for all chunks, batching requests and
// running batches concurrently on the worker pool.
func (p *Pipeline) embedChunks(ctx context.Context, chunks []*core.PolicyChunk) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()

			texts := make([]string, len(batch))
			for i, chunk := range batch {
				texts[i] = chunk.Text
			}

			vectors, err := p.embedder.EmbedTexts(ctx, texts)
			if err == nil && len(vectors) != len(batch) {
				err = fmt.Errorf("embedding result mismatch: expected %d, received %d", len(batch), len(vectors))
			}
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}

			for i := range batch {
				batch[i].Vector = vectors[i]
			}
		})
		if err != nil {
			wg.Done()
			return err
		}
	}

	wg.Wait()
	return firstErr
}

func (p *Pipeline) topicMutex(topic string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := p.topicMus[topic]; ok {
		return m
	}
	m := &sync.Mutex{}
	p.topicMus[topic] = m
	return m
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
