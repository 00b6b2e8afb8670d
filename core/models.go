package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// Chunk IDs are generated from content so identical input produces identical IDs.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// IDFromChunk generates the identity of a policy chunk from its source
// document and ordinal position. Re-ingesting the same document yields the
// same IDs, which is what makes ingestion idempotent.
func IDFromChunk(documentID string, ordinal int) ID {
	return IDFromContent(fmt.Sprintf("%s#%d", documentID, ordinal))
}

// Provenance marks whether data was sourced from a live backing store or
// substituted from fixed sample records.
type Provenance string

const (
	// ProvenanceLive indicates data fetched from the live customer store.
	ProvenanceLive Provenance = "live"
	// ProvenanceSample indicates fallback sample data was substituted.
	ProvenanceSample Provenance = "sample"
)

// PolicyDocument is a raw policy document before chunking.
type PolicyDocument struct {
	ID   string // stable document identifier, usually the file name
	Text string
}

// PolicyChunk is a bounded span of policy text with its embedding.
// It is the unit of retrieval. Chunks are created once during ingestion and
// never mutated; identity is (DocumentID, Ordinal).
type PolicyChunk struct {
	Id         ID
	DocumentID string
	Topic      string
	Ordinal    int // position within the source document, deterministic across re-ingestion
	Text       string
	Vector     []float32
	IngestedAt time.Time
}

// RetrievedChunk is one ranked hit from a hybrid retrieval query.
type RetrievedChunk struct {
	Chunk    *PolicyChunk
	Score    float32 // combined semantic + keyword score
	Semantic float32 // semantic similarity component
	Keyword  float32 // keyword-overlap boost component
}

// TransactionRecord is one entry in a customer's transaction history.
// Records are read-only after fetch.
type TransactionRecord struct {
	Amount          float64
	Timestamp       time.Time
	Type            string
	NewCounterparty bool
}

// CustomerProfile holds the customer facts an analysis run is seeded with.
// Immutable once fetched for a run.
type CustomerProfile struct {
	CustomerID   string
	Income       float64
	CreditScore  int
	TenureYears  float64
	Products     []string
	Segment      string
	Transactions []TransactionRecord
	Provenance   Provenance
}

// MaxTransactionAmount returns the largest single transaction amount,
// or 0 for an empty history.
func (p *CustomerProfile) MaxTransactionAmount() float64 {
	var max float64
	for _, tx := range p.Transactions {
		if tx.Amount > max {
			max = tx.Amount
		}
	}
	return max
}

// AgentContribution is the structured output of one pipeline stage.
// Contributions are appended once per stage and never mutated afterwards.
type AgentContribution struct {
	Agent           string
	Findings        []string
	Recommendations []string
	PolicyRefs      []string
	Summary         string
	Degraded        bool   // set when the stage could not produce parseable output
	Note            string // failure note for degraded contributions
	Elapsed         time.Duration
}

// RiskComponents holds the five independent risk score contributions.
// Each is clamped to its documented range before summation.
type RiskComponents struct {
	Income             float64 `json:"income"`
	Credit             float64 `json:"credit"`
	Tenure             float64 `json:"tenure"`
	Diversification    float64 `json:"diversification"`
	TransactionPattern float64 `json:"transaction_pattern"`
}

// RiskAssessment is the deterministic multi-factor risk score for one run.
// Score is always within [0,1]. Computed fresh per run, never persisted.
type RiskAssessment struct {
	Components RiskComponents `json:"components"`
	Score      float64        `json:"score"`
	Tier       string         `json:"tier"`
}

// Report is the final structured output of one orchestration run.
// Created once at run completion, immutable thereafter.
type Report struct {
	RunID            string             `json:"run_id"`
	CustomerID       string             `json:"customer_id"`
	Query            string             `json:"query"`
	Summary          string             `json:"summary"`
	Risk             RiskAssessment     `json:"risk"`
	Findings         []string           `json:"findings"`
	Recommendations  []string           `json:"recommendations"`
	PolicyReferences []string           `json:"policy_references"`
	Agents           []string           `json:"agents"`
	Provenance       Provenance         `json:"provenance"`
	Partial          bool               `json:"partial"`
	Metrics          map[string]float64 `json:"metrics"`
	ElapsedSeconds   float64            `json:"elapsed_seconds"`
}
