package ingestion

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/finsight/advisor/core"
)

// The topic collections known to the knowledge base.
const (
	TopicFraudDetection        = "fraud_detection"
	TopicLoanPolicies          = "loan_policies"
	TopicCustomerSupport       = "customer_support"
	TopicRiskAssessment        = "risk_assessment"
	TopicTransactionMonitoring = "transaction_monitoring"
	TopicCompliance            = "compliance"
)

// Topics lists all known topic collections in stage order.
var Topics = []string{
	TopicFraudDetection,
	TopicLoanPolicies,
	TopicCustomerSupport,
	TopicRiskAssessment,
	TopicTransactionMonitoring,
	TopicCompliance,
}

// topicKeywords maps filename substrings to topics, checked in order.
var topicKeywords = []struct {
	keyword string
	topic   string
}{
	{"fraud", TopicFraudDetection},
	{"loan", TopicLoanPolicies},
	{"lending", TopicLoanPolicies},
	{"support", TopicCustomerSupport},
	{"service", TopicCustomerSupport},
	{"risk", TopicRiskAssessment},
	{"transaction", TopicTransactionMonitoring},
	{"monitoring", TopicTransactionMonitoring},
	{"compliance", TopicCompliance},
	{"kyc", TopicCompliance},
	{"aml", TopicCompliance},
}

// DetermineTopic infers the topic collection for a document from its
// file name. Returns false if no keyword matches.
func DetermineTopic(filename string) (string, bool) {
	name := strings.ToLower(filepath.Base(filename))
	for _, tk := range topicKeywords {
		if strings.Contains(name, tk.keyword) {
			return tk.topic, true
		}
	}
	return "", false
}

// ExtractText reads a document file and returns its plain text.
// Supports .txt, .md, and .pdf files.
func ExtractText(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	case ".pdf":
		return extractPDF(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func extractPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var buf bytes.Buffer
	b, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(&buf, b); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// LoadDir reads all supported documents from a directory.
// The document ID is the file name without extension. Unsupported
// files are skipped.
func LoadDir(dir string) ([]core.PolicyDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var docs []core.PolicyDocument
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		text, err := ExtractText(path)
		if err != nil {
			if errors.Is(err, ErrUnsupportedFormat) {
				continue
			}
			return nil, fmt.Errorf("extracting %s: %w", entry.Name(), err)
		}
		docs = append(docs, core.PolicyDocument{
			ID:   strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Text: text,
		})
	}
	return docs, nil
}
