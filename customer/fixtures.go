package customer

import (
	"context"
	"time"

	"github.com/finsight/advisor/core"
)

// SampleStore serves built-in sample profiles. It backs the live store
// during development and acts as the fallback source when the live store
// is unreachable.
//
// Unknown customer IDs get a generic mid-range profile rather than an
// error, so lookups against the sample store always succeed.
type SampleStore struct{}

var _ Store = (*SampleStore)(nil)

// NewSampleStore creates a store backed by the built-in sample profiles.
func NewSampleStore() *SampleStore {
	return &SampleStore{}
}

// GetProfile returns a copy of the sample profile for the customer ID,
// or a generic profile if the ID has no fixture.
func (s *SampleStore) GetProfile(ctx context.Context, customerID string) (*core.CustomerProfile, error) {
	if customerID == "" {
		return nil, core.ErrEmptyCustomerID
	}
	if profile, ok := sampleProfiles[customerID]; ok {
		return cloneProfile(&profile), nil
	}
	return GenericProfile(customerID), nil
}

// Close is a no-op for the sample store.
func (s *SampleStore) Close() error {
	return nil
}

// GenericProfile returns a mid-range profile for customers without a
// fixture. Used so that analysis can proceed for any customer ID.
func GenericProfile(customerID string) *core.CustomerProfile {
	return &core.CustomerProfile{
		CustomerID:  customerID,
		Income:      55000,
		CreditScore: 690,
		TenureYears: 2.5,
		Products:    []string{"checking", "savings"},
		Segment:     "standard",
		Transactions: []core.TransactionRecord{
			{Amount: 1200, Timestamp: fixtureTime(2026, 7, 14), Type: "transfer"},
			{Amount: 340, Timestamp: fixtureTime(2026, 7, 2), Type: "purchase"},
		},
		Provenance: core.ProvenanceSample,
	}
}

// sampleProfiles are the built-in fixtures, keyed by customer ID.
// They span the customer spectrum: an established low-risk customer,
// a mid-market customer, and a new customer with elevated risk signals.
var sampleProfiles = map[string]core.CustomerProfile{
	"12345": {
		CustomerID:  "12345",
		Income:      75000,
		CreditScore: 780,
		TenureYears: 6.5,
		Products:    []string{"checking", "savings", "credit_card", "mortgage", "investment"},
		Segment:     "premium",
		Transactions: []core.TransactionRecord{
			{Amount: 4500, Timestamp: fixtureTime(2026, 8, 20), Type: "transfer"},
			{Amount: 2100, Timestamp: fixtureTime(2026, 8, 11), Type: "mortgage_payment"},
			{Amount: 850, Timestamp: fixtureTime(2026, 8, 3), Type: "purchase"},
			{Amount: 120, Timestamp: fixtureTime(2026, 7, 28), Type: "purchase"},
		},
		Provenance: core.ProvenanceSample,
	},
	"67890": {
		CustomerID:  "67890",
		Income:      45000,
		CreditScore: 680,
		TenureYears: 4.1,
		Products:    []string{"checking", "savings", "credit_card"},
		Segment:     "standard",
		Transactions: []core.TransactionRecord{
			{Amount: 1800, Timestamp: fixtureTime(2026, 8, 18), Type: "rent"},
			{Amount: 640, Timestamp: fixtureTime(2026, 8, 9), Type: "purchase"},
			{Amount: 95, Timestamp: fixtureTime(2026, 8, 1), Type: "purchase"},
		},
		Provenance: core.ProvenanceSample,
	},
	"11111": {
		CustomerID:  "11111",
		Income:      28000,
		CreditScore: 620,
		TenureYears: 0.8,
		Products:    []string{"checking"},
		Segment:     "new",
		Transactions: []core.TransactionRecord{
			{Amount: 12000, Timestamp: fixtureTime(2026, 8, 25), Type: "wire_transfer", NewCounterparty: true},
			{Amount: 450, Timestamp: fixtureTime(2026, 8, 12), Type: "purchase"},
			{Amount: 60, Timestamp: fixtureTime(2026, 8, 5), Type: "purchase"},
		},
		Provenance: core.ProvenanceSample,
	},
}

func fixtureTime(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}

func cloneProfile(p *core.CustomerProfile) *core.CustomerProfile {
	clone := *p
	clone.Products = append([]string(nil), p.Products...)
	clone.Transactions = append([]core.TransactionRecord(nil), p.Transactions...)
	return &clone
}
