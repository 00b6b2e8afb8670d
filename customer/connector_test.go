package customer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/advisor/core"
)

// stubStore is a minimal live-store stand-in for connector tests.
type stubStore struct {
	profile *core.CustomerProfile
	err     error
	closed  bool
}

func (s *stubStore) GetProfile(ctx context.Context, customerID string) (*core.CustomerProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.profile, nil
}

func (s *stubStore) Close() error {
	s.closed = true
	return nil
}

func TestSampleStore(t *testing.T) {
	ctx := context.Background()
	store := NewSampleStore()

	t.Run("known fixtures", func(t *testing.T) {
		profile, err := store.GetProfile(ctx, "12345")
		require.NoError(t, err)
		assert.Equal(t, 75000.0, profile.Income)
		assert.Equal(t, 780, profile.CreditScore)
		assert.Len(t, profile.Products, 5)
		assert.Equal(t, core.ProvenanceSample, profile.Provenance)
	})

	t.Run("high risk fixture carries large transaction", func(t *testing.T) {
		profile, err := store.GetProfile(ctx, "11111")
		require.NoError(t, err)
		assert.Equal(t, 12000.0, profile.MaxTransactionAmount())
		assert.InDelta(t, 0.8, profile.TenureYears, 0.001)
	})

	t.Run("unknown ID gets generic profile", func(t *testing.T) {
		profile, err := store.GetProfile(ctx, "99999")
		require.NoError(t, err)
		assert.Equal(t, "99999", profile.CustomerID)
		assert.Equal(t, 55000.0, profile.Income)
	})

	t.Run("returned profile is a copy", func(t *testing.T) {
		first, err := store.GetProfile(ctx, "67890")
		require.NoError(t, err)
		first.Products[0] = "mutated"
		first.Transactions[0].Amount = -1

		second, err := store.GetProfile(ctx, "67890")
		require.NoError(t, err)
		assert.Equal(t, "checking", second.Products[0])
		assert.Equal(t, 1800.0, second.Transactions[0].Amount)
	})

	t.Run("empty ID rejected", func(t *testing.T) {
		_, err := store.GetProfile(ctx, "")
		assert.ErrorIs(t, err, core.ErrEmptyCustomerID)
	})
}

func TestConnectorResolve(t *testing.T) {
	ctx := context.Background()

	t.Run("live store wins when available", func(t *testing.T) {
		live := &stubStore{profile: &core.CustomerProfile{
			CustomerID:  "12345",
			Income:      82000,
			CreditScore: 790,
		}}
		conn := NewConnector(WithLiveStore(live))

		profile := conn.Resolve(ctx, "12345")
		assert.Equal(t, 82000.0, profile.Income)
		assert.Equal(t, core.ProvenanceLive, profile.Provenance)
	})

	t.Run("falls back to sample on live failure", func(t *testing.T) {
		live := &stubStore{err: errors.New("connection refused")}
		conn := NewConnector(WithLiveStore(live))

		profile := conn.Resolve(ctx, "12345")
		assert.Equal(t, 75000.0, profile.Income)
		assert.Equal(t, core.ProvenanceSample, profile.Provenance)
	})

	t.Run("falls back on missing row", func(t *testing.T) {
		live := &stubStore{err: ErrProfileNotFound}
		conn := NewConnector(WithLiveStore(live))

		profile := conn.Resolve(ctx, "67890")
		assert.Equal(t, 45000.0, profile.Income)
		assert.Equal(t, core.ProvenanceSample, profile.Provenance)
	})

	t.Run("no live store configured", func(t *testing.T) {
		conn := NewConnector()

		profile := conn.Resolve(ctx, "11111")
		assert.Equal(t, 28000.0, profile.Income)
		assert.Equal(t, core.ProvenanceSample, profile.Provenance)
	})

	t.Run("empty customer ID normalized", func(t *testing.T) {
		conn := NewConnector()

		profile := conn.Resolve(ctx, "")
		assert.Equal(t, "unknown", profile.CustomerID)
		assert.NotNil(t, profile)
	})

	t.Run("close propagates to live store", func(t *testing.T) {
		live := &stubStore{}
		conn := NewConnector(WithLiveStore(live))
		require.NoError(t, conn.Close())
		assert.True(t, live.closed)
	})
}
