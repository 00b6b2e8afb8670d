package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight/advisor/core"
)

func TestMarshalID(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		original := core.ID(1234567890)

		data := MarshalID(original)
		decoded, err := UnmarshalID(data)
		require.NoError(t, err)
		assert.Equal(t, original, decoded)
	})

	t.Run("zero value", func(t *testing.T) {
		data := MarshalID(core.ID(0))
		decoded, err := UnmarshalID(data)
		require.NoError(t, err)
		assert.Equal(t, core.ID(0), decoded)
	})

	t.Run("max value", func(t *testing.T) {
		original := core.ID(^uint64(0))
		data := MarshalID(original)
		decoded, err := UnmarshalID(data)
		require.NoError(t, err)
		assert.Equal(t, original, decoded)
	})

	t.Run("truncated data", func(t *testing.T) {
		data := MarshalID(core.ID(1234567890))
		_, err := UnmarshalID(data[:1])
		assert.Error(t, err)
	})
}

func TestMarshalPolicyChunk(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		original := &core.PolicyChunk{
			DocumentID: "fraud_detection_guide",
			Topic:      "fraud_detection",
			Ordinal:    3,
			Text:       "Transactions exceeding $10,000 require enhanced review.",
			Vector:     []float32{0.25, -0.5, 0.75, 0.1},
			IngestedAt: time.Now().UTC().Truncate(time.Microsecond),
		}
		original.Id = core.IDFromChunk(original.DocumentID, original.Ordinal)

		data := MarshalPolicyChunk(original)
		decoded, err := UnmarshalPolicyChunk(data)
		require.NoError(t, err)
		assert.Equal(t, original, decoded)
	})

	t.Run("empty vector", func(t *testing.T) {
		original := &core.PolicyChunk{
			DocumentID: "loan_policy_manual",
			Topic:      "loan_policies",
			Ordinal:    0,
			Text:       "Minimum credit score for unsecured loans is 650.",
			IngestedAt: time.Now().UTC().Truncate(time.Microsecond),
		}
		original.Id = core.IDFromChunk(original.DocumentID, original.Ordinal)

		data := MarshalPolicyChunk(original)
		decoded, err := UnmarshalPolicyChunk(data)
		require.NoError(t, err)
		assert.Equal(t, original.Id, decoded.Id)
		assert.Empty(t, decoded.Vector)
	})

	t.Run("corrupted data", func(t *testing.T) {
		original := &core.PolicyChunk{
			DocumentID: "doc",
			Topic:      "compliance",
			Text:       "KYC verification is mandatory at onboarding.",
		}
		data := MarshalPolicyChunk(original)
		_, err := UnmarshalPolicyChunk(data[:len(data)/2])
		assert.Error(t, err)
	})
}
