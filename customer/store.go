package customer

import (
	"context"

	"github.com/finsight/advisor/core"
)

// Store provides read access to customer profiles.
// Implementations must be safe for concurrent use.
type Store interface {
	// GetProfile retrieves the profile for a customer ID.
	// Returns ErrProfileNotFound if no profile exists.
	GetProfile(ctx context.Context, customerID string) (*core.CustomerProfile, error)

	// Close releases store resources.
	Close() error
}
