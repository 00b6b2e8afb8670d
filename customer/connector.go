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

package customer

import (
	"context"
	"log/slog"

	"github.com/finsight/advisor/core"
)

// Connector resolves customer profiles with a fallback chain: the live
// store first, then the built-in samples. Lookup never fails; callers
// always get a usable profile stamped with its provenance.
type Connector struct {
	live     Store
	fallback *SampleStore
	logger   *slog.Logger
}

// ConnectorOption configures a Connector.
type ConnectorOption func(*Connector)

// WithLiveStore attaches a live store to the connector. Without one,
// all profiles come from the sample fixtures.
func WithLiveStore(store Store) ConnectorOption {
	return func(c *Connector) {
		c.live = store
	}
}

// NewConnector creates a profile connector.
func NewConnector(opts ...ConnectorOption) *Connector {
	c := &Connector{
		fallback: NewSampleStore(),
		logger:   slog.Default().With("component", "customer-connector"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve returns the profile for a customer ID. The live store is
// consulted first; on any failure the sample profile is served instead.
// The returned profile's Provenance field records which source won.
func (c *Connector) Resolve(ctx context.Context, customerID string) *core.CustomerProfile {
	if customerID == "" {
		customerID = "unknown"
	}

	if c.live != nil {
		profile, err := c.live.GetProfile(ctx, customerID)
		if err == nil {
			profile.Provenance = core.ProvenanceLive
			return profile
		}
		c.logger.Warn("live profile lookup failed, using sample data",
			"customer_id", customerID,
			"error", err)
	}

	profile, err := c.fallback.GetProfile(ctx, customerID)
	if err != nil {
		// Only reachable with an empty ID, which was normalized above.
		profile = GenericProfile(customerID)
	}
	profile.Provenance = core.ProvenanceSample
	return profile
}

// Close closes the live store if one is attached.
func (c *Connector) Close() error {
	if c.live != nil {
		return c.live.Close()
	}
	return nil
}
