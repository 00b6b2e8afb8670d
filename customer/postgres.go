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
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finsight/advisor/core"
)

const (
	profileQuery = `
		SELECT customer_id, annual_income, credit_score, tenure_years, segment, products
		FROM customer_profiles
		WHERE customer_id = $1`

	transactionsQuery = `
		SELECT amount, occurred_at, txn_type, new_counterparty
		FROM customer_transactions
		WHERE customer_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2`

	// Recent transactions are enough for behavioral analysis; full history
	// stays in the warehouse.
	transactionWindow = 50
)

// PostgresStore reads customer profiles from a PostgreSQL database.
// All access is read-only.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore connects to PostgreSQL and verifies the connection.
func NewPostgresStore(ctx context.Context, connString string) (Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return &PostgresStore{
		pool:   pool,
		logger: slog.Default().With("component", "customer-store"),
	}, nil
}

// GetProfile retrieves the profile and recent transactions for a customer.
func (s *PostgresStore) GetProfile(ctx context.Context, customerID string) (*core.CustomerProfile, error) {
	if customerID == "" {
		return nil, core.ErrEmptyCustomerID
	}

	profile := &core.CustomerProfile{Provenance: core.ProvenanceLive}
	row := s.pool.QueryRow(ctx, profileQuery, customerID)
	err := row.Scan(
		&profile.CustomerID,
		&profile.Income,
		&profile.CreditScore,
		&profile.TenureYears,
		&profile.Segment,
		&profile.Products,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	rows, err := s.pool.Query(ctx, transactionsQuery, customerID, transactionWindow)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	for rows.Next() {
		var txn core.TransactionRecord
		if err := rows.Scan(&txn.Amount, &txn.Timestamp, &txn.Type, &txn.NewCounterparty); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		profile.Transactions = append(profile.Transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	return profile, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
