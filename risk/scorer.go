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

package risk

import (
	"github.com/finsight/advisor/core"
)

// Scoring constants. These are policy choices; changing them changes
// every assessment, so they live here in one place.
const (
	// BaseScore is the neutral midpoint every assessment starts from.
	BaseScore = 0.5

	incomeHighBonus  = -0.15 // annual income >= $100K
	incomeGoodBonus  = -0.10 // annual income >= $75K
	incomeMidBonus   = -0.05 // annual income >= $50K
	incomeLowPenalty = 0.10  // annual income < $30K
	incomeHighCutoff = 100000.0
	incomeGoodCutoff = 75000.0
	incomeMidCutoff  = 50000.0
	incomeLowCutoff  = 30000.0

	creditExcellentBonus = -0.15 // credit score >= 750
	creditGoodBonus      = -0.08 // credit score >= 700
	creditFairPenalty    = 0.05  // credit score >= 650
	creditPoorPenalty    = 0.15  // credit score < 650
	creditExcellentScore = 750
	creditGoodScore      = 700
	creditFairScore      = 650

	tenureLongBonus  = -0.10 // tenure >= 5 years
	tenureMidBonus   = -0.05 // tenure >= 3 years
	tenureNewPenalty = 0.08  // tenure < 1 year
	tenureLongYears  = 5.0
	tenureMidYears   = 3.0
	tenureNewYears   = 1.0

	productsBroadBonus    = -0.08 // 4 or more products
	productsSomeBonus     = -0.03 // 2 or 3 products
	productsSinglePenalty = 0.05  // 0 or 1 product
	productsBroadCount    = 4
	productsSomeCount     = 2

	txnLargePenalty   = 0.10 // max single transaction > $10K
	txnNotablePenalty = 0.03 // max single transaction > $5K
	txnLargeAmount    = 10000.0
	txnNotableAmount  = 5000.0
)

// Per-component clamp bounds. Components are discrete today, so these
// only matter if the deltas above are ever made continuous.
var componentBounds = struct {
	income, credit, tenure, products, txn [2]float64
}{
	income:   [2]float64{incomeHighBonus, incomeLowPenalty},
	credit:   [2]float64{creditExcellentBonus, creditPoorPenalty},
	tenure:   [2]float64{tenureLongBonus, tenureNewPenalty},
	products: [2]float64{productsBroadBonus, productsSinglePenalty},
	txn:      [2]float64{0, txnLargePenalty},
}

// Tier boundaries partition [0,1] into five bands.
const (
	TierLowUpper       = 0.25
	TierMediumLowUpper = 0.50
	TierMediumUpper    = 0.65
	TierHighUpper      = 0.80
)

// Tier labels.
const (
	TierLow       = "low"
	TierMediumLow = "medium-low"
	TierMedium    = "medium"
	TierHigh      = "high"
	TierCritical  = "critical"
)

// Score computes the risk assessment for a customer profile.
// Pure and deterministic: no I/O, no randomness, no clock reads.
func Score(profile *core.CustomerProfile) core.RiskAssessment {
	components := core.RiskComponents{
		Income:             clamp(incomeComponent(profile.Income), componentBounds.income),
		Credit:             clamp(creditComponent(profile.CreditScore), componentBounds.credit),
		Tenure:             clamp(tenureComponent(profile.TenureYears), componentBounds.tenure),
		Diversification:    clamp(productsComponent(len(profile.Products)), componentBounds.products),
		TransactionPattern: clamp(transactionComponent(profile.MaxTransactionAmount()), componentBounds.txn),
	}

	total := BaseScore +
		components.Income +
		components.Credit +
		components.Tenure +
		components.Diversification +
		components.TransactionPattern

	total = clamp(total, [2]float64{0, 1})

	return core.RiskAssessment{
		Components: components,
		Score:      total,
		Tier:       TierFor(total),
	}
}

// TierFor maps a normalized score to its tier label.
func TierFor(score float64) string {
	switch {
	case score < TierLowUpper:
		return TierLow
	case score < TierMediumLowUpper:
		return TierMediumLow
	case score < TierMediumUpper:
		return TierMedium
	case score < TierHighUpper:
		return TierHigh
	default:
		return TierCritical
	}
}

func incomeComponent(income float64) float64 {
	switch {
	case income >= incomeHighCutoff:
		return incomeHighBonus
	case income >= incomeGoodCutoff:
		return incomeGoodBonus
	case income >= incomeMidCutoff:
		return incomeMidBonus
	case income < incomeLowCutoff:
		return incomeLowPenalty
	default:
		return 0
	}
}

func creditComponent(score int) float64 {
	switch {
	case score >= creditExcellentScore:
		return creditExcellentBonus
	case score >= creditGoodScore:
		return creditGoodBonus
	case score >= creditFairScore:
		return creditFairPenalty
	default:
		return creditPoorPenalty
	}
}

func tenureComponent(years float64) float64 {
	switch {
	case years >= tenureLongYears:
		return tenureLongBonus
	case years >= tenureMidYears:
		return tenureMidBonus
	case years < tenureNewYears:
		return tenureNewPenalty
	default:
		return 0
	}
}

func productsComponent(count int) float64 {
	switch {
	case count >= productsBroadCount:
		return productsBroadBonus
	case count >= productsSomeCount:
		return productsSomeBonus
	default:
		return productsSinglePenalty
	}
}

func transactionComponent(maxAmount float64) float64 {
	switch {
	case maxAmount > txnLargeAmount:
		return txnLargePenalty
	case maxAmount > txnNotableAmount:
		return txnNotablePenalty
	default:
		return 0
	}
}

func clamp(v float64, bounds [2]float64) float64 {
	if v < bounds[0] {
		return bounds[0]
	}
	if v > bounds[1] {
		return bounds[1]
	}
	return v
}
