package orchestration

import (
	"fmt"

	"github.com/finsight/advisor/core"
	"github.com/finsight/advisor/risk"
)

// buildReport merges all stage contributions with the deterministic
// risk assessment into the final report.
func buildReport(state *RunState, profile *core.CustomerProfile, assessment core.RiskAssessment, elapsedSeconds float64, partial bool) *core.Report {
	contributions := state.Contributions()

	findings := profileFindings(profile, len(contributions))
	recommendations := profileRecommendations(profile, assessment)
	var policyRefs []string
	var agents []string
	summary := ""

	seenRefs := make(map[string]bool)
	for _, c := range contributions {
		agents = append(agents, c.Agent)
		findings = append(findings, c.Findings...)
		recommendations = append(recommendations, c.Recommendations...)
		for _, ref := range c.PolicyRefs {
			// First appearance wins; order is stage order.
			if !seenRefs[ref] {
				seenRefs[ref] = true
				policyRefs = append(policyRefs, ref)
			}
		}
		if c.Agent == AgentSynthesisCoordinator && !c.Degraded && c.Summary != "" {
			summary = c.Summary
		}
	}

	if summary == "" {
		summary = fmt.Sprintf("Analysis of customer %s completed with %d of %d stages; risk tier %s (score %.2f).",
			state.CustomerID(), len(contributions), len(PipelineStages()), assessment.Tier, assessment.Score)
	}

	metrics := state.Metrics()
	metrics["stages_executed"] = float64(len(contributions))
	metrics["policies_referenced"] = float64(len(policyRefs))
	metrics["risk_score"] = assessment.Score

	return &core.Report{
		RunID:            state.RunID(),
		CustomerID:       state.CustomerID(),
		Query:            state.Query(),
		Summary:          summary,
		Risk:             assessment,
		Findings:         findings,
		Recommendations:  recommendations,
		PolicyReferences: policyRefs,
		Agents:           agents,
		Provenance:       profile.Provenance,
		Partial:          partial,
		Metrics:          metrics,
		ElapsedSeconds:   elapsedSeconds,
	}
}

// profileFindings derives findings straight from profile facts.
// These don't depend on model output, so even a heavily degraded run
// still reports something concrete.
func profileFindings(profile *core.CustomerProfile, stageCount int) []string {
	findings := []string{
		fmt.Sprintf("Customer %s analysis completed with %d agent contributions", profile.CustomerID, stageCount),
	}

	switch {
	case profile.Income >= 75000:
		findings = append(findings, fmt.Sprintf("Customer qualifies for Tier A+ or A lending products (income: $%.2f)", profile.Income))
	case profile.Income >= 50000:
		findings = append(findings, fmt.Sprintf("Customer qualifies for Tier B lending products (income: $%.2f)", profile.Income))
	case profile.Income >= 30000:
		findings = append(findings, fmt.Sprintf("Customer qualifies for Tier C lending products (income: $%.2f)", profile.Income))
	default:
		findings = append(findings, fmt.Sprintf("Customer income ($%.2f) may limit product eligibility", profile.Income))
	}

	switch {
	case profile.CreditScore >= 750:
		findings = append(findings, fmt.Sprintf("Excellent credit score (%d) - eligible for best rates", profile.CreditScore))
	case profile.CreditScore >= 700:
		findings = append(findings, fmt.Sprintf("Good credit score (%d) - eligible for competitive rates", profile.CreditScore))
	case profile.CreditScore >= 650:
		findings = append(findings, fmt.Sprintf("Fair credit score (%d) - standard rates apply", profile.CreditScore))
	case profile.CreditScore > 0:
		findings = append(findings, fmt.Sprintf("Credit score (%d) requires case-by-case assessment", profile.CreditScore))
	}

	if len(profile.Products) >= 4 {
		findings = append(findings, fmt.Sprintf("High product engagement (%d products) indicates strong customer relationship", len(profile.Products)))
	} else if len(profile.Products) <= 1 {
		findings = append(findings, fmt.Sprintf("Low product engagement (%d product) - cross-sell opportunity identified", len(profile.Products)))
	}

	if len(profile.Transactions) > 0 {
		minAmount, maxAmount := profile.Transactions[0].Amount, profile.Transactions[0].Amount
		for _, txn := range profile.Transactions[1:] {
			if txn.Amount < minAmount {
				minAmount = txn.Amount
			}
			if txn.Amount > maxAmount {
				maxAmount = txn.Amount
			}
		}
		findings = append(findings, fmt.Sprintf("Recent transaction activity: %d transactions, range $%.2f-$%.2f",
			len(profile.Transactions), minAmount, maxAmount))
	}

	return findings
}

// profileRecommendations derives recommendations from the profile and
// the computed risk tier.
func profileRecommendations(profile *core.CustomerProfile, assessment core.RiskAssessment) []string {
	var recommendations []string

	switch assessment.Tier {
	case risk.TierHigh, risk.TierCritical:
		recommendations = append(recommendations,
			"Implement enhanced monitoring with quarterly risk reviews",
			"Consider requiring additional documentation for high-value transactions")
	case risk.TierMedium:
		recommendations = append(recommendations, "Maintain standard monitoring with semi-annual reviews")
	default:
		recommendations = append(recommendations, "Continue standard monitoring with annual reviews")
	}

	products := make(map[string]bool, len(profile.Products))
	for _, p := range profile.Products {
		products[p] = true
	}

	if !products["investment"] && profile.Income >= 50000 {
		recommendations = append(recommendations, "Recommend investment portfolio services based on income level")
	}
	if !products["savings"] {
		recommendations = append(recommendations, "Recommend high-yield savings account to improve financial health")
	}
	if !products["credit_card"] && profile.CreditScore >= 650 {
		recommendations = append(recommendations, "Eligible for rewards credit card based on credit profile")
	}
	if !products["mortgage"] && profile.Income >= 75000 && profile.CreditScore >= 700 {
		recommendations = append(recommendations, "Pre-qualify for mortgage products at competitive rates")
	}

	if len(profile.Products) <= 1 {
		recommendations = append(recommendations, "Initiate cross-sell engagement program to deepen customer relationship")
	}
	if profile.CreditScore > 0 && profile.CreditScore < 700 {
		recommendations = append(recommendations, "Offer credit-building program to improve eligibility for premium products")
	}

	if len(recommendations) < 2 {
		recommendations = append(recommendations, "Schedule periodic financial health review to identify emerging opportunities")
	}

	return recommendations
}
