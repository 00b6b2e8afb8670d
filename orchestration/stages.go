package orchestration

import (
	"fmt"

	"github.com/finsight/advisor/core"
	"github.com/finsight/advisor/ingestion"
)

// Stage is one ordered step of the pipeline: a specialist prompt paired
// with the policy topic that supplies its evidence.
type Stage struct {
	// Agent names the specialist; it keys the stage's contribution.
	Agent string

	// Topic is the chunk collection queried for evidence.
	Topic string

	// Instructions is the system prompt for the reasoning model.
	Instructions string

	// BuildQuery produces the retrieval query from the profile and the
	// customer's question.
	BuildQuery func(profile *core.CustomerProfile, query string) string
}

// Stage agent names, in pipeline order.
const (
	AgentDataGatherer         = "data_gatherer"
	AgentFraudAnalyst         = "fraud_analyst"
	AgentLoanAnalyst          = "loan_analyst"
	AgentSupportSpecialist    = "support_specialist"
	AgentRiskAnalyst          = "risk_analyst"
	AgentSynthesisCoordinator = "synthesis_coordinator"
)

// PipelineStages returns the six stages in execution order.
// The order matters: each stage may build on prior contributions, and
// the synthesis stage must run last.
func PipelineStages() []Stage {
	return []Stage{
		{
			Agent: AgentDataGatherer,
			Topic: ingestion.TopicTransactionMonitoring,
			Instructions: `You are a Banking Data Analyst. Review the customer profile and
recent transaction history. Compute the key financial metrics (income tier,
credit standing, product engagement, transaction volume and range) and
identify which policy areas apply to this customer. State only facts
supported by the data provided.`,
			BuildQuery: func(profile *core.CustomerProfile, query string) string {
				return fmt.Sprintf("transaction activity review thresholds for %s segment customer: %s", profile.Segment, query)
			},
		},
		{
			Agent: AgentFraudAnalyst,
			Topic: ingestion.TopicFraudDetection,
			Instructions: `You are a Senior Fraud Detection Specialist. Analyze the transaction
patterns for suspicious activity indicators: large or unusual amounts, rapid
sequences, and transfers to new counterparties. Assess the fraud risk level
with justification, identify potential fraud typologies, and recommend
mitigation actions grounded in the fraud policies provided.`,
			BuildQuery: func(profile *core.CustomerProfile, query string) string {
				return fmt.Sprintf("suspicious transaction indicators, max single transaction $%.0f, new counterparty transfers", profile.MaxTransactionAmount())
			},
		},
		{
			Agent: AgentLoanAnalyst,
			Topic: ingestion.TopicLoanPolicies,
			Instructions: `You are a Senior Credit Risk Analyst. Evaluate loan eligibility from
income tier, credit score tier, and tenure. Determine the qualifying tier and
applicable rates, the maximum recommended loan amount, and suitable loan
products. Flag any disqualifying factors requiring special review.`,
			BuildQuery: func(profile *core.CustomerProfile, query string) string {
				return fmt.Sprintf("loan eligibility income $%.0f credit score %d", profile.Income, profile.CreditScore)
			},
		},
		{
			Agent: AgentSupportSpecialist,
			Topic: ingestion.TopicCustomerSupport,
			Instructions: `You are a Senior Customer Experience Specialist. Assess the customer's
service needs from their profile and question. Identify service gaps,
classify the priority of their needs, estimate retention risk, and recommend
proactive engagement actions and suitable self-service options.`,
			BuildQuery: func(profile *core.CustomerProfile, query string) string {
				return fmt.Sprintf("service expectations and escalation for %s segment: %s", profile.Segment, query)
			},
		},
		{
			Agent: AgentRiskAnalyst,
			Topic: ingestion.TopicRiskAssessment,
			Instructions: `You are a Senior Enterprise Risk Analyst. Assess credit, operational,
compliance, and reputational risk for this customer. Verify adherence to the
risk policies provided, recommend mitigation strategies in priority order,
and state the appropriate review frequency for this risk profile.`,
			BuildQuery: func(profile *core.CustomerProfile, query string) string {
				return fmt.Sprintf("risk assessment review frequency tenure %.1f years %d products", profile.TenureYears, len(profile.Products))
			},
		},
		{
			Agent: AgentSynthesisCoordinator,
			Topic: ingestion.TopicCompliance,
			Instructions: `You are a Senior Banking Strategy Coordinator. Integrate the findings
from all previous analyses into a coherent executive narrative. Identify
cross-cutting themes and conflicts, consolidate the most important findings
and recommendations, and confirm the compliance obligations that apply.`,
			BuildQuery: func(profile *core.CustomerProfile, query string) string {
				return fmt.Sprintf("compliance obligations customer due diligence: %s", query)
			},
		},
	}
}
