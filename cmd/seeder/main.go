package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/finsight/advisor"
	"github.com/finsight/advisor/core"
	"github.com/finsight/advisor/ingestion"
)

// Sample policy documents, one per advisory topic. They are intentionally
// short: enough material to exercise chunking, topic indexing, and hybrid
// retrieval against a local embedding service.
var sampleDocuments = map[string]core.PolicyDocument{
	ingestion.TopicFraudDetection: {
		ID: "fraud_detection_policy",
		Text: `Fraud Detection Policy

Transactions above $5,000 to a counterparty not previously seen on the
account require enhanced verification before settlement. Wire transfers
initiated within 90 days of account opening are routed to manual review
regardless of amount.

Velocity rules flag accounts with more than five card-not-present
transactions inside a rolling ten-minute window. Flagged accounts keep
full transaction capability while the review is open unless the fraud
desk escalates to a hold.

Confirmed fraud losses must be reported to the customer within two
business days, and provisional credit issued within ten business days of
a disputed electronic transfer under Regulation E.

Device fingerprint changes combined with a new shipping address on the
same session raise the session risk score to its maximum. Sessions at
maximum risk require step-up authentication before any money movement.`,
	},
	ingestion.TopicLoanPolicies: {
		ID: "loan_policy_manual",
		Text: `Loan Policy Manual

Unsecured personal loans are available to customers with a credit score
of 660 or higher and a debt-to-income ratio below 43 percent. Customers
between 620 and 659 may qualify with a qualified co-signer.

Rate tiers: scores of 760 and above receive the preferred rate, 700 to
759 the standard rate, and 660 to 699 the standard rate plus 200 basis
points. Published rates assume automatic payment enrollment.

Home equity lines require a combined loan-to-value ratio of 80 percent
or less and at least twelve months of on-time mortgage history. Maximum
line size is $250,000 without senior credit officer approval.

Tenure matters: customers with five or more years of relationship
history qualify for a 25 basis point loyalty reduction on any fixed-rate
installment product.`,
	},
	ingestion.TopicCustomerSupport: {
		ID: "customer_support_handbook",
		Text: `Customer Support Handbook

Premium segment customers are answered by the dedicated advisory desk
with a 30-second target speed of answer. Standard segment requests route
through the general queue with a two-minute target.

Fee reversals up to $50 may be granted once per rolling twelve months at
agent discretion for customers in good standing. Larger reversals
require supervisor approval and a documented reason code.

Customers reporting financial hardship must be offered the hardship
program before any collections activity is discussed. The program
includes payment deferral for up to three months and waived late fees
during the deferral window.

Account closure requests are honored within one business day. Agents
must disclose any accrued interest, pending transactions, and recurring
payment arrangements tied to the account before closure.`,
	},
	ingestion.TopicRiskAssessment: {
		ID: "risk_assessment_guidelines",
		Text: `Risk Assessment Guidelines

Customer risk ratings combine income stability, credit standing,
relationship tenure, product diversification, and observed transaction
behavior. Ratings refresh on every advisory review and after any
material account event.

Low risk customers qualify for the full self-service product catalog.
Medium risk customers require advisor review before unsecured credit
limit increases. High and critical risk customers require enhanced due
diligence and quarterly portfolio review.

A single product relationship with tenure under one year is the highest
churn and default correlation in the retail book. Advisors should pair
any credit offer to such customers with a funded deposit product.

Concentration risk: any single transaction exceeding 20 percent of
stated annual income triggers a source-of-funds inquiry.`,
	},
	ingestion.TopicTransactionMonitoring: {
		ID: "transaction_monitoring_standards",
		Text: `Transaction Monitoring Standards

All deposit accounts are monitored against a 50-transaction rolling
window. Monitoring evaluates amount, counterparty novelty, channel, and
time-of-day pattern deviation from the customer baseline.

Cash transactions aggregating above $10,000 in a single business day
generate a currency transaction report. Structuring patterns, meaning
multiple sub-threshold cash movements inside 48 hours, generate an
investigation case regardless of aggregate amount.

New counterparty wires above $5,000 are held for review when the account
is under one year old. Holds release automatically after verification or
after two business days with no adverse finding.

Dormant accounts showing sudden activity above $1,000 are re-verified
through the customer's registered contact channel before funds release.`,
	},
	ingestion.TopicCompliance: {
		ID: "compliance_framework",
		Text: `Compliance Framework

Know Your Customer verification is mandatory at onboarding and refreshes
every 36 months for standard risk customers, every 12 months for high
risk customers. Expired verification suspends new product origination.

Anti-money-laundering cases must be dispositioned within 30 days of
creation. Suspicious activity reports are filed within 30 calendar days
of initial detection, with a 30-day extension when a suspect has not
been identified.

Advisory recommendations must be suitable for the customer's documented
risk tier, investment horizon, and liquidity needs. Unsuitable product
placement is a reportable compliance event.

Customer data may be shared across affiliates only under the disclosed
privacy notice. Opt-out requests take effect within 30 days and apply to
all marketing channels.`,
	},
}

var (
	dbPath  = flag.String("db", "./advisor_db", "path to the BadgerDB database directory")
	docsDir = flag.String("src", "", "directory of policy documents to ingest instead of the builtin samples")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

func main() {
	system, err := advisor.NewSystem(*dbPath)
	if err != nil {
		panic(err)
	}
	defer system.Close()

	pipeline, err := system.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	ctx := context.Background()

	if *docsDir != "" {
		inserted, err := pipeline.IngestDir(ctx, *docsDir)
		if err != nil {
			panic(err)
		}
		slog.Info("seeded from directory", "dir", *docsDir, "chunks", inserted)
		return
	}

	total := 0
	for _, topic := range ingestion.Topics {
		doc := sampleDocuments[topic]
		inserted, err := pipeline.IngestDocument(ctx, topic, doc)
		if err != nil {
			panic(err)
		}
		slog.Info("seeded topic", "topic", topic, "document", doc.ID, "chunks", inserted)
		total += inserted
	}
	slog.Info("seeding complete", "chunks", total)
}
