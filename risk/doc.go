// Package risk computes deterministic multi-factor risk assessments
// from customer profile facts.
//
// Scoring is a pure function: the same profile always produces the same
// assessment, with no I/O and no model calls. Five independent additive
// components (income, credit, tenure, product diversification,
// transaction pattern) adjust a fixed midpoint, each clamped to its own
// bound, and the total is clamped to [0,1] before tier mapping.
package risk
