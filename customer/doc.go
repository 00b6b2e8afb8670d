// Package customer provides access to customer profile data.
//
// Profiles can come from two places: a live PostgreSQL store and a
// built-in set of sample profiles. The Connector combines the two with
// a fallback rule: when the live store is unavailable or has no row for
// the requested customer, the sample profile is served instead. Every
// profile is stamped with its provenance so downstream consumers can
// tell which source produced it.
//
// Profile lookup never fails: callers always receive a usable profile,
// in the worst case a generic sample one.
package customer
