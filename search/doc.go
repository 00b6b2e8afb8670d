// Package search provides hybrid retrieval over topic-scoped policy
// chunk collections.
//
// A query is answered in two passes: semantic similarity between the
// query embedding and stored chunk embeddings, then a keyword-overlap
// boost from exact and stemmed term matches. The combined score ranks
// results; ties break by chunk ordinal so ranking is deterministic.
package search
