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

package ingestion

import (
	"regexp"
	"strings"

	"github.com/finsight/advisor/core"
)

// Default chunking parameters. Target size bounds prompt context per
// retrieved chunk; overlap preserves continuity across chunk borders.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

var paragraphSplit = regexp.MustCompile(`\n{2,}`)

// SplitDocument splits a document into topic-tagged chunks.
// Paragraphs are the primary unit: consecutive small paragraphs are
// merged up to targetSize, and oversized paragraphs are split into
// targetSize spans. Every chunk after the first starts with the
// trailing overlap characters of its predecessor, so context survives
// chunk borders. Ordinals are assigned in document order, so the same
// text always produces the same chunk identities.
func SplitDocument(doc core.PolicyDocument, topic string, targetSize, overlap int) []*core.PolicyChunk {
	if targetSize < 1 {
		targetSize = DefaultChunkSize
	}
	if overlap < 0 || overlap >= targetSize {
		overlap = DefaultChunkOverlap
		if overlap >= targetSize {
			overlap = targetSize / 5
		}
	}

	var pieces []string
	var pending string

	flush := func() {
		if pending != "" {
			pieces = append(pieces, pending)
			pending = ""
		}
	}

	for _, para := range paragraphSplit.Split(doc.Text, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if len(para) > targetSize {
			flush()
			pieces = append(pieces, splitLong(para, targetSize)...)
			continue
		}

		if pending == "" {
			pending = para
		} else if len(pending)+len(para)+2 <= targetSize {
			pending = pending + "\n\n" + para
		} else {
			flush()
			pending = para
		}
	}
	flush()

	chunks := make([]*core.PolicyChunk, 0, len(pieces))
	for ordinal, text := range pieces {
		if ordinal > 0 && overlap > 0 {
			text = tailOf(pieces[ordinal-1], overlap) + "\n" + text
		}
		chunk := &core.PolicyChunk{
			Id:         core.IDFromChunk(doc.ID, ordinal),
			DocumentID: doc.ID,
			Topic:      topic,
			Ordinal:    ordinal,
			Text:       text,
		}
		chunks = append(chunks, chunk)
	}
	return chunks
}

// splitLong splits an oversized paragraph into spans of at most max
// characters. Overlap between spans is applied later, when chunks are
// assembled.
func splitLong(s string, max int) []string {
	if len(s) <= max {
		return []string{s}
	}
	var res []string
	for i := 0; i < len(s); i += max {
		end := i + max
		if end > len(s) {
			end = len(s)
		}
		res = append(res, strings.TrimSpace(s[i:end]))
	}
	return res
}

// tailOf returns the last n characters of s, the span carried into the
// head of the following chunk.
func tailOf(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[len(s)-n:])
}
