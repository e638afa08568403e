package kotoba

import "sort"

// ScoredResult pairs a searchable document's raw text with its cosine
// similarity to a query.
type ScoredResult struct {
	Document string  `json:"document"`
	Score    float32 `json:"score"`
}

// cosineSimilarity is the dot product of two unit vectors. Stored vectors
// and query projections are L2-normalized by construction, so no division
// is needed.
func cosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot float32
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	return dot
}

// topK scores every candidate with a precomputed vector against query,
// sorts by descending score (ties broken by ascending insertion order),
// and returns at most k results. Candidates without a stored vector yet
// (nil) are skipped, not scored as zero.
func topK(query []float32, docs []document, k int) []ScoredResult {
	type scored struct {
		idx   int
		score float32
	}
	var candidates []scored
	for i, d := range docs {
		if d.Role != RoleSearchable || d.StoredVector == nil {
			continue
		}
		candidates = append(candidates, scored{idx: i, score: cosineSimilarity(query, d.StoredVector)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if k >= 0 && len(candidates) > k {
		candidates = candidates[:k]
	}

	out := make([]ScoredResult, len(candidates))
	for i, c := range candidates {
		out[i] = ScoredResult{Document: docs[c.idx].RawText, Score: c.score}
	}
	return out
}
