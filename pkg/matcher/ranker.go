package matcher

import (
	"math"
	"sort"
)

// CandidateDocument is one entry of the in-memory working set: the document
// text needed for judging plus every vector it can be matched on (main
// embedding and chunk embeddings).
type CandidateDocument struct {
	ID           string
	Title        string
	Agency       string
	DocumentType string
	Content      string
	Vectors      [][]float32
}

// RankedCandidate carries the best similarity a document achieved across
// its vectors.
type RankedCandidate struct {
	DocumentID string
	Similarity float64
	// Which of the document's vectors won; 0 is the main embedding.
	BestVector  int
	VectorCount int
}

// CosineSimilarity returns the cosine of the angle between a and b.
// A zero-magnitude vector compares as 0, never NaN. Callers must pass
// vectors of equal length.
func CosineSimilarity(a, b []float32) float64 {
	var dot, magA, magB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		magA += av * av
		magB += bv * bv
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// RankTopK scores every candidate vector of matching dimensionality against
// the query, keeps the maximum per document (best chunk wins, no averaging),
// and returns at most k documents sorted by descending similarity. Documents
// whose vectors are all of mismatched dimensionality are silently excluded.
func RankTopK(query []float32, docs []CandidateDocument, k int) ([]RankedCandidate, error) {
	if len(query) == 0 {
		return nil, ErrEmptyQueryVector
	}

	ranked := make([]RankedCandidate, 0, len(docs))
	for _, doc := range docs {
		best := -1
		bestScore := 0.0
		for i, vec := range doc.Vectors {
			if len(vec) != len(query) {
				continue
			}
			score := CosineSimilarity(query, vec)
			if best == -1 || score > bestScore {
				best = i
				bestScore = score
			}
		}
		if best == -1 {
			// Incomparable, not an error
			continue
		}
		ranked = append(ranked, RankedCandidate{
			DocumentID:  doc.ID,
			Similarity:  bestScore,
			BestVector:  best,
			VectorCount: len(doc.Vectors),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Similarity > ranked[j].Similarity
	})

	if k > 0 && len(ranked) > k {
		ranked = ranked[:k]
	}
	return ranked, nil
}
