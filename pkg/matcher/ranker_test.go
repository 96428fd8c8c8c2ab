package matcher

import (
	"errors"
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"zero vector compares as zero", []float32{0, 0}, []float32{1, 2}, 0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0},
		{"scaling is irrelevant", []float32{1, 1}, []float32{5, 5}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.IsNaN(got) {
				t.Fatal("similarity must never be NaN")
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRankTopKEmptyQuery(t *testing.T) {
	_, err := RankTopK(nil, []CandidateDocument{{ID: "a", Vectors: [][]float32{{1}}}}, 5)
	if !errors.Is(err, ErrEmptyQueryVector) {
		t.Fatalf("want ErrEmptyQueryVector, got %v", err)
	}
}

func TestRankTopKBestChunkWins(t *testing.T) {
	query := []float32{1, 0}
	docs := []CandidateDocument{
		{
			// Second chunk is the near-perfect match; the weak main vector
			// must not drag the document down.
			ID: "doc-1",
			Vectors: [][]float32{
				{0, 1},
				{1, 0.01},
			},
		},
	}

	ranked, err := RankTopK(query, docs, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 1 {
		t.Fatalf("got %d results, want 1", len(ranked))
	}
	if ranked[0].BestVector != 1 {
		t.Errorf("best vector index = %d, want 1", ranked[0].BestVector)
	}
	if ranked[0].Similarity < 0.99 {
		t.Errorf("similarity %v should reflect the best chunk, not an average", ranked[0].Similarity)
	}
}

func TestRankTopKOrderingAndTruncation(t *testing.T) {
	query := []float32{1, 0}
	docs := []CandidateDocument{
		{ID: "low", Vectors: [][]float32{{0.1, 1}}},
		{ID: "high", Vectors: [][]float32{{1, 0.05}}},
		{ID: "mid", Vectors: [][]float32{{1, 1}}},
	}

	ranked, err := RankTopK(query, docs, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 2 {
		t.Fatalf("got %d results, want 2", len(ranked))
	}
	if ranked[0].DocumentID != "high" || ranked[1].DocumentID != "mid" {
		t.Errorf("wrong order: %s, %s", ranked[0].DocumentID, ranked[1].DocumentID)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Similarity > ranked[i-1].Similarity {
			t.Error("results not sorted by descending similarity")
		}
	}
}

func TestRankTopKSkipsMismatchedDimensions(t *testing.T) {
	query := []float32{1, 0, 0}
	docs := []CandidateDocument{
		{ID: "wrong-dims", Vectors: [][]float32{{1, 0}}},
		{ID: "mixed", Vectors: [][]float32{{1, 0}, {0.5, 0.5, 0}}},
		{ID: "ok", Vectors: [][]float32{{1, 0, 0}}},
	}

	ranked, err := RankTopK(query, docs, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 2 {
		t.Fatalf("got %d results, want 2 (wrong-dims must be excluded)", len(ranked))
	}
	for _, rc := range ranked {
		if rc.DocumentID == "wrong-dims" {
			t.Error("document with only mismatched vectors must be excluded")
		}
	}
}

func TestRankTopKNoCandidates(t *testing.T) {
	ranked, err := RankTopK([]float32{1}, nil, 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(ranked) != 0 {
		t.Errorf("got %d results, want 0", len(ranked))
	}
}
