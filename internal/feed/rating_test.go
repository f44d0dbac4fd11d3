package feed

import "testing"

func ratings(vals ...int) []Review {
	out := make([]Review, len(vals))
	for i, v := range vals {
		out[i] = Review{ID: int64(i + 1), Rating: v}
	}
	return out
}

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name string
		in   []Review
		want float64
	}{
		{"empty", nil, 0},
		{"two reviews", ratings(4, 2), 3.0},
		{"rounds to one decimal", ratings(5, 4, 4), 4.3},
		{"single", ratings(1), 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AverageRating(tt.in); got != tt.want {
				t.Fatalf("average = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStarDistributionEmptyHasNoNaN(t *testing.T) {
	dist := StarDistribution(nil)
	for star := 1; star <= 5; star++ {
		if dist[star] != 0 {
			t.Fatalf("star %d = %v, want 0", star, dist[star])
		}
	}
	if len(dist) != 5 {
		t.Fatalf("distribution has %d buckets, want 5", len(dist))
	}
}

func TestStarDistributionPercentages(t *testing.T) {
	dist := StarDistribution(ratings(5, 5, 3, 1))
	if dist[5] != 50 {
		t.Fatalf("five-star = %v, want 50", dist[5])
	}
	if dist[3] != 25 || dist[1] != 25 {
		t.Fatalf("three = %v one = %v, want 25 each", dist[3], dist[1])
	}
	if dist[2] != 0 || dist[4] != 0 {
		t.Fatalf("empty buckets not zero: %v", dist)
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(ratings(4, 2))
	if s.Total != 2 || s.Average != 3.0 {
		t.Fatalf("summary = %+v", s)
	}
	if s.Stars[4] != 50 || s.Stars[2] != 50 {
		t.Fatalf("stars = %v", s.Stars)
	}
}
