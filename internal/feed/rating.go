package feed

import "math"

// RatingSummary is the establishment-page aggregate: review count, one
// decimal average and the percentage of reviews at each star value.
type RatingSummary struct {
	Total   int             `json:"total_reviews"`
	Average float64         `json:"average"`
	Stars   map[int]float64 `json:"stars"`
}

// AverageRating returns the mean rating rounded to one decimal place.
// An empty set averages to 0, never a division by zero.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(reviews))
	return math.Round(avg*10) / 10
}

// StarDistribution returns, per star value 1..5, the percentage of
// reviews at that value. Empty input yields all zeros, not NaN.
func StarDistribution(reviews []Review) map[int]float64 {
	dist := map[int]float64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}
	if len(reviews) == 0 {
		return dist
	}
	for _, r := range reviews {
		if r.Rating >= 1 && r.Rating <= 5 {
			dist[r.Rating]++
		}
	}
	total := float64(len(reviews))
	for star := 1; star <= 5; star++ {
		dist[star] = dist[star] / total * 100
	}
	return dist
}

func Summarize(reviews []Review) RatingSummary {
	return RatingSummary{
		Total:   len(reviews),
		Average: AverageRating(reviews),
		Stars:   StarDistribution(reviews),
	}
}
