package ranking

import (
	"math"

	"github.com/kailas-cloud/expertdesk/internal/domain/recommendation"
)

const (
	// FallbackConfidence is reported when no expert passed the ranking threshold.
	FallbackConfidence = 30
	// AssumedCompleteness is the data-quality figure used for the loaded roster.
	AssumedCompleteness = 0.8

	matchWeight        = 0.8
	completenessWeight = 0.2
)

// Confidence blends the mean match fraction (0-1) with a completeness signal (0-1)
// into an integer in [0, 100].
func Confidence(meanMatchFraction, completeness float64) int {
	v := meanMatchFraction*matchWeight + completeness*completenessWeight
	v = max(0, min(1, v))
	return int(math.Floor(v * 100))
}

// OverallConfidence returns the confidence for a ranked set: FallbackConfidence
// when empty, otherwise Confidence over the mean match score.
func OverallConfidence(recs []recommendation.Recommendation) int {
	if len(recs) == 0 {
		return FallbackConfidence
	}
	total := 0
	for i := range recs {
		total += recs[i].MatchScore()
	}
	mean := float64(total) / float64(len(recs))
	return Confidence(mean/100, AssumedCompleteness)
}
