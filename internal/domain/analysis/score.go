package analysis

import (
	"math"

	"github.com/bryanwahyu/repo-insight/internal/domain/techstack"
)

const (
	MinScore = 1
	MaxScore = 10
)

// Signals are the per-file facts the aggregator needs beyond the score.
type Signals struct {
	Score               int
	HasSecurityConcerns bool
}

// Aggregate computes the repository score:
//
//	avg(file scores)
//	+ min(2, 0.5 * architecture patterns)
//	+ min(1, 0.2 * frameworks)
//	- min(2, 0.3 * files with security notes)
//
// rounded half up and clamped to [1,10]. With no files the score is 1.
func Aggregate(files []Signals, profile *techstack.Profile) int {
	if len(files) == 0 {
		return MinScore
	}
	sum, flagged := 0, 0
	for _, f := range files {
		sum += f.Score
		if f.HasSecurityConcerns {
			flagged++
		}
	}
	total := float64(sum) / float64(len(files))
	if profile != nil {
		total += math.Min(2, 0.5*float64(len(profile.Architecture)))
		total += math.Min(1, 0.2*float64(len(profile.Frameworks)))
	}
	total -= math.Min(2, 0.3*float64(flagged))

	score := int(math.Floor(total + 0.5))
	return max(MinScore, min(MaxScore, score))
}

// Average is the mean per-file score, 0 for no files.
func Average(files []Signals) float64 {
	if len(files) == 0 {
		return 0
	}
	sum := 0
	for _, f := range files {
		sum += f.Score
	}
	return float64(sum) / float64(len(files))
}
