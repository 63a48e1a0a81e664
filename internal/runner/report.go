package runner

import (
	"math"
	"sort"
	"time"
)

// RunReport aggregates every case of a run. Results are sorted by seed.
type RunReport struct {
	Results          []CaseResult
	ScoreSum         uint64
	ScoreSumLog10    float64
	RelativeScoreSum float64
	StartTime        time.Time
	MaxExecutionTime time.Duration
	Accepted         int
}

// NewRunReport sorts results by seed in place and computes the totals.
// The log10 and relative sums are clamped at zero.
func NewRunReport(results []CaseResult, start time.Time) *RunReport {
	sort.Slice(results, func(i, j int) bool {
		return results[i].Seed() < results[j].Seed()
	})

	r := &RunReport{Results: results, StartTime: start}
	for _, res := range results {
		r.MaxExecutionTime = max(r.MaxExecutionTime, res.ExecutionTime)
		if !res.Accepted() {
			continue
		}
		r.Accepted++
		r.ScoreSum += uint64(res.Score)
		r.ScoreSumLog10 += math.Log10(float64(res.Score))
		r.RelativeScoreSum += res.RelativeScore
	}
	r.ScoreSumLog10 = max(r.ScoreSumLog10, 0)
	r.RelativeScoreSum = max(r.RelativeScoreSum, 0)
	return r
}

func (r *RunReport) CaseCount() int { return len(r.Results) }

func (r *RunReport) average(sum float64) float64 {
	if len(r.Results) == 0 {
		return 0
	}
	return sum / float64(len(r.Results))
}

func (r *RunReport) AverageScore() float64 { return r.average(float64(r.ScoreSum)) }

func (r *RunReport) AverageScoreLog10() float64 { return r.average(r.ScoreSumLog10) }

func (r *RunReport) AverageRelativeScore() float64 { return r.average(r.RelativeScoreSum) }

// FailedSeeds lists the seeds whose case did not produce a score.
func (r *RunReport) FailedSeeds() []uint64 {
	seeds := []uint64{}
	for _, res := range r.Results {
		if !res.Accepted() {
			seeds = append(seeds, res.Seed())
		}
	}
	return seeds
}
