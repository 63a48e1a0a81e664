package result

import (
	"time"

	"github.com/signalnine/seedrun/internal/runner"
)

// RunResult is the per-run record written to json/result_*.json and read
// back by `seedrun list`. Durations are in seconds.
type RunResult struct {
	StartTime          time.Time    `json:"start_time"`
	CaseCount          int          `json:"case_count"`
	TotalScore         uint64       `json:"total_score"`
	TotalScoreLog10    float64      `json:"total_score_log10"`
	TotalRelativeScore float64      `json:"total_relative_score"`
	MaxExecutionTime   float64      `json:"max_execution_time"`
	Comment            string       `json:"comment"`
	TagName            *string      `json:"tag_name"`
	WASeeds            []uint64     `json:"wa_seeds"`
	Cases              []CaseRecord `json:"cases"`
}

type CaseRecord struct {
	Seed          uint64  `json:"seed"`
	Score         uint64  `json:"score"`
	RelativeScore float64 `json:"relative_score"`
	ExecutionTime float64 `json:"execution_time"`
	ErrorMessage  string  `json:"error_message"`
}

// NewRunResult snapshots a finished run. tag is empty for untagged runs.
func NewRunResult(report *runner.RunReport, comment, tag string) *RunResult {
	rr := &RunResult{
		StartTime:          report.StartTime,
		CaseCount:          report.CaseCount(),
		TotalScore:         report.ScoreSum,
		TotalScoreLog10:    report.ScoreSumLog10,
		TotalRelativeScore: report.RelativeScoreSum,
		MaxExecutionTime:   report.MaxExecutionTime.Seconds(),
		Comment:            comment,
		WASeeds:            report.FailedSeeds(),
		Cases:              make([]CaseRecord, 0, report.CaseCount()),
	}
	if tag != "" {
		rr.TagName = &tag
	}
	for _, res := range report.Results {
		rr.Cases = append(rr.Cases, CaseRecord{
			Seed:          res.Seed(),
			Score:         uint64(res.Score),
			RelativeScore: res.RelativeScore,
			ExecutionTime: res.ExecutionTime.Seconds(),
			ErrorMessage:  res.Message,
		})
	}
	return rr
}

func (r *RunResult) AcceptedCount() int {
	return r.CaseCount - len(r.WASeeds)
}

func (r *RunResult) AverageScore() float64 {
	if r.CaseCount == 0 {
		return 0
	}
	return float64(r.TotalScore) / float64(r.CaseCount)
}

// AverageRelativeScore recomputes the relative score of every case against
// best, which may have improved since the run. Cases without a score count
// as zero.
func (r *RunResult) AverageRelativeScore(best map[uint64]runner.Score, obj runner.Objective) float64 {
	if r.CaseCount == 0 {
		return 0
	}
	var total float64
	for _, c := range r.Cases {
		if c.Score == 0 {
			continue
		}
		tc := runner.NewTestCase(c.Seed, best[c.Seed], obj)
		total += tc.RelativeScore(runner.Score(c.Score))
	}
	return total / float64(r.CaseCount)
}
