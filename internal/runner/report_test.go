package runner_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/signalnine/seedrun/internal/runner"
)

func TestNewRunReport(t *testing.T) {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	results := []runner.CaseResult{
		runner.NewSuccess(runner.NewTestCase(2, 0, runner.Maximize), 1000, 30*time.Millisecond),
		runner.NewFailure(runner.NewTestCase(0, 0, runner.Maximize), "Wrong Answer", 90*time.Millisecond),
		runner.NewSuccess(runner.NewTestCase(1, 0, runner.Maximize), 10000, 10*time.Millisecond),
	}
	report := runner.NewRunReport(results, start)

	assert.Equal(t, 3, report.CaseCount())
	assert.Equal(t, uint64(0), report.Results[0].Seed())
	assert.Equal(t, uint64(2), report.Results[2].Seed())
	assert.Equal(t, uint64(11000), report.ScoreSum)
	assert.InDelta(t, 7.0, report.ScoreSumLog10, 1e-9)
	assert.InDelta(t, 200.0, report.RelativeScoreSum, 1e-9)
	assert.Equal(t, 2, report.Accepted)
	assert.Equal(t, 90*time.Millisecond, report.MaxExecutionTime)
	assert.Equal(t, start, report.StartTime)
	assert.Equal(t, []uint64{0}, report.FailedSeeds())

	assert.InDelta(t, 11000.0/3, report.AverageScore(), 1e-9)
	assert.InDelta(t, 7.0/3, report.AverageScoreLog10(), 1e-9)
	assert.InDelta(t, 200.0/3, report.AverageRelativeScore(), 1e-9)
}

func TestNewRunReportClampsLog10(t *testing.T) {
	// log10(1) is zero, so a run of ones must not go negative.
	results := []runner.CaseResult{
		runner.NewSuccess(runner.NewTestCase(0, 0, runner.Minimize), 1, 0),
		runner.NewSuccess(runner.NewTestCase(1, 0, runner.Minimize), 1, 0),
	}
	report := runner.NewRunReport(results, time.Time{})
	assert.Zero(t, report.ScoreSumLog10)
	assert.GreaterOrEqual(t, report.RelativeScoreSum, 0.0)
}

func TestNewRunReportEmpty(t *testing.T) {
	report := runner.NewRunReport(nil, time.Time{})
	assert.Zero(t, report.CaseCount())
	assert.Zero(t, report.AverageScore())
	assert.Zero(t, report.AverageRelativeScore())
	assert.NotNil(t, report.FailedSeeds())
}
