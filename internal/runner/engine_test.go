package runner_test

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalnine/seedrun/internal/runner"
)

type recordingSink struct {
	inFlight  atomic.Int32
	cases     []runner.CaseResult
	summaries []*runner.RunReport
	caseErr   error
	failAfter int
}

func (s *recordingSink) OnCase(r runner.CaseResult) error {
	if s.inFlight.Add(1) != 1 {
		panic("concurrent OnCase")
	}
	defer s.inFlight.Add(-1)
	s.cases = append(s.cases, r)
	if s.caseErr != nil && len(s.cases) > s.failAfter {
		return s.caseErr
	}
	return nil
}

func (s *recordingSink) OnSummary(r *runner.RunReport) error {
	s.summaries = append(s.summaries, r)
	return nil
}

func echoConfig(start, end uint64, threads int, line string) runner.RunConfig {
	return runner.RunConfig{
		ScoreRegex: scoreRegex,
		TestSteps:  []runner.TestStep{{Program: "echo", Args: []string{line}, MeasureTime: true}},
		StartSeed:  start,
		EndSeed:    end,
		Threads:    threads,
		Objective:  runner.Maximize,
	}
}

func TestEngineHappyPath(t *testing.T) {
	requireShell(t)
	best := map[uint64]runner.Score{0: 100, 1: 200, 2: 50}
	engine, err := runner.NewEngine(echoConfig(0, 4, 0, "Score = 100"), best)
	require.NoError(t, err)

	sink := &recordingSink{}
	report, err := engine.Run(context.Background(), sink)
	require.NoError(t, err)

	require.Len(t, report.Results, 4)
	assert.Len(t, sink.cases, 4)
	require.Len(t, sink.summaries, 1)
	assert.Same(t, report, sink.summaries[0])

	wantRelative := []float64{100, 50, 200, 100}
	wantBest := []bool{true, false, true, true}
	for i, res := range report.Results {
		assert.Equal(t, uint64(i), res.Seed())
		require.True(t, res.Accepted(), res.Message)
		assert.Equal(t, runner.Score(100), res.Score)
		assert.InDelta(t, wantRelative[i], res.RelativeScore, 1e-9)
		assert.Equal(t, wantBest[i], res.IsBest(), "seed %d", i)
	}
	assert.Equal(t, uint64(400), report.ScoreSum)
	assert.InDelta(t, 8.0, report.ScoreSumLog10, 1e-9)
	assert.InDelta(t, 450.0, report.RelativeScoreSum, 1e-9)
	assert.Equal(t, 4, report.Accepted)
	assert.Empty(t, report.FailedSeeds())
}

func TestEngineFailingStep(t *testing.T) {
	requireShell(t)
	cfg := echoConfig(0, 5, 2, "")
	cfg.TestSteps = []runner.TestStep{{Program: "false", MeasureTime: true}}
	engine, err := runner.NewEngine(cfg, nil)
	require.NoError(t, err)

	report, err := engine.Run(context.Background(), &recordingSink{})
	require.NoError(t, err)

	require.Len(t, report.Results, 5)
	for _, res := range report.Results {
		assert.False(t, res.Accepted())
		assert.Contains(t, res.Message, "Failed to run")
		assert.Zero(t, res.ExecutionTime)
	}
	assert.Zero(t, report.ScoreSum)
	assert.Zero(t, report.ScoreSumLog10)
	assert.Zero(t, report.Accepted)
	assert.Equal(t, []uint64{0, 1, 2, 3, 4}, report.FailedSeeds())
}

func TestEngineScoreProblems(t *testing.T) {
	requireShell(t)
	tests := []struct {
		name string
		line string
		want string
	}{
		{"wrong answer", "Score = 0", "Wrong Answer"},
		{"missing score", "invalid_output", "Score not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, err := runner.NewEngine(echoConfig(10, 12, 1, tt.line), map[uint64]runner.Score{10: 5})
			require.NoError(t, err)
			report, err := engine.Run(context.Background(), &recordingSink{})
			require.NoError(t, err)
			for _, res := range report.Results {
				assert.Equal(t, tt.want, res.Message)
				assert.False(t, res.IsBest())
			}
		})
	}
}

func TestEngineLastMatchWins(t *testing.T) {
	requireShell(t)
	cfg := echoConfig(0, 1, 1, "")
	cfg.TestSteps = []runner.TestStep{shStep(`printf 'Score = 1\nScore = 9\n'`)}
	engine, err := runner.NewEngine(cfg, nil)
	require.NoError(t, err)

	report, err := engine.Run(context.Background(), &recordingSink{})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, runner.Score(9), report.Results[0].Score)
}

func parallelConfig(threads int) runner.RunConfig {
	cfg := echoConfig(0, 100, threads, "")
	cfg.TestSteps = []runner.TestStep{shStep(`sleep 0.0$(( {SEED} % 7 )); echo "Score = $(( {SEED} + 1 ))"`)}
	return cfg
}

func TestEngineOrderingUnderParallelism(t *testing.T) {
	requireShell(t)
	engine, err := runner.NewEngine(parallelConfig(8), nil)
	require.NoError(t, err)
	assert.Equal(t, 8, engine.Threads())

	sink := &recordingSink{}
	report, err := engine.Run(context.Background(), sink)
	require.NoError(t, err)

	require.Len(t, report.Results, 100)
	var sum uint64
	var log10 float64
	for i, res := range report.Results {
		require.Equal(t, uint64(i), res.Seed())
		require.True(t, res.Accepted(), res.Message)
		assert.Equal(t, runner.Score(i+1), res.Score)
		sum += uint64(res.Score)
		log10 += math.Log10(float64(res.Score))
	}
	assert.Equal(t, sum, report.ScoreSum)
	assert.InDelta(t, log10, report.ScoreSumLog10, 1e-9)
	assert.Len(t, sink.cases, 100)
}

func TestEngineThreadCountDoesNotChangeResults(t *testing.T) {
	requireShell(t)
	run := func(threads int) *runner.RunReport {
		engine, err := runner.NewEngine(parallelConfig(threads), nil, runner.WithShuffle())
		require.NoError(t, err)
		report, err := engine.Run(context.Background(), &recordingSink{})
		require.NoError(t, err)
		return report
	}
	a, b := run(1), run(6)
	assert.Equal(t, a.ScoreSum, b.ScoreSum)
	assert.InDelta(t, a.ScoreSumLog10, b.ScoreSumLog10, 1e-9)
	assert.InDelta(t, a.RelativeScoreSum, b.RelativeScoreSum, 1e-9)
	require.Len(t, b.Results, len(a.Results))
	for i := range a.Results {
		assert.Equal(t, a.Results[i].Seed(), b.Results[i].Seed())
		assert.Equal(t, a.Results[i].Score, b.Results[i].Score)
	}
}

func TestEngineSinkErrorIsFatal(t *testing.T) {
	requireShell(t)
	engine, err := runner.NewEngine(echoConfig(0, 6, 2, "Score = 3"), nil)
	require.NoError(t, err)

	sinkErr := errors.New("stdout closed")
	sink := &recordingSink{caseErr: sinkErr, failAfter: 1}
	report, err := engine.Run(context.Background(), sink)
	assert.Nil(t, report)
	assert.ErrorIs(t, err, runner.ErrSink)
	assert.ErrorIs(t, err, sinkErr)
	assert.Len(t, sink.cases, 2, "no callbacks after the failing one")
	assert.Empty(t, sink.summaries)
}

func TestEngineStartTimeFromClock(t *testing.T) {
	requireShell(t)
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	engine, err := runner.NewEngine(echoConfig(0, 1, 1, "Score = 1"), nil,
		runner.WithClock(func() time.Time { return at }))
	require.NoError(t, err)
	report, err := engine.Run(context.Background(), &recordingSink{})
	require.NoError(t, err)
	assert.Equal(t, at, report.StartTime)
}

func TestNewEngineInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*runner.RunConfig)
	}{
		{"empty range", func(c *runner.RunConfig) { c.EndSeed = c.StartSeed }},
		{"reversed range", func(c *runner.RunConfig) { c.StartSeed, c.EndSeed = 10, 5 }},
		{"bad regex", func(c *runner.RunConfig) { c.ScoreRegex = "(" }},
		{"missing group", func(c *runner.RunConfig) { c.ScoreRegex = `Score = (\d+)` }},
		{"no steps", func(c *runner.RunConfig) { c.TestSteps = nil }},
		{"empty program", func(c *runner.RunConfig) { c.TestSteps = []runner.TestStep{{}} }},
		{"negative threads", func(c *runner.RunConfig) { c.Threads = -1 }},
		{"range too large", func(c *runner.RunConfig) { c.StartSeed, c.EndSeed = 0, 1<<62 }},
		{"just over the limit", func(c *runner.RunConfig) { c.StartSeed, c.EndSeed = 5, 5+runner.MaxCaseCount+1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := echoConfig(0, 3, 1, "Score = 1")
			tt.mutate(&cfg)
			_, err := runner.NewEngine(cfg, nil)
			assert.ErrorIs(t, err, runner.ErrInvalidConfig)
		})
	}
}
