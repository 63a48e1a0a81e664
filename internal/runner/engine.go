package runner

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
)

// RunConfig is everything the engine needs to run a batch.
type RunConfig struct {
	ScoreRegex   string
	TestSteps    []TestStep
	CompileSteps []CompileStep
	StartSeed    uint64
	EndSeed      uint64 // exclusive
	Threads      int    // 0 picks the physical core count
	Objective    Objective
}

// MaxCaseCount bounds the number of seeds in one run.
const MaxCaseCount = 1 << 24

func (c *RunConfig) Validate() error {
	if c.EndSeed <= c.StartSeed {
		return fmt.Errorf("%w: seed range [%d, %d) is empty; end_seed is exclusive and must be greater than start_seed",
			ErrInvalidConfig, c.StartSeed, c.EndSeed)
	}
	if c.EndSeed-c.StartSeed > MaxCaseCount {
		return fmt.Errorf("%w: seed range [%d, %d) has more than %d cases",
			ErrInvalidConfig, c.StartSeed, c.EndSeed, MaxCaseCount)
	}
	if c.Threads < 0 {
		return fmt.Errorf("%w: threads must not be negative", ErrInvalidConfig)
	}
	if _, err := NewScoreExtractor(c.ScoreRegex); err != nil {
		return err
	}
	if len(c.TestSteps) == 0 {
		return fmt.Errorf("%w: no test steps", ErrInvalidConfig)
	}
	for i, s := range c.TestSteps {
		if s.Program == "" {
			return fmt.Errorf("%w: test step %d: program is required", ErrInvalidConfig, i)
		}
	}
	return nil
}

// ProgressSink receives results while a run is in progress. OnCase is called
// once per case in completion order, never concurrently; OnSummary once at
// the end. An error from either aborts the run.
type ProgressSink interface {
	OnCase(result CaseResult) error
	OnSummary(report *RunReport) error
}

type Option func(*Engine)

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithShuffle randomizes the order in which cases are submitted.
func WithShuffle() Option {
	return func(e *Engine) { e.shuffle = true }
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine runs every test case of a RunConfig on a worker pool.
type Engine struct {
	cfg      RunConfig
	cases    []TestCase
	executor *CaseExecutor
	threads  int
	shuffle  bool
	logger   zerolog.Logger
	now      func() time.Time
}

// NewEngine validates cfg and builds one test case per seed, using best as
// the reference scores.
func NewEngine(cfg RunConfig, best map[uint64]Score, opts ...Option) (*Engine, error) {
	e := &Engine{
		cfg:    cfg,
		logger: zerolog.Nop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	extractor, err := NewScoreExtractor(cfg.ScoreRegex)
	if err != nil {
		return nil, err
	}
	executor, err := NewCaseExecutor(cfg.TestSteps, extractor, e.logger)
	if err != nil {
		return nil, err
	}
	e.executor = executor
	e.cases = BuildTestCases(cfg.StartSeed, cfg.EndSeed, best, cfg.Objective)
	e.threads = ResolveThreads(cfg.Threads)
	return e, nil
}

func (e *Engine) CaseCount() int { return len(e.cases) }

func (e *Engine) Threads() int { return e.threads }

// Run executes all cases, streams each result to sink and returns the
// aggregate report. Cases always run to completion; a sink failure stops
// further callbacks and is returned once the pool has drained.
func (e *Engine) Run(ctx context.Context, sink ProgressSink) (*RunReport, error) {
	cases := e.cases
	if e.shuffle {
		cases = append([]TestCase(nil), e.cases...)
		rand.Shuffle(len(cases), func(i, j int) { cases[i], cases[j] = cases[j], cases[i] })
	}

	start := e.now()
	e.logger.Info().Int("cases", len(cases)).Int("threads", e.threads).Msg("starting run")

	pool := RunPool(ctx, e.threads, cases, e.executor.Execute)
	results := make([]CaseResult, 0, len(cases))
	var sinkErr error
	for res := range pool.Results() {
		results = append(results, res)
		if sinkErr != nil {
			continue
		}
		if err := sink.OnCase(res); err != nil {
			sinkErr = fmt.Errorf("%w: %w", ErrSink, err)
		}
	}
	if err := pool.Err(); err != nil {
		return nil, err
	}
	if sinkErr != nil {
		return nil, sinkErr
	}

	report := NewRunReport(results, start)
	if err := sink.OnSummary(report); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSink, err)
	}
	e.logger.Info().Int("accepted", report.Accepted).Int("cases", report.CaseCount()).
		Dur("elapsed", time.Since(start)).Msg("run finished")
	return report, nil
}
