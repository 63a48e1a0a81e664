package runner

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/rs/zerolog"
)

// CaseExecutor runs the ordered steps of a test case and classifies the
// outcome. It is safe for concurrent use; all state is read-only.
type CaseExecutor struct {
	steps     []preparedStep
	extractor *ScoreExtractor
	goos      string
	logger    zerolog.Logger
}

func NewCaseExecutor(steps []TestStep, extractor *ScoreExtractor, logger zerolog.Logger) (*CaseExecutor, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: no test steps", ErrInvalidConfig)
	}
	prepared := make([]preparedStep, 0, len(steps))
	for i, step := range steps {
		if step.Program == "" {
			return nil, fmt.Errorf("%w: test step %d: program is required", ErrInvalidConfig, i)
		}
		prepared = append(prepared, prepareStep(step, logger))
	}
	return &CaseExecutor{
		steps:     prepared,
		extractor: extractor,
		goos:      runtime.GOOS,
		logger:    logger,
	}, nil
}

// Execute runs every enabled step for tc. The first failing step stops the
// case and its result carries no execution time.
func (e *CaseExecutor) Execute(ctx context.Context, tc TestCase) CaseResult {
	var (
		outputs [][]byte
		elapsed time.Duration
	)
	for i := range e.steps {
		step := &e.steps[i]
		if !step.enabledOn(e.goos) {
			continue
		}
		out, err := runStep(ctx, step, tc.Seed)
		if err != nil {
			e.logger.Debug().Uint64("seed", tc.Seed).Str("program", step.Program).Err(err).Msg("step failed")
			return NewFailure(tc, err.Error(), 0)
		}
		e.logger.Debug().Uint64("seed", tc.Seed).Str("program", step.Program).
			Bytes("stdout", out.stdout).Bytes("stderr", out.stderr).Msg("step output")
		outputs = append(outputs, out.stdout, out.stderr)
		if step.MeasureTime {
			elapsed += out.elapsed
		}
	}

	score, err := e.extractor.Extract(outputs)
	if err != nil {
		return NewFailure(tc, err.Error(), elapsed)
	}
	return NewSuccess(tc, score, elapsed)
}
