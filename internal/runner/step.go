package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"

	"github.com/rs/zerolog"
)

type stepOutput struct {
	stdout  []byte
	stderr  []byte
	elapsed time.Duration
}

// preparedStep is a TestStep with its OS filter compiled.
type preparedStep struct {
	TestStep
	osFilter *regexp.Regexp
}

func prepareStep(step TestStep, logger zerolog.Logger) preparedStep {
	return preparedStep{
		TestStep: step,
		osFilter: compileOSFilter(step.Program, step.OS, logger),
	}
}

// compileOSFilter returns nil when the step should run everywhere. A pattern
// that does not compile is reported and ignored.
func compileOSFilter(program, expr string, logger zerolog.Logger) *regexp.Regexp {
	if expr == "" {
		return nil
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		logger.Warn().Err(err).Str("program", program).Str("os", expr).
			Msg("ignoring malformed OS filter")
		return nil
	}
	return re
}

func (s *preparedStep) enabledOn(goos string) bool {
	return s.osFilter == nil || s.osFilter.MatchString(goos)
}

// runStep executes one step for one seed. Captured output is written to
// the configured files before the exit status is checked so that a failing
// step still leaves its diagnostics behind.
func runStep(ctx context.Context, step *preparedStep, seed uint64) (*stepOutput, error) {
	args := make([]string, len(step.Args))
	for i, arg := range step.Args {
		args[i] = ExpandPlaceholders(arg, seed)
	}

	cmd := exec.CommandContext(ctx, step.Program, args...)
	if step.Dir != "" {
		cmd.Dir = ExpandPlaceholders(step.Dir, seed)
	}

	if step.Stdin != "" {
		path := ExpandPlaceholders(step.Stdin, seed)
		f, err := os.Open(path)
		if err != nil {
			return nil, &CaseError{Kind: InputOpen, Path: path, Err: err}
		}
		defer f.Close()
		cmd.Stdin = f
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Start(); err != nil {
		return nil, &CaseError{Kind: SpawnFailed, Cmd: cmd.String(), Err: err}
	}
	waitErr := cmd.Wait()
	elapsed := time.Since(start)

	if step.Stdout != "" {
		if err := writeOutput(ExpandPlaceholders(step.Stdout, seed), stdout.Bytes()); err != nil {
			return nil, err
		}
	}
	if step.Stderr != "" {
		if err := writeOutput(ExpandPlaceholders(step.Stderr, seed), stderr.Bytes()); err != nil {
			return nil, err
		}
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return nil, &CaseError{Kind: StepFailed, Cmd: cmd.String(), Status: exitErr.String(), Err: waitErr}
		}
		return nil, &CaseError{Kind: StepFailed, Cmd: cmd.String(), Err: waitErr}
	}

	return &stepOutput{
		stdout:  stdout.Bytes(),
		stderr:  stderr.Bytes(),
		elapsed: elapsed,
	}, nil
}

func writeOutput(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &CaseError{Kind: OutputWrite, Path: path, Err: err}
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &CaseError{Kind: OutputWrite, Path: path, Err: err}
	}
	return nil
}
