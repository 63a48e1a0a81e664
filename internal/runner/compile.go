package runner

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"

	"github.com/rs/zerolog"
)

// Compile runs the compile steps in order with output forwarded to stdout
// and stderr. The first failing step aborts with ErrCompileFailed.
func Compile(ctx context.Context, steps []CompileStep, stdout, stderr io.Writer, logger zerolog.Logger) error {
	for i, step := range steps {
		if step.Program == "" {
			return fmt.Errorf("%w: compile step %d: program is required", ErrInvalidConfig, i)
		}
		if re := compileOSFilter(step.Program, step.OS, logger); re != nil && !re.MatchString(runtime.GOOS) {
			logger.Debug().Str("program", step.Program).Msg("skipping compile step for this OS")
			continue
		}

		cmd := exec.CommandContext(ctx, step.Program, step.Args...)
		cmd.Dir = step.Dir
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		logger.Info().Str("cmd", cmd.String()).Msg("compiling")
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrCompileFailed, cmd.String(), err)
		}
	}
	return nil
}
