package cmd

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/signalnine/seedrun/internal/config"
	"github.com/signalnine/seedrun/internal/gitops"
	"github.com/signalnine/seedrun/internal/report"
	"github.com/signalnine/seedrun/internal/result"
	"github.com/signalnine/seedrun/internal/runner"
)

// randomTag is the --tag value used when the flag is given without a name.
const randomTag = "@random"

var (
	flagShuffle          bool
	flagComment          string
	flagJSON             bool
	flagTag              string
	flagFreezeBestScores bool
	flagNoResultFile     bool
	flagNoCompile        bool
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run every seed of the configured range",
		Args:  runArgs,
		RunE:  runTests,
	}
	cmd.Flags().BoolVarP(&flagShuffle, "shuffle", "s", false, "run the cases in random order")
	cmd.Flags().StringVarP(&flagComment, "comment", "c", "", "comment recorded with the run")
	cmd.Flags().BoolVarP(&flagJSON, "json", "j", false, "print one JSON object per case instead of the table")
	cmd.Flags().StringVarP(&flagTag, "tag", "t", "", "snapshot the working tree as git tag seedrun/<name> (random name when omitted)")
	cmd.Flags().Lookup("tag").NoOptDefVal = randomTag
	cmd.Flags().BoolVar(&flagFreezeBestScores, "freeze-best-scores", false, "do not update best_scores.json")
	cmd.Flags().BoolVar(&flagNoResultFile, "no-result-file", false, "do not write summary.md or the per-run JSON")
	cmd.Flags().BoolVar(&flagNoCompile, "no-compile", false, "skip the compile steps")
	return cmd
}

// runArgs accepts a single positional argument only as the name following
// a bare -t, which pflag cannot bind because the flag value is optional.
func runArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}
	if len(args) == 1 && cmd.Flags().Changed("tag") && flagTag == randomTag {
		return nil
	}
	return fmt.Errorf("unexpected argument %q", args[0])
}

// snapshotName maps the --tag flag onto the name passed to gitops.Snapshot.
// ok is false when no snapshot was requested.
func snapshotName(cmd *cobra.Command, args []string) (name string, ok bool) {
	if !cmd.Flags().Changed("tag") {
		return "", false
	}
	if flagTag == randomTag {
		if len(args) == 1 {
			return args[0], true
		}
		return "", true
	}
	return flagTag, true
}

func runTests(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := newLogger(cmd)
	stdout := cmd.OutOrStdout()

	cfg, err := config.Load(settingFile)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(config.NewViper()); err != nil {
		return err
	}
	rc := cfg.RunConfig()
	if err := rc.Validate(); err != nil {
		return err
	}

	tag := ""
	if name, ok := snapshotName(cmd, args); ok {
		if tag, err = gitops.Snapshot(".", name); err != nil {
			return fmt.Errorf("creating snapshot: %w", err)
		}
		logger.Info().Str("tag", tag).Msg("snapshot created")
	}

	if !flagNoCompile {
		// keep stdout machine-readable in JSON mode
		compileOut := stdout
		if flagJSON {
			compileOut = cmd.ErrOrStderr()
		}
		if err := runner.Compile(ctx, rc.CompileSteps, compileOut, cmd.ErrOrStderr(), logger); err != nil {
			return err
		}
	}

	bestPath := result.BestScorePath(cfg.Test.OutDir)
	best, err := result.LoadBestScores(bestPath)
	if err != nil {
		return err
	}

	opts := []runner.Option{runner.WithLogger(logger)}
	if flagShuffle {
		opts = append(opts, runner.WithShuffle())
	}
	engine, err := runner.NewEngine(rc, best, opts...)
	if err != nil {
		return err
	}

	rep, err := engine.Run(ctx, newSink(stdout, flagJSON, engine.CaseCount()))
	if err != nil {
		return err
	}

	if !flagNoResultFile {
		if err := saveResults(cfg.Test.OutDir, rep, tag, logger); err != nil {
			return err
		}
	}
	if !flagFreezeBestScores {
		if n := result.UpdateBestScores(best, rep); n > 0 {
			logger.Info().Int("seeds", n).Msg("best scores updated")
		}
		if err := result.SaveBestScores(bestPath, best); err != nil {
			return err
		}
	}
	return nil
}

func newSink(w io.Writer, asJSON bool, total int) runner.ProgressSink {
	if asJSON {
		return report.NewJSONSink(w)
	}
	return report.NewConsoleSink(w, total)
}

func saveResults(outDir string, rep *runner.RunReport, tag string, logger zerolog.Logger) error {
	if err := result.AppendSummary(result.SummaryPath(outDir), rep, flagComment, tag); err != nil {
		return err
	}
	path, err := result.WriteRunResult(outDir, result.NewRunResult(rep, flagComment, tag))
	if err != nil {
		return err
	}
	logger.Debug().Str("path", path).Msg("run result written")
	return nil
}
