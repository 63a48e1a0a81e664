package cmd

import (
	"github.com/spf13/cobra"

	"github.com/signalnine/seedrun/internal/config"
	"github.com/signalnine/seedrun/internal/report"
	"github.com/signalnine/seedrun/internal/result"
)

var (
	flagLimit  int
	flagFormat string
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List past runs, newest first",
		RunE:  runList,
	}
	cmd.Flags().IntVarP(&flagLimit, "limit", "n", 10, "number of runs to show (0 for all)")
	cmd.Flags().StringVar(&flagFormat, "format", "table", "output format: table or json")
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(settingFile)
	if err != nil {
		return err
	}
	logger := newLogger(cmd)
	runs, err := result.ListRunResults(cfg.Test.OutDir, flagLimit, logger)
	if err != nil {
		return err
	}
	best, err := result.LoadBestScores(result.BestScorePath(cfg.Test.OutDir))
	if err != nil {
		logger.Warn().Err(err).Msg("ignoring best scores")
		best = nil
	}
	rows := report.Summarize(runs, best, cfg.Objective())
	return report.WriteHistory(cmd.OutOrStdout(), rows, flagFormat)
}
