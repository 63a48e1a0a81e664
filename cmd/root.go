package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/signalnine/seedrun/internal/config"
	"github.com/signalnine/seedrun/internal/logging"
)

var (
	settingFile string
	verbose     bool
)

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "seedrun",
		Short:        "Parallel local test runner for heuristic contests",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&settingFile, "setting-file", config.DefaultPath, "project setting file path")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug events, including captured solver output")
	root.AddCommand(newInitCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newPruneCmd())
	return root
}

func newLogger(cmd *cobra.Command) zerolog.Logger {
	return logging.New(cmd.ErrOrStderr(), verbose)
}
