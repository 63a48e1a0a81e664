package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signalnine/seedrun/internal/config"
	"github.com/signalnine/seedrun/internal/runner"
)

var (
	flagProblem     string
	flagObjective   string
	flagLang        string
	flagInteractive bool
	flagForce       bool
)

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a project setting file",
		RunE:  runInit,
	}
	cmd.Flags().StringVarP(&flagProblem, "problem", "p", "", "problem name, e.g. ahc001")
	cmd.Flags().StringVarP(&flagObjective, "objective", "o", "max", "score objective: max or min")
	cmd.Flags().StringVarP(&flagLang, "lang", "l", "rust", fmt.Sprintf("solver language %v", config.Languages))
	cmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "run the solver through the interactive tester")
	cmd.Flags().BoolVar(&flagForce, "force", false, "overwrite an existing setting file")
	_ = cmd.MarkFlagRequired("problem")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	obj, err := runner.ParseObjective(flagObjective)
	if err != nil {
		return err
	}
	if !config.ValidLanguage(flagLang) {
		return fmt.Errorf("unsupported language %q (choose from %v)", flagLang, config.Languages)
	}
	cfg, err := config.Template(config.InitOptions{
		ProblemName: flagProblem,
		Objective:   obj,
		Lang:        flagLang,
		Interactive: flagInteractive,
	})
	if err != nil {
		return err
	}
	if err := config.Write(settingFile, cfg, flagForce); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", settingFile)
	return nil
}
