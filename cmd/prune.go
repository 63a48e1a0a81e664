package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/signalnine/seedrun/internal/gitops"
)

func newPruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Delete every seedrun/* git tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			deleted, err := gitops.PruneTags(".")
			for _, tag := range deleted {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag: %s\n", tag)
			}
			return err
		},
	}
}
