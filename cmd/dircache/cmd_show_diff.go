package main

import (
	"github.com/spf13/cobra"
)

func newShowDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show-diff",
		Short: "Show tracked files that changed since they were cached",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := openRepo()
			if err != nil {
				return err
			}
			return r.ShowDiff(cmd.OutOrStdout())
		},
	}
}
