package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUpdateCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update-cache <paths...>",
		Short: "Hash files into the object store and record them in the index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, _, err := openRepo()
			if err != nil {
				return err
			}
			res, err := r.UpdateCache(args)
			if err != nil {
				return err
			}
			for _, s := range res.Skipped {
				fmt.Fprintf(cmd.ErrOrStderr(), "ignoring %s\n", s)
			}
			return nil
		},
	}
}
