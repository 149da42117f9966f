package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/odvcencio/dircache/pkg/object"
)

func newCommitTreeCmd() *cobra.Command {
	var parentArgs []string

	cmd := &cobra.Command{
		Use:   "commit-tree <tree> [-p <parent>]...",
		Short: "Create a commit object for a tree, reading the message from stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := object.ParseHash(args[0])
			if err != nil {
				return fmt.Errorf("tree: %w", err)
			}
			parents := make([]object.Hash, 0, len(parentArgs))
			for _, p := range parentArgs {
				h, err := object.ParseHash(p)
				if err != nil {
					return fmt.Errorf("parent: %w", err)
				}
				parents = append(parents, h)
			}

			r, cfg, err := openRepo()
			if err != nil {
				return err
			}
			msg, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read message: %w", err)
			}

			cfg.FillIdentity(lookupSystem())
			when := now()
			if len(parents) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "Committing initial tree %s\n", tree)
			}
			h, err := r.CommitTree(tree, parents, cfg.Author.Line(when), cfg.Committer.Line(when), string(msg))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&parentArgs, "parent", "p", nil, "parent commit (repeatable, order is kept)")
	return cmd
}
