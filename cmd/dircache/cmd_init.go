package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/odvcencio/dircache/pkg/config"
	"github.com/odvcencio/dircache/pkg/repo"
)

func newInitDBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init-db [path]",
		Short: "Create an empty repository with its object store and index",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}
			if err := os.MkdirAll(abs, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}

			cfg := config.Default()
			cfg.ApplyEnv(lookupEnv)
			opts, err := cfg.RepoOptions(newLogger())
			if err != nil {
				return err
			}
			if opts.ObjectDir == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "defaulting to private storage area")
			}

			r, err := repo.Init(abs, opts)
			if err != nil {
				return err
			}
			if err := config.Write(config.Path(r.RootDir), config.Default()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "initialized empty dircache repository in %s\n", r.MetaDir+string(filepath.Separator))
			return nil
		},
	}
}
