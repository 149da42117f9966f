package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/odvcencio/dircache/pkg/object"
)

func newCatFileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cat-file <hash>",
		Short: "Write an object's contents to a temp file and print its type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := object.ParseHash(args[0])
			if err != nil {
				return err
			}
			r, _, err := openRepo()
			if err != nil {
				return err
			}
			typ, data, err := r.CatFile(h)
			if err != nil {
				return err
			}

			f, err := os.CreateTemp(".", "temp_git_file_*")
			if err != nil {
				return fmt.Errorf("cat file: %w", err)
			}
			if _, err := f.Write(data); err != nil {
				f.Close()
				os.Remove(f.Name())
				return fmt.Errorf("cat file: %w", err)
			}
			if err := f.Close(); err != nil {
				os.Remove(f.Name())
				return fmt.Errorf("cat file: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", filepath.Base(f.Name()), typ)
			return nil
		},
	}
}
