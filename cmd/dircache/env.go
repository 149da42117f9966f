package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/odvcencio/dircache/pkg/config"
	"github.com/odvcencio/dircache/pkg/repo"
)

var (
	verbose bool

	// Replaced in tests.
	lookupEnv    = os.LookupEnv
	lookupSystem = config.LookupSystem
	now          = time.Now
)

// newLogger returns a development logger when --verbose is set, and
// otherwise a production logger that only reports errors; per-path
// problems are already printed to stderr by the commands.
func newLogger() *zap.Logger {
	var (
		log *zap.Logger
		err error
	)
	if verbose {
		log, err = zap.NewDevelopment()
	} else {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
		log, err = cfg.Build()
	}
	if err != nil {
		return zap.NewNop()
	}
	return log
}

// openRepo locates the repository containing the working directory and
// opens it with the settings from its config file and the environment.
func openRepo() (*repo.Repo, *config.Config, error) {
	root, err := repo.FindRoot(".")
	if err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load(config.Path(root))
	if err != nil {
		return nil, nil, err
	}
	cfg.ApplyEnv(lookupEnv)

	opts, err := cfg.RepoOptions(newLogger())
	if err != nil {
		return nil, nil, err
	}
	r, err := repo.Open(root, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("open repository: %w", err)
	}
	return r, cfg, nil
}
