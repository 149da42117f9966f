// Package config resolves command-line settings: the repository's
// config.toml, environment overrides, and system identity defaults. The
// result is turned into explicit values for the repo layer.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"

	"github.com/odvcencio/dircache/pkg/object"
	"github.com/odvcencio/dircache/pkg/repo"
)

// FileName is the config file inside the repository metadata directory.
const FileName = "config.toml"

// Environment variables honoured by the command layer.
const (
	EnvObjectDir      = "SHA1_FILE_DIRECTORY"
	EnvCommitterName  = "COMMITTER_NAME"
	EnvCommitterEmail = "COMMITTER_EMAIL"
)

var ErrUnknownKey = errors.New("unknown config key")

// Config mirrors config.toml.
type Config struct {
	Core      Core     `toml:"core"`
	Author    Identity `toml:"author"`
	Committer Identity `toml:"committer"`
}

// Core holds storage settings.
type Core struct {
	ObjectDir   string `toml:"object_dir"`
	Compression string `toml:"compression"`
}

// Identity names the person recorded in a commit.
type Identity struct {
	Name  string `toml:"name"`
	Email string `toml:"email"`
}

// Line renders the identity as a commit header value:
// "Name <email> <unix seconds> <+hhmm>".
func (id Identity) Line(when time.Time) string {
	return fmt.Sprintf("%s <%s> %d %s", id.Name, id.Email, when.Unix(), when.Format("-0700"))
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{Core: Core{Compression: string(object.DefaultCompression)}}
}

// Path returns the config file location for a repository root.
func Path(root string) string {
	return filepath.Join(root, repo.MetaDirName, FileName)
}

// Load reads the TOML file at path over the defaults. A missing file is
// not an error. Keys the file sets that Config does not know are.
func Load(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("load config %s: %w: %s", path, ErrUnknownKey, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Write atomically writes cfg to path as TOML.
func Write(path string, cfg *Config) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-tmp-*")
	if err != nil {
		return fmt.Errorf("write config: tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: close: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write config: rename: %w", err)
	}
	return nil
}

// ApplyEnv overlays environment overrides read through lookup, which is
// os.LookupEnv outside of tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvObjectDir); ok && v != "" {
		c.Core.ObjectDir = v
	}
	if v, ok := lookup(EnvCommitterName); ok && v != "" {
		c.Committer.Name = v
	}
	if v, ok := lookup(EnvCommitterEmail); ok && v != "" {
		c.Committer.Email = v
	}
}

// System is the identity information the host provides.
type System struct {
	RealName string
	Username string
	Hostname string
}

// LookupSystem reads the current user and hostname. Fields it cannot
// determine are left empty.
func LookupSystem() System {
	var sys System
	if u, err := user.Current(); err == nil {
		sys.RealName = strings.TrimRight(u.Name, ",")
		sys.Username = u.Username
	}
	if h, err := os.Hostname(); err == nil {
		sys.Hostname = h
	}
	return sys
}

// FillIdentity completes missing identity fields. The author falls back
// to the system user; the committer falls back to the author.
func (c *Config) FillIdentity(sys System) {
	if c.Author.Name == "" {
		c.Author.Name = sys.RealName
		if c.Author.Name == "" {
			c.Author.Name = sys.Username
		}
	}
	if c.Author.Email == "" && sys.Username != "" {
		c.Author.Email = sys.Username
		if sys.Hostname != "" {
			c.Author.Email += "@" + sys.Hostname
		}
	}
	if c.Committer.Name == "" {
		c.Committer.Name = c.Author.Name
	}
	if c.Committer.Email == "" {
		c.Committer.Email = c.Author.Email
	}
}

// RepoOptions converts the storage settings into repo.Options.
func (c *Config) RepoOptions(log *zap.Logger) (repo.Options, error) {
	comp, err := object.ParseCompression(c.Core.Compression)
	if err != nil {
		return repo.Options{}, fmt.Errorf("config: core.compression: %w", err)
	}
	return repo.Options{
		ObjectDir:   c.Core.ObjectDir,
		Compression: comp,
		Logger:      log,
	}, nil
}
