// Package repo ties the object store and the index together into a
// working repository: a directory tree with a .dircache metadata directory
// at its root.
package repo

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/odvcencio/dircache/pkg/object"
)

const (
	// MetaDirName is the metadata directory at the repository root.
	MetaDirName = ".dircache"
	// ObjectsDirName is the default object store location inside MetaDirName.
	ObjectsDirName = "objects"
	// IndexFileName is the index file inside MetaDirName.
	IndexFileName = "index"
)

// Options carries everything a Repo needs from its caller. The repo layer
// never reads the environment; the command layer resolves these values.
type Options struct {
	// ObjectDir overrides the object store location. Relative paths are
	// taken against the repository root. Empty means .dircache/objects.
	ObjectDir string
	// Compression selects the codec for new objects.
	Compression object.Compression
	// Logger receives skip warnings and debug tracing. Nil discards.
	Logger *zap.Logger
}

// Repo represents an opened repository.
type Repo struct {
	RootDir string        // working directory root
	MetaDir string        // .dircache/ directory
	Store   *object.Store // content-addressed object store

	log *zap.Logger
}

func newRepo(root string, opts Options) *Repo {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	metaDir := filepath.Join(root, MetaDirName)
	objDir := opts.ObjectDir
	switch {
	case objDir == "":
		objDir = filepath.Join(metaDir, ObjectsDirName)
	case !filepath.IsAbs(objDir):
		objDir = filepath.Join(root, objDir)
	}
	compression := opts.Compression
	if compression == "" {
		compression = object.DefaultCompression
	}
	return &Repo{
		RootDir: root,
		MetaDir: metaDir,
		Store: object.NewStore(objDir,
			object.WithCompression(compression),
			object.WithLogger(log.Named("store")),
		),
		log: log,
	}
}

// IndexPath returns the filesystem path of the index file.
func (r *Repo) IndexPath() string {
	return filepath.Join(r.MetaDir, IndexFileName)
}
