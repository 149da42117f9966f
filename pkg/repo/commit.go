package repo

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/odvcencio/dircache/pkg/object"
)

// BuildCommit assembles a commit value. It performs no I/O; parents are
// kept in the order given and may be empty for a root commit.
func BuildCommit(tree object.Hash, parents []object.Hash, author, committer, message string) *object.Commit {
	var ps []object.Hash
	if len(parents) > 0 {
		ps = append(ps, parents...)
	}
	return &object.Commit{
		TreeHash:  tree,
		Parents:   ps,
		Author:    author,
		Committer: committer,
		Message:   message,
	}
}

// CommitTree writes a commit for tree with the given parents and identity
// lines. The tree must be a stored tree and every parent a stored commit.
func (r *Repo) CommitTree(tree object.Hash, parents []object.Hash, author, committer, message string) (object.Hash, error) {
	if err := checkIdentity("author", author); err != nil {
		return object.ZeroHash, fmt.Errorf("commit tree: %w", err)
	}
	if err := checkIdentity("committer", committer); err != nil {
		return object.ZeroHash, fmt.Errorf("commit tree: %w", err)
	}
	if _, err := r.Store.ReadTree(tree); err != nil {
		return object.ZeroHash, fmt.Errorf("commit tree: %w", err)
	}
	for _, p := range parents {
		if _, err := r.Store.ReadCommit(p); err != nil {
			return object.ZeroHash, fmt.Errorf("commit tree: parent: %w", err)
		}
	}

	h, err := r.Store.WriteCommit(BuildCommit(tree, parents, author, committer, message))
	if err != nil {
		return object.ZeroHash, fmt.Errorf("commit tree: %w", err)
	}
	r.log.Debug("wrote commit",
		zap.Stringer("hash", h),
		zap.Stringer("tree", tree),
		zap.Int("parents", len(parents)),
	)
	return h, nil
}

// checkIdentity rejects identity lines that would break the commit header.
func checkIdentity(field, line string) error {
	if strings.TrimSpace(line) == "" || strings.ContainsAny(line, "\n\x00") {
		return fmt.Errorf("%s %q: %w", field, line, ErrInvalidIdentity)
	}
	return nil
}
