package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/odvcencio/rig/pkg/object"
)

// CommitIndex creates a commit from idx on the current branch.
//
//  1. Resolve HEAD to the current branch and read its ref; a non-empty ref
//     becomes the single parent.
//  2. Build the tree from the index.
//  3. Write the commit object.
//  4. Overwrite the branch ref with the new commit hash and record the move
//     in the reflog.
func (r *Repo) CommitIndex(idx *Index, message string, author, committer object.Signature) (object.Hash, *object.Commit, error) {
	ref, err := r.Head()
	if err != nil {
		return object.Hash{}, nil, fmt.Errorf("commit: %w", err)
	}
	parent, hasParent, err := r.readRef(ref)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return object.Hash{}, nil, fmt.Errorf("commit: %w", err)
	}

	treeHash, err := r.BuildTree(idx)
	if err != nil {
		return object.Hash{}, nil, fmt.Errorf("commit: %w", err)
	}

	c := &object.Commit{
		TreeHash:  treeHash,
		Author:    author,
		Committer: committer,
		Message:   message,
	}
	if hasParent {
		c.Parents = []object.Hash{parent}
	}

	h, err := r.Store.WriteCommit(c)
	if err != nil {
		return object.Hash{}, nil, fmt.Errorf("commit: write commit: %w", err)
	}
	if err := r.UpdateRef(ref, h); err != nil {
		return object.Hash{}, nil, fmt.Errorf("commit: %w", err)
	}
	reason := "commit: "
	if !hasParent {
		reason = "commit (initial): "
	}
	r.recordRefUpdate(ref, parent, h, reason+subject(message))

	r.log.Info("committed",
		zap.String("ref", ref),
		zap.Stringer("commit", h),
		zap.Stringer("tree", treeHash),
		zap.Int("files", idx.Len()),
	)
	return h, c, nil
}

// Commit commits the current index with the configured identity as both
// author and committer, stamped with the current local time.
func (r *Repo) Commit(message string) (object.Hash, error) {
	idx, err := r.LoadIndex()
	if err != nil {
		return object.Hash{}, fmt.Errorf("commit: %w", err)
	}
	name, email, err := r.Identity()
	if err != nil {
		return object.Hash{}, fmt.Errorf("commit: %w", err)
	}
	sig := object.Signature{Name: name, Email: email, When: time.Now()}
	h, _, err := r.CommitIndex(idx, message, sig, sig)
	return h, err
}

// LoadCommit reads a commit object.
func (r *Repo) LoadCommit(h object.Hash) (*object.Commit, error) {
	c, err := r.Store.ReadCommit(h)
	if err != nil {
		return nil, fmt.Errorf("load commit: %w", err)
	}
	return c, nil
}

// Parents loads every parent of c, in order.
func (r *Repo) Parents(c *object.Commit) ([]*object.Commit, error) {
	out := make([]*object.Commit, 0, len(c.Parents))
	for _, p := range c.Parents {
		pc, err := r.LoadCommit(p)
		if err != nil {
			return nil, fmt.Errorf("parents: %w", err)
		}
		out = append(out, pc)
	}
	return out, nil
}

// LogEntry is one commit in a history walk.
type LogEntry struct {
	Hash   object.Hash
	Commit *object.Commit
}

// Log walks first parents from HEAD, newest first. A branch without commits
// has an empty log. limit <= 0 means no limit.
func (r *Repo) Log(limit int) ([]LogEntry, error) {
	h, ok, err := r.HeadCommit()
	if err != nil {
		return nil, fmt.Errorf("log: %w", err)
	}
	if !ok {
		return nil, nil
	}
	return r.LogFrom(h, limit)
}

// LogFrom walks first parents from start until the root commit.
func (r *Repo) LogFrom(start object.Hash, limit int) ([]LogEntry, error) {
	var out []LogEntry
	cur := start
	for limit <= 0 || len(out) < limit {
		c, err := r.LoadCommit(cur)
		if err != nil {
			return nil, fmt.Errorf("log: %w", err)
		}
		out = append(out, LogEntry{Hash: cur, Commit: c})
		if len(c.Parents) == 0 {
			break
		}
		cur = c.Parents[0]
	}
	return out, nil
}

// subject returns the first line of a commit message.
func subject(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	return line
}
