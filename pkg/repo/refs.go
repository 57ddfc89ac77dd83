package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/odvcencio/rig/pkg/object"
)

const (
	headRefPrefix   = "ref: "
	branchRefPrefix = "refs/heads/"
)

func (r *Repo) headPath() string {
	return filepath.Join(r.MetaDir, "HEAD")
}

func (r *Repo) refPath(refName string) string {
	return filepath.Join(r.MetaDir, filepath.FromSlash(refName))
}

func branchRef(name string) string {
	return branchRefPrefix + name
}

// Head reads .rig/HEAD and returns the ref it points at, e.g.
// "refs/heads/master".
func (r *Repo) Head() (string, error) {
	data, err := os.ReadFile(r.headPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("head: %w", ErrMissingHead)
		}
		return "", fmt.Errorf("head: %w", err)
	}
	content := strings.TrimSpace(string(data))
	ref, ok := strings.CutPrefix(content, headRefPrefix)
	if !ok || !strings.HasPrefix(ref, branchRefPrefix) || ref == branchRefPrefix {
		return "", fmt.Errorf("head: %w: %q", ErrInvalidRef, content)
	}
	return ref, nil
}

// CurrentBranch returns the branch name HEAD points at.
func (r *Repo) CurrentBranch() (string, error) {
	ref, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("current branch: %w", err)
	}
	return strings.TrimPrefix(ref, branchRefPrefix), nil
}

// setHead points HEAD at the named branch.
func (r *Repo) setHead(branch string) error {
	if err := writeFileLocked(r.headPath(), []byte(headRefPrefix+branchRef(branch))); err != nil {
		return fmt.Errorf("set HEAD: %w", err)
	}
	return nil
}

// readRef reads a ref file. It reports ok=false for an empty ref (a branch
// without commits). A missing file is returned as a wrapped fs.ErrNotExist.
func (r *Repo) readRef(refName string) (h object.Hash, ok bool, err error) {
	data, err := os.ReadFile(r.refPath(refName))
	if err != nil {
		return object.Hash{}, false, err
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return object.Hash{}, false, nil
	}
	h, err = object.ParseHash(content)
	if err != nil {
		return object.Hash{}, false, fmt.Errorf("ref %q: %w: %v", refName, ErrInvalidRef, err)
	}
	return h, true, nil
}

// BranchHead returns the commit a branch points at. ok is false when the
// branch exists but has no commits. A missing branch is ErrBranchNotFound.
func (r *Repo) BranchHead(name string) (h object.Hash, ok bool, err error) {
	if err := ValidateBranchName(name); err != nil {
		return object.Hash{}, false, err
	}
	h, ok, err = r.readRef(branchRef(name))
	if errors.Is(err, fs.ErrNotExist) {
		return object.Hash{}, false, fmt.Errorf("branch %q: %w", name, ErrBranchNotFound)
	}
	if err != nil {
		return object.Hash{}, false, fmt.Errorf("branch %q: %w", name, err)
	}
	return h, ok, nil
}

// HeadCommit resolves HEAD to a commit hash. ok is false when the current
// branch has no commits yet.
func (r *Repo) HeadCommit() (h object.Hash, ok bool, err error) {
	ref, err := r.Head()
	if err != nil {
		return object.Hash{}, false, err
	}
	h, ok, err = r.readRef(ref)
	if errors.Is(err, fs.ErrNotExist) {
		return object.Hash{}, false, nil
	}
	if err != nil {
		return object.Hash{}, false, fmt.Errorf("resolve HEAD: %w", err)
	}
	return h, ok, nil
}

// UpdateRef overwrites the named ref (e.g. "refs/heads/master") with h.
// Parent directories are created as needed.
func (r *Repo) UpdateRef(refName string, h object.Hash) error {
	if err := writeFileLocked(r.refPath(refName), []byte(h.String())); err != nil {
		return fmt.Errorf("update ref %q: %w", refName, err)
	}
	r.log.Debug("ref updated", zap.String("ref", refName), zap.Stringer("hash", h))
	return nil
}

// ResolveRevision resolves a branch name, "HEAD", or a full hex commit hash.
func (r *Repo) ResolveRevision(rev string) (object.Hash, error) {
	if rev == "HEAD" {
		h, ok, err := r.HeadCommit()
		if err != nil {
			return object.Hash{}, err
		}
		if !ok {
			return object.Hash{}, fmt.Errorf("resolve HEAD: %w: no commits yet", ErrInvalidRef)
		}
		return h, nil
	}
	if h, err := object.ParseHash(rev); err == nil {
		return h, nil
	}
	h, ok, err := r.BranchHead(rev)
	if err != nil {
		return object.Hash{}, err
	}
	if !ok {
		return object.Hash{}, fmt.Errorf("resolve %q: %w: no commits yet", rev, ErrInvalidRef)
	}
	return h, nil
}
