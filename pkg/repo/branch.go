package repo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/odvcencio/rig/pkg/object"
)

// Branch is a named ref under refs/heads/.
type Branch struct {
	Name    string
	Head    object.Hash // zero when the branch has no commits
	Current bool
}

// ValidateBranchName rejects names that cannot be stored as a ref file or
// that would be ambiguous with other revisions.
func ValidateBranchName(name string) error {
	bad := func(reason string) error {
		return fmt.Errorf("%w %q: %s", ErrInvalidBranchName, name, reason)
	}
	switch {
	case name == "":
		return bad("empty")
	case name == "HEAD":
		return bad("reserved")
	case strings.HasPrefix(name, "-"):
		return bad("starts with '-'")
	case strings.HasSuffix(name, ".lock"):
		return bad("ends with .lock")
	case strings.Contains(name, ".."):
		return bad("contains '..'")
	case strings.ContainsAny(name, " ~^:?*[\\"):
		return bad("contains a forbidden character")
	}
	for _, c := range name {
		if c < 0x20 || c == 0x7f {
			return bad("contains a control character")
		}
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == "" || strings.HasPrefix(seg, ".") {
			return bad("empty or hidden path component")
		}
	}
	return nil
}

// CreateBranch creates a branch pointing at the current branch's commit.
// It fails with ErrBranchExists if the branch exists and with ErrInvalidRef
// if the current branch has no commits yet.
func (r *Repo) CreateBranch(name string) error {
	if err := ValidateBranchName(name); err != nil {
		return fmt.Errorf("create branch: %w", err)
	}
	h, ok, err := r.HeadCommit()
	if err != nil {
		return fmt.Errorf("create branch %q: %w", name, err)
	}
	if !ok {
		cur, _ := r.CurrentBranch()
		return fmt.Errorf("create branch %q: %w: branch %q has no commits", name, ErrInvalidRef, cur)
	}

	refPath := r.refPath(branchRef(name))
	l, err := lockFile(refPath)
	if err != nil {
		return fmt.Errorf("create branch %q: %w", name, err)
	}
	defer l.release()

	if _, err := os.Stat(refPath); err == nil {
		return fmt.Errorf("create branch %q: %w", name, ErrBranchExists)
	}
	if err := l.commit([]byte(h.String())); err != nil {
		return fmt.Errorf("create branch %q: %w", name, err)
	}
	cur, _ := r.CurrentBranch()
	r.recordRefUpdate(branchRef(name), object.Hash{}, h, "branch: created from "+cur)
	r.log.Info("branch created", zap.String("branch", name), zap.Stringer("commit", h))
	return nil
}

// DeleteBranch removes a branch ref. The current branch cannot be deleted.
func (r *Repo) DeleteBranch(name string) error {
	if err := ValidateBranchName(name); err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	current, err := r.CurrentBranch()
	if err != nil {
		return fmt.Errorf("delete branch: %w", err)
	}
	if current == name {
		return fmt.Errorf("delete branch: cannot delete current branch %q", name)
	}
	if err := os.Remove(r.refPath(branchRef(name))); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("delete branch %q: %w", name, ErrBranchNotFound)
		}
		return fmt.Errorf("delete branch %q: %w", name, err)
	}
	_ = os.Remove(r.reflogPath(branchRef(name)))
	r.log.Info("branch deleted", zap.String("branch", name))
	return nil
}

// ListBranches returns every branch under refs/heads/, sorted by name, with
// the current one marked.
func (r *Repo) ListBranches() ([]Branch, error) {
	current, err := r.CurrentBranch()
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}

	headsDir := filepath.Join(r.MetaDir, "refs", "heads")
	var out []Branch
	err = filepath.WalkDir(headsDir, func(fp string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || strings.HasSuffix(d.Name(), ".lock") {
			return nil
		}
		rel, err := filepath.Rel(headsDir, fp)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if ValidateBranchName(name) != nil {
			r.log.Warn("skipping unreadable branch name", zap.String("branch", name))
			return nil
		}
		h, _, err := r.BranchHead(name)
		if err != nil {
			return err
		}
		out = append(out, Branch{Name: name, Head: h, Current: name == current})
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
