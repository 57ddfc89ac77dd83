package repo

import (
	"fmt"

	"go.uber.org/zap"
)

// SwitchMode selects how Switch treats uncommitted work.
type SwitchMode int

const (
	// SwitchForce replaces the working directory unconditionally. Staged,
	// modified and untracked files are lost.
	SwitchForce SwitchMode = iota
	// SwitchRefuseDirty fails with ErrUncommittedChanges unless Status is
	// clean, and otherwise behaves like SwitchForce.
	SwitchRefuseDirty
)

// Switch makes name the current branch and rebuilds the working directory
// from its committed tree.
//
//  1. Resolve the target branch and load its tree and every blob.
//  2. Delete everything under the root except .rig/.
//  3. Write every file of the target tree.
//  4. Reset the index to the target tree.
//  5. Point HEAD at the branch.
//
// Nothing on disk is touched until step 1 succeeds.
func (r *Repo) Switch(name string, mode SwitchMode) error {
	h, ok, err := r.BranchHead(name)
	if err != nil {
		return fmt.Errorf("switch: %w", err)
	}
	if !ok {
		return fmt.Errorf("switch %q: %w: branch has no commits", name, ErrInvalidRef)
	}

	if mode == SwitchRefuseDirty {
		if err := r.ensureClean(); err != nil {
			return fmt.Errorf("switch %q: %w", name, err)
		}
	}

	c, err := r.LoadCommit(h)
	if err != nil {
		return fmt.Errorf("switch %q: %w", name, err)
	}
	files, err := r.FlattenTree(c.TreeHash)
	if err != nil {
		return fmt.Errorf("switch %q: %w", name, err)
	}
	contents := make(map[string][]byte, len(files))
	for p, bh := range files {
		b, err := r.Store.ReadBlob(bh)
		if err != nil {
			return fmt.Errorf("switch %q: %s: %w", name, p, err)
		}
		contents[p] = b.Data
	}

	if err := r.clearWorkingTree(); err != nil {
		return fmt.Errorf("switch %q: %w", name, err)
	}
	for p, data := range contents {
		if err := r.writeWorkingFile(p, data); err != nil {
			return fmt.Errorf("switch %q: %w", name, err)
		}
	}

	prevBranch, _ := r.CurrentBranch()
	prevHead, _, _ := r.HeadCommit()

	idx := &Index{repo: r, entries: files}
	if err := idx.Write(); err != nil {
		return fmt.Errorf("switch %q: %w", name, err)
	}
	if err := r.setHead(name); err != nil {
		return fmt.Errorf("switch %q: %w", name, err)
	}
	if err := r.appendReflog("HEAD", prevHead, h, fmt.Sprintf("switch: moving from %s to %s", prevBranch, name)); err != nil {
		r.log.Warn("reflog append failed", zap.String("ref", "HEAD"), zap.Error(err))
	}

	r.log.Info("switched branch",
		zap.String("branch", name),
		zap.Stringer("commit", h),
		zap.Int("files", len(files)),
	)
	return nil
}

// SwitchCreate creates name at the current commit and switches to it.
func (r *Repo) SwitchCreate(name string, mode SwitchMode) error {
	if mode == SwitchRefuseDirty {
		if err := r.ensureClean(); err != nil {
			return fmt.Errorf("switch %q: %w", name, err)
		}
	}
	if err := r.CreateBranch(name); err != nil {
		return fmt.Errorf("switch: %w", err)
	}
	return r.Switch(name, mode)
}

// ensureClean returns ErrUncommittedChanges unless Status is clean.
func (r *Repo) ensureClean() error {
	st, err := r.Status()
	if err != nil {
		return err
	}
	if !st.IsClean() {
		return ErrUncommittedChanges
	}
	return nil
}
