package repo

import (
	"fmt"
	"os"

	"github.com/odvcencio/rig/pkg/diff"
	"github.com/odvcencio/rig/pkg/object"
)

// DiffUnstaged compares the index with the working directory for every
// unstaged change, sorted by path.
func (r *Repo) DiffUnstaged() ([]*diff.FileDiff, error) {
	idx, err := r.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	working, err := r.WorkingTree()
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	st := ClassifyStatus(nil, idx.Map(), working)

	out := make([]*diff.FileDiff, 0, len(st.Unstaged))
	for _, e := range st.Unstaged {
		sh, _ := idx.Lookup(e.Path)
		before, err := r.blobData(sh)
		if err != nil {
			return nil, fmt.Errorf("diff %q: %w", e.Path, err)
		}
		fd := &diff.FileDiff{Path: e.Path, Type: diff.Removed, Before: before}
		if e.Status == StatusModified {
			after, err := os.ReadFile(r.absPath(e.Path))
			if err != nil {
				return nil, fmt.Errorf("diff %q: %w", e.Path, err)
			}
			fd.Type, fd.After = diff.Modified, after
		}
		out = append(out, fd)
	}
	return out, nil
}

// DiffStaged compares the HEAD tree with the index for every staged change,
// sorted by path.
func (r *Repo) DiffStaged() ([]*diff.FileDiff, error) {
	committed, err := r.headFiles()
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	idx, err := r.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("diff: %w", err)
	}
	st := ClassifyStatus(committed, idx.Map(), nil)

	out := make([]*diff.FileDiff, 0, len(st.Staged))
	for _, e := range st.Staged {
		fd := &diff.FileDiff{Path: e.Path}
		if ch, ok := committed[e.Path]; ok {
			if fd.Before, err = r.blobData(ch); err != nil {
				return nil, fmt.Errorf("diff %q: %w", e.Path, err)
			}
		}
		if sh, ok := idx.Lookup(e.Path); ok {
			if fd.After, err = r.blobData(sh); err != nil {
				return nil, fmt.Errorf("diff %q: %w", e.Path, err)
			}
		}
		switch e.Status {
		case StatusAdded:
			fd.Type = diff.Added
		case StatusDeleted:
			fd.Type = diff.Removed
		default:
			fd.Type = diff.Modified
		}
		out = append(out, fd)
	}
	return out, nil
}

func (r *Repo) blobData(h object.Hash) ([]byte, error) {
	b, err := r.Store.ReadBlob(h)
	if err != nil {
		return nil, err
	}
	return b.Data, nil
}
