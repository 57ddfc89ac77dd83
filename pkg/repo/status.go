package repo

import (
	"fmt"
	"sort"

	"github.com/odvcencio/rig/pkg/object"
)

// FileStatus is the kind of change recorded for a path.
type FileStatus int

const (
	StatusAdded FileStatus = iota + 1
	StatusModified
	StatusDeleted
)

func (s FileStatus) String() string {
	switch s {
	case StatusAdded:
		return "added"
	case StatusModified:
		return "modified"
	case StatusDeleted:
		return "deleted"
	default:
		return fmt.Sprintf("FileStatus(%d)", int(s))
	}
}

// StatusEntry records the change of a single path.
type StatusEntry struct {
	Path   string
	Status FileStatus
}

// Status is the three-way comparison of the committed tree, the index and
// the working directory.
type Status struct {
	Staged    []StatusEntry // index vs committed tree
	Unstaged  []StatusEntry // working directory vs index
	Untracked []string      // on disk, not in the index
}

// IsClean reports whether there is nothing staged, modified or untracked.
func (s *Status) IsClean() bool {
	return len(s.Staged) == 0 && len(s.Unstaged) == 0 && len(s.Untracked) == 0
}

// ClassifyStatus applies the three-way rules to path→hash maps. The staged
// comparison (staged vs committed) and the unstaged comparison (working vs
// staged) are independent, so a path appears at most once in Staged and at
// most once in Unstaged or Untracked. Every list is sorted by path.
func ClassifyStatus(committed, staged, working map[string]object.Hash) *Status {
	st := &Status{}

	for p, ch := range committed {
		sh, ok := staged[p]
		switch {
		case !ok:
			st.Staged = append(st.Staged, StatusEntry{Path: p, Status: StatusDeleted})
		case sh != ch:
			st.Staged = append(st.Staged, StatusEntry{Path: p, Status: StatusModified})
		}
	}
	for p, sh := range staged {
		if _, ok := committed[p]; !ok {
			st.Staged = append(st.Staged, StatusEntry{Path: p, Status: StatusAdded})
		}
		wh, ok := working[p]
		switch {
		case !ok:
			st.Unstaged = append(st.Unstaged, StatusEntry{Path: p, Status: StatusDeleted})
		case wh != sh:
			st.Unstaged = append(st.Unstaged, StatusEntry{Path: p, Status: StatusModified})
		}
	}
	for p := range working {
		if _, ok := staged[p]; !ok {
			st.Untracked = append(st.Untracked, p)
		}
	}

	sortEntries(st.Staged)
	sortEntries(st.Unstaged)
	sort.Strings(st.Untracked)
	return st
}

func sortEntries(es []StatusEntry) {
	sort.Slice(es, func(i, j int) bool { return es[i].Path < es[j].Path })
}

// Status computes the repository status. A branch without commits compares
// against an empty tree.
func (r *Repo) Status() (*Status, error) {
	committed, err := r.headFiles()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	idx, err := r.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	working, err := r.WorkingTree()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	return ClassifyStatus(committed, idx.Map(), working), nil
}

// headFiles flattens the HEAD commit's tree, or returns an empty map when
// the current branch has no commits.
func (r *Repo) headFiles() (map[string]object.Hash, error) {
	h, ok, err := r.HeadCommit()
	if err != nil {
		return nil, err
	}
	if !ok {
		return map[string]object.Hash{}, nil
	}
	c, err := r.LoadCommit(h)
	if err != nil {
		return nil, err
	}
	return r.FlattenTree(c.TreeHash)
}
