package repo

import (
	"reflect"
	"testing"

	"github.com/odvcencio/rig/pkg/object"
)

func TestClassifyStatus(t *testing.T) {
	h1, h2, h3 := blobHash("1"), blobHash("2"), blobHash("3")

	tests := []struct {
		name      string
		committed map[string]object.Hash
		staged    map[string]object.Hash
		working   map[string]object.Hash
		want      *Status
	}{
		{
			name:      "clean",
			committed: map[string]object.Hash{"a": h1},
			staged:    map[string]object.Hash{"a": h1},
			working:   map[string]object.Hash{"a": h1},
			want:      &Status{},
		},
		{
			name:    "staged add",
			staged:  map[string]object.Hash{"a": h1},
			working: map[string]object.Hash{"a": h1},
			want:    &Status{Staged: []StatusEntry{{"a", StatusAdded}}},
		},
		{
			name:      "staged delete, file gone",
			committed: map[string]object.Hash{"a": h1},
			want:      &Status{Staged: []StatusEntry{{"a", StatusDeleted}}},
		},
		{
			name:      "staged delete, file still on disk",
			committed: map[string]object.Hash{"a": h1},
			working:   map[string]object.Hash{"a": h1},
			want: &Status{
				Staged:    []StatusEntry{{"a", StatusDeleted}},
				Untracked: []string{"a"},
			},
		},
		{
			name:      "staged and unstaged modification",
			committed: map[string]object.Hash{"a": h1},
			staged:    map[string]object.Hash{"a": h2},
			working:   map[string]object.Hash{"a": h3},
			want: &Status{
				Staged:   []StatusEntry{{"a", StatusModified}},
				Unstaged: []StatusEntry{{"a", StatusModified}},
			},
		},
		{
			name:      "unstaged delete",
			committed: map[string]object.Hash{"a": h1},
			staged:    map[string]object.Hash{"a": h1},
			want:      &Status{Unstaged: []StatusEntry{{"a", StatusDeleted}}},
		},
		{
			name:    "untracked sorted",
			working: map[string]object.Hash{"z": h1, "b": h2, "m/n": h3},
			want:    &Status{Untracked: []string{"b", "m/n", "z"}},
		},
		{
			name:      "mixed paths sorted",
			committed: map[string]object.Hash{"c": h1, "a": h1},
			staged:    map[string]object.Hash{"c": h2, "b": h1},
			working:   map[string]object.Hash{"c": h2, "b": h1},
			want: &Status{Staged: []StatusEntry{
				{"a", StatusDeleted},
				{"b", StatusAdded},
				{"c", StatusModified},
			}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStatus(tt.committed, tt.staged, tt.working)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ClassifyStatus =\n%+v\nwant\n%+v", got, tt.want)
			}
		})
	}
}

func TestFileStatusString(t *testing.T) {
	for s, want := range map[FileStatus]string{
		StatusAdded:    "added",
		StatusModified: "modified",
		StatusDeleted:  "deleted",
		FileStatus(42): "FileStatus(42)",
	} {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(s), got, want)
		}
	}
}

func TestStatus_UnbornBranch(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, r, "new.txt", "n")
	writeFile(t, r, "staged.txt", "s")
	mustAdd(t, r, "staged.txt")

	st, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	want := &Status{
		Staged:    []StatusEntry{{"staged.txt", StatusAdded}},
		Untracked: []string{"new.txt"},
	}
	if !reflect.DeepEqual(st, want) {
		t.Errorf("Status = %+v, want %+v", st, want)
	}
	if st.IsClean() {
		t.Error("IsClean = true")
	}
}

func TestStatus_CleanAfterCommit(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, r, "a.txt", "a")
	writeFile(t, r, "dir/b.txt", "b")
	mustAdd(t, r, ".")
	commitStaged(t, r, "all")

	st, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !st.IsClean() {
		t.Errorf("Status after commit = %+v, want clean", st)
	}
}

// Scenarios A through C: commit, edit on disk, then stage the edit.
func TestStatus_ModifyThenStage(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, r, "a.txt", "a")
	mustAdd(t, r, "a.txt")
	commitStaged(t, r, "Initial")

	writeFile(t, r, "a.txt", "b")
	st, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	want := &Status{Unstaged: []StatusEntry{{"a.txt", StatusModified}}}
	if !reflect.DeepEqual(st, want) {
		t.Errorf("after edit: %+v, want %+v", st, want)
	}

	mustAdd(t, r, "a.txt")
	st, err = r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	want = &Status{Staged: []StatusEntry{{"a.txt", StatusModified}}}
	if !reflect.DeepEqual(st, want) {
		t.Errorf("after add: %+v, want %+v", st, want)
	}
}

func TestStatus_DeletedOnDisk(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, r, "a.txt", "a")
	mustAdd(t, r, "a.txt")
	commitStaged(t, r, "Initial")

	removeFile(t, r, "a.txt")
	st, err := r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	want := &Status{Unstaged: []StatusEntry{{"a.txt", StatusDeleted}}}
	if !reflect.DeepEqual(st, want) {
		t.Errorf("after delete: %+v, want %+v", st, want)
	}

	mustAdd(t, r, "a.txt")
	st, err = r.Status()
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	want = &Status{Staged: []StatusEntry{{"a.txt", StatusDeleted}}}
	if !reflect.DeepEqual(st, want) {
		t.Errorf("after staging delete: %+v, want %+v", st, want)
	}
}

func TestWorkingTree_SkipsMetaDirAndHashesOnly(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, r, "a.txt", "a")
	writeFile(t, r, "sub/.hidden", "h")

	files, err := r.WorkingTree()
	if err != nil {
		t.Fatalf("WorkingTree: %v", err)
	}
	want := map[string]object.Hash{
		"a.txt":       blobHash("a"),
		"sub/.hidden": blobHash("h"),
	}
	if !reflect.DeepEqual(files, want) {
		t.Errorf("WorkingTree = %v, want %v", files, want)
	}
	if r.Store.Has(blobHash("a")) {
		t.Error("WorkingTree wrote a blob")
	}
}
