package repo

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// Test 1: Init creates the metadata skeleton.
func TestInit_CreatesSkeleton(t *testing.T) {
	dir := t.TempDir()
	r, err := Init(dir)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}

	for _, d := range []string{"objects", filepath.Join("refs", "heads")} {
		info, err := os.Stat(filepath.Join(r.MetaDir, d))
		if err != nil || !info.IsDir() {
			t.Errorf("%s: missing directory (err=%v)", d, err)
		}
	}

	head, err := os.ReadFile(filepath.Join(r.MetaDir, "HEAD"))
	if err != nil {
		t.Fatalf("read HEAD: %v", err)
	}
	if string(head) != "ref: refs/heads/master" {
		t.Errorf("HEAD = %q", head)
	}

	ref, err := os.ReadFile(filepath.Join(r.MetaDir, "refs", "heads", "master"))
	if err != nil {
		t.Fatalf("read master ref: %v", err)
	}
	if len(ref) != 0 {
		t.Errorf("master ref = %q, want empty", ref)
	}

	index, err := os.ReadFile(filepath.Join(r.MetaDir, "index"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if len(index) != 0 {
		t.Errorf("index = %q, want empty", index)
	}
}

// Test 2: Init twice fails.
func TestInit_AlreadyInitialized(t *testing.T) {
	dir := t.TempDir()
	if _, err := Init(dir); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if _, err := Init(dir); !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("second Init err = %v, want ErrAlreadyInitialized", err)
	}
}

// Test 3: Open finds the repository from a nested directory.
func TestOpen_WalksParents(t *testing.T) {
	r := newTestRepo(t)
	nested := filepath.Join(r.RootDir, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	opened, err := Open(nested)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened.RootDir != r.RootDir {
		t.Errorf("RootDir = %q, want %q", opened.RootDir, r.RootDir)
	}
	if opened.MetaDir != filepath.Join(r.RootDir, MetaDirName) {
		t.Errorf("MetaDir = %q", opened.MetaDir)
	}
}

// Test 4: Open outside any repository fails.
func TestOpen_NotARepository(t *testing.T) {
	if _, err := Open(t.TempDir()); !errors.Is(err, ErrNotARepository) {
		t.Fatalf("Open err = %v, want ErrNotARepository", err)
	}
}

// Test 5: Two repositories in one process do not share state.
func TestRepositoriesAreIndependent(t *testing.T) {
	a := newTestRepo(t)
	b := newTestRepo(t)

	writeFile(t, a, "only-a.txt", "a")
	mustAdd(t, a, "only-a.txt")

	if n := mustLoadIndex(t, b).Len(); n != 0 {
		t.Errorf("repo b index has %d entries, want 0", n)
	}
}
