package repo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/odvcencio/rig/pkg/object"
)

var testSig = object.Signature{
	Name:  "Test Author",
	Email: "test@example.com",
	When:  time.Unix(1700000000, 0).UTC(),
}

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	r, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	return r
}

func writeFile(t *testing.T, r *Repo, rel, content string) {
	t.Helper()
	abs := filepath.Join(r.RootDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func readFile(t *testing.T, r *Repo, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(r.RootDir, filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read %s: %v", rel, err)
	}
	return string(data)
}

func fileExists(r *Repo, rel string) bool {
	_, err := os.Stat(filepath.Join(r.RootDir, filepath.FromSlash(rel)))
	return err == nil
}

func removeFile(t *testing.T, r *Repo, rel string) {
	t.Helper()
	if err := os.Remove(filepath.Join(r.RootDir, filepath.FromSlash(rel))); err != nil {
		t.Fatalf("remove %s: %v", rel, err)
	}
}

func mustAdd(t *testing.T, r *Repo, paths ...string) {
	t.Helper()
	if err := r.Add(paths...); err != nil {
		t.Fatalf("Add(%v): %v", paths, err)
	}
}

// commitStaged commits the current index with a fixed signature.
func commitStaged(t *testing.T, r *Repo, message string) object.Hash {
	t.Helper()
	idx, err := r.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	h, _, err := r.CommitIndex(idx, message, testSig, testSig)
	if err != nil {
		t.Fatalf("CommitIndex(%q): %v", message, err)
	}
	return h
}

func mustLoadIndex(t *testing.T, r *Repo) *Index {
	t.Helper()
	idx, err := r.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex: %v", err)
	}
	return idx
}
