package repo

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/odvcencio/rig/pkg/object"
)

func TestHead_DefaultBranch(t *testing.T) {
	r := newTestRepo(t)

	ref, err := r.Head()
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if ref != "refs/heads/master" {
		t.Errorf("Head = %q", ref)
	}
	branch, err := r.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if branch != "master" {
		t.Errorf("CurrentBranch = %q", branch)
	}

	if _, ok, err := r.HeadCommit(); err != nil || ok {
		t.Errorf("HeadCommit on fresh repo: ok=%v err=%v, want unborn", ok, err)
	}
}

func TestHead_MissingAndInvalid(t *testing.T) {
	r := newTestRepo(t)
	headPath := filepath.Join(r.MetaDir, "HEAD")

	if err := os.WriteFile(headPath, []byte("garbage"), 0o644); err != nil {
		t.Fatalf("write HEAD: %v", err)
	}
	if _, err := r.Head(); !errors.Is(err, ErrInvalidRef) {
		t.Errorf("Head with garbage err = %v, want ErrInvalidRef", err)
	}

	if err := os.Remove(headPath); err != nil {
		t.Fatalf("remove HEAD: %v", err)
	}
	if _, err := r.Head(); !errors.Is(err, ErrMissingHead) {
		t.Errorf("Head without file err = %v, want ErrMissingHead", err)
	}
	if _, err := r.Commit("x"); !errors.Is(err, ErrMissingHead) {
		t.Errorf("Commit without HEAD err = %v, want ErrMissingHead", err)
	}
}

func TestBranchHead_InvalidRef(t *testing.T) {
	r := newTestRepo(t)
	refPath := filepath.Join(r.MetaDir, "refs", "heads", "master")
	if err := os.WriteFile(refPath, []byte("not-a-hash"), 0o644); err != nil {
		t.Fatalf("write ref: %v", err)
	}

	if _, _, err := r.BranchHead("master"); !errors.Is(err, ErrInvalidRef) {
		t.Errorf("BranchHead err = %v, want ErrInvalidRef", err)
	}
	if _, err := r.Commit("x"); !errors.Is(err, ErrInvalidRef) {
		t.Errorf("Commit err = %v, want ErrInvalidRef", err)
	}
	if _, _, err := r.BranchHead("nope"); !errors.Is(err, ErrBranchNotFound) {
		t.Errorf("BranchHead(nope) err = %v, want ErrBranchNotFound", err)
	}
}

func TestUpdateRef_WritesHexAndCleansLock(t *testing.T) {
	r := newTestRepo(t)
	h := object.HashBytes([]byte("commit"))

	if err := r.UpdateRef("refs/heads/master", h); err != nil {
		t.Fatalf("UpdateRef: %v", err)
	}
	refPath := filepath.Join(r.MetaDir, "refs", "heads", "master")
	data, err := os.ReadFile(refPath)
	if err != nil {
		t.Fatalf("read ref: %v", err)
	}
	if string(data) != h.String() {
		t.Errorf("ref content = %q, want %q", data, h)
	}
	if _, err := os.Stat(refPath + ".lock"); !os.IsNotExist(err) {
		t.Errorf("lock file left behind: %v", err)
	}

	got, ok, err := r.HeadCommit()
	if err != nil || !ok || got != h {
		t.Errorf("HeadCommit = %s ok=%v err=%v, want %s", got, ok, err, h)
	}
}

func TestWriteFileLocked_TimesOutOnStaleLock(t *testing.T) {
	if testing.Short() {
		t.Skip("waits for the lock timeout")
	}
	r := newTestRepo(t)
	refPath := filepath.Join(r.MetaDir, "refs", "heads", "master")
	if err := os.WriteFile(refPath+".lock", nil, 0o644); err != nil {
		t.Fatalf("create lock: %v", err)
	}

	err := r.UpdateRef("refs/heads/master", object.HashBytes([]byte("x")))
	if !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("UpdateRef err = %v, want ErrLockTimeout", err)
	}
	// The stale lock belongs to someone else and must survive.
	if _, err := os.Stat(refPath + ".lock"); err != nil {
		t.Errorf("foreign lock removed: %v", err)
	}
}

func TestWriteFileLocked_ConcurrentWritersSerialize(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "file")

	const workers = 16
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			data := []byte(object.HashBytes([]byte{byte(i)}).String())
			errs <- writeFileLocked(target, data)
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Errorf("writeFileLocked: %v", err)
		}
	}

	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if _, err := object.ParseHash(string(data)); err != nil {
		t.Errorf("final content is torn: %q", data)
	}
}

func TestResolveRevision(t *testing.T) {
	r := newTestRepo(t)
	if _, err := r.ResolveRevision("HEAD"); !errors.Is(err, ErrInvalidRef) {
		t.Errorf("ResolveRevision(HEAD) on unborn err = %v, want ErrInvalidRef", err)
	}

	writeFile(t, r, "a.txt", "a")
	mustAdd(t, r, "a.txt")
	h := commitStaged(t, r, "one")

	for _, rev := range []string{"HEAD", "master", h.String()} {
		got, err := r.ResolveRevision(rev)
		if err != nil {
			t.Fatalf("ResolveRevision(%q): %v", rev, err)
		}
		if got != h {
			t.Errorf("ResolveRevision(%q) = %s, want %s", rev, got, h)
		}
	}
	if _, err := r.ResolveRevision("missing"); !errors.Is(err, ErrBranchNotFound) {
		t.Errorf("ResolveRevision(missing) err = %v, want ErrBranchNotFound", err)
	}
}
