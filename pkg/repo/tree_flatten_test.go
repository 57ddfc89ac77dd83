package repo

import (
	"testing"

	"github.com/odvcencio/rig/pkg/object"
)

func TestBuildTree_EmptyIndex(t *testing.T) {
	r := newTestRepo(t)
	h, err := r.BuildTree(mustLoadIndex(t, r))
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	if h.String() != "4b825dc642cb6eb9a060e54bf8d69288fbee4904" {
		t.Errorf("empty tree hash = %s", h)
	}
}

func TestBuildTree_NestedLayout(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, r, "README.md", "readme")
	writeFile(t, r, "src/main.go", "package main")
	writeFile(t, r, "src/util/strings.go", "package util")
	mustAdd(t, r, ".")

	h, err := r.BuildTree(mustLoadIndex(t, r))
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	root, err := r.Store.ReadTree(h)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if len(root.Entries) != 2 {
		t.Fatalf("root has %d entries, want 2", len(root.Entries))
	}
	if e := root.Entries[0]; e.Name != "README.md" || e.Mode != object.TreeModeFile {
		t.Errorf("root[0] = %s %s", e.Mode, e.Name)
	}
	if e := root.Entries[1]; e.Name != "src" || e.Mode != object.TreeModeDir {
		t.Errorf("root[1] = %s %s", e.Mode, e.Name)
	}

	entry, ok := FindInTree(root, "src/util/strings.go")
	if !ok {
		t.Fatal("FindInTree(src/util/strings.go) not found")
	}
	if entry.Hash != blobHash("package util") {
		t.Errorf("strings.go hash = %s", entry.Hash)
	}
}

func TestBuildTree_DeterministicAcrossStagingOrder(t *testing.T) {
	a := newTestRepo(t)
	b := newTestRepo(t)
	files := map[string]string{
		"b.txt":     "b",
		"a.txt":     "a",
		"dir/z.txt": "z",
		"dir/y.txt": "y",
	}
	for p, c := range files {
		writeFile(t, a, p, c)
		writeFile(t, b, p, c)
	}
	mustAdd(t, a, "dir/z.txt", "b.txt", "dir/y.txt", "a.txt")
	mustAdd(t, b, "a.txt", "b.txt", "dir")

	ha, err := a.BuildTree(mustLoadIndex(t, a))
	if err != nil {
		t.Fatalf("BuildTree a: %v", err)
	}
	hb, err := b.BuildTree(mustLoadIndex(t, b))
	if err != nil {
		t.Fatalf("BuildTree b: %v", err)
	}
	if ha != hb {
		t.Errorf("tree hashes differ: %s vs %s", ha, hb)
	}
}

func TestBuildTree_IgnoresUnstagedFiles(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, r, "staged.txt", "s")
	mustAdd(t, r, "staged.txt")
	writeFile(t, r, "loose/unstaged.txt", "u")

	h, err := r.BuildTree(mustLoadIndex(t, r))
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	files, err := r.FlattenTree(h)
	if err != nil {
		t.Fatalf("FlattenTree: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("tree holds %v, want only staged.txt", files)
	}
}

func TestBuildTree_FileAndDirectoryClash(t *testing.T) {
	r := newTestRepo(t)
	idx := mustLoadIndex(t, r)
	idx.entries["x"] = blobHash("file")
	idx.entries["x/y"] = blobHash("nested")

	if _, err := r.BuildTree(idx); err == nil {
		t.Fatal("BuildTree accepted x as both file and directory")
	}
}

func TestFlattenTree_RoundTripsIndex(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, r, "a.txt", "a")
	writeFile(t, r, "p/q/r.txt", "r")
	writeFile(t, r, "p/s.txt", "s")
	mustAdd(t, r, ".")
	idx := mustLoadIndex(t, r)

	h, err := r.BuildTree(idx)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	flat, err := r.FlattenTree(h)
	if err != nil {
		t.Fatalf("FlattenTree: %v", err)
	}
	want := idx.Map()
	if len(flat) != len(want) {
		t.Fatalf("flattened %d files, want %d", len(flat), len(want))
	}
	for p, wh := range want {
		if flat[p] != wh {
			t.Errorf("%s: %s, want %s", p, flat[p], wh)
		}
	}
}

func TestFindInTree(t *testing.T) {
	r := newTestRepo(t)
	writeFile(t, r, "a.txt", "a")
	writeFile(t, r, "dir/b.txt", "b")
	mustAdd(t, r, ".")
	h, err := r.BuildTree(mustLoadIndex(t, r))
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}
	root, err := r.Store.ReadTree(h)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}

	tests := []struct {
		path string
		ok   bool
	}{
		{"a.txt", true},
		{"dir/b.txt", true},
		{"dir", false},
		{"missing", false},
		{"a.txt/x", false},
		{"dir/missing", false},
		{"", false},
	}
	for _, tt := range tests {
		_, ok := FindInTree(root, tt.path)
		if ok != tt.ok {
			t.Errorf("FindInTree(%q) ok = %v, want %v", tt.path, ok, tt.ok)
		}
	}
}
