package diff

import (
	"strings"
	"testing"
)

const base = `package main

import "fmt"

func Hello() {
	fmt.Println("hello")
}
`

const modified = `package main

import "fmt"

func Hello() {
	fmt.Println("hello, world!")
}
`

// Test 1: Modified file renders a/ and b/ headers and both changed lines.
func TestUnified_Modified(t *testing.T) {
	d := &FileDiff{Path: "main.go", Type: Modified, Before: []byte(base), After: []byte(modified)}
	out, err := d.Unified(DefaultContext)
	if err != nil {
		t.Fatalf("Unified: %v", err)
	}
	for _, want := range []string{
		"--- a/main.go\n",
		"+++ b/main.go\n",
		"@@ ",
		"-\tfmt.Println(\"hello\")\n",
		"+\tfmt.Println(\"hello, world!\")\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

// Test 2: Added and removed files use /dev/null for the missing side.
func TestUnified_AddedAndRemoved(t *testing.T) {
	added := &FileDiff{Path: "new.txt", Type: Added, After: []byte("x\ny\n")}
	out, err := added.Unified(DefaultContext)
	if err != nil {
		t.Fatalf("Unified: %v", err)
	}
	if !strings.HasPrefix(out, "--- /dev/null\n+++ b/new.txt\n@@ -0,0 +1,2 @@\n") {
		t.Errorf("added header:\n%s", out)
	}
	if !strings.Contains(out, "+x\n+y\n") {
		t.Errorf("added body:\n%s", out)
	}

	removed := &FileDiff{Path: "old.txt", Type: Removed, Before: []byte("gone\n")}
	out, err = removed.Unified(DefaultContext)
	if err != nil {
		t.Fatalf("Unified: %v", err)
	}
	if !strings.HasPrefix(out, "--- a/old.txt\n+++ /dev/null\n") || !strings.Contains(out, "-gone\n") {
		t.Errorf("removed diff:\n%s", out)
	}
}

// Test 3: Identical content produces no output.
func TestUnified_Unchanged(t *testing.T) {
	d := &FileDiff{Path: "main.go", Type: Modified, Before: []byte(base), After: []byte(base)}
	out, err := d.Unified(DefaultContext)
	if err != nil {
		t.Fatalf("Unified: %v", err)
	}
	if out != "" {
		t.Errorf("expected empty diff, got:\n%s", out)
	}
}

// Test 4: Context width controls how many unchanged lines are shown.
func TestUnified_Context(t *testing.T) {
	before := "1\n2\n3\n4\n5\n6\n7\n"
	after := "1\n2\n3\nFOUR\n5\n6\n7\n"
	d := &FileDiff{Path: "n.txt", Type: Modified, Before: []byte(before), After: []byte(after)}

	narrow, err := d.Unified(0)
	if err != nil {
		t.Fatalf("Unified(0): %v", err)
	}
	if strings.Contains(narrow, " 3\n") {
		t.Errorf("zero context still shows neighbours:\n%s", narrow)
	}
	wide, err := d.Unified(1)
	if err != nil {
		t.Fatalf("Unified(1): %v", err)
	}
	if !strings.Contains(wide, " 3\n") || !strings.Contains(wide, " 5\n") || strings.Contains(wide, " 2\n") {
		t.Errorf("one-line context wrong:\n%s", wide)
	}
}

// Test 5: Binary content is summarised instead of diffed.
func TestUnified_Binary(t *testing.T) {
	d := &FileDiff{Path: "img.bin", Type: Modified, Before: []byte{0x89, 0x00, 0x01}, After: []byte{0x89, 0x00, 0x02}}
	if !d.IsBinary() {
		t.Fatal("IsBinary = false")
	}
	out, err := d.Unified(DefaultContext)
	if err != nil {
		t.Fatalf("Unified: %v", err)
	}
	if out != "Binary files a/img.bin and b/img.bin differ\n" {
		t.Errorf("binary output = %q", out)
	}

	text := &FileDiff{Path: "t.txt", Type: Modified, Before: []byte("a"), After: []byte("b")}
	if text.IsBinary() {
		t.Error("text detected as binary")
	}
}

// Test 6: FormatSummary prints one marker line per file.
func TestFormatSummary(t *testing.T) {
	diffs := []*FileDiff{
		{Path: "a.txt", Type: Added},
		{Path: "b.txt", Type: Modified},
		{Path: "c.txt", Type: Removed},
	}
	want := "+ a.txt     (added)\n~ b.txt     (modified)\n- c.txt     (removed)\n"
	if got := FormatSummary(diffs); got != want {
		t.Errorf("FormatSummary =\n%s\nwant\n%s", got, want)
	}
}

// Test 7: FormatUnified concatenates per-file output in order.
func TestFormatUnified(t *testing.T) {
	diffs := []*FileDiff{
		{Path: "a.txt", Type: Added, After: []byte("a\n")},
		{Path: "b.txt", Type: Removed, Before: []byte("b\n")},
	}
	out, err := FormatUnified(diffs, DefaultContext)
	if err != nil {
		t.Fatalf("FormatUnified: %v", err)
	}
	ia := strings.Index(out, "+++ b/a.txt")
	ib := strings.Index(out, "--- a/b.txt")
	if ia < 0 || ib < 0 || ia > ib {
		t.Errorf("unexpected order:\n%s", out)
	}
}

func TestChangeTypeString(t *testing.T) {
	for ct, want := range map[ChangeType]string{
		Added:          "added",
		Removed:        "removed",
		Modified:       "modified",
		ChangeType(99): "ChangeType(99)",
	} {
		if got := ct.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(ct), got, want)
		}
	}
}
