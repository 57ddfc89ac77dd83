package diff

import (
	"bytes"
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// ChangeType classifies what happened to a file between two revisions.
type ChangeType int

const (
	Added    ChangeType = iota // File exists only in the after revision.
	Removed                    // File exists only in the before revision.
	Modified                   // File exists in both revisions with different content.
)

func (c ChangeType) String() string {
	switch c {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Modified:
		return "modified"
	default:
		return fmt.Sprintf("ChangeType(%d)", int(c))
	}
}

// DefaultContext is the number of unchanged lines shown around each hunk.
const DefaultContext = 3

// FileDiff holds both revisions of one file.
type FileDiff struct {
	Path   string
	Type   ChangeType
	Before []byte // nil for Added
	After  []byte // nil for Removed
}

// IsBinary reports whether either side looks like binary data.
func (d *FileDiff) IsBinary() bool {
	return isBinary(d.Before) || isBinary(d.After)
}

func isBinary(b []byte) bool {
	if len(b) > 8000 {
		b = b[:8000]
	}
	return bytes.IndexByte(b, 0) >= 0
}

// Unified renders d as a unified diff with a/ and b/ labels. Added and
// removed files use /dev/null for the missing side.
func (d *FileDiff) Unified(context int) (string, error) {
	from, to := "a/"+d.Path, "b/"+d.Path
	switch d.Type {
	case Added:
		from = "/dev/null"
	case Removed:
		to = "/dev/null"
	}

	if d.IsBinary() {
		if bytes.Equal(d.Before, d.After) {
			return "", nil
		}
		return fmt.Sprintf("Binary files %s and %s differ\n", from, to), nil
	}

	ud := difflib.UnifiedDiff{
		A:        splitLines(d.Before),
		B:        splitLines(d.After),
		FromFile: from,
		ToFile:   to,
		Context:  context,
	}
	out, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("diff %q: %w", d.Path, err)
	}
	return out, nil
}

// splitLines keeps line terminators; empty content has no lines.
func splitLines(b []byte) []string {
	if len(b) == 0 {
		return nil
	}
	return difflib.SplitLines(string(b))
}
