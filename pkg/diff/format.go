package diff

import (
	"fmt"
	"strings"
)

// FormatSummary produces one line per file:
//
//	+ path     (added)
//	~ path     (modified)
//	- path     (removed)
func FormatSummary(diffs []*FileDiff) string {
	var b strings.Builder
	for _, d := range diffs {
		var marker string
		switch d.Type {
		case Added:
			marker = "+"
		case Removed:
			marker = "-"
		default:
			marker = "~"
		}
		fmt.Fprintf(&b, "%s %s     (%s)\n", marker, d.Path, d.Type)
	}
	return b.String()
}

// FormatUnified concatenates the unified diffs of every file.
func FormatUnified(diffs []*FileDiff, context int) (string, error) {
	var b strings.Builder
	for _, d := range diffs {
		out, err := d.Unified(context)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
	}
	return b.String(), nil
}
