package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/odvcencio/rig/pkg/object"
)

var (
	errorColor    = color.New(color.FgRed, color.Bold)
	addedColor    = color.New(color.FgGreen)
	removedColor  = color.New(color.FgRed)
	modifiedColor = color.New(color.FgYellow)
	hunkColor     = color.New(color.FgCyan)
	headerColor   = color.New(color.Bold)
	hashColor     = color.New(color.FgYellow)
	branchColor   = color.New(color.FgGreen, color.Bold)
)

// writeColoredDiff prints unified diff text, coloring each line by kind.
func writeColoredDiff(w io.Writer, text string) {
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			headerColor.Fprint(w, line)
		case strings.HasPrefix(line, "@@"):
			hunkColor.Fprint(w, line)
		case strings.HasPrefix(line, "+"):
			addedColor.Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			removedColor.Fprint(w, line)
		default:
			fmt.Fprint(w, line)
		}
	}
}

func formatSignatureDate(s object.Signature) string {
	return s.When.Format("Mon Jan 2 15:04:05 2006 -0700")
}
