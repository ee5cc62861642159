// internal/diffing/diff.go
//
// Unified diff support for the diff and promote flows. The comparison is
// always user-scope against project-scope for one role file; builtin roles
// never participate.

package diffing

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// LineClass tags each diff line for presentation.
type LineClass int

const (
	// LineContext is an unchanged line shared by both sides.
	LineContext LineClass = iota
	// LineAdded is present only on the right-hand (project) side.
	LineAdded
	// LineRemoved is present only on the left-hand (user) side.
	LineRemoved
	// LineMeta is a header or hunk marker.
	LineMeta
)

// Unified renders a unified diff between two file contents. Labels appear in
// the --- and +++ headers. An empty string means the two sides are equal.
func Unified(fromLabel, toLabel, fromContent, toContent string) (string, error) {
	if fromContent == toContent {
		return "", nil
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(fromContent),
		B:        difflib.SplitLines(toContent),
		FromFile: fromLabel,
		ToFile:   toLabel,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diffing: render diff: %w", err)
	}
	return text, nil
}

// Classify maps one rendered diff line to its presentation class.
func Classify(line string) LineClass {
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
		return LineMeta
	case strings.HasPrefix(line, "+"):
		return LineAdded
	case strings.HasPrefix(line, "-"):
		return LineRemoved
	default:
		return LineContext
	}
}
