package diffing

import (
	"strings"
	"testing"
)

func TestUnifiedEqualContentsYieldEmptyDiff(t *testing.T) {
	out, err := Unified("user/code-review.md", "project/code-review.md", "same\n", "same\n")
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty diff, got %q", out)
	}
}

func TestUnifiedShowsAddsAndRemoves(t *testing.T) {
	from := "alpha\nbeta\ngamma\n"
	to := "alpha\ndelta\ngamma\n"
	out, err := Unified("user/code-review.md", "project/code-review.md", from, to)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if !strings.Contains(out, "--- user/code-review.md") || !strings.Contains(out, "+++ project/code-review.md") {
		t.Fatalf("missing file headers:\n%s", out)
	}
	if !strings.Contains(out, "-beta") || !strings.Contains(out, "+delta") {
		t.Fatalf("missing change lines:\n%s", out)
	}
}

func TestClassify(t *testing.T) {
	cases := map[string]LineClass{
		"--- user/code-review.md":    LineMeta,
		"+++ project/code-review.md": LineMeta,
		"@@ -1,3 +1,3 @@":            LineMeta,
		"+delta":                     LineAdded,
		"-beta":                      LineRemoved,
		" alpha":                     LineContext,
		"alpha":                      LineContext,
	}
	for line, want := range cases {
		if got := Classify(line); got != want {
			t.Fatalf("Classify(%q) = %v, want %v", line, got, want)
		}
	}
}
