package review

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roly-sh/roly/internal/role"
)

// ErrForbiddenTarget indicates a change targeted a top-level role. The
// engine only ever edits sub-role files.
var ErrForbiddenTarget = errors.New("review: changes may only target sub-role files")

// Result reports one apply attempt. Message carries the human-readable
// no-op reason when Applied is false.
type Result struct {
	Content string
	Applied bool
	Message string
}

// Apply performs one change against content and reports whether anything
// changed. Matching is exact substring matching throughout; remove and
// modify touch only the first occurrence. Applying the same change twice is
// always a no-op the second time.
func Apply(content string, change Change) (string, bool, error) {
	if change.TargetKind != role.KindSubRole {
		return content, false, fmt.Errorf("%w: %s", ErrForbiddenTarget, change.TargetSlug)
	}
	switch change.Op {
	case OpAdd:
		return applyAdd(content, change)
	case OpRemove:
		return applyRemove(content, change)
	case OpModify:
		return applyModify(content, change)
	default:
		return content, false, fmt.Errorf("%w: unsupported op %q", ErrInvalidChange, change.Op)
	}
}

// ApplyWithResult wraps Apply with the no-op reason used by the interactive
// review flow.
func ApplyWithResult(content string, change Change) (Result, error) {
	updated, applied, err := Apply(content, change)
	if err != nil {
		return Result{}, err
	}
	if applied {
		return Result{Content: updated, Applied: true}, nil
	}
	return Result{
		Content: updated,
		Applied: false,
		Message: noOpMessage(change, content),
	}, nil
}

func noOpMessage(change Change, original string) string {
	if change.Op == OpRemove || change.Op == OpModify {
		return "no-op (target text not found)"
	}
	if change.Anchor != "" && !strings.Contains(original, change.Anchor) {
		return "no-op (anchor not found; text already present)"
	}
	return "no-op (text already present)"
}

func applyAdd(content string, change Change) (string, bool, error) {
	if change.Text == "" {
		return content, false, fmt.Errorf("%w: add operation requires text", ErrInvalidChange)
	}
	textToAdd := strings.TrimSpace(change.Text)

	if change.Anchor != "" && strings.Contains(content, change.Anchor) {
		anchorEnd := strings.Index(content, change.Anchor) + len(change.Anchor)
		trailing := content[anchorEnd:]
		inserted := "\n" + textToAdd
		if strings.HasPrefix(trailing, inserted) {
			return content, false, nil
		}
		return content[:anchorEnd] + inserted + trailing, true, nil
	}

	trimmed := strings.TrimRight(content, " \t\n")
	if strings.Contains(trimmed, textToAdd) {
		return content, false, nil
	}
	return trimmed + "\n\n" + textToAdd + "\n", true, nil
}

func applyRemove(content string, change Change) (string, bool, error) {
	if change.Text == "" {
		return content, false, fmt.Errorf("%w: remove operation requires text", ErrInvalidChange)
	}
	if !strings.Contains(content, change.Text) {
		return content, false, nil
	}
	return strings.Replace(content, change.Text, "", 1), true, nil
}

func applyModify(content string, change Change) (string, bool, error) {
	if change.OldText == "" {
		return content, false, fmt.Errorf("%w: modify operation requires old_text", ErrInvalidChange)
	}
	if !strings.Contains(content, change.OldText) {
		return content, false, nil
	}
	return strings.Replace(content, change.OldText, change.NewText, 1), true, nil
}
