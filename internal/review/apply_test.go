package review

import (
	"errors"
	"strings"
	"testing"

	"github.com/roly-sh/roly/internal/role"
)

func subRoleChange(op Op) Change {
	return Change{
		TargetKind: role.KindSubRole,
		TargetSlug: "code-review",
		Op:         op,
	}
}

func TestApplyAddWithAnchor(t *testing.T) {
	content := "# Code Review\n\n## Evaluation Areas\n- existing item\n"
	change := subRoleChange(OpAdd)
	change.Anchor = "## Evaluation Areas"
	change.Text = "- extra check"

	updated, applied, err := Apply(content, change)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !applied {
		t.Fatalf("expected change to apply")
	}
	want := "# Code Review\n\n## Evaluation Areas\n- extra check\n- existing item\n"
	if updated != want {
		t.Fatalf("updated = %q, want %q", updated, want)
	}
}

func TestApplyAddWithAnchorIsIdempotent(t *testing.T) {
	content := "# Code Review\n\n## Evaluation Areas\n- existing item\n"
	change := subRoleChange(OpAdd)
	change.Anchor = "## Evaluation Areas"
	change.Text = "- extra check"

	once, appliedOnce, err := Apply(content, change)
	if err != nil {
		t.Fatalf("first apply: %v", err)
	}
	twice, appliedTwice, err := Apply(once, change)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if !appliedOnce || appliedTwice {
		t.Fatalf("applied flags = %v, %v; want true, false", appliedOnce, appliedTwice)
	}
	if twice != once {
		t.Fatalf("second apply changed the body")
	}
	if strings.Count(twice, "- extra check") != 1 {
		t.Fatalf("text inserted more than once:\n%s", twice)
	}
}

func TestApplyAddWithoutAnchorAppends(t *testing.T) {
	change := subRoleChange(OpAdd)
	change.Text = "- new guidance"

	updated, applied, err := Apply("existing body\n", change)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !applied {
		t.Fatalf("expected change to apply")
	}
	if updated != "existing body\n\n- new guidance\n" {
		t.Fatalf("updated = %q", updated)
	}

	again, applied, err := Apply(updated, change)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if applied || again != updated {
		t.Fatalf("append must be idempotent")
	}
}

func TestApplyAddMissingAnchorFallsBackToAppend(t *testing.T) {
	change := subRoleChange(OpAdd)
	change.Anchor = "## Not Present"
	change.Text = "- new guidance"

	updated, applied, err := Apply("body\n", change)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !applied || !strings.HasSuffix(updated, "\n\n- new guidance\n") {
		t.Fatalf("expected append fallback, got %q (applied=%v)", updated, applied)
	}
}

func TestApplyRemoveFirstOccurrenceOnly(t *testing.T) {
	change := subRoleChange(OpRemove)
	change.Text = "beta"

	updated, applied, err := Apply("beta beta", change)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !applied {
		t.Fatalf("expected change to apply")
	}
	if strings.Count(updated, "beta") != 1 {
		t.Fatalf("exactly one beta must remain, got %q", updated)
	}
}

func TestApplyRemoveIdempotentWhenTargetGone(t *testing.T) {
	change := subRoleChange(OpRemove)
	change.Text = "- stale item\n"
	content := "intro\n- stale item\n- kept item\n"

	once, applied, err := Apply(content, change)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !applied || once != "intro\n- kept item\n" {
		t.Fatalf("unexpected first apply: %q (applied=%v)", once, applied)
	}
	twice, applied, err := Apply(once, change)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if applied || twice != once {
		t.Fatalf("second remove must be a no-op")
	}
}

func TestApplyModifyFirstOccurrenceOnly(t *testing.T) {
	change := subRoleChange(OpModify)
	change.OldText = "beta"
	change.NewText = "delta"

	updated, applied, err := Apply("alpha beta gamma beta", change)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !applied || updated != "alpha delta gamma beta" {
		t.Fatalf("updated = %q (applied=%v)", updated, applied)
	}
}

func TestApplyModifyIdempotentAfterReplacement(t *testing.T) {
	change := subRoleChange(OpModify)
	change.OldText = "beta"
	change.NewText = "delta"

	once, _, err := Apply("alpha beta gamma", change)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	twice, applied, err := Apply(once, change)
	if err != nil {
		t.Fatalf("second apply: %v", err)
	}
	if applied || twice != once {
		t.Fatalf("second modify must be a no-op")
	}
}

func TestApplyModifyEmptyNewTextDeletes(t *testing.T) {
	change := subRoleChange(OpModify)
	change.OldText = " beta"
	change.NewText = ""

	updated, applied, err := Apply("alpha beta", change)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !applied || updated != "alpha" {
		t.Fatalf("updated = %q (applied=%v)", updated, applied)
	}
}

func TestApplyRejectsTopLevelTarget(t *testing.T) {
	change := Change{
		TargetKind: role.KindTopLevel,
		TargetSlug: "reviewer",
		Op:         OpAdd,
		Text:       "- anything",
	}
	_, _, err := Apply("body", change)
	if !errors.Is(err, ErrForbiddenTarget) {
		t.Fatalf("expected ErrForbiddenTarget, got %v", err)
	}
}

func TestApplyWithResultNoOpMessages(t *testing.T) {
	modify := subRoleChange(OpModify)
	modify.OldText = "delta"
	modify.NewText = "epsilon"
	result, err := ApplyWithResult("alpha beta", modify)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.Applied || result.Message != "no-op (target text not found)" {
		t.Fatalf("unexpected result: %+v", result)
	}

	anchored := subRoleChange(OpAdd)
	anchored.Anchor = "## Missing"
	anchored.Text = "present already"
	result, err = ApplyWithResult("body with present already text\n", anchored)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.Applied || result.Message != "no-op (anchor not found; text already present)" {
		t.Fatalf("unexpected result: %+v", result)
	}

	plain := subRoleChange(OpAdd)
	plain.Text = "present already"
	result, err = ApplyWithResult("body with present already text\n", plain)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.Applied || result.Message != "no-op (text already present)" {
		t.Fatalf("unexpected result: %+v", result)
	}

	applied := subRoleChange(OpAdd)
	applied.Text = "- fresh item"
	result, err = ApplyWithResult("body\n", applied)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !result.Applied || result.Message != "" {
		t.Fatalf("applied results carry no message: %+v", result)
	}
}
