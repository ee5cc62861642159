package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/roly-sh/roly/internal/config"
	"github.com/roly-sh/roly/internal/review"
	"github.com/roly-sh/roly/internal/role"
)

func testChanges(n int) []review.Change {
	changes := make([]review.Change, 0, n)
	for i := 0; i < n; i++ {
		changes = append(changes, review.Change{
			TargetKind: role.KindSubRole,
			TargetSlug: "code-review",
			Op:         review.OpAdd,
			Text:       "- item",
		})
	}
	return changes
}

func press(t *testing.T, m tea.Model, key string) tea.Model {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return updated
}

func TestReviewAcceptAndReject(t *testing.T) {
	m := tea.Model(NewReviewModel(testChanges(3)))
	m = press(t, m, "y")
	m = press(t, m, "n")
	m = press(t, m, "y")

	model := m.(ReviewModel)
	if !model.Done() {
		t.Fatalf("expected all changes decided")
	}
	got := model.Decisions()
	want := []Decision{DecisionAccepted, DecisionRejected, DecisionAccepted}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("decision %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestReviewAcceptAllCoversRemaining(t *testing.T) {
	m := tea.Model(NewReviewModel(testChanges(3)))
	m = press(t, m, "n")
	m = press(t, m, "a")

	model := m.(ReviewModel)
	got := model.Decisions()
	want := []Decision{DecisionRejected, DecisionAccepted, DecisionAccepted}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("decision %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestReviewQuitSkipsRemaining(t *testing.T) {
	m := tea.Model(NewReviewModel(testChanges(3)))
	m = press(t, m, "y")
	m = press(t, m, "q")

	model := m.(ReviewModel)
	if !model.Done() {
		t.Fatalf("quit must finish the batch")
	}
	got := model.Decisions()
	want := []Decision{DecisionAccepted, DecisionSkipped, DecisionSkipped}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("decision %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestReviewViewShowsProgressAndChange(t *testing.T) {
	model := NewReviewModel([]review.Change{{
		TargetKind: role.KindSubRole,
		TargetSlug: "code-review",
		Op:         review.OpModify,
		OldText:    "minor",
		NewText:    "trivial",
	}})
	view := model.View()
	if !strings.Contains(view, "change 1 of 1") {
		t.Fatalf("missing progress line:\n%s", view)
	}
	if !strings.Contains(view, "code-review") || !strings.Contains(view, "modify") {
		t.Fatalf("missing change details:\n%s", view)
	}
}

func TestPresetPickerSelectsOnEnter(t *testing.T) {
	picker := NewPresetPicker([]config.UserRolePreset{
		{Name: "code-reviewer", Roles: []string{"code-review"}},
		{Name: "architect", Roles: []string{"architecture-review"}},
	})
	updated, _ := tea.Model(picker).Update(tea.KeyMsg{Type: tea.KeyEnter})
	chosen := updated.(PresetPicker)
	if chosen.Selected() != "code-reviewer" {
		t.Fatalf("selected = %q", chosen.Selected())
	}
	if chosen.Aborted() {
		t.Fatalf("enter must not abort")
	}
}

func TestPresetPickerAborts(t *testing.T) {
	picker := NewPresetPicker([]config.UserRolePreset{{Name: "code-reviewer", Roles: []string{"code-review"}}})
	updated, _ := tea.Model(picker).Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !updated.(PresetPicker).Aborted() {
		t.Fatalf("esc must abort the picker")
	}
}
