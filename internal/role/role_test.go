package role

import "testing"

func TestNormalizedKeyFoldsCaseAndSpace(t *testing.T) {
	a := OutputSection{Key: "  Issues "}
	b := OutputSection{Key: "issues"}
	if a.NormalizedKey() != b.NormalizedKey() {
		t.Fatalf("normalized keys differ: %q vs %q", a.NormalizedKey(), b.NormalizedKey())
	}
	if a.Key != "  Issues " {
		t.Fatalf("display key must stay untouched, got %q", a.Key)
	}
}

func TestCloneCopiesListFields(t *testing.T) {
	section := OutputSection{
		Key:      "Issues",
		Type:     SectionList,
		Guidance: []string{"g1"},
		Fields:   []string{"severity"},
	}
	clone := section.Clone()
	clone.Guidance[0] = "changed"
	clone.Fields = append(clone.Fields, "evidence")
	if section.Guidance[0] != "g1" {
		t.Fatalf("clone shares guidance backing array")
	}
	if len(section.Fields) != 1 {
		t.Fatalf("clone shares fields backing array")
	}
}

func TestValidateRejectsSubRoleWithoutDependency(t *testing.T) {
	doc := Document{
		Kind:    KindSubRole,
		Name:    "Orphan",
		Slug:    "orphan",
		Version: "1",
	}
	if err := doc.Validate(); err == nil {
		t.Fatalf("expected validation error for missing dependency")
	}
	doc.DependsOnTopLevel = "reviewer"
	if err := doc.Validate(); err != nil {
		t.Fatalf("valid sub-role rejected: %v", err)
	}
}

func TestValidateAllowsTopLevelWithoutDependency(t *testing.T) {
	doc := Document{
		Kind:    KindTopLevel,
		Name:    "Reviewer",
		Slug:    "reviewer",
		Version: "1",
	}
	if err := doc.Validate(); err != nil {
		t.Fatalf("valid top-level rejected: %v", err)
	}
}

func TestParseKind(t *testing.T) {
	if _, err := ParseKind("top-level"); err != nil {
		t.Fatalf("top-level: %v", err)
	}
	if _, err := ParseKind("sub-role"); err != nil {
		t.Fatalf("sub-role: %v", err)
	}
	if _, err := ParseKind("sidekick"); err == nil {
		t.Fatalf("expected unsupported kind to fail")
	}
}
