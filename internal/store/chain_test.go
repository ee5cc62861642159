package store

import (
	"errors"
	"testing"

	"github.com/roly-sh/roly/internal/role"
)

func TestResolveChainSubRolePullsDependency(t *testing.T) {
	s, _, _ := newTestStore(t)

	top, subs, err := s.ResolveChain([]string{"code-review"})
	if err != nil {
		t.Fatalf("resolve chain: %v", err)
	}
	if top.Slug != "reviewer" {
		t.Fatalf("top-level = %q, want reviewer", top.Slug)
	}
	if len(subs) != 1 || subs[0].Slug != "code-review" {
		t.Fatalf("unexpected sub-roles: %+v", subs)
	}
}

func TestResolveChainDeduplicatesSubRoles(t *testing.T) {
	s, _, _ := newTestStore(t)

	_, subs, err := s.ResolveChain([]string{"code-review", "architecture-review", "code-review"})
	if err != nil {
		t.Fatalf("resolve chain: %v", err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 sub-roles, got %d", len(subs))
	}
	if subs[0].Slug != "code-review" || subs[1].Slug != "architecture-review" {
		t.Fatalf("first-seen order not preserved: %+v", subs)
	}
}

func TestResolveChainExplicitTopLevelMatchesDependency(t *testing.T) {
	s, _, _ := newTestStore(t)

	top, subs, err := s.ResolveChain([]string{"reviewer", "code-review"})
	if err != nil {
		t.Fatalf("resolve chain: %v", err)
	}
	if top.Slug != "reviewer" || len(subs) != 1 {
		t.Fatalf("unexpected chain: top=%q subs=%+v", top.Slug, subs)
	}
}

func TestResolveChainConflictingTopLevels(t *testing.T) {
	s, projectRoles, _ := newTestStore(t)
	writeRoleFile(t, projectRoles, role.KindTopLevel, "planner", "Planner", "")

	_, _, err := s.ResolveChain([]string{"planner", "code-review"})
	if !errors.Is(err, ErrConflictingTopLevel) {
		t.Fatalf("expected ErrConflictingTopLevel, got %v", err)
	}
}

func TestResolveChainConflictingDependencies(t *testing.T) {
	s, projectRoles, _ := newTestStore(t)
	writeRoleFile(t, projectRoles, role.KindTopLevel, "planner", "Planner", "")
	writeRoleFile(t, projectRoles, role.KindSubRole, "scoping", "Scoping", "planner")

	_, _, err := s.ResolveChain([]string{"code-review", "scoping"})
	if !errors.Is(err, ErrConflictingTopLevel) {
		t.Fatalf("expected ErrConflictingTopLevel, got %v", err)
	}
}

func TestResolveChainUnknownSlug(t *testing.T) {
	s, _, _ := newTestStore(t)
	_, _, err := s.ResolveChain([]string{"nonexistent"})
	if !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestResolveChainEmptyRequest(t *testing.T) {
	s, _, _ := newTestStore(t)
	_, _, err := s.ResolveChain(nil)
	if !errors.Is(err, ErrNoTopLevelRole) {
		t.Fatalf("expected ErrNoTopLevelRole, got %v", err)
	}
}

func TestResolveChainMissingDependencyResolvesNotFound(t *testing.T) {
	s, projectRoles, _ := newTestStore(t)
	writeRoleFile(t, projectRoles, role.KindSubRole, "drifter", "Drifter", "gone-top-level")

	_, _, err := s.ResolveChain([]string{"drifter"})
	if !errors.Is(err, ErrRoleNotFound) {
		t.Fatalf("expected dependency resolution failure, got %v", err)
	}
}
