// Package store locates role documents across the three precedence-ordered
// storage scopes: project, then user, then the builtin roles embedded in the
// binary. Each lookup returns the first scope that has a file for the exact
// (kind, slug) pair; scopes are never merged.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roly-sh/roly/internal/role"
)

var (
	// ErrRoleNotFound indicates no scope holds a file for the requested role.
	ErrRoleNotFound = errors.New("store: role not found")
	// ErrAmbiguousRole indicates a slug matched more than one role kind.
	ErrAmbiguousRole = errors.New("store: ambiguous role slug")
)

// DefaultRolesDir is the project-relative roles directory used when the
// config does not override it.
const DefaultRolesDir = ".roly/roles"

// Store resolves role documents for one project root and user home.
type Store struct {
	projectRoot string
	userHome    string
	rolesDir    string
}

// New builds a store. rolesDir is the project roles directory, either
// absolute or relative to the project root; an empty value falls back to
// DefaultRolesDir.
func New(projectRoot, userHome, rolesDir string) *Store {
	if strings.TrimSpace(rolesDir) == "" {
		rolesDir = DefaultRolesDir
	}
	return &Store{
		projectRoot: projectRoot,
		userHome:    userHome,
		rolesDir:    rolesDir,
	}
}

// ProjectRolesRoot returns the absolute project-scope roles directory.
func (s *Store) ProjectRolesRoot() string {
	if filepath.IsAbs(s.rolesDir) {
		return s.rolesDir
	}
	return filepath.Join(s.projectRoot, s.rolesDir)
}

// UserRolesRoot returns the user-scope roles directory.
func (s *Store) UserRolesRoot() string {
	return filepath.Join(s.userHome, "roles")
}

func kindDir(kind role.Kind) string {
	if kind == role.KindTopLevel {
		return "top_level"
	}
	return "sub_roles"
}

func slugFilename(slug string) string {
	return slug + ".md"
}

// RolePath returns the on-disk location for a role in a filesystem scope.
// Builtin roles live inside the binary and have no real path.
func (s *Store) RolePath(scope role.Scope, kind role.Kind, slug string) string {
	switch scope {
	case role.ScopeProject:
		return filepath.Join(s.ProjectRolesRoot(), kindDir(kind), slugFilename(slug))
	case role.ScopeUser:
		return filepath.Join(s.UserRolesRoot(), kindDir(kind), slugFilename(slug))
	default:
		return builtinPath(kind, slug)
	}
}

// Resolve returns the highest-precedence document for (kind, slug), probing
// project, then user, then builtin.
func (s *Store) Resolve(kind role.Kind, slug string) (role.Document, error) {
	for _, scope := range []role.Scope{role.ScopeProject, role.ScopeUser} {
		doc, ok, err := s.loadScoped(scope, kind, slug)
		if err != nil {
			return role.Document{}, err
		}
		if ok {
			return doc, nil
		}
	}
	doc, ok, err := loadBuiltin(kind, slug)
	if err != nil {
		return role.Document{}, err
	}
	if ok {
		return doc, nil
	}
	return role.Document{}, fmt.Errorf("%w: %s %s", ErrRoleNotFound, kind, slug)
}

// InferKind determines the kind for a slug by probing every scope for each
// kind. It succeeds only when exactly one kind has at least one match;
// callers must disambiguate with an explicit path otherwise.
func (s *Store) InferKind(slug string) (role.Kind, error) {
	var matches []role.Kind
	for _, kind := range role.Kinds() {
		if s.anyScopeHas(kind, slug) {
			matches = append(matches, kind)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrRoleNotFound, slug)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s matches both role kinds", ErrAmbiguousRole, slug)
	}
}

// InferProjectKind determines the kind for a slug from the project scope only.
func (s *Store) InferProjectKind(slug string) (role.Kind, error) {
	var matches []role.Kind
	for _, kind := range role.Kinds() {
		if fileExists(s.RolePath(role.ScopeProject, kind, slug)) {
			matches = append(matches, kind)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: project role %s", ErrRoleNotFound, slug)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: project role %s matches both kinds", ErrAmbiguousRole, slug)
	}
}

// ProjectRole loads a role from the project scope only.
func (s *Store) ProjectRole(kind role.Kind, slug string) (role.Document, error) {
	doc, ok, err := s.loadScoped(role.ScopeProject, kind, slug)
	if err != nil {
		return role.Document{}, err
	}
	if !ok {
		return role.Document{}, fmt.Errorf("%w: project role %s %s", ErrRoleNotFound, kind, slug)
	}
	return doc, nil
}

// UserRole loads a role from the user scope only.
func (s *Store) UserRole(kind role.Kind, slug string) (role.Document, error) {
	doc, ok, err := s.loadScoped(role.ScopeUser, kind, slug)
	if err != nil {
		return role.Document{}, err
	}
	if !ok {
		return role.Document{}, fmt.Errorf("%w: user role %s %s", ErrRoleNotFound, kind, slug)
	}
	return doc, nil
}

// FromPath parses a role file at an explicit location, bypassing scope
// resolution. The document keeps project provenance.
func FromPath(path string) (role.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return role.Document{}, fmt.Errorf("store: read %s: %w", path, err)
	}
	return role.ParseDocument(data, role.ScopeProject, path)
}

// List enumerates roles across scopes and kinds. Filters accept "all", a
// scope name, or a kind name respectively. Results are ordered builtin,
// user, project, with filenames sorted inside each directory.
func (s *Store) List(scopeFilter, kindFilter string) ([]role.Document, error) {
	var kinds []role.Kind
	for _, kind := range role.Kinds() {
		if kindFilter == "all" || kindFilter == string(kind) {
			kinds = append(kinds, kind)
		}
	}

	var docs []role.Document
	if scopeFilter == "all" || scopeFilter == string(role.ScopeBuiltin) {
		for _, kind := range kinds {
			builtins, err := listBuiltin(kind)
			if err != nil {
				return nil, err
			}
			docs = append(docs, builtins...)
		}
	}
	for _, scope := range []role.Scope{role.ScopeUser, role.ScopeProject} {
		if scopeFilter != "all" && scopeFilter != string(scope) {
			continue
		}
		for _, kind := range kinds {
			scoped, err := s.listScoped(scope, kind)
			if err != nil {
				return nil, err
			}
			docs = append(docs, scoped...)
		}
	}
	return docs, nil
}

func (s *Store) anyScopeHas(kind role.Kind, slug string) bool {
	if fileExists(s.RolePath(role.ScopeProject, kind, slug)) {
		return true
	}
	if fileExists(s.RolePath(role.ScopeUser, kind, slug)) {
		return true
	}
	return builtinExists(kind, slug)
}

func (s *Store) loadScoped(scope role.Scope, kind role.Kind, slug string) (role.Document, bool, error) {
	path := s.RolePath(scope, kind, slug)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return role.Document{}, false, nil
		}
		return role.Document{}, false, fmt.Errorf("store: read %s: %w", path, err)
	}
	doc, err := role.ParseDocument(data, scope, path)
	if err != nil {
		return role.Document{}, false, err
	}
	return doc, true, nil
}

func (s *Store) listScoped(scope role.Scope, kind role.Kind) ([]role.Document, error) {
	var dir string
	if scope == role.ScopeProject {
		dir = filepath.Join(s.ProjectRolesRoot(), kindDir(kind))
	} else {
		dir = filepath.Join(s.UserRolesRoot(), kindDir(kind))
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: read %s: %w", dir, err)
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var docs []role.Document
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("store: read %s: %w", path, err)
		}
		doc, err := role.ParseDocument(data, scope, path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
