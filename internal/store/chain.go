package store

import (
	"errors"
	"fmt"

	"github.com/roly-sh/roly/internal/role"
)

var (
	// ErrConflictingTopLevel indicates a chain request implies two different
	// top-level roles.
	ErrConflictingTopLevel = errors.New("store: conflicting top-level roles")
	// ErrMissingDependency indicates a resolved sub-role carries no top-level
	// dependency. The document model forbids this, but documents originate
	// from untrusted storage, so the chain checks anyway.
	ErrMissingDependency = errors.New("store: sub-role missing dependency metadata")
	// ErrNoTopLevelRole indicates chain resolution finished without
	// establishing a top-level role.
	ErrNoTopLevelRole = errors.New("store: no top-level role resolved")
)

// ResolveChain resolves an ordered list of requested slugs into the single
// top-level role plus the sub-roles of the assembly, in first-seen order.
//
// A requested top-level role becomes the chain's top-level role; a second,
// differently-slugged one is a conflict. A requested sub-role contributes
// its declared top-level dependency under the same single-top-level rule and
// is appended to the sub-role list, de-duplicated by slug.
func (s *Store) ResolveChain(slugs []string) (role.Document, []role.Document, error) {
	if len(slugs) == 0 {
		return role.Document{}, nil, fmt.Errorf("%w: no roles requested", ErrNoTopLevelRole)
	}

	var (
		topLevel *role.Document
		subRoles []role.Document
		seenSubs = map[string]struct{}{}
	)

	adoptTopLevel := func(doc role.Document) error {
		if topLevel == nil {
			topLevel = &doc
			return nil
		}
		if topLevel.Slug != doc.Slug {
			return fmt.Errorf("%w: %s and %s", ErrConflictingTopLevel, topLevel.Slug, doc.Slug)
		}
		return nil
	}

	for _, slug := range slugs {
		kind, err := s.InferKind(slug)
		if err != nil {
			return role.Document{}, nil, err
		}
		doc, err := s.Resolve(kind, slug)
		if err != nil {
			return role.Document{}, nil, err
		}

		if kind == role.KindTopLevel {
			if err := adoptTopLevel(doc); err != nil {
				return role.Document{}, nil, err
			}
			continue
		}

		if doc.DependsOnTopLevel == "" {
			return role.Document{}, nil, fmt.Errorf("%w: %s", ErrMissingDependency, doc.Slug)
		}
		dependency, err := s.Resolve(role.KindTopLevel, doc.DependsOnTopLevel)
		if err != nil {
			return role.Document{}, nil, err
		}
		if err := adoptTopLevel(dependency); err != nil {
			return role.Document{}, nil, err
		}

		if _, seen := seenSubs[doc.Slug]; seen {
			continue
		}
		seenSubs[doc.Slug] = struct{}{}
		subRoles = append(subRoles, doc)
	}

	if topLevel == nil {
		return role.Document{}, nil, ErrNoTopLevelRole
	}
	return *topLevel, subRoles, nil
}
