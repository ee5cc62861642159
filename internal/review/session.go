package review

import (
	"fmt"
	"sort"
)

// Session accumulates a batch of changes against in-memory file contents,
// one entry per target slug. Successive changes for the same slug fold into
// the same text; only slugs with at least one applied change are reported
// dirty and worth persisting. The session never touches storage.
type Session struct {
	content map[string]string
	dirty   map[string]struct{}
}

// NewSession starts a batch over the given slug -> file content map.
func NewSession(content map[string]string) *Session {
	owned := make(map[string]string, len(content))
	for slug, text := range content {
		owned[slug] = text
	}
	return &Session{
		content: owned,
		dirty:   map[string]struct{}{},
	}
}

// Has reports whether the session tracks the given target slug.
func (s *Session) Has(slug string) bool {
	_, ok := s.content[slug]
	return ok
}

// Apply runs one change against its target's current text. An unknown
// target is an error: review targets are fixed when the session starts.
func (s *Session) Apply(change Change) (Result, error) {
	text, ok := s.content[change.TargetSlug]
	if !ok {
		return Result{}, fmt.Errorf("review: change target %q is not part of this review", change.TargetSlug)
	}
	result, err := ApplyWithResult(text, change)
	if err != nil {
		return Result{}, err
	}
	if result.Applied {
		s.content[change.TargetSlug] = result.Content
		s.dirty[change.TargetSlug] = struct{}{}
	}
	return result, nil
}

// Content returns the current text for a slug.
func (s *Session) Content(slug string) string {
	return s.content[slug]
}

// DirtySlugs returns the slugs with at least one applied change, sorted.
func (s *Session) DirtySlugs() []string {
	slugs := make([]string, 0, len(s.dirty))
	for slug := range s.dirty {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}
