// Package role defines the typed records for layered role documents: the
// role metadata, the output-shape contract, and the provenance recorded for
// every resolved role. Values are only constructed through the validating
// parse path so that an invalid document never escapes this package.
package role

import (
	"fmt"
	"strings"
)

// Kind identifies the two supported role kinds.
type Kind string

const (
	KindTopLevel Kind = "top-level"
	KindSubRole  Kind = "sub-role"
)

// Kinds lists every supported kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindTopLevel, KindSubRole}
}

// ParseKind maps an on-disk kind string to a typed Kind.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.TrimSpace(value)) {
	case KindTopLevel:
		return KindTopLevel, nil
	case KindSubRole:
		return KindSubRole, nil
	default:
		return "", fmt.Errorf("role: unsupported kind %q", value)
	}
}

// Scope identifies where a resolved role document came from. Scope is
// provenance, not identity: two documents with equal kind and slug are the
// same role regardless of scope.
type Scope string

const (
	ScopeBuiltin Scope = "builtin"
	ScopeUser    Scope = "user"
	ScopeProject Scope = "project"
)

// SectionType identifies the shape of one output section.
type SectionType string

const (
	SectionText SectionType = "text"
	SectionList SectionType = "list"
)

// ParseSectionType maps an on-disk section type string to a typed value.
func ParseSectionType(value string) (SectionType, error) {
	switch SectionType(strings.TrimSpace(value)) {
	case SectionText:
		return SectionText, nil
	case SectionList:
		return SectionList, nil
	default:
		return "", fmt.Errorf("role: unsupported section type %q", value)
	}
}

// OutputSection is one named component of an output contract.
type OutputSection struct {
	Key               string
	Type              SectionType
	Guidance          []string
	Fields            []string
	ItemContributions []string
}

// NormalizedKey returns the merge identity for the section: trimmed and
// case-folded, never used for display.
func (s OutputSection) NormalizedKey() string {
	return strings.ToLower(strings.TrimSpace(s.Key))
}

// Clone returns a copy with independent list fields.
func (s OutputSection) Clone() OutputSection {
	clone := s
	clone.Guidance = append([]string(nil), s.Guidance...)
	clone.Fields = append([]string(nil), s.Fields...)
	clone.ItemContributions = append([]string(nil), s.ItemContributions...)
	return clone
}

// OutputDefinition is the output contract carried by a role, or the result
// of merging several roles' contracts. Section order is first-seen order.
type OutputDefinition struct {
	FilenameTemplate string
	Sections         []OutputSection
}

// Document is one resolved role. Documents are immutable values; review
// edits produce a replacement file, never an in-place mutation.
type Document struct {
	Kind              Kind
	Name              string
	Slug              string
	Version           string
	DependsOnTopLevel string
	Output            OutputDefinition
	Body              string

	// SourceScope and SourcePath record provenance for diagnostics and the
	// diff/promote workflow only.
	SourceScope Scope
	SourcePath  string
}

// Validate enforces the document invariants that the parser relies on.
func (d Document) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("role: name is required")
	}
	if d.Slug == "" {
		return fmt.Errorf("role: slug is required")
	}
	if d.Version == "" {
		return fmt.Errorf("role %s: version is required", d.Slug)
	}
	switch d.Kind {
	case KindTopLevel:
	case KindSubRole:
		if strings.TrimSpace(d.DependsOnTopLevel) == "" {
			return fmt.Errorf("role %s: depends_on_top_level is required for sub-roles", d.Slug)
		}
	default:
		return fmt.Errorf("role %s: unsupported kind %q", d.Slug, d.Kind)
	}
	for i, section := range d.Output.Sections {
		if strings.TrimSpace(section.Key) == "" {
			return fmt.Errorf("role %s: output section %d: key is required", d.Slug, i)
		}
		switch section.Type {
		case SectionText, SectionList:
		default:
			return fmt.Errorf("role %s: output section %s: unsupported type %q", d.Slug, section.Key, section.Type)
		}
	}
	return nil
}
