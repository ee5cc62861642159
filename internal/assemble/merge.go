// Package assemble combines resolved role documents into one composite
// artifact: it merges the roles' output contracts, resolves the output
// filename, and renders the assembled markdown document.
package assemble

import (
	"fmt"

	"github.com/roly-sh/roly/internal/role"
)

// MergeOutputs folds the output definitions of the top-level role and the
// sub-roles, in that order, into one contract.
//
// Sections merge by normalized key. The first occurrence fixes a section's
// position and type; later occurrences append their guidance (and, for list
// sections, fields and item contributions) under order-preserving,
// first-occurrence-only deduplication. A type mismatch never merges list
// fields; it appends a single conflict note to the kept section instead.
func MergeOutputs(top role.Document, subRoles []role.Document) role.OutputDefinition {
	var sections []role.OutputSection
	indexByKey := map[string]int{}

	ordered := append([]role.Document{top}, subRoles...)
	for _, doc := range ordered {
		for _, section := range doc.Output.Sections {
			key := section.NormalizedKey()
			index, seen := indexByKey[key]
			if !seen {
				sections = append(sections, section.Clone())
				indexByKey[key] = len(sections) - 1
				continue
			}

			current := &sections[index]
			if current.Type != section.Type {
				note := fmt.Sprintf(
					"Conflict detected: section type mismatch encountered during merge; kept '%s' from first definition.",
					current.Type,
				)
				current.Guidance = appendUnique(current.Guidance, note)
				continue
			}

			current.Guidance = appendUnique(current.Guidance, section.Guidance...)
			if current.Type == role.SectionList {
				current.Fields = appendUnique(current.Fields, section.Fields...)
				current.ItemContributions = appendUnique(current.ItemContributions, section.ItemContributions...)
			}
		}
	}

	return role.OutputDefinition{
		FilenameTemplate: mergedFilenameTemplate(top, subRoles),
		Sections:         sections,
	}
}

// mergedFilenameTemplate takes the first non-empty template among the
// sub-roles in order, falling back to the top-level role's template. The
// result may be empty; filename resolution supplies the default.
func mergedFilenameTemplate(top role.Document, subRoles []role.Document) string {
	for _, sub := range subRoles {
		if sub.Output.FilenameTemplate != "" {
			return sub.Output.FilenameTemplate
		}
	}
	return top.Output.FilenameTemplate
}

// appendUnique appends additions to existing, skipping items already present
// by exact string equality and preserving first-occurrence order.
func appendUnique(existing []string, additions ...string) []string {
	seen := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		seen[item] = struct{}{}
	}
	merged := existing
	for _, item := range additions {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		merged = append(merged, item)
	}
	return merged
}
