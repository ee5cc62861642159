package assemble

import (
	"strings"
	"time"

	"github.com/roly-sh/roly/internal/role"
)

// DefaultFilenameTemplate names assembled artifacts when neither the config
// nor any role supplies a template.
const DefaultFilenameTemplate = "review_{subrole-or-role}_{timestamp}.md"

const (
	tokenPrimarySlug = "{subrole-or-role}"
	tokenTimestamp   = "{timestamp}"
)

const timestampLayout = "20060102T150405Z"

// ResolveFilename picks the output filename for an assembly. The tiers fall
// through in order: explicit output override, configured filename, merged
// template, built-in default. This is a total function; it never fails.
func ResolveFilename(
	outputOverride string,
	configFilename string,
	merged role.OutputDefinition,
	top role.Document,
	subRoles []role.Document,
	now time.Time,
) string {
	if outputOverride != "" {
		return outputOverride
	}
	if configFilename != "" {
		return configFilename
	}
	template := merged.FilenameTemplate
	if template == "" {
		template = DefaultFilenameTemplate
	}

	primary := top.Slug
	if len(subRoles) > 0 {
		primary = subRoles[0].Slug
	}
	timestamp := now.UTC().Format(timestampLayout)

	resolved := strings.ReplaceAll(template, tokenPrimarySlug, primary)
	return strings.ReplaceAll(resolved, tokenTimestamp, timestamp)
}
