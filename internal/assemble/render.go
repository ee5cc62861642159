package assemble

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roly-sh/roly/internal/role"
)

// Render produces the assembled user-role markdown document from the
// resolved roles and their merged output contract. Output is deterministic
// for a given input.
func Render(userRoleName string, top role.Document, subRoles []role.Document, merged role.OutputDefinition) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# User Role: %s\n\n", userRoleName)

	b.WriteString("## Composition\n")
	fmt.Fprintf(&b, "- Top-Level Role: `%s` (%s)\n", top.Slug, top.SourceScope)
	if len(subRoles) > 0 {
		b.WriteString("- Sub-Roles:\n")
		for _, sub := range subRoles {
			fmt.Fprintf(&b, "  - `%s` (%s)\n", sub.Slug, sub.SourceScope)
		}
	} else {
		b.WriteString("- Sub-Roles: (none)\n")
	}
	b.WriteString("\n")

	b.WriteString("## Resolved Output Definition\n")
	for _, section := range merged.Sections {
		fmt.Fprintf(&b, "\n### %s (%s)\n", section.Key, section.Type)
		if len(section.Guidance) > 0 {
			b.WriteString("- Guidance:\n")
			for _, guidance := range section.Guidance {
				fmt.Fprintf(&b, "  - %s\n", guidance)
			}
		}
		if section.Type == role.SectionList && len(section.Fields) > 0 {
			b.WriteString("- Fields:\n")
			for _, field := range section.Fields {
				fmt.Fprintf(&b, "  - %s\n", field)
			}
		}
		if section.Type == role.SectionList && len(section.ItemContributions) > 0 {
			b.WriteString("- Item Contributions:\n")
			for _, contribution := range section.ItemContributions {
				fmt.Fprintf(&b, "  - %s\n", contribution)
			}
		}
	}

	b.WriteString("\n## Instructions\n\n")
	fmt.Fprintf(&b, "### Top-Level Role: %s\n", top.Name)
	b.WriteString(strings.TrimRight(top.Body, " \t\n"))
	b.WriteString("\n")

	for _, sub := range subRoles {
		fmt.Fprintf(&b, "\n### Sub-Role: %s\n", sub.Name)
		b.WriteString(strings.TrimRight(sub.Body, " \t\n"))
		b.WriteString("\n")
	}

	return b.String()
}

// WriteArtifact persists assembled content under outputDir and returns the
// destination path.
func WriteArtifact(outputDir, filename, content string) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("assemble: ensure output dir: %w", err)
	}
	destination := filepath.Join(outputDir, filename)
	if err := os.WriteFile(destination, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("assemble: write %s: %w", destination, err)
	}
	return destination, nil
}
