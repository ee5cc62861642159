package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/roly-sh/roly/internal/diffing"
	"github.com/roly-sh/roly/internal/role"
)

func diffCmd(ctx *appContext) *cobra.Command {
	var (
		slug     string
		rolePath string
	)
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show diff between project-local and user-level role versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, target, err := resolveRoleTarget(ctx, slug, rolePath, false)
			if err != nil {
				return err
			}
			return runDiff(ctx, kind, target)
		},
	}
	cmd.Flags().StringVar(&slug, "role", "", "Role slug (kind inferred when possible)")
	cmd.Flags().StringVar(&rolePath, "role-path", "", "Explicit role file path used to infer kind and slug")
	return cmd
}

func runDiff(ctx *appContext, kind role.Kind, slug string) error {
	projectDoc, err := ctx.Store.ProjectRole(kind, slug)
	if err != nil {
		return err
	}
	userDoc, err := ctx.Store.UserRole(kind, slug)
	if err != nil {
		return err
	}

	userContent, err := os.ReadFile(userDoc.SourcePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", userDoc.SourcePath, err)
	}
	projectContent, err := os.ReadFile(projectDoc.SourcePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", projectDoc.SourcePath, err)
	}

	diff, err := diffing.Unified(userDoc.SourcePath, projectDoc.SourcePath, string(userContent), string(projectContent))
	if err != nil {
		return err
	}
	if diff == "" {
		fmt.Println("No differences.")
		return nil
	}
	fmt.Print(colorizeDiff(diff, ctx.NoColor))
	return nil
}

var (
	diffAddStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	diffRemoveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	diffMetaStyle   = lipgloss.NewStyle().Bold(true)
)

func colorizeDiff(diff string, noColor bool) string {
	if noColor {
		return diff
	}
	var b strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		text := strings.TrimSuffix(line, "\n")
		switch diffing.Classify(text) {
		case diffing.LineAdded:
			b.WriteString(diffAddStyle.Render(text))
		case diffing.LineRemoved:
			b.WriteString(diffRemoveStyle.Render(text))
		case diffing.LineMeta:
			b.WriteString(diffMetaStyle.Render(text))
		default:
			b.WriteString(text)
		}
		b.WriteString("\n")
	}
	return b.String()
}
