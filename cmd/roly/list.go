package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/roly-sh/roly/internal/role"
)

func listCmd(ctx *appContext) *cobra.Command {
	var (
		scopeFilter string
		kindFilter  string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available roles across builtin/user/project scopes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateScopeFilter(scopeFilter); err != nil {
				return err
			}
			if err := validateKindFilter(kindFilter); err != nil {
				return err
			}
			docs, err := ctx.Store.List(scopeFilter, kindFilter)
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				fmt.Println("No roles found.")
				return nil
			}
			fmt.Println(renderRolesTable(docs, ctx.NoColor))
			return nil
		},
	}
	cmd.Flags().StringVar(&scopeFilter, "scope", "all", "Filter by role source scope (all, builtin, user, project)")
	cmd.Flags().StringVar(&kindFilter, "kind", "all", "Filter by role kind (all, top-level, sub-role)")
	return cmd
}

func validateScopeFilter(value string) error {
	switch value {
	case "all", string(role.ScopeBuiltin), string(role.ScopeUser), string(role.ScopeProject):
		return nil
	}
	return fmt.Errorf("invalid --scope %q (want all, builtin, user, or project)", value)
}

func validateKindFilter(value string) error {
	switch value {
	case "all", string(role.KindTopLevel), string(role.KindSubRole):
		return nil
	}
	return fmt.Errorf("invalid --kind %q (want all, top-level, or sub-role)", value)
}

func renderRolesTable(docs []role.Document, noColor bool) string {
	headerStyle := lipgloss.NewStyle().Bold(true)
	if noColor {
		headerStyle = lipgloss.NewStyle()
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("SCOPE", "KIND", "SLUG", "NAME", "PATH").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		})
	for _, doc := range docs {
		t.Row(string(doc.SourceScope), string(doc.Kind), doc.Slug, doc.Name, doc.SourcePath)
	}
	return t.Render()
}
