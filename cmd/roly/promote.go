package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roly-sh/roly/internal/role"
)

func promoteCmd(ctx *appContext) *cobra.Command {
	var (
		slug     string
		rolePath string
		yes      bool
	)
	cmd := &cobra.Command{
		Use:   "promote",
		Short: "Promote a project-local role to user-level by overwrite",
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, target, err := resolveRoleTarget(ctx, slug, rolePath, true)
			if err != nil {
				return err
			}
			return runPromote(ctx, kind, target, yes)
		},
	}
	cmd.Flags().StringVar(&slug, "role", "", "Project-local role slug (kind inferred)")
	cmd.Flags().StringVar(&rolePath, "role-path", "", "Explicit role file path used to infer kind and slug")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip confirmation prompt")
	return cmd
}

func runPromote(ctx *appContext, kind role.Kind, slug string, yes bool) error {
	projectDoc, err := ctx.Store.ProjectRole(kind, slug)
	if err != nil {
		return err
	}
	destination := ctx.Store.RolePath(role.ScopeUser, kind, slug)

	if !yes && !confirm(fmt.Sprintf("Overwrite user-level role at %s?", destination)) {
		fmt.Println("Promotion cancelled.")
		return nil
	}

	content, err := os.ReadFile(projectDoc.SourcePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", projectDoc.SourcePath, err)
	}
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return fmt.Errorf("ensure user roles dir: %w", err)
	}
	if err := os.WriteFile(destination, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", destination, err)
	}

	ctx.Log.Info("promoted %s:%s -> %s", kind, slug, destination)
	fmt.Printf("Promoted %s:%s -> %s\n", kind, slug, destination)
	return nil
}
