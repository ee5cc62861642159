package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/roly-sh/roly/internal/assemble"
	"github.com/roly-sh/roly/internal/config"
	"github.com/roly-sh/roly/internal/tui"
)

func assembleCmd(ctx *appContext) *cobra.Command {
	var (
		userRole string
		roles    []string
		name     string
		output   string
	)
	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Assemble a deterministic user role artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssemble(ctx, userRole, roles, name, output)
		},
	}
	cmd.Flags().StringVar(&userRole, "user-role", "", "Named user role from config")
	cmd.Flags().StringArrayVar(&roles, "role", nil, "Role slug (repeat flag for ad-hoc mode)")
	cmd.Flags().StringVar(&name, "name", "", "Assembled role name (ad-hoc mode)")
	cmd.Flags().StringVar(&output, "output", "", "Output file path override")
	return cmd
}

func runAssemble(ctx *appContext, userRole string, roles []string, name, output string) error {
	var (
		requested      []string
		userRoleName   string
		configFilename string
	)

	if len(roles) > 0 {
		requested = roles
		userRoleName = name
		if userRoleName == "" {
			userRoleName = requested[0] + "-ad-hoc"
		}
	} else {
		preset, err := selectPreset(ctx, userRole)
		if err != nil {
			return err
		}
		requested = preset.ResolvedRoles()
		if len(preset.Roles) == 0 && preset.TopLevelRole != "" {
			fmt.Println("Config uses legacy top_level_role/sub_roles; migrate to the 'roles' list.")
		}
		if len(requested) == 0 {
			return fmt.Errorf("user role %q has no roles configured", preset.Name)
		}
		userRoleName = preset.Name
		configFilename = preset.OutputFilename
	}

	top, subRoles, err := ctx.Store.ResolveChain(requested)
	if err != nil {
		return err
	}
	merged := assemble.MergeOutputs(top, subRoles)
	content := assemble.Render(userRoleName, top, subRoles, merged)

	var destination string
	if output != "" {
		destination = output
		if !filepath.IsAbs(destination) {
			destination = filepath.Join(ctx.ProjectRoot, destination)
		}
		if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
			return fmt.Errorf("ensure output dir: %w", err)
		}
		if err := os.WriteFile(destination, []byte(content), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", destination, err)
		}
	} else {
		filename := assemble.ResolveFilename("", configFilename, merged, top, subRoles, time.Now())
		destination, err = assemble.WriteArtifact(ctx.Config.OutputDir(), filename, content)
		if err != nil {
			return err
		}
	}

	subSlugs := make([]string, 0, len(subRoles))
	for _, sub := range subRoles {
		subSlugs = append(subSlugs, sub.Slug)
	}
	ctx.Log.Info("assembled %s (top-level %s, sub-roles %d) -> %s", userRoleName, top.Slug, len(subRoles), destination)

	fmt.Printf("output: %s\n", destination)
	fmt.Printf("top-level: %s\n", top.Slug)
	if len(subSlugs) > 0 {
		fmt.Printf("sub-roles: %s\n", strings.Join(subSlugs, ", "))
	} else {
		fmt.Println("sub-roles: (none)")
	}
	return nil
}

// selectPreset picks the user-role preset to assemble: the named one, the
// only one, or via the interactive picker when several are configured.
func selectPreset(ctx *appContext, userRole string) (config.UserRolePreset, error) {
	presets := ctx.Config.Presets()
	if len(presets) == 0 {
		return config.UserRolePreset{}, fmt.Errorf("config has no user_roles entries and no --role values provided")
	}
	if userRole != "" {
		preset, ok := ctx.Config.Preset(userRole)
		if !ok {
			return config.UserRolePreset{}, fmt.Errorf("user role not found in config: %s", userRole)
		}
		return preset, nil
	}
	if len(presets) == 1 {
		return presets[0], nil
	}
	if ctx.NoColor {
		return config.UserRolePreset{}, fmt.Errorf("multiple user roles in config; choose one with --user-role")
	}
	picker := tui.NewPresetPicker(presets)
	final, err := tea.NewProgram(picker).Run()
	if err != nil {
		return config.UserRolePreset{}, fmt.Errorf("multiple user roles in config; choose one with --user-role")
	}
	chosen := final.(tui.PresetPicker)
	if chosen.Aborted() || chosen.Selected() == "" {
		return config.UserRolePreset{}, fmt.Errorf("no user role selected")
	}
	preset, _ := ctx.Config.Preset(chosen.Selected())
	return preset, nil
}
