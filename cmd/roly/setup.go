package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roly-sh/roly/internal/config"
	"github.com/roly-sh/roly/internal/setup"
)

func setupCmd(ctx *appContext) *cobra.Command {
	var (
		agent    string
		skillDir string
		codexDir string
		rolyHome string
		force    bool
		yes      bool
	)
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Install/update the review skill and persist setup defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup(ctx, agent, skillDir, codexDir, rolyHome, force, yes)
		},
	}
	cmd.Flags().StringVar(&agent, "agent", "", "Setup target agent (none or codex)")
	cmd.Flags().StringVar(&skillDir, "skill-dir", "", "Portable prompt output path for --agent none")
	cmd.Flags().StringVar(&codexDir, "codex-dir", "", "Codex skills root directory (defaults to CODEX_HOME/skills or ~/.codex/skills)")
	cmd.Flags().StringVar(&rolyHome, "roly-home", "", "Persisted Roly home override for setup defaults")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing install target")
	cmd.Flags().BoolVar(&yes, "yes", false, "Skip interactive confirmation prompts")
	return cmd
}

func runSetup(ctx *appContext, agent, skillDir, codexDir, rolyHome string, force, yes bool) error {
	if err := config.InitRolyDir(ctx.ProjectRoot); err != nil {
		return fmt.Errorf("initialize .roly directory: %w", err)
	}

	if agent == "" {
		agent = ctx.Config.Project.Setup.Agent
	}
	if skillDir == "" {
		skillDir = ctx.Config.Project.Setup.SkillDir
	}
	if codexDir == "" {
		codexDir = ctx.Config.Project.Setup.CodexDir
	}

	var (
		result setup.Result
		err    error
	)
	switch agent {
	case "none":
		result, err = setup.InstallPortable(ctx.ProjectRoot, skillDir, force)
	case "codex":
		result, err = setup.InstallCodex(codexDir, force)
	default:
		return fmt.Errorf("--agent must be 'none' or 'codex', got %q", agent)
	}
	if err != nil {
		return err
	}

	merged, err := setup.MergedSetupConfig(ctx.Config.Project.Setup, agent, skillDir, codexDir, rolyHome)
	if err != nil {
		return err
	}
	ctx.Config.Project.Setup = merged

	configFile := ctx.Config.ProjectConfigPath()
	if yes || confirm(fmt.Sprintf("Persist setup defaults to %s?", configFile)) {
		if err := ctx.Config.Save(); err != nil {
			return err
		}
	}

	ctx.Log.Info("setup: agent %s, %s -> %s", agent, result.Action, result.Destination)
	fmt.Println("Setup Complete")
	fmt.Printf("  agent: %s\n", agent)
	fmt.Printf("  destination: %s\n", result.Destination)
	fmt.Printf("  status: %s\n", result.Action)
	return nil
}
