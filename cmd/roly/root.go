package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roly-sh/roly/internal/config"
	"github.com/roly-sh/roly/internal/logbook"
	"github.com/roly-sh/roly/internal/role"
	"github.com/roly-sh/roly/internal/store"
)

// appContext carries the shared state every subcommand needs: the resolved
// project root and user home, the loaded config, and the role store built
// from both.
type appContext struct {
	ProjectRoot string
	UserHome    string
	NoColor     bool

	Config *config.Config
	Store  *store.Store
	Log    *logbook.Logbook
}

func rootCmd() *cobra.Command {
	var (
		projectRoot string
		userHome    string
		noColor     bool
	)
	ctx := &appContext{}

	cmd := &cobra.Command{
		Use:   "roly",
		Short: "Assemble, review, and promote layered role documents",
		Long: `Roly resolves role documents across three scopes (project, user,
builtin), assembles them into a single deterministic instruction artifact,
and manages review updates and promotion of the underlying role files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.initialize(projectRoot, userHome, noColor)
		},
	}

	cmd.PersistentFlags().StringVar(&projectRoot, "project-root", ".", "Project root directory")
	cmd.PersistentFlags().StringVar(&userHome, "user-home", "", "Roly user home (defaults to ROLY_HOME or ~/.roly)")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI styling for deterministic output")

	cmd.AddCommand(
		listCmd(ctx),
		assembleCmd(ctx),
		reviewCmd(ctx),
		diffCmd(ctx),
		promoteCmd(ctx),
		setupCmd(ctx),
	)
	return cmd
}

func (ctx *appContext) initialize(projectRoot, userHome string, noColor bool) error {
	absRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return fmt.Errorf("resolve project root: %w", err)
	}
	home, err := resolveUserHome(userHome)
	if err != nil {
		return err
	}
	cfg, err := config.NewConfig(absRoot)
	if err != nil {
		return err
	}

	ctx.ProjectRoot = absRoot
	ctx.UserHome = home
	ctx.NoColor = noColor
	ctx.Config = cfg
	ctx.Store = store.New(absRoot, home, cfg.RolesDir())
	if lb, err := logbook.New(filepath.Join(cfg.LogsDir(), "roly.log")); err == nil {
		ctx.Log = lb
	}
	return nil
}

// resolveUserHome picks the user-scope root: explicit flag, then $ROLY_HOME,
// then ~/.roly.
func resolveUserHome(flagValue string) (string, error) {
	if flagValue != "" {
		return filepath.Abs(flagValue)
	}
	if env := os.Getenv("ROLY_HOME"); env != "" {
		return filepath.Abs(env)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(home, ".roly"), nil
}

// resolveRoleTarget maps --role/--role-path flags to a (kind, slug) pair.
// Promote infers the kind from the project scope only; diff probes every
// scope.
func resolveRoleTarget(ctx *appContext, slug, rolePath string, forPromote bool) (role.Kind, string, error) {
	if slug == "" && rolePath == "" {
		return "", "", fmt.Errorf("provide --role or --role-path")
	}
	if slug != "" && rolePath != "" {
		return "", "", fmt.Errorf("provide either --role or --role-path, not both")
	}
	if rolePath != "" {
		doc, err := store.FromPath(rolePath)
		if err != nil {
			return "", "", err
		}
		return doc.Kind, doc.Slug, nil
	}
	var (
		kind role.Kind
		err  error
	)
	if forPromote {
		kind, err = ctx.Store.InferProjectKind(slug)
	} else {
		kind, err = ctx.Store.InferKind(slug)
	}
	if err != nil {
		return "", "", err
	}
	return kind, slug, nil
}

// confirm asks a y/N question on stdin. Defaults to no.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(answer), "y")
}
