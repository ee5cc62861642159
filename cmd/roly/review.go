package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/roly-sh/roly/internal/review"
	"github.com/roly-sh/roly/internal/role"
	"github.com/roly-sh/roly/internal/tui"
)

func reviewCmd(ctx *appContext) *cobra.Command {
	var (
		targets     []string
		changesFile string
		useStub     bool
	)
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Run interactive review update approval flow for sub-role files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(targets) == 0 {
				return fmt.Errorf("provide at least one --target-sub-role")
			}
			if changesFile == "" && !useStub {
				return fmt.Errorf("provide --changes-file or pass --use-stub")
			}
			return runReview(ctx, targets, changesFile)
		},
	}
	cmd.Flags().StringArrayVar(&targets, "target-sub-role", nil, "Target sub-role slug for updates (repeat for multiple)")
	cmd.Flags().StringVar(&changesFile, "changes-file", "", "YAML file with proposed changes")
	cmd.Flags().BoolVar(&useStub, "use-stub", false, "Use deterministic stub changes when --changes-file is not provided")
	return cmd
}

func runReview(ctx *appContext, targets []string, changesFile string) error {
	var (
		changes []review.Change
		err     error
	)
	if changesFile == "" {
		changes = review.StubChanges(targets)
	} else {
		changes, err = review.LoadChanges(changesFile)
		if err != nil {
			return err
		}
	}

	// Review edits the project-scope sub-role files only.
	content := map[string]string{}
	paths := map[string]string{}
	for _, slug := range targets {
		doc, err := ctx.Store.ProjectRole(role.KindSubRole, slug)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(doc.SourcePath)
		if err != nil {
			return fmt.Errorf("read %s: %w", doc.SourcePath, err)
		}
		content[slug] = string(data)
		paths[slug] = doc.SourcePath
	}
	for _, change := range changes {
		if change.TargetKind != role.KindSubRole {
			return fmt.Errorf("review workflow cannot auto-modify top-level roles")
		}
		if _, ok := content[change.TargetSlug]; !ok {
			return fmt.Errorf("review change target %q is not in --target-sub-role", change.TargetSlug)
		}
	}

	decisions, err := gatherDecisions(ctx, changes)
	if err != nil {
		return err
	}

	session := review.NewSession(content)
	var applied, noop, rejected, skipped int
	for i, change := range changes {
		switch decisions[i] {
		case tui.DecisionAccepted:
			result, err := session.Apply(change)
			if err != nil {
				return err
			}
			if result.Applied {
				applied++
			} else {
				noop++
				if result.Message != "" {
					fmt.Printf("%s for %s\n", result.Message, change.TargetSlug)
				}
			}
		case tui.DecisionRejected:
			rejected++
		default:
			skipped++
		}
	}

	dirty := session.DirtySlugs()
	for _, slug := range dirty {
		if err := os.WriteFile(paths[slug], []byte(session.Content(slug)), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[slug], err)
		}
	}

	ctx.Log.Info("review: %d applied, %d no-op, %d rejected, %d skipped, %d files written",
		applied, noop, rejected, skipped, len(dirty))

	fmt.Println("Review Update Summary")
	fmt.Printf("  accepted_applied: %d\n", applied)
	fmt.Printf("  accepted_noop: %d\n", noop)
	fmt.Printf("  rejected: %d\n", rejected)
	fmt.Printf("  skipped: %d\n", skipped)
	fmt.Printf("  files written: %d\n", len(dirty))
	return nil
}

// gatherDecisions collects one verdict per change, using the bubbletea flow
// when styling is allowed and a plain stdin prompt otherwise.
func gatherDecisions(ctx *appContext, changes []review.Change) ([]tui.Decision, error) {
	if ctx.NoColor {
		return promptDecisions(changes)
	}
	model := tui.NewReviewModel(changes)
	final, err := tea.NewProgram(model).Run()
	if err != nil {
		return promptDecisions(changes)
	}
	return final.(tui.ReviewModel).Decisions(), nil
}

func promptDecisions(changes []review.Change) ([]tui.Decision, error) {
	decisions := make([]tui.Decision, len(changes))
	reader := bufio.NewReader(os.Stdin)
	acceptAll := false
	for i, change := range changes {
		if acceptAll {
			decisions[i] = tui.DecisionAccepted
			continue
		}
		printChangePreview(i+1, len(changes), change)
		fmt.Print("Apply change? [y/n/a/q]: ")
		answer, err := reader.ReadString('\n')
		if err != nil {
			answer = "q"
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y":
			decisions[i] = tui.DecisionAccepted
		case "n":
			decisions[i] = tui.DecisionRejected
		case "a":
			acceptAll = true
			decisions[i] = tui.DecisionAccepted
		default:
			for j := i; j < len(decisions); j++ {
				decisions[j] = tui.DecisionSkipped
			}
			return decisions, nil
		}
	}
	return decisions, nil
}

func printChangePreview(index, total int, change review.Change) {
	fmt.Printf("\nChange %d of %d: %s %s\n", index, total, change.Op, change.TargetSlug)
	switch change.Op {
	case review.OpAdd:
		if change.Anchor != "" {
			fmt.Printf("  anchor: %s\n", change.Anchor)
		}
		fmt.Printf("  + %s\n", change.Text)
	case review.OpRemove:
		fmt.Printf("  - %s\n", change.Text)
	case review.OpModify:
		fmt.Printf("  - %s\n", change.OldText)
		fmt.Printf("  + %s\n", change.NewText)
	}
}
