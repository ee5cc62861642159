// internal/tui/review.go
//
// Interactive review approval. It uses bubbletea, which follows The Elm
// Architecture: a Model holds state, Update reacts to messages, View
// renders. The model only records a decision per change; the caller applies
// accepted changes after the program exits, so the flow stays testable.

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/roly-sh/roly/internal/review"
)

// Decision is the reviewer's verdict on one change.
type Decision int

const (
	DecisionPending Decision = iota
	DecisionAccepted
	DecisionRejected
	DecisionSkipped
)

// String renders the verdict for summaries.
func (d Decision) String() string {
	switch d {
	case DecisionAccepted:
		return "accepted"
	case DecisionRejected:
		return "rejected"
	case DecisionSkipped:
		return "skipped"
	default:
		return "pending"
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	acceptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	rejectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// ReviewModel walks the reviewer through a batch of changes.
type ReviewModel struct {
	changes   []review.Change
	decisions []Decision
	index     int
	done      bool
	width     int
}

// NewReviewModel builds the approval model for a batch of changes.
func NewReviewModel(changes []review.Change) ReviewModel {
	return ReviewModel{
		changes:   changes,
		decisions: make([]Decision, len(changes)),
		done:      len(changes) == 0,
	}
}

// Init implements tea.Model.
func (m ReviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Keys: y accepts, n rejects, a accepts the
// current and every remaining change, q quits and skips the rest.
func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.done {
			return m, tea.Quit
		}
		switch msg.String() {
		case "y", "enter":
			return m.decide(DecisionAccepted), m.maybeQuit()
		case "n":
			return m.decide(DecisionRejected), m.maybeQuit()
		case "a":
			for i := m.index; i < len(m.decisions); i++ {
				m.decisions[i] = DecisionAccepted
			}
			m.index = len(m.changes)
			m.done = true
			return m, tea.Quit
		case "q", "esc", "ctrl+c":
			for i := m.index; i < len(m.decisions); i++ {
				m.decisions[i] = DecisionSkipped
			}
			m.index = len(m.changes)
			m.done = true
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ReviewModel) decide(d Decision) ReviewModel {
	m.decisions[m.index] = d
	m.index++
	if m.index >= len(m.changes) {
		m.done = true
	}
	return m
}

func (m ReviewModel) maybeQuit() tea.Cmd {
	if m.done {
		return tea.Quit
	}
	return nil
}

// View implements tea.Model.
func (m ReviewModel) View() string {
	if m.done {
		return ""
	}
	change := m.changes[m.index]
	var b strings.Builder
	b.WriteString(titleStyle.Render("Review changes"))
	b.WriteString(faintStyle.Render(fmt.Sprintf("  change %d of %d\n", m.index+1, len(m.changes))))
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(renderChange(change)))
	b.WriteString("\n\n")
	b.WriteString(faintStyle.Render("y accept · n reject · a accept all · q quit (skip rest)"))
	b.WriteString("\n")
	return b.String()
}

func renderChange(change review.Change) string {
	lines := []string{
		labelStyle.Render("target: ") + fmt.Sprintf("%s (%s)", change.TargetSlug, change.TargetKind),
		labelStyle.Render("op:     ") + string(change.Op),
	}
	switch change.Op {
	case review.OpAdd:
		if change.Anchor != "" {
			lines = append(lines, labelStyle.Render("anchor: ")+change.Anchor)
		}
		lines = append(lines, acceptStyle.Render("+ "+change.Text))
	case review.OpRemove:
		lines = append(lines, rejectStyle.Render("- "+change.Text))
	case review.OpModify:
		lines = append(lines,
			rejectStyle.Render("- "+change.OldText),
			acceptStyle.Render("+ "+change.NewText),
		)
	}
	return strings.Join(lines, "\n")
}

// Decisions returns one verdict per change, in input order.
func (m ReviewModel) Decisions() []Decision {
	return append([]Decision(nil), m.decisions...)
}

// Done reports whether every change has a verdict.
func (m ReviewModel) Done() bool {
	return m.done
}
