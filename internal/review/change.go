// Package review applies small, targeted, idempotent text edits to sub-role
// files. Changes are declarative records loaded from a YAML file; the engine
// itself is stateless and performs no I/O.
package review

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roly-sh/roly/internal/role"
)

// ErrInvalidChange indicates a change record failed its operation-specific
// field requirements.
var ErrInvalidChange = errors.New("review: invalid change")

// Op identifies the supported change operations.
type Op string

const (
	OpAdd    Op = "add"
	OpRemove Op = "remove"
	OpModify Op = "modify"
)

// ParseOp maps an on-disk op string to a typed Op.
func ParseOp(value string) (Op, error) {
	switch Op(strings.TrimSpace(value)) {
	case OpAdd:
		return OpAdd, nil
	case OpRemove:
		return OpRemove, nil
	case OpModify:
		return OpModify, nil
	default:
		return "", fmt.Errorf("%w: unsupported op %q", ErrInvalidChange, value)
	}
}

// Change is one validated edit request. Construct changes through NewChange
// (or the YAML loader) only; a change that fails validation never exists.
type Change struct {
	TargetKind role.Kind
	TargetSlug string
	Op         Op

	// Anchor is optional and only meaningful for add.
	Anchor string
	// Text is required for add and remove.
	Text string
	// OldText and NewText drive modify. NewText may be empty, which makes
	// modify a deletion-via-replace.
	OldText string
	NewText string
}

// ChangeSpec carries the raw fields of a change before validation.
type ChangeSpec struct {
	TargetKind string
	TargetSlug string
	Op         string
	Anchor     string
	Text       string
	OldText    string
	NewText    *string
}

// NewChange validates a spec and returns the typed change.
func NewChange(spec ChangeSpec) (Change, error) {
	kind, err := role.ParseKind(spec.TargetKind)
	if err != nil {
		return Change{}, fmt.Errorf("%w: %v", ErrInvalidChange, err)
	}
	slug := strings.TrimSpace(spec.TargetSlug)
	if slug == "" {
		return Change{}, fmt.Errorf("%w: target_slug is required", ErrInvalidChange)
	}
	op, err := ParseOp(spec.Op)
	if err != nil {
		return Change{}, err
	}

	change := Change{
		TargetKind: kind,
		TargetSlug: slug,
		Op:         op,
		Anchor:     spec.Anchor,
		Text:       spec.Text,
		OldText:    spec.OldText,
	}
	switch op {
	case OpAdd, OpRemove:
		if spec.Text == "" {
			return Change{}, fmt.Errorf("%w: text is required for %s operations", ErrInvalidChange, op)
		}
	case OpModify:
		if spec.OldText == "" {
			return Change{}, fmt.Errorf("%w: old_text is required for modify operations", ErrInvalidChange)
		}
		if spec.NewText == nil {
			return Change{}, fmt.Errorf("%w: new_text is required for modify operations", ErrInvalidChange)
		}
		change.NewText = *spec.NewText
	}
	return change, nil
}

type changesEnvelope struct {
	Changes []changeEnvelope `yaml:"changes"`
}

type changeEnvelope struct {
	TargetKind string  `yaml:"target_kind"`
	TargetSlug string  `yaml:"target_slug"`
	Op         string  `yaml:"op"`
	Anchor     string  `yaml:"anchor,omitempty"`
	Text       string  `yaml:"text,omitempty"`
	OldText    string  `yaml:"old_text,omitempty"`
	NewText    *string `yaml:"new_text,omitempty"`
}

// ParseChanges decodes and validates a changes payload.
func ParseChanges(data []byte) ([]Change, error) {
	var envelope changesEnvelope
	if err := yaml.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("review: decode changes: %w", err)
	}
	changes := make([]Change, 0, len(envelope.Changes))
	for i, entry := range envelope.Changes {
		change, err := NewChange(ChangeSpec{
			TargetKind: entry.TargetKind,
			TargetSlug: entry.TargetSlug,
			Op:         entry.Op,
			Anchor:     entry.Anchor,
			Text:       entry.Text,
			OldText:    entry.OldText,
			NewText:    entry.NewText,
		})
		if err != nil {
			return nil, fmt.Errorf("review: changes[%d]: %w", i, err)
		}
		changes = append(changes, change)
	}
	return changes, nil
}

// LoadChanges reads and validates a changes file.
func LoadChanges(path string) ([]Change, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("review: read %s: %w", path, err)
	}
	changes, err := ParseChanges(data)
	if err != nil {
		return nil, fmt.Errorf("review: %s: %w", path, err)
	}
	return changes, nil
}

// StubChanges produces one deterministic placeholder change per target
// sub-role, for workflows that run without a changes file.
func StubChanges(targetSubRoles []string) []Change {
	changes := make([]Change, 0, len(targetSubRoles))
	for _, target := range targetSubRoles {
		changes = append(changes, Change{
			TargetKind: role.KindSubRole,
			TargetSlug: target,
			Op:         OpAdd,
			Anchor:     "## Evaluation Areas",
			Text:       "- Add explicit acceptance-criteria checks for each reported issue.",
		})
	}
	return changes
}
