// internal/setup/setup.go
//
// Installs the bundled review-skill prompt, either as a portable markdown
// file in the project or as a Codex skill folder. Installed files carry a
// metadata triple (skill id, template version, template timestamp); an
// existing file is only overwritten when the triple differs or --force is
// given.

package setup

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/roly-sh/roly/internal/config"
)

const (
	// CodexSkillName is the folder name used under the Codex skills root.
	CodexSkillName = "roly-review"

	portableFilename = "roly_review_skill.md"
)

// Action reported for one setup write.
const (
	ActionInstalled = "installed"
	ActionUpdated   = "updated"
	ActionUpToDate  = "up-to-date"
)

//go:embed templates/portable.md templates/codex/SKILL.md
var templates embed.FS

// Result reports where a skill landed and what happened to it.
type Result struct {
	Destination string
	Action      string
}

// PortablePrompt returns the bundled portable review-skill prompt.
func PortablePrompt() string {
	data, err := templates.ReadFile("templates/portable.md")
	if err != nil {
		panic(fmt.Sprintf("setup: bundled portable template missing: %v", err))
	}
	return string(data)
}

// CodexSkill returns the bundled Codex SKILL.md content.
func CodexSkill() string {
	data, err := templates.ReadFile("templates/codex/SKILL.md")
	if err != nil {
		panic(fmt.Sprintf("setup: bundled codex template missing: %v", err))
	}
	return string(data)
}

// ResolveCodexSkillsDir picks the Codex skills root: an explicit dir wins,
// then $CODEX_HOME/skills, then ~/.codex/skills.
func ResolveCodexSkillsDir(codexDir string) (string, error) {
	if codexDir != "" {
		return expandHome(codexDir)
	}
	if envHome := os.Getenv("CODEX_HOME"); envHome != "" {
		expanded, err := expandHome(envHome)
		if err != nil {
			return "", err
		}
		return filepath.Join(expanded, "skills"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("setup: resolve home directory: %w", err)
	}
	return filepath.Join(home, ".codex", "skills"), nil
}

// DefaultPortableSkillPath is where the portable prompt lands when no
// skill dir is configured.
func DefaultPortableSkillPath(projectRoot string) string {
	return filepath.Join(projectRoot, portableFilename)
}

// InstallPortable writes the portable prompt into the project (or the
// configured skill dir).
func InstallPortable(projectRoot, skillDir string, force bool) (Result, error) {
	destination := DefaultPortableSkillPath(projectRoot)
	if skillDir != "" {
		expanded, err := expandHome(skillDir)
		if err != nil {
			return Result{}, err
		}
		if !filepath.IsAbs(expanded) {
			expanded = filepath.Join(projectRoot, expanded)
		}
		destination = filepath.Clean(expanded)
	}
	return writeIfNeeded(destination, PortablePrompt(), force)
}

// InstallCodex writes SKILL.md under <skills root>/roly-review/.
func InstallCodex(codexDir string, force bool) (Result, error) {
	root, err := ResolveCodexSkillsDir(codexDir)
	if err != nil {
		return Result{}, err
	}
	destination := filepath.Join(root, CodexSkillName, "SKILL.md")
	return writeIfNeeded(destination, CodexSkill(), force)
}

// NeedsUpdate reports whether destination should be overwritten with
// content. Missing files and --force always update; otherwise the decision
// compares the metadata triples.
func NeedsUpdate(destination, content string, force bool) (bool, error) {
	if force {
		return true, nil
	}
	existing, err := os.ReadFile(destination)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("setup: read %s: %w", destination, err)
	}
	oldID, oldVersion, oldStamp := extractMetadata(string(existing))
	newID, newVersion, newStamp := extractMetadata(content)
	return oldID != newID || oldVersion != newVersion || oldStamp != newStamp, nil
}

func writeIfNeeded(destination, content string, force bool) (Result, error) {
	_, statErr := os.Stat(destination)
	existed := statErr == nil

	needed, err := NeedsUpdate(destination, content, force)
	if err != nil {
		return Result{}, err
	}
	if !needed {
		return Result{Destination: destination, Action: ActionUpToDate}, nil
	}
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return Result{}, fmt.Errorf("setup: prepare %s: %w", filepath.Dir(destination), err)
	}
	if err := os.WriteFile(destination, []byte(content), 0o644); err != nil {
		return Result{}, fmt.Errorf("setup: write %s: %w", destination, err)
	}
	action := ActionInstalled
	if existed {
		action = ActionUpdated
	}
	return Result{Destination: destination, Action: action}, nil
}

func extractMetadata(content string) (id, version, timestamp string) {
	for _, line := range strings.Split(content, "\n") {
		switch {
		case strings.HasPrefix(line, "roly_skill_id:"):
			id = strings.TrimSpace(strings.TrimPrefix(line, "roly_skill_id:"))
		case strings.HasPrefix(line, "roly_template_version:"):
			version = strings.TrimSpace(strings.TrimPrefix(line, "roly_template_version:"))
		case strings.HasPrefix(line, "roly_template_timestamp:"):
			timestamp = strings.TrimSpace(strings.TrimPrefix(line, "roly_template_timestamp:"))
		}
	}
	return id, version, timestamp
}

// MergedSetupConfig folds explicit flag values over the persisted setup
// defaults. Empty flag values keep whatever was configured before.
func MergedSetupConfig(existing config.SetupConfig, agent, skillDir, codexDir, rolyHome string) (config.SetupConfig, error) {
	merged := existing
	merged.Agent = agent
	var err error
	if skillDir != "" {
		if merged.SkillDir, err = expandHome(skillDir); err != nil {
			return config.SetupConfig{}, err
		}
	}
	if codexDir != "" {
		if merged.CodexDir, err = expandHome(codexDir); err != nil {
			return config.SetupConfig{}, err
		}
	}
	if rolyHome != "" {
		if merged.RolyHome, err = expandHome(rolyHome); err != nil {
			return config.SetupConfig{}, err
		}
	}
	return merged, nil
}

func expandHome(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("setup: resolve home directory: %w", err)
		}
		return filepath.Clean(filepath.Join(home, strings.TrimPrefix(path, "~"))), nil
	}
	return filepath.Clean(path), nil
}
