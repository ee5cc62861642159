package setup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roly-sh/roly/internal/config"
)

func TestInstallPortableFirstTime(t *testing.T) {
	projectRoot := t.TempDir()
	result, err := InstallPortable(projectRoot, "", false)
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	if result.Action != ActionInstalled {
		t.Fatalf("action = %s, want %s", result.Action, ActionInstalled)
	}
	if result.Destination != filepath.Join(projectRoot, "roly_review_skill.md") {
		t.Fatalf("unexpected destination: %s", result.Destination)
	}
	data, err := os.ReadFile(result.Destination)
	if err != nil {
		t.Fatalf("read installed skill: %v", err)
	}
	if !strings.Contains(string(data), "roly_skill_id: roly-review-skill") {
		t.Fatalf("installed skill missing metadata:\n%s", data)
	}
}

func TestInstallPortableUpToDateOnRepeat(t *testing.T) {
	projectRoot := t.TempDir()
	if _, err := InstallPortable(projectRoot, "", false); err != nil {
		t.Fatalf("first install: %v", err)
	}
	result, err := InstallPortable(projectRoot, "", false)
	if err != nil {
		t.Fatalf("second install: %v", err)
	}
	if result.Action != ActionUpToDate {
		t.Fatalf("action = %s, want %s", result.Action, ActionUpToDate)
	}
}

func TestInstallPortableUpdatesOnStaleMetadata(t *testing.T) {
	projectRoot := t.TempDir()
	destination := DefaultPortableSkillPath(projectRoot)
	stale := strings.Replace(PortablePrompt(), "roly_template_version: 1", "roly_template_version: 0", 1)
	if err := os.WriteFile(destination, []byte(stale), 0o644); err != nil {
		t.Fatal(err)
	}
	result, err := InstallPortable(projectRoot, "", false)
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	if result.Action != ActionUpdated {
		t.Fatalf("action = %s, want %s", result.Action, ActionUpdated)
	}
}

func TestInstallPortableForceOverwrites(t *testing.T) {
	projectRoot := t.TempDir()
	if _, err := InstallPortable(projectRoot, "", false); err != nil {
		t.Fatalf("first install: %v", err)
	}
	result, err := InstallPortable(projectRoot, "", true)
	if err != nil {
		t.Fatalf("forced install: %v", err)
	}
	if result.Action != ActionUpdated {
		t.Fatalf("action = %s, want %s", result.Action, ActionUpdated)
	}
}

func TestInstallPortableRelativeSkillDir(t *testing.T) {
	projectRoot := t.TempDir()
	result, err := InstallPortable(projectRoot, "skills/review.md", false)
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	if result.Destination != filepath.Join(projectRoot, "skills", "review.md") {
		t.Fatalf("unexpected destination: %s", result.Destination)
	}
}

func TestInstallCodexWritesSkillFolder(t *testing.T) {
	codexDir := t.TempDir()
	result, err := InstallCodex(codexDir, false)
	if err != nil {
		t.Fatalf("install: %v", err)
	}
	want := filepath.Join(codexDir, "roly-review", "SKILL.md")
	if result.Destination != want || result.Action != ActionInstalled {
		t.Fatalf("unexpected result: %+v", result)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("read skill: %v", err)
	}
	if !strings.HasPrefix(string(data), "---\nname: roly-review\n") {
		t.Fatalf("codex skill missing front matter:\n%s", data)
	}
}

func TestResolveCodexSkillsDirPrecedence(t *testing.T) {
	explicit := t.TempDir()
	got, err := ResolveCodexSkillsDir(explicit)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != explicit {
		t.Fatalf("explicit dir must win, got %s", got)
	}

	envHome := t.TempDir()
	t.Setenv("CODEX_HOME", envHome)
	got, err = ResolveCodexSkillsDir("")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != filepath.Join(envHome, "skills") {
		t.Fatalf("expected $CODEX_HOME/skills, got %s", got)
	}
}

func TestMergedSetupConfigKeepsExistingDefaults(t *testing.T) {
	existing := config.SetupConfig{
		Agent:    "none",
		SkillDir: "/configured/skill",
		CodexDir: "/configured/codex",
	}
	merged, err := MergedSetupConfig(existing, "codex", "", "/override/codex", "")
	if err != nil {
		t.Fatalf("merge: %v", err)
	}
	if merged.Agent != "codex" {
		t.Fatalf("agent = %s", merged.Agent)
	}
	if merged.SkillDir != "/configured/skill" {
		t.Fatalf("empty override must keep existing skill dir, got %s", merged.SkillDir)
	}
	if merged.CodexDir != "/override/codex" {
		t.Fatalf("explicit override must win, got %s", merged.CodexDir)
	}
}
