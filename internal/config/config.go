// internal/config/config.go
//
// This package handles configuration and the .roly directory structure.
// Every project that uses roly gets a .roly/ folder created in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// RolyDir is the name of the directory we create in each project
	RolyDir = ".roly"

	defaultRolesDir  = ".roly/roles"
	defaultOutputDir = ".roly/generated"
)

const defaultProjectConfigYAML = `# roly project configuration
version: 1

paths:
  roles_dir: .roly/roles
  output_dir: .roly/generated

# Named role presets. Each preset lists role slugs in assembly order.
# Sub-roles pull their top-level dependency in automatically.
user_roles:
  - name: code-reviewer
    roles:
      - code-review
  # Legacy shape, still accepted:
  # - name: architect
  #   top_level_role: reviewer
  #   sub_roles:
  #     - architecture-review

setup:
  agent: none
`

// PathsConfig holds the directory layout overrides inside .roly/config.yaml.
type PathsConfig struct {
	RolesDir  string `yaml:"roles_dir,omitempty"`
	OutputDir string `yaml:"output_dir,omitempty"`
}

// SetupConfig captures skill-installation preferences for `roly setup`.
type SetupConfig struct {
	Agent    string `yaml:"agent,omitempty"`
	SkillDir string `yaml:"skill_dir,omitempty"`
	CodexDir string `yaml:"codex_dir,omitempty"`
	RolyHome string `yaml:"roly_home,omitempty"`
}

// UserRolePreset names an ordered list of role slugs to assemble together.
// Two input shapes are accepted: a new-style `roles` list, or the legacy
// `top_level_role` + `sub_roles` pair. ResolvedRoles flattens both into the
// same ordered slug list.
type UserRolePreset struct {
	Name           string   `yaml:"name"`
	Roles          []string `yaml:"roles,omitempty"`
	TopLevelRole   string   `yaml:"top_level_role,omitempty"`
	SubRoles       []string `yaml:"sub_roles,omitempty"`
	OutputFilename string   `yaml:"output_filename,omitempty"`
}

// ResolvedRoles returns the preset's slugs in assembly order. The legacy
// shape puts the top-level role first, then its sub-roles.
func (p UserRolePreset) ResolvedRoles() []string {
	if len(p.Roles) > 0 {
		return append([]string(nil), p.Roles...)
	}
	var roles []string
	if p.TopLevelRole != "" {
		roles = append(roles, p.TopLevelRole)
	}
	roles = append(roles, p.SubRoles...)
	return roles
}

// ProjectConfig models .roly/config.yaml.
type ProjectConfig struct {
	Version   int              `yaml:"version"`
	Paths     PathsConfig      `yaml:"paths,omitempty"`
	UserRoles []UserRolePreset `yaml:"user_roles,omitempty"`
	Setup     SetupConfig      `yaml:"setup,omitempty"`
}

// Config holds the runtime configuration for roly.
type Config struct {
	// ProjectDir is the directory where the user ran `roly` from
	ProjectDir string

	// RolyProjectDir is ProjectDir/.roly
	RolyProjectDir string

	Project ProjectConfig
}

// InitRolyDir creates the .roly directory structure in the given project
// directory.
//
// Structure created:
// .roly/
// ├── roles/
// │   ├── top_level/   <- Project-scope top-level roles
// │   └── sub_roles/   <- Project-scope sub-roles
// ├── generated/       <- Assembled artifacts
// └── logs/            <- Activity log
func InitRolyDir(projectDir string) error {
	rolyDir := filepath.Join(projectDir, RolyDir)

	dirs := []string{
		filepath.Join(rolyDir, "roles", "top_level"),
		filepath.Join(rolyDir, "roles", "sub_roles"),
		filepath.Join(rolyDir, "generated"),
		filepath.Join(rolyDir, "logs"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	if err := ensureProjectConfig(filepath.Join(rolyDir, "config.yaml")); err != nil {
		return err
	}

	return nil
}

// NewConfig creates a new Config instance populated with project settings.
// A missing config file is not an error; defaults apply.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:     projectDir,
		RolyProjectDir: filepath.Join(projectDir, RolyDir),
		Project:        defaultProjectConfig(),
	}

	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// RolesDir returns the configured project roles directory, relative paths
// resolved against the project root.
func (c *Config) RolesDir() string {
	return resolvePath(c.ProjectDir, c.Project.Paths.RolesDir)
}

// OutputDir returns the directory where assembled artifacts are written.
func (c *Config) OutputDir() string {
	return resolvePath(c.ProjectDir, c.Project.Paths.OutputDir)
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.RolyProjectDir, "logs")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.RolyProjectDir, "config.yaml")
}

// Preset looks up a named user-role preset.
func (c *Config) Preset(name string) (UserRolePreset, bool) {
	for _, preset := range c.Project.UserRoles {
		if strings.EqualFold(preset.Name, name) {
			return preset, true
		}
	}
	return UserRolePreset{}, false
}

// Presets returns all configured user-role presets.
func (c *Config) Presets() []UserRolePreset {
	return c.Project.UserRoles
}

// Save persists the current project config back to .roly/config.yaml.
func (c *Config) Save() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize()
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.RolyProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure roly dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Paths: PathsConfig{
			RolesDir:  defaultRolesDir,
			OutputDir: defaultOutputDir,
		},
		Setup: SetupConfig{Agent: "none"},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Paths.RolesDir == "" {
		pc.Paths.RolesDir = defaultRolesDir
	}
	if pc.Paths.OutputDir == "" {
		pc.Paths.OutputDir = defaultOutputDir
	}
	if pc.Setup.Agent == "" {
		pc.Setup.Agent = "none"
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Paths.RolesDir = strings.TrimSpace(pc.Paths.RolesDir)
	pc.Paths.OutputDir = strings.TrimSpace(pc.Paths.OutputDir)
	pc.Setup.Agent = strings.ToLower(strings.TrimSpace(pc.Setup.Agent))
	pc.Setup.SkillDir = strings.TrimSpace(pc.Setup.SkillDir)
	pc.Setup.CodexDir = strings.TrimSpace(pc.Setup.CodexDir)
	pc.Setup.RolyHome = strings.TrimSpace(pc.Setup.RolyHome)
	for i := range pc.UserRoles {
		pc.UserRoles[i].normalize()
	}
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	switch pc.Setup.Agent {
	case "none", "codex":
	default:
		return fmt.Errorf("setup.agent must be 'none' or 'codex'")
	}
	seen := map[string]struct{}{}
	for i := range pc.UserRoles {
		preset := pc.UserRoles[i]
		if err := preset.validate(); err != nil {
			return fmt.Errorf("user_roles[%d]: %w", i, err)
		}
		key := strings.ToLower(preset.Name)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("user_roles[%d]: duplicate preset name %q", i, preset.Name)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func (p *UserRolePreset) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Roles = trimAll(p.Roles)
	p.TopLevelRole = strings.TrimSpace(p.TopLevelRole)
	p.SubRoles = trimAll(p.SubRoles)
	p.OutputFilename = strings.TrimSpace(p.OutputFilename)
}

func (p UserRolePreset) validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(p.Roles) > 0 && (p.TopLevelRole != "" || len(p.SubRoles) > 0) {
		return fmt.Errorf("use either roles or top_level_role/sub_roles, not both")
	}
	if len(p.ResolvedRoles()) == 0 {
		return fmt.Errorf("at least one role slug is required")
	}
	return nil
}

func trimAll(values []string) []string {
	var out []string
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return base
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}
