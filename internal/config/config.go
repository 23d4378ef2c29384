// internal/config/config.go
//
// This package handles configuration and the .segmenter directory structure.
// Every project that uses the segmenter gets a .segmenter/ folder in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/segmenter/internal/model"
	"github.com/kingrea/segmenter/internal/segment"
)

const (
	// SegmenterDir is the name of the directory we create in each project
	SegmenterDir = ".segmenter"

	defaultScalerPath = "scaler.pb"
	defaultModelPath  = "kmeans_model.pb"
)

const defaultProjectConfigYAML = `# segmenter project configuration
version: 1

# Fitted artifacts produced by the training pipeline. Relative paths are
# resolved against the project directory. The extension selects the
# encoding: .pb/.bin (protobuf), .json, or .yaml/.yml (frontmatter document).
artifacts:
  scaler: scaler.pb
  model: kmeans_model.pb

# Segment labels keyed by cluster id. Leave commented out to use the
# built-in six-segment catalog.
# segments:
#   - cluster: 0
#     label: "Premium Seniors"
`

// ArtifactPaths names the two fitted artifacts.
type ArtifactPaths struct {
	Scaler string `yaml:"scaler"`
	Model  string `yaml:"model"`
}

// ProjectConfig models .segmenter/config.yaml.
type ProjectConfig struct {
	Version   int               `yaml:"version"`
	Artifacts ArtifactPaths     `yaml:"artifacts"`
	Segments  []segment.Segment `yaml:"segments,omitempty"`
}

// Config holds the runtime configuration for the segmenter.
type Config struct {
	// ProjectDir is the directory the user ran `segmenter` from
	ProjectDir string

	// SegmenterProjectDir is ProjectDir/.segmenter
	SegmenterProjectDir string

	Project ProjectConfig
}

// InitDir creates the .segmenter directory structure in the given project directory.
//
// Structure created:
// .segmenter/
// ├── logs/         <- segmenter.log and journal.log
// └── config.yaml   <- artifact locations and segment labels
func InitDir(projectDir string) error {
	segmenterDir := filepath.Join(projectDir, SegmenterDir)
	if err := os.MkdirAll(filepath.Join(segmenterDir, "logs"), 0o755); err != nil {
		return err
	}
	return ensureProjectConfig(filepath.Join(segmenterDir, "config.yaml"))
}

// NewConfig creates a new Config instance populated with project settings.
func NewConfig(projectDir string) (*Config, error) {
	abs, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("config: resolve project dir: %w", err)
	}
	cfg := &Config{
		ProjectDir:          abs,
		SegmenterProjectDir: filepath.Join(abs, SegmenterDir),
		Project:             defaultProjectConfig(),
	}
	cfg.Project.normalize(abs)
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.SegmenterProjectDir, "logs")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.SegmenterProjectDir, "config.yaml")
}

// ArtifactPaths returns the resolved artifact locations.
func (c *Config) ArtifactPaths() model.Paths {
	return model.Paths{Scaler: c.Project.Artifacts.Scaler, Model: c.Project.Artifacts.Model}
}

// Catalog returns the configured segment labels, or the built-in catalog
// when none are configured.
func (c *Config) Catalog() (segment.Catalog, error) {
	if len(c.Project.Segments) == 0 {
		return segment.DefaultCatalog(), nil
	}
	catalog, err := segment.NewCatalog(c.Project.Segments)
	if err != nil {
		return segment.Catalog{}, fmt.Errorf("config: %w", err)
	}
	return catalog, nil
}

// SetArtifactPaths updates the artifact locations and persists them back to
// .segmenter/config.yaml. Empty values keep the current setting.
func (c *Config) SetArtifactPaths(scaler, model string) error {
	if s := strings.TrimSpace(scaler); s != "" {
		c.Project.Artifacts.Scaler = s
	}
	if m := strings.TrimSpace(model); m != "" {
		c.Project.Artifacts.Model = m
	}
	return c.saveProjectConfig()
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
	parsed.normalize(c.ProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Artifacts: ArtifactPaths{
			Scaler: defaultScalerPath,
			Model:  defaultModelPath,
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.Artifacts.Scaler) == "" {
		pc.Artifacts.Scaler = defaultScalerPath
	}
	if strings.TrimSpace(pc.Artifacts.Model) == "" {
		pc.Artifacts.Model = defaultModelPath
	}
}

func (pc *ProjectConfig) normalize(base string) {
	pc.Artifacts.Scaler = resolvePath(base, pc.Artifacts.Scaler)
	pc.Artifacts.Model = resolvePath(base, pc.Artifacts.Model)
	for i := range pc.Segments {
		pc.Segments[i].Label = strings.TrimSpace(pc.Segments[i].Label)
	}
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Artifacts.Scaler == "" || pc.Artifacts.Model == "" {
		return fmt.Errorf("artifacts.scaler and artifacts.model are required")
	}
	if pc.Artifacts.Scaler == pc.Artifacts.Model {
		return fmt.Errorf("artifacts.scaler and artifacts.model must differ")
	}
	if _, err := segment.NewCatalog(pc.Segments); err != nil {
		return fmt.Errorf("segments: %w", err)
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
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
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize(c.ProjectDir)
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.SegmenterProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure segmenter dir: %w", err)
	}
	out := c.Project
	out.Artifacts.Scaler = relativeTo(c.ProjectDir, out.Artifacts.Scaler)
	out.Artifacts.Model = relativeTo(c.ProjectDir, out.Artifacts.Model)
	data, err := yaml.Marshal(out)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}

// relativeTo keeps paths inside the project portable when saved.
func relativeTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
