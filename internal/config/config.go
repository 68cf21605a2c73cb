// Package config loads and validates site build configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-folio/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrMissingContent  = errors.New("content.projectId and content.dataset are required")
)

// Field length limits for multi-tenant safety.
const (
	MaxTitleLength       = 200  // Site title
	MaxDescriptionLength = 500  // Site description
	MaxAuthorLength      = 100  // Author name
	MaxURLLength         = 2048 // Browser limit
	MaxProjectIDLength   = 64   // Store project identifier
	MaxDatasetLength     = 64   // Store dataset name
	MaxAPIVersionLength  = 30   // "2024-01-01"
	MaxThemeLength       = 50   // Highlight theme name
	MaxDirLength         = 1024 // Output directory path
)

// Config holds all configuration for a site build.
type Config struct {
	Site    SiteConfig    `yaml:"site"`
	Content ContentConfig `yaml:"content"`
	Output  OutputConfig  `yaml:"output"`
	Render  RenderConfig  `yaml:"render"`
}

// SiteConfig holds site-wide copy used by page templates.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	BaseURL     string `yaml:"baseUrl"`
	Author      string `yaml:"author"`
}

// ContentConfig points at the content store.
type ContentConfig struct {
	ProjectID  string `yaml:"projectId"`
	Dataset    string `yaml:"dataset"`    // e.g. "production"
	APIVersion string `yaml:"apiVersion"` // Empty = client default
	UseCDN     bool   `yaml:"useCdn"`
	TokenEnv   string `yaml:"tokenEnv"` // Env var holding the read token (never the token itself)
}

// OutputConfig defines where rendered pages land.
type OutputConfig struct {
	Dir string `yaml:"dir"` // Default "dist"
}

// RenderConfig tunes document rendering.
type RenderConfig struct {
	Theme               string `yaml:"theme"`               // Highlight theme (empty = renderer default)
	LineNumberThreshold int    `yaml:"lineNumberThreshold"` // 0 = renderer default
}

// Validate checks field lengths and required content-store settings. Called
// automatically by LoadConfig, but available for consumers who construct
// Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("site.title", c.Site.Title, MaxTitleLength); err != nil {
		return err
	}
	if err := validateFieldLength("site.description", c.Site.Description, MaxDescriptionLength); err != nil {
		return err
	}
	if err := validateFieldLength("site.baseUrl", c.Site.BaseURL, MaxURLLength); err != nil {
		return err
	}
	if err := validateFieldLength("site.author", c.Site.Author, MaxAuthorLength); err != nil {
		return err
	}

	if c.Content.ProjectID == "" || c.Content.Dataset == "" {
		return ErrMissingContent
	}
	if err := validateFieldLength("content.projectId", c.Content.ProjectID, MaxProjectIDLength); err != nil {
		return err
	}
	if err := validateFieldLength("content.dataset", c.Content.Dataset, MaxDatasetLength); err != nil {
		return err
	}
	if err := validateFieldLength("content.apiVersion", c.Content.APIVersion, MaxAPIVersionLength); err != nil {
		return err
	}

	if err := validateFieldLength("output.dir", c.Output.Dir, MaxDirLength); err != nil {
		return err
	}
	if err := validateFieldLength("render.theme", c.Render.Theme, MaxThemeLength); err != nil {
		return err
	}
	if c.Render.LineNumberThreshold < 0 {
		return fmt.Errorf("render.lineNumberThreshold: must be >= 0, got %d", c.Render.LineNumberThreshold)
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns a configuration with neutral defaults. The content
// section stays empty and must come from a file or flags.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Dir: "dist"},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if isFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if cfg.Output.Dir == "" {
		cfg.Output.Dir = "dist"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-folio/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "go-folio", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
