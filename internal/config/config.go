// Package config resolves and loads the three configuration inputs of a
// sync invocation: the project settings file (.clasp.json), the optional
// user-level config (~/.clasp/config.yaml) and the credentials file path.
// Resolution order for the settings file is flag > environment variable >
// nearest ancestor directory of the working directory.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/clasp-sub000/internal/types"
	"gopkg.in/yaml.v3"
)

const (
	// SettingsFileName is the per-project settings file.
	SettingsFileName = ".clasp.json"
	// IgnoreFileName is the per-project ignore file.
	IgnoreFileName = ".claspignore"

	// EnvProjectConfig overrides settings file discovery.
	EnvProjectConfig = "CLASP_PROJECT_CONFIG"
	// EnvCredentials overrides the credentials file location.
	EnvCredentials = "CLASP_CREDENTIALS"

	defaultGlobalConfigPath = "~/.clasp/config.yaml"
	defaultCredentialsPath  = "~/.clasprc.json"
	defaultPullConcurrency  = 4
)

// ErrNoSettings is returned when no settings file can be located for the
// working directory or any of its ancestors.
var ErrNoSettings = errors.New("no " + SettingsFileName + " found; run from a project directory or set " + EnvProjectConfig)

// FindSettings locates the project settings file starting at startDir.
// The CLASP_PROJECT_CONFIG environment variable takes precedence; otherwise
// startDir and each of its ancestors is checked in turn.
func FindSettings(startDir string) (string, error) {
	if p := os.Getenv(EnvProjectConfig); p != "" {
		expanded, err := expandTilde(p)
		if err != nil {
			return "", fmt.Errorf("expanding %s: %w", EnvProjectConfig, err)
		}
		if _, err := os.Stat(expanded); err != nil {
			return "", fmt.Errorf("%s points at %s: %w", EnvProjectConfig, expanded, err)
		}
		return expanded, nil
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", startDir, err)
	}

	for {
		candidate := filepath.Join(dir, SettingsFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoSettings
		}
		dir = parent
	}
}

// LoadSettings reads and validates the project settings file at path.
func LoadSettings(path string) (*types.ProjectSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings file %s: %w", path, err)
	}

	var settings types.ProjectSettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("parsing settings JSON %s: %w", path, err)
	}

	if settings.ScriptID == "" {
		return nil, fmt.Errorf("settings file %s: scriptId is required", path)
	}

	// fileExtension is stored without a leading dot; tolerate one.
	settings.FileExtension = strings.TrimPrefix(settings.FileExtension, ".")

	return &settings, nil
}

// LoadGlobal reads the user-level config from path, or the default location
// when path is empty. A missing file is not an error; defaults apply.
func LoadGlobal(path string) (*types.Config, error) {
	if path == "" {
		path = defaultGlobalConfigPath
	}

	expanded, err := expandTilde(path)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	var cfg types.Config
	data, err := os.ReadFile(expanded)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No user config; defaults only.
	case err != nil:
		return nil, fmt.Errorf("reading config file %s: %w", expanded, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config YAML %s: %w", expanded, err)
		}
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, fmt.Errorf("applying defaults: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// CredentialsPath resolves the credentials file location. The environment
// variable wins over the user config, which wins over the default.
func CredentialsPath(cfg *types.Config) (string, error) {
	path := os.Getenv(EnvCredentials)
	if path == "" && cfg != nil {
		path = cfg.CredentialsPath
	}
	if path == "" {
		path = defaultCredentialsPath
	}

	expanded, err := expandTilde(path)
	if err != nil {
		return "", fmt.Errorf("expanding credentials path: %w", err)
	}
	return expanded, nil
}

// applyDefaults sets default values for optional config fields.
func applyDefaults(cfg *types.Config) error {
	if cfg.PullConcurrency == 0 {
		cfg.PullConcurrency = defaultPullConcurrency
	}

	cfg.DefaultExtension = strings.TrimPrefix(cfg.DefaultExtension, ".")

	if cfg.CredentialsPath != "" {
		expanded, err := expandTilde(cfg.CredentialsPath)
		if err != nil {
			return fmt.Errorf("expanding credentials_path: %w", err)
		}
		cfg.CredentialsPath = expanded
	}

	return nil
}

// validate ensures config fields are present and valid.
func validate(cfg *types.Config) error {
	if cfg.PullConcurrency < 1 {
		return fmt.Errorf("pull_concurrency must be at least 1, got %d", cfg.PullConcurrency)
	}

	return nil
}

// expandTilde replaces ~ at the start of a path with the user's home
// directory.
func expandTilde(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	if path == "~" {
		return homeDir, nil
	}

	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir, path[2:]), nil
	}

	return path, nil
}
