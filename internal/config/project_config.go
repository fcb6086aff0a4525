package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/evo-warden/internal/core"
)

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParsing  = errors.New("config parsing failed")
)

// LoadProjectConfig loads and parses the .evo-warden.yml file from a project
// path. A missing file returns defaults alongside ErrConfigNotFound.
func LoadProjectConfig(projectPath string) (*core.ProjectConfig, error) {
	configPath := filepath.Join(projectPath, ".evo-warden.yml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return core.DefaultProjectConfig(), ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read .evo-warden.yml: %w", err)
	}

	config := core.DefaultProjectConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParsing, err)
	}
	return config, nil
}
