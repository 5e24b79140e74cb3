package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds lambdaspectre configuration loaded from .lambdaspectre.yaml.
type Config struct {
	Profile         string     `yaml:"profile"`
	Regions         []string   `yaml:"regions"`
	RoleName        string     `yaml:"role_name"`
	Concurrency     int        `yaml:"concurrency"`
	Output          string     `yaml:"output"`
	Format          string     `yaml:"format"`
	Timeout         string     `yaml:"timeout"`
	DownloadTimeout string     `yaml:"download_timeout"`
	Complexity      Complexity `yaml:"complexity"`
}

// Complexity overrides the line-count tier boundaries.
type Complexity struct {
	MediumMin int `yaml:"medium_min"`
	HighMax   int `yaml:"high_max"`
}

// TimeoutDuration parses the overall scan timeout as a duration.
func (c Config) TimeoutDuration() time.Duration {
	if c.Timeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// DownloadTimeoutDuration parses the per-artifact download timeout.
func (c Config) DownloadTimeoutDuration() time.Duration {
	if c.DownloadTimeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(c.DownloadTimeout)
	return d
}

// Load searches for .lambdaspectre.yaml or .lambdaspectre.yml in the given
// directory and returns the parsed config. Returns an empty Config if no
// file is found.
func Load(dir string) (Config, error) {
	candidates := []string{
		filepath.Join(dir, ".lambdaspectre.yaml"),
		filepath.Join(dir, ".lambdaspectre.yml"),
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}

		var cfg Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
		return cfg, nil
	}

	return Config{}, nil
}
