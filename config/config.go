package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// DefaultBranch is used when neither the flags nor the config file name one.
const DefaultBranch = "main"

// Config is the optional file-based configuration for giteasync. It carries
// connection defaults only; secrets are never read from or written to disk
// and must arrive via flag or environment variable.
type Config struct {
	ServerURL          string `yaml:"server_url"`
	Username           string `yaml:"username"`
	DefaultBranch      string `yaml:"default_branch"`
	InsecureSkipVerify bool   `yaml:"insecure_skip_verify"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Load reads and parses a configuration file, expanding environment
// variables in string fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var cfg Config
	if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	cfg.ServerURL = expandEnv(cfg.ServerURL)
	cfg.Username = expandEnv(cfg.Username)

	if cfg.DefaultBranch == "" {
		cfg.DefaultBranch = DefaultBranch
	}

	if validateErr := validate(&cfg); validateErr != nil {
		return nil, validateErr
	}

	return &cfg, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config", "giteasync"),
		)
	}

	patterns := []string{
		".giteasync.yaml",
		".giteasync.yml",
		"giteasync.yaml",
		"giteasync.yml",
		"config.yaml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// expandEnv expands ${ENV_VAR} references in raw.
func expandEnv(raw string) string {
	if raw == "" {
		return raw
	}
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}

func validate(cfg *Config) error {
	if cfg.ServerURL == "" {
		return errors.New("config file must set server_url")
	}
	if !strings.HasPrefix(cfg.ServerURL, "http://") && !strings.HasPrefix(cfg.ServerURL, "https://") {
		return fmt.Errorf("server_url %q must start with http:// or https://", cfg.ServerURL)
	}
	return nil
}
