package config

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the doxir configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the doxir configuration directory
const ConfigDirName = ".doxir"

// Config holds all doxir configuration
type Config struct {
	Extract ExtractConfig `yaml:"extract"`
	Parse   ParseConfig   `yaml:"parse"`
	Output  OutputConfig  `yaml:"output"`
	Cache   CacheConfig   `yaml:"cache"`
}

// ExtractConfig holds the knobs passed to the extractor
type ExtractConfig struct {
	// ContainerKeyword names the single-parameter generic container type.
	ContainerKeyword string `yaml:"container_keyword"`
	// FailurePolicy is "abort" or "skip".
	FailurePolicy        string `yaml:"failure_policy"`
	DisambiguationMarker string `yaml:"disambiguation_marker"`
}

// ParseConfig holds configuration for multi-file runs
type ParseConfig struct {
	Workers int `yaml:"workers"`
	// Include is the glob matched against file names when a directory is
	// given on the command line.
	Include string `yaml:"include"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	Format string `yaml:"format"`
}

// CacheConfig holds configuration for the IR cache
type CacheConfig struct {
	// Enabled is a pointer so an explicit false survives merging.
	Enabled *bool `yaml:"enabled,omitempty"`
}

// IsEnabled reports whether the cache is on. Unset means on.
func (c CacheConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .doxir/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		return DefaultConfig(), nil
	}

	return LoadFromPath(filepath.Join(configDir, ConfigFileName))
}

// LoadFromPath reads config from a specific path.
// Merges loaded config with defaults and validates the result.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, errors.Wrap(err, "reading config file")
	}

	loaded := &Config{}
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, errors.Wrapf(err, "parsing config file %s", path)
	}

	merged := Merge(loaded, DefaultConfig())
	if err := Validate(merged); err != nil {
		return nil, err
	}
	return merged, nil
}

// FindConfigDir locates the .doxir directory by walking up from startDir.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", errors.Wrap(err, "resolving path")
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .doxir directory if it doesn't exist.
// Returns the path to the .doxir directory.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", errors.Wrap(err, "resolving path")
	}

	configDir := filepath.Join(absDir, ConfigDirName)
	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", errors.Newf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", errors.Wrap(err, "creating config directory")
	}
	return configDir, nil
}

// Validate checks that config values are valid.
func Validate(cfg *Config) error {
	if !slices.Contains(ValidFailurePolicies, cfg.Extract.FailurePolicy) {
		return errors.Wrapf(ErrInvalidConfig, "failure_policy must be one of %v, got %q",
			ValidFailurePolicies, cfg.Extract.FailurePolicy)
	}

	if !isIdentifier(cfg.Extract.ContainerKeyword) {
		return errors.Wrapf(ErrInvalidConfig, "container_keyword must be a C identifier, got %q",
			cfg.Extract.ContainerKeyword)
	}

	if cfg.Parse.Workers <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "workers must be positive, got %d", cfg.Parse.Workers)
	}

	if _, err := filepath.Match(cfg.Parse.Include, ""); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "include %q is not a valid glob", cfg.Parse.Include)
	}

	if !slices.Contains(ValidFormats, cfg.Output.Format) {
		return errors.Wrapf(ErrInvalidConfig, "format must be one of %v, got %q",
			ValidFormats, cfg.Output.Format)
	}

	return nil
}

// SaveDefault writes the default configuration to .doxir/config.yaml in workDir.
// Creates the .doxir directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	if _, err := os.Stat(configPath); err == nil {
		return "", errors.Newf("config file already exists: %s", configPath)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", errors.Wrap(err, "marshaling config")
	}

	header := "# doxir configuration\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", errors.Wrap(err, "writing config file")
	}
	return configPath, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
