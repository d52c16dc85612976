package config

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	enabled := true
	return &Config{
		Extract: ExtractConfig{
			ContainerKeyword:     "vector",
			FailurePolicy:        "abort",
			DisambiguationMarker: "(",
		},
		Parse: ParseConfig{
			Workers: 4,
			Include: "*.xml",
		},
		Output: OutputConfig{
			Format: "yaml",
		},
		Cache: CacheConfig{
			Enabled: &enabled,
		},
	}
}

// Merge merges loaded config with defaults.
// Values from loaded config take precedence over defaults.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	return &Config{
		Extract: mergeExtractConfig(loaded.Extract, defaults.Extract),
		Parse:   mergeParseConfig(loaded.Parse, defaults.Parse),
		Output:  mergeOutputConfig(loaded.Output, defaults.Output),
		Cache:   mergeCacheConfig(loaded.Cache, defaults.Cache),
	}
}

func mergeExtractConfig(loaded, defaults ExtractConfig) ExtractConfig {
	result := defaults
	if loaded.ContainerKeyword != "" {
		result.ContainerKeyword = loaded.ContainerKeyword
	}
	if loaded.FailurePolicy != "" {
		result.FailurePolicy = loaded.FailurePolicy
	}
	if loaded.DisambiguationMarker != "" {
		result.DisambiguationMarker = loaded.DisambiguationMarker
	}
	return result
}

func mergeParseConfig(loaded, defaults ParseConfig) ParseConfig {
	result := defaults
	// Workers: use loaded if non-zero
	if loaded.Workers != 0 {
		result.Workers = loaded.Workers
	}
	if loaded.Include != "" {
		result.Include = loaded.Include
	}
	return result
}

func mergeOutputConfig(loaded, defaults OutputConfig) OutputConfig {
	result := defaults
	if loaded.Format != "" {
		result.Format = loaded.Format
	}
	return result
}

func mergeCacheConfig(loaded, defaults CacheConfig) CacheConfig {
	if loaded.Enabled != nil {
		return loaded
	}
	return defaults
}

// ValidFailurePolicies lists the accepted extract.failure_policy values
var ValidFailurePolicies = []string{"abort", "skip"}

// ValidFormats lists the valid values for output.format
var ValidFormats = []string{"yaml", "json"}
