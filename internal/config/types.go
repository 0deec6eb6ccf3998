package config

// Config is the top-level configuration, corresponding to .fiscal.yml.
type Config struct {
	DataDir string       `yaml:"data_dir" koanf:"data_dir"`
	Server  ServerConfig `yaml:"server" koanf:"server"`
	Import  ImportConfig `yaml:"import" koanf:"import"`
	Render  RenderConfig `yaml:"render" koanf:"render"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// ImportConfig controls which chapter files the import command picks up.
type ImportConfig struct {
	Include []string `yaml:"include" koanf:"include"`
	Exclude []string `yaml:"exclude" koanf:"exclude"`
}

// RenderConfig holds the term tables for the exclusion/unit highlight
// spans. Empty lists fall back to the built-in Portuguese defaults.
type RenderConfig struct {
	ExclusionTerms []string `yaml:"exclusion_terms" koanf:"exclusion_terms"`
	UnitTerms      []string `yaml:"unit_terms" koanf:"unit_terms"`
}
