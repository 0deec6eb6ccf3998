package config

// DefaultIncludes are the glob patterns the import command scans by default.
var DefaultIncludes = []string{"data/**/*.json"}

// DefaultExcludes are glob patterns excluded from import by default.
var DefaultExcludes = []string{
	"**/.*",
	"**/*.bak.json",
	"node_modules/**",
	"vendor/**",
}

// DefaultConfig returns a Config with sensible defaults. The render term
// tables stay empty here; the renderer applies its built-in Portuguese
// defaults when they are not overridden.
func DefaultConfig() *Config {
	return &Config{
		DataDir: ".fiscal",
		Server: ServerConfig{
			Port:     8750,
			AllowAll: false,
		},
		Import: ImportConfig{
			Include: DefaultIncludes,
			Exclude: DefaultExcludes,
		},
	}
}
