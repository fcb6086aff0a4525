package core

// ProjectConfig represents the structure of the .evo-warden.yml file that an
// analyzed project may carry to tune the analyzer.
type ProjectConfig struct {
	// High-performance exclusion of entire directories by name.
	// Example: ["dist", "build", "docs"]
	ExcludeDirs []string `yaml:"exclude_dirs"`

	// Exclusion of files based on their extension.
	// The leading dot is optional. Example: [".md", "lock", ".log"]
	ExcludeExts []string `yaml:"exclude_exts"`

	// Branch-count threshold above which a function is flagged as a code
	// smell. Zero keeps the analyzer default.
	ComplexityThreshold int `yaml:"complexity_threshold"`
}

// DefaultProjectConfig returns a config with default values.
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		ExcludeDirs: []string{},
		ExcludeExts: []string{},
	}
}
