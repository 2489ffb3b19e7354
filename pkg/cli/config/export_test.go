package config

// NewAppConfig creates an AppConfig pointing at path, for tests that bypass
// CLI flag parsing.
func NewAppConfig(path string) *AppConfig {
	return &AppConfig{path: path}
}
