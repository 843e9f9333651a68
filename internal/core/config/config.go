package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultInsightPrompt is the mustache template used when no override file
// exists in the config directory.
const DefaultInsightPrompt = `You are looking at a time-tracking log. Sessions (JSON):

{{{sessions_json}}}

Total tracked: {{total_minutes}} minutes across {{session_count}} sessions.

{{instruction}}

Keep the answer short and concrete.`

// Config holds the process configuration. A missing config file is not an
// error; everything has a local-only default.
type Config struct {
	Remote            RemoteConfig
	Insights          InsightsConfig
	DefaultTheme      string // "light" or "dark"
	InsightPromptTmpl string
}

// RemoteConfig points at the optional hosted session replica. An empty URL
// means local-only mode.
type RemoteConfig struct {
	URL   string `toml:"url"`
	Token string `toml:"token"`
	Owner string `toml:"owner"`
}

// InsightsConfig points at the optional AI-summary endpoint.
type InsightsConfig struct {
	Endpoint string `toml:"endpoint"`
	APIKey   string `toml:"api_key"`
	Model    string `toml:"model"`
}

type tomlConfig struct {
	Theme    string         `toml:"theme"`
	Remote   RemoteConfig   `toml:"remote"`
	Insights InsightsConfig `toml:"insights"`
}

// Load reads config from ~/.config/punchcard/
func Load() (*Config, error) {
	cfg := &Config{
		DefaultTheme:      "dark",
		InsightPromptTmpl: DefaultInsightPrompt,
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, nil // Use defaults
	}

	configDir := filepath.Join(home, ".config", "punchcard")
	return loadFrom(configDir, cfg), nil
}

func loadFrom(configDir string, cfg *Config) *Config {
	tomlPath := filepath.Join(configDir, "config.toml")
	promptPath := filepath.Join(configDir, "insight_prompt.txt")

	if _, err := os.Stat(tomlPath); err == nil {
		var tc tomlConfig
		if _, err := toml.DecodeFile(tomlPath, &tc); err == nil {
			cfg.Remote = tc.Remote
			cfg.Insights = tc.Insights
			if tc.Theme != "" {
				cfg.DefaultTheme = tc.Theme
			}
		}
	}

	// If custom prompt template exists, use it
	if data, err := os.ReadFile(promptPath); err == nil {
		if tmpl := strings.TrimSpace(string(data)); tmpl != "" {
			cfg.InsightPromptTmpl = string(data)
		}
	}

	return cfg
}

// RemoteConfigured reports whether a hosted replica is set up.
func (c *Config) RemoteConfigured() bool {
	return c.Remote.URL != ""
}

// InsightsConfigured reports whether the AI-summary endpoint is set up.
func (c *Config) InsightsConfigured() bool {
	return c.Insights.Endpoint != ""
}
