package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg := loadFrom(t.TempDir(), &Config{DefaultTheme: "dark", InsightPromptTmpl: DefaultInsightPrompt})

	if cfg.RemoteConfigured() {
		t.Error("empty dir should mean local-only mode")
	}
	if cfg.InsightsConfigured() {
		t.Error("empty dir should mean no insights endpoint")
	}
	if cfg.DefaultTheme != "dark" {
		t.Errorf("DefaultTheme = %q", cfg.DefaultTheme)
	}
}

func TestLoadFrom_TOMLAndPromptOverride(t *testing.T) {
	dir := t.TempDir()

	tomlBody := `
theme = "light"

[remote]
url = "https://sync.example.com"
token = "tok"
owner = "neil"

[insights]
endpoint = "https://llm.example.com/v1"
model = "small"
`
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(tomlBody), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "insight_prompt.txt"), []byte("custom {{instruction}}"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := loadFrom(dir, &Config{DefaultTheme: "dark", InsightPromptTmpl: DefaultInsightPrompt})

	if !cfg.RemoteConfigured() || cfg.Remote.Owner != "neil" {
		t.Errorf("remote = %+v", cfg.Remote)
	}
	if !cfg.InsightsConfigured() || cfg.Insights.Model != "small" {
		t.Errorf("insights = %+v", cfg.Insights)
	}
	if cfg.DefaultTheme != "light" {
		t.Errorf("DefaultTheme = %q, want light", cfg.DefaultTheme)
	}
	if cfg.InsightPromptTmpl != "custom {{instruction}}" {
		t.Errorf("prompt template not overridden: %q", cfg.InsightPromptTmpl)
	}
}
