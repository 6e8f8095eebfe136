package dashboard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "theme.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") error = %v", err)
	}
	if cfg.ScoreMin != 40 || cfg.ScoreMax != 100 || cfg.Palette.Blue != DefaultConfig().Palette.Blue {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DASH_TEXT", "#ffffff")
	path := writeConfig(t, `
text_color: ${DASH_TEXT}
score_min: 50
contributor_window: 7
timezone: UTC
palette:
  blue: "rgb(0, 0, 255)"
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.TextColor != "#ffffff" {
		t.Errorf("TextColor = %q, want expanded env value", cfg.TextColor)
	}
	if cfg.ScoreMin != 50 || cfg.ScoreMax != 100 {
		t.Errorf("score range = %v..%v, want 50..100", cfg.ScoreMin, cfg.ScoreMax)
	}
	if cfg.ContributorWindow != 7 {
		t.Errorf("ContributorWindow = %d, want 7", cfg.ContributorWindow)
	}
	if cfg.Palette.Blue != "rgb(0, 0, 255)" {
		t.Errorf("Palette.Blue = %q", cfg.Palette.Blue)
	}
	if cfg.Palette.Green != DefaultConfig().Palette.Green {
		t.Errorf("Palette.Green = %q, want default kept", cfg.Palette.Green)
	}
	if cfg.Location == nil || cfg.Location.String() != "UTC" {
		t.Errorf("Location = %v, want UTC", cfg.Location)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad yaml", "score_min: [", "parsing config"},
		{"inverted range", "score_min: 100\nscore_max: 40\n", "score_min"},
		{"negative window", "contributor_window: -1\n", "contributor_window"},
		{"bad timezone", "timezone: Mars/Olympus\n", "invalid timezone"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadConfig() error = %v, want %q", err, tt.want)
			}
		})
	}

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadConfig(missing) error = nil")
	}
}
