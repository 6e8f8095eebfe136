package dashboard

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Palette names the dashboard colors.
type Palette struct {
	Blue        string `yaml:"blue"`
	BlueAlpha   string `yaml:"blue_alpha"`
	Green       string `yaml:"green"`
	GreenAlpha  string `yaml:"green_alpha"`
	Purple      string `yaml:"purple"`
	PurpleAlpha string `yaml:"purple_alpha"`
	Orange      string `yaml:"orange"`
	OrangeAlpha string `yaml:"orange_alpha"`
	Cyan        string `yaml:"cyan"`
	CyanAlpha   string `yaml:"cyan_alpha"`
	Red         string `yaml:"red"`
	Pink        string `yaml:"pink"`
	LightBlue   string `yaml:"light_blue"`
}

// Config carries everything chart construction needs. It is passed by value
// to the builders; nothing is shared at package level.
type Config struct {
	Location          *time.Location `yaml:"-"`
	Palette           Palette        `yaml:"palette"`
	TextColor         string         `yaml:"text_color"`
	BorderColor       string         `yaml:"border_color"`
	GridColor         string         `yaml:"grid_color"`
	FontFamily        string         `yaml:"font_family"`
	TooltipBackground string         `yaml:"tooltip_background"`
	ScoreMin          float64        `yaml:"score_min"`
	ScoreMax          float64        `yaml:"score_max"`
	// ContributorWindow keeps only the last N readiness records carrying
	// contributors. Zero keeps all of them.
	ContributorWindow int `yaml:"contributor_window"`
}

// DefaultConfig returns the dark theme used by the hosted dashboard.
func DefaultConfig() Config {
	return Config{
		Palette: Palette{
			Blue:        "rgb(59, 130, 246)",
			BlueAlpha:   "rgba(59, 130, 246, 0.1)",
			Green:       "rgb(34, 197, 94)",
			GreenAlpha:  "rgba(34, 197, 94, 0.1)",
			Purple:      "rgb(168, 85, 247)",
			PurpleAlpha: "rgba(168, 85, 247, 0.5)",
			Orange:      "rgb(249, 115, 22)",
			OrangeAlpha: "rgba(249, 115, 22, 0.1)",
			Cyan:        "rgb(6, 182, 212)",
			CyanAlpha:   "rgba(6, 182, 212, 0.5)",
			Red:         "rgb(239, 68, 68)",
			Pink:        "rgb(236, 72, 153)",
			LightBlue:   "rgba(59, 130, 246, 0.4)",
		},
		TextColor:         "#8e8e93",
		BorderColor:       "#2a2a3a",
		GridColor:         "#1f1f2a",
		FontFamily:        "'Inter', sans-serif",
		TooltipBackground: "#1a1a24",
		ScoreMin:          40,
		ScoreMax:          100,
		Location:          time.Local,
	}
}

func (c Config) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

type configFile struct {
	Config   `yaml:",inline"`
	Timezone string `yaml:"timezone"`
}

// LoadConfig reads a YAML theme file over DefaultConfig. Environment
// variables in the file are expanded. An empty path returns the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	f := configFile{Config: cfg}
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &f); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if f.Timezone != "" {
		loc, err := time.LoadLocation(f.Timezone)
		if err != nil {
			return cfg, fmt.Errorf("invalid timezone %q: %w", f.Timezone, err)
		}
		f.Location = loc
	}
	if err := f.Config.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return f.Config, nil
}

func (c Config) validate() error {
	if c.ScoreMin >= c.ScoreMax {
		return fmt.Errorf("score_min (%v) must be below score_max (%v)", c.ScoreMin, c.ScoreMax)
	}
	if c.ContributorWindow < 0 {
		return fmt.Errorf("contributor_window must not be negative, got %d", c.ContributorWindow)
	}
	return nil
}
