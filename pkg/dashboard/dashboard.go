// Package dashboard turns a snapshot into summary stats and chart definitions.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/codeGROOVE-dev/ouraboard/pkg/oura"
	"github.com/codeGROOVE-dev/ouraboard/pkg/snapshot"
)

// Stats are the four summary fields shown above the charts.
type Stats struct {
	SleepScore     string `json:"sleepScore"`
	ReadinessScore string `json:"readinessScore"`
	ActivityScore  string `json:"activityScore"`
	Steps          string `json:"steps"`
}

// View is everything the page needs to draw.
type View struct {
	LastUpdated time.Time   `json:"lastUpdated,omitzero"`
	DateRange   oura.Window `json:"dateRange"`
	Updated     string      `json:"updated"`
	Stats       Stats       `json:"stats"`
	Charts      []Chart     `json:"charts"`
	Loaded      bool        `json:"loaded"`
}

// Chart returns the chart with the given id.
func (v *View) Chart(id string) (Chart, bool) {
	for _, c := range v.Charts {
		if c.ID == id {
			return c, true
		}
	}
	return Chart{}, false
}

// Placeholder is the view before any data has loaded.
func Placeholder() *View {
	return &View{
		Stats: Stats{
			SleepScore:     NoData,
			ReadinessScore: NoData,
			ActivityScore:  NoData,
			Steps:          NoData,
		},
		Charts: []Chart{},
	}
}

func last[T any](s []T) *T {
	if len(s) == 0 {
		return nil
	}
	return &s[len(s)-1]
}

// SummaryStats reads the most recent record of each sequence.
func SummaryStats(s *snapshot.Snapshot) Stats {
	stats := Placeholder().Stats
	if r := last(s.DailySleep); r != nil {
		stats.SleepScore = FormatScore(r.Score)
	}
	if r := last(s.DailyReadiness); r != nil {
		stats.ReadinessScore = FormatScore(r.Score)
	}
	if r := last(s.DailyActivity); r != nil {
		stats.ActivityScore = FormatScore(r.Score)
		stats.Steps = FormatNumber(r.Steps)
	}
	return stats
}

// Build maps a snapshot onto a view. Charts whose source sequence is empty
// are left out.
func Build(s *snapshot.Snapshot, cfg Config) *View {
	v := Placeholder()
	v.Loaded = true
	v.LastUpdated = s.LastUpdated
	v.DateRange = s.DateRange
	v.Updated = FormatUpdated(s.LastUpdated, cfg.location())
	v.Stats = SummaryStats(s)

	if len(s.DailySleep) > 0 {
		v.Charts = append(v.Charts, SleepScoreChart(s.DailySleep, cfg))
	}
	if len(s.Sleep) > 0 {
		v.Charts = append(v.Charts, SleepStagesChart(s.Sleep, cfg))
	}
	if len(s.DailyReadiness) > 0 {
		v.Charts = append(v.Charts,
			ReadinessChart(s.DailyReadiness, cfg),
			ReadinessContributorsChart(s.DailyReadiness, cfg))
	}
	if len(s.DailyActivity) > 0 {
		v.Charts = append(v.Charts,
			ActivityChart(s.DailyActivity, cfg),
			StepsChart(s.DailyActivity, cfg))
	}
	return v
}

// Renderer loads a snapshot and builds its view.
type Renderer struct {
	logger *slog.Logger
	source string
	cfg    Config
}

// NewRenderer returns a Renderer reading from source, a file path or an
// http(s) URL.
func NewRenderer(source string, cfg Config, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{source: source, cfg: cfg, logger: logger}
}

// Config returns the renderer's chart configuration.
func (r *Renderer) Config() Config {
	return r.cfg
}

// Render loads the snapshot and builds the view. A snapshot that cannot be
// loaded is logged and yields the placeholder view.
func (r *Renderer) Render(ctx context.Context) *View {
	v, _ := r.Load(ctx) //nolint:errcheck // logged by Load
	return v
}

// Load is Render that also reports the load error, if any.
func (r *Renderer) Load(ctx context.Context) (*View, error) {
	s, err := snapshot.Load(ctx, r.source)
	if err != nil {
		r.logger.Error("Failed to load data", "source", r.source, "error", err)
		return Placeholder(), err
	}
	v := Build(s, r.cfg)
	r.logger.Debug("dashboard built", "source", r.source, "charts", len(v.Charts))
	return v, nil
}
