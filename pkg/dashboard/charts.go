package dashboard

import "github.com/codeGROOVE-dev/ouraboard/pkg/oura"

// Canvas element ids, one per chart.
const (
	SleepScoreChartID            = "sleep-score-chart"
	SleepStagesChartID           = "sleep-stages-chart"
	ReadinessChartID             = "readiness-chart"
	ReadinessContributorsChartID = "readiness-contributors-chart"
	ActivityChartID              = "activity-chart"
	StepsChartID                 = "steps-chart"
)

const gradientHeight = 280

// series projects each record onto a value, keeping order.
func series[R any](records []R, value func(R) *float64) []*float64 {
	out := make([]*float64, len(records))
	for i, r := range records {
		out[i] = value(r)
	}
	return out
}

// labels projects each record onto its day.
func labels[R any](records []R, day func(R) string) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = day(r)
	}
	return out
}

func intValue(n *int) *float64 {
	if n == nil {
		return nil
	}
	return ptr(float64(*n))
}

func hoursValue(seconds *int) *float64 {
	return ptr(ToHours(seconds))
}

// scoreLine is the filled trend line shared by the three score charts.
func scoreLine(values []*float64, color, alpha string) Dataset {
	return Dataset{
		Label:                     "Score",
		Data:                      values,
		BorderColor:               color,
		Gradient:                  &Gradient{From: alpha, To: "transparent", Height: gradientHeight},
		Fill:                      true,
		Tension:                   0.4,
		BorderWidth:               2,
		PointRadius:               ptr(0),
		PointHoverRadius:          4,
		PointHoverBackgroundColor: color,
	}
}

func (c Config) scoreOptions() Options {
	opts := c.baseOptions()
	y := opts.Scales["y"]
	y.Min = ptr(c.ScoreMin)
	y.Max = ptr(c.ScoreMax)
	opts.Scales["y"] = y
	return opts
}

// SleepScoreChart plots the daily sleep score.
func SleepScoreChart(records []oura.DailySleep, cfg Config) Chart {
	return Chart{
		ID:    SleepScoreChartID,
		Title: "Sleep Score",
		Type:  "line",
		Data: Data{
			Labels: labels(records, func(r oura.DailySleep) string { return r.Day }),
			Datasets: []Dataset{
				scoreLine(series(records, func(r oura.DailySleep) *float64 { return intValue(r.Score) }),
					cfg.Palette.Blue, cfg.Palette.BlueAlpha),
			},
		},
		Options: cfg.scoreOptions(),
	}
}

// SleepStagesChart stacks deep, REM and light sleep hours per session.
// Sessions are labeled by their own day; several sessions on one day give
// repeated labels.
func SleepStagesChart(records []oura.Sleep, cfg Config) Chart {
	stage := func(label, color string, seconds func(oura.Sleep) *int) Dataset {
		return Dataset{
			Label:           label,
			Data:            series(records, func(r oura.Sleep) *float64 { return hoursValue(seconds(r)) }),
			BackgroundColor: color,
			BorderRadius:    2,
		}
	}

	opts := cfg.baseOptions()
	x := opts.Scales["x"]
	x.Stacked = true
	opts.Scales["x"] = x
	y := opts.Scales["y"]
	y.Stacked = true
	y.Title = &AxisTitle{Display: true, Text: "Hours", Font: Font{Size: 10}}
	opts.Scales["y"] = y

	return Chart{
		ID:    SleepStagesChartID,
		Title: "Sleep Stages",
		Type:  "bar",
		Data: Data{
			Labels: labels(records, func(r oura.Sleep) string { return r.Day }),
			Datasets: []Dataset{
				stage("Deep", cfg.Palette.Purple, func(r oura.Sleep) *int { return r.DeepSleepDuration }),
				stage("REM", cfg.Palette.Cyan, func(r oura.Sleep) *int { return r.REMSleepDuration }),
				stage("Light", cfg.Palette.LightBlue, func(r oura.Sleep) *int { return r.LightSleepDuration }),
			},
		},
		Options: opts,
	}
}

// ReadinessChart plots the daily readiness score.
func ReadinessChart(records []oura.DailyReadiness, cfg Config) Chart {
	return Chart{
		ID:    ReadinessChartID,
		Title: "Readiness",
		Type:  "line",
		Data: Data{
			Labels: labels(records, func(r oura.DailyReadiness) string { return r.Day }),
			Datasets: []Dataset{
				scoreLine(series(records, func(r oura.DailyReadiness) *float64 { return intValue(r.Score) }),
					cfg.Palette.Green, cfg.Palette.GreenAlpha),
			},
		},
		Options: cfg.scoreOptions(),
	}
}

// WithContributors keeps the records that carry a contributors object,
// limited to the last window of them when window > 0.
func WithContributors(records []oura.DailyReadiness, window int) []oura.DailyReadiness {
	var out []oura.DailyReadiness
	for _, r := range records {
		if r.Contributors != nil {
			out = append(out, r)
		}
	}
	if window > 0 && len(out) > window {
		out = out[len(out)-window:]
	}
	return out
}

// ReadinessContributorsChart plots HRV balance, resting heart rate and body
// temperature sub-scores for the records that carry contributors.
func ReadinessContributorsChart(records []oura.DailyReadiness, cfg Config) Chart {
	filtered := WithContributors(records, cfg.ContributorWindow)

	line := func(label, color string, value func(*oura.ReadinessContributors) *int) Dataset {
		return Dataset{
			Label:            label,
			Data:             series(filtered, func(r oura.DailyReadiness) *float64 { return intValue(value(r.Contributors)) }),
			BorderColor:      color,
			BackgroundColor:  color,
			Tension:          0.4,
			BorderWidth:      2,
			PointRadius:      ptr(0),
			PointHoverRadius: 4,
		}
	}

	opts := cfg.baseOptions()
	y := opts.Scales["y"]
	y.Min = ptr(0.0)
	y.Max = ptr(100.0)
	opts.Scales["y"] = y

	return Chart{
		ID:    ReadinessContributorsChartID,
		Title: "Readiness Contributors",
		Type:  "line",
		Data: Data{
			Labels: labels(filtered, func(r oura.DailyReadiness) string { return r.Day }),
			Datasets: []Dataset{
				line("HRV", cfg.Palette.Purple, func(c *oura.ReadinessContributors) *int { return c.HRVBalance }),
				line("Resting HR", cfg.Palette.Red, func(c *oura.ReadinessContributors) *int { return c.RestingHeartRate }),
				line("Temperature", cfg.Palette.Orange, func(c *oura.ReadinessContributors) *int { return c.BodyTemperature }),
			},
		},
		Options: opts,
	}
}

// ActivityChart plots the daily activity score.
func ActivityChart(records []oura.DailyActivity, cfg Config) Chart {
	return Chart{
		ID:    ActivityChartID,
		Title: "Activity Score",
		Type:  "line",
		Data: Data{
			Labels: labels(records, func(r oura.DailyActivity) string { return r.Day }),
			Datasets: []Dataset{
				scoreLine(series(records, func(r oura.DailyActivity) *float64 { return intValue(r.Score) }),
					cfg.Palette.Orange, cfg.Palette.OrangeAlpha),
			},
		},
		Options: cfg.scoreOptions(),
	}
}

// StepsChart plots steps on the left axis and total calories on a separate
// right axis over the same days.
func StepsChart(records []oura.DailyActivity, cfg Config) Chart {
	opts := cfg.baseOptions()
	y := opts.Scales["y"]
	y.Position = "left"
	y.Title = &AxisTitle{Display: true, Text: "Steps", Font: Font{Size: 10}}
	opts.Scales["y"] = y

	y1 := cfg.yScale()
	y1.Position = "right"
	y1.Grid = &Grid{Display: ptr(false)}
	y1.Title = &AxisTitle{Display: true, Text: "Calories", Font: Font{Size: 10}}
	opts.Scales["y1"] = y1

	return Chart{
		ID:    StepsChartID,
		Title: "Steps & Calories",
		Type:  "bar",
		Data: Data{
			Labels: labels(records, func(r oura.DailyActivity) string { return r.Day }),
			Datasets: []Dataset{
				{
					Label:           "Steps",
					Data:            series(records, func(r oura.DailyActivity) *float64 { return intValue(r.Steps) }),
					BackgroundColor: cfg.Palette.Green,
					BorderRadius:    4,
					YAxisID:         "y",
				},
				{
					Label:           "Calories",
					Data:            series(records, func(r oura.DailyActivity) *float64 { return r.TotalCalories }),
					BackgroundColor: cfg.Palette.Orange,
					BorderRadius:    4,
					YAxisID:         "y1",
				},
			},
		},
		Options: opts,
	}
}
