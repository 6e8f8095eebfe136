// Package termchart draws dashboard charts as colored bars in a terminal.
package termchart

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/codeGROOVE-dev/ouraboard/pkg/dashboard"
)

// DefaultWidth is the longest bar drawn, in cells.
const DefaultWidth = 40

// seriesColors cycles across the datasets of one chart.
var seriesColors = []*color.Color{
	color.New(color.FgBlue),
	color.New(color.FgGreen),
	color.New(color.FgMagenta),
	color.New(color.FgYellow),
	color.New(color.FgRed),
	color.New(color.FgCyan),
}

var (
	headerColor = color.New(color.Bold)
	dimColor    = color.New(color.FgHiBlack)
)

// Render draws the summary stats and every chart of v. Width caps the bar
// length; values of zero or less fall back to DefaultWidth.
func Render(v *dashboard.View, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	if v == nil {
		v = dashboard.Placeholder()
	}

	var out strings.Builder
	out.WriteString(headerColor.Sprint("Oura Dashboard"))
	if v.Updated != "" {
		out.WriteString("  " + dimColor.Sprint(v.Updated))
	}
	out.WriteString("\n" + strings.Repeat("─", 50) + "\n")
	fmt.Fprintf(&out, "Sleep %s  Readiness %s  Activity %s  Steps %s\n",
		headerColor.Sprint(v.Stats.SleepScore),
		headerColor.Sprint(v.Stats.ReadinessScore),
		headerColor.Sprint(v.Stats.ActivityScore),
		headerColor.Sprint(v.Stats.Steps))

	if !v.Loaded {
		out.WriteString("\nNo data available\n")
		return out.String()
	}

	for _, c := range v.Charts {
		out.WriteString("\n")
		out.WriteString(Chart(c, width))
	}
	return out.String()
}

// Chart draws one chart: a line per label, with one bar per dataset. Each
// dataset is scaled to its own maximum so series on separate axes stay
// readable. A nil value leaves a gap.
func Chart(c dashboard.Chart, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	var out strings.Builder
	out.WriteString(headerColor.Sprint(c.Title) + "\n")

	legend := make([]string, len(c.Data.Datasets))
	for i, ds := range c.Data.Datasets {
		legend[i] = colorFor(i).Sprint("█") + " " + ds.Label
	}
	out.WriteString(dimColor.Sprint(strings.Repeat("─", 50)) + "\n")
	if len(c.Data.Datasets) > 1 {
		out.WriteString(strings.Join(legend, "  ") + "\n")
	}

	maxima := make([]float64, len(c.Data.Datasets))
	for i, ds := range c.Data.Datasets {
		maxima[i] = maxValue(ds.Data)
	}

	for row, label := range c.Data.Labels {
		for i, ds := range c.Data.Datasets {
			prefix := strings.Repeat(" ", 6)
			if i == 0 {
				prefix = shortDay(label)
			}
			var v *float64
			if row < len(ds.Data) {
				v = ds.Data[row]
			}
			fmt.Fprintf(&out, "%-6s %7s %s\n", prefix, dashboard.FormatValue(v), bar(v, maxima[i], width, colorFor(i)))
		}
	}
	return out.String()
}

func colorFor(i int) *color.Color {
	return seriesColors[i%len(seriesColors)]
}

func maxValue(values []*float64) float64 {
	m := 0.0
	for _, v := range values {
		if v != nil && *v > m {
			m = *v
		}
	}
	return m
}

func bar(v *float64, maxVal float64, width int, c *color.Color) string {
	if v == nil {
		return dimColor.Sprint("·")
	}
	if maxVal <= 0 || *v <= 0 {
		return ""
	}
	n := int(math.Round(*v / maxVal * float64(width)))
	if n == 0 {
		n = 1
	}
	return c.Sprint(strings.Repeat("█", n))
}

// shortDay turns "2024-01-03" into "Jan 03"; other labels pass through.
func shortDay(label string) string {
	t, err := time.Parse(time.DateOnly, label)
	if err != nil {
		return label
	}
	return t.Format("Jan 02")
}
