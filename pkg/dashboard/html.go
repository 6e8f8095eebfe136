package dashboard

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var (
	pageTemplate    = template.Must(template.ParseFS(templateFS, "templates/page.html"))
	summaryTemplate = template.Must(template.ParseFS(templateFS, "templates/summary.html"))
)

// canvases lists every chart slot in page order. The page always carries all
// of them; a chart left out of the view leaves its canvas blank.
var canvases = []struct{ ID, Title string }{
	{SleepScoreChartID, "Sleep Score"},
	{SleepStagesChartID, "Sleep Stages"},
	{ReadinessChartID, "Readiness"},
	{ReadinessContributorsChartID, "Readiness Contributors"},
	{ActivityChartID, "Activity Score"},
	{StepsChartID, "Steps & Calories"},
}

type pageStyle struct {
	TextColor   template.CSS
	BorderColor template.CSS
	FontFamily  template.CSS
}

type pageData struct {
	View     *View
	Theme    Config
	Style    pageStyle
	Canvases []struct{ ID, Title string }
}

// WriteHTML renders the full dashboard page for v. The chart definitions are
// embedded as JSON and drawn client-side with Chart.js.
func WriteHTML(w io.Writer, v *View, cfg Config) error {
	if v == nil {
		v = Placeholder()
	}
	data := pageData{
		View:  v,
		Theme: cfg,
		Style: pageStyle{
			TextColor:   template.CSS(cfg.TextColor),   //nolint:gosec // trusted config
			BorderColor: template.CSS(cfg.BorderColor), //nolint:gosec // trusted config
			FontFamily:  template.CSS(cfg.FontFamily),  //nolint:gosec // trusted config
		},
		Canvases: canvases,
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
