// Package main implements oura-dash, which renders a snapshot as a terminal
// chart, an HTML page, a Markdown report or JSON.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codeGROOVE-dev/ouraboard/pkg/dashboard"
	"github.com/codeGROOVE-dev/ouraboard/pkg/insights"
	"github.com/codeGROOVE-dev/ouraboard/pkg/snapshot"
	"github.com/codeGROOVE-dev/ouraboard/pkg/termchart"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	data        string
	format      string
	out         string
	tz          string
	config      string
	geminiKey   string
	geminiModel string
	gcpProject  string
	width       int
	insights    bool
	verbose     bool
}

func parseFlags(args []string, getenv func(string) string, stderr io.Writer) (*options, error) {
	o := &options{}
	fs := flag.NewFlagSet("oura-dash", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.data, "data", "", "Snapshot path or URL (or set OURA_DATA)")
	fs.StringVar(&o.format, "format", "text", "Output format: text, html, markdown or json")
	fs.StringVar(&o.out, "out", "", "Write output to this file instead of stdout")
	fs.StringVar(&o.tz, "tz", "", "IANA timezone for the updated timestamp (default local)")
	fs.StringVar(&o.config, "config", "", "YAML theme file (or set OURA_DASH_CONFIG)")
	fs.IntVar(&o.width, "width", termchart.DefaultWidth, "Bar width for text output")
	fs.BoolVar(&o.insights, "insights", false, "Add a Gemini-generated summary (markdown and text formats)")
	fs.StringVar(&o.geminiKey, "gemini-key", "", "Gemini API key (or set GEMINI_API_KEY)")
	fs.StringVar(&o.geminiModel, "gemini-model", "", "Gemini model to use (or set GEMINI_MODEL)")
	fs.StringVar(&o.gcpProject, "gcp-project", "", "GCP project ID for Vertex AI (or set GCP_PROJECT)")
	fs.BoolVar(&o.verbose, "verbose", false, "Enable verbose logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if o.data == "" {
		o.data = getenv("OURA_DATA")
	}
	if o.data == "" {
		o.data = snapshot.DefaultPath
	}
	if o.config == "" {
		o.config = getenv("OURA_DASH_CONFIG")
	}
	if o.geminiKey == "" {
		o.geminiKey = getenv("GEMINI_API_KEY")
	}
	if o.geminiModel == "" {
		o.geminiModel = getenv("GEMINI_MODEL")
	}
	if o.gcpProject == "" {
		o.gcpProject = getenv("GCP_PROJECT")
	}
	switch o.format {
	case "text", "html", "markdown", "json":
	default:
		return nil, fmt.Errorf("unknown format %q", o.format)
	}
	return o, nil
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, getenv, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := dashboard.LoadConfig(o.config)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if o.tz != "" {
		loc, err := time.LoadLocation(o.tz)
		if err != nil {
			fmt.Fprintf(stderr, "invalid timezone %q: %v\n", o.tz, err)
			return 2
		}
		cfg.Location = loc
	}

	// A missing or broken snapshot still renders the placeholder view.
	view := dashboard.NewRenderer(o.data, cfg, logger).Render(ctx)

	var insight *dashboard.Insight
	if o.insights && view.Loaded {
		insight = generateInsight(ctx, o, view, logger)
	}

	var buf bytes.Buffer
	if err := render(&buf, o.format, view, cfg, insight, o.width); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if o.out == "" {
		if _, err := buf.WriteTo(stdout); err != nil {
			return 1
		}
		return 0
	}
	if err := os.WriteFile(o.out, buf.Bytes(), 0o644); err != nil { //nolint:gosec // public report
		fmt.Fprintln(stderr, "Failed to write output:", err)
		return 1
	}
	logger.Info("Dashboard written", "path", o.out, "format", o.format)
	return 0
}

// generateInsight never fails the run: problems are logged and the report
// goes out without commentary.
func generateInsight(ctx context.Context, o *options, v *dashboard.View, logger *slog.Logger) *dashboard.Insight {
	client, err := insights.New(ctx, insights.Config{
		APIKey:  o.geminiKey,
		Model:   o.geminiModel,
		Project: o.gcpProject,
	}, logger)
	if err != nil {
		logger.Warn("Insights disabled", "error", err)
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	insight, err := client.Generate(ctx, v)
	if err != nil {
		logger.Warn("Failed to generate insights", "error", err)
		return nil
	}
	return insight
}

func render(w io.Writer, format string, v *dashboard.View, cfg dashboard.Config, insight *dashboard.Insight, width int) error {
	switch format {
	case "html":
		return dashboard.WriteHTML(w, v, cfg)
	case "markdown":
		report, err := dashboard.Markdown(v, insight)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, report)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		if _, err := io.WriteString(w, termchart.Render(v, width)); err != nil {
			return err
		}
		if insight != nil {
			_, err := fmt.Fprintf(w, "\n%s\n%s\n%s\n", insight.Headline, insight.Summary, insight.Suggestion)
			return err
		}
		return nil
	}
}
