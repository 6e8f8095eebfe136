// Package main implements oura-server, which serves the dashboard page and
// its data over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/codeGROOVE-dev/ouraboard/pkg/dashboard"
	"github.com/codeGROOVE-dev/ouraboard/pkg/insights"
	"github.com/codeGROOVE-dev/ouraboard/pkg/snapshot"
)

const serverVersion = "v1.0.0"

var (
	port         = flag.String("port", "8080", "Port for web server (or set PORT)")
	dataSource   = flag.String("data", "", "Snapshot path or URL (or set OURA_DATA)")
	tz           = flag.String("tz", "", "IANA timezone for the updated timestamp (default local)")
	configPath   = flag.String("config", "", "YAML theme file (or set OURA_DASH_CONFIG)")
	geminiAPIKey = flag.String("gemini-key", "", "Gemini API key (or set GEMINI_API_KEY)")
	geminiModel  = flag.String("gemini-model", "", "Gemini model to use (or set GEMINI_MODEL)")
	gcpProject   = flag.String("gcp-project", "", "GCP project ID (or set GCP_PROJECT)")
	trustProxy   = flag.Bool("trust-proxy", false, "Use X-Forwarded-For for client IPs (or set TRUST_PROXY); only behind a trusted proxy")
	verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	version      = flag.Bool("version", false, "Show version")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Println("oura-server", serverVersion)
		return
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if p := os.Getenv("PORT"); p != "" && *port == "8080" {
		*port = p
	}
	if *dataSource == "" {
		*dataSource = os.Getenv("OURA_DATA")
	}
	if *dataSource == "" {
		*dataSource = snapshot.DefaultPath
	}
	if *geminiAPIKey == "" {
		*geminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if *geminiModel == "" {
		*geminiModel = os.Getenv("GEMINI_MODEL")
	}
	if *gcpProject == "" {
		*gcpProject = os.Getenv("GCP_PROJECT")
	}

	if v := os.Getenv("TRUST_PROXY"); v != "" && !*trustProxy {
		*trustProxy, _ = strconv.ParseBool(v)
	}
	if *configPath == "" {
		*configPath = os.Getenv("OURA_DASH_CONFIG")
	}
	cfg, err := dashboard.LoadConfig(*configPath)
	if err != nil {
		logger.Error("Failed to load config", "path", *configPath, "error", err)
		os.Exit(2)
	}
	if *tz != "" {
		loc, err := time.LoadLocation(*tz)
		if err != nil {
			logger.Error("Invalid timezone", "tz", *tz, "error", err)
			os.Exit(2)
		}
		cfg.Location = loc
	}

	logger.Info("Server configuration",
		"port", *port,
		"data", *dataSource,
		"verbose", *verbose,
		"trust_proxy", *trustProxy,
		"has_gemini_key", *geminiAPIKey != "",
		"has_gcp_project", *gcpProject != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var gen insightGenerator
	icfg := insights.Config{APIKey: *geminiAPIKey, Model: *geminiModel, Project: *gcpProject}
	if icfg.Enabled() {
		c, err := insights.New(ctx, icfg, logger)
		if err != nil {
			logger.Warn("Insights disabled", "error", err)
		} else {
			gen = c
		}
	}

	s := newServer(dashboard.NewRenderer(*dataSource, cfg, logger), *dataSource, gen, logger)
	s.trustProxy = *trustProxy

	srv := &http.Server{
		Addr:              ":" + *port,
		Handler:           s.handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "port", *port)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
