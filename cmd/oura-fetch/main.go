// Package main implements oura-fetch, which pulls the trailing window of Oura
// data and writes it to a JSON snapshot.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/codeGROOVE-dev/ouraboard/pkg/httpcache"
	"github.com/codeGROOVE-dev/ouraboard/pkg/oura"
	"github.com/codeGROOVE-dev/ouraboard/pkg/snapshot"
)

const version = "v1.0.0"

// cacheTTL bounds how long a cached API response is reused with -cache-dir.
const cacheTTL = time.Hour

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Getenv, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("oura-fetch", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("out", snapshot.DefaultPath, "Snapshot output path")
	days := fs.Int("days", oura.DefaultWindowDays, "Number of days to fetch, ending today (UTC)")
	baseURL := fs.String("base-url", "", "Oura API base URL (or set OURA_BASE_URL)")
	retries := fs.Uint("retries", 0, "Retries per request on transport errors and 5xx responses")
	cacheDir := fs.String("cache-dir", "", "Cache API responses in this directory (or set CACHE_DIR)")
	verbose := fs.Bool("verbose", false, "Enable verbose logging")
	showVersion := fs.Bool("version", false, "Show version")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintf(stdout, "oura-fetch %s\n", version)
		return 0
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if *baseURL == "" {
		*baseURL = getenv("OURA_BASE_URL")
	}
	if *cacheDir == "" {
		*cacheDir = getenv("CACHE_DIR")
	}
	if *days <= 0 {
		fmt.Fprintf(stderr, "-days must be positive, got %d\n", *days)
		return 2
	}

	token := getenv("OURA_TOKEN")
	if token == "" {
		fmt.Fprintln(stderr, oura.ErrMissingToken)
		return 1
	}

	opts := []oura.Option{
		oura.WithLogger(logger),
		oura.WithRetries(*retries),
	}
	if *baseURL != "" {
		opts = append(opts, oura.WithBaseURL(*baseURL))
	}

	if *cacheDir != "" {
		cache, err := httpcache.New(ctx, *cacheDir, cacheTTL, logger)
		if err != nil {
			logger.Warn("Cache unavailable, continuing without it", "dir", *cacheDir, "error", err)
		} else {
			defer func() {
				if err := cache.Close(); err != nil {
					logger.Warn("Failed to close cache", "error", err)
				}
			}()
			next := &http.Client{Timeout: 60 * time.Second}
			opts = append(opts, oura.WithHTTPClient(httpcache.NewClient(cache, next, logger)))
		}
	}

	client, err := oura.New(token, opts...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if err := fetch(ctx, client, *out, *days, stdout); err != nil {
		fmt.Fprintln(stderr, "Error fetching data:", err)
		return 1
	}
	return 0
}

// fetch pulls the window and writes the snapshot. Nothing is written unless
// every collection arrived.
func fetch(ctx context.Context, client *oura.Client, out string, days int, stdout io.Writer) error {
	w := oura.TrailingWindow(time.Now(), days)
	fmt.Fprintf(stdout, "Fetching Oura data from %s to %s...\n", w.Start, w.End)

	collections, err := client.FetchAll(ctx, w)
	if err != nil {
		var statusErr *oura.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w (check that OURA_TOKEN is a valid personal access token)", err)
		}
		return err
	}

	snap := snapshot.New(w, collections, time.Now())
	if err := snapshot.Write(out, snap); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Data written to %s\n", out)
	fmt.Fprintf(stdout, "  dailySleep: %d, sleep: %d, dailyReadiness: %d, dailyActivity: %d\n",
		len(snap.DailySleep), len(snap.Sleep), len(snap.DailyReadiness), len(snap.DailyActivity))
	return nil
}
