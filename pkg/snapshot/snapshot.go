// Package snapshot defines the JSON artifact shared by the fetcher and the dashboard.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/ouraboard/pkg/oura"
)

// DefaultPath is where the fetcher writes and the dashboard reads.
const DefaultPath = "public/data.json"

// Snapshot is the point-in-time result of one fetch.
type Snapshot struct {
	LastUpdated    time.Time             `json:"lastUpdated"`
	DateRange      oura.Window           `json:"dateRange"`
	DailySleep     []oura.DailySleep     `json:"dailySleep"`
	Sleep          []oura.Sleep          `json:"sleep"`
	DailyReadiness []oura.DailyReadiness `json:"dailyReadiness"`
	DailyActivity  []oura.DailyActivity  `json:"dailyActivity"`
}

// New assembles a snapshot from fetched collections.
func New(w oura.Window, c *oura.Collections, completedAt time.Time) *Snapshot {
	return &Snapshot{
		LastUpdated:    completedAt.UTC().Truncate(time.Millisecond),
		DateRange:      w,
		DailySleep:     orEmpty(c.DailySleep),
		Sleep:          orEmpty(c.Sleep),
		DailyReadiness: orEmpty(c.DailyReadiness),
		DailyActivity:  orEmpty(c.DailyActivity),
	}
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Encode returns the pretty-printed JSON form of the snapshot.
func Encode(s *Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Write replaces the file at path with the snapshot. The data goes to a
// temporary file first and is renamed into place.
func Write(path string, s *Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	tempPath := path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp snapshot file: %w", err)
	}
	defer os.Remove(tempPath) //nolint:errcheck // already renamed on success

	if _, err := file.Write(data); err != nil {
		_ = file.Close() //nolint:errcheck // already failing
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close() //nolint:errcheck // already failing
		return fmt.Errorf("syncing snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}

// Decode parses a snapshot document.
func Decode(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &s, nil
}

// Load reads a snapshot from a local path or an http(s) URL.
func Load(ctx context.Context, source string) (*Snapshot, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return loadURL(ctx, source)
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only
	return Decode(f)
}

func loadURL(ctx context.Context, source string) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating snapshot request: %w", err)
	}
	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching snapshot: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching snapshot: unexpected status %d", resp.StatusCode)
	}
	return Decode(resp.Body)
}
