package snapshot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/ouraboard/pkg/oura"
)

func intPtr(v int) *int { return &v }

func TestWriteAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "public", "data.json")

	w := oura.Window{Start: "2024-01-01", End: "2024-01-31"}
	snap := New(w, &oura.Collections{
		DailySleep:    []oura.DailySleep{{Day: "2024-01-01", Score: intPtr(80)}},
		DailyActivity: []oura.DailyActivity{{Day: "2024-01-01", Score: intPtr(70), Steps: intPtr(8234)}},
	}, time.Date(2024, 1, 31, 10, 20, 30, 123456789, time.UTC))

	if err := Write(path, snap); err != nil {
		t.Fatalf("Write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	text := string(raw)
	for _, want := range []string{
		"\n  \"lastUpdated\": \"2024-01-31T10:20:30.123Z\"",
		"\"dateRange\": {",
		"\"sleep\": []",
		"\"dailyReadiness\": []",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("snapshot file missing %q:\n%s", want, text)
		}
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("temp file left behind: %v", err)
	}

	got, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.DateRange != w {
		t.Errorf("DateRange = %+v, want %+v", got.DateRange, w)
	}
	if len(got.DailyActivity) != 1 || *got.DailyActivity[0].Steps != 8234 {
		t.Errorf("DailyActivity = %+v", got.DailyActivity)
	}
}

func TestWriteOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(strings.Repeat("x", 4096)), 0o600); err != nil {
		t.Fatal(err)
	}
	snap := New(oura.Window{Start: "a", End: "b"}, &oura.Collections{}, time.Now())
	if err := Write(path, snap); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := Load(context.Background(), path); err != nil {
		t.Fatalf("Load after overwrite: %v", err)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		source string
	}{
		{"missing file", filepath.Join(dir, "nope.json")},
		{"malformed", bad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(context.Background(), tt.source); err == nil {
				t.Errorf("Load(%q) succeeded, want error", tt.source)
			}
		})
	}
}

func TestLoadURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/public/data.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"lastUpdated":"2024-01-31T10:00:00Z","dailySleep":[{"day":"2024-01-30","score":90}]}`)) //nolint:errcheck // test
	}))
	defer srv.Close()

	got, err := Load(context.Background(), srv.URL+"/public/data.json")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.DailySleep) != 1 || *got.DailySleep[0].Score != 90 {
		t.Errorf("DailySleep = %+v", got.DailySleep)
	}
	if got.Sleep != nil {
		t.Errorf("absent array should decode as nil, got %+v", got.Sleep)
	}

	if _, err := Load(context.Background(), srv.URL+"/missing.json"); err == nil {
		t.Error("Load of 404 succeeded, want error")
	}
}
