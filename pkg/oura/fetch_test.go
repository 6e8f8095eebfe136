package oura

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTrailingWindow(t *testing.T) {
	tests := []struct {
		name      string
		now       time.Time
		days      int
		wantStart string
		wantEnd   string
	}{
		{"mid month", time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC), 30, "2024-03-01", "2024-03-31"},
		{"across year", time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC), 30, "2023-12-16", "2024-01-15"},
		{"leap february", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 30, "2024-01-31", "2024-03-01"},
		{"converted to UTC", time.Date(2024, 6, 1, 23, 30, 0, 0, time.FixedZone("EST", -5*3600)), 1, "2024-06-01", "2024-06-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrailingWindow(tt.now, tt.days)
			if got.Start != tt.wantStart || got.End != tt.wantEnd {
				t.Errorf("TrailingWindow(%v, %d) = %+v, want {%s %s}", tt.now, tt.days, got, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestNewRequiresToken(t *testing.T) {
	if _, err := New(""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("New(\"\") error = %v, want ErrMissingToken", err)
	}
}

// fakeOura serves canned bodies per resource and records the requests it saw.
func fakeOura(t *testing.T, bodies map[string]string, statuses map[string]int) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q, want %q", got, "Bearer secret")
		}
		if r.URL.Query().Get("start_date") != "2024-01-01" || r.URL.Query().Get("end_date") != "2024-01-31" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		resource := strings.TrimPrefix(r.URL.Path, "/")
		if code, ok := statuses[resource]; ok {
			w.WriteHeader(code)
			return
		}
		body, ok := bodies[resource]
		if !ok {
			t.Errorf("unexpected resource %q", resource)
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if _, err := io.WriteString(w, body); err != nil {
			t.Errorf("write: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

var testWindow = Window{Start: "2024-01-01", End: "2024-01-31"}

func TestFetchAll(t *testing.T) {
	srv, hits := fakeOura(t, map[string]string{
		"daily_sleep":     `{"data":[{"day":"2024-01-01","score":81},{"day":"2024-01-02","score":77}],"next_token":null}`,
		"sleep":           `{"data":[{"day":"2024-01-01","deep_sleep_duration":5400,"rem_sleep_duration":6300,"light_sleep_duration":null}]}`,
		"daily_readiness": `{"data":[{"day":"2024-01-01","score":70,"contributors":{"hrv_balance":80,"resting_heart_rate":90,"body_temperature":99}},{"day":"2024-01-02","score":72}]}`,
		"daily_activity":  `{}`,
	}, nil)

	c, err := New("secret", WithBaseURL(srv.URL+"/"), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := c.FetchAll(context.Background(), testWindow)
	if err != nil {
		t.Fatalf("FetchAll: %v", err)
	}
	if hits.Load() != 4 {
		t.Errorf("server saw %d requests, want 4", hits.Load())
	}

	if len(got.DailySleep) != 2 || got.DailySleep[0].Day != "2024-01-01" || *got.DailySleep[1].Score != 77 {
		t.Errorf("DailySleep = %+v", got.DailySleep)
	}
	if len(got.Sleep) != 1 || *got.Sleep[0].DeepSleepDuration != 5400 || got.Sleep[0].LightSleepDuration != nil {
		t.Errorf("Sleep = %+v", got.Sleep)
	}
	if got.DailyReadiness[0].Contributors == nil || *got.DailyReadiness[0].Contributors.HRVBalance != 80 {
		t.Errorf("first readiness contributors = %+v", got.DailyReadiness[0].Contributors)
	}
	if got.DailyReadiness[1].Contributors != nil {
		t.Errorf("second readiness should have no contributors, got %+v", got.DailyReadiness[1].Contributors)
	}
	if got.DailyActivity == nil || len(got.DailyActivity) != 0 {
		t.Errorf("missing data field should give empty non-nil slice, got %#v", got.DailyActivity)
	}
}

func TestFetchAllStatusError(t *testing.T) {
	srv, _ := fakeOura(t, map[string]string{
		"daily_sleep":    `{"data":[]}`,
		"sleep":          `{"data":[]}`,
		"daily_activity": `{"data":[]}`,
	}, map[string]int{"daily_readiness": http.StatusUnauthorized})

	c, err := New("secret", WithBaseURL(srv.URL), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got, err := c.FetchAll(context.Background(), testWindow)
	if err == nil {
		t.Fatalf("FetchAll succeeded with %+v, want error", got)
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error %v is not a *StatusError", err)
	}
	if statusErr.Resource != "daily_readiness" || statusErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusError = %+v", statusErr)
	}
	if want := "failed to fetch daily_readiness: Unauthorized"; err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestFetchAllNoRetryByDefault(t *testing.T) {
	srv, hits := fakeOura(t, nil, map[string]int{
		"daily_sleep":     http.StatusServiceUnavailable,
		"sleep":           http.StatusServiceUnavailable,
		"daily_readiness": http.StatusServiceUnavailable,
		"daily_activity":  http.StatusServiceUnavailable,
	})

	c, err := New("secret", WithBaseURL(srv.URL), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.FetchAll(context.Background(), testWindow); err == nil {
		t.Fatal("FetchAll succeeded, want error")
	}
	if hits.Load() > 4 {
		t.Errorf("server saw %d requests, want at most 4 without retries", hits.Load())
	}
}

func TestFetchAllDecodeError(t *testing.T) {
	srv, _ := fakeOura(t, map[string]string{
		"daily_sleep":     `not json`,
		"sleep":           `{"data":[]}`,
		"daily_readiness": `{"data":[]}`,
		"daily_activity":  `{"data":[]}`,
	}, nil)

	c, err := New("secret", WithBaseURL(srv.URL), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.FetchAll(context.Background(), testWindow)
	if err == nil || !strings.Contains(err.Error(), "decoding daily_sleep response") {
		t.Fatalf("FetchAll error = %v, want decode error", err)
	}
}
