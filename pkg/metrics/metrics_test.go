package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRequest(t *testing.T) {
	before := testutil.ToFloat64(requestCounter.WithLabelValues("GET /", "200"))
	RecordRequest("GET /", 200)
	RecordRequest("GET /", 200)
	if got := testutil.ToFloat64(requestCounter.WithLabelValues("GET /", "200")) - before; got != 2 {
		t.Errorf("requests delta = %v, want 2", got)
	}
}

func TestRecordRender(t *testing.T) {
	failures := testutil.ToFloat64(loadFailures)
	RecordRender(10*time.Millisecond, time.Time{}, false)
	if got := testutil.ToFloat64(loadFailures) - failures; got != 1 {
		t.Errorf("load failures delta = %v, want 1", got)
	}

	ts := time.Date(2024, 1, 30, 12, 0, 0, 0, time.UTC)
	RecordRender(5*time.Millisecond, ts, true)
	if got := testutil.ToFloat64(snapshotUpdatedGauge); got != float64(ts.Unix()) {
		t.Errorf("snapshot gauge = %v, want %v", got, ts.Unix())
	}
}

func TestHandler(t *testing.T) {
	RecordInsight("ok")
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body := rec.Body.String()
	for _, want := range []string{
		"ouraboard_http_requests_total",
		"ouraboard_insights_requests_total",
		"ouraboard_dashboard_render_duration_seconds",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %s", want)
		}
	}
}
