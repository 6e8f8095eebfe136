package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"

	"github.com/codeGROOVE-dev/ouraboard/pkg/dashboard"
	"github.com/codeGROOVE-dev/ouraboard/pkg/metrics"
)

// requestsPerMinute caps insight requests per client IP.
const requestsPerMinute = 15

type insightGenerator interface {
	Generate(ctx context.Context, v *dashboard.View) (*dashboard.Insight, error)
}

type rateLimiter struct {
	requests map[string][]time.Time
	limit    int
	mu       sync.Mutex
}

func newRateLimiter(limit int) *rateLimiter {
	return &rateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
	}
}

func (rl *rateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-time.Minute)

	var valid []time.Time
	for _, t := range rl.requests[ip] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.limit {
		rl.requests[ip] = valid
		return false
	}

	rl.requests[ip] = append(valid, now)
	return true
}

type server struct {
	renderer *dashboard.Renderer
	insights insightGenerator
	limiter  *rateLimiter
	logger   *slog.Logger
	source   string
	// trustProxy honors X-Forwarded-For and friends. Only set it behind a
	// proxy that overwrites those headers, since the insights rate limit
	// keys on the client IP they produce.
	trustProxy bool
}

func newServer(r *dashboard.Renderer, source string, gen insightGenerator, logger *slog.Logger) *server {
	return &server{
		renderer: r,
		source:   source,
		insights: gen,
		limiter:  newRateLimiter(requestsPerMinute),
		logger:   logger,
	}
}

func (s *server) handler() http.Handler {
	mux := http.NewServeMux()
	s.route(mux, "GET /{$}", s.handleHome)
	s.route(mux, "GET /public/data.json", s.handleData)
	s.route(mux, "GET /api/v1/dashboard", s.handleDashboard)
	s.route(mux, "POST /api/v1/insights", s.handleInsights)
	mux.Handle("GET /metrics", metrics.Handler())

	antiCSRF := http.NewCrossOriginProtection()
	h := s.wrap(handlers.CompressHandler(antiCSRF.Handler(mux)))
	if s.trustProxy {
		h = handlers.ProxyHeaders(h)
	}
	return h
}

// statusRecorder remembers the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

// route registers h under pattern and counts its responses.
func (s *server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		h(rec, r)
		metrics.RecordRequest(pattern, rec.code)
	})
}

// view loads and builds the dashboard, recording how long it took.
func (s *server) view(ctx context.Context) (*dashboard.View, error) {
	start := time.Now()
	v, err := s.renderer.Load(ctx)
	metrics.RecordRender(time.Since(start), v.LastUpdated, err == nil)
	return v, err
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func cspPolicy() string {
	return strings.Join([]string{
		"default-src 'self'",
		"script-src 'self' 'unsafe-inline' https://cdn.jsdelivr.net",
		"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com",
		"font-src 'self' https://fonts.gstatic.com",
		"img-src 'self' data:",
		"connect-src 'self'",
	}, "; ")
}

func (s *server) wrap(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		defer func() {
			if err := recover(); err != nil {
				const size = 64 << 10
				buf := make([]byte, size)
				buf = buf[:runtime.Stack(buf, false)]
				s.logger.Error("PANIC: Request handler crashed",
					"error", err,
					"path", r.URL.Path,
					"method", r.Method,
					"request_id", requestID,
					"client_ip", clientIP(r),
					"stack", string(buf))
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()

		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=(), usb=(), bluetooth=()")
		w.Header().Set("Content-Security-Policy", cspPolicy())

		// Snapshot is rewritten by the fetcher between requests.
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")

		handler.ServeHTTP(w, r)
	})
}

func (s *server) handleHome(w http.ResponseWriter, r *http.Request) {
	requestID := w.Header().Get("X-Request-ID")
	view, _ := s.view(r.Context()) //nolint:errcheck // placeholder on failure, logged by the renderer

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboard.WriteHTML(w, view, s.renderer.Config()); err != nil {
		s.logger.Error("Template execution failed", "request_id", requestID, "error", err)
	}
}

func (s *server) handleData(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(s.source, "http://") || strings.HasPrefix(s.source, "https://") {
		http.Redirect(w, r, s.source, http.StatusFound)
		return
	}
	if _, err := os.Stat(s.source); err != nil {
		s.logger.Warn("Snapshot not available", "path", s.source, "error", err)
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	http.ServeFile(w, r, s.source)
}

func (s *server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	view, _ := s.view(r.Context()) //nolint:errcheck // placeholder on failure, logged by the renderer
	s.writeJSON(w, http.StatusOK, view)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *server) handleInsights(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := w.Header().Get("X-Request-ID")
	ip := clientIP(r)

	if !s.limiter.allow(ip) {
		s.logger.Warn("Rate limit exceeded", "request_id", requestID, "client_ip", ip)
		metrics.RecordInsight("rate_limited")
		s.writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "Rate limit exceeded", Code: "RATE_LIMIT"})
		return
	}
	if s.insights == nil {
		metrics.RecordInsight("not_configured")
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Insights are not configured", Code: "NOT_CONFIGURED"})
		return
	}

	view, err := s.view(r.Context())
	if err != nil {
		metrics.RecordInsight("no_data")
		s.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Dashboard data is unavailable", Code: "NO_DATA"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	insight, err := s.insights.Generate(ctx, view)
	if err != nil {
		status, code := http.StatusBadGateway, "GEMINI_ERROR"
		if errors.Is(err, context.DeadlineExceeded) {
			status, code = http.StatusGatewayTimeout, "TIMEOUT"
		}
		metrics.RecordInsight("error")
		s.logger.Error("Insight generation failed",
			"request_id", requestID,
			"error", err,
			"duration_ms", time.Since(start).Milliseconds())
		s.writeJSON(w, status, errorResponse{Error: "Insight generation failed", Code: code})
		return
	}

	metrics.RecordInsight("ok")
	s.logger.Info("Insight generated", "request_id", requestID, "duration_ms", time.Since(start).Milliseconds())
	s.writeJSON(w, http.StatusOK, insight)
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", "request_id", w.Header().Get("X-Request-ID"), "error", err)
	}
}
