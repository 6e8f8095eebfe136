// Package insights asks Gemini for a short narrative on the dashboard data.
package insights

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"github.com/maypok86/otter/v2"
	"google.golang.org/genai"

	"github.com/codeGROOVE-dev/ouraboard/pkg/dashboard"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash-lite"

const vertexLocation = "us-central1"

// ErrNotConfigured is returned when neither an API key nor a GCP project is set.
var ErrNotConfigured = errors.New("insights require GEMINI_API_KEY or GCP_PROJECT")

// Generator is the subset of the genai models service used here.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Config selects the Gemini backend. An API key wins over a project.
type Config struct {
	APIKey  string
	Model   string
	Project string
}

// Enabled reports whether enough is set to reach a backend.
func (c Config) Enabled() bool {
	return c.APIKey != "" || c.Project != ""
}

// Client generates insights and remembers them per prompt for an hour.
type Client struct {
	gen    Generator
	cache  *otter.Cache[string, dashboard.Insight]
	logger *slog.Logger
	model  string
}

// New connects to the Gemini API with an API key, or to Vertex AI with
// application default credentials when only a project is set.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}
	if logger == nil {
		logger = slog.Default()
	}

	var cc *genai.ClientConfig
	if cfg.APIKey != "" {
		cc = &genai.ClientConfig{Backend: genai.BackendGeminiAPI, APIKey: cfg.APIKey}
		logger.Info("Using Gemini API with API key")
	} else {
		cc = &genai.ClientConfig{Backend: genai.BackendVertexAI, Project: cfg.Project, Location: vertexLocation}
		logger.Info("Using Vertex AI with Application Default Credentials", "project", cfg.Project, "location", vertexLocation)
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return NewWithGenerator(client.Models, cfg.Model, logger), nil
}

// NewWithGenerator wraps an existing generator.
func NewWithGenerator(gen Generator, model string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	model = strings.TrimPrefix(model, "models/")
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		gen:    gen,
		model:  model,
		logger: logger,
		cache: otter.Must(&otter.Options[string, dashboard.Insight]{
			MaximumSize:      100,
			ExpiryCalculator: otter.ExpiryWriting[string, dashboard.Insight](time.Hour),
		}),
	}
}

// Generate returns an insight for v. Views without data are rejected.
func (c *Client) Generate(ctx context.Context, v *dashboard.View) (*dashboard.Insight, error) {
	if v == nil || !v.Loaded {
		return nil, errors.New("no dashboard data to summarize")
	}
	prompt, err := Prompt(v)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256([]byte(c.model + "\x00" + prompt))
	key := hex.EncodeToString(sum[:])
	if cached, ok := c.cache.GetIfPresent(key); ok {
		c.logger.Debug("insight cache hit", "key", key[:12])
		return &cached, nil
	}

	resp, err := c.call(ctx, prompt)
	if err != nil {
		return nil, err
	}
	insight, err := parseResponse(resp)
	if err != nil {
		c.logger.Warn("Failed to parse Gemini response", "error", err)
		return nil, err
	}
	c.cache.Set(key, *insight)
	return insight, nil
}

func (c *Client) call(ctx context.Context, prompt string) (*genai.GenerateContentResponse, error) {
	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}
	temperature := float32(0.4)
	genConfig := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  800,
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(),
	}

	var resp *genai.GenerateContentResponse
	var lastErr error
	err := retry.Do(
		func() error {
			r, err := c.gen.GenerateContent(ctx, c.model, contents, genConfig)
			if err != nil {
				lastErr = err
				if !isTransient(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			resp = r
			return nil
		},
		retry.Attempts(4),
		retry.Delay(100*time.Millisecond),
		retry.MaxJitter(50*time.Millisecond),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Debug("Retrying Gemini API call", "attempt", n+1, "error", err)
		}),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		if lastErr == nil {
			lastErr = err
		}
		return nil, fmt.Errorf("gemini API call failed: %w", lastErr)
	}
	return resp, nil
}

func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"headline": {
				Type:        genai.TypeString,
				Description: "One short sentence naming the most notable trend",
			},
			"summary": {
				Type:        genai.TypeString,
				Description: "Two or three sentences on sleep, readiness and activity over the period",
			},
			"suggestion": {
				Type:        genai.TypeString,
				Description: "One practical, non-medical suggestion for the coming days",
			},
		},
		PropertyOrdering: []string{"headline", "summary", "suggestion"},
		Required:         []string{"headline", "summary", "suggestion"},
	}
}

// isTransient reports whether err looks worth retrying.
func isTransient(err error) bool {
	s := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"rate limit", "quota", "timeout", "deadline", "unavailable",
		"internal server error", "502", "503", "504",
	} {
		if strings.Contains(s, indicator) {
			return true
		}
	}
	return false
}

func parseResponse(resp *genai.GenerateContentResponse) (*dashboard.Insight, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, errors.New("empty response from Gemini API")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, errors.New("no content in Gemini response")
	}
	text := strings.TrimSpace(candidate.Content.Parts[0].Text)
	if text == "" {
		return nil, errors.New("empty text in Gemini response")
	}
	text = strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(text, "```json"), "```"), "```")

	var insight dashboard.Insight
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &insight); err != nil {
		return nil, fmt.Errorf("failed to parse Gemini JSON response: %w", err)
	}
	insight.Headline = strings.TrimSpace(insight.Headline)
	insight.Summary = strings.TrimSpace(insight.Summary)
	insight.Suggestion = strings.TrimSpace(insight.Suggestion)
	if insight.Headline == "" && insight.Summary == "" {
		return nil, errors.New("gemini response missing headline and summary")
	}
	return &insight, nil
}
