// Package ai wraps the generative-language API used to enrich thoughts.
// Every operation fails soft: callers always receive a usable value.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/tidwall/gjson"

	"github.com/starford/mindcare/internal/models"
)

// Defaults for the Gemini API.
const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-1.5-flash"
	DefaultTimeout = 20 * time.Second
)

// SuggestionFallback is returned by Suggest when the API cannot be used.
const SuggestionFallback = "I'm here to support you. Consider talking to a mental health professional for personalized guidance."

// Operation names reported to the Observer.
const (
	OpSuggest     = "suggest"
	OpAnalyzeMood = "analyze_mood"
)

const maxResponseBytes = 1 << 20

// ErrNoAPIKey is the fallback cause when no credential is configured.
var ErrNoAPIKey = errors.New("ai: api key is not configured")

// Observer receives the outcome of every remote call.
type Observer interface {
	ObserveEnrichment(op string, fallback bool, elapsed time.Duration)
}

// Config configures a Client.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Client calls the Gemini generateContent endpoint.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
	observer   Observer
}

// Option configures optional Client dependencies.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for fallback warnings.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithObserver registers an Observer.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// New creates a Client. Empty config fields take the package defaults.
func New(cfg Config, opts ...Option) *Client {
	c := &Client{
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout:    cfg.Timeout,
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Suggest returns supportive guidance for text.
func (c *Client) Suggest(ctx context.Context, text string) Outcome[string] {
	start := time.Now()
	out, err := c.generate(ctx, suggestionPrompt(text), "")
	if err != nil {
		c.report(OpSuggest, start, err)
		return fallback(SuggestionFallback, err)
	}
	c.report(OpSuggest, start, nil)
	return ok(out)
}

// AnalyzeMood classifies the mood of text. Remote and parse failures both
// collapse to models.NeutralAnalysis.
func (c *Client) AnalyzeMood(ctx context.Context, text string) Outcome[models.MoodAnalysis] {
	start := time.Now()
	raw, err := c.generate(ctx, moodPrompt(text), "application/json")
	var analysis models.MoodAnalysis
	if err == nil {
		analysis, err = parseMoodAnalysis(raw)
	}
	if err != nil {
		c.report(OpAnalyzeMood, start, err)
		return fallback(models.NeutralAnalysis(), err)
	}
	c.report(OpAnalyzeMood, start, nil)
	return ok(analysis)
}

func (c *Client) report(op string, start time.Time, err error) {
	if err != nil {
		c.logger.Warn("ai: falling back",
			slog.String("op", op),
			slog.String("error", err.Error()))
	}
	if c.observer != nil {
		c.observer.ObserveEnrichment(op, err != nil, time.Since(start))
	}
}

// generate sends one prompt and returns the concatenated candidate text.
func (c *Client) generate(ctx context.Context, prompt, mimeType string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	reqBody := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			Temperature:      0.7,
			ResponseMIMEType: mimeType,
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("ai: marshal request: %w", err)
	}

	endpoint := c.baseURL + "/v1beta/models/" + url.PathEscape(c.model) + ":generateContent"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("ai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("ai: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("ai: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(respBody, "error.message").String()
		if msg == "" {
			msg = string(respBody)
		}
		return "", fmt.Errorf("ai: api error (status %d): %s", resp.StatusCode, msg)
	}

	return candidateText(respBody)
}

func candidateText(body []byte) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("ai: malformed response body")
	}
	var sb strings.Builder
	for _, p := range gjson.GetBytes(body, "candidates.0.content.parts.#.text").Array() {
		sb.WriteString(p.String())
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		if reason := gjson.GetBytes(body, "promptFeedback.blockReason").String(); reason != "" {
			return "", fmt.Errorf("ai: prompt blocked: %s", reason)
		}
		return "", fmt.Errorf("ai: empty response")
	}
	return text, nil
}

func parseMoodAnalysis(raw string) (models.MoodAnalysis, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var m moodJSON
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return models.MoodAnalysis{}, fmt.Errorf("ai: parse mood json: %w", err)
	}
	m.Mood = strings.ToLower(strings.TrimSpace(m.Mood))
	for i := range m.Keywords {
		m.Keywords[i] = strings.TrimSpace(m.Keywords[i])
	}

	moods := make([]any, len(models.AnalysisMoods))
	for i, v := range models.AnalysisMoods {
		moods[i] = string(v)
	}
	err := validation.ValidateStruct(&m,
		validation.Field(&m.Mood, validation.Required, validation.In(moods...)),
		validation.Field(&m.Confidence, validation.NotNil, validation.Min(0.0), validation.Max(1.0)),
		validation.Field(&m.Keywords, validation.Required, validation.Length(2, 4), validation.Each(validation.Required)),
	)
	if err != nil {
		return models.MoodAnalysis{}, fmt.Errorf("ai: unexpected mood shape: %w", err)
	}

	return models.MoodAnalysis{
		Mood:       models.AnalysisMood(m.Mood),
		Confidence: *m.Confidence,
		Keywords:   m.Keywords,
	}, nil
}
