package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/jcarver/jobagent/internal/domain"
	"github.com/jcarver/jobagent/internal/extraction"
)

// Config holds the Gemini-specific settings.
type Config struct {
	// APIKey authenticates against the Gemini API. Required.
	APIKey string

	// Model is the model name, e.g. "gemini-2.0-flash".
	Model string

	// Timeout bounds each individual API call.
	Timeout time.Duration

	// MaxRetries is how many additional attempts follow a transient
	// failure.
	MaxRetries int

	// RetryDelaySeconds is the base backoff delay between attempts.
	RetryDelaySeconds int
}

// Client implements extraction.Service against the Gemini API.
type Client struct {
	client *genai.Client
	config Config
	logger *slog.Logger
}

// New creates a Client. A missing API key is a configuration-class error:
// nothing in the pipeline can substitute for it.
func New(ctx context.Context, config Config, logger *slog.Logger) (*Client, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key not set", domain.ErrConfiguration)
	}
	if config.Model == "" {
		return nil, fmt.Errorf("%w: gemini model name not set", domain.ErrConfiguration)
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: creating gemini client: %v", domain.ErrConfiguration, err)
	}

	return &Client{
		client: client,
		config: config,
		logger: logger.With("component", "gemini"),
	}, nil
}

// Ready reports whether the client is usable. A constructed client always
// is; construction fails on a missing credential.
func (c *Client) Ready() error { return nil }

// ExtractJobDetail structures raw posting content into a JobDetail.
func (c *Client) ExtractJobDetail(ctx context.Context, raw string, sourceURL string) (domain.JobDetail, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.JobDetail{}, fmt.Errorf("%w: empty posting content", extraction.ErrInvalidResponse)
	}

	prompt, err := renderPrompt(extractPromptTmpl, struct{ Raw string }{Raw: raw})
	if err != nil {
		return domain.JobDetail{}, err
	}

	text, err := c.generateWithRetry(ctx, prompt, true)
	if err != nil {
		return domain.JobDetail{}, err
	}

	var schema jobDetailSchema
	if err := json.Unmarshal([]byte(text), &schema); err != nil {
		return domain.JobDetail{}, fmt.Errorf("%w: parsing extraction response: %v", extraction.ErrInvalidResponse, err)
	}

	return schemaToDetail(schema, sourceURL), nil
}

// ExtractJobList structures a listing or search-results page into the
// postings it advertises. Entries the model returns without an application
// URL cannot be resolved later and are dropped.
func (c *Client) ExtractJobList(ctx context.Context, raw string, sourceURL string) ([]domain.JobDetail, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("%w: empty listing content", extraction.ErrInvalidResponse)
	}

	prompt, err := renderPrompt(listPromptTmpl, struct{ Raw string }{Raw: raw})
	if err != nil {
		return nil, err
	}

	text, err := c.generateWithRetry(ctx, prompt, true)
	if err != nil {
		return nil, err
	}

	var schema jobListSchema
	if err := json.Unmarshal([]byte(text), &schema); err != nil {
		return nil, fmt.Errorf("%w: parsing listing response: %v", extraction.ErrInvalidResponse, err)
	}

	details := make([]domain.JobDetail, 0, len(schema.Jobs))
	for _, job := range schema.Jobs {
		detail := schemaToDetail(job, "")
		if detail.ApplicationURL == "" {
			c.logger.Debug("dropping listing entry without application URL",
				"title", detail.Title, "source", sourceURL)
			continue
		}
		details = append(details, detail)
	}

	return details, nil
}

// ScoreMatch rates how well a posting fits the candidate profile.
func (c *Client) ScoreMatch(ctx context.Context, job domain.JobDetail, profile domain.CandidateProfile) (domain.MatchResult, error) {
	prompt, err := renderPrompt(matchPromptTmpl, promptInput{Job: job, Profile: profile})
	if err != nil {
		return domain.MatchResult{}, err
	}

	text, err := c.generateWithRetry(ctx, prompt, true)
	if err != nil {
		return domain.MatchResult{}, err
	}

	var schema matchSchema
	if err := json.Unmarshal([]byte(text), &schema); err != nil {
		return domain.MatchResult{}, fmt.Errorf("%w: parsing match response: %v", extraction.ErrInvalidResponse, err)
	}

	score := schema.Score
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return domain.MatchResult{Job: job, Score: score, Rationale: schema.Rationale}, nil
}

// GenerateLetter writes a cover letter for the posting.
func (c *Client) GenerateLetter(ctx context.Context, job domain.JobDetail, profile domain.CandidateProfile) (string, error) {
	return c.generateDocument(ctx, letterPromptTmpl, job, profile)
}

// GenerateOutreachEmail writes an outreach email for the posting.
func (c *Client) GenerateOutreachEmail(ctx context.Context, job domain.JobDetail, profile domain.CandidateProfile) (string, error) {
	return c.generateDocument(ctx, emailPromptTmpl, job, profile)
}

// promptInput is the data handed to the match/letter/email templates.
type promptInput struct {
	Job     domain.JobDetail
	Profile domain.CandidateProfile
}

func (c *Client) generateDocument(ctx context.Context, tmpl *template.Template, job domain.JobDetail, profile domain.CandidateProfile) (string, error) {
	prompt, err := renderPrompt(tmpl, promptInput{Job: job, Profile: profile})
	if err != nil {
		return "", err
	}

	text, err := c.generateWithRetry(ctx, prompt, false)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty document", extraction.ErrInvalidResponse)
	}

	return text, nil
}

func renderPrompt(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering prompt %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}

// generateWithRetry makes a Gemini call with bounded exponential backoff.
// API-level failures are assumed transient and retried; a blocked or
// unparseable response is permanent and returned immediately. Every attempt
// is bounded by the configured per-call timeout.
func (c *Client) generateWithRetry(ctx context.Context, prompt string, asJSON bool) (string, error) {
	maxRetries := c.config.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	baseDelaySeconds := c.config.RetryDelaySeconds
	if baseDelaySeconds < 1 {
		baseDelaySeconds = 2
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		text, err := c.generateOnce(ctx, prompt, asJSON)
		if err == nil {
			return text, nil
		}
		lastErr = err

		if errors.Is(err, extraction.ErrContentBlocked) ||
			errors.Is(err, extraction.ErrInvalidResponse) ||
			domain.IsCancelled(err) {
			return "", err
		}

		if attempt == maxRetries {
			break
		}

		// Exponential backoff with jitter between 0.5x and 1x.
		backoff := float64(baseDelaySeconds) * math.Pow(2, float64(attempt))
		delay := time.Duration(backoff * (0.5 + rng.Float64()*0.5) * float64(time.Second))

		c.logger.Warn("gemini call failed, retrying",
			"attempt", attempt+1,
			"max_attempts", maxRetries+1,
			"delay", delay,
			"error", err)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return "", fmt.Errorf("gemini call aborted during backoff: %w", domain.ErrCancelled)
		}
	}

	return "", fmt.Errorf("%w: gemini call failed after %d attempts: %v",
		domain.ErrTransient, maxRetries+1, lastErr)
}

func (c *Client) generateOnce(ctx context.Context, prompt string, asJSON bool) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var genConfig *genai.GenerateContentConfig
	if asJSON {
		genConfig = &genai.GenerateContentConfig{ResponseMIMEType: "application/json"}
	}

	resp, err := c.client.Models.GenerateContent(callCtx, c.config.Model, genai.Text(prompt), genConfig)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("gemini call aborted: %w", domain.ErrCancelled)
		}
		// API errors are treated as transient by default; the retry bound
		// keeps a genuinely broken call from looping.
		return "", fmt.Errorf("%w: gemini API: %v", domain.ErrTransient, err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("%w: no content generated", extraction.ErrInvalidResponse)
	}

	if resp.Candidates[0].FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: safety filter", extraction.ErrContentBlocked)
	}

	return resp.Text(), nil
}

// schemaToDetail maps the model's extraction schema onto the domain record.
// The posting date is parsed best-effort; an unparseable date is dropped
// rather than failing the extraction.
func schemaToDetail(s jobDetailSchema, sourceURL string) domain.JobDetail {
	detail := domain.JobDetail{
		Title:          strings.TrimSpace(s.Title),
		Company:        strings.TrimSpace(s.Company),
		Description:    strings.TrimSpace(s.Description),
		Skills:         s.Skills,
		Location:       s.Location,
		Salary:         s.Salary,
		ApplicationURL: strings.TrimSpace(s.ApplicationURL),
		ContactName:    s.ContactName,
		ContactEmail:   s.ContactEmail,
	}

	if detail.ApplicationURL == "" {
		detail.ApplicationURL = sourceURL
	}

	if s.PostingDate != "" {
		if t, err := time.Parse("2006-01-02", s.PostingDate); err == nil {
			detail.PostedAt = &t
		}
	}

	return detail
}
