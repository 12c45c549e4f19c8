package gemini

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcarver/jobagent/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewRequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Model: "gemini-2.0-flash"}, testLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "API key")
}

func TestNewRequiresModel(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{APIKey: "test-key"}, testLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfiguration)
	assert.Contains(t, err.Error(), "model")
}

func TestSchemaToDetail(t *testing.T) {
	t.Parallel()

	detail := schemaToDetail(jobDetailSchema{
		Title:          "  Backend Engineer ",
		Company:        "Acme",
		Description:    " Build things. ",
		Skills:         []string{"Go", "Postgres"},
		Location:       "Remote",
		PostingDate:    "2026-08-01",
		ApplicationURL: "https://example.com/jobs/1",
		ContactEmail:   "recruiter@acme.test",
	}, "https://fallback.example.com")

	assert.Equal(t, "Backend Engineer", detail.Title)
	assert.Equal(t, "Build things.", detail.Description)
	assert.Equal(t, []string{"Go", "Postgres"}, detail.Skills)
	assert.Equal(t, "https://example.com/jobs/1", detail.ApplicationURL)
	require.NotNil(t, detail.PostedAt)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), *detail.PostedAt)
}

func TestSchemaToDetailFallbackURL(t *testing.T) {
	t.Parallel()

	detail := schemaToDetail(jobDetailSchema{Title: "Engineer"}, "https://source.example.com/jobs/1")
	assert.Equal(t, "https://source.example.com/jobs/1", detail.ApplicationURL)
}

func TestSchemaToDetailDropsUnparseableDate(t *testing.T) {
	t.Parallel()

	detail := schemaToDetail(jobDetailSchema{
		Title:       "Engineer",
		PostingDate: "first of August",
	}, "")
	assert.Nil(t, detail.PostedAt)
}

func TestPromptTemplatesRender(t *testing.T) {
	t.Parallel()

	job := domain.JobDetail{
		Title:       "Backend Engineer",
		Company:     "Acme",
		Description: "Run the platform.",
		Skills:      []string{"Go"},
		ContactName: "Robin",
	}
	profile := domain.CandidateProfile{Name: "Sam", CVText: "Ten years of Go."}

	out, err := renderPrompt(extractPromptTmpl, struct{ Raw string }{Raw: "posting text"})
	require.NoError(t, err)
	assert.Contains(t, out, "posting text")

	out, err = renderPrompt(listPromptTmpl, struct{ Raw string }{Raw: "listing text"})
	require.NoError(t, err)
	assert.Contains(t, out, "listing text")

	out, err = renderPrompt(matchPromptTmpl, promptInput{Job: job, Profile: profile})
	require.NoError(t, err)
	assert.Contains(t, out, "Backend Engineer")
	assert.Contains(t, out, "Ten years of Go.")

	out, err = renderPrompt(letterPromptTmpl, promptInput{Job: job, Profile: profile})
	require.NoError(t, err)
	assert.Contains(t, out, "Acme")
	assert.Contains(t, out, "Sam")

	out, err = renderPrompt(emailPromptTmpl, promptInput{Job: job, Profile: profile})
	require.NoError(t, err)
	assert.Contains(t, out, "Robin")
}
