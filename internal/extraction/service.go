package extraction

import (
	"context"

	"github.com/jcarver/jobagent/internal/domain"
)

// Service defines the operations the pipeline needs from the AI completion
// collaborator. Implementations bound every call with a timeout, classify
// failures with the domain error taxonomy (domain.ErrTransient,
// domain.ErrRateLimited, domain.ErrConfiguration), and return the
// LLM-specific sentinels from this package for malformed or refused
// responses.
type Service interface {
	// Ready reports whether the service is usable. An unconfigured service
	// (missing API key) returns an error wrapping domain.ErrConfiguration;
	// bulk operations check this once before running any item.
	Ready() error

	// ExtractJobDetail structures raw posting content into a JobDetail.
	// sourceURL is recorded as the record's application URL when the
	// content itself does not carry one.
	ExtractJobDetail(ctx context.Context, raw string, sourceURL string) (domain.JobDetail, error)

	// ExtractJobList structures a search-results or listing page into the
	// postings it advertises. Records missing an application URL are
	// dropped by implementations.
	ExtractJobList(ctx context.Context, raw string, sourceURL string) ([]domain.JobDetail, error)

	// ScoreMatch rates how well a posting fits the candidate profile,
	// returning a 0-100 score with a short rationale.
	ScoreMatch(ctx context.Context, job domain.JobDetail, profile domain.CandidateProfile) (domain.MatchResult, error)

	// GenerateLetter writes a cover letter for the posting tailored to the
	// candidate profile.
	GenerateLetter(ctx context.Context, job domain.JobDetail, profile domain.CandidateProfile) (string, error)

	// GenerateOutreachEmail writes a short outreach email to the posting's
	// contact, tailored to the candidate profile.
	GenerateOutreachEmail(ctx context.Context, job domain.JobDetail, profile domain.CandidateProfile) (string, error)
}
