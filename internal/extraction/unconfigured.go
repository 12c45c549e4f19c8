package extraction

import (
	"context"
	"fmt"

	"github.com/jcarver/jobagent/internal/domain"
)

// Unconfigured is the Service used when no completion credential is
// available. Every call fails with a configuration-class error, which
// aborts the calling operation without retries or fallback. Wiring this in
// instead of failing startup keeps the status/cancel surface alive for
// operations that do not need the LLM.
type Unconfigured struct{}

var _ Service = Unconfigured{}

func (Unconfigured) err() error {
	return fmt.Errorf("%w: completion service credential not set", domain.ErrConfiguration)
}

// Ready always reports the missing credential.
func (u Unconfigured) Ready() error { return u.err() }

func (u Unconfigured) ExtractJobDetail(context.Context, string, string) (domain.JobDetail, error) {
	return domain.JobDetail{}, u.err()
}

func (u Unconfigured) ExtractJobList(context.Context, string, string) ([]domain.JobDetail, error) {
	return nil, u.err()
}

func (u Unconfigured) ScoreMatch(context.Context, domain.JobDetail, domain.CandidateProfile) (domain.MatchResult, error) {
	return domain.MatchResult{}, u.err()
}

func (u Unconfigured) GenerateLetter(context.Context, domain.JobDetail, domain.CandidateProfile) (string, error) {
	return "", u.err()
}

func (u Unconfigured) GenerateOutreachEmail(context.Context, domain.JobDetail, domain.CandidateProfile) (string, error) {
	return "", u.err()
}
