package extraction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jcarver/jobagent/internal/domain"
)

func TestUnconfiguredFailsEveryCall(t *testing.T) {
	t.Parallel()

	svc := Unconfigured{}
	ctx := context.Background()

	assert.ErrorIs(t, svc.Ready(), domain.ErrConfiguration)

	_, err := svc.ExtractJobDetail(ctx, "raw", "https://example.com")
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = svc.ExtractJobList(ctx, "raw", "https://example.com")
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = svc.ScoreMatch(ctx, domain.JobDetail{}, domain.CandidateProfile{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = svc.GenerateLetter(ctx, domain.JobDetail{}, domain.CandidateProfile{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)

	_, err = svc.GenerateOutreachEmail(ctx, domain.JobDetail{}, domain.CandidateProfile{})
	assert.ErrorIs(t, err, domain.ErrConfiguration)
}
