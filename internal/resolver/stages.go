package resolver

import (
	"context"
	"fmt"

	"github.com/jcarver/jobagent/internal/domain"
)

// liveStage fetches the posting URL through the scraping client and
// structures the result with the extraction service. Accepted records must
// pass the sufficiency gate.
type liveStage struct {
	scraper    ScrapeClient
	extractor  Extractor
	thresholds domain.SufficiencyThresholds
}

func (s *liveStage) Name() string { return "live" }

func (s *liveStage) Attempt(ctx context.Context, req Request) (domain.JobDetail, error) {
	if req.URL == "" {
		return domain.JobDetail{}, errStageNotApplicable
	}

	raw, err := s.scraper.Fetch(ctx, req.URL)
	if err != nil {
		return domain.JobDetail{}, fmt.Errorf("live fetch: %w", err)
	}

	detail, err := s.extractor.ExtractJobDetail(ctx, raw, req.URL)
	if err != nil {
		return domain.JobDetail{}, fmt.Errorf("live extraction: %w", err)
	}

	if !domain.IsSufficient(detail, s.thresholds) {
		return domain.JobDetail{}, fmt.Errorf("live record for %s: %w", req.URL, domain.ErrInsufficientContent)
	}

	detail.Provenance = domain.ProvenanceLive
	detail.Sufficient = true
	return detail, nil
}

// cachedStage looks the target URL up in the most recently produced batch,
// matching on normalized application URLs. The first match in the newest
// batch wins; recency ordering is the store's contract.
type cachedStage struct {
	store      BatchStore
	thresholds domain.SufficiencyThresholds
}

func (s *cachedStage) Name() string { return "cached" }

func (s *cachedStage) Attempt(ctx context.Context, req Request) (domain.JobDetail, error) {
	if req.URL == "" {
		return domain.JobDetail{}, errStageNotApplicable
	}

	records, err := s.store.LatestBatch(ctx)
	if err != nil {
		return domain.JobDetail{}, fmt.Errorf("cached batch load: %w", err)
	}

	target := NormalizeJobURL(req.URL)
	for _, record := range records {
		if NormalizeJobURL(record.ApplicationURL) != target {
			continue
		}

		if !domain.IsSufficient(record, s.thresholds) {
			return domain.JobDetail{}, fmt.Errorf("cached record for %s: %w", req.URL, domain.ErrInsufficientContent)
		}

		record.Provenance = domain.ProvenanceCached
		record.Sufficient = true
		return record, nil
	}

	return domain.JobDetail{}, errNoCachedMatch
}

// manualStage structures caller-supplied posting text. An explicit manual
// override is trusted, so the record is accepted even when the sufficiency
// check fails; the flag still records the check's outcome.
type manualStage struct {
	extractor  Extractor
	thresholds domain.SufficiencyThresholds
}

func (s *manualStage) Name() string { return "manual" }

func (s *manualStage) Attempt(ctx context.Context, req Request) (domain.JobDetail, error) {
	if req.ManualText == "" {
		return domain.JobDetail{}, errStageNotApplicable
	}

	detail, err := s.extractor.ExtractJobDetail(ctx, req.ManualText, req.URL)
	if err != nil {
		return domain.JobDetail{}, fmt.Errorf("manual extraction: %w", err)
	}

	detail.Provenance = domain.ProvenanceManual
	detail.Sufficient = domain.IsSufficient(detail, s.thresholds)
	return detail, nil
}

// defaultStage is the terminal fallback. It never fails.
type defaultStage struct{}

func (s *defaultStage) Name() string { return "default" }

func (s *defaultStage) Attempt(_ context.Context, req Request) (domain.JobDetail, error) {
	return domain.NewDefaultJobDetail(req.URL), nil
}
