package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jcarver/jobagent/internal/domain"
)

// Stage-local sentinels. Both advance the chain; neither escapes Resolve.
var (
	errNoCachedMatch      = errors.New("no cached record matches the target URL")
	errStageNotApplicable = errors.New("stage not applicable to this request")
)

// ScrapeClient is the live-extraction collaborator. Implementations bound
// every fetch with a timeout and surface timeouts as errors wrapping
// domain.ErrTransient.
type ScrapeClient interface {
	// Fetch retrieves the raw content behind url.
	Fetch(ctx context.Context, url string) (string, error)
}

// Extractor is the AI-completion collaborator that structures raw text
// into a job detail record.
type Extractor interface {
	// ExtractJobDetail structures raw posting content into a JobDetail.
	// sourceURL is recorded as the record's application URL when the
	// content itself does not carry one.
	ExtractJobDetail(ctx context.Context, raw string, sourceURL string) (domain.JobDetail, error)
}

// BatchStore is the cached-batch-store collaborator. Read-only from the
// resolver's perspective.
type BatchStore interface {
	// LatestBatch returns the records of the most recently produced batch,
	// newest batch first when several exist.
	LatestBatch(ctx context.Context) ([]domain.JobDetail, error)
}

// Request names the posting to resolve. ManualText, when non-empty, is
// caller-supplied posting text trusted as an explicit override.
type Request struct {
	URL        string
	ManualText string
}

// Stage is one step of the fallback chain. Attempt either returns an
// accepted record or an error explaining why the chain should move on;
// errors wrapping domain.ErrConfiguration abort the whole resolution
// instead.
type Stage interface {
	Name() string
	Attempt(ctx context.Context, req Request) (domain.JobDetail, error)
}

// Resolver walks an ordered fallback chain until a stage accepts. The
// terminal default stage never fails, so Resolve only errors on
// configuration-class failures or cancellation.
type Resolver struct {
	stages []Stage
	logger *slog.Logger
}

// New creates a Resolver with the standard chain: live extraction, cached
// batch lookup, manual override, default placeholder.
func New(
	scraper ScrapeClient,
	store BatchStore,
	extractor Extractor,
	thresholds domain.SufficiencyThresholds,
	logger *slog.Logger,
) *Resolver {
	logger = logger.With("component", "job_detail_resolver")

	return &Resolver{
		stages: []Stage{
			&liveStage{scraper: scraper, extractor: extractor, thresholds: thresholds},
			&cachedStage{store: store, thresholds: thresholds},
			&manualStage{extractor: extractor, thresholds: thresholds},
			&defaultStage{},
		},
		logger: logger,
	}
}

// NewWithStages creates a Resolver over an explicit chain. Used by tests
// and by callers that need a reduced chain (e.g. cache-only lookups).
func NewWithStages(stages []Stage, logger *slog.Logger) *Resolver {
	return &Resolver{stages: stages, logger: logger.With("component", "job_detail_resolver")}
}

// Resolve runs the chain for req. Every record accepted from the live or
// cached stages has passed the sufficiency gate; a manual record is trusted
// regardless; the default record is the only insufficient record that can
// be returned otherwise.
func (r *Resolver) Resolve(ctx context.Context, req Request) (domain.JobDetail, error) {
	for _, stage := range r.stages {
		// Checkpoint before each stage's externally blocking work.
		if ctx.Err() != nil {
			return domain.JobDetail{}, fmt.Errorf("resolution interrupted: %w", domain.ErrCancelled)
		}

		detail, err := stage.Attempt(ctx, req)
		if err == nil {
			r.logger.Info("job detail resolved",
				"stage", stage.Name(),
				"url", req.URL,
				"provenance", detail.Provenance,
				"sufficient", detail.Sufficient)
			return detail, nil
		}

		if domain.IsConfiguration(err) {
			// No later stage can succeed without the missing setting.
			r.logger.Error("resolution aborted by configuration error",
				"stage", stage.Name(), "url", req.URL, "error", err)
			return domain.JobDetail{}, err
		}

		if errors.Is(err, errStageNotApplicable) {
			r.logger.Debug("stage skipped", "stage", stage.Name(), "url", req.URL)
			continue
		}

		r.logger.Warn("stage failed, falling back",
			"stage", stage.Name(), "url", req.URL, "error", err)
	}

	// The default stage never fails, so this is unreachable with the
	// standard chain. Reduced chains fall through to a plain default.
	return domain.NewDefaultJobDetail(req.URL), nil
}
