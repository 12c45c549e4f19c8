package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/jcarver/jobagent/internal/domain"
	"github.com/jcarver/jobagent/internal/extraction"
	"github.com/jcarver/jobagent/internal/operation"
	"github.com/jcarver/jobagent/internal/resolver"
)

// Resolver is the job-detail resolution collaborator.
type Resolver interface {
	Resolve(ctx context.Context, req resolver.Request) (domain.JobDetail, error)
}

// ScrapeClient fetches raw page content. Used directly for listing pages;
// individual postings go through the Resolver.
type ScrapeClient interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// BatchWriter persists scraped batches for later cached resolution.
type BatchWriter interface {
	WriteBatch(ctx context.Context, records []domain.JobDetail) (string, error)
}

// DocumentSink persists generated documents and returns opaque references.
type DocumentSink interface {
	Save(ctx context.Context, kind string, content string) (string, error)
}

// OperationService starts background operations and exposes their status to
// the transport layer.
type OperationService struct {
	launcher  *operation.Launcher
	registry  *operation.Registry
	bulk      *operation.BulkRunner
	resolver  Resolver
	scraper   ScrapeClient
	extractor extraction.Service
	batches   BatchWriter
	documents DocumentSink

	// searchURLs are the configured listing pages a scrape operation falls
	// back to when the caller names none.
	searchURLs []string

	logger *slog.Logger
}

// NewOperationService creates an OperationService, validating every
// dependency.
func NewOperationService(
	launcher *operation.Launcher,
	registry *operation.Registry,
	bulk *operation.BulkRunner,
	res Resolver,
	scraper ScrapeClient,
	extractor extraction.Service,
	batches BatchWriter,
	documents DocumentSink,
	searchURLs []string,
	logger *slog.Logger,
) (*OperationService, error) {
	switch {
	case launcher == nil:
		return nil, ErrNilLauncher
	case registry == nil:
		return nil, ErrNilRegistry
	case bulk == nil:
		return nil, ErrNilBulk
	case res == nil:
		return nil, ErrNilResolver
	case scraper == nil:
		return nil, ErrNilScraper
	case extractor == nil:
		return nil, ErrNilExtractor
	case batches == nil:
		return nil, ErrNilBatches
	case documents == nil:
		return nil, ErrNilDocuments
	case logger == nil:
		return nil, ErrNilLogger
	}

	return &OperationService{
		launcher:   launcher,
		registry:   registry,
		bulk:       bulk,
		resolver:   res,
		scraper:    scraper,
		extractor:  extractor,
		batches:    batches,
		documents:  documents,
		searchURLs: searchURLs,
		logger:     logger.With("component", "operation_service"),
	}, nil
}

// ScrapeParams names the listing pages a scrape operation reads.
type ScrapeParams struct {
	URLs []string
}

// ScrapeResult is the terminal result of a scrape operation.
type ScrapeResult struct {
	BatchRef  string `json:"batch_ref"`
	JobCount  int    `json:"job_count"`
	PageCount int    `json:"page_count"`
}

// MatchParams holds the postings and profile for a match operation.
type MatchParams struct {
	URLs    []string
	Profile domain.CandidateProfile
}

// MatchReport is the terminal result of a match operation, ranked best
// first.
type MatchReport struct {
	Matches []domain.MatchResult `json:"matches"`
}

// LetterParams holds the target and profile for a single-letter operation.
type LetterParams struct {
	URL        string
	ManualText string
	Profile    domain.CandidateProfile
}

// LetterResult is the terminal result of a single-letter operation.
type LetterResult struct {
	Job         domain.JobDetail `json:"job"`
	DocumentRef string           `json:"document_ref"`
	Content     string           `json:"content"`
}

// BulkParams holds the targets and profile for a bulk operation.
type BulkParams struct {
	URLs    []string
	Profile domain.CandidateProfile
}

// StartScrape launches a scrape operation over the given listing pages (or
// the configured defaults) and returns its id immediately.
func (s *OperationService) StartScrape(params ScrapeParams) (uuid.UUID, error) {
	urls := params.URLs
	if len(urls) == 0 {
		urls = s.searchURLs
	}
	if len(urls) == 0 {
		return uuid.Nil, ErrNoTargets
	}

	id := s.launcher.Start(operation.KindScrape, func(ctx context.Context, report operation.ProgressFunc, token *operation.Token) (any, error) {
		var records []domain.JobDetail

		for i, url := range urls {
			if err := token.Err(); err != nil {
				return nil, err
			}
			report(i*100/len(urls), fmt.Sprintf("scraping %s", url))

			raw, err := s.scraper.Fetch(ctx, url)
			if err != nil {
				if domain.IsConfiguration(err) || domain.IsCancelled(err) {
					return nil, err
				}
				s.logger.Warn("skipping listing page", "url", url, "error", err)
				continue
			}

			jobs, err := s.extractor.ExtractJobList(ctx, raw, url)
			if err != nil {
				if domain.IsConfiguration(err) || domain.IsCancelled(err) {
					return nil, err
				}
				s.logger.Warn("skipping unparseable listing page", "url", url, "error", err)
				continue
			}

			records = append(records, jobs...)
		}

		if len(records) == 0 {
			return nil, errors.New("no postings extracted from any listing page")
		}

		if err := token.Err(); err != nil {
			return nil, err
		}
		report(99, "writing batch")

		ref, err := s.batches.WriteBatch(ctx, records)
		if err != nil {
			return nil, fmt.Errorf("persisting batch: %w", err)
		}

		return ScrapeResult{BatchRef: ref, JobCount: len(records), PageCount: len(urls)}, nil
	})

	return id, nil
}

// StartMatch launches a match operation scoring each posting against the
// profile. Individual postings that fail to resolve or score are skipped;
// the operation fails only when nothing could be scored.
func (s *OperationService) StartMatch(params MatchParams) (uuid.UUID, error) {
	if len(params.URLs) == 0 {
		return uuid.Nil, ErrNoTargets
	}
	if err := params.Profile.Validate(); err != nil {
		return uuid.Nil, err
	}

	urls := params.URLs
	profile := params.Profile

	id := s.launcher.Start(operation.KindMatch, func(ctx context.Context, report operation.ProgressFunc, token *operation.Token) (any, error) {
		matches := make([]domain.MatchResult, 0, len(urls))

		for i, url := range urls {
			if err := token.Err(); err != nil {
				return nil, err
			}
			report(i*100/len(urls), fmt.Sprintf("matching %s", url))

			detail, err := s.resolver.Resolve(ctx, resolver.Request{URL: url})
			if err != nil {
				// Only configuration errors and cancellation escape the
				// resolver.
				return nil, err
			}

			match, err := s.extractor.ScoreMatch(ctx, detail, profile)
			if err != nil {
				if domain.IsConfiguration(err) || domain.IsCancelled(err) {
					return nil, err
				}
				s.logger.Warn("skipping unscorable posting", "url", url, "error", err)
				continue
			}

			matches = append(matches, match)
		}

		if len(matches) == 0 {
			return nil, errors.New("no postings could be scored")
		}

		sort.SliceStable(matches, func(i, j int) bool {
			return matches[i].Score > matches[j].Score
		})

		return MatchReport{Matches: matches}, nil
	})

	return id, nil
}

// StartLetter launches a single cover-letter operation: resolve the posting
// through the full fallback chain, generate the letter, persist it.
func (s *OperationService) StartLetter(params LetterParams) (uuid.UUID, error) {
	if params.URL == "" && params.ManualText == "" {
		return uuid.Nil, ErrNoTargets
	}
	if err := params.Profile.Validate(); err != nil {
		return uuid.Nil, err
	}

	id := s.launcher.Start(operation.KindLetterSingle, func(ctx context.Context, report operation.ProgressFunc, token *operation.Token) (any, error) {
		report(10, "resolving job details")

		detail, err := s.resolver.Resolve(ctx, resolver.Request{URL: params.URL, ManualText: params.ManualText})
		if err != nil {
			return nil, err
		}

		if err := token.Err(); err != nil {
			return nil, err
		}
		report(50, "generating cover letter")

		content, err := s.extractor.GenerateLetter(ctx, detail, params.Profile)
		if err != nil {
			return nil, fmt.Errorf("generating letter: %w", err)
		}

		report(90, "saving document")

		ref, err := s.documents.Save(ctx, "cover_letter", content)
		if err != nil {
			return nil, fmt.Errorf("saving letter: %w", err)
		}

		return LetterResult{Job: detail, DocumentRef: ref, Content: content}, nil
	})

	return id, nil
}

// StartLetterBulk launches a bulk cover-letter operation over the given
// posting URLs.
func (s *OperationService) StartLetterBulk(params BulkParams) (uuid.UUID, error) {
	return s.startBulk(operation.KindLetterBulk, params, s.letterItem)
}

// StartEmailBulk launches a bulk outreach-email operation over the given
// posting URLs. Items whose resolved posting lacks a contact email fail
// individually.
func (s *OperationService) StartEmailBulk(params BulkParams) (uuid.UUID, error) {
	return s.startBulk(operation.KindEmailBulk, params, s.emailItem)
}

// itemFunc generates and persists one document for one resolved posting.
type itemFunc func(ctx context.Context, url string, profile domain.CandidateProfile) (string, error)

func (s *OperationService) startBulk(kind operation.Kind, params BulkParams, item itemFunc) (uuid.UUID, error) {
	if len(params.URLs) == 0 {
		return uuid.Nil, ErrNoTargets
	}
	if err := params.Profile.Validate(); err != nil {
		return uuid.Nil, err
	}

	urls := params.URLs
	profile := params.Profile

	id := s.launcher.Start(kind, func(ctx context.Context, report operation.ProgressFunc, token *operation.Token) (any, error) {
		// Pool-wide precondition, checked once before any item runs: a
		// missing completion credential fails every item identically, so
		// fail the batch up front instead.
		if err := s.extractor.Ready(); err != nil {
			return nil, err
		}

		return s.bulk.Run(ctx, urls,
			func(ctx context.Context, url string) (string, error) {
				return item(ctx, url, profile)
			},
			report, token)
	})

	return id, nil
}

func (s *OperationService) letterItem(ctx context.Context, url string, profile domain.CandidateProfile) (string, error) {
	detail, err := s.resolver.Resolve(ctx, resolver.Request{URL: url})
	if err != nil {
		return "", err
	}

	content, err := s.extractor.GenerateLetter(ctx, detail, profile)
	if err != nil {
		return "", fmt.Errorf("generating letter: %w", err)
	}

	return s.documents.Save(ctx, "cover_letter", content)
}

func (s *OperationService) emailItem(ctx context.Context, url string, profile domain.CandidateProfile) (string, error) {
	detail, err := s.resolver.Resolve(ctx, resolver.Request{URL: url})
	if err != nil {
		return "", err
	}

	if detail.ContactEmail == "" {
		return "", fmt.Errorf("posting %s has no contact email", url)
	}

	content, err := s.extractor.GenerateOutreachEmail(ctx, detail, profile)
	if err != nil {
		return "", fmt.Errorf("generating email: %w", err)
	}

	return s.documents.Save(ctx, "outreach_email", content)
}

// GetStatus returns a snapshot of the operation's current state.
func (s *OperationService) GetStatus(id uuid.UUID) (operation.Snapshot, error) {
	return s.registry.Get(id)
}

// CancelOperation requests cooperative cancellation of the operation.
// Returns true iff the operation was still cancellable.
func (s *OperationService) CancelOperation(id uuid.UUID) (bool, error) {
	if _, err := s.registry.Get(id); err != nil {
		return false, err
	}
	return s.registry.RequestCancel(id), nil
}
