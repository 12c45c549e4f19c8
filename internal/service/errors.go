package service

import "errors"

// Construction and validation errors returned by the service layer.
var (
	ErrNilLauncher  = errors.New("launcher cannot be nil")
	ErrNilRegistry  = errors.New("registry cannot be nil")
	ErrNilBulk      = errors.New("bulk runner cannot be nil")
	ErrNilResolver  = errors.New("resolver cannot be nil")
	ErrNilScraper   = errors.New("scraper cannot be nil")
	ErrNilExtractor = errors.New("extractor cannot be nil")
	ErrNilBatches   = errors.New("batch writer cannot be nil")
	ErrNilDocuments = errors.New("document sink cannot be nil")
	ErrNilLogger    = errors.New("logger cannot be nil")

	// ErrNoTargets is returned when an operation is started without any
	// posting URLs and no configured fallback exists.
	ErrNoTargets = errors.New("no posting URLs to process")
)
