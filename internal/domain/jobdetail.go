package domain

import (
	"errors"
	"time"
)

// Provenance records which resolution stage produced a job detail record.
type Provenance string

// Possible provenance values, in fallback order.
const (
	ProvenanceLive    Provenance = "live"
	ProvenanceCached  Provenance = "cached"
	ProvenanceManual  Provenance = "manual"
	ProvenanceDefault Provenance = "default"
)

// Common validation errors for JobDetail
var (
	ErrEmptyJobTitle = errors.New("job title cannot be empty")
	ErrEmptyJobURL   = errors.New("job application URL cannot be empty")
)

// JobDetail represents a single job posting as resolved by the detail
// pipeline. A record is created fresh per resolution call and treated as
// immutable once returned; persistence is a collaborator's concern.
type JobDetail struct {
	Title          string     `json:"title"`
	Company        string     `json:"company"`
	Description    string     `json:"description"`
	Skills         []string   `json:"skills,omitempty"`
	Location       string     `json:"location,omitempty"`
	Salary         string     `json:"salary,omitempty"`
	PostedAt       *time.Time `json:"posted_at,omitempty"`
	ApplicationURL string     `json:"application_url"`
	ContactName    string     `json:"contact_name,omitempty"`
	ContactEmail   string     `json:"contact_email,omitempty"`
	Provenance     Provenance `json:"provenance"`
	Sufficient     bool       `json:"sufficient"`
}

// NewDefaultJobDetail returns the terminal placeholder record used when no
// other resolution stage produced anything usable. It carries the target URL
// so downstream document generation can still reference the posting, and is
// the only record the resolver may return with Sufficient set to false
// outside an explicit manual override.
func NewDefaultJobDetail(applicationURL string) JobDetail {
	return JobDetail{
		Title:          "Unknown Position",
		Company:        "Unknown Company",
		Description:    "No job details could be retrieved for this posting.",
		ApplicationURL: applicationURL,
		Provenance:     ProvenanceDefault,
		Sufficient:     false,
	}
}

// SufficiencyThresholds holds the externally configured limits applied by
// the sufficiency check. Callers tune these per data source rather than the
// check hardcoding them.
type SufficiencyThresholds struct {
	// MinDescriptionLength is the minimum number of bytes the description
	// must contain for a record with no listed skills to count as usable.
	MinDescriptionLength int
}

// IsSufficient reports whether a job detail record contains enough content
// to drive document generation. A record is sufficient when it has a
// non-empty title and either a description of at least the configured
// minimum length or a non-empty skills list.
//
// The check is a pure predicate: no I/O, no side effects, and absent or
// malformed fields simply count as insufficient rather than erroring.
func IsSufficient(d JobDetail, t SufficiencyThresholds) bool {
	if d.Title == "" {
		return false
	}

	return len(d.Description) >= t.MinDescriptionLength || len(d.Skills) > 0
}

// Validate checks if the JobDetail has the fields required of an accepted
// record. Returns an error if any field fails validation.
func (d JobDetail) Validate() error {
	if d.Title == "" {
		return ErrEmptyJobTitle
	}

	if d.ApplicationURL == "" {
		return ErrEmptyJobURL
	}

	return nil
}
