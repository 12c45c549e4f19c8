package domain

import "errors"

// ErrEmptyCV is returned when a candidate profile has no CV text.
var ErrEmptyCV = errors.New("candidate CV text cannot be empty")

// CandidateProfile holds the applicant data that matching and document
// generation work from. The CV text is the primary signal; the remaining
// fields season generated documents.
type CandidateProfile struct {
	Name    string `json:"name,omitempty"`
	Email   string `json:"email,omitempty"`
	CVText  string `json:"cv_text"`
	Summary string `json:"summary,omitempty"`
}

// Validate checks if the CandidateProfile has the fields required for
// matching and generation.
func (p CandidateProfile) Validate() error {
	if p.CVText == "" {
		return ErrEmptyCV
	}
	return nil
}

// MatchResult is the outcome of scoring one job posting against a candidate
// profile.
type MatchResult struct {
	Job       JobDetail `json:"job"`
	Score     int       `json:"score"`
	Rationale string    `json:"rationale,omitempty"`
}
