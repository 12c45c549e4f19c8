// Package gemini implements the extraction.Service interface using Google's
// Gemini API.
package gemini

// jobDetailSchema is the JSON structure the model is asked to produce when
// extracting a posting.
type jobDetailSchema struct {
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Description    string   `json:"description"`
	Skills         []string `json:"skills,omitempty"`
	Location       string   `json:"location,omitempty"`
	Salary         string   `json:"salary,omitempty"`
	PostingDate    string   `json:"posting_date,omitempty"`
	ApplicationURL string   `json:"application_url,omitempty"`
	ContactName    string   `json:"contact_name,omitempty"`
	ContactEmail   string   `json:"contact_email,omitempty"`
}

// jobListSchema is the JSON structure the model is asked to produce when
// extracting a listing page.
type jobListSchema struct {
	Jobs []jobDetailSchema `json:"jobs"`
}

// matchSchema is the JSON structure the model is asked to produce when
// scoring a posting against a profile.
type matchSchema struct {
	Score     int    `json:"score"`
	Rationale string `json:"rationale"`
}
