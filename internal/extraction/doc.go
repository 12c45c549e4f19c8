// Package extraction provides the interface to the AI completion service
// used across the pipeline: structuring raw posting text into job detail
// records, scoring postings against a candidate profile, and generating
// application documents. It abstracts the LLM integration (Gemini) so the
// application core never couples to a specific external service.
package extraction
