// Package service wires operation kinds to their task bodies: scraping job
// boards into batches, matching postings against a candidate profile, and
// generating application documents one at a time or in bulk. It sits
// between the HTTP layer and the orchestrator, owning the business flow of
// each operation while the operation package owns lifecycle mechanics.
package service
