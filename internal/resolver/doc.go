// Package resolver implements the multi-stage job-detail resolution
// pipeline: a deterministic fallback chain over live extraction, cached
// batch lookup, manual override, and a terminal default, gated by the
// content sufficiency check. It runs as the body of a launched operation
// and honors the same cancellation discipline.
package resolver
