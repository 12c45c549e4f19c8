package domain

import "errors"

// Common domain errors used across the application. The pipeline classifies
// every failure into one of these categories, which determines whether the
// caller retries, advances a fallback stage, or aborts outright.
var (
	// ErrTransient is returned for network timeouts and other temporary
	// failures. Transient errors are retried a bounded number of times
	// within a stage; once retries are exhausted the stage is skipped.
	ErrTransient = errors.New("transient failure")

	// ErrInsufficientContent is returned when an extracted job record does
	// not pass the sufficiency check. It is expected control flow, not a
	// fault: it drives the resolver to the next fallback stage.
	ErrInsufficientContent = errors.New("extracted content is insufficient")

	// ErrConfiguration is returned when a required credential or setting is
	// missing. It is fatal for the call that encounters it: no retry, no
	// fallback, because no stage can succeed without the setting.
	ErrConfiguration = errors.New("missing or invalid configuration")

	// ErrCancelled is returned by task code that observed a cancellation
	// request and unwound cooperatively. It is a distinct terminal outcome
	// and is never conflated with a failure.
	ErrCancelled = errors.New("operation cancelled")

	// ErrRateLimited is returned when an external service rejects a call
	// for quota reasons. Treated as transient by the resolver.
	ErrRateLimited = errors.New("rate limited by external service")

	// ErrValidation is returned when a domain entity fails validation.
	ErrValidation = errors.New("validation failed")
)

// IsTransient reports whether err is a transient failure that may succeed
// on retry. Rate limiting counts as transient.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient) || errors.Is(err, ErrRateLimited)
}

// IsConfiguration reports whether err is a configuration-class failure that
// must abort the surrounding call without fallback.
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsCancelled reports whether err represents cooperative cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
