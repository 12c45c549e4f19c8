package extraction

import "errors"

// Common errors returned by extraction service implementations. Transient
// and configuration classification uses the domain sentinels; these cover
// the LLM-specific failure modes.
var (
	// ErrInvalidResponse is returned when the model response cannot be
	// parsed or is missing required fields. Permanent for the attempt.
	ErrInvalidResponse = errors.New("invalid response from completion service")

	// ErrContentBlocked is returned when the model refuses the content on
	// safety grounds. Permanent; retrying the same prompt cannot help.
	ErrContentBlocked = errors.New("content blocked by completion service")
)
