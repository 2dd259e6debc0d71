package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrCredentialMissing means no API key could be resolved from any
	// source. It is returned before any network activity is attempted.
	ErrCredentialMissing = errors.New("gemini api key not set")

	// ErrDocumentNotFound means an input path did not resolve to a file.
	ErrDocumentNotFound = errors.New("document not found")
)

// UpstreamError wraps any failure of the inference call itself: transport
// errors, timeouts, an empty response, or a payload that does not decode
// into the extraction schema. No partial result accompanies it.
type UpstreamError struct {
	Reason string
	Err    error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream: %s: %v", e.Reason, e.Err)
	}
	return "upstream: " + e.Reason
}

func (e *UpstreamError) Unwrap() error { return e.Err }
