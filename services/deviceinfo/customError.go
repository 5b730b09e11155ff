package deviceinfo

import "fmt"

// UpstreamError signals that the device-info provider failed or timed out.
// The enclosing list request treats it as fatal; no partial enrichment.
type UpstreamError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fonoapi %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("fonoapi %s failed with status %d", e.Op, e.StatusCode)
}

func (e UpstreamError) Unwrap() error {
	return e.Err
}
