package catalog

import "fmt"

// StatusError reports a non-success HTTP status from the catalog API. It
// carries enough for callers to decide between retrying and giving up.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("tmdb %s returned status %d", e.Endpoint, e.StatusCode)
}

// Retryable reports whether the request may succeed if repeated. Rate limits
// and server-side failures qualify; auth and not-found do not.
func (e *StatusError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
