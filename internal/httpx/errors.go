package httpx

import "fmt"

// bodySnippetLimit caps how much of an error response body is kept in
// an HTTPError. Enough to see an API error message, not enough to drag
// an HTML error page through every log line.
const bodySnippetLimit = 500

// NetworkError is a transport-level failure: DNS, connect, TLS, or a
// broken response body. Network errors are always retryable up to the
// configured budget.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error fetching %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError is a response with a non-success status code. The body
// snippet holds up to bodySnippetLimit bytes of the response for
// diagnostics.
type HTTPError struct {
	Status      int
	URL         string
	BodySnippet string
}

func (e *HTTPError) Error() string {
	if e.BodySnippet == "" {
		return fmt.Sprintf("HTTP %d from %s", e.Status, e.URL)
	}
	return fmt.Sprintf("HTTP %d from %s: %s", e.Status, e.URL, e.BodySnippet)
}

// Retryable reports whether the status is server-class. Client errors
// (4xx) indicate a request that will keep failing and are never
// retried.
func (e *HTTPError) Retryable() bool {
	return e.Status >= 500
}
