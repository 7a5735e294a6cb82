// Package httpx provides the retrying HTTP client used for every
// upstream request.
//
// The Client in this package handles:
//   - Bounded retry with exponential backoff and jitter
//   - Typed transport/status errors (NetworkError, HTTPError)
//   - JSON, text, and streaming body retrieval
//   - User-Agent and Accept header conventions
//
// # Basic Usage
//
//	client := httpx.NewClient("campus-dl", httpx.DefaultRetryPolicy())
//
//	// JSON API call
//	var payload dto.CoursePayload
//	err := client.GetJSON(ctx, url, headers, &payload)
//
//	// Playlist text
//	manifest, err := client.GetText(ctx, playlistURL, headers)
//
// # Retry semantics
//
// Network errors always retry; HTTP statuses retry only when the
// policy's RetryStatus accepts them (server errors by default).
// Client errors such as 401/404 fail immediately so that a dead
// session or a removed lesson is reported at once instead of after
// the full backoff budget.
package httpx
