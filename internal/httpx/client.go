package httpx

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"
)

// maxJitter bounds the random slice added to each backoff delay.
const maxJitter = 250 * time.Millisecond

// RetryPolicy controls how failed requests are retried.
//
// A request is retried only while the attempt count is below Retries
// AND the failure is retryable: any NetworkError, or an HTTPError for
// which RetryStatus returns true. The delay before retry n is
//
//	min(MaxDelay, MinDelay * 2^n) + jitter in [0, min(250ms, delay))
type RetryPolicy struct {
	// Retries is the number of retries after the initial attempt.
	Retries int

	MinDelay time.Duration
	MaxDelay time.Duration

	// RetryStatus decides whether an HTTP status is worth retrying.
	// Nil means "server errors only" (status >= 500).
	RetryStatus func(status int) bool
}

// DefaultRetryPolicy returns the policy used when none is configured:
// 3 retries, 500ms-8s exponential backoff, server errors only.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Retries:  3,
		MinDelay: 500 * time.Millisecond,
		MaxDelay: 8 * time.Second,
	}
}

func (p RetryPolicy) retryStatus(status int) bool {
	if p.RetryStatus != nil {
		return p.RetryStatus(status)
	}
	return status >= 500
}

// delay computes the backoff before retry attempt n (0-based).
func (p RetryPolicy) delay(attempt int) time.Duration {
	d := p.MinDelay
	for i := 0; i < attempt && d < p.MaxDelay; i++ {
		d *= 2
	}
	if d > p.MaxDelay {
		d = p.MaxDelay
	}
	jitterCap := maxJitter
	if d < jitterCap {
		jitterCap = d
	}
	if jitterCap > 0 {
		d += time.Duration(rand.Int63n(int64(jitterCap)))
	}
	return d
}

// Client wraps HTTP operations with the retry, header, and error
// conventions the upstream API requires.
//
// Client never returns a raw status check failure: transport failures
// come back as *NetworkError and non-success statuses as *HTTPError,
// so callers can branch on the taxonomy instead of string-matching.
//
// Example usage:
//
//	client := httpx.NewClient("campus-dl", httpx.DefaultRetryPolicy())
//
//	var payload dto.CoursePayload
//	err := client.GetJSON(ctx, courseURL, headers, &payload)
type Client struct {
	httpClient *http.Client
	userAgent  string
	policy     RetryPolicy
}

// NewClient creates a Client with a 60 second per-request timeout.
func NewClient(userAgent string, policy RetryPolicy) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		userAgent: userAgent,
		policy:    policy,
	}
}

// do performs one request/retry cycle and returns a response whose
// status is in the 2xx range. The caller owns the body.
func (c *Client) do(ctx context.Context, url string, header http.Header) (*http.Response, error) {
	var lastErr error

	for attempt := 0; ; attempt++ {
		resp, err := c.attempt(ctx, url, header)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt >= c.policy.Retries || !c.retryable(err) {
			return nil, lastErr
		}

		select {
		case <-ctx.Done():
			return nil, &NetworkError{URL: url, Err: ctx.Err()}
		case <-time.After(c.policy.delay(attempt)):
		}
	}
}

func (c *Client) retryable(err error) bool {
	switch e := err.(type) {
	case *NetworkError:
		return true
	case *HTTPError:
		return c.policy.retryStatus(e.Status)
	}
	return false
}

// attempt performs exactly one request.
func (c *Client) attempt(ctx context.Context, url string, header http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, bodySnippetLimit))
		resp.Body.Close()
		return nil, &HTTPError{
			Status:      resp.StatusCode,
			URL:         url,
			BodySnippet: string(snippet),
		}
	}

	return resp, nil
}

// GetJSON fetches url and decodes the response body into v.
//
// The Accept header is forced to application/json; everything else in
// header is passed through (typically Cookie from the session store).
func (c *Client) GetJSON(ctx context.Context, url string, header http.Header, v any) error {
	h := cloneHeader(header)
	h.Set("Accept", "application/json")

	resp, err := c.do(ctx, url, h)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &NetworkError{URL: url, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// GetText fetches url and returns the response body as a string.
// Used for playlist manifests.
func (c *Client) GetText(ctx context.Context, url string, header http.Header) (string, error) {
	resp, err := c.do(ctx, url, header)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &NetworkError{URL: url, Err: err}
	}
	return string(body), nil
}

// Get fetches url and returns the response body stream. The caller
// must close it. Retries cover everything up to the first body byte;
// a stream that dies mid-read surfaces to the caller, because a
// partially-consumed download cannot be transparently restarted.
func (c *Client) Get(ctx context.Context, url string, header http.Header) (io.ReadCloser, error) {
	resp, err := c.do(ctx, url, header)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func cloneHeader(h http.Header) http.Header {
	out := make(http.Header, len(h)+1)
	for k, vs := range h {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
