package model

import (
	"strings"
	"time"
)

// ExpiresNever marks a cookie without an expiry. Session cookies and
// cookies persisted before expiry was captured both use it.
const ExpiresNever int64 = -1

// Cookie is a single persisted authentication cookie.
//
// The zero Domain/Path mean "no restriction recorded"; such cookies
// match every request to keep parity with the legacy session format,
// which never captured cookie attributes.
type Cookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Domain   string `json:"domain,omitempty"`
	Path     string `json:"path,omitempty"`
	Expires  int64  `json:"expires,omitempty"` // epoch seconds, or ExpiresNever
	HTTPOnly bool   `json:"httpOnly,omitempty"`
	Secure   bool   `json:"secure,omitempty"`
	SameSite string `json:"sameSite,omitempty"`
}

// Expired reports whether the cookie's expiry is in the past.
// Cookies with no expiry recorded never expire.
func (c Cookie) Expired(now time.Time) bool {
	if c.Expires <= 0 || c.Expires == ExpiresNever {
		return false
	}
	return time.Unix(c.Expires, 0).Before(now)
}

// MatchesHost reports whether the cookie applies to the given request
// host: exact match, or suffix match for a leading-dot domain.
func (c Cookie) MatchesHost(host string) bool {
	if c.Domain == "" {
		return true
	}
	if strings.HasPrefix(c.Domain, ".") {
		return host == c.Domain[1:] || strings.HasSuffix(host, c.Domain)
	}
	return host == c.Domain
}

// MatchesPath reports whether the cookie's path is a prefix of the
// request path.
func (c Cookie) MatchesPath(path string) bool {
	if c.Path == "" || c.Path == "/" {
		return true
	}
	if path == "" {
		path = "/"
	}
	return strings.HasPrefix(path, c.Path)
}

// Session is the persisted authentication state produced by the
// external browser-login collaborator. Within one command invocation
// it is read-only.
type Session struct {
	// SavedAt is when the login collaborator captured the session.
	SavedAt time.Time `json:"savedAt"`

	// UserAgent optionally pins the browser UA the cookies were
	// issued to. Empty means "use the configured default".
	UserAgent string `json:"userAgent,omitempty"`

	Cookies []Cookie `json:"cookies"`

	// RawHeader is the legacy persisted form: a complete Cookie
	// header string captured verbatim. When set it is sent as-is
	// instead of being recomputed from Cookies, preserving exact
	// legacy behavior.
	RawHeader string `json:"-"`
}

// HasCredentials reports whether the session carries anything usable
// for authentication.
func (s *Session) HasCredentials() bool {
	if s == nil {
		return false
	}
	return s.RawHeader != "" || len(s.Cookies) > 0
}
