// Package session persists authentication state and computes Cookie
// headers for upstream requests.
//
// The session file is produced by the external browser-login
// collaborator; this package only reads, normalizes, and re-saves it.
// Within one command invocation the session is read-only.
//
// # Basic Usage
//
//	store := session.NewStore("~/.campus-dl/session.json")
//
//	sess, err := store.Load() // nil, nil when no session exists
//	if err != nil { ... }
//
//	header, err := session.BuildCookieHeader(sess, apiURL)
//	req.Header.Set("Cookie", header)
//
// # Legacy sessions
//
// Older clients persisted a single raw Cookie header string with no
// cookie attributes. Those sessions still load: the header is kept
// verbatim and returned as-is by BuildCookieHeader, and synthetic
// per-pair cookies scoped to LegacyCookieDomain are derived for any
// caller that inspects them.
package session
