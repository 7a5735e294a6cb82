package session

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/naokawa/campus-dl/internal/model"
)

// LegacyCookieDomain scopes cookies loaded from the legacy session
// format, which stored a raw header string and never captured cookie
// attributes.
const LegacyCookieDomain = ".campus.jp"

// ParseError indicates a session file that exists but cannot be
// decoded. A missing file is not a ParseError; Load returns nil for
// that, so "no session" and "broken session" stay distinguishable.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse session file %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Store loads and saves the persisted authentication state.
//
// Two on-disk shapes are accepted:
//
//	current: {"savedAt": ..., "userAgent": ..., "cookies": [{...}, ...]}
//	legacy:  {"cookies": "name=value; name2=value2", "createdAt": ...}
//
// Both normalize to model.Session. Save always writes the current
// shape.
type Store struct {
	path string
}

// NewStore creates a Store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// sessionFile is the union of both persisted shapes. Cookies is kept
// raw because it is an array in the current format and a string in
// the legacy one.
type sessionFile struct {
	SavedAt   *time.Time      `json:"savedAt"`
	CreatedAt *time.Time      `json:"createdAt"`
	UserAgent string          `json:"userAgent"`
	Cookies   json.RawMessage `json:"cookies"`
}

// Load reads the session file. It returns (nil, nil) when the file
// does not exist and a *ParseError when it exists but is malformed.
func (s *Store) Load() (*model.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var file sessionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, &ParseError{Path: s.path, Err: err}
	}

	sess := &model.Session{UserAgent: file.UserAgent}
	switch {
	case file.SavedAt != nil:
		sess.SavedAt = *file.SavedAt
	case file.CreatedAt != nil:
		sess.SavedAt = *file.CreatedAt
	}

	if len(file.Cookies) == 0 {
		return sess, nil
	}

	// Current shape: cookies is an array of objects.
	if file.Cookies[0] == '[' {
		if err := json.Unmarshal(file.Cookies, &sess.Cookies); err != nil {
			return nil, &ParseError{Path: s.path, Err: err}
		}
		return sess, nil
	}

	// Legacy shape: cookies is a raw Cookie header string.
	var raw string
	if err := json.Unmarshal(file.Cookies, &raw); err != nil {
		return nil, &ParseError{Path: s.path, Err: err}
	}
	sess.RawHeader = raw
	sess.Cookies = parseLegacyHeader(raw)
	return sess, nil
}

// parseLegacyHeader splits a raw Cookie header into synthetic cookies
// scoped to the default domain. Pairs without a name are dropped.
func parseLegacyHeader(raw string) []model.Cookie {
	var cookies []model.Cookie
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		name, value, _ := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		cookies = append(cookies, model.Cookie{
			Name:    name,
			Value:   strings.TrimSpace(value),
			Domain:  LegacyCookieDomain,
			Path:    "/",
			Expires: model.ExpiresNever,
		})
	}
	return cookies
}

// Save writes the session in the current shape, creating parent
// directories as needed.
func (s *Store) Save(sess *model.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	out := struct {
		SavedAt   time.Time      `json:"savedAt"`
		UserAgent string         `json:"userAgent,omitempty"`
		Cookies   []model.Cookie `json:"cookies"`
	}{
		SavedAt:   sess.SavedAt,
		UserAgent: sess.UserAgent,
		Cookies:   sess.Cookies,
	}
	if out.SavedAt.IsZero() {
		out.SavedAt = time.Now()
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}

// BuildCookieHeader computes the Cookie header value for a request to
// targetURL: cookies whose domain matches the target host, whose path
// prefixes the target path, and whose expiry is in the future, joined
// as "name=value" pairs. Duplicate names collapse to the last-seen
// value.
//
// A session loaded from the legacy format returns its raw header
// verbatim, preserving exactly what the old client sent.
func BuildCookieHeader(sess *model.Session, targetURL string) (string, error) {
	return buildCookieHeaderAt(sess, targetURL, time.Now())
}

func buildCookieHeaderAt(sess *model.Session, targetURL string, now time.Time) (string, error) {
	if sess == nil {
		return "", nil
	}
	if sess.RawHeader != "" {
		return sess.RawHeader, nil
	}

	u, err := url.Parse(targetURL)
	if err != nil {
		return "", fmt.Errorf("parse target url %s: %w", targetURL, err)
	}

	// Scan in original order so later, more specific entries win the
	// name collision; position of the first occurrence is kept for a
	// stable header.
	var names []string
	values := make(map[string]string)
	for _, c := range sess.Cookies {
		if c.Name == "" {
			continue
		}
		if !c.MatchesHost(u.Hostname()) || !c.MatchesPath(u.Path) || c.Expired(now) {
			continue
		}
		if _, seen := values[c.Name]; !seen {
			names = append(names, c.Name)
		}
		values[c.Name] = c.Value
	}

	pairs := make([]string, 0, len(names))
	for _, name := range names {
		pairs = append(pairs, name+"="+values[name])
	}
	return strings.Join(pairs, "; "), nil
}
