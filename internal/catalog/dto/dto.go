// Package dto holds the raw upstream payload shapes for every API
// generation the catalog normalizer understands.
//
// These types are deliberately dumb: optional pointers, permissive
// field sets, no behavior beyond small accessors. Deciding which
// shape actually matched, and failing loudly when none does, is the
// parser's job (see the parent catalog package).
package dto

import (
	"encoding/json"
	"fmt"
)

// ID is an upstream identifier. The API has returned ids as JSON
// numbers in some generations and strings in others, so ID accepts
// both and normalizes to a string.
type ID string

// UnmarshalJSON parses an id from either a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty id")
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id is neither string nor number: %s", data)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// Archive is the nested video location used when a lesson has no
// direct video_url: archive.url.hls.
type Archive struct {
	URL *ArchiveURL `json:"url"`
}

// ArchiveURL holds the per-protocol stream URLs of an archive.
type ArchiveURL struct {
	HLS string `json:"hls"`
}

// HLSURL returns the archive's HLS URL, or "" when any level of the
// nesting is absent.
func (a *Archive) HLSURL() string {
	if a == nil || a.URL == nil {
		return ""
	}
	return a.URL.HLS
}

// Part is one entry of a lesson's multi-part video structure. The
// field name the parts live under varies by generation; the entry
// shape does not.
type Part struct {
	Title         string   `json:"title"`
	VideoURL      string   `json:"video_url"`
	Archive       *Archive `json:"archive"`
	ReferenceURLs []string `json:"reference_urls"`
}

// ResolveVideoURL returns the part's stream URL from whichever field
// carries it.
func (p *Part) ResolveVideoURL() string {
	if p.VideoURL != "" {
		return p.VideoURL
	}
	return p.Archive.HLSURL()
}

// LessonBody is the lesson resource itself, shared by the legacy
// {"data": {...}} and current {"lesson": {...}} envelopes; the two
// generations renamed the envelope, not the fields.
type LessonBody struct {
	ID            ID       `json:"id"`
	Title         string   `json:"title"`
	VideoURL      string   `json:"video_url"`
	Archive       *Archive `json:"archive"`
	ReferenceURLs []string `json:"reference_urls"`

	// Multi-part containers, tried in this priority order.
	VideoParts []Part `json:"video_parts"`
	Parts      []Part `json:"parts"`
	Videos     []Part `json:"videos"`
}

// ResolveVideoURL returns the lesson-level stream URL, preferring the
// direct video_url over the archive nesting.
func (b *LessonBody) ResolveVideoURL() string {
	if b.VideoURL != "" {
		return b.VideoURL
	}
	return b.Archive.HLSURL()
}

// PartCandidates returns the multi-part containers in priority order.
func (b *LessonBody) PartCandidates() [][]Part {
	return [][]Part{b.VideoParts, b.Parts, b.Videos}
}
