package model

import (
	"testing"
	"time"
)

func TestSectionKind_Downloadable(t *testing.T) {
	tests := []struct {
		kind SectionKind
		want bool
	}{
		{KindLesson, true},
		{KindMovie, true},
		{KindOther, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.Downloadable(); got != tt.want {
				t.Errorf("Downloadable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCookie_Expired(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		expires int64
		want    bool
	}{
		{"past expiry", now.Add(-time.Hour).Unix(), true},
		{"future expiry", now.Add(time.Hour).Unix(), false},
		{"never", ExpiresNever, false},
		{"zero means never recorded", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Cookie{Name: "sid", Value: "x", Expires: tt.expires}
			if got := c.Expired(now); got != tt.want {
				t.Errorf("Expired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCookie_MatchesHost(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		host   string
		want   bool
	}{
		{"exact", "api.example.jp", "api.example.jp", true},
		{"exact mismatch", "api.example.jp", "www.example.jp", false},
		{"dot domain matches subdomain", ".example.jp", "api.example.jp", true},
		{"dot domain matches bare host", ".example.jp", "example.jp", true},
		{"dot domain rejects sibling", ".example.jp", "example.com", false},
		{"empty domain matches everything", "", "anything.test", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Cookie{Name: "sid", Domain: tt.domain}
			if got := c.MatchesHost(tt.host); got != tt.want {
				t.Errorf("MatchesHost(%q) = %v, want %v", tt.host, got, tt.want)
			}
		})
	}
}

func TestCookie_MatchesPath(t *testing.T) {
	tests := []struct {
		cookiePath string
		reqPath    string
		want       bool
	}{
		{"/", "/api/v2/courses", true},
		{"", "/anything", true},
		{"/api", "/api/v2/courses", true},
		{"/api", "/other", false},
		{"/api", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.cookiePath+"_"+tt.reqPath, func(t *testing.T) {
			c := Cookie{Name: "sid", Path: tt.cookiePath}
			if got := c.MatchesPath(tt.reqPath); got != tt.want {
				t.Errorf("MatchesPath(%q) = %v, want %v", tt.reqPath, got, tt.want)
			}
		})
	}
}

func TestLayout_Paths(t *testing.T) {
	l := NewLayout("/videos", "8540", 12, ".ts")

	if got, want := l.CourseDir(), "/videos/course-8540"; got != want {
		t.Errorf("CourseDir() = %q, want %q", got, want)
	}
	if got, want := l.ChapterDir(3), "/videos/course-8540/03"; got != want {
		t.Errorf("ChapterDir(3) = %q, want %q", got, want)
	}
	if got, want := l.LessonDir(3, 1), "/videos/course-8540/03/01"; got != want {
		t.Errorf("LessonDir(3, 1) = %q, want %q", got, want)
	}
	if got, want := l.ItemPath(3, 1, "77012", 1), "/videos/course-8540/03/01/lesson-77012.ts"; got != want {
		t.Errorf("ItemPath part 1 = %q, want %q", got, want)
	}
	if got, want := l.ItemPath(3, 1, "77012", 2), "/videos/course-8540/03/01/lesson-77012_part-2.ts"; got != want {
		t.Errorf("ItemPath part 2 = %q, want %q", got, want)
	}
}

func TestNewLayout_ChapterWidth(t *testing.T) {
	tests := []struct {
		totalChapters int
		want          int
	}{
		{1, 2},
		{9, 2},
		{42, 2},
		{100, 3},
		{1234, 4},
	}

	for _, tt := range tests {
		l := NewLayout("/videos", "1", tt.totalChapters, ".ts")
		if l.ChapterWidth != tt.want {
			t.Errorf("NewLayout(total=%d).ChapterWidth = %d, want %d", tt.totalChapters, l.ChapterWidth, tt.want)
		}
	}
}

func TestResolvedLecture_MultiPart(t *testing.T) {
	single := &ResolvedLecture{Items: []VideoItem{{Index: 1}}}
	if single.MultiPart() {
		t.Error("single-item lecture should not be multi-part")
	}

	multi := &ResolvedLecture{Items: []VideoItem{{Index: 1}, {Index: 2}}}
	if !multi.MultiPart() {
		t.Error("two-item lecture should be multi-part")
	}
}
