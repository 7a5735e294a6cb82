package catalog

import (
	"errors"
	"testing"

	"github.com/naokawa/campus-dl/internal/model"
)

func TestParseCourse_LegacyShape(t *testing.T) {
	raw := []byte(`{
		"data": {
			"id": 8540,
			"title": "Intro to Statistics",
			"image_url": "https://cdn.campus.jp/posters/8540.png",
			"chapters": [
				{"id": 2, "title": "Week Two", "sort_order": 2},
				{"id": 1, "title": "Week One", "sort_order": 1}
			]
		}
	}`)

	course, err := ParseCourse(raw)
	if err != nil {
		t.Fatalf("ParseCourse failed: %v", err)
	}
	if course.ID != "8540" {
		t.Errorf("ID = %q, want 8540 (numeric id must normalize)", course.ID)
	}
	if course.PosterURL != "https://cdn.campus.jp/posters/8540.png" {
		t.Errorf("PosterURL = %q", course.PosterURL)
	}
	if len(course.Chapters) != 2 {
		t.Fatalf("chapter count = %d, want 2", len(course.Chapters))
	}
	// Parsing keeps payload order; sorting happens at resolution.
	if course.Chapters[0].ID != "2" || *course.Chapters[0].Order != 2 {
		t.Errorf("Chapters[0] = %+v", course.Chapters[0])
	}
}

func TestParseCourse_CurrentShape(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{
			name: "chapters beside course body",
			raw: `{
				"course": {"id": "8540", "title": "Intro", "poster_url": "https://cdn.campus.jp/p.png"},
				"chapters": [{"id": "c1", "title": "One", "order": 1}]
			}`,
		},
		{
			name: "chapters inside course body",
			raw: `{
				"course": {
					"id": "8540", "title": "Intro", "poster_url": "https://cdn.campus.jp/p.png",
					"chapters": [{"id": "c1", "title": "One", "order": 1}]
				}
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			course, err := ParseCourse([]byte(tt.raw))
			if err != nil {
				t.Fatalf("ParseCourse failed: %v", err)
			}
			if course.ID != "8540" || course.Title != "Intro" {
				t.Errorf("course = %+v", course)
			}
			if len(course.Chapters) != 1 || course.Chapters[0].ID != "c1" {
				t.Errorf("chapters = %+v", course.Chapters)
			}
		})
	}
}

func TestParseCourse_Unrecognized(t *testing.T) {
	for _, raw := range []string{
		`{}`,
		`{"data": {}}`,
		`{"album": {"id": 1}}`,
		`not json`,
	} {
		_, err := ParseCourse([]byte(raw))
		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			t.Errorf("ParseCourse(%q) error = %v, want *SchemaError", raw, err)
		}
	}
}

func TestParseChapter_Discriminators(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantKinds []model.SectionKind
	}{
		{
			name: "legacy section_type",
			raw: `{
				"data": {
					"id": 10, "title": "Week One",
					"sections": [
						{"id": 100, "title": "Lecture", "section_type": "lesson"},
						{"id": 101, "title": "Film", "section_type": "movie"},
						{"id": 102, "title": "Quiz", "section_type": "quiz"}
					]
				}
			}`,
			wantKinds: []model.SectionKind{model.KindLesson, model.KindMovie, model.KindOther},
		},
		{
			name: "current resource_type",
			raw: `{
				"chapter": {"id": "10", "title": "Week One"},
				"sections": [
					{"id": "100", "title": "Lecture", "resource_type": "lesson"},
					{"id": "101", "title": "Survey", "resource_type": "survey"}
				]
			}`,
			wantKinds: []model.SectionKind{model.KindLesson, model.KindOther},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chapter, sections, err := ParseChapter([]byte(tt.raw))
			if err != nil {
				t.Fatalf("ParseChapter failed: %v", err)
			}
			if chapter.ID != "10" {
				t.Errorf("chapter.ID = %q", chapter.ID)
			}
			if len(sections) != len(tt.wantKinds) {
				t.Fatalf("section count = %d, want %d", len(sections), len(tt.wantKinds))
			}
			for i, kind := range tt.wantKinds {
				if sections[i].Kind != kind {
					t.Errorf("sections[%d].Kind = %v, want %v", i, sections[i].Kind, kind)
				}
			}
		})
	}
}

func TestParseLesson_SinglePart(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantURL string
	}{
		{
			name:    "legacy direct video_url",
			raw:     `{"data": {"id": 77012, "title": "Lecture", "video_url": "https://vod.campus.jp/77012.m3u8"}}`,
			wantURL: "https://vod.campus.jp/77012.m3u8",
		},
		{
			name:    "current archive nesting",
			raw:     `{"lesson": {"id": "77012", "title": "Lecture", "archive": {"url": {"hls": "https://vod.campus.jp/a.m3u8"}}}}`,
			wantURL: "https://vod.campus.jp/a.m3u8",
		},
		{
			name:    "direct url wins over archive",
			raw:     `{"lesson": {"id": "77012", "title": "Lecture", "video_url": "https://vod.campus.jp/direct.m3u8", "archive": {"url": {"hls": "https://vod.campus.jp/a.m3u8"}}}}`,
			wantURL: "https://vod.campus.jp/direct.m3u8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			media, err := ParseLesson([]byte(tt.raw))
			if err != nil {
				t.Fatalf("ParseLesson failed: %v", err)
			}
			if media.VideoURL != tt.wantURL {
				t.Errorf("VideoURL = %q, want %q", media.VideoURL, tt.wantURL)
			}
			// Single-part content still mirrors into Items.
			if len(media.Items) != 1 || media.Items[0].Index != 1 || media.Items[0].VideoURL != tt.wantURL {
				t.Errorf("Items = %+v", media.Items)
			}
		})
	}
}

func TestParseLesson_MultiPartPriority(t *testing.T) {
	// Both video_parts and parts are present; video_parts is higher
	// priority and must win.
	raw := []byte(`{
		"data": {
			"id": 1, "title": "Long Lecture",
			"reference_urls": ["https://campus.jp/slides"],
			"video_parts": [
				{"title": "Part A", "video_url": "https://vod.campus.jp/a.m3u8"},
				{"title": "Part B", "archive": {"url": {"hls": "https://vod.campus.jp/b.m3u8"}}}
			],
			"parts": [
				{"title": "Stale", "video_url": "https://vod.campus.jp/stale.m3u8"}
			]
		}
	}`)

	media, err := ParseLesson(raw)
	if err != nil {
		t.Fatalf("ParseLesson failed: %v", err)
	}
	if len(media.Items) != 2 {
		t.Fatalf("item count = %d, want 2", len(media.Items))
	}
	if media.VideoURL != "https://vod.campus.jp/a.m3u8" {
		t.Errorf("primary URL = %q, want the first part's", media.VideoURL)
	}
	if media.Items[1].Index != 2 || media.Items[1].VideoURL != "https://vod.campus.jp/b.m3u8" {
		t.Errorf("Items[1] = %+v", media.Items[1])
	}
	// Parts without their own references inherit the lesson's.
	if len(media.Items[0].ReferencePages) != 1 || media.Items[0].ReferencePages[0] != "https://campus.jp/slides" {
		t.Errorf("Items[0].ReferencePages = %v", media.Items[0].ReferencePages)
	}
}

func TestParseLesson_EmptyPartsFallThrough(t *testing.T) {
	// video_parts exists but none of its entries resolve to a URL; the
	// next container in priority order must be tried.
	raw := []byte(`{
		"data": {
			"id": 1, "title": "Lecture",
			"video_parts": [{"title": "broken"}],
			"parts": [{"title": "good", "video_url": "https://vod.campus.jp/good.m3u8"}]
		}
	}`)

	media, err := ParseLesson(raw)
	if err != nil {
		t.Fatalf("ParseLesson failed: %v", err)
	}
	if len(media.Items) != 1 || media.Items[0].VideoURL != "https://vod.campus.jp/good.m3u8" {
		t.Errorf("Items = %+v", media.Items)
	}
}

func TestParseLesson_NoUsableURL(t *testing.T) {
	raw := []byte(`{"data": {"id": 1, "title": "Lecture", "archive": {"url": {}}}}`)

	_, err := ParseLesson(raw)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error = %v, want *SchemaError", err)
	}
}

func TestParseMovie(t *testing.T) {
	raw := []byte(`{
		"movie": {
			"id": "m42", "title": "Documentary",
			"videos": [
				{"files": {"hls": {"url": "https://vod.campus.jp/m42.m3u8"}}},
				{"files": {"hls": {"url": "https://vod.campus.jp/ignored.m3u8"}}}
			],
			"references": [
				{"title": "Handout", "content_urls": ["https://campus.jp/h1", "https://campus.jp/h2"]},
				{"title": "Extras", "content_urls": ["https://campus.jp/h3"]}
			]
		}
	}`)

	media, err := ParseMovie(raw)
	if err != nil {
		t.Fatalf("ParseMovie failed: %v", err)
	}
	if media.VideoURL != "https://vod.campus.jp/m42.m3u8" {
		t.Errorf("VideoURL = %q, want the first rendition", media.VideoURL)
	}
	want := []string{"https://campus.jp/h1", "https://campus.jp/h2", "https://campus.jp/h3"}
	if len(media.ReferencePages) != len(want) {
		t.Fatalf("ReferencePages = %v, want %v", media.ReferencePages, want)
	}
	for i := range want {
		if media.ReferencePages[i] != want[i] {
			t.Errorf("ReferencePages[%d] = %q, want %q", i, media.ReferencePages[i], want[i])
		}
	}
}

func TestParseMovie_DataEnvelope(t *testing.T) {
	raw := []byte(`{"data": {"id": 42, "title": "Documentary", "videos": [{"files": {"hls": {"url": "https://vod.campus.jp/m.m3u8"}}}]}}`)

	media, err := ParseMovie(raw)
	if err != nil {
		t.Fatalf("ParseMovie failed: %v", err)
	}
	if media.ID != "42" || media.VideoURL != "https://vod.campus.jp/m.m3u8" {
		t.Errorf("media = %+v", media)
	}
}

func TestParseMovie_NoStream(t *testing.T) {
	for _, raw := range []string{
		`{"movie": {"id": "m1", "title": "Empty"}}`,
		`{"movie": {"id": "m1", "videos": [{"files": {}}]}}`,
		`{}`,
	} {
		_, err := ParseMovie([]byte(raw))
		var schemaErr *SchemaError
		if !errors.As(err, &schemaErr) {
			t.Errorf("ParseMovie(%q) error = %v, want *SchemaError", raw, err)
		}
	}
}
