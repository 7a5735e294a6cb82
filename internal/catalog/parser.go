package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/naokawa/campus-dl/internal/catalog/dto"
	"github.com/naokawa/campus-dl/internal/model"
)

// SchemaError indicates an API payload that matched none of the known
// shapes, or matched one without yielding a usable video URL.
//
// A SchemaError is never retried: the payload arrived fine, the client
// just does not understand it. The Detail string names what was tried.
type SchemaError struct {
	Resource string
	Detail   string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("unrecognized %s payload: %s", e.Resource, e.Detail)
}

// Media is the normalized playable content of one section, lesson or
// movie alike.
//
// Items always holds at least one entry. Single-part content mirrors
// its URL into Items[0], so downstream code can iterate Items without
// caring whether the section was multi-part.
type Media struct {
	ID             string
	Title          string
	VideoURL       string
	ReferencePages []string
	Items          []model.VideoItem
}

// ParseCourse normalizes a course payload.
//
// The API has shipped two generations of this payload and does not
// version its responses, so the shapes are tried in order:
//
//  1. legacy: {"data": {"id", "title", "image_url", "chapters": [...]}}
//  2. current: {"course": {...}, "chapters": [...]} where the chapter
//     list sits beside or inside the course body
//
// The first shape that carries a course id wins. Chapter ordering
// hints (sort_order / order) are preserved as-is; sorting is the
// caller's concern.
func ParseCourse(raw []byte) (*model.Course, error) {
	var legacy dto.LegacyCourse
	if err := json.Unmarshal(raw, &legacy); err == nil && legacy.Data != nil && legacy.Data.ID != "" {
		course := &model.Course{
			ID:        legacy.Data.ID.String(),
			Title:     legacy.Data.Title,
			PosterURL: legacy.Data.ImageURL,
		}
		for _, ch := range legacy.Data.Chapters {
			course.Chapters = append(course.Chapters, model.Chapter{
				ID:    ch.ID.String(),
				Title: ch.Title,
				Order: ch.SortOrder,
			})
		}
		return course, nil
	}

	var current dto.CurrentCourse
	if err := json.Unmarshal(raw, &current); err == nil && current.Course != nil && current.Course.ID != "" {
		course := &model.Course{
			ID:        current.Course.ID.String(),
			Title:     current.Course.Title,
			PosterURL: current.Course.PosterURL,
		}
		chapters := current.Chapters
		if len(chapters) == 0 {
			chapters = current.Course.Chapters
		}
		for _, ch := range chapters {
			course.Chapters = append(course.Chapters, model.Chapter{
				ID:    ch.ID.String(),
				Title: ch.Title,
				Order: ch.Order,
			})
		}
		return course, nil
	}

	return nil, &SchemaError{Resource: "course", Detail: "neither data nor course envelope carried an id"}
}

// ParseChapter normalizes a chapter payload into the chapter itself
// and its ordered section list. The same legacy-then-current
// disjunction as ParseCourse applies.
func ParseChapter(raw []byte) (model.Chapter, []model.Section, error) {
	var legacy dto.LegacyChapterDetail
	if err := json.Unmarshal(raw, &legacy); err == nil && legacy.Data != nil && legacy.Data.ID != "" {
		chapter := model.Chapter{ID: legacy.Data.ID.String(), Title: legacy.Data.Title}
		var sections []model.Section
		for _, s := range legacy.Data.Sections {
			sections = append(sections, model.Section{
				ID:    s.ID.String(),
				Title: s.Title,
				Kind:  sectionKind(s.SectionType),
			})
		}
		return chapter, sections, nil
	}

	var current dto.CurrentChapterDetail
	if err := json.Unmarshal(raw, &current); err == nil && current.Chapter != nil && current.Chapter.ID != "" {
		chapter := model.Chapter{ID: current.Chapter.ID.String(), Title: current.Chapter.Title}
		raw := current.Sections
		if len(raw) == 0 {
			raw = current.Chapter.Sections
		}
		var sections []model.Section
		for _, s := range raw {
			sections = append(sections, model.Section{
				ID:    s.ID.String(),
				Title: s.Title,
				Kind:  sectionKind(s.ResourceType),
			})
		}
		return chapter, sections, nil
	}

	return model.Chapter{}, nil, &SchemaError{Resource: "chapter", Detail: "neither data nor chapter envelope carried an id"}
}

// sectionKind maps the upstream discriminator (section_type in the
// legacy shape, resource_type in the current one) to a SectionKind.
// Unknown values become KindOther and are skipped, not failed.
func sectionKind(t string) model.SectionKind {
	switch t {
	case "lesson":
		return model.KindLesson
	case "movie":
		return model.KindMovie
	default:
		return model.KindOther
	}
}

// ParseLesson normalizes a lesson payload.
//
// The envelope is tried legacy-first ({"data": {...}}, then
// {"lesson": {...}}); the body shape inside is identical. Within the
// body:
//
//   - Multi-part containers are tried in fixed priority order
//     (video_parts, parts, videos). The first container holding at
//     least one part with a resolvable URL makes the lesson
//     multi-part; its first part's URL becomes the lesson's primary
//     URL. Parts without their own reference list inherit the
//     lesson-level one.
//   - Otherwise the lesson-level URL is used: video_url directly, or
//     archive.url.hls.
//
// A payload that matches an envelope but yields no usable video URL
// is a SchemaError, same as one matching no envelope at all.
func ParseLesson(raw []byte) (*Media, error) {
	var legacy dto.LegacyLesson
	if err := json.Unmarshal(raw, &legacy); err == nil && legacy.Data != nil && legacy.Data.ID != "" {
		return normalizeLesson(legacy.Data)
	}

	var current dto.CurrentLesson
	if err := json.Unmarshal(raw, &current); err == nil && current.Lesson != nil && current.Lesson.ID != "" {
		return normalizeLesson(current.Lesson)
	}

	return nil, &SchemaError{Resource: "lesson", Detail: "neither data nor lesson envelope carried an id"}
}

func normalizeLesson(body *dto.LessonBody) (*Media, error) {
	media := &Media{
		ID:             body.ID.String(),
		Title:          body.Title,
		ReferencePages: body.ReferenceURLs,
	}

	for _, parts := range body.PartCandidates() {
		items := collectParts(parts, body.ReferenceURLs)
		if len(items) > 0 {
			media.Items = items
			media.VideoURL = items[0].VideoURL
			return media, nil
		}
	}

	url := body.ResolveVideoURL()
	if url == "" {
		return nil, &SchemaError{Resource: "lesson", Detail: fmt.Sprintf("lesson %s has no video_url, archive.url.hls, or usable parts", body.ID)}
	}
	media.VideoURL = url
	media.Items = []model.VideoItem{{
		Index:          1,
		Title:          body.Title,
		VideoURL:       url,
		ReferencePages: body.ReferenceURLs,
	}}
	return media, nil
}

// collectParts keeps the parts with a resolvable URL, numbering them
// 1-based in source order.
func collectParts(parts []dto.Part, fallbackRefs []string) []model.VideoItem {
	var items []model.VideoItem
	for _, p := range parts {
		url := p.ResolveVideoURL()
		if url == "" {
			continue
		}
		refs := p.ReferenceURLs
		if refs == nil {
			refs = fallbackRefs
		}
		items = append(items, model.VideoItem{
			Index:          len(items) + 1,
			Title:          p.Title,
			VideoURL:       url,
			ReferencePages: refs,
		})
	}
	return items
}

// ParseMovie normalizes a movie payload: stream URL from
// videos[0].files.hls.url, reference pages flattened from every
// references[*].content_urls group.
func ParseMovie(raw []byte) (*Media, error) {
	var payload dto.MoviePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &SchemaError{Resource: "movie", Detail: err.Error()}
	}
	body := payload.Body()
	if body == nil {
		return nil, &SchemaError{Resource: "movie", Detail: "neither data nor movie envelope present"}
	}
	url := body.HLSURL()
	if url == "" {
		return nil, &SchemaError{Resource: "movie", Detail: fmt.Sprintf("movie %s has no videos[0].files.hls.url", body.ID)}
	}

	refs := body.ReferencePages()
	return &Media{
		ID:             body.ID.String(),
		Title:          body.Title,
		VideoURL:       url,
		ReferencePages: refs,
		Items: []model.VideoItem{{
			Index:          1,
			Title:          body.Title,
			VideoURL:       url,
			ReferencePages: refs,
		}},
	}, nil
}
