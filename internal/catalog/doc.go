// Package catalog resolves the course catalog API into downloadable
// lectures.
//
// The package has two halves:
//
//  1. Normalizers (ParseCourse, ParseChapter, ParseLesson, ParseMovie)
//     that turn raw API payloads into model types, papering over the
//     two payload generations the unversioned API still serves
//  2. A Client that walks course -> chapters -> sections and resolves
//     each downloadable section into a stream URL, with bounded
//     concurrency and per-section failure isolation
//
// # Payload Generations
//
// The API does not version its responses. Every normalizer therefore
// tries the known shapes in a fixed order, legacy first:
//
//	legacy:  {"data": {"id": 1, "video_url": "...", ...}}    snake_case, data envelope
//	current: {"lesson": {"id": "1", "archive": {...}, ...}}  resource-named envelope
//
// A payload matching no shape, or matching one without a usable video
// URL, fails with a *SchemaError. Schema errors are terminal: the
// bytes arrived fine, retrying cannot help.
//
// # Resolution
//
//	client := catalog.NewClient(httpClient, sess, catalog.Endpoints{BaseURL: base}, logger)
//	structure, err := client.ResolveCourse(ctx, courseID, catalog.ResolveOptions{
//	    MaxConcurrency: 4,
//	})
//
// Sections resolve in fixed-size batches and the result keeps catalog
// order no matter which request finished first. Sections that fail to
// resolve end up in structure.Skipped with their reason; only a course
// with nothing downloadable at all is an error.
package catalog
