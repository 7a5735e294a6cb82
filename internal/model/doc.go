// Package model defines the core data structures used throughout
// campus-dl.
//
// # Catalog
//
// Course, Chapter and Section are the normalized catalog resources.
// The upstream API has shipped several incompatible response shapes
// over the years; the catalog package maps all of them onto these
// types, so nothing outside the normalizer ever sees a raw payload.
//
// # Resolution output
//
// ResolvedLecture is the unit the downloader consumes: a lesson or
// movie resolved to one or more VideoItems, each with a concrete
// streamable URL. CourseStructure bundles the resolved lessons for a
// course together with the skipped ones:
//
//	structure.Lessons  // every lecture here has a non-empty VideoURL
//	structure.Skipped  // resolution failures, with reasons
//
// # Session
//
// Session is the persisted authentication state captured by the
// external login collaborator. Cookie carries enough attributes to
// compute a correct Cookie header per target URL (see the session
// package).
//
// # Layout
//
// Layout computes the deterministic download tree:
//
//	l := model.NewLayout("/videos", "8540", 12, ".ts")
//	l.ItemPath(3, 1, "77012", 1) // /videos/course-8540/03/01/lesson-77012.ts
package model
