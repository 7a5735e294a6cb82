package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/naokawa/campus-dl/internal/httpx"
	"github.com/naokawa/campus-dl/internal/model"
)

// testAPI is an in-process catalog API with one course of two
// chapters. Lesson l2 only exists on the legacy URL family and l3
// always fails, so resolution exercises the fallback and the skip
// path in one walk.
func testAPI(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v2/courses/8540", func(w http.ResponseWriter, r *http.Request) {
		// Chapters deliberately out of order.
		w.Write([]byte(`{
			"course": {"id": "8540", "title": "Statistics", "poster_url": "https://cdn.campus.jp/8540.png"},
			"chapters": [
				{"id": "c2", "title": "Week Two", "order": 2},
				{"id": "c1", "title": "Week One", "order": 1}
			]
		}`))
	})
	mux.HandleFunc("/v2/chapters/c1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"chapter": {"id": "c1", "title": "Week One"},
			"sections": [
				{"id": "l1", "title": "Lecture 1", "resource_type": "lesson"},
				{"id": "q1", "title": "Quiz", "resource_type": "quiz"},
				{"id": "m1", "title": "Film", "resource_type": "movie"}
			]
		}`))
	})
	mux.HandleFunc("/v2/chapters/c2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"chapter": {"id": "c2", "title": "Week Two"},
			"sections": [
				{"id": "l2", "title": "Lecture 2", "resource_type": "lesson"},
				{"id": "l3", "title": "Lecture 3", "resource_type": "lesson"}
			]
		}`))
	})
	mux.HandleFunc("/v2/lessons/l1", func(w http.ResponseWriter, r *http.Request) {
		// Slow on purpose: order must come from the catalog, not from
		// completion time.
		time.Sleep(20 * time.Millisecond)
		w.Write([]byte(`{"lesson": {"id": "l1", "title": "Lecture 1", "video_url": "https://vod.campus.jp/l1.m3u8"}}`))
	})
	mux.HandleFunc("/v2/lessons/l2", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("/v1/lessons/l2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {"id": 2, "title": "Lecture 2", "video_url": "https://vod.campus.jp/l2.m3u8"}}`))
	})
	mux.HandleFunc("/v2/lessons/l3", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "stream service down", http.StatusInternalServerError)
	})
	mux.HandleFunc("/v2/movies/m1", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"movie": {"id": "m1", "title": "Film", "videos": [{"files": {"hls": {"url": "https://vod.campus.jp/m1.m3u8"}}}]}}`))
	})
	mux.HandleFunc("/v2/me/courses", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [{"id": 8540, "title": "Statistics"}, {"id": 8600, "title": "Algebra"}]}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testClient(t *testing.T, srv *httptest.Server, sess *model.Session) *Client {
	t.Helper()
	policy := httpx.RetryPolicy{Retries: 1, MinDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}
	return NewClient(httpx.NewClient("test", policy), sess, Endpoints{BaseURL: srv.URL}, nil)
}

func TestClient_ResolveCourse(t *testing.T) {
	srv := testAPI(t)
	client := testClient(t, srv, nil)

	structure, err := client.ResolveCourse(context.Background(), "8540", ResolveOptions{MaxConcurrency: 4})
	if err != nil {
		t.Fatalf("ResolveCourse failed: %v", err)
	}

	if structure.CourseTitle != "Statistics" || structure.PosterURL == "" {
		t.Errorf("course meta = %q / %q", structure.CourseTitle, structure.PosterURL)
	}

	// Chapters sorted by order hint, not payload order.
	if len(structure.Chapters) != 2 || structure.Chapters[0].ID != "c1" || structure.Chapters[1].ID != "c2" {
		t.Errorf("chapters = %+v", structure.Chapters)
	}

	// Catalog order survives concurrent resolution: l1 is the slowest
	// request but still comes first. The quiz section is ignored, l3
	// lands in Skipped.
	wantLessons := []string{"l1", "m1", "l2"}
	if len(structure.Lessons) != len(wantLessons) {
		t.Fatalf("lesson count = %d, want %d (%+v)", len(structure.Lessons), len(wantLessons), structure.Lessons)
	}
	for i, id := range wantLessons {
		if structure.Lessons[i].LessonID != id {
			t.Errorf("Lessons[%d].LessonID = %q, want %q", i, structure.Lessons[i].LessonID, id)
		}
	}

	if len(structure.Skipped) != 1 || structure.Skipped[0].LessonID != "l3" {
		t.Fatalf("Skipped = %+v, want only l3", structure.Skipped)
	}
	if !strings.Contains(structure.Skipped[0].Reason, "500") {
		t.Errorf("skip reason = %q, want the upstream status", structure.Skipped[0].Reason)
	}

	// The legacy fallback lesson carries its normalized URL.
	if structure.Lessons[2].VideoURL != "https://vod.campus.jp/l2.m3u8" {
		t.Errorf("l2 VideoURL = %q", structure.Lessons[2].VideoURL)
	}
	if structure.Lessons[0].ChapterTitle != "Week One" {
		t.Errorf("l1 ChapterTitle = %q", structure.Lessons[0].ChapterTitle)
	}
}

func TestClient_ResolveCourse_ChapterFilter(t *testing.T) {
	srv := testAPI(t)
	client := testClient(t, srv, nil)

	structure, err := client.ResolveCourse(context.Background(), "8540", ResolveOptions{
		ChapterIDs:     []string{"c1"},
		MaxConcurrency: 2,
	})
	if err != nil {
		t.Fatalf("ResolveCourse failed: %v", err)
	}
	if len(structure.Lessons) != 2 {
		t.Fatalf("lesson count = %d, want 2 (c1 only)", len(structure.Lessons))
	}
	if len(structure.Skipped) != 0 {
		t.Errorf("Skipped = %+v, want none", structure.Skipped)
	}

	_, err = client.ResolveCourse(context.Background(), "8540", ResolveOptions{
		ChapterIDs: []string{"nope"},
	})
	if err == nil {
		t.Error("expected error when no chapter matches the filter")
	}
}

func TestClient_ResolveCourse_LimitLessons(t *testing.T) {
	srv := testAPI(t)
	client := testClient(t, srv, nil)

	structure, err := client.ResolveCourse(context.Background(), "8540", ResolveOptions{
		LimitLessons: 2,
		// Zero concurrency clamps to sequential rather than failing.
	})
	if err != nil {
		t.Fatalf("ResolveCourse failed: %v", err)
	}
	if len(structure.Lessons) != 2 {
		t.Fatalf("lesson count = %d, want 2", len(structure.Lessons))
	}
	if structure.Lessons[0].LessonID != "l1" || structure.Lessons[1].LessonID != "m1" {
		t.Errorf("lessons = %+v, want the first two in catalog order", structure.Lessons)
	}
}

func TestClient_ResolveFirstLecture(t *testing.T) {
	srv := testAPI(t)
	client := testClient(t, srv, nil)

	lecture, err := client.ResolveFirstLecture(context.Background(), "8540")
	if err != nil {
		t.Fatalf("ResolveFirstLecture failed: %v", err)
	}
	if lecture.LessonID != "l1" {
		t.Errorf("LessonID = %q, want l1 (first downloadable of the first chapter)", lecture.LessonID)
	}
	if lecture.CourseID != "8540" || lecture.ChapterID != "c1" {
		t.Errorf("lecture = %+v", lecture)
	}
}

func TestClient_SendsSessionCookies(t *testing.T) {
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		w.Write([]byte(`{"course": {"id": "1", "title": "T"}, "chapters": []}`))
	}))
	defer srv.Close()

	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	sess := &model.Session{
		Cookies: []model.Cookie{
			{Name: "sid", Value: "abc", Domain: u.Hostname(), Path: "/", Expires: model.ExpiresNever},
		},
	}
	client := testClient(t, srv, sess)

	if _, err := client.FetchCourse(context.Background(), "1"); err != nil {
		t.Fatalf("FetchCourse failed: %v", err)
	}
	if gotCookie != "sid=abc" {
		t.Errorf("Cookie = %q, want sid=abc", gotCookie)
	}
}

func TestClient_ListCourses(t *testing.T) {
	srv := testAPI(t)
	client := testClient(t, srv, nil)

	listings, err := client.ListCourses(context.Background())
	if err != nil {
		t.Fatalf("ListCourses failed: %v", err)
	}
	if len(listings) != 2 || listings[0].ID != "8540" || listings[1].Title != "Algebra" {
		t.Errorf("listings = %+v", listings)
	}
}
