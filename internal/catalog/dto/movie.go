package dto

// Movie sections use their own payload shape, unrelated to lessons:
// the stream URL is buried under videos[0].files.hls.url and reference
// material is grouped with per-group content_urls lists.

// MoviePayload is the movie response. The body arrives under "data"
// or "movie" depending on generation.
type MoviePayload struct {
	Data  *MovieBody `json:"data"`
	Movie *MovieBody `json:"movie"`
}

// Body returns whichever envelope field is populated.
func (p *MoviePayload) Body() *MovieBody {
	if p.Movie != nil {
		return p.Movie
	}
	return p.Data
}

// MovieBody is the movie resource itself.
type MovieBody struct {
	ID         ID               `json:"id"`
	Title      string           `json:"title"`
	Videos     []MovieVideo     `json:"videos"`
	References []MovieReference `json:"references"`
}

// MovieReference is one group of reference material attached to a
// movie.
type MovieReference struct {
	Title       string   `json:"title"`
	ContentURLs []string `json:"content_urls"`
}

// MovieVideo is one encoded rendition of the movie.
type MovieVideo struct {
	Files *MovieFiles `json:"files"`
}

// MovieFiles groups the per-protocol file entries of a rendition.
type MovieFiles struct {
	HLS *MovieHLS `json:"hls"`
}

// MovieHLS is the HLS entry of a rendition.
type MovieHLS struct {
	URL string `json:"url"`
}

// HLSURL returns the stream URL of the first rendition, or "" when
// the nesting is incomplete.
func (b *MovieBody) HLSURL() string {
	if b == nil || len(b.Videos) == 0 {
		return ""
	}
	v := b.Videos[0]
	if v.Files == nil || v.Files.HLS == nil {
		return ""
	}
	return v.Files.HLS.URL
}

// ReferencePages flattens all reference groups into a single URL list,
// preserving group order.
func (b *MovieBody) ReferencePages() []string {
	var urls []string
	for _, ref := range b.References {
		urls = append(urls, ref.ContentURLs...)
	}
	return urls
}
