package hls

import "testing"

func TestParse_MediaPlaylist(t *testing.T) {
	body := `#EXTM3U
#EXT-X-VERSION:3
#EXT-X-TARGETDURATION:10

#EXTINF:9.8,
seg-000.ts
#EXTINF:9.8,
seg-001.ts
#EXTINF:4.2,
https://other.cdn.campus.jp/seg-002.ts
#EXT-X-ENDLIST
`
	pl, err := Parse(body, "https://vod.campus.jp/courses/8540/media.m3u8")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if pl.IsMaster() {
		t.Error("media playlist misdetected as master")
	}
	if pl.Encrypted {
		t.Error("unencrypted playlist flagged encrypted")
	}

	want := []string{
		"https://vod.campus.jp/courses/8540/seg-000.ts",
		"https://vod.campus.jp/courses/8540/seg-001.ts",
		"https://other.cdn.campus.jp/seg-002.ts",
	}
	if len(pl.SegmentURLs) != len(want) {
		t.Fatalf("segments = %v", pl.SegmentURLs)
	}
	for i := range want {
		if pl.SegmentURLs[i] != want[i] {
			t.Errorf("SegmentURLs[%d] = %q, want %q", i, pl.SegmentURLs[i], want[i])
		}
	}
}

func TestParse_MasterPlaylist(t *testing.T) {
	body := `#EXTM3U
#EXT-X-STREAM-INF:BANDWIDTH=800000,RESOLUTION=640x360
low.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=1400000,RESOLUTION=842x480
mid.m3u8
#EXT-X-STREAM-INF:BANDWIDTH=2800000,RESOLUTION=1280x720
high.m3u8
`
	pl, err := Parse(body, "https://vod.campus.jp/master.m3u8")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !pl.IsMaster() {
		t.Fatal("master playlist not detected")
	}
	if len(pl.VariantURLs) != 3 {
		t.Fatalf("variants = %v", pl.VariantURLs)
	}
	if pl.VariantURLs[2] != "https://vod.campus.jp/high.m3u8" {
		t.Errorf("last variant = %q", pl.VariantURLs[2])
	}
	if len(pl.SegmentURLs) != 0 {
		t.Errorf("master playlist has segments: %v", pl.SegmentURLs)
	}
}

func TestParse_EncryptedFlag(t *testing.T) {
	body := `#EXTM3U
#EXT-X-KEY:METHOD=AES-128,URI="https://vod.campus.jp/key"
#EXTINF:9.8,
seg-000.ts
`
	pl, err := Parse(body, "https://vod.campus.jp/media.m3u8")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !pl.Encrypted {
		t.Error("key tag not detected")
	}
}

func TestParse_EmptyPlaylist(t *testing.T) {
	pl, err := Parse("#EXTM3U\n", "https://vod.campus.jp/media.m3u8")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if pl.IsMaster() || len(pl.SegmentURLs) != 0 {
		t.Errorf("playlist = %+v, want empty", pl)
	}
}
