package feed

import "testing"

func TestSplitMediaVideosFirst(t *testing.T) {
	images := []string{"i1", "i2", "i3", "i4", "i5"}
	videos := []string{"v1", "v2"}

	m := SplitMedia(images, videos)

	if len(m.TopVideos) != 2 {
		t.Fatalf("top videos = %d, want 2", len(m.TopVideos))
	}
	if len(m.TopImages) != 1 {
		t.Fatalf("top images = %d, want 1", len(m.TopImages))
	}
	if len(m.TruncatedImages) != 4 {
		t.Fatalf("truncated images = %d, want 4", len(m.TruncatedImages))
	}
	if len(m.TruncatedVideos) != 0 {
		t.Fatalf("truncated videos = %d, want 0", len(m.TruncatedVideos))
	}
	if m.TotalMedia != 7 {
		t.Fatalf("total media = %d, want 7", m.TotalMedia)
	}
	if m.TotalTruncatedMedia != 4 {
		t.Fatalf("total truncated = %d, want 4", m.TotalTruncatedMedia)
	}
}

func TestSplitMediaTable(t *testing.T) {
	tests := []struct {
		name                 string
		images, videos       int
		topVideos, topImages int
	}{
		{"empty", 0, 0, 0, 0},
		{"images only", 5, 0, 0, 3},
		{"videos fill all slots", 1, 4, 3, 0},
		{"one of each", 1, 1, 1, 1},
		{"short of budget", 1, 0, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := SplitMedia(seq("i", tt.images), seq("v", tt.videos))
			if len(m.TopVideos) != tt.topVideos || len(m.TopImages) != tt.topImages {
				t.Fatalf("top = %d videos/%d images, want %d/%d",
					len(m.TopVideos), len(m.TopImages), tt.topVideos, tt.topImages)
			}
			if len(m.TopVideos)+len(m.TopImages) > 3 {
				t.Fatal("preview exceeds 3 slots")
			}
			// Complements must be exact: nothing duplicated or dropped.
			if len(m.TopImages)+len(m.TruncatedImages) != tt.images {
				t.Fatal("image split is not a partition")
			}
			if len(m.TopVideos)+len(m.TruncatedVideos) != tt.videos {
				t.Fatal("video split is not a partition")
			}
			if m.TotalMedia != tt.images+tt.videos {
				t.Fatalf("total media = %d", m.TotalMedia)
			}
		})
	}
}

func seq(prefix string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = prefix
	}
	return out
}
