package feed

// previewSlots bounds the media shown inline on a feed item; the rest is
// disclosed on demand.
const previewSlots = 3

// Media is the preview/overflow split of a review's attachments.
type Media struct {
	TopVideos           []string `json:"top_videos"`
	TopImages           []string `json:"top_images"`
	TruncatedVideos     []string `json:"truncated_videos"`
	TruncatedImages     []string `json:"truncated_images"`
	TotalMedia          int      `json:"total_media"`
	TotalTruncatedMedia int      `json:"total_truncated_media"`
}

// SplitMedia fills up to previewSlots preview items, videos first, then
// images for whatever slots remain. The truncated slices are the exact
// complements: nothing is duplicated or dropped.
func SplitMedia(images, videos []string) Media {
	nVideos := len(videos)
	if nVideos > previewSlots {
		nVideos = previewSlots
	}
	nImages := previewSlots - nVideos
	if nImages > len(images) {
		nImages = len(images)
	}

	m := Media{
		TopVideos:       videos[:nVideos],
		TopImages:       images[:nImages],
		TruncatedVideos: videos[nVideos:],
		TruncatedImages: images[nImages:],
		TotalMedia:      len(images) + len(videos),
	}
	m.TotalTruncatedMedia = len(m.TruncatedImages) + len(m.TruncatedVideos)
	return m
}
