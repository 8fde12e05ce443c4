package model

// Source identifies where a video URL resolution was served from.
type Source string

const (
	SourceCache      Source = "cache"
	SourceBulkTable  Source = "bulk-table"
	SourceSingleFile Source = "single-file"
	SourceNotFound   Source = "not-found"
)

func (s Source) String() string {
	return string(s)
}

// VideoMapping is a single entry of the bulk videos.json document.
type VideoMapping struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	VideoURL string `json:"video_url"`
}

// VideoMappingTable maps string-encoded product IDs to their video metadata.
type VideoMappingTable map[string]VideoMapping

// Resolution is the outcome of resolving a product's video URL.
// URL is empty when the product has no video. Cached reports whether the
// per-product cache key was hit; Source tells where the answer came from.
type Resolution struct {
	ProductID string
	URL       string
	Cached    bool
	Source    Source
}

// HasURL reports whether the resolution produced an embeddable URL.
func (r Resolution) HasURL() bool {
	return r.URL != ""
}
