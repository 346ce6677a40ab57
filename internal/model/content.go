package model

import "fmt"

// ContentKind distinguishes article URLs from uploaded screenshots
type ContentKind string

const (
	ContentURL   ContentKind = "url"
	ContentImage ContentKind = "image"
)

// ContentRef is what the user submits for analysis
type ContentRef struct {
	Kind   ContentKind `json:"kind"`
	URL    string      `json:"url,omitempty"`
	Handle string      `json:"handle,omitempty"` // opaque image handle (a local path for file-backed handles)
}

// URLRef builds a reference to an article URL
func URLRef(u string) ContentRef {
	return ContentRef{Kind: ContentURL, URL: u}
}

// ImageRef builds a reference to an uploaded image
func ImageRef(handle string) ContentRef {
	return ContentRef{Kind: ContentImage, Handle: handle}
}

func (r ContentRef) String() string {
	switch r.Kind {
	case ContentURL:
		return r.URL
	case ContentImage:
		return "image:" + r.Handle
	default:
		return fmt.Sprintf("%s:%s%s", r.Kind, r.URL, r.Handle)
	}
}
