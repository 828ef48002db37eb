package models

import "encoding/json"

// GalleryImage is one entry of a character's image gallery.
type GalleryImage struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// Gallery is an ordered list of images. It is stored on the character row
// as serialized JSON text; everything above the repository layer works with
// the structured form.
type Gallery []GalleryImage

// ParseGallery decodes stored gallery text. The decode is total: nil input,
// empty input and malformed input all yield an empty gallery, never an
// error. A corrupted column must not take down a profile page.
func ParseGallery(raw *string) Gallery {
	if raw == nil || *raw == "" {
		return Gallery{}
	}
	var g Gallery
	if err := json.Unmarshal([]byte(*raw), &g); err != nil {
		return Gallery{}
	}
	if g == nil {
		return Gallery{}
	}
	return g
}

// Encode returns the serialized form for storage, or nil for an empty
// gallery so the column stays NULL.
func (g Gallery) Encode() *string {
	if len(g) == 0 {
		return nil
	}
	b, err := json.Marshal(g)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}
