package models

import "testing"

func TestParseGalleryRoundTrip(t *testing.T) {
	original := Gallery{
		{URL: "https://img.example/one.png", Caption: "warmups"},
		{URL: "https://img.example/two.png"},
		{URL: "https://img.example/three.png", Caption: "game night"},
	}

	encoded := original.Encode()
	if encoded == nil {
		t.Fatal("expected encoded gallery, got nil")
	}

	decoded := ParseGallery(encoded)
	if len(decoded) != len(original) {
		t.Fatalf("expected %d images, got %d", len(original), len(decoded))
	}
	for i := range original {
		if decoded[i] != original[i] {
			t.Errorf("image %d: expected %+v, got %+v", i, original[i], decoded[i])
		}
	}
}

func TestParseGalleryNilAndEmpty(t *testing.T) {
	if got := ParseGallery(nil); len(got) != 0 {
		t.Errorf("nil input: expected empty gallery, got %d images", len(got))
	}

	empty := ""
	if got := ParseGallery(&empty); len(got) != 0 {
		t.Errorf("empty input: expected empty gallery, got %d images", len(got))
	}
}

func TestParseGalleryMalformed(t *testing.T) {
	cases := []string{
		"not json at all",
		`{"url": "object not array"}`,
		`[{"url": 42}]`,
		`[{"url": "ok"}`,
		"null",
	}

	for _, raw := range cases {
		raw := raw
		got := ParseGallery(&raw)
		if got == nil {
			t.Errorf("input %q: expected non-nil gallery", raw)
		}
		if len(got) != 0 {
			t.Errorf("input %q: expected empty gallery, got %d images", raw, len(got))
		}
	}
}

func TestEncodeEmptyGalleryIsNil(t *testing.T) {
	if got := (Gallery{}).Encode(); got != nil {
		t.Errorf("expected nil for empty gallery, got %q", *got)
	}
	var unset Gallery
	if got := unset.Encode(); got != nil {
		t.Errorf("expected nil for unset gallery, got %q", *got)
	}
}
