package services

import (
	"strings"
	"testing"
)

func newTestUploader(t *testing.T) *AssetUploader {
	t.Helper()
	u, err := NewAssetUploader("demo", "key", "secret", "portfolio")
	if err != nil {
		t.Fatalf("init uploader: %v", err)
	}
	return u
}

func TestNewPublicIDIsUnique(t *testing.T) {
	u := newTestUploader(t)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := u.NewPublicID()
		if seen[id] {
			t.Fatalf("duplicate public id %q", id)
		}
		seen[id] = true
		if !strings.Contains(id, "_") {
			t.Fatalf("public id %q missing timestamp separator", id)
		}
	}
}

func TestFolderFor(t *testing.T) {
	u := newTestUploader(t)

	if got := u.FolderFor(ResourceImage); got != "portfolio/photos" {
		t.Fatalf("image folder = %q", got)
	}
	if got := u.FolderFor(ResourceVideo); got != "portfolio/videos" {
		t.Fatalf("video folder = %q", got)
	}
	if got := u.FolderFor(""); got != "portfolio/photos" {
		t.Fatalf("default folder = %q", got)
	}
}

func TestFolderForTrimsTrailingSlash(t *testing.T) {
	u, err := NewAssetUploader("demo", "key", "secret", "portfolio/")
	if err != nil {
		t.Fatalf("init uploader: %v", err)
	}
	if got := u.FolderFor(ResourceImage); got != "portfolio/photos" {
		t.Fatalf("folder = %q", got)
	}
}

func TestDeliveryURLs(t *testing.T) {
	original := "https://res.cloudinary.com/demo/image/upload/v1719000000/portfolio/photos/1719000000_ab12cd34.jpg"

	sizes := DeliveryURLs(original)

	if sizes.Original != original {
		t.Fatalf("original rewritten: %q", sizes.Original)
	}
	wantThumb := "https://res.cloudinary.com/demo/image/upload/w_400,h_400,c_fill,q_auto,f_auto/v1719000000/portfolio/photos/1719000000_ab12cd34.jpg"
	if sizes.Thumbnail != wantThumb {
		t.Fatalf("thumbnail = %q, want %q", sizes.Thumbnail, wantThumb)
	}
	wantMedium := "https://res.cloudinary.com/demo/image/upload/w_1080,c_limit,q_auto,f_auto/v1719000000/portfolio/photos/1719000000_ab12cd34.jpg"
	if sizes.Medium != wantMedium {
		t.Fatalf("medium = %q, want %q", sizes.Medium, wantMedium)
	}
}

func TestDeliveryURLsWithoutUploadMarker(t *testing.T) {
	odd := "https://example.com/some/other/path.jpg"
	sizes := DeliveryURLs(odd)
	if sizes.Thumbnail != odd || sizes.Medium != odd || sizes.Original != odd {
		t.Fatalf("unexpected rewrite of %q: %+v", odd, sizes)
	}
}
