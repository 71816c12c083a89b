package utils

import "testing"

func TestIsValidImageType(t *testing.T) {
	for _, ct := range []string{"image/jpeg", "image/png", "image/webp", "IMAGE/GIF"} {
		if !IsValidImageType(ct) {
			t.Fatalf("%q rejected", ct)
		}
	}
	for _, ct := range []string{"image/tiff", "video/mp4", "text/html", ""} {
		if IsValidImageType(ct) {
			t.Fatalf("%q accepted", ct)
		}
	}
}

func TestIsVideoType(t *testing.T) {
	for _, ct := range []string{"video/mp4", "video/webm", "VIDEO/OGG"} {
		if !IsVideoType(ct) {
			t.Fatalf("%q rejected", ct)
		}
	}
	for _, ct := range []string{"image/jpeg", "video/avi", ""} {
		if IsVideoType(ct) {
			t.Fatalf("%q accepted", ct)
		}
	}
}
