package services

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func encodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x += 16 {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 64, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestCompressPassesThroughSmallImages(t *testing.T) {
	engine := NewCompressionEngine(2, nil)
	data := encodeJPEG(t, 800, 600)

	result, err := engine.Compress(context.Background(), data, int64(len(data)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Optimized {
		t.Fatal("small in-bounds image should not be re-encoded")
	}
	if !bytes.Equal(result.Data, data) {
		t.Fatal("pass-through should return the original buffer")
	}
	if result.Width != 800 || result.Height != 600 {
		t.Fatalf("unexpected dimensions %dx%d", result.Width, result.Height)
	}
	if result.Format != "jpeg" {
		t.Fatalf("unexpected format %q", result.Format)
	}
}

func TestCompressResizesOversizedDimensions(t *testing.T) {
	engine := NewCompressionEngine(2, nil)
	data := encodeJPEG(t, 2400, 1400)

	// Declared small, but the frame exceeds the delivery box.
	result, err := engine.Compress(context.Background(), data, int64(len(data)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Optimized {
		t.Fatal("oversized frame should be re-encoded")
	}
	if result.Width > 1920 || result.Height > 1080 {
		t.Fatalf("frame not fitted: %dx%d", result.Width, result.Height)
	}
	if result.Format != "jpeg" {
		t.Fatalf("unexpected format %q", result.Format)
	}
}

func TestCompressLargeTierUsesTighterBox(t *testing.T) {
	engine := NewCompressionEngine(2, nil)
	data := encodeJPEG(t, 3000, 2000)

	result, err := engine.Compress(context.Background(), data, 12<<20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Optimized {
		t.Fatal("large declared size should force re-encoding")
	}
	if result.Width > 1600 || result.Height > 900 {
		t.Fatalf("large tier box not applied: %dx%d", result.Width, result.Height)
	}
}

func TestCompressKeepsPNGFormat(t *testing.T) {
	engine := NewCompressionEngine(2, nil)
	data := encodePNG(t, 2200, 1300)

	result, err := engine.Compress(context.Background(), data, 6<<20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Format != "png" {
		t.Fatalf("png source re-encoded as %q", result.Format)
	}
	if result.Width > 1920 || result.Height > 1080 {
		t.Fatalf("frame not fitted: %dx%d", result.Width, result.Height)
	}
}

func TestCompressNeverUpscales(t *testing.T) {
	engine := NewCompressionEngine(2, nil)
	data := encodeJPEG(t, 640, 480)

	// Declared huge, but the frame is already below every box.
	result, err := engine.Compress(context.Background(), data, 12<<20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Width != 640 || result.Height != 480 {
		t.Fatalf("small frame was rescaled to %dx%d", result.Width, result.Height)
	}
}

func TestCompressRejectsUndecodableBuffer(t *testing.T) {
	engine := NewCompressionEngine(2, nil)
	data := []byte("definitely not an image")

	_, err := engine.Compress(context.Background(), data, int64(len(data)))
	if ErrorCode(err) != CodeCompressionFailed {
		t.Fatalf("expected %s, got %v", CodeCompressionFailed, err)
	}
}

func TestCompressHonoursCancellation(t *testing.T) {
	engine := NewCompressionEngine(1, nil)
	engine.sem <- struct{}{} // occupy the only slot

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Compress(ctx, encodeJPEG(t, 100, 100), 100)
	if ErrorCode(err) != CodeCompressionFailed {
		t.Fatalf("expected %s, got %v", CodeCompressionFailed, err)
	}
}

func TestTierSelection(t *testing.T) {
	cases := []struct {
		size        int64
		wantQuality int
		wantWidth   int
	}{
		{size: 12 << 20, wantQuality: 75, wantWidth: 1600},
		{size: 7 << 20, wantQuality: 80, wantWidth: 1920},
		{size: 5 << 20, wantQuality: 85, wantWidth: 1920},
		{size: 1 << 20, wantQuality: 85, wantWidth: 1920},
	}
	for _, tc := range cases {
		tier := tierFor(tc.size)
		if tier.quality != tc.wantQuality || tier.maxWidth != tc.wantWidth {
			t.Fatalf("size %d: got q%d w%d, want q%d w%d",
				tc.size, tier.quality, tier.maxWidth, tc.wantQuality, tc.wantWidth)
		}
	}
}
