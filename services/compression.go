package services

import (
	"bytes"
	"context"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"

	// Registers WEBP decoding; there is no pure-Go WEBP encoder, so
	// WEBP sources are re-encoded as JPEG when compression runs.
	_ "golang.org/x/image/webp"

	"photo-portfolio-platform/internal/telemetry"
)

const (
	compressThreshold = 5 << 20 // below this, buffers that fit the box pass through untouched

	defaultMaxWidth  = 1920
	defaultMaxHeight = 1080
)

// compressionTier selects maximum dimensions and encoding quality by the
// declared byte size of the source. Evaluated in order, first match wins.
type compressionTier struct {
	minBytes  int64
	maxWidth  int
	maxHeight int
	quality   int
}

var compressionTiers = []compressionTier{
	{minBytes: 10 << 20, maxWidth: 1600, maxHeight: 900, quality: 75},
	{minBytes: 5 << 20, maxWidth: 1920, maxHeight: 1080, quality: 80},
	{minBytes: 0, maxWidth: 1920, maxHeight: 1080, quality: 85},
}

// CompressResult describes the buffer handed to the uploader.
type CompressResult struct {
	Data      []byte
	Width     int
	Height    int
	Format    string
	Optimized bool
}

// CompressionEngine re-encodes oversized images before upload. Work is
// CPU-bound, so concurrent transforms are bounded by a fixed-size
// semaphore; acquisition honours context cancellation.
type CompressionEngine struct {
	sem     chan struct{}
	metrics *telemetry.Metrics
}

func NewCompressionEngine(workers int, metrics *telemetry.Metrics) *CompressionEngine {
	if workers <= 0 {
		workers = 4
	}
	return &CompressionEngine{
		sem:     make(chan struct{}, workers),
		metrics: metrics,
	}
}

// Compress inspects data and either passes it through (small and already
// within bounds) or resizes/re-encodes it per the size tier. declaredSize
// is the byte size reported by the client, which drives tier selection.
// An undecodable buffer aborts the upload with compression_failed.
func (e *CompressionEngine) Compress(ctx context.Context, data []byte, declaredSize int64) (*CompressResult, error) {
	select {
	case e.sem <- struct{}{}:
		defer func() { <-e.sem }()
	case <-ctx.Done():
		return nil, NewServiceError(CodeCompressionFailed, "compression cancelled", ctx.Err())
	}

	cfg, srcFormat, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, NewServiceError(CodeCompressionFailed, "image could not be decoded", err)
	}

	if declaredSize <= compressThreshold && cfg.Width <= defaultMaxWidth && cfg.Height <= defaultMaxHeight {
		return &CompressResult{
			Data:   data,
			Width:  cfg.Width,
			Height: cfg.Height,
			Format: srcFormat,
		}, nil
	}

	tier := tierFor(declaredSize)

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, NewServiceError(CodeCompressionFailed, "image could not be decoded", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > tier.maxWidth || bounds.Dy() > tier.maxHeight {
		// Fit scales down preserving aspect ratio and never upscales.
		img = imaging.Fit(img, tier.maxWidth, tier.maxHeight, imaging.Lanczos)
	}

	outFormat, encFormat := encodingFor(srcFormat)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, encFormat, imaging.JPEGQuality(tier.quality)); err != nil {
		return nil, NewServiceError(CodeCompressionFailed, "image could not be re-encoded", err)
	}

	out := buf.Bytes()
	ratio := 0.0
	if len(data) > 0 {
		ratio = 1 - float64(len(out))/float64(len(data))
	}
	slog.Info("image compressed",
		"original_bytes", len(data),
		"compressed_bytes", len(out),
		"reduction_ratio", ratio,
		"format", outFormat,
		"quality", tier.quality,
	)
	if e.metrics != nil {
		e.metrics.RecordCompression(int64(len(data)), int64(len(out)), outFormat)
	}

	final := img.Bounds()
	return &CompressResult{
		Data:      out,
		Width:     final.Dx(),
		Height:    final.Dy(),
		Format:    outFormat,
		Optimized: true,
	}, nil
}

func tierFor(size int64) compressionTier {
	for _, t := range compressionTiers {
		if size > t.minBytes {
			return t
		}
	}
	return compressionTiers[len(compressionTiers)-1]
}

// encodingFor keeps JPEG and PNG in their own families; everything else,
// including WEBP (decode-only in Go), falls back to JPEG.
func encodingFor(srcFormat string) (string, imaging.Format) {
	switch srcFormat {
	case "png":
		return "png", imaging.PNG
	default:
		return "jpeg", imaging.JPEG
	}
}
