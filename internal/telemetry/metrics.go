package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	UploadCounter     metric.Int64Counter
	UploadBytes       metric.Int64Counter
	CompressionInput  metric.Int64Counter
	CompressionOutput metric.Int64Counter
	CompressionRatio  metric.Float64Histogram
	GalleryQueryTime  metric.Float64Histogram
	EngagementCounter metric.Int64Counter
	RequestCounter    metric.Int64Counter
	RequestDuration   metric.Float64Histogram
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("photo-portfolio-platform")

	uploadCounter, err := meter.Int64Counter(
		"photos.uploads.total",
		metric.WithDescription("Total successful photo uploads"),
	)
	if err != nil {
		return nil, err
	}

	uploadBytes, err := meter.Int64Counter(
		"photos.uploads.bytes",
		metric.WithDescription("Total bytes stored remotely"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	compressionInput, err := meter.Int64Counter(
		"photos.compression.input_bytes",
		metric.WithDescription("Bytes received by the compression engine"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	compressionOutput, err := meter.Int64Counter(
		"photos.compression.output_bytes",
		metric.WithDescription("Bytes produced by the compression engine"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	compressionRatio, err := meter.Float64Histogram(
		"photos.compression.reduction_ratio",
		metric.WithDescription("Size reduction ratio per compressed image"),
	)
	if err != nil {
		return nil, err
	}

	galleryQueryTime, err := meter.Float64Histogram(
		"gallery.query.duration",
		metric.WithDescription("Gallery query duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	engagementCounter, err := meter.Int64Counter(
		"engagement.operations.total",
		metric.WithDescription("Like/view/delete operations"),
	)
	if err != nil {
		return nil, err
	}

	requestCounter, err := meter.Int64Counter(
		"http.requests.total",
		metric.WithDescription("Total HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		UploadCounter:     uploadCounter,
		UploadBytes:       uploadBytes,
		CompressionInput:  compressionInput,
		CompressionOutput: compressionOutput,
		CompressionRatio:  compressionRatio,
		GalleryQueryTime:  galleryQueryTime,
		EngagementCounter: engagementCounter,
		RequestCounter:    requestCounter,
		RequestDuration:   requestDuration,
	}, nil
}

// RecordUpload records one successful remote-store upload
func (m *Metrics) RecordUpload(bytes int64, format string) {
	attrs := []attribute.KeyValue{
		attribute.String("photo.format", format),
	}

	m.UploadCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.UploadBytes.Add(context.Background(), bytes, metric.WithAttributes(attrs...))
}

// RecordCompression records one compression pass
func (m *Metrics) RecordCompression(inputBytes, outputBytes int64, format string) {
	attrs := []attribute.KeyValue{
		attribute.String("photo.format", format),
	}

	m.CompressionInput.Add(context.Background(), inputBytes, metric.WithAttributes(attrs...))
	m.CompressionOutput.Add(context.Background(), outputBytes, metric.WithAttributes(attrs...))
	if inputBytes > 0 {
		ratio := 1 - float64(outputBytes)/float64(inputBytes)
		m.CompressionRatio.Record(context.Background(), ratio, metric.WithAttributes(attrs...))
	}
}

// RecordGalleryQuery records one gallery page request
func (m *Metrics) RecordGalleryQuery(duration float64, sortBy string) {
	attrs := []attribute.KeyValue{
		attribute.String("gallery.sort", sortBy),
	}

	m.GalleryQueryTime.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}

// RecordEngagement records a like toggle, view or delete
func (m *Metrics) RecordEngagement(operation string) {
	attrs := []attribute.KeyValue{
		attribute.String("engagement.operation", operation),
	}

	m.EngagementCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
}

// RecordRequest records HTTP request metrics
func (m *Metrics) RecordRequest(method, path, status string, duration float64) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("http.path", path),
		attribute.String("http.status", status),
	}

	m.RequestCounter.Add(context.Background(), 1, metric.WithAttributes(attrs...))
	m.RequestDuration.Record(context.Background(), duration, metric.WithAttributes(attrs...))
}
