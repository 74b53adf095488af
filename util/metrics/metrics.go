// Package metrics holds the OpenTelemetry instruments of the blog. They are
// created from the global meter provider, which is a no-op until the host
// process installs a real one.
package metrics

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/techinsight/blog"

// Metrics groups the instruments recorded by the web and storage layers.
type Metrics struct {
	PostViews       metric.Int64Counter
	StoreWrites     metric.Int64Counter
	HTTPRequests    metric.Int64Counter
	RequestDuration metric.Float64Histogram
}

var instruments = initMetrics(otel.Meter(meterName))

// Use replaces the instruments with ones created from meter.
func Use(meter metric.Meter) {
	instruments = initMetrics(meter)
}

func initMetrics(meter metric.Meter) *Metrics {
	postViews, _ := meter.Int64Counter("blog.post.views",
		metric.WithDescription("Recorded post page views"),
		metric.WithUnit("{view}"),
	)

	storeWrites, _ := meter.Int64Counter("blog.store.writes",
		metric.WithDescription("Document rewrites per collection"),
		metric.WithUnit("{write}"),
	)

	httpRequests, _ := meter.Int64Counter("blog.http.requests",
		metric.WithDescription("Handled HTTP requests"),
		metric.WithUnit("{request}"),
	)

	requestDuration, _ := meter.Float64Histogram("blog.http.duration",
		metric.WithDescription("Request handling duration in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000),
	)

	return &Metrics{
		PostViews:       postViews,
		StoreWrites:     storeWrites,
		HTTPRequests:    httpRequests,
		RequestDuration: requestDuration,
	}
}

func RecordView(ctx context.Context, postID int) {
	if instruments.PostViews == nil {
		return
	}
	instruments.PostViews.Add(ctx, 1, metric.WithAttributes(
		attribute.String("post_id", strconv.Itoa(postID)),
	))
}

func RecordWrite(collection string) {
	if instruments.StoreWrites == nil {
		return
	}
	instruments.StoreWrites.Add(context.Background(), 1, metric.WithAttributes(
		attribute.String("collection", collection),
	))
}

func RecordRequest(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	)
	if instruments.HTTPRequests != nil {
		instruments.HTTPRequests.Add(ctx, 1, attrs)
	}
	if instruments.RequestDuration != nil {
		instruments.RequestDuration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
	}
}
