package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestRecordWithNoopMeter(t *testing.T) {
	Use(noop.NewMeterProvider().Meter("test"))
	assert.NotNil(t, instruments.PostViews)

	assert.NotPanics(t, func() {
		RecordView(context.Background(), 7)
		RecordWrite("posts")
		RecordRequest(context.Background(), "GET", "/blog", 200, 3*time.Millisecond)
	})
}

func TestRecordWithoutInstruments(t *testing.T) {
	saved := instruments
	defer func() { instruments = saved }()
	instruments = &Metrics{}

	assert.NotPanics(t, func() {
		RecordView(context.Background(), 1)
		RecordWrite("users")
		RecordRequest(context.Background(), "POST", "/login", 302, time.Millisecond)
	})
}
