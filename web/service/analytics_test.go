package service

import (
	"context"
	"testing"

	"github.com/techinsight/blog/web/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordView(t *testing.T) {
	setup(t)
	var s AnalyticsService
	ctx := context.Background()

	total, err := s.TotalViews(1)
	require.NoError(t, err)
	assert.Zero(t, total)

	require.NoError(t, s.RecordView(ctx, 1, alice))
	require.NoError(t, s.RecordView(ctx, 1, alice))
	require.NoError(t, s.RecordView(ctx, 1, entity.Identity{}))
	require.NoError(t, s.RecordView(ctx, 2, bob))

	total, err = s.TotalViews(1)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	analytics, err := s.GetAnalytics()
	require.NoError(t, err)
	pv := analytics.Views(1)
	require.NotNil(t, pv)
	assert.Equal(t, map[string]int{"2026-03-10": 3}, pv.Daily)
	assert.Equal(t, 1, analytics.TotalViews(2))
}
