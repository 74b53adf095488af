package service

import (
	"context"

	"github.com/techinsight/blog/caching"
	"github.com/techinsight/blog/database"
	"github.com/techinsight/blog/database/model"
	"github.com/techinsight/blog/util/metrics"
	"github.com/techinsight/blog/web/entity"
)

// AnalyticsService counts post views.
type AnalyticsService struct{}

// RecordView adds one view to the lifetime and today's counter of postId.
// Every call counts, whoever the viewer is.
func (s *AnalyticsService) RecordView(ctx context.Context, postId int, viewer entity.Identity) error {
	day := now().Format(model.DayLayout)
	analytics := &model.Analytics{}
	err := database.GetStore().Update(database.Analytics, analytics, func() error {
		if analytics.PostViews == nil {
			analytics.PostViews = map[string]*model.PostViews{}
		}
		pv := analytics.PostViews[model.Key(postId)]
		if pv == nil {
			pv = &model.PostViews{}
			analytics.PostViews[model.Key(postId)] = pv
		}
		if pv.Daily == nil {
			pv.Daily = map[string]int{}
		}
		pv.Total++
		pv.Daily[day]++
		return nil
	})
	if err != nil {
		return err
	}
	metrics.RecordView(ctx, postId)
	caching.Default().InvalidatePrefix(caching.KeyTrendingPrefix)
	return nil
}

// TotalViews returns the lifetime views of postId, 0 when never viewed.
func (s *AnalyticsService) TotalViews(postId int) (int, error) {
	analytics, err := loadAnalytics()
	if err != nil {
		return 0, err
	}
	return analytics.TotalViews(postId), nil
}

func (s *AnalyticsService) GetAnalytics() (*model.Analytics, error) {
	return loadAnalytics()
}
