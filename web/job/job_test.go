package job

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/techinsight/blog/caching"
	"github.com/techinsight/blog/database"
	"github.com/techinsight/blog/database/model"
	"github.com/techinsight/blog/web/entity"
	"github.com/techinsight/blog/web/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupJob(t *testing.T) {
	require.NoError(t, database.InitDB(t.TempDir()))
	dir := t.TempDir()
	j := &BackupJob{dir: dir, now: func() time.Time { return time.Date(2026, 5, 4, 3, 0, 0, 0, time.Local) }}

	j.Run()

	for _, c := range []database.Collection{database.Users, database.Categories} {
		_, err := os.Stat(filepath.Join(dir, "2026-05-04", c.FileName()))
		assert.NoError(t, err)
	}
}

func TestTrendingCacheJob(t *testing.T) {
	require.NoError(t, database.InitDB(t.TempDir()))
	caching.Default().Memory().Flush()
	t.Cleanup(caching.Default().Memory().Flush)
	require.NoError(t, database.GetStore().Save(database.Posts, []model.Post{{Id: 1, Title: "Hot"}}))

	j := NewTrendingCacheJob()
	j.Run()
	_, found := caching.Default().Memory().Get(caching.TrendingKey(service.SidebarTrendingLimit))
	assert.True(t, found)
	assert.Equal(t, database.GetStore().Generation(), j.lastGeneration.Load())

	// unchanged store: nothing to warm
	caching.Default().Memory().Flush()
	j.Run()
	_, found = caching.Default().Memory().Get(caching.TrendingKey(service.SidebarTrendingLimit))
	assert.False(t, found)

	var analytics service.AnalyticsService
	require.NoError(t, analytics.RecordView(context.Background(), 1, entity.Identity{}))
	j.Run()
	cached, found := caching.Default().Memory().Get(caching.TrendingKey(service.APITrendingLimit))
	require.True(t, found)
	cards := cached.([]entity.PostCard)
	require.Len(t, cards, 1)
	assert.Equal(t, 1, cards[0].Views)
}
