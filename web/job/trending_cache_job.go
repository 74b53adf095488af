package job

import (
	"github.com/techinsight/blog/database"
	"github.com/techinsight/blog/logger"
	"github.com/techinsight/blog/util/common"
	"github.com/techinsight/blog/web/service"

	"go.uber.org/atomic"
)

// TrendingCacheJob recomputes the cached trending lists when the store
// changed since its last run.
type TrendingCacheJob struct {
	listingService service.ListingService
	lastGeneration atomic.Int64
}

func NewTrendingCacheJob() *TrendingCacheJob {
	j := new(TrendingCacheJob)
	j.lastGeneration.Store(-1)
	return j
}

func (j *TrendingCacheJob) Run() {
	defer common.Recover("trending cache job")

	store := database.GetStore()
	if store == nil {
		return
	}
	generation := store.Generation()
	if j.lastGeneration.Load() == generation {
		return
	}
	if err := j.listingService.WarmTrending(); err != nil {
		logger.Warning("trending cache job err:", err)
		return
	}
	j.lastGeneration.Store(generation)
}
