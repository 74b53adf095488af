package job

import (
	"path/filepath"
	"time"

	"github.com/techinsight/blog/config"
	"github.com/techinsight/blog/database"
	"github.com/techinsight/blog/database/model"
	"github.com/techinsight/blog/logger"
	"github.com/techinsight/blog/util/common"
)

// BackupJob copies every document into a folder named after the day.
type BackupJob struct {
	dir string
	now func() time.Time
}

func NewBackupJob() *BackupJob {
	return &BackupJob{dir: config.GetBackupFolderPath(), now: time.Now}
}

func (j *BackupJob) Run() {
	defer common.Recover("backup job")

	dest := filepath.Join(j.dir, j.now().In(config.GetTimeLocation()).Format(model.DayLayout))
	if err := database.Backup(dest); err != nil {
		logger.Warning("backup job err:", err)
		return
	}
	logger.Info("data backed up to ", dest)
}
