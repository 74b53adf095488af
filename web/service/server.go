package service

import (
	"runtime"
	"time"

	"github.com/techinsight/blog/config"
	"github.com/techinsight/blog/logger"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// Status is a snapshot of the host the blog runs on.
type Status struct {
	T        time.Time `json:"-"`
	Cpu      float64   `json:"cpu"`
	CpuCores int       `json:"cpuCores"`
	Mem      struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"mem"`
	Uptime     uint64 `json:"uptime"`
	AppUptime  uint64 `json:"appUptime"`
	AppVersion string `json:"appVersion"`
	Goroutines int    `json:"goroutines"`
}

var startTime = time.Now()

type ServerService struct{}

// GetStatus collects the host status. Failing probes are logged and left zero.
func (s *ServerService) GetStatus() *Status {
	now := time.Now()
	status := &Status{
		T:          now,
		AppUptime:  uint64(now.Sub(startTime).Seconds()),
		AppVersion: config.GetVersion(),
		Goroutines: runtime.NumGoroutine(),
	}

	percents, err := cpu.Percent(0, false)
	if err != nil {
		logger.Warning("get cpu percent failed:", err)
	} else if len(percents) > 0 {
		status.Cpu = percents[0]
	}

	status.CpuCores, err = cpu.Counts(true)
	if err != nil {
		logger.Warning("get cpu cores count failed:", err)
	}

	upTime, err := host.Uptime()
	if err != nil {
		logger.Warning("get uptime failed:", err)
	} else {
		status.Uptime = upTime
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		logger.Warning("get virtual memory failed:", err)
	} else {
		status.Mem.Current = memInfo.Used
		status.Mem.Total = memInfo.Total
	}

	return status
}

// GetLogs returns up to count buffered log lines at or above level.
func (s *ServerService) GetLogs(count int, level string) []string {
	return logger.GetLogs(count, level)
}
