package monitoring

import (
	"context"
	"time"

	"github.com/isdelr/emote-panel-be/internal/models"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

const cpuSampleInterval = 200 * time.Millisecond

// HostStats reads resource usage of the machine running the panel.
type HostStats struct{}

// NewHostStats creates a new HostStats reader.
func NewHostStats() *HostStats {
	return &HostStats{}
}

// Snapshot samples CPU over a short interval and reads memory and uptime.
func (h *HostStats) Snapshot(ctx context.Context) (models.HostStats, error) {
	var stats models.HostStats

	percents, err := cpu.PercentWithContext(ctx, cpuSampleInterval, false)
	if err != nil {
		return stats, err
	}
	if len(percents) > 0 {
		stats.CPUPercent = percents[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return stats, err
	}
	stats.MemoryPercent = vm.UsedPercent
	stats.MemoryUsedMB = vm.Used / 1024 / 1024
	stats.MemoryTotalMB = vm.Total / 1024 / 1024

	uptime, err := host.UptimeWithContext(ctx)
	if err != nil {
		return stats, err
	}
	stats.UptimeSeconds = uptime
	return stats, nil
}
