package services

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/load"
)

type CPUSensor struct{}

func NewCPUSensor() *CPUSensor {
	return &CPUSensor{}
}

func (s *CPUSensor) Name() string {
	return "CPU"
}

func (s *CPUSensor) Collect(ctx context.Context) ([]Reading, error) {
	total, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil || len(total) == 0 {
		return nil, fmt.Errorf("failed to get total cpu percent: %w", err)
	}

	readings := []Reading{{Label: "cpu usage", Value: percent(total[0])}}

	info, err := cpu.InfoWithContext(ctx)
	if err == nil && len(info) > 0 {
		readings = append(readings, Reading{Label: "cpu model", Value: info[0].ModelName})
	}
	if cores, err := cpu.CountsWithContext(ctx, true); err == nil {
		readings = append(readings, Reading{Label: "logical cores", Value: fmt.Sprint(cores)})
	}

	// Load averages are not available on every platform.
	if avg, err := load.AvgWithContext(ctx); err == nil {
		readings = append(readings, Reading{
			Label: "load average",
			Value: fmt.Sprintf("%.2f %.2f %.2f", avg.Load1, avg.Load5, avg.Load15),
		})
	}
	return readings, nil
}
