package services

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
)

// DiskSensor reports usage of a fixed set of mount points.
type DiskSensor struct {
	mounts []string
}

func NewDiskSensor(mounts ...string) *DiskSensor {
	if len(mounts) == 0 {
		mounts = []string{"/"}
	}
	return &DiskSensor{mounts: mounts}
}

func (s *DiskSensor) Name() string {
	return "Disk"
}

func (s *DiskSensor) Collect(ctx context.Context) ([]Reading, error) {
	var readings []Reading
	var lastErr error
	for _, m := range s.mounts {
		u, err := disk.UsageWithContext(ctx, m)
		if err != nil {
			lastErr = err
			continue
		}
		readings = append(readings, Reading{
			Label: "disk " + u.Path,
			Value: fmt.Sprintf("%s of %s (%s)", percent(u.UsedPercent), humanBytes(u.Total), u.Fstype),
		})
	}
	if len(readings) == 0 && lastErr != nil {
		return nil, fmt.Errorf("failed to get disk usage: %w", lastErr)
	}
	return readings, nil
}
