package services

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/mem"
)

type MemSensor struct{}

func NewMemSensor() *MemSensor {
	return &MemSensor{}
}

func (s *MemSensor) Name() string {
	return "Memory"
}

func (s *MemSensor) Collect(ctx context.Context) ([]Reading, error) {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get virtual memory: %w", err)
	}

	readings := []Reading{
		{Label: "memory used", Value: fmt.Sprintf("%s (%s of %s)", percent(v.UsedPercent), humanBytes(v.Used), humanBytes(v.Total))},
		{Label: "memory available", Value: humanBytes(v.Available)},
	}

	swap, err := mem.SwapMemoryWithContext(ctx)
	if err == nil && swap != nil && swap.Total > 0 {
		readings = append(readings, Reading{Label: "swap used", Value: percent(swap.UsedPercent)})
	}
	return readings, nil
}
