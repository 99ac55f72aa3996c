package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessSensor lists the busiest processes by memory share.
type ProcessSensor struct {
	top int
}

func NewProcessSensor(top int) *ProcessSensor {
	return &ProcessSensor{top: top}
}

func (s *ProcessSensor) Name() string {
	return "Process"
}

func (s *ProcessSensor) Collect(ctx context.Context) ([]Reading, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	type entry struct {
		name string
		pid  int32
		mem  float32
	}
	entries := make([]entry, 0, len(procs))
	for _, p := range procs {
		memPct, err := p.MemoryPercentWithContext(ctx)
		if err != nil {
			continue
		}
		name, _ := p.NameWithContext(ctx)
		entries = append(entries, entry{name: name, pid: p.Pid, mem: memPct})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].mem > entries[j].mem })

	if len(entries) > s.top {
		entries = entries[:s.top]
	}
	readings := make([]Reading, 0, len(entries))
	for _, e := range entries {
		readings = append(readings, Reading{
			Label: fmt.Sprintf("proc %s[%d]", e.name, e.pid),
			Value: fmt.Sprintf("%.1f%% mem", e.mem),
		})
	}
	return readings, nil
}
