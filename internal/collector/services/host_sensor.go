package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/host"
)

type HostSensor struct{}

func NewHostSensor() *HostSensor {
	return &HostSensor{}
}

func (s *HostSensor) Name() string {
	return "Host"
}

func (s *HostSensor) Collect(ctx context.Context) ([]Reading, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get host info: %w", err)
	}

	return []Reading{
		{Label: "hostname", Value: info.Hostname},
		{Label: "platform", Value: fmt.Sprintf("%s %s (%s)", info.Platform, info.PlatformVersion, info.KernelArch)},
		{Label: "kernel", Value: info.KernelVersion},
		{Label: "uptime", Value: (time.Duration(info.Uptime) * time.Second).String()},
		{Label: "processes", Value: fmt.Sprint(info.Procs)},
	}, nil
}
