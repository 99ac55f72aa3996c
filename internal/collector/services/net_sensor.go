package services

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/net"
)

type NetSensor struct{}

func NewNetSensor() *NetSensor {
	return &NetSensor{}
}

func (s *NetSensor) Name() string {
	return "Network"
}

// Collect reports the totals across all interfaces.
func (s *NetSensor) Collect(ctx context.Context) ([]Reading, error) {
	counters, err := net.IOCountersWithContext(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get net io counters: %w", err)
	}
	if len(counters) == 0 {
		return nil, nil
	}
	c := counters[0]
	return []Reading{
		{Label: "net sent", Value: humanBytes(c.BytesSent)},
		{Label: "net received", Value: humanBytes(c.BytesRecv)},
		{Label: "net errors", Value: fmt.Sprintf("%d in / %d out", c.Errin, c.Errout)},
	}, nil
}
