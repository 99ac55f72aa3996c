package services

import (
	"context"
	"fmt"
)

// Reading is one labelled value produced by a sensor. Readings become the
// rows of the refreshed list.
type Reading struct {
	Label string
	Value string
}

// Sensor defines the interface for all system sensors.
type Sensor interface {
	Name() string
	Collect(ctx context.Context) ([]Reading, error)
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// humanBytes formats a byte count with binary units.
func humanBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
