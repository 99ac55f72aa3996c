// Package collector acquires the data shown below the refresh header: a
// point-in-time system snapshot assembled from gopsutil sensors.
package collector

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"waverefresh/internal/collector/services"
)

// ============================================================================
// DATA STRUCTURES
// ============================================================================

// Item is one row of a snapshot.
type Item struct {
	Sensor string
	Label  string
	Value  string
}

// Snapshot is the result of one acquisition.
type Snapshot struct {
	TakenAt  time.Time
	Duration time.Duration
	Items    []Item
	Failed   []string // sensors that returned an error
}

// ErrNoData is returned when every sensor failed.
var ErrNoData = errors.New("no sensor produced data")

// ============================================================================
// INTERFACE DEFINITION
// ============================================================================

// SnapshotProvider defines the contract for any snapshot source.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) (Snapshot, error)
}

// ============================================================================
// CONCRETE IMPLEMENTATION
// ============================================================================

// SystemCollector samples its sensors concurrently.
type SystemCollector struct {
	cfg     CollectorConfig
	sensors []services.Sensor
	logger  *slog.Logger
	now     func() time.Time
}

// NewSystemCollector builds a collector with the stock sensors enabled by cfg.
func NewSystemCollector(cfg CollectorConfig, logger *slog.Logger) (*SystemCollector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	sensors := []services.Sensor{
		services.NewHostSensor(),
		services.NewCPUSensor(),
		services.NewMemSensor(),
		services.NewDiskSensor(cfg.DiskMounts...),
	}
	if cfg.EnableNetwork {
		sensors = append(sensors, services.NewNetSensor())
	}
	if cfg.EnableProcesses {
		sensors = append(sensors, services.NewProcessSensor(cfg.TopProcessCount))
	}
	return NewWithSensors(cfg, logger, sensors...), nil
}

// NewWithSensors builds a collector over an explicit sensor list.
func NewWithSensors(cfg CollectorConfig, logger *slog.Logger, sensors ...services.Sensor) *SystemCollector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &SystemCollector{cfg: cfg, sensors: sensors, logger: logger, now: time.Now}
}

// Internal result type for concurrency
type sensorResult struct {
	readings []services.Reading
	err      error
}

// Snapshot runs every sensor in parallel under the configured timeout. Rows
// keep the sensor order. A failing sensor is reported in Failed; only a
// snapshot where all sensors fail is an error.
func (s *SystemCollector) Snapshot(ctx context.Context) (Snapshot, error) {
	start := s.now()
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	results := make([]sensorResult, len(s.sensors))
	var wg sync.WaitGroup
	wg.Add(len(s.sensors))
	for i, sensor := range s.sensors {
		go func() {
			defer wg.Done()
			readings, err := sensor.Collect(ctx)
			results[i] = sensorResult{readings: readings, err: err}
		}()
	}
	wg.Wait()

	snap := Snapshot{TakenAt: start}
	var errs []error
	for i, res := range results {
		name := s.sensors[i].Name()
		if res.err != nil {
			s.logger.Warn("sensor failed", "sensor", name, "err", res.err)
			snap.Failed = append(snap.Failed, name)
			errs = append(errs, fmt.Errorf("%s: %w", name, res.err))
			continue
		}
		for _, r := range res.readings {
			snap.Items = append(snap.Items, Item{Sensor: name, Label: r.Label, Value: r.Value})
		}
	}
	snap.Duration = s.now().Sub(start)

	if len(s.sensors) > 0 && len(errs) == len(s.sensors) {
		return snap, fmt.Errorf("%w: %w", ErrNoData, errors.Join(errs...))
	}
	s.logger.Debug("snapshot collected", "items", len(snap.Items), "failed", len(snap.Failed), "took", snap.Duration)
	return snap, nil
}

// Delay is the configured acquisition latency.
func (s *SystemCollector) Delay() time.Duration {
	return s.cfg.Delay
}
