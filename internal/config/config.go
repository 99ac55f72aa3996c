// Package config loads the TOML settings file and turns it into the
// component configs of the refresh header, the collector and the journal.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"waverefresh/internal/collector"
	"waverefresh/internal/refresh"

	"github.com/BurntSushi/toml"
)

// Config mirrors the settings file. Absent keys keep their defaults.
type Config struct {
	LogFile  string `toml:"log_file"`
	LogLevel string `toml:"log_level"`

	Refresh   RefreshSection   `toml:"refresh"`
	Terminal  TerminalSection  `toml:"terminal"`
	Collector CollectorSection `toml:"collector"`
	Journal   JournalSection   `toml:"journal"`
}

type RefreshSection struct {
	WaveColorDark     string `toml:"wave_color_dark"`
	WaveColorLight    string `toml:"wave_color_light"`
	BackgroundColor   string `toml:"background_color"`
	SunColor          string `toml:"sun_color"`
	InitialPeakHeight int    `toml:"initial_peak_height"`
	WaveWidth         int    `toml:"wave_width"`
	SunshineLength    int    `toml:"sunshine_length"`
	SunRadius         int    `toml:"sun_radius"`
	CloudWidth        int    `toml:"cloud_width"`
	CloudHeight       int    `toml:"cloud_height"`
	MinRefreshHeight  int    `toml:"min_refresh_height"`
	Refreshable       bool   `toml:"refreshable"`
	RestoreMS         int    `toml:"restore_ms"`
	PeakGrowth        string `toml:"peak_growth"` // "linear" or "incremental"
}

// TerminalSection maps terminal cells to the px space of the header.
type TerminalSection struct {
	CellWidth       int `toml:"cell_width"`
	CellHeight      int `toml:"cell_height"`
	FrameIntervalMS int `toml:"frame_interval_ms"`
}

type CollectorSection struct {
	TimeoutMS    int      `toml:"timeout_ms"`
	DelayMS      int      `toml:"delay_ms"`
	TopProcesses int      `toml:"top_processes"`
	DiskMounts   []string `toml:"disk_mounts"`
	Network      bool     `toml:"network"`
	Processes    bool     `toml:"processes"`
}

type JournalSection struct {
	Enabled       bool   `toml:"enabled"`
	Path          string `toml:"path"` // empty keeps the journal in memory
	Threads       int    `toml:"threads"`
	MemoryLimitMB int    `toml:"memory_limit_mb"`
	Recent        int    `toml:"recent"`
}

func Default() Config {
	rc := refresh.DefaultConfig()
	cc := collector.DefaultCollectorConfig()
	return Config{
		LogLevel: "info",
		Refresh: RefreshSection{
			WaveColorDark:     rc.WaveColorDark,
			WaveColorLight:    rc.WaveColorLight,
			BackgroundColor:   rc.BackgroundColor,
			SunColor:          rc.SunColor,
			InitialPeakHeight: rc.InitialPeakHeight,
			WaveWidth:         rc.WaveWidth,
			SunshineLength:    rc.SunshineLength,
			SunRadius:         rc.SunRadius,
			CloudWidth:        rc.CloudWidth,
			CloudHeight:       rc.CloudHeight,
			MinRefreshHeight:  rc.MinRefreshHeight,
			Refreshable:       rc.Refreshable,
			RestoreMS:         int(rc.RestoreDuration / time.Millisecond),
			PeakGrowth:        rc.PeakGrowth.String(),
		},
		Terminal: TerminalSection{
			CellWidth:       8,
			CellHeight:      16,
			FrameIntervalMS: int(rc.FrameInterval / time.Millisecond),
		},
		Collector: CollectorSection{
			TimeoutMS:    int(cc.Timeout / time.Millisecond),
			DelayMS:      int(cc.Delay / time.Millisecond),
			TopProcesses: cc.TopProcessCount,
			DiskMounts:   cc.DiskMounts,
			Network:      cc.EnableNetwork,
			Processes:    cc.EnableProcesses,
		},
		Journal: JournalSection{
			Threads:       1,
			MemoryLimitMB: 64,
			Recent:        20,
		},
	}
}

// Load reads path over the defaults. Environment variables in the file are
// expanded before decoding. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	md, err := toml.Decode(os.ExpandEnv(string(data)), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	Clamp(&cfg)
	return cfg, nil
}

// Clamp pulls values that would break the terminal mapping back into range.
// Header geometry is left to refresh.Config.Validate.
func Clamp(cfg *Config) {
	if cfg.Terminal.CellWidth < 1 {
		cfg.Terminal.CellWidth = 1
	}
	if cfg.Terminal.CellHeight < 2 {
		cfg.Terminal.CellHeight = 2
	}
	if cfg.Terminal.FrameIntervalMS < 1 {
		cfg.Terminal.FrameIntervalMS = 1
	}
	if cfg.Terminal.FrameIntervalMS > 1000 {
		cfg.Terminal.FrameIntervalMS = 1000
	}
	if cfg.Refresh.RestoreMS < 0 {
		cfg.Refresh.RestoreMS = 0
	}
	if cfg.Collector.DelayMS < 0 {
		cfg.Collector.DelayMS = 0
	}
	if cfg.Collector.TopProcesses < 0 {
		cfg.Collector.TopProcesses = 0
	}
	if cfg.Journal.Threads < 1 {
		cfg.Journal.Threads = 1
	}
	if cfg.Journal.MemoryLimitMB < 0 {
		cfg.Journal.MemoryLimitMB = 0
	}
	if cfg.Journal.Recent < 1 {
		cfg.Journal.Recent = 1
	}
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

// RefreshConfig builds and validates the header config.
func (c Config) RefreshConfig() (refresh.Config, error) {
	r := c.Refresh
	out := refresh.DefaultConfig()
	out.WaveColorDark = r.WaveColorDark
	out.WaveColorLight = r.WaveColorLight
	out.BackgroundColor = r.BackgroundColor
	out.SunColor = r.SunColor
	out.InitialPeakHeight = r.InitialPeakHeight
	out.WaveWidth = r.WaveWidth
	out.SunshineLength = r.SunshineLength
	out.SunRadius = r.SunRadius
	out.CloudWidth = r.CloudWidth
	out.CloudHeight = r.CloudHeight
	out.MinRefreshHeight = r.MinRefreshHeight
	out.Refreshable = r.Refreshable
	out.RestoreDuration = ms(r.RestoreMS)
	out.FrameInterval = ms(c.Terminal.FrameIntervalMS)

	switch strings.ToLower(strings.TrimSpace(r.PeakGrowth)) {
	case "", "linear":
		out.PeakGrowth = refresh.PeakGrowthLinear
	case "incremental":
		out.PeakGrowth = refresh.PeakGrowthIncremental
	default:
		return refresh.Config{}, fmt.Errorf("refresh.peak_growth: unknown mode %q", r.PeakGrowth)
	}

	if err := out.Validate(); err != nil {
		return refresh.Config{}, err
	}
	return out, nil
}

// CollectorConfig builds and validates the collector config.
func (c Config) CollectorConfig() (collector.CollectorConfig, error) {
	s := c.Collector
	out := collector.DefaultCollectorConfig().
		WithTimeout(ms(s.TimeoutMS)).
		WithDelay(ms(s.DelayMS)).
		WithProcesses(s.Processes)
	out.TopProcessCount = s.TopProcesses
	out.EnableNetwork = s.Network
	if len(s.DiskMounts) > 0 {
		out.DiskMounts = s.DiskMounts
	}
	if err := out.Validate(); err != nil {
		return collector.CollectorConfig{}, err
	}
	return out, nil
}

// SlogLevel parses log_level ("debug", "info", "warn", "error").
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}
