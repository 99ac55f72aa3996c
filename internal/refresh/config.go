package refresh

import (
	"errors"
	"time"
)

// Fixed geometry of the stock header art, in px.
const (
	DefaultBaselineY       = 36
	DefaultSunCenterOffset = 108
	DefaultMinRefresh      = 200
	MinWaveHeight          = 56
	JumpGuard              = 160
	DampingDistance        = 160
	SunInnerInset          = 9
)

// ErrUnsupportedOrientation is returned for any orientation but vertical.
var ErrUnsupportedOrientation = errors.New("only vertical orientation is supported")

type Orientation int

const (
	OrientationVertical Orientation = iota
	OrientationHorizontal
)

func (o Orientation) String() string {
	switch o {
	case OrientationVertical:
		return "vertical"
	case OrientationHorizontal:
		return "horizontal"
	}
	return "unknown"
}

// PeakGrowth selects how the wave peak follows the drag.
type PeakGrowth int

const (
	// PeakGrowthLinear derives the peak from topY on every frame.
	PeakGrowthLinear PeakGrowth = iota
	// PeakGrowthIncremental adds the raw pointer delta during drags; settle
	// and fling frames fall back to the linear formula.
	PeakGrowthIncremental
)

func (g PeakGrowth) String() string {
	if g == PeakGrowthIncremental {
		return "incremental"
	}
	return "linear"
}

// Config contains the tunables of the refresh header.
// Use DefaultConfig() to get the stock look, then override as needed.
type Config struct {
	// Colors (hex, lipgloss compatible)
	WaveColorDark   string
	WaveColorLight  string
	BackgroundColor string
	SunColor        string

	// Geometry, px
	InitialPeakHeight int
	WaveWidth         int
	SunshineLength    int
	SunRadius         int
	CloudWidth        int
	CloudHeight       int
	MinRefreshHeight  int // drag distance that arms a refresh
	BaselineY         int
	SunCenterOffset   int
	ScrollBottom      int // fling limit; 0 derives it from the layout

	// Behaviour
	Refreshable     bool
	RestoreDuration time.Duration // settle animation length
	FrameInterval   time.Duration
	PeakGrowth      PeakGrowth
	PeakVelocity    float64 // peak px per px of drag
	Orientation     Orientation
}

// DefaultConfig returns a Config matching the stock header.
func DefaultConfig() Config {
	return Config{
		WaveColorDark:   "#175DAA",
		WaveColorLight:  "#2186F3",
		BackgroundColor: "#64A8D1",
		SunColor:        "#FFC900",

		InitialPeakHeight: 16,
		WaveWidth:         200,
		SunshineLength:    16,
		SunRadius:         36,
		CloudWidth:        108,
		CloudHeight:       72,
		MinRefreshHeight:  DefaultMinRefresh,
		BaselineY:         DefaultBaselineY,
		SunCenterOffset:   DefaultSunCenterOffset,

		Refreshable:     true,
		RestoreDuration: 200 * time.Millisecond,
		FrameInterval:   16 * time.Millisecond,
		PeakGrowth:      PeakGrowthLinear,
		PeakVelocity:    1.0 / 16,
		Orientation:     OrientationVertical,
	}
}

// WithRefreshable returns a copy of the config with refreshing enabled/disabled.
func (c Config) WithRefreshable(enabled bool) Config {
	c.Refreshable = enabled
	return c
}

// WithRestoreDuration returns a copy of the config with a new settle duration.
func (c Config) WithRestoreDuration(d time.Duration) Config {
	c.RestoreDuration = d
	return c
}

// WithWaveWidth returns a copy of the config with a new wave segment width.
func (c Config) WithWaveWidth(px int) Config {
	c.WaveWidth = px
	return c
}

// WithMinRefreshHeight returns a copy of the config with a new arming distance.
func (c Config) WithMinRefreshHeight(px int) Config {
	c.MinRefreshHeight = px
	return c
}

// WithPeakGrowth returns a copy of the config with a new peak growth mode.
func (c Config) WithPeakGrowth(g PeakGrowth, velocity float64) Config {
	c.PeakGrowth = g
	c.PeakVelocity = velocity
	return c
}

// Validate checks if the configuration is valid and returns an error if not.
func (c Config) Validate() error {
	if c.Orientation != OrientationVertical {
		return &ConfigError{Field: "Orientation", Message: "must be vertical", Err: ErrUnsupportedOrientation}
	}
	if c.WaveWidth <= 0 {
		return &ConfigError{Field: "WaveWidth", Message: "must be positive"}
	}
	if c.MinRefreshHeight <= 0 {
		return &ConfigError{Field: "MinRefreshHeight", Message: "must be positive"}
	}
	if c.SunRadius <= SunInnerInset {
		return &ConfigError{Field: "SunRadius", Message: "must be larger than the inner inset"}
	}
	if c.RestoreDuration < 0 {
		return &ConfigError{Field: "RestoreDuration", Message: "must not be negative"}
	}
	if c.FrameInterval <= 0 {
		return &ConfigError{Field: "FrameInterval", Message: "must be positive"}
	}
	if c.CloudWidth < 0 || c.CloudHeight < 0 {
		return &ConfigError{Field: "CloudWidth/CloudHeight", Message: "must not be negative"}
	}
	if c.PeakVelocity < 0 {
		return &ConfigError{Field: "PeakVelocity", Message: "must not be negative"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + " " + e.Message
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
