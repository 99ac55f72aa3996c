package refresh

import (
	"fmt"
	"time"
)

// Config returns a copy of the active configuration.
func (c *Controller) Config() Config { return c.cfg }

// SetOrientation accepts only the vertical orientation.
func (c *Controller) SetOrientation(o Orientation) error {
	if o != OrientationVertical {
		return &ConfigError{Field: "Orientation", Message: fmt.Sprintf("%s is not supported", o), Err: ErrUnsupportedOrientation}
	}
	c.cfg.Orientation = o
	return nil
}

func (c *Controller) WaveColorDark() string { return c.cfg.WaveColorDark }

func (c *Controller) SetWaveColorDark(color string) { c.cfg.WaveColorDark = color }

func (c *Controller) WaveColorLight() string { return c.cfg.WaveColorLight }

func (c *Controller) SetWaveColorLight(color string) { c.cfg.WaveColorLight = color }

func (c *Controller) BackgroundColor() string { return c.cfg.BackgroundColor }

func (c *Controller) SetBackgroundColor(color string) { c.cfg.BackgroundColor = color }

func (c *Controller) SunColor() string { return c.cfg.SunColor }

func (c *Controller) SetSunColor(color string) { c.cfg.SunColor = color }

func (c *Controller) InitialPeakHeight() int { return c.cfg.InitialPeakHeight }

// SetInitialPeakHeight changes the resting wave amplitude and re-derives the
// current peak.
func (c *Controller) SetInitialPeakHeight(px int) {
	c.cfg.InitialPeakHeight = px
	c.updateDrawParams()
	c.updateState()
}

func (c *Controller) WaveWidth() int { return c.cfg.WaveWidth }

// SetWaveWidth changes the segment width and re-wraps the horizontal offset.
func (c *Controller) SetWaveWidth(px int) error {
	if px <= 0 {
		return &ConfigError{Field: "WaveWidth", Message: "must be positive"}
	}
	c.cfg.WaveWidth = px
	c.ticker.Offset = WrapOffset(c.ticker.Offset, px)
	return nil
}

func (c *Controller) SunshineLength() int { return c.cfg.SunshineLength }

func (c *Controller) SetSunshineLength(px int) {
	c.cfg.SunshineLength = px
	c.updateState()
}

func (c *Controller) SunRadius() int { return c.cfg.SunRadius }

func (c *Controller) SetSunRadius(px int) error {
	if px <= SunInnerInset {
		return &ConfigError{Field: "SunRadius", Message: "must be larger than the inner inset"}
	}
	c.cfg.SunRadius = px
	c.updateState()
	return nil
}

func (c *Controller) Refreshable() bool { return c.cfg.Refreshable }

// SetRefreshable enables or disables refreshing. Disabling while a refresh
// runs finishes it first so the header is not left parked at the anchor.
func (c *Controller) SetRefreshable(enabled bool) {
	if !enabled && c.cfg.Refreshable && c.isRefreshing {
		c.FinishRefresh()
	}
	c.cfg.Refreshable = enabled
}

func (c *Controller) RestoreDuration() time.Duration { return c.cfg.RestoreDuration }

// SetRestoreDuration applies to settles started afterwards.
func (c *Controller) SetRestoreDuration(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.cfg.RestoreDuration = d
}

func (c *Controller) CloudSize() (width, height int) {
	return c.cfg.CloudWidth, c.cfg.CloudHeight
}

func (c *Controller) SetCloudSize(width, height int) {
	c.cfg.CloudWidth, c.cfg.CloudHeight = width, height
}

func (c *Controller) MinRefreshHeight() int { return c.cfg.MinRefreshHeight }

func (c *Controller) SetMinRefreshHeight(px int) error {
	if px <= 0 {
		return &ConfigError{Field: "MinRefreshHeight", Message: "must be positive"}
	}
	c.cfg.MinRefreshHeight = px
	c.updateState()
	return nil
}

func (c *Controller) PeakGrowth() PeakGrowth { return c.cfg.PeakGrowth }

// SetPeakGrowth switches the peak growth mode; the peak is re-synchronised
// to the linear formula.
func (c *Controller) SetPeakGrowth(g PeakGrowth) {
	c.cfg.PeakGrowth = g
	c.updateDrawParams()
	c.updateState()
}
