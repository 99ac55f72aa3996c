package refresh

import "fmt"

// State is the refresh readiness derived from the drag offset. Values are
// ordered: a larger State means the header is pulled further down.
type State int

const (
	StateHeaderHidden State = iota
	StateWaveHidden
	StateNormal
	StatePullToRefresh
	StateShowSun
	StateRefreshable
)

func (s State) String() string {
	switch s {
	case StateHeaderHidden:
		return "header-hidden"
	case StateWaveHidden:
		return "wave-hidden"
	case StateNormal:
		return "normal"
	case StatePullToRefresh:
		return "pull-to-refresh"
	case StateShowSun:
		return "show-sun"
	case StateRefreshable:
		return "refreshable"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Thresholds are the frame-independent inputs of Resolve.
type Thresholds struct {
	MinRefreshHeight int
	BaselineY        int
	HeaderBottom     int
	SunRadius        int
	SunshineLength   int
	SunCenterOffset  int
}

// ShowSunThreshold is the offset above which the sun clears the wave crest.
func (t Thresholds) ShowSunThreshold(peak float64) int {
	return int(float64(t.BaselineY) + peak + float64(t.SunRadius+t.SunshineLength-t.SunCenterOffset))
}

// Resolve maps a drag offset to its state. peak must be the value computed
// for the same topY; mixing frames makes the sun threshold oscillate.
func Resolve(topY int, peak float64, t Thresholds) State {
	switch {
	case topY <= -t.MinRefreshHeight:
		return StateRefreshable
	case topY < t.ShowSunThreshold(peak):
		return StateShowSun
	case topY < 0:
		return StatePullToRefresh
	case float64(topY) < float64(t.BaselineY)+peak:
		return StateNormal
	case topY < t.HeaderBottom:
		return StateWaveHidden
	default:
		return StateHeaderHidden
	}
}
