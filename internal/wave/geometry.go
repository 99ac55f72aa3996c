// Package wave builds the closed contours of the refresh header scene: the
// background fill, the dark and light wave bands, the sun and the clouds.
// Everything here is a pure function of its inputs.
package wave

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidWaveWidth = errors.New("wave width must be positive")
	ErrNegativeSpan     = errors.New("span width must not be negative")
)

// Kind selects which contour a wave line belongs to.
type Kind int

const (
	KindBackground Kind = iota
	KindDarkWave
	KindLightWave
)

func (k Kind) String() string {
	switch k {
	case KindBackground:
		return "background"
	case KindDarkWave:
		return "dark"
	case KindLightWave:
		return "light"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Params are the geometry inputs for one frame.
type Params struct {
	PeakHeight   float64
	WaveWidth    int
	BaselineY    int
	SpanWidth    int // visible width; lines extend 2*WaveWidth past it
	TopY         int // current drag offset, top edge of the background fill
	HeaderBottom int // bottom edge of the dark wave fill
}

func (p Params) validate() error {
	if p.WaveWidth <= 0 {
		return fmt.Errorf("wave width %d: %w", p.WaveWidth, ErrInvalidWaveWidth)
	}
	if p.SpanWidth < 0 {
		return fmt.Errorf("span width %d: %w", p.SpanWidth, ErrNegativeSpan)
	}
	return nil
}

// controlY returns the control point offset for segment j of a line kind.
func controlY(kind Kind, j int, peak float64) float64 {
	switch kind {
	case KindDarkWave:
		if j%2 == 0 {
			return -peak
		}
		return peak
	case KindLightWave:
		if j%2 == 0 {
			return peak
		}
		return -peak
	default:
		return peak
	}
}

// AppendWaveLine tiles [0, span+2*waveWidth) with quadratic segments starting
// at the path's current point and returns the number of segments emitted.
func AppendWaveLine(p *Path, kind Kind, peak float64, waveWidth, span int) int {
	if waveWidth <= 0 || span < 0 {
		return 0
	}
	limit := span + 2*waveWidth
	w := float64(waveWidth)
	n := 0
	for x, j := 0, 0; x < limit; x, j = x+waveWidth, j+1 {
		p.RQuadTo(w*0.5, controlY(kind, j, peak), w, 0)
		n++
	}
	return n
}

// appendWaveLineReversed walks the same segments as AppendWaveLine backwards,
// ending where the forward line started.
func appendWaveLineReversed(p *Path, kind Kind, peak float64, waveWidth, span int) {
	n := SegmentCount(waveWidth, span)
	w := float64(waveWidth)
	for j := n - 1; j >= 0; j-- {
		p.RQuadTo(-w*0.5, controlY(kind, j, peak), -w, 0)
	}
}

// SegmentCount is the number of segments AppendWaveLine emits.
func SegmentCount(waveWidth, span int) int {
	if waveWidth <= 0 || span < 0 {
		return 0
	}
	return (span + 2*waveWidth + waveWidth - 1) / waveWidth
}

// BuildWavePath returns the closed contour for one layer of the scene.
func BuildWavePath(kind Kind, params Params) (Path, error) {
	if err := params.validate(); err != nil {
		return Path{}, err
	}
	var p Path
	baseline := float64(params.BaselineY)
	switch kind {
	case KindBackground:
		top := float64(params.TopY)
		p.MoveTo(0, top)
		p.RLineTo(0, baseline-top)
		AppendWaveLine(&p, KindBackground, params.PeakHeight, params.WaveWidth, params.SpanWidth)
		p.RLineTo(0, top-baseline)
		p.LineTo(0, top)
	case KindDarkWave:
		bottom := float64(params.HeaderBottom)
		p.MoveTo(0, bottom)
		p.LineTo(0, baseline)
		AppendWaveLine(&p, KindDarkWave, params.PeakHeight, params.WaveWidth, params.SpanWidth)
		p.RLineTo(0, bottom-baseline)
		p.LineTo(0, bottom)
	case KindLightWave:
		// Band between the light line and the dark line, traced out along
		// one and back along the other.
		p.MoveTo(0, baseline)
		AppendWaveLine(&p, KindLightWave, params.PeakHeight, params.WaveWidth, params.SpanWidth)
		appendWaveLineReversed(&p, KindDarkWave, params.PeakHeight, params.WaveWidth, params.SpanWidth)
	default:
		return Path{}, fmt.Errorf("unknown wave kind %v", kind)
	}
	p.Close()
	return p, nil
}

// Scene holds the three wave contours for one frame.
type Scene struct {
	Background Path
	Dark       Path
	Light      Path
}

// BuildScene builds all three contours from the same parameters.
func BuildScene(params Params) (Scene, error) {
	var s Scene
	var err error
	if s.Background, err = BuildWavePath(KindBackground, params); err != nil {
		return Scene{}, err
	}
	if s.Dark, err = BuildWavePath(KindDarkWave, params); err != nil {
		return Scene{}, err
	}
	if s.Light, err = BuildWavePath(KindLightWave, params); err != nil {
		return Scene{}, err
	}
	return s, nil
}

// ============================================================================
// DECORATIONS
// ============================================================================

// SunRays is the number of rays around the sun disc.
const SunRays = 12

// SunPath returns the sun centred on the origin: a star of rays around a
// ring gap and an inner disc. Fill it with the even-odd rule.
func SunPath(outer, inner, shine, rotationDeg float64) Path {
	var p Path
	dis := outer + shine
	step := math.Pi / SunRays
	p.MoveTo(0, -dis)
	for i, a := 0, step; i < SunRays; i, a = i+1, a+2*step {
		p.LineTo(outer*math.Sin(a), -outer*math.Cos(a))
		p.LineTo(dis*math.Sin(a+step), -dis*math.Cos(a+step))
	}
	p.Close()
	p.AddCircle(0, 0, outer-3)
	p.AddCircle(0, 0, inner)
	if rotationDeg != 0 {
		p = p.Rotate(rotationDeg)
	}
	return p
}

// Circle is one lobe of a cloud silhouette.
type Circle struct {
	X, Y, R float64
}

// Contains reports whether (x, y) lies inside the circle.
func (c Circle) Contains(x, y float64) bool {
	dx, dy := x-c.X, y-c.Y
	return dx*dx+dy*dy <= c.R*c.R
}

// Cloud returns a cloud silhouette fitting a width x height box whose top-left
// corner is the origin.
func Cloud(width, height float64) []Circle {
	return []Circle{
		{X: width * 0.28, Y: height * 0.64, R: height * 0.34},
		{X: width * 0.52, Y: height * 0.44, R: height * 0.42},
		{X: width * 0.76, Y: height * 0.62, R: height * 0.32},
		{X: width * 0.50, Y: height * 0.74, R: height * 0.26},
	}
}
