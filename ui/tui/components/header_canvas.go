package components

import (
	"strings"

	"waverefresh/internal/refresh"
	"waverefresh/internal/wave"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	halfBlockUpper = "▀"
	halfBlockLower = "▄"

	// curve samples per quadratic segment
	flattenSteps = 8

	cloudAlpha       = 200
	cloudOffsetUpper = 56
	cloudOffsetLower = 16
)

// Palette holds the fill colors of the header layers. An empty string means
// the layer is not drawn.
type Palette struct {
	Background string
	Dark       string
	Light      string
	Sun        string
	Cloud      string
}

// PaletteFromConfig takes the colors from a refresh config. Clouds are white.
func PaletteFromConfig(cfg refresh.Config) Palette {
	return Palette{
		Background: cfg.BackgroundColor,
		Dark:       cfg.WaveColorDark,
		Light:      cfg.WaveColorLight,
		Sun:        cfg.SunColor,
		Cloud:      "#FFFFFF",
	}
}

type cellColors struct {
	top, bottom string
}

// HeaderCanvas rasterises the refresh header into terminal cells. Every cell
// holds two square subpixels drawn with an upper half block, foreground for
// the top one and background for the bottom one.
type HeaderCanvas struct {
	Cols, Rows int
	CellW      int // px per cell column
	CellH      int // px per cell row

	palette Palette
	pixels  []string // Cols x 2*Rows, row major
	styles  map[cellColors]lipgloss.Style
	blended map[[2]string]string
}

func NewHeaderCanvas(cellW, cellH int, palette Palette) *HeaderCanvas {
	if cellW <= 0 {
		cellW = 8
	}
	if cellH <= 0 {
		cellH = 16
	}
	return &HeaderCanvas{
		CellW:   cellW,
		CellH:   cellH,
		palette: palette,
		styles:  make(map[cellColors]lipgloss.Style),
		blended: make(map[[2]string]string),
	}
}

func (c *HeaderCanvas) Init() tea.Cmd {
	return nil
}

// Update is a no-op; the host repaints the canvas from controller snapshots.
func (c *HeaderCanvas) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return c, nil
}

// SetPalette swaps the layer colors. Cached styles are dropped.
func (c *HeaderCanvas) SetPalette(p Palette) {
	c.palette = p
	c.styles = make(map[cellColors]lipgloss.Style)
	c.blended = make(map[[2]string]string)
}

func (c *HeaderCanvas) Resize(cols, rows int) {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	c.Cols, c.Rows = cols, rows
	if n := cols * rows * 2; cap(c.pixels) >= n {
		c.pixels = c.pixels[:n]
	} else {
		c.pixels = make([]string, n)
	}
}

// At returns the color of the subpixel in column col and subpixel row sub,
// or "" when nothing was painted there.
func (c *HeaderCanvas) At(col, sub int) string {
	if col < 0 || col >= c.Cols || sub < 0 || sub >= c.Rows*2 {
		return ""
	}
	return c.pixels[sub*c.Cols+col]
}

// frame is everything Paint needs, flattened once per call.
type frame struct {
	snap     refresh.Snapshot
	sunY     float64
	bg       [][]wave.Point
	dark     [][]wave.Point
	light    [][]wave.Point
	sun      [][]wave.Point
	cloud    []wave.Circle
	cloudW   float64
	cloudH   float64
	showSun  bool
	showWave bool
}

func newFrame(snap refresh.Snapshot, scene wave.Scene, cfg refresh.Config) frame {
	f := frame{
		snap:     snap,
		sunY:     float64(snap.TopY + cfg.SunCenterOffset),
		showWave: snap.State > refresh.StateWaveHidden,
		showSun:  snap.State >= refresh.StateShowSun,
		cloudW:   float64(cfg.CloudWidth),
		cloudH:   float64(cfg.CloudHeight),
	}
	if f.showWave {
		f.bg = scene.Background.Flatten(flattenSteps)
		f.light = scene.Light.Flatten(flattenSteps)
	}
	if snap.State > refresh.StateHeaderHidden {
		f.dark = scene.Dark.Flatten(flattenSteps)
	}
	if f.showSun {
		outer := float64(cfg.SunRadius)
		inner := outer - refresh.SunInnerInset
		f.sun = wave.SunPath(outer, inner, float64(cfg.SunshineLength), snap.SunRotation).Flatten(1)
	}
	if snap.Decorated {
		f.cloud = wave.Cloud(f.cloudW, f.cloudH)
	}
	return f
}

// Paint redraws every subpixel from one controller frame. Screen row 0 is
// the top of the view; content coordinates are offset by TopY and the wave
// contours by the horizontal phase.
func (c *HeaderCanvas) Paint(snap refresh.Snapshot, scene wave.Scene, cfg refresh.Config) {
	f := newFrame(snap, scene, cfg)
	subH := float64(c.CellH) / 2
	for sub := 0; sub < c.Rows*2; sub++ {
		contentY := float64(snap.TopY) + float64(sub)*subH + subH/2
		for col := 0; col < c.Cols; col++ {
			x := float64(col*c.CellW) + float64(c.CellW)/2
			c.pixels[sub*c.Cols+col] = c.sample(&f, x, contentY)
		}
	}
}

func (c *HeaderCanvas) sample(f *frame, x, y float64) string {
	px := ""
	waveX := x - f.snap.HorizontalOffset
	width := float64(f.snap.ViewWidth)

	if f.showWave && c.palette.Background != "" && wave.ContainsEvenOdd(f.bg, waveX, y) {
		px = c.palette.Background
	}
	if f.cloud != nil && c.palette.Cloud != "" {
		top := f.sunY - cloudOffsetUpper
		if inCloud(f.cloud, x-float64(f.snap.CloudX), y-top) {
			px = c.blend(px, c.palette.Cloud, cloudAlpha)
		}
	}
	if f.showSun && c.palette.Sun != "" {
		if wave.ContainsEvenOdd(f.sun, x-width/2, y-f.sunY) {
			px = c.palette.Sun
		}
	}
	if f.cloud != nil && c.palette.Cloud != "" {
		// mirrored around the view centre
		top := f.sunY - cloudOffsetLower
		if inCloud(f.cloud, width-x-float64(f.snap.CloudX), y-top) {
			px = c.palette.Cloud
		}
	}
	if f.dark != nil && c.palette.Dark != "" && wave.ContainsEvenOdd(f.dark, waveX, y) {
		px = c.palette.Dark
	}
	if f.showWave && c.palette.Light != "" && wave.ContainsEvenOdd(f.light, waveX, y) {
		px = c.palette.Light
	}
	return px
}

func inCloud(circles []wave.Circle, x, y float64) bool {
	for _, ci := range circles {
		if ci.Contains(x, y) {
			return true
		}
	}
	return false
}

// blend draws over onto under with alpha out of 255. An unpainted or
// unparsable under pixel takes the overlay color as is.
func (c *HeaderCanvas) blend(under, over string, alpha int) string {
	if under == "" || alpha >= 255 {
		return over
	}
	key := [2]string{under, over}
	if out, ok := c.blended[key]; ok {
		return out
	}
	u, err := colorful.Hex(under)
	if err != nil {
		return over
	}
	o, err := colorful.Hex(over)
	if err != nil {
		return under
	}
	out := u.BlendRgb(o, float64(alpha)/255).Hex()
	c.blended[key] = out
	return out
}

func (c *HeaderCanvas) style(cc cellColors) lipgloss.Style {
	if s, ok := c.styles[cc]; ok {
		return s
	}
	s := lipgloss.NewStyle()
	switch {
	case cc.top != "" && cc.bottom != "":
		s = s.Foreground(lipgloss.Color(cc.top)).Background(lipgloss.Color(cc.bottom))
	case cc.top != "":
		s = s.Foreground(lipgloss.Color(cc.top))
	case cc.bottom != "":
		s = s.Foreground(lipgloss.Color(cc.bottom))
	}
	c.styles[cc] = s
	return s
}

// RowView renders one cell row, merging runs of equal cells into one
// styled span.
func (c *HeaderCanvas) RowView(row int) string {
	if row < 0 || row >= c.Rows {
		return ""
	}
	var b strings.Builder
	top := c.pixels[2*row*c.Cols : (2*row+1)*c.Cols]
	bottom := c.pixels[(2*row+1)*c.Cols : (2*row+2)*c.Cols]
	for col := 0; col < c.Cols; {
		cc := cellColors{top: top[col], bottom: bottom[col]}
		n := 1
		for col+n < c.Cols && top[col+n] == cc.top && bottom[col+n] == cc.bottom {
			n++
		}
		switch {
		case cc.top == "" && cc.bottom == "":
			b.WriteString(strings.Repeat(" ", n))
		case cc.top == "":
			b.WriteString(c.style(cc).Render(strings.Repeat(halfBlockLower, n)))
		default:
			b.WriteString(c.style(cc).Render(strings.Repeat(halfBlockUpper, n)))
		}
		col += n
	}
	return b.String()
}

func (c *HeaderCanvas) View() string {
	rows := make([]string, c.Rows)
	for r := range rows {
		rows[r] = c.RowView(r)
	}
	return strings.Join(rows, "\n")
}
