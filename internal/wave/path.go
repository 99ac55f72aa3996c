package wave

import "math"

type Point struct {
	X, Y float64
}

type Op int

const (
	OpMoveTo Op = iota
	OpLineTo
	OpQuadTo
	OpClose
)

// Command is one drawing instruction in absolute coordinates. Ctrl is only
// meaningful for OpQuadTo.
type Command struct {
	Op   Op
	Ctrl Point
	To   Point
}

// Path is a list of drawing commands. Relative helpers resolve against the
// current point, so the stored commands are always absolute.
type Path struct {
	Commands []Command

	cur   Point
	start Point
}

func (p *Path) MoveTo(x, y float64) {
	p.cur = Point{x, y}
	p.start = p.cur
	p.Commands = append(p.Commands, Command{Op: OpMoveTo, To: p.cur})
}

func (p *Path) LineTo(x, y float64) {
	p.cur = Point{x, y}
	p.Commands = append(p.Commands, Command{Op: OpLineTo, To: p.cur})
}

func (p *Path) RLineTo(dx, dy float64) {
	p.LineTo(p.cur.X+dx, p.cur.Y+dy)
}

func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.Commands = append(p.Commands, Command{Op: OpQuadTo, Ctrl: Point{cx, cy}, To: Point{x, y}})
	p.cur = Point{x, y}
}

func (p *Path) RQuadTo(dcx, dcy, dx, dy float64) {
	p.QuadTo(p.cur.X+dcx, p.cur.Y+dcy, p.cur.X+dx, p.cur.Y+dy)
}

// Close ends the current contour and returns the pen to its first point.
func (p *Path) Close() {
	p.Commands = append(p.Commands, Command{Op: OpClose, To: p.start})
	p.cur = p.start
}

// AddCircle appends a closed polygonal circle as its own contour.
func (p *Path) AddCircle(cx, cy, r float64) {
	const steps = 32
	p.MoveTo(cx+r, cy)
	for i := 1; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / steps
		p.LineTo(cx+r*math.Cos(a), cy+r*math.Sin(a))
	}
	p.Close()
}

// Start is the first point of the path.
func (p Path) Start() Point {
	if len(p.Commands) == 0 {
		return Point{}
	}
	return p.Commands[0].To
}

// End is where the pen rests after the last command.
func (p Path) End() Point {
	if len(p.Commands) == 0 {
		return Point{}
	}
	return p.Commands[len(p.Commands)-1].To
}

// Closed reports whether the last contour ends with a close back onto its
// own first point.
func (p Path) Closed() bool {
	if len(p.Commands) == 0 {
		return false
	}
	last := p.Commands[len(p.Commands)-1]
	if last.Op != OpClose {
		return false
	}
	for i := len(p.Commands) - 1; i >= 0; i-- {
		if p.Commands[i].Op == OpMoveTo {
			return last.To == p.Commands[i].To
		}
	}
	return false
}

// Segments counts the quadratic curves in the path.
func (p Path) Segments() int {
	n := 0
	for _, c := range p.Commands {
		if c.Op == OpQuadTo {
			n++
		}
	}
	return n
}

// Rotate returns a copy rotated clockwise by deg degrees around the origin.
func (p Path) Rotate(deg float64) Path {
	rad := deg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	rot := func(pt Point) Point {
		return Point{X: pt.X*cos - pt.Y*sin, Y: pt.X*sin + pt.Y*cos}
	}
	out := Path{Commands: make([]Command, len(p.Commands))}
	for i, c := range p.Commands {
		out.Commands[i] = Command{Op: c.Op, Ctrl: rot(c.Ctrl), To: rot(c.To)}
	}
	out.cur, out.start = rot(p.cur), rot(p.start)
	return out
}

// Flatten approximates the path with polygon rings, sampling each quadratic
// segment at steps points.
func (p Path) Flatten(steps int) [][]Point {
	if steps < 1 {
		steps = 1
	}
	var rings [][]Point
	var ring []Point
	flush := func() {
		if len(ring) > 1 {
			rings = append(rings, ring)
		}
		ring = nil
	}
	for _, c := range p.Commands {
		switch c.Op {
		case OpMoveTo:
			flush()
			ring = []Point{c.To}
		case OpLineTo:
			ring = append(ring, c.To)
		case OpQuadTo:
			if len(ring) == 0 {
				ring = []Point{{}}
			}
			p0 := ring[len(ring)-1]
			for i := 1; i <= steps; i++ {
				t := float64(i) / float64(steps)
				u := 1 - t
				ring = append(ring, Point{
					X: u*u*p0.X + 2*u*t*c.Ctrl.X + t*t*c.To.X,
					Y: u*u*p0.Y + 2*u*t*c.Ctrl.Y + t*t*c.To.Y,
				})
			}
		case OpClose:
			flush()
		}
	}
	flush()
	return rings
}

// ContainsEvenOdd tests (x, y) against flattened rings with the even-odd rule.
func ContainsEvenOdd(rings [][]Point, x, y float64) bool {
	inside := false
	for _, ring := range rings {
		n := len(ring)
		for i, j := 0, n-1; i < n; j, i = i, i+1 {
			a, b := ring[i], ring[j]
			if (a.Y > y) != (b.Y > y) {
				xCross := (b.X-a.X)*(y-a.Y)/(b.Y-a.Y) + a.X
				if x < xCross {
					inside = !inside
				}
			}
		}
	}
	return inside
}
