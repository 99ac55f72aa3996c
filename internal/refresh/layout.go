package refresh

import (
	"io"
	"log/slog"
)

// ChildRole tags a contained view with its part in the layout.
type ChildRole int

const (
	RoleNone ChildRole = iota
	RoleHeader
	RoleFooter
)

func (r ChildRole) String() string {
	switch r {
	case RoleNone:
		return "none"
	case RoleHeader:
		return "header"
	case RoleFooter:
		return "footer"
	}
	return "unknown"
}

// Child is one vertically stacked view, measured in px.
type Child struct {
	Name         string
	Role         ChildRole
	Height       int
	TopMargin    int
	BottomMargin int
}

// Container stacks children top to bottom and knows which one is the
// header. It carries no drawing or gesture logic.
type Container struct {
	children []Child
	logger   *slog.Logger
}

func NewContainer(logger *slog.Logger) *Container {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Container{logger: logger}
}

// Add appends a child. A second header or footer is kept in the stack but
// ignored for its role; the first one wins.
func (c *Container) Add(child Child) {
	if child.Role != RoleNone {
		if _, idx := c.find(child.Role); idx >= 0 {
			c.logger.Warn("duplicate child role, keeping the first",
				"role", child.Role.String(),
				"kept", c.children[idx].Name,
				"ignored", child.Name)
		}
	}
	c.children = append(c.children, child)
}

// Remove drops the first child with the given name.
func (c *Container) Remove(name string) bool {
	for i, ch := range c.children {
		if ch.Name == name {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return true
		}
	}
	return false
}

// Reset removes every child.
func (c *Container) Reset() {
	c.children = c.children[:0]
}

// Children returns a copy of the stacked children.
func (c *Container) Children() []Child {
	out := make([]Child, len(c.children))
	copy(out, c.children)
	return out
}

func (c *Container) find(role ChildRole) (Child, int) {
	for i, ch := range c.children {
		if ch.Role == role {
			return ch, i
		}
	}
	return Child{}, -1
}

// Header returns the first header-role child and its index.
func (c *Container) Header() (Child, int, bool) {
	ch, i := c.find(RoleHeader)
	return ch, i, i >= 0
}

// Footer returns the first footer-role child and its index.
func (c *Container) Footer() (Child, int, bool) {
	ch, i := c.find(RoleFooter)
	return ch, i, i >= 0
}

// Top is the y of child i's top edge.
func (c *Container) Top(i int) int {
	y := 0
	for j := 0; j < i && j < len(c.children); j++ {
		ch := c.children[j]
		y += ch.TopMargin + ch.Height + ch.BottomMargin
	}
	if i < len(c.children) {
		y += c.children[i].TopMargin
	}
	return y
}

func (c *Container) bottom(i int) int {
	ch := c.children[i]
	return c.Top(i) + ch.Height + ch.BottomMargin
}

// HeaderBottom is the bottom edge of the header child, or of the first child
// when none is tagged. An empty container reports fallback.
func (c *Container) HeaderBottom(fallback int) int {
	if len(c.children) == 0 {
		return fallback
	}
	if _, i, ok := c.Header(); ok {
		return c.bottom(i)
	}
	return c.bottom(0)
}

// ContentHeight is the total stacked height.
func (c *Container) ContentHeight() int {
	if len(c.children) == 0 {
		return 0
	}
	return c.bottom(len(c.children) - 1)
}

// ScrollBottom is the largest offset that still shows content in a
// viewport of the given height.
func (c *Container) ScrollBottom(viewport int) int {
	if b := c.ContentHeight() - viewport; b > 0 {
		return b
	}
	return 0
}

// ChildAt returns the child whose box, margins included, covers content
// offset y, together with its index.
func (c *Container) ChildAt(y int) (Child, int, bool) {
	if y < 0 {
		return Child{}, -1, false
	}
	top := 0
	for i, ch := range c.children {
		next := top + ch.TopMargin + ch.Height + ch.BottomMargin
		if y < next {
			return ch, i, true
		}
		top = next
	}
	return Child{}, -1, false
}
