package diagram

// Point is an absolute canvas coordinate.
type Point struct {
	X int
	Y int
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point { return Point{X: x, Y: y} }

// Add returns p moved by v.
func (p Point) Add(v Vector) Point { return Point{X: p.X + v.X, Y: p.Y + v.Y} }

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Vector { return Vector{X: p.X - q.X, Y: p.Y - q.Y} }

// Vector is a displacement, typically a mouse or keyboard drag step.
type Vector struct {
	X int
	Y int
}

// Vec is shorthand for Vector{X: x, Y: y}.
func Vec(x, y int) Vector { return Vector{X: x, Y: y} }

// Add returns the sum of v and w.
func (v Vector) Add(w Vector) Vector { return Vector{X: v.X + w.X, Y: v.Y + w.Y} }

// Neg returns -v.
func (v Vector) Neg() Vector { return Vector{X: -v.X, Y: -v.Y} }

// IsZero reports whether v has no displacement on either axis.
func (v Vector) IsZero() bool { return v.X == 0 && v.Y == 0 }

// Manhattan returns |X| + |Y|.
func (v Vector) Manhattan() int { return abs(v.X) + abs(v.Y) }

// Rect is an axis-aligned rectangle. Contains follows the half-open
// convention: the right and bottom edges are outside.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// R is shorthand for Rect{X: x, Y: y, Width: w, Height: h}.
func R(x, y, w, h int) Rect { return Rect{X: x, Y: y, Width: w, Height: h} }

// RectFromPoints returns the smallest rectangle covering a and b, inclusive
// of both points.
func RectFromPoints(a, b Point) Rect {
	x0, x1 := min(a.X, b.X), max(a.X, b.X)
	y0, y1 := min(a.Y, b.Y), max(a.Y, b.Y)
	return Rect{X: x0, Y: y0, Width: x1 - x0 + 1, Height: y1 - y0 + 1}
}

// Right returns the x coordinate one past the right edge.
func (r Rect) Right() int { return r.X + r.Width }

// Bottom returns the y coordinate one past the bottom edge.
func (r Rect) Bottom() int { return r.Y + r.Height }

// IsEmpty reports whether r covers no area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Grow returns r inflated by n on every side.
func (r Rect) Grow(n int) Rect {
	return Rect{X: r.X - n, Y: r.Y - n, Width: r.Width + 2*n, Height: r.Height + 2*n}
}

// Offset returns r moved by v.
func (r Rect) Offset(v Vector) Rect {
	return Rect{X: r.X + v.X, Y: r.Y + v.Y, Width: r.Width, Height: r.Height}
}

// Center returns the middle of r, rounded toward the origin.
func (r Rect) Center() Point { return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2} }

// Intersects reports whether r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	if r.IsEmpty() || o.IsEmpty() {
		return false
	}
	return r.X < o.Right() && o.X < r.Right() && r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Union returns the smallest rectangle covering r and o. An empty operand
// is ignored.
func (r Rect) Union(o Rect) Rect {
	switch {
	case r.IsEmpty():
		return o
	case o.IsEmpty():
		return r
	}
	x0, y0 := min(r.X, o.X), min(r.Y, o.Y)
	x1, y1 := max(r.Right(), o.Right()), max(r.Bottom(), o.Bottom())
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
