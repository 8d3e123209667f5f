// Package bbox computes axis-aligned bounds over image tree primitives.
// All functions are pure; the empty box is the identity of Merge.
package bbox

import (
	"math"

	"github.com/newmatik/gerbtrace-sub000/imagetree"
)

type BoundingBox = imagetree.BoundingBox

// Empty returns the sentinel that every Expand or Merge replaces.
func Empty() BoundingBox {
	return BoundingBox{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
}

func IsEmpty(b BoundingBox) bool {
	return math.IsInf(b[0], 1)
}

// Expand grows b so that it contains (x, y).
func Expand(b BoundingBox, x, y float64) BoundingBox {
	return BoundingBox{
		math.Min(b[0], x),
		math.Min(b[1], y),
		math.Max(b[2], x),
		math.Max(b[3], y),
	}
}

func Merge(a, b BoundingBox) BoundingBox {
	if IsEmpty(a) {
		return b
	}
	if IsEmpty(b) {
		return a
	}
	return BoundingBox{
		math.Min(a[0], b[0]),
		math.Min(a[1], b[1]),
		math.Max(a[2], b[2]),
		math.Max(a[3], b[3]),
	}
}

// Intersects reports whether two non-empty boxes overlap, edges included.
func Intersects(a, b BoundingBox) bool {
	if IsEmpty(a) || IsEmpty(b) {
		return false
	}
	return a[0] <= b[2] && a[2] >= b[0] && a[1] <= b[3] && a[3] >= b[1]
}

// Contains reports whether (x, y) lies inside b, edges included.
func Contains(b BoundingBox, x, y float64) bool {
	return x >= b[0] && x <= b[2] && y >= b[1] && y <= b[3]
}

// Grow pushes every edge of a non-empty box outwards by d.
func Grow(b BoundingBox, d float64) BoundingBox {
	if IsEmpty(b) {
		return b
	}
	return BoundingBox{b[0] - d, b[1] - d, b[2] + d, b[3] + d}
}

// Shape returns the bounds of a flashed shape. Layered shapes merge every
// member, erased ones included.
func Shape(s imagetree.Shape) BoundingBox {
	switch v := s.(type) {
	case *imagetree.Circle:
		return BoundingBox{v.Cx - v.R, v.Cy - v.R, v.Cx + v.R, v.Cy + v.R}
	case *imagetree.Rect:
		return BoundingBox{v.X, v.Y, v.X + v.W, v.Y + v.H}
	case *imagetree.Polygon:
		b := Empty()
		for _, p := range v.Points {
			b = Expand(b, p[0], p[1])
		}
		return b
	case *imagetree.Outline:
		return Segments(v.Segments)
	case *imagetree.Layered:
		b := Empty()
		for _, sub := range v.Shapes {
			b = Merge(b, Shape(sub))
		}
		return b
	}
	return Empty()
}

// Segments returns the centerline bounds. Arcs add the four axis extrema of
// their circle.
func Segments(segs []imagetree.PathSegment) BoundingBox {
	b := Empty()
	for _, seg := range segs {
		s, e := seg.StartPoint(), seg.EndPoint()
		b = Expand(b, s[0], s[1])
		b = Expand(b, e[0], e[1])
		if arc, ok := seg.(*imagetree.Arc); ok {
			c, r := arc.Center, arc.Radius
			b = Expand(b, c[0]+r, c[1])
			b = Expand(b, c[0]-r, c[1])
			b = Expand(b, c[0], c[1]+r)
			b = Expand(b, c[0], c[1]-r)
		}
	}
	return b
}

// Path returns the centerline bounds grown by half the stroke width.
func Path(segs []imagetree.PathSegment, width float64) BoundingBox {
	return Grow(Segments(segs), width/2)
}

func Graphic(g imagetree.Graphic) BoundingBox {
	switch v := g.(type) {
	case *imagetree.ShapeGraphic:
		return Shape(v.Shape)
	case *imagetree.PathGraphic:
		return Path(v.Segments, v.Width)
	case *imagetree.RegionGraphic:
		return Segments(v.Segments)
	}
	return Empty()
}

// Graphics merges the bounds of every graphic in order.
func Graphics(gs []imagetree.Graphic) BoundingBox {
	b := Empty()
	for _, g := range gs {
		b = Merge(b, Graphic(g))
	}
	return b
}

// OrZero maps the empty sentinel to [0,0,0,0].
func OrZero(b BoundingBox) BoundingBox {
	if IsEmpty(b) {
		return BoundingBox{}
	}
	return b
}
