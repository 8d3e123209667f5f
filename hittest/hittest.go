// Package hittest answers which graphics of an image tree lie under a point
// or touch a selection box. Tests are geometric, not just bounding boxes.
package hittest

import (
	"math"

	"github.com/newmatik/gerbtrace-sub000/bbox"
	"github.com/newmatik/gerbtrace-sub000/imagetree"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

// arc sampling for box tests
const (
	arcMinSteps = 8
	arcMaxStep  = math.Pi / 16
)

/* #### point tests #### */

func inCircle(p xy.Point, cx, cy, r float64) bool {
	dx, dy := p[0]-cx, p[1]-cy
	return dx*dx+dy*dy <= r*r
}

// InPolygon is the even-odd test; the contour closes implicitly.
func InPolygon(p xy.Point, pts []xy.Point) bool {
	inside := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if (a[1] > p[1]) != (b[1] > p[1]) && p[0] < (b[0]-a[0])*(p[1]-a[1])/(b[1]-a[1])+a[0] {
			inside = !inside
		}
	}
	return inside
}

// DistToSegment is the distance from p to the segment a-b.
func DistToSegment(p, a, b xy.Point) float64 {
	d := b.Sub(a)
	lenSq := d.Dot(d)
	if lenSq == 0 {
		return xy.Distance(p, a)
	}
	t := math.Max(0, math.Min(1, p.Sub(a).Dot(d)/lenSq))
	return xy.Distance(p, a.Add(d.Mul(t)))
}

// AngleInArc reports whether angle lies on the arc walked from start to end.
func AngleInArc(angle float64, a *imagetree.Arc) bool {
	if math.Abs(a.EndAngle-a.StartAngle) >= xy.TwoPi-1e-12 {
		return true
	}
	norm := func(v float64) float64 { return math.Mod(math.Mod(v, xy.TwoPi)+xy.TwoPi, xy.TwoPi) }
	s, e, v := norm(a.StartAngle), norm(a.EndAngle), norm(angle)
	if a.Counterclockwise {
		if s <= e {
			return v >= s && v <= e
		}
		return v >= s || v <= e
	}
	if e <= s {
		return v >= e && v <= s
	}
	return v >= e || v <= s
}

func nearSegment(p xy.Point, seg imagetree.PathSegment, threshold float64) bool {
	a, ok := seg.(*imagetree.Arc)
	if !ok {
		return DistToSegment(p, seg.StartPoint(), seg.EndPoint()) <= threshold
	}
	d := p.Sub(a.Center)
	if math.Abs(d.Len()-a.Radius) > threshold {
		// the end caps still count
		return xy.Distance(p, a.Start) <= threshold || xy.Distance(p, a.End) <= threshold
	}
	return AngleInArc(math.Atan2(d[1], d[0]), a)
}

// HitPoint reports whether (x, y) falls on g. tolerance widens shapes and
// strokes; regions are tested exactly.
func HitPoint(g imagetree.Graphic, x, y, tolerance float64) bool {
	p := xy.Point{x, y}
	switch v := g.(type) {
	case *imagetree.ShapeGraphic:
		return shapeHitPoint(p, v.Shape, tolerance)
	case *imagetree.PathGraphic:
		hw := v.Width/2 + tolerance
		for _, seg := range v.Segments {
			if nearSegment(p, seg, hw) {
				return true
			}
		}
	case *imagetree.RegionGraphic:
		return InPolygon(p, imagetree.SamplePoints(v.Segments))
	default:
	}
	return false
}

func shapeHitPoint(p xy.Point, s imagetree.Shape, tolerance float64) bool {
	switch v := s.(type) {
	case *imagetree.Circle:
		return inCircle(p, v.Cx, v.Cy, v.R+tolerance)
	case *imagetree.Rect:
		return bbox.Contains(bbox.Grow(bbox.Shape(v), tolerance), p[0], p[1])
	case *imagetree.Polygon:
		return InPolygon(p, v.Points)
	case *imagetree.Outline:
		return InPolygon(p, imagetree.SamplePoints(v.Segments))
	case *imagetree.Layered:
		// the last member covering the point decides
		hit := false
		for _, sub := range v.Shapes {
			if sub.Erased() {
				if hit && shapeHitPoint(p, sub, 0) {
					hit = false
				}
				continue
			}
			if shapeHitPoint(p, sub, tolerance) {
				hit = true
			}
		}
		return hit
	default:
	}
	return false
}

/* #### box tests #### */

// SegmentInBox is the Liang-Barsky test: true when a-b crosses or lies in box.
func SegmentInBox(a, b xy.Point, box imagetree.BoundingBox) bool {
	t0, t1 := 0.0, 1.0
	dx, dy := b[0]-a[0], b[1]-a[1]
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{a[0] - box[0], box[2] - a[0], a[1] - box[1], box[3] - a[1]}
	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return false
			}
			continue
		}
		r := q[i] / p[i]
		if p[i] < 0 {
			t0 = math.Max(t0, r)
		} else {
			t1 = math.Min(t1, r)
		}
		if t0 > t1 {
			return false
		}
	}
	return true
}

func pathSegmentInBox(seg imagetree.PathSegment, box imagetree.BoundingBox) bool {
	a, ok := seg.(*imagetree.Arc)
	if !ok {
		return SegmentInBox(seg.StartPoint(), seg.EndPoint(), box)
	}
	pts := imagetree.ArcPoints(a, arcMinSteps, arcMaxStep)
	for i := 1; i < len(pts); i++ {
		if SegmentInBox(pts[i-1], pts[i], box) {
			return true
		}
	}
	return false
}

func closedPolygonInBox(pts []xy.Point, box imagetree.BoundingBox) bool {
	if len(pts) == 0 {
		return false
	}
	for i := range pts {
		if SegmentInBox(pts[i], pts[(i+1)%len(pts)], box) {
			return true
		}
	}
	// the box may sit entirely inside
	return InPolygon(xy.Point{box[0], box[1]}, pts)
}

// HitBox reports whether g touches box. Strokes are tested against the box
// grown by half their width.
func HitBox(g imagetree.Graphic, box imagetree.BoundingBox) bool {
	if !bbox.Intersects(bbox.Graphic(g), box) {
		return false
	}
	switch v := g.(type) {
	case *imagetree.ShapeGraphic:
		return shapeHitBox(v.Shape, box)
	case *imagetree.PathGraphic:
		grown := bbox.Grow(box, v.Width/2)
		for _, seg := range v.Segments {
			if pathSegmentInBox(seg, grown) {
				return true
			}
		}
	case *imagetree.RegionGraphic:
		for _, seg := range v.Segments {
			if pathSegmentInBox(seg, box) {
				return true
			}
		}
		pts := imagetree.SamplePoints(v.Segments)
		return len(pts) > 2 && InPolygon(xy.Point{(box[0] + box[2]) / 2, (box[1] + box[3]) / 2}, pts)
	default:
	}
	return false
}

func shapeHitBox(s imagetree.Shape, box imagetree.BoundingBox) bool {
	if !bbox.Intersects(bbox.Shape(s), box) {
		return false
	}
	switch v := s.(type) {
	case *imagetree.Circle:
		// closest point of the box to the centre
		px := math.Max(box[0], math.Min(v.Cx, box[2]))
		py := math.Max(box[1], math.Min(v.Cy, box[3]))
		return inCircle(xy.Point{px, py}, v.Cx, v.Cy, v.R)
	case *imagetree.Rect:
		return true
	case *imagetree.Polygon:
		return closedPolygonInBox(v.Points, box)
	case *imagetree.Outline:
		return closedPolygonInBox(imagetree.SamplePoints(v.Segments), box)
	case *imagetree.Layered:
		for _, sub := range v.Shapes {
			if !sub.Erased() && shapeHitBox(sub, box) {
				return true
			}
		}
	default:
	}
	return false
}

/* #### selection #### */

// Select returns the indexes of the children of tree touching box, in order.
func Select(tree *imagetree.ImageTree, box imagetree.BoundingBox) []int {
	var retVal []int
	for i, g := range tree.Children {
		if HitBox(g, box) {
			retVal = append(retVal, i)
		}
	}
	return retVal
}

// At returns the indexes of the children under (x, y), topmost last.
func At(tree *imagetree.ImageTree, x, y, tolerance float64) []int {
	var retVal []int
	for i, g := range tree.Children {
		if HitPoint(g, x, y, tolerance) {
			retVal = append(retVal, i)
		}
	}
	return retVal
}
