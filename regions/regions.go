/*
Package regions flattens image tree graphics into polygons and composites
them with polygon clipping, so that dark and clear polarity can be resolved
into the copper actually left on the board.
*/
package regions

import (
	"math"

	"github.com/akavel/polyclip-go"

	"github.com/newmatik/gerbtrace-sub000/imagetree"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

// CircleSegments is the number of chords a full circle is split into.
const CircleSegments = 64

// chord step for arcs in strokes and outlines
const arcStep = xy.TwoPi / CircleSegments

/*####################  contours ##################################
 */

func pt(p xy.Point) polyclip.Point {
	return polyclip.Point{X: p[0], Y: p[1]}
}

func contour(pts []xy.Point) polyclip.Contour {
	retVal := make(polyclip.Contour, 0, len(pts))
	for _, p := range pts {
		retVal = append(retVal, pt(p))
	}
	return retVal
}

// CircleContour approximates the circle counterclockwise, starting at angle 0.
func CircleContour(cx, cy, r float64) polyclip.Contour {
	retVal := make(polyclip.Contour, 0, CircleSegments)
	for i := 0; i < CircleSegments; i++ {
		angle := xy.TwoPi * float64(i) / CircleSegments
		retVal = append(retVal, polyclip.Point{X: cx + r*math.Cos(angle), Y: cy + r*math.Sin(angle)})
	}
	return retVal
}

// RectContour returns the rectangle, with quarter circle corners when r > 0.
func RectContour(x, y, w, h, r float64) polyclip.Contour {
	if r <= 0 {
		return polyclip.Contour{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}
	}
	r = math.Min(r, math.Min(w, h)/2)
	corners := [4]struct{ cx, cy, start float64 }{
		{x + w - r, y + r, -math.Pi / 2},
		{x + w - r, y + h - r, 0},
		{x + r, y + h - r, math.Pi / 2},
		{x + r, y + r, math.Pi},
	}
	quarter := CircleSegments / 4
	retVal := make(polyclip.Contour, 0, 4*(quarter+1))
	for _, c := range corners {
		for i := 0; i <= quarter; i++ {
			angle := c.start + (math.Pi/2)*float64(i)/float64(quarter)
			retVal = append(retVal, polyclip.Point{X: c.cx + r*math.Cos(angle), Y: c.cy + r*math.Sin(angle)})
		}
	}
	return retVal
}

/*####################  shapes and graphics ##################################
 */

// ShapePolygon converts a flashed shape. Layered members are applied in
// order: exposed ones are united, erased ones subtracted.
func ShapePolygon(s imagetree.Shape) polyclip.Polygon {
	switch v := s.(type) {
	case *imagetree.Circle:
		if v.R <= 0 {
			return nil
		}
		return polyclip.Polygon{CircleContour(v.Cx, v.Cy, v.R)}
	case *imagetree.Rect:
		if v.W <= 0 || v.H <= 0 {
			return nil
		}
		return polyclip.Polygon{RectContour(v.X, v.Y, v.W, v.H, v.R)}
	case *imagetree.Polygon:
		if len(v.Points) < 3 {
			return nil
		}
		return polyclip.Polygon{contour(v.Points)}
	case *imagetree.Outline:
		return contourPolygon(v.Segments)
	case *imagetree.Layered:
		var acc polyclip.Polygon
		for _, sub := range v.Shapes {
			acc = apply(acc, ShapePolygon(sub), sub.Erased())
		}
		return acc
	default:
	}
	return nil
}

func contourPolygon(segs []imagetree.PathSegment) polyclip.Polygon {
	pts := imagetree.SamplePoints(segs)
	if len(pts) < 3 {
		return nil
	}
	return polyclip.Polygon{contour(pts)}
}

// GraphicPolygon converts one graphic. Paths become the union of a hull per
// stroke piece with round caps and joins.
func GraphicPolygon(g imagetree.Graphic) polyclip.Polygon {
	switch v := g.(type) {
	case *imagetree.ShapeGraphic:
		return ShapePolygon(v.Shape)
	case *imagetree.RegionGraphic:
		return contourPolygon(v.Segments)
	case *imagetree.PathGraphic:
		return strokePolygon(v.Segments, v.Width)
	default:
	}
	return nil
}

func strokePolygon(segs []imagetree.PathSegment, width float64) polyclip.Polygon {
	hw := width / 2
	if hw <= 0 {
		return nil
	}
	var acc polyclip.Polygon
	for _, seg := range segs {
		pts := []xy.Point{seg.StartPoint(), seg.EndPoint()}
		if a, ok := seg.(*imagetree.Arc); ok {
			pts = imagetree.ArcPoints(a, 1, arcStep)
		}
		acc = apply(acc, polyclip.Polygon{CircleContour(pts[0][0], pts[0][1], hw)}, false)
		for i := 1; i < len(pts); i++ {
			if hull := segmentHull(pts[i-1], pts[i], hw); hull != nil {
				acc = apply(acc, polyclip.Polygon{hull}, false)
			}
			acc = apply(acc, polyclip.Polygon{CircleContour(pts[i][0], pts[i][1], hw)}, false)
		}
	}
	return acc
}

// segmentHull is the rectangle swept by a stroke of half width hw along a-b.
func segmentHull(a, b xy.Point, hw float64) polyclip.Contour {
	d := b.Sub(a)
	l := d.Len()
	if l == 0 {
		return nil
	}
	n := xy.Point{-d[1], d[0]}.Mul(hw / l)
	return contour([]xy.Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)})
}

// apply unites p into acc, or subtracts it when erase is set.
func apply(acc, p polyclip.Polygon, erase bool) polyclip.Polygon {
	switch {
	case len(p) == 0:
		return acc
	case erase && len(acc) == 0:
		return acc
	case erase:
		return acc.Construct(polyclip.DIFFERENCE, p)
	case len(acc) == 0:
		return p
	default:
	}
	return acc.Construct(polyclip.UNION, p)
}

// Composite resolves the whole image in order. Clear graphics remove what
// was drawn before them.
func Composite(tree *imagetree.ImageTree) polyclip.Polygon {
	var acc polyclip.Polygon
	for _, g := range tree.Children {
		acc = apply(acc, GraphicPolygon(g), g.Erased())
	}
	return acc
}

/*####################  measures ##################################
 */

// Area of a clipping result. A contour nested inside an odd number of other
// contours is a hole.
func Area(p polyclip.Polygon) float64 {
	var retVal float64
	for i, c := range p {
		if len(c) < 3 {
			continue
		}
		a := math.Abs(signedArea(c))
		depth := 0
		for j, other := range p {
			if i != j && contains(other, c[0]) {
				depth++
			}
		}
		if depth%2 == 1 {
			retVal -= a
		} else {
			retVal += a
		}
	}
	return retVal
}

func signedArea(c polyclip.Contour) float64 {
	var s float64
	for i := range c {
		j := (i + 1) % len(c)
		s += c[i].X*c[j].Y - c[j].X*c[i].Y
	}
	return s / 2
}

// contains is the even-odd point in polygon test.
func contains(c polyclip.Contour, p polyclip.Point) bool {
	inside := false
	for i, j := 0, len(c)-1; i < len(c); j, i = i, i+1 {
		if (c[i].Y > p.Y) != (c[j].Y > p.Y) &&
			p.X < (c[j].X-c[i].X)*(p.Y-c[i].Y)/(c[j].Y-c[i].Y)+c[i].X {
			inside = !inside
		}
	}
	return inside
}

// Bounds of a polygon as [minX, minY, maxX, maxY]; empty polygons yield zeros.
func Bounds(p polyclip.Polygon) imagetree.BoundingBox {
	if len(p) == 0 {
		return imagetree.BoundingBox{}
	}
	r := p.BoundingBox()
	return imagetree.BoundingBox{r.Min.X, r.Min.Y, r.Max.X, r.Max.Y}
}
