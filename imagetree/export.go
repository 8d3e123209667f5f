package imagetree

import (
	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

// Export converts the tree into plain maps and slices tagged with a "type"
// key, suitable for YAML or JSON encoding.
func (t *ImageTree) Export() map[string]interface{} {
	children := make([]interface{}, 0, len(t.Children))
	for _, g := range t.Children {
		children = append(children, ExportGraphic(g))
	}
	return map[string]interface{}{
		"units":    t.Units.String(),
		"bounds":   []float64{t.Bounds[0], t.Bounds[1], t.Bounds[2], t.Bounds[3]},
		"children": children,
	}
}

func ExportGraphic(g Graphic) map[string]interface{} {
	retVal := map[string]interface{}{
		"type":  g.Kind().String(),
		"erase": g.Erased(),
	}
	if r := g.Ranges(); len(r) > 0 {
		retVal["sourceRanges"] = exportRanges(r)
	}
	switch v := g.(type) {
	case *ShapeGraphic:
		retVal["shape"] = ExportShape(v.Shape)
	case *PathGraphic:
		retVal["width"] = v.Width
		retVal["segments"] = exportSegments(v.Segments)
	case *RegionGraphic:
		retVal["segments"] = exportSegments(v.Segments)
	}
	return retVal
}

func ExportShape(s Shape) map[string]interface{} {
	retVal := map[string]interface{}{"type": s.Kind().String()}
	if s.Erased() {
		retVal["erase"] = true
	}
	switch v := s.(type) {
	case *Circle:
		retVal["cx"], retVal["cy"], retVal["r"] = v.Cx, v.Cy, v.R
	case *Rect:
		retVal["x"], retVal["y"], retVal["w"], retVal["h"] = v.X, v.Y, v.W, v.H
		if v.R > 0 {
			retVal["r"] = v.R
		}
	case *Polygon:
		retVal["points"] = exportPoints(v.Points)
	case *Outline:
		retVal["segments"] = exportSegments(v.Segments)
	case *Layered:
		shapes := make([]interface{}, 0, len(v.Shapes))
		for _, sub := range v.Shapes {
			shapes = append(shapes, ExportShape(sub))
		}
		retVal["shapes"] = shapes
	}
	return retVal
}

func exportSegments(segs []PathSegment) []interface{} {
	retVal := make([]interface{}, 0, len(segs))
	for _, seg := range segs {
		m := map[string]interface{}{
			"type":  seg.Kind().String(),
			"start": exportPoint(seg.StartPoint()),
			"end":   exportPoint(seg.EndPoint()),
		}
		if arc, ok := seg.(*Arc); ok {
			m["center"] = exportPoint(arc.Center)
			m["radius"] = arc.Radius
			m["startAngle"] = arc.StartAngle
			m["endAngle"] = arc.EndAngle
			m["counterclockwise"] = arc.Counterclockwise
		}
		retVal = append(retVal, m)
	}
	return retVal
}

func exportPoint(p xy.Point) []float64 {
	return []float64{p[0], p[1]}
}

func exportPoints(pts []xy.Point) [][]float64 {
	retVal := make([][]float64, 0, len(pts))
	for _, p := range pts {
		retVal = append(retVal, exportPoint(p))
	}
	return retVal
}

func exportRanges(r []gbt.SourceRange) [][]int {
	retVal := make([][]int, 0, len(r))
	for _, sr := range r {
		retVal = append(retVal, []int{sr.Start, sr.End})
	}
	return retVal
}
