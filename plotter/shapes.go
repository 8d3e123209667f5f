package plotter

import (
	"math"

	"github.com/golang/glog"

	"github.com/newmatik/gerbtrace-sub000/amprocessor"
	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
	"github.com/newmatik/gerbtrace-sub000/imagetree"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

func param(params []float64, i int) float64 {
	if i < len(params) {
		return params[i]
	}
	return 0
}

// ToolShape returns the shape flashed by t centred on (cx, cy), or nil when
// the tool cannot be drawn.
func ToolShape(t *Tool, cx, cy float64) imagetree.Shape {
	if t.Shape.Type == gbt.AptypeMacro {
		if t.Macro == nil {
			glog.V(1).Infoln("tool", t.Code, "has no macro body, flash dropped")
			return nil
		}
		return amprocessor.Evaluate(t.Macro, t.Shape.Params, cx, cy)
	}

	p := t.Shape.Params
	var base imagetree.Shape
	switch t.Shape.Type {
	case gbt.AptypeCircle:
		base = &imagetree.Circle{Cx: cx, Cy: cy, R: param(p, 0) / 2}
	case gbt.AptypeRectangle:
		w, h := param(p, 0), param(p, 1)
		base = &imagetree.Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
	case gbt.AptypeObround:
		w, h := param(p, 0), param(p, 1)
		base = &imagetree.Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h, R: math.Min(w, h) / 2}
	case gbt.AptypePoly:
		base = &imagetree.Polygon{Points: regularPolygon(cx, cy, param(p, 0), int(param(p, 1)), param(p, 2))}
	default:
		return nil
	}

	if t.Hole == nil || param(t.Hole.Params, 0) <= 0 {
		return base
	}
	return &imagetree.Layered{Shapes: []imagetree.Shape{base, holeShape(t.Hole.Type, t.Hole.Params, cx, cy)}}
}

// regularPolygon places vertices on the circle of the given diameter, the
// first one at rotation degrees. Fewer than one vertex means four.
func regularPolygon(cx, cy, diameter float64, vertices int, rotation float64) []xy.Point {
	if vertices <= 0 {
		vertices = 4
	}
	r := diameter / 2
	start := xy.DegToRad(rotation)
	retVal := make([]xy.Point, vertices)
	for i := range retVal {
		angle := start + xy.TwoPi*float64(i)/float64(vertices)
		retVal[i] = xy.Point{cx + r*math.Cos(angle), cy + r*math.Sin(angle)}
	}
	return retVal
}

func holeShape(kind gbt.GerberApType, params []float64, cx, cy float64) imagetree.Shape {
	w := param(params, 0)
	if kind != gbt.AptypeRectangle {
		return &imagetree.Circle{Cx: cx, Cy: cy, R: w / 2, Erase: true}
	}
	h := param(params, 1)
	if h == 0 {
		h = w
	}
	return &imagetree.Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h, Erase: true}
}
