// Package imagetree holds the renderer-agnostic output of the plotter: a flat,
// ordered list of positioned drawing primitives plus the overall bounds.
//
// Order is significant. Later graphics may erase earlier ones, so consumers
// composite children front to back exactly as they appear.
package imagetree

import (
	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

// BoundingBox is [minX, minY, maxX, maxY] in file units.
type BoundingBox [4]float64

/*
############################ segments #####################
*/

type SegmentKind int

const (
	SegmentLine SegmentKind = iota + 1
	SegmentArc
)

func (sk SegmentKind) String() string {
	switch sk {
	case SegmentLine:
		return "line"
	case SegmentArc:
		return "arc"
	default:
	}
	return "unknown"
}

// PathSegment is a Line or an Arc.
type PathSegment interface {
	Kind() SegmentKind
	StartPoint() xy.Point
	EndPoint() xy.Point
}

type Line struct {
	Start xy.Point
	End   xy.Point
}

func (l *Line) Kind() SegmentKind    { return SegmentLine }
func (l *Line) StartPoint() xy.Point { return l.Start }
func (l *Line) EndPoint() xy.Point   { return l.End }

// Arc angles are in radians. A full circle has |EndAngle-StartAngle| = 2π.
type Arc struct {
	Start            xy.Point
	End              xy.Point
	Center           xy.Point
	Radius           float64
	StartAngle       float64
	EndAngle         float64
	Counterclockwise bool
}

func (a *Arc) Kind() SegmentKind    { return SegmentArc }
func (a *Arc) StartPoint() xy.Point { return a.Start }
func (a *Arc) EndPoint() xy.Point   { return a.End }

// Sweep returns the signed angular extent walked in the arc's direction.
func (a *Arc) Sweep() float64 {
	sweep := a.EndAngle - a.StartAngle
	if a.Counterclockwise {
		for sweep < 0 {
			sweep += xy.TwoPi
		}
		return sweep
	}
	for sweep > 0 {
		sweep -= xy.TwoPi
	}
	return sweep
}

/*
############################ shapes #####################
*/

type ShapeKind int

const (
	ShapeCircle ShapeKind = iota + 1
	ShapeRect
	ShapePolygon
	ShapeOutline
	ShapeLayered
)

func (sk ShapeKind) String() string {
	switch sk {
	case ShapeCircle:
		return "circle"
	case ShapeRect:
		return "rect"
	case ShapePolygon:
		return "polygon"
	case ShapeOutline:
		return "outline"
	case ShapeLayered:
		return "layered"
	default:
	}
	return "unknown"
}

// Shape is a flashed primitive. Erased reports the erase flag a shape carries
// when it is nested inside a Layered shape.
type Shape interface {
	Kind() ShapeKind
	Erased() bool
}

type Circle struct {
	Cx    float64
	Cy    float64
	R     float64
	Erase bool
}

func (c *Circle) Kind() ShapeKind { return ShapeCircle }
func (c *Circle) Erased() bool    { return c.Erase }

// Rect has its origin at the lower-left corner. R > 0 rounds the corners.
type Rect struct {
	X     float64
	Y     float64
	W     float64
	H     float64
	R     float64
	Erase bool
}

func (r *Rect) Kind() ShapeKind { return ShapeRect }
func (r *Rect) Erased() bool    { return r.Erase }

type Polygon struct {
	Points []xy.Point
	Erase  bool
}

func (p *Polygon) Kind() ShapeKind { return ShapePolygon }
func (p *Polygon) Erased() bool    { return p.Erase }

type Outline struct {
	Segments []PathSegment
	Erase    bool
}

func (o *Outline) Kind() ShapeKind { return ShapeOutline }
func (o *Outline) Erased() bool    { return o.Erase }

// Layered composites Shapes in painter's order; erased entries subtract.
type Layered struct {
	Shapes []Shape
}

func (l *Layered) Kind() ShapeKind { return ShapeLayered }
func (l *Layered) Erased() bool    { return false }

/*
############################ graphics #####################
*/

type GraphicKind int

const (
	GraphicShape GraphicKind = iota + 1
	GraphicPath
	GraphicRegion
)

func (gk GraphicKind) String() string {
	switch gk {
	case GraphicShape:
		return "shape"
	case GraphicPath:
		return "path"
	case GraphicRegion:
		return "region"
	default:
	}
	return "unknown"
}

// Graphic is one child of the image tree.
type Graphic interface {
	Kind() GraphicKind
	Erased() bool
	Ranges() []gbt.SourceRange
}

type ShapeGraphic struct {
	Shape        Shape
	Erase        bool
	SourceRanges []gbt.SourceRange
}

func (g *ShapeGraphic) Kind() GraphicKind         { return GraphicShape }
func (g *ShapeGraphic) Erased() bool              { return g.Erase }
func (g *ShapeGraphic) Ranges() []gbt.SourceRange { return g.SourceRanges }

// PathGraphic is one continuous stroke of the given width.
type PathGraphic struct {
	Width        float64
	Segments     []PathSegment
	Erase        bool
	SourceRanges []gbt.SourceRange
}

func (g *PathGraphic) Kind() GraphicKind         { return GraphicPath }
func (g *PathGraphic) Erased() bool              { return g.Erase }
func (g *PathGraphic) Ranges() []gbt.SourceRange { return g.SourceRanges }

// RegionGraphic is a filled contour; consumers fill it with the even-odd rule.
type RegionGraphic struct {
	Segments     []PathSegment
	Erase        bool
	SourceRanges []gbt.SourceRange
}

func (g *RegionGraphic) Kind() GraphicKind         { return GraphicRegion }
func (g *RegionGraphic) Erased() bool              { return g.Erase }
func (g *RegionGraphic) Ranges() []gbt.SourceRange { return g.SourceRanges }

type ImageTree struct {
	Units    gbt.Units
	Bounds   BoundingBox
	Children []Graphic
}
