package amprocessor

import (
	"math"

	"github.com/newmatik/gerbtrace-sub000/imagetree"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

// missing trailing modifiers read as zero
func modifier(mods []float64, i int) float64 {
	if i < len(mods) {
		return mods[i]
	}
	return 0
}

// rotates macro-local points about the macro origin, then moves them to the flash point
func place(pts []xy.Point, rotation, cx, cy float64) []xy.Point {
	offset := xy.Point{cx, cy}
	for i := range pts {
		if rotation != 0 {
			pts[i] = xy.RotatePoint(pts[i], rotation, xy.Point{})
		}
		pts[i] = pts[i].Add(offset)
	}
	return pts
}

// axis-aligned box of size w*h centred at (x, y)
func box(x, y, w, h float64) []xy.Point {
	return []xy.Point{
		{x - w/2, y - h/2},
		{x + w/2, y - h/2},
		{x + w/2, y + h/2},
		{x - w/2, y + h/2},
	}
}

func erased(mods []float64) bool {
	return modifier(mods, 0) == 0
}

// ********************************************* COMMENT *********************************************************
type AMPrimitiveComment struct{}

func (amp AMPrimitiveComment) Type() AMPrimitiveType { return AMPrimitive_Comment }

func (amp AMPrimitiveComment) Render(mods []float64, cx, cy float64) []imagetree.Shape {
	return nil
}

// ********************************************* CIRCLE *********************************************************
// Exposure, Diameter, Center X, Center Y[, Rotation]
type AMPrimitiveCircle struct{}

func (amp AMPrimitiveCircle) Type() AMPrimitiveType { return AMPrimitive_Circle }

func (amp AMPrimitiveCircle) Render(mods []float64, cx, cy float64) []imagetree.Shape {
	center := place([]xy.Point{{modifier(mods, 2), modifier(mods, 3)}}, modifier(mods, 4), cx, cy)[0]
	return []imagetree.Shape{&imagetree.Circle{
		Cx:    center[0],
		Cy:    center[1],
		R:     modifier(mods, 1) / 2,
		Erase: erased(mods),
	}}
}

// ***************************************** VECTOR LINE *****************************************************
// Exposure, Width, Start X, Start Y, End X, End Y, Rotation
type AMPrimitiveVectLine struct{}

func (amp AMPrimitiveVectLine) Type() AMPrimitiveType { return AMPrimitive_VectLine }

func (amp AMPrimitiveVectLine) Render(mods []float64, cx, cy float64) []imagetree.Shape {
	hw := modifier(mods, 1) / 2
	start := xy.Point{modifier(mods, 2), modifier(mods, 3)}
	end := xy.Point{modifier(mods, 4), modifier(mods, 5)}
	length := xy.Distance(start, end)
	if length == 0 {
		return nil
	}
	d := end.Sub(start)
	n := xy.Point{-d[1] / length * hw, d[0] / length * hw}
	pts := []xy.Point{start.Add(n), end.Add(n), end.Sub(n), start.Sub(n)}
	return []imagetree.Shape{&imagetree.Polygon{
		Points: place(pts, modifier(mods, 6), cx, cy),
		Erase:  erased(mods),
	}}
}

// ***************************************** CENTER LINE *****************************************************
// Exposure, Width, Height, Center X, Center Y, Rotation
type AMPrimitiveCenterLine struct{}

func (amp AMPrimitiveCenterLine) Type() AMPrimitiveType { return AMPrimitive_CenterLine }

func (amp AMPrimitiveCenterLine) Render(mods []float64, cx, cy float64) []imagetree.Shape {
	pts := box(modifier(mods, 3), modifier(mods, 4), modifier(mods, 1), modifier(mods, 2))
	return []imagetree.Shape{&imagetree.Polygon{
		Points: place(pts, modifier(mods, 5), cx, cy),
		Erase:  erased(mods),
	}}
}

// ***************************************** LOWER LEFT LINE *************************************************
// Exposure, Width, Height, Lower left X, Lower left Y, Rotation
type AMPrimitiveLowerLeftLine struct{}

func (amp AMPrimitiveLowerLeftLine) Type() AMPrimitiveType { return AMPrimitive_LowerLeftLine }

func (amp AMPrimitiveLowerLeftLine) Render(mods []float64, cx, cy float64) []imagetree.Shape {
	w, h := modifier(mods, 1), modifier(mods, 2)
	pts := box(modifier(mods, 3)+w/2, modifier(mods, 4)+h/2, w, h)
	return []imagetree.Shape{&imagetree.Polygon{
		Points: place(pts, modifier(mods, 5), cx, cy),
		Erase:  erased(mods),
	}}
}

// ***************************************** OUTLINE *****************************************************
// Exposure, # vertices, Start X, Start Y, Subsequent points..., Rotation
type AMPrimitiveOutLine struct{}

func (amp AMPrimitiveOutLine) Type() AMPrimitiveType { return AMPRimitive_OutLine }

func (amp AMPrimitiveOutLine) Render(mods []float64, cx, cy float64) []imagetree.Shape {
	numVerts := int(modifier(mods, 1))
	if numVerts < 0 {
		numVerts = 0
	}
	// never read past the modifier list, whatever the vertex count claims
	if maxVerts := (len(mods) - 4) / 2; numVerts > maxVerts {
		numVerts = max(maxVerts, 0)
	}
	pts := make([]xy.Point, 0, numVerts+1)
	for i := 0; i <= numVerts; i++ {
		pts = append(pts, xy.Point{modifier(mods, 2+i*2), modifier(mods, 3+i*2)})
	}
	rotation := modifier(mods, 2+(numVerts+1)*2)
	return []imagetree.Shape{&imagetree.Polygon{
		Points: place(pts, rotation, cx, cy),
		Erase:  erased(mods),
	}}
}

// ***************************************** POLYGON *****************************************************
// Exposure, # vertices, Center X, Center Y, Diameter, Rotation
type AMPrimitivePolygon struct{}

func (amp AMPrimitivePolygon) Type() AMPrimitiveType { return AMPrimitive_Polygon }

func (amp AMPrimitivePolygon) Render(mods []float64, cx, cy float64) []imagetree.Shape {
	nv := int(modifier(mods, 1))
	if nv <= 0 {
		nv = 3
	}
	pcx, pcy := modifier(mods, 2), modifier(mods, 3)
	r := modifier(mods, 4) / 2
	pts := make([]xy.Point, nv)
	for i := range pts {
		angle := xy.TwoPi * float64(i) / float64(nv)
		pts[i] = xy.Point{pcx + r*math.Cos(angle), pcy + r*math.Sin(angle)}
	}
	return []imagetree.Shape{&imagetree.Polygon{
		Points: place(pts, modifier(mods, 5), cx, cy),
		Erase:  erased(mods),
	}}
}

// ***************************************** MOIRE *****************************************************
// Center X, Center Y, Outer diameter, Ring thickness, Gap, Max rings,
// Crosshair thickness, Crosshair length, Rotation
type AMPrimitiveMoire struct{}

func (amp AMPrimitiveMoire) Type() AMPrimitiveType { return AMPrimitive_Moire }

func (amp AMPrimitiveMoire) Render(mods []float64, cx, cy float64) []imagetree.Shape {
	mx, my := modifier(mods, 0), modifier(mods, 1)
	thickness, gap := modifier(mods, 3), modifier(mods, 4)
	maxRings := int(modifier(mods, 5))
	crossThickness, crossLength := modifier(mods, 6), modifier(mods, 7)
	rotation := modifier(mods, 8)

	center := place([]xy.Point{{mx, my}}, rotation, cx, cy)[0]
	var retVal []imagetree.Shape
	d := modifier(mods, 2)
	for ring := 0; ring < maxRings && d > 0; ring++ {
		retVal = append(retVal, &imagetree.Circle{Cx: center[0], Cy: center[1], R: d / 2})
		inner := d - 2*thickness
		if inner > 0 {
			retVal = append(retVal, &imagetree.Circle{Cx: center[0], Cy: center[1], R: inner / 2, Erase: true})
		}
		d = inner - 2*gap
	}
	if crossThickness > 0 && crossLength > 0 {
		retVal = append(retVal,
			&imagetree.Polygon{Points: place(box(mx, my, crossLength, crossThickness), rotation, cx, cy)},
			&imagetree.Polygon{Points: place(box(mx, my, crossThickness, crossLength), rotation, cx, cy)},
		)
	}
	return retVal
}

// ***************************************** THERMAL *****************************************************
// Center X, Center Y, Outer diameter, Inner diameter, Gap, Rotation.
// Rendered as a ring; the gaps are not cut out.
type AMPrimitiveThermal struct{}

func (amp AMPrimitiveThermal) Type() AMPrimitiveType { return AMPrimitive_Thermal }

func (amp AMPrimitiveThermal) Render(mods []float64, cx, cy float64) []imagetree.Shape {
	center := place([]xy.Point{{modifier(mods, 0), modifier(mods, 1)}}, modifier(mods, 5), cx, cy)[0]
	return []imagetree.Shape{
		&imagetree.Circle{Cx: center[0], Cy: center[1], R: modifier(mods, 2) / 2},
		&imagetree.Circle{Cx: center[0], Cy: center[1], R: modifier(mods, 3) / 2, Erase: true},
	}
}
