package plotter

import (
	"math"

	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
	"github.com/newmatik/gerbtrace-sub000/imagetree"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

const (
	// arcs with a smaller radius are drawn as lines
	minArcRadius = 1e-10
	// single quadrant arcs may exceed 90 degrees by this much
	quadrantSlack = 0.01
)

// CreateSegment builds the segment from start to end in the current
// interpolation mode. offset is the (I, J) centre offset from start.
func CreateSegment(start, end, offset xy.Point, ipMode gbt.IPmode, qMode gbt.QuadMode, fullCircleTolerance float64) imagetree.PathSegment {
	if ipMode != gbt.IPModeCwC && ipMode != gbt.IPModeCCwC {
		return &imagetree.Line{Start: start, End: end}
	}
	ccw := ipMode == gbt.IPModeCCwC

	center := start.Add(offset)
	radius := xy.Distance(start, center)
	if radius < minArcRadius {
		return &imagetree.Line{Start: start, End: end}
	}

	if qMode == gbt.QuadModeSingle {
		center = singleQuadrantCenter(start, end, offset, ccw)
		return &imagetree.Arc{
			Start:            start,
			End:              end,
			Center:           center,
			Radius:           xy.Distance(start, center),
			StartAngle:       angleOf(start, center),
			EndAngle:         angleOf(end, center),
			Counterclockwise: ccw,
		}
	}

	startAngle := angleOf(start, center)
	endAngle := angleOf(end, center)
	// coincident end points make a full circle
	if xy.Distance(start, end) < radius*fullCircleTolerance {
		if ccw {
			endAngle = startAngle + xy.TwoPi
		} else {
			endAngle = startAngle - xy.TwoPi
		}
	}
	return &imagetree.Arc{
		Start:            start,
		End:              end,
		Center:           center,
		Radius:           radius,
		StartAngle:       startAngle,
		EndAngle:         endAngle,
		Counterclockwise: ccw,
	}
}

// angleOf returns the direction of p seen from center, in [0, 2π].
func angleOf(p, center xy.Point) float64 {
	d := p.Sub(center)
	return xy.LimitAngle(math.Atan2(d[1], d[0]))
}

// singleQuadrantCenter picks, among the four sign combinations of the
// unsigned offset, the centre whose sweep stays within a quadrant and whose
// distances to start and end agree best.
func singleQuadrantCenter(start, end, offset xy.Point, ccw bool) xy.Point {
	i, j := math.Abs(offset[0]), math.Abs(offset[1])
	candidates := [4]xy.Point{
		{start[0] + i, start[1] + j},
		{start[0] - i, start[1] + j},
		{start[0] + i, start[1] - j},
		{start[0] - i, start[1] - j},
	}
	retVal := candidates[0]
	bestError := math.Inf(1)
	for _, c := range candidates {
		sa := math.Atan2(start[1]-c[1], start[0]-c[0])
		ea := math.Atan2(end[1]-c[1], end[0]-c[0])
		sweep := sa - ea
		if ccw {
			sweep = ea - sa
		}
		for sweep < 0 {
			sweep += xy.TwoPi
		}
		if sweep > math.Pi/2+quadrantSlack {
			continue
		}
		if e := math.Abs(xy.Distance(start, c) - xy.Distance(end, c)); e < bestError {
			bestError = e
			retVal = c
		}
	}
	return retVal
}
