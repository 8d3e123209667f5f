package imagetree

import (
	"math"

	"github.com/newmatik/gerbtrace-sub000/xy"
)

// ArcStep is the largest angle between two sampled arc points.
const ArcStep = math.Pi / 8

// ArcPoints samples a in its direction of travel, end points included,
// with at least minSteps steps and no step wider than maxStep radians.
func ArcPoints(a *Arc, minSteps int, maxStep float64) []xy.Point {
	sweep := a.Sweep()
	steps := max(minSteps, int(math.Ceil(math.Abs(sweep)/maxStep)))
	retVal := make([]xy.Point, 0, steps+1)
	retVal = append(retVal, a.Start)
	for i := 1; i < steps; i++ {
		angle := a.StartAngle + sweep*float64(i)/float64(steps)
		retVal = append(retVal, xy.Point{
			a.Center[0] + a.Radius*math.Cos(angle),
			a.Center[1] + a.Radius*math.Sin(angle),
		})
	}
	return append(retVal, a.End)
}

// SamplePoints flattens a contour: the start of every segment followed by
// the interior points of arcs.
func SamplePoints(segs []PathSegment) []xy.Point {
	var retVal []xy.Point
	for _, seg := range segs {
		if a, ok := seg.(*Arc); ok {
			pts := ArcPoints(a, 4, ArcStep)
			retVal = append(retVal, pts[:len(pts)-1]...)
			continue
		}
		retVal = append(retVal, seg.StartPoint())
	}
	return retVal
}
