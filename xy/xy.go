// Package xy decodes fixed-point Gerber and Excellon coordinates and holds
// the planar helpers shared by the macro evaluator and the plotter.
package xy

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
)

const InchesToMM float64 = 25.4

const (
	TwoPi  = 2 * math.Pi
	HalfPi = math.Pi / 2
)

// PositionTolerance is the distance under which two points are the same point.
const PositionTolerance = 1e-8

// Point is a position in file units.
type Point = mgl64.Vec2

// Function checks against non-number characters in the string
func isNumString(ins string) bool {
	for _, c := range []byte(ins) {
		if (c < '0') || (c > '9') {
			return false
		}
	}
	return true
}

/*
############################ format specification #####################
*/

// Format is the (integer digits, decimal digits) pair of a coordinate format.
type Format struct {
	Int int
	Dec int
}

// DefaultFormat is used when a file declares no format at all.
var DefaultFormat = Format{Int: 2, Dec: 4}

func (f Format) String() string {
	return strconv.Itoa(f.Int) + "." + strconv.Itoa(f.Dec)
}

func (f Format) Total() int {
	return f.Int + f.Dec
}

/*
######################### coordinates #########################################
*/

// ParseCoordinate decodes a raw coordinate string.
// An empty string yields fallback. Strings carrying an explicit decimal point
// (and the bare "0") are parsed as they are. Everything else is a fixed-point
// digit string padded on the suppressed side to f.Total() digits.
// Unparseable input yields fallback.
func ParseCoordinate(raw string, fallback float64, f Format, zs gbt.ZeroSuppression) float64 {
	if raw == "" {
		return fallback
	}
	if strings.Contains(raw, ".") || raw == "0" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fallback
		}
		return v
	}

	var sign = 1.0
	ws := raw
	if strings.HasPrefix(ws, "-") {
		sign = -1.0
		ws = ws[1:]
	} else if strings.HasPrefix(ws, "+") {
		ws = ws[1:]
	}
	if !isNumString(ws) {
		return fallback
	}

	if pad := f.Total() - len(ws); pad > 0 {
		if zs == gbt.ZeroSuppressionTrailing {
			ws = ws + strings.Repeat("0", pad)
		} else {
			ws = strings.Repeat("0", pad) + ws
		}
	}

	n := f.Int
	if n > len(ws) {
		n = len(ws)
	}
	ipart, fpart := ws[:n], ws[n:]
	if ipart == "" {
		ipart = "0"
	}
	if fpart == "" {
		fpart = "0"
	}
	v, err := strconv.ParseFloat(ipart+"."+fpart, 64)
	if err != nil {
		return fallback
	}
	return sign * v
}

/*
######################### angles and points #########################################
*/

func DegToRad(degrees float64) float64 {
	return mgl64.DegToRad(degrees)
}

// LimitAngle brings theta into [0, 2π].
func LimitAngle(theta float64) float64 {
	for theta < 0 {
		theta += TwoPi
	}
	for theta > TwoPi {
		theta -= TwoPi
	}
	return theta
}

// RotatePoint rotates p by degrees counterclockwise about center.
func RotatePoint(p Point, degrees float64, center Point) Point {
	return mgl64.Rotate2D(mgl64.DegToRad(degrees)).Mul2x1(p.Sub(center)).Add(center)
}

func Distance(a, b Point) float64 {
	return math.Hypot(a[0]-b[0], a[1]-b[1])
}

// PositionsEqual compares per axis with PositionTolerance.
func PositionsEqual(a, b Point) bool {
	return math.Abs(a[0]-b[0]) < PositionTolerance && math.Abs(a[1]-b[1]) < PositionTolerance
}

// tolerance is the radius of the circle around first point
// inside of which another point will be treated as equal to the first one
func Equals(a, b Point, tolerance float64) bool {
	return Distance(a, b) < tolerance
}
