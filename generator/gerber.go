package generator

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

// DefaultStrokeWidth is the aperture diameter used for outlines and text
// when none is given.
const DefaultStrokeWidth = 0.1

var (
	unitsDefRe    = regexp.MustCompile(`%MO(MM|IN)\*%`)
	formatDefRe   = regexp.MustCompile(`%FS([LT]?)A?X(\d)(\d)Y(\d)(\d)\*%`)
	anyFormatRe   = regexp.MustCompile(`%FS[^%]*\*%`)
	apertureNumRe = regexp.MustCompile(`%ADD(\d+)`)
	apertureDefRe = regexp.MustCompile(`%ADD\d+[^%]*\*%`)
	endOfFileRe   = regexp.MustCompile(`M02\s*\*`)
)

// Commands is generated Gerber text. ApertureDef is empty when the commands
// need no new aperture.
type Commands struct {
	ApertureDef string
	Body        string
}

// ParseGerberFormat reads units and coordinate format from %MO and %FS.
// Missing parameters default to millimetres, 2.6 and leading suppression.
func ParseGerberFormat(source string) (FileFormat, error) {
	retVal := FileFormat{
		Units:           gbt.UnitsMM,
		Format:          xy.Format{Int: 2, Dec: 6},
		ZeroSuppression: gbt.ZeroSuppressionLeading,
	}
	if m := unitsDefRe.FindStringSubmatch(source); m != nil && m[1] == "IN" {
		retVal.Units = gbt.UnitsInch
	}
	if m := formatDefRe.FindStringSubmatch(source); m != nil {
		if m[1] == "T" {
			retVal.ZeroSuppression = gbt.ZeroSuppressionTrailing
		}
		if m[2] != m[4] || m[3] != m[5] {
			return retVal, fmt.Errorf("%w: X%s%s Y%s%s", ErrMixedFormat, m[2], m[3], m[4], m[5])
		}
		retVal.Format.Int, _ = strconv.Atoi(m[2])
		retVal.Format.Dec, _ = strconv.Atoi(m[3])
	}
	return retVal, nil
}

// NextApertureCode returns one above the highest D code defined in source,
// but never less than 10.
func NextApertureCode(source string) int {
	maxCode := 9
	for _, m := range apertureNumRe.FindAllStringSubmatch(source, -1) {
		if code, err := strconv.Atoi(m[1]); err == nil && code > maxCode {
			maxCode = code
		}
	}
	return maxCode + 1
}

func circleAperture(code int, diameter float64) string {
	return fmt.Sprintf("%%ADD%dC,%s*%%", code, trimDecimal(diameter, 6))
}

func strokeWidth(w float64) float64 {
	if w <= 0 {
		return DefaultStrokeWidth
	}
	return w
}

/* #### primitives #### */

type LineOpts struct {
	Start, End xy.Point
	Width      float64
}

// Line draws a straight stroke with a new round aperture.
func Line(opts LineOpts, ff FileFormat, code int) (Commands, error) {
	cw := &coordWriter{ff: ff}
	lines := []string{
		fmt.Sprintf("D%d*", code),
		"G01*",
		cw.xy(opts.Start[0], opts.Start[1]) + "D02*",
		cw.xy(opts.End[0], opts.End[1]) + "D01*",
	}
	if cw.err != nil {
		return Commands{}, cw.err
	}
	return Commands{ApertureDef: circleAperture(code, opts.Width), Body: strings.Join(lines, "\n")}, nil
}

type RectOpts struct {
	X, Y, W, H  float64
	Filled      bool
	StrokeWidth float64
}

// Rect outlines a rectangle anchored at its lower left corner, or fills it
// as a region.
func Rect(opts RectOpts, ff FileFormat, code int) (Commands, error) {
	cw := &coordWriter{ff: ff}
	x0, y0, x1, y1 := opts.X, opts.Y, opts.X+opts.W, opts.Y+opts.H
	contour := []string{
		cw.xy(x1, y0) + "D01*",
		cw.xy(x1, y1) + "D01*",
		cw.xy(x0, y1) + "D01*",
		cw.xy(x0, y0) + "D01*",
	}
	var retVal Commands
	var lines []string
	if opts.Filled {
		lines = append(lines, "G36*", cw.xy(x0, y0)+"D02*", "G01*")
		lines = append(lines, contour...)
		lines = append(lines, "G37*")
	} else {
		retVal.ApertureDef = circleAperture(code, strokeWidth(opts.StrokeWidth))
		lines = append(lines, fmt.Sprintf("D%d*", code), "G01*", cw.xy(x0, y0)+"D02*")
		lines = append(lines, contour...)
	}
	if cw.err != nil {
		return Commands{}, cw.err
	}
	retVal.Body = strings.Join(lines, "\n")
	return retVal, nil
}

type CircleOpts struct {
	Cx, Cy, R   float64
	Filled      bool
	StrokeWidth float64
}

// Circle writes one full counterclockwise turn starting on the positive X
// side, as a region when filled.
func Circle(opts CircleOpts, ff FileFormat, code int) (Commands, error) {
	cw := &coordWriter{ff: ff}
	start := cw.xy(opts.Cx+opts.R, opts.Cy)
	arc := "G03" + start + "I" + cw.coord(-opts.R) + "J" + cw.coord(0) + "D01*"

	var retVal Commands
	var lines []string
	if opts.Filled {
		lines = []string{"G36*", start + "D02*", "G75*", arc, "G37*"}
	} else {
		retVal.ApertureDef = circleAperture(code, strokeWidth(opts.StrokeWidth))
		lines = []string{fmt.Sprintf("D%d*", code), start + "D02*", "G75*", arc}
	}
	if cw.err != nil {
		return Commands{}, cw.err
	}
	retVal.Body = strings.Join(lines, "\n")
	return retVal, nil
}

type TextOpts struct {
	Text        string
	X, Y        float64
	Height      float64
	StrokeWidth float64
}

// Text strokes the upper-cased text with the built-in font, baseline at Y.
func Text(opts TextOpts, ff FileFormat, code int) (Commands, error) {
	cw := &coordWriter{ff: ff}
	lines := []string{fmt.Sprintf("D%d*", code), "G01*"}
	cursor := opts.X
	for _, ch := range strings.ToUpper(opts.Text) {
		g, ok := strokeFont[ch]
		if !ok {
			cursor += missingAdvance * opts.Height
			continue
		}
		for _, stroke := range g.strokes {
			for i, pt := range stroke {
				op := "D01*"
				if i == 0 {
					op = "D02*"
				}
				lines = append(lines, cw.xy(cursor+pt[0]*opts.Height, opts.Y+pt[1]*opts.Height)+op)
			}
		}
		cursor += (g.width + glyphSpacing) * opts.Height
	}
	if cw.err != nil {
		return Commands{}, cw.err
	}
	return Commands{
		ApertureDef: circleAperture(code, strokeWidth(opts.StrokeWidth)),
		Body:        strings.Join(lines, "\n"),
	}, nil
}

/* #### injection #### */

// apertureInsertionPoint is after the last aperture definition, else after
// %FS, else after %MO, else the start of the file.
func apertureInsertionPoint(source string) int {
	if all := apertureDefRe.FindAllStringIndex(source, -1); len(all) > 0 {
		return all[len(all)-1][1]
	}
	if loc := anyFormatRe.FindStringIndex(source); loc != nil {
		return loc[1]
	}
	if loc := unitsDefRe.FindStringIndex(source); loc != nil {
		return loc[1]
	}
	return 0
}

// commandInsertionPoint is right before the line breaks that precede M02*.
func commandInsertionPoint(source string) int {
	loc := endOfFileRe.FindStringIndex(source)
	if loc == nil {
		return len(source)
	}
	pos := loc[0]
	for pos > 0 && (source[pos-1] == '\n' || source[pos-1] == '\r') {
		pos--
	}
	return pos
}

// InjectGerber adds the aperture definition to the header and the body in
// front of the end of file marker.
func InjectGerber(source string, c Commands) string {
	retVal := source
	if c.ApertureDef != "" {
		retVal = insertLines(retVal, apertureInsertionPoint(retVal), c.ApertureDef)
	}
	return insertLines(retVal, commandInsertionPoint(retVal), c.Body)
}
