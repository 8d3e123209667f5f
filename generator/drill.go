package generator

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
	stor "github.com/newmatik/gerbtrace-sub000/strings_storage"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

// DiameterTolerance is how close an existing tool has to be to be reused.
const DiameterTolerance = 0.001

var (
	drillUnitsRe    = regexp.MustCompile(`(?im)^(INCH|METRIC)\s*,?\s*(TZ|LZ)?(?:\s*,\s*(\d+)\.(\d+))?`)
	drillCommentRe  = regexp.MustCompile(`(?i);\s*(?:FILE_)?FORMAT[=:\s]*\{?(\d)[:.](\d)`)
	decimalCoordRe  = regexp.MustCompile(`(?m)^X[+-]?(\d+)\.(\d+)`)
	toolNumberRe    = regexp.MustCompile(`(?m)^T(\d+)`)
	toolDiameterRe  = regexp.MustCompile(`(?m)^T(\d+).*?C([\d.]+)`)
	drillEndRe      = regexp.MustCompile(`(?m)^(?:M30|M00)`)
	drillFileFormat = FileFormat{
		Units:           gbt.UnitsInch,
		Format:          xy.DefaultFormat,
		ZeroSuppression: gbt.ZeroSuppressionLeading,
	}
)

// ParseDrillFormat reads units, zero handling and coordinate format of an
// Excellon file. The header's TZ keeps trailing zeros, so leading ones are
// suppressed; LZ is the reverse. M71/M72 in the body override the header,
// and a FORMAT comment overrides the header digits.
func ParseDrillFormat(source string) FileFormat {
	retVal := drillFileFormat
	explicitDigits := false

	if m := drillUnitsRe.FindStringSubmatch(source); m != nil {
		if strings.EqualFold(m[1], "METRIC") {
			retVal.Units = gbt.UnitsMM
		}
		switch strings.ToUpper(m[2]) {
		case "TZ":
			retVal.ZeroSuppression = gbt.ZeroSuppressionLeading
		case "LZ":
			retVal.ZeroSuppression = gbt.ZeroSuppressionTrailing
		default:
		}
		if m[3] != "" && m[4] != "" {
			retVal.Format = xy.Format{Int: len(m[3]), Dec: len(m[4])}
			explicitDigits = true
		}
	}

	lines := stor.SplitLines(source)
	for l, ok := lines.Next(); ok; l, ok = lines.Next() {
		switch l.Text {
		case "M71":
			retVal.Units = gbt.UnitsMM
		case "M72":
			retVal.Units = gbt.UnitsInch
		default:
		}
	}

	if m := drillCommentRe.FindStringSubmatch(source); m != nil {
		retVal.Format.Int, _ = strconv.Atoi(m[1])
		retVal.Format.Dec, _ = strconv.Atoi(m[2])
		explicitDigits = true
	}

	// decimal coordinates imply their own format
	if !explicitDigits {
		if m := decimalCoordRe.FindStringSubmatch(source); m != nil {
			retVal.Format = xy.Format{Int: max(len(m[1]), 2), Dec: len(m[2])}
		}
	}
	return retVal
}

// UsesExplicitDecimals reports whether coordinates in source carry a decimal
// point.
func UsesExplicitDecimals(source string) bool {
	return decimalCoordRe.MatchString(source)
}

// NextToolNumber returns one above the highest tool number in source.
func NextToolNumber(source string) int {
	maxTool := 0
	for _, m := range toolNumberRe.FindAllStringSubmatch(source, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > maxTool {
			maxTool = n
		}
	}
	return maxTool + 1
}

type DrillTool struct {
	Number int
	Code   string
}

// FindToolByDiameter returns the first tool defined with the given diameter.
func FindToolByDiameter(source string, diameter, tolerance float64) (DrillTool, bool) {
	for _, m := range toolDiameterRe.FindAllStringSubmatch(source, -1) {
		d, err := strconv.ParseFloat(m[2], 64)
		if err != nil || math.Abs(d-diameter) >= tolerance {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		return DrillTool{Number: n, Code: "T" + strconv.Itoa(n)}, true
	}
	return DrillTool{}, false
}

// FormatDrillCoordinate writes v either with a decimal point and Format.Dec
// decimals or as a zero suppressed fixed-point string.
func FormatDrillCoordinate(v float64, ff FileFormat, explicitDecimals bool) (string, error) {
	cw := &coordWriter{ff: ff, decimals: explicitDecimals}
	retVal := cw.coord(v)
	return retVal, cw.err
}

// DrillCommands is generated Excellon text. ToolDef is empty when an
// existing tool is reused.
type DrillCommands struct {
	ToolDef    string
	ToolSelect string
	Hit        string
}

type DrillHitOpts struct {
	X, Y float64
	// Diameter is in file units.
	Diameter float64
}

// DrillHit writes a single hit, reusing a tool of the same diameter when
// source already has one.
func DrillHit(opts DrillHitOpts, ff FileFormat, source string) (DrillCommands, error) {
	if !(opts.Diameter > 0) {
		return DrillCommands{}, fmt.Errorf("drill hit at (%v, %v): %w", opts.X, opts.Y, ErrNonPositiveDiameter)
	}
	var retVal DrillCommands
	if tool, ok := FindToolByDiameter(source, opts.Diameter, DiameterTolerance); ok {
		retVal.ToolSelect = tool.Code
	} else {
		retVal.ToolSelect = fmt.Sprintf("T%02d", NextToolNumber(source))
		retVal.ToolDef = retVal.ToolSelect + "C" + trimDecimal(opts.Diameter, 4)
	}

	cw := &coordWriter{ff: ff, decimals: UsesExplicitDecimals(source)}
	retVal.Hit = cw.xy(opts.X, opts.Y)
	if cw.err != nil {
		return DrillCommands{}, cw.err
	}
	return retVal, nil
}

/* #### injection #### */

// headerEnd is the offset of the '%' or M95 line closing the M48 header,
// or -1.
func headerEnd(source string) int {
	inHeader := false
	for _, l := range stor.SplitLines(source).ToArray() {
		switch l.Text {
		case "M48":
			inHeader = true
		case "%", "M95":
			if inHeader {
				return l.Range.Start
			}
		default:
		}
	}
	return -1
}

func drillInsertionPoint(source string) int {
	if loc := drillEndRe.FindStringIndex(source); loc != nil {
		return loc[0]
	}
	return len(source)
}

func routingAt(source string, pos int) bool {
	retVal := false
	for _, l := range stor.SplitLines(source).Before(pos) {
		switch strings.ToUpper(l.Text) {
		case "M15":
			retVal = true
		case "M16", "M17":
			retVal = false
		default:
		}
	}
	return retVal
}

// InjectDrill adds a new tool to the header, synthesizing one if the file
// has none, and the tool select and hit in front of M30/M00. Routing is
// switched off first if it is active there.
func InjectDrill(source string, c DrillCommands) string {
	retVal := source
	if c.ToolDef != "" {
		if pos := headerEnd(retVal); pos >= 0 {
			retVal = insertLines(retVal, pos, c.ToolDef)
		} else {
			retVal = insertLines(retVal, 0, "M48\n"+c.ToolDef+"\n%")
		}
	}

	pos := drillInsertionPoint(retVal)
	block := c.ToolSelect + "\n" + c.Hit
	if routingAt(retVal, pos) {
		block = "M16\n" + block
	}
	return insertLines(retVal, pos, block)
}
