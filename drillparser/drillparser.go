// Package drillparser reads Excellon NC drill files into the same command
// nodes the Gerber grammar produces.
//
// Excellon is line oriented: an optional M48 ... %/M95 header declares units,
// zero handling and tools; the body selects tools and lists hits, routed
// segments and G85 slots. TZ and LZ name the zeros that are kept, so TZ means
// leading zeros are suppressed and LZ means trailing zeros are suppressed,
// the opposite of the Gerber FS letters.
package drillparser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/golang/glog"

	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
	gp "github.com/newmatik/gerbtrace-sub000/gerbparser"
	stor "github.com/newmatik/gerbtrace-sub000/strings_storage"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

var (
	formatCommentRe   = regexp.MustCompile(`(?i)(?:^|[^A-Z])(?:FILE_)?FORMAT[=:\s]*\{?(\d)[:.](\d)`)
	excellonFormatRe  = regexp.MustCompile(`(?i)(?:INCH|METRIC)\s*,\s*(?:TZ|LZ)(?:\s*,\s*([0-9]+)\.([0-9]+))?`)
	suppressTrailRe   = regexp.MustCompile(`(?i)suppress\s*trail`)
	suppressLeadRe    = regexp.MustCompile(`(?i)(suppress\s*lead|keep\s*zeros)`)
	unitsInchRe       = regexp.MustCompile(`(?i)(INCH|english)`)
	unitsMetricRe     = regexp.MustCompile(`(?i)(METRIC|MILLI)`)
	keepTrailingRe    = regexp.MustCompile(`(?i)TZ`)
	keepLeadingRe     = regexp.MustCompile(`(?i)LZ`)
	headerToolRe      = regexp.MustCompile(`(?i)^T(\d+)`)
	toolDiameterRe    = regexp.MustCompile(`(?i)C([\d.]+)`)
	toolChangeRe      = regexp.MustCompile(`^T(\d+)$`)
	bodyToolDefRe     = regexp.MustCompile(`(?i)^T(\d+)(?:F\d+|S\d+)*C([\d.]+)`)
	drillCoordRe      = regexp.MustCompile(`([XYxy])([+-]?\d*\.?\d+)`)
	rapidMoveRe       = regexp.MustCompile(`^G0(?:0|[XY]|$)`)
	routeLineRe       = regexp.MustCompile(`^G(?:01|1[XY]|1$)`)
	repeatHoleRe      = regexp.MustCompile(`^R\d`)
	bareCoordinatesRe = regexp.MustCompile(`(?i)^[XY].+$`)
)

// Fallbacks for files that declare no units or format.
var (
	DefaultFormat          = xy.DefaultFormat
	DefaultZeroSuppression = gbt.ZeroSuppressionLeading
	DefaultUnits           = gbt.UnitsInch
)

type drillParser struct {
	nodes    []gp.Node
	inHeader bool
	units    gbt.Units
	format   *xy.Format
	zs       gbt.ZeroSuppression
	routing  bool
}

// Parse never fails. Unknown lines are skipped.
func Parse(source string) *gp.AST {
	dp := &drillParser{}
	lines := stor.SplitLines(source)
	for l, ok := lines.Next(); ok; l, ok = lines.Next() {
		dp.line(l.Text, l.Range)
	}
	return dp.finish()
}

func (dp *drillParser) push(n gp.Node) {
	dp.nodes = append(dp.nodes, n)
}

func (dp *drillParser) line(line string, r gbt.SourceRange) {
	if strings.HasPrefix(line, ";") {
		comment := strings.TrimSpace(line[1:])
		dp.push(gp.NewComment(comment, r))
		dp.formatFromComment(comment)
		return
	}
	switch line {
	case "M48":
		dp.inHeader = true
		return
	case "%", "M95":
		if dp.inHeader {
			dp.endHeader()
		}
		return
	case "M30", "M00":
		dp.push(gp.NewDone(r))
		return
	}
	if dp.inHeader {
		dp.header(line, r)
		return
	}
	dp.body(line, r)
}

// endHeader emits what the header declared. These nodes have no source text.
func (dp *drillParser) endHeader() {
	dp.inHeader = false
	if dp.units != 0 {
		dp.push(gp.NewUnits(dp.units, gbt.SourceRange{}))
	}
	if dp.format != nil || dp.zs != 0 {
		dp.push(gp.NewFormat(dp.format, dp.zs, gbt.CoordModeAbsolute, gbt.SourceRange{}))
	}
}

func (dp *drillParser) header(line string, r gbt.SourceRange) {
	switch {
	case unitsInchRe.MatchString(line):
		dp.unitsLine(gbt.UnitsInch, line)
	case unitsMetricRe.MatchString(line):
		dp.unitsLine(gbt.UnitsMM, line)
	case headerToolRe.MatchString(line):
		m := headerToolRe.FindStringSubmatch(line)
		if d := toolDiameterRe.FindStringSubmatch(line); d != nil {
			if diameter, err := strconv.ParseFloat(d[1], 64); err == nil && diameter > 0 {
				dp.push(gp.NewCircleTool(toolCode(m[1]), diameter, r))
				return
			}
		}
		glog.V(2).Infoln("drill tool without diameter skipped:", line)
	default:
		// FMAT, ICI, VER and vendor lines carry nothing we use
	}
}

// unitsLine handles INCH/METRIC header lines such as "METRIC,TZ,000.000".
func (dp *drillParser) unitsLine(u gbt.Units, line string) {
	dp.units = u
	if keepTrailingRe.MatchString(line) {
		dp.zs = gbt.ZeroSuppressionLeading
	}
	if keepLeadingRe.MatchString(line) {
		dp.zs = gbt.ZeroSuppressionTrailing
	}
	m := excellonFormatRe.FindStringSubmatch(line)
	if m == nil || m[1] == "" || m[2] == "" {
		return
	}
	dp.format = &xy.Format{Int: len(m[1]), Dec: len(m[2])}
}

func (dp *drillParser) formatFromComment(comment string) {
	if m := formatCommentRe.FindStringSubmatch(comment); m != nil {
		dp.format = &xy.Format{Int: int(m[1][0] - '0'), Dec: int(m[2][0] - '0')}
	}
	if suppressTrailRe.MatchString(comment) {
		dp.zs = gbt.ZeroSuppressionTrailing
	} else if suppressLeadRe.MatchString(comment) {
		dp.zs = gbt.ZeroSuppressionLeading
	}
}

func (dp *drillParser) body(line string, r gbt.SourceRange) {
	if m := toolChangeRe.FindStringSubmatch(line); m != nil {
		dp.push(gp.NewToolChange(toolCode(m[1]), r))
		return
	}
	// some generators define tools in the body right before using them
	if m := bodyToolDefRe.FindStringSubmatch(line); m != nil {
		if diameter, err := strconv.ParseFloat(m[2], 64); err == nil && diameter > 0 {
			dp.push(gp.NewCircleTool(toolCode(m[1]), diameter, r))
			dp.push(gp.NewToolChange(toolCode(m[1]), gbt.SourceRange{}))
		}
		return
	}

	switch line {
	case "M15":
		dp.routing = true
		return
	case "M16", "M17":
		dp.routing = false
		return
	case "M71":
		dp.units = gbt.UnitsMM
		dp.push(gp.NewUnits(dp.units, r))
		return
	case "M72":
		dp.units = gbt.UnitsInch
		dp.push(gp.NewUnits(dp.units, r))
		return
	}

	upper := strings.ToUpper(line)
	switch {
	case strings.Contains(upper, "G85"):
		dp.push(gp.NewGraphic(gbt.OpcodeG85_SLOT, slotCoords(line, strings.Index(upper, "G85")), r))
	case rapidMoveRe.MatchString(upper):
		dp.push(gp.NewGraphic(gbt.OpcodeD02_MOVE, ParseCoords(line), r))
	case routeLineRe.MatchString(upper):
		dp.push(gp.NewGraphic(gbt.OpcodeD01_DRAW, ParseCoords(line), r))
	case bareCoordinatesRe.MatchString(line):
		op := gbt.OpcodeD03_FLASH
		if dp.routing {
			op = gbt.OpcodeD01_DRAW
		}
		dp.push(gp.NewGraphic(op, ParseCoords(line), r))
	case strings.HasPrefix(upper, "G05"), strings.HasPrefix(upper, "G81"), repeatHoleRe.MatchString(line):
		// drill mode selection and repeat patterns are not plotted
	default:
		glog.V(2).Infoln("drill line skipped:", line)
	}
}

// finish puts default units and format in front when the file declared none.
func (dp *drillParser) finish() *gp.AST {
	var hasUnits, hasFormat bool
	for _, n := range dp.nodes {
		switch n.(type) {
		case *gp.UnitsNode:
			hasUnits = true
		case *gp.FormatNode:
			hasFormat = true
		}
	}
	if !hasUnits {
		u := dp.units
		if u == 0 {
			u = DefaultUnits
		}
		dp.nodes = append([]gp.Node{gp.NewUnits(u, gbt.SourceRange{})}, dp.nodes...)
	}
	if !hasFormat {
		f, zs := dp.format, dp.zs
		if f == nil {
			df := DefaultFormat
			f = &df
		}
		if zs == 0 {
			zs = DefaultZeroSuppression
		}
		dp.nodes = append([]gp.Node{gp.NewFormat(f, zs, gbt.CoordModeAbsolute, gbt.SourceRange{})}, dp.nodes...)
	}
	return &gp.AST{FileType: gbt.FileTypeDrill, Children: dp.nodes}
}

// toolCode drops leading zeros: "01" -> "T1".
func toolCode(digits string) string {
	digits = strings.TrimLeft(digits, "0")
	if digits == "" {
		digits = "0"
	}
	return "T" + digits
}

// ParseCoords maps the X and Y words of a drill line to their raw digits.
func ParseCoords(s string) map[string]string {
	retVal := make(map[string]string)
	for _, m := range drillCoordRe.FindAllStringSubmatch(s, -1) {
		retVal[strings.ToLower(m[1])] = m[2]
	}
	return retVal
}

// slotCoords reads "X..Y..G85X..Y..": the words before G85 are the slot start
// (x0, y0), the words after it the end.
func slotCoords(line string, g85 int) map[string]string {
	retVal := ParseCoords(line[g85+3:])
	for axis, v := range ParseCoords(line[:g85]) {
		retVal[axis+"0"] = v
	}
	return retVal
}
