/*
Package gerbparser turns RS-274X source text into a sequence of command nodes.
The node types are shared with the Excellon grammar in drillparser.
*/
package gerbparser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/golang/glog"

	"github.com/newmatik/gerbtrace-sub000/amprocessor"
	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
	lex "github.com/newmatik/gerbtrace-sub000/gerberlexer"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

var (
	coordAxisRe   = regexp.MustCompile(`([XYIJxyij])([+-]?\d*\.?\d+)`)
	apertureDefRe = regexp.MustCompile(`^D(\d+)([A-Za-z_.$][A-Za-z0-9_.$]*)(?:,(.+))?$`)
	formatDigitRe = regexp.MustCompile(`X(\d)(\d)`)
)

type parser struct {
	nodes []Node
}

// Parse never fails; whatever it cannot interpret is kept as an
// UnimplementedNode or skipped.
func Parse(source string) *AST {
	p := &parser{}
	for _, tok := range lex.Tokenize(source) {
		r := tok.Range()
		switch tok.Kind {
		case lex.Extended:
			p.extended(tok.Value, r)
		case lex.GCode:
			p.gcode(tok.Value, r)
		case lex.MCode:
			if tok.Value == "00" || tok.Value == "02" {
				p.push(NewDone(r))
			}
		case lex.DCode:
			p.operation(tok.Value, r)
		case lex.ToolSelect:
			p.push(NewToolChange(tok.Value, r))
		case lex.Coord:
			p.push(NewGraphic(0, ParseCoordAxes(tok.Value), r))
		case lex.Comment:
			p.push(NewComment(tok.Value, r))
		default:
		}
	}
	return &AST{FileType: gbt.FileTypeGerber, Children: p.nodes}
}

func (p *parser) push(n Node) {
	p.nodes = append(p.nodes, n)
}

// ParseCoordAxes maps every axis letter of a coordinate run to its raw digits.
// Keys are lower case; a repeated axis keeps its last value.
func ParseCoordAxes(coords string) map[string]string {
	retVal := make(map[string]string)
	for _, m := range coordAxisRe.FindAllStringSubmatch(coords, -1) {
		retVal[strings.ToLower(m[1])] = m[2]
	}
	return retVal
}

var dcodeOps = map[string]gbt.ActType{
	"01": gbt.OpcodeD01_DRAW,
	"02": gbt.OpcodeD02_MOVE,
	"03": gbt.OpcodeD03_FLASH,
}

// operation tags the coordinate node right before it; only the very last
// node is considered. Without one an empty-coordinate graphic is emitted.
func (p *parser) operation(code string, r gbt.SourceRange) {
	op, ok := dcodeOps[code]
	if !ok {
		return
	}
	if len(p.nodes) > 0 {
		if g, isGraphic := p.nodes[len(p.nodes)-1].(*GraphicNode); isGraphic && g.Graphic == 0 {
			g.Graphic = op
			g.Source.End = r.End
			return
		}
	}
	p.push(NewGraphic(op, nil, r))
}

func (p *parser) gcode(code string, r gbt.SourceRange) {
	switch code {
	case "01":
		p.push(&InterpolateModeNode{Located: at(r), Mode: gbt.IPModeLinear})
	case "02":
		p.push(&InterpolateModeNode{Located: at(r), Mode: gbt.IPModeCwC})
	case "03":
		p.push(&InterpolateModeNode{Located: at(r), Mode: gbt.IPModeCCwC})
	case "36":
		p.push(&RegionModeNode{Located: at(r), Region: true})
	case "37":
		p.push(&RegionModeNode{Located: at(r), Region: false})
	case "70":
		p.push(NewUnits(gbt.UnitsInch, r))
	case "71":
		p.push(NewUnits(gbt.UnitsMM, r))
	case "74":
		p.push(&QuadrantModeNode{Located: at(r), Quadrant: gbt.QuadModeSingle})
	case "75":
		p.push(&QuadrantModeNode{Located: at(r), Quadrant: gbt.QuadModeMulti})
	case "54", "90", "91":
		// historic: tool select prefix, absolute and incremental notation
	default:
		p.push(&UnimplementedNode{Located: at(r), Value: "G" + code})
	}
}

/*
############################ extended commands #####################
*/

func (p *parser) extended(cmd string, r gbt.SourceRange) {
	switch {
	case strings.HasPrefix(cmd, gbt.GerberFormatSpec):
		p.push(parseFormatSpec(cmd, r))
	case strings.HasPrefix(cmd, gbt.GerberUnits):
		u := gbt.UnitsMM
		if strings.ToUpper(cmd[2:]) == "IN" {
			u = gbt.UnitsInch
		}
		p.push(NewUnits(u, r))
	case strings.HasPrefix(cmd, gbt.GerberApertureDef):
		if n := parseApertureDef(cmd[2:], r); n != nil {
			p.push(n)
		}
	case strings.HasPrefix(cmd, gbt.GerberApertureMacroDef):
		p.push(parseApertureMacro(cmd[2:], r))
	case strings.HasPrefix(cmd, gbt.GerberLoadPolarity):
		pol := gbt.PolTypeClear
		if strings.HasPrefix(cmd[2:], "D") {
			pol = gbt.PolTypeDark
		}
		p.push(&PolarityNode{Located: at(r), Polarity: pol})
	case strings.HasPrefix(cmd, gbt.GerberStepRepeat):
		p.push(parseStepRepeat(cmd[2:], r))
	default:
		// attributes (TF, TA, TO, TD) and image parameters pass through
		glog.V(2).Infoln("extended command kept as unimplemented:", cmd)
		p.push(&UnimplementedNode{Located: at(r), Value: cmd})
	}
}

// FS: L anywhere means leading suppression, otherwise T means trailing;
// A means absolute, otherwise I incremental; digits come from X<int><dec>.
func parseFormatSpec(cmd string, r gbt.SourceRange) *FormatNode {
	n := NewFormat(nil, 0, 0, r)
	if strings.Contains(cmd, "L") {
		n.ZeroSuppression = gbt.ZeroSuppressionLeading
	} else if strings.Contains(cmd, "T") {
		n.ZeroSuppression = gbt.ZeroSuppressionTrailing
	}
	if strings.Contains(cmd, "A") {
		n.Mode = gbt.CoordModeAbsolute
	} else if strings.Contains(cmd, "I") {
		n.Mode = gbt.CoordModeIncremental
	}
	if m := formatDigitRe.FindStringSubmatch(cmd); m != nil {
		n.Format = &xy.Format{Int: int(m[1][0] - '0'), Dec: int(m[2][0] - '0')}
	}
	return n
}

// splitParams splits the modifier list of an aperture definition on 'X'.
// Empty modifiers read as 0, malformed ones are dropped.
func splitParams(s string) []float64 {
	if s == "" {
		return nil
	}
	var retVal []float64
	for _, part := range strings.Split(s, "X") {
		part = strings.TrimSpace(part)
		if part == "" {
			retVal = append(retVal, 0)
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			glog.V(2).Infoln("aperture modifier dropped:", part)
			continue
		}
		retVal = append(retVal, v)
	}
	return retVal
}

func param(params []float64, i int) float64 {
	if i < len(params) {
		return params[i]
	}
	return 0
}

// hole returns the hole of a standard aperture when the modifier at index i
// is a positive diameter.
func hole(params []float64, i int) *HoleShape {
	if len(params) > i && params[i] > 0 {
		return &HoleShape{Type: gbt.AptypeCircle, Params: []float64{params[i]}}
	}
	return nil
}

// AD: D<code><name>[,<modifiers>]. C, R, O and P are standard apertures,
// any other name refers to a macro.
func parseApertureDef(cmd string, r gbt.SourceRange) *ToolDefNode {
	m := apertureDefRe.FindStringSubmatch(cmd)
	if m == nil {
		glog.V(1).Infoln("malformed aperture definition skipped:", cmd)
		return nil
	}
	n := &ToolDefNode{Located: at(r), Code: "D" + m[1]}
	params := splitParams(m[3])
	name := m[2]
	switch strings.ToUpper(name) {
	case "C":
		n.Shape = ToolShape{Type: gbt.AptypeCircle, Params: []float64{param(params, 0)}}
		n.Hole = hole(params, 1)
	case "R":
		n.Shape = ToolShape{Type: gbt.AptypeRectangle, Params: []float64{param(params, 0), param(params, 1)}}
		n.Hole = hole(params, 2)
	case "O":
		n.Shape = ToolShape{Type: gbt.AptypeObround, Params: []float64{param(params, 0), param(params, 1)}}
		n.Hole = hole(params, 2)
	case "P":
		n.Shape = ToolShape{Type: gbt.AptypePoly, Params: params[:min(len(params), 3)]}
		n.Hole = hole(params, 3)
	default:
		n.Shape = ToolShape{Type: gbt.AptypeMacro, Params: params, MacroName: name}
	}
	return n
}

// AM: name up to the first '*', the macro body after it.
func parseApertureMacro(cmd string, r gbt.SourceRange) *ToolMacroNode {
	star := strings.IndexByte(cmd, '*')
	if star < 0 {
		return &ToolMacroNode{Located: at(r), Name: strings.TrimSpace(cmd)}
	}
	return &ToolMacroNode{
		Located: at(r),
		Name:    strings.TrimSpace(cmd[:star]),
		Blocks:  amprocessor.ParseBlocks(cmd[star+1:]),
	}
}

// SR: X and Y repeat counts (default 1), I and J step distances (default 0).
// A bare %SR*% closes the current block and parses to the defaults.
func parseStepRepeat(cmd string, r gbt.SourceRange) *StepRepeatNode {
	n := &StepRepeatNode{Located: at(r), X: 1, Y: 1}
	vals := ExtractLetterDelimited(cmd, "XYIJ")
	if v, ok := vals['X']; ok {
		if cnt, err := strconv.Atoi(v); err == nil {
			n.X = cnt
		}
	}
	if v, ok := vals['Y']; ok {
		if cnt, err := strconv.Atoi(v); err == nil {
			n.Y = cnt
		}
	}
	if v, ok := vals['I']; ok {
		n.I, _ = strconv.ParseFloat(v, 64)
	}
	if v, ok := vals['J']; ok {
		n.J, _ = strconv.ParseFloat(v, 64)
	}
	return n
}

// ExtractLetterDelimited splits ins at the first occurrence of every letter in
// template and returns letter:text pairs for the letters present. The letters
// may appear in any order.
func ExtractLetterDelimited(ins, template string) map[byte]string {
	type mark struct {
		letter byte
		pos    int
	}
	var marks []mark
	for i := range template {
		if p := strings.IndexByte(ins, template[i]); p >= 0 {
			marks = append(marks, mark{template[i], p})
		}
	}
	// insertion sort by position, there are at most a handful of letters
	for i := 1; i < len(marks); i++ {
		for j := i; j > 0 && marks[j-1].pos > marks[j].pos; j-- {
			marks[j-1], marks[j] = marks[j], marks[j-1]
		}
	}
	out := make(map[byte]string, len(marks))
	for i, m := range marks {
		end := len(ins)
		if i < len(marks)-1 {
			end = marks[i+1].pos
		}
		out[m.letter] = strings.TrimSpace(ins[m.pos+1 : end])
	}
	return out
}
