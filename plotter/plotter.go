/*
Package plotter walks a command AST and produces the image tree: flashed
shapes, stroked paths and filled regions in command order.

The state machine starts from inch units, a 2.4 format with leading zero
suppression, the origin, linear interpolation, multi quadrant arcs, dark
polarity and region mode off. Path segments accumulate until a command ends
the stroke (tool change, polarity, region mode, end of file, a flash or a
move to a new position).
*/
package plotter

import (
	"regexp"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/golang/glog"

	"github.com/newmatik/gerbtrace-sub000/amprocessor"
	"github.com/newmatik/gerbtrace-sub000/bbox"
	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
	gp "github.com/newmatik/gerbtrace-sub000/gerbparser"
	"github.com/newmatik/gerbtrace-sub000/imagetree"
	"github.com/newmatik/gerbtrace-sub000/srblocks"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

var formatCommentRe = regexp.MustCompile(`(?i)FORMAT[=:\s]*\{?(\d)[:.](\d)`)

// Tool is a registered aperture or drill bit.
type Tool struct {
	Code  string
	Shape gp.ToolShape
	Hole  *gp.HoleShape
	// resolved macro body, nil for standard apertures
	Macro []amprocessor.Block
}

// Width is the stroke width of the tool: its first parameter.
func (t *Tool) Width() float64 {
	if t == nil || len(t.Shape.Params) == 0 {
		return 0
	}
	return t.Shape.Params[0]
}

type state struct {
	settings
	position    xy.Point
	currentTool *Tool
	ipMode      gbt.IPmode
	qMode       gbt.QuadMode
	region      bool
	polarity    gbt.PolType
	tools       *treemap.Map // code -> *Tool
	macros      *treemap.Map // upper-case name -> []amprocessor.Block

	path       []imagetree.PathSegment
	pathTool   *Tool
	pathRanges []gbt.SourceRange

	srBlock  *srblocks.SRBlock
	graphics []imagetree.Graphic
}

func newState(opts []Option) *state {
	s := &state{
		settings: defaultSettings(),
		ipMode:   gbt.IPModeLinear,
		qMode:    gbt.QuadModeMulti,
		polarity: gbt.PolTypeDark,
		tools:    treemap.NewWithStringComparator(),
		macros:   treemap.NewWithStringComparator(),
	}
	for _, o := range opts {
		o(&s.settings)
	}
	return s
}

// Plot interprets ast. It never fails: undefined tools, unknown macros and
// degenerate geometry are dropped or simplified.
func Plot(ast *gp.AST, opts ...Option) *imagetree.ImageTree {
	s := newState(opts)
	s.harvestFormat(ast)
	for _, n := range ast.Children {
		s.process(n)
	}
	s.flush()
	s.closeStepRepeat()

	return &imagetree.ImageTree{
		Units:    s.units,
		Bounds:   bbox.OrZero(bbox.Graphics(s.graphics)),
		Children: s.graphics,
	}
}

// harvestFormat applies units and format ahead of time so that coordinates
// before the declarations decode with the file's own settings.
func (s *state) harvestFormat(ast *gp.AST) {
	declared := false
	for _, n := range ast.Children {
		if f, ok := n.(*gp.FormatNode); ok && f.Format != nil {
			declared = true
		}
	}
	for _, n := range ast.Children {
		switch v := n.(type) {
		case *gp.UnitsNode:
			s.units = v.Units
		case *gp.FormatNode:
			s.applyFormat(v)
		case *gp.CommentNode:
			if declared {
				continue
			}
			if m := formatCommentRe.FindStringSubmatch(v.Text); m != nil {
				s.format = xy.Format{Int: int(m[1][0] - '0'), Dec: int(m[2][0] - '0')}
			}
		default:
		}
	}
}

func (s *state) applyFormat(f *gp.FormatNode) {
	if f.Format != nil {
		s.format = *f.Format
	}
	if f.ZeroSuppression != 0 {
		s.zs = f.ZeroSuppression
	}
}

func (s *state) process(n gp.Node) {
	switch v := n.(type) {
	case *gp.UnitsNode:
		s.units = v.Units
	case *gp.FormatNode:
		s.applyFormat(v)
	case *gp.ToolDefNode:
		s.defineTool(v)
	case *gp.ToolMacroNode:
		s.macros.Put(strings.ToUpper(v.Name), v.Blocks)
	case *gp.ToolChangeNode:
		s.flush()
		if t, found := s.tools.Get(v.Code); found {
			s.currentTool = t.(*Tool)
		} else {
			glog.V(1).Infoln("tool change to undefined tool", v.Code, "ignored")
		}
	case *gp.PolarityNode:
		s.flush()
		s.polarity = v.Polarity
	case *gp.InterpolateModeNode:
		s.ipMode = v.Mode
	case *gp.QuadrantModeNode:
		s.qMode = v.Quadrant
	case *gp.RegionModeNode:
		s.flush()
		s.region = v.Region
	case *gp.StepRepeatNode:
		s.stepRepeat(v)
	case *gp.GraphicNode:
		s.graphic(v)
	case *gp.DoneNode:
		s.flush()
		s.closeStepRepeat()
	default:
		// comments and unimplemented commands draw nothing
	}
}

func (s *state) defineTool(d *gp.ToolDefNode) {
	t := &Tool{Code: d.Code, Shape: d.Shape, Hole: d.Hole}
	if d.Shape.Type == gbt.AptypeMacro {
		if blocks, found := s.macros.Get(strings.ToUpper(d.Shape.MacroName)); found {
			t.Macro = blocks.([]amprocessor.Block)
		} else {
			glog.V(1).Infoln("tool", d.Code, "refers to undefined macro", d.Shape.MacroName)
		}
	}
	s.tools.Put(d.Code, t)
	// the first defined tool is selected implicitly
	if s.currentTool == nil {
		s.currentTool = t
	}
}

func (s *state) erase() bool {
	return s.polarity == gbt.PolTypeClear
}

func (s *state) coord(raw string, fallback float64) float64 {
	return xy.ParseCoordinate(raw, fallback, s.format, s.zs)
}

func rangesOf(n gp.Node) []gbt.SourceRange {
	if !n.HasRange() {
		return nil
	}
	return []gbt.SourceRange{n.Range()}
}

func (s *state) graphic(g *gp.GraphicNode) {
	c := g.Coordinates
	start := s.position
	end := xy.Point{s.coord(c["x"], start[0]), s.coord(c["y"], start[1])}
	from := xy.Point{s.coord(c["x0"], start[0]), s.coord(c["y0"], start[1])}
	offset := xy.Point{s.coord(c["i"], 0), s.coord(c["j"], 0)}

	op := g.Graphic
	if op == 0 && s.region {
		op = gbt.OpcodeD01_DRAW
	}

	switch op {
	case gbt.OpcodeD03_FLASH:
		s.flush()
		if s.currentTool == nil {
			glog.V(1).Infoln("flash without a tool dropped at", end)
			break
		}
		if shape := ToolShape(s.currentTool, end[0], end[1]); shape != nil {
			s.graphics = append(s.graphics, &imagetree.ShapeGraphic{
				Shape:        shape,
				Erase:        s.erase(),
				SourceRanges: rangesOf(g),
			})
		}
	case gbt.OpcodeD02_MOVE:
		// a pen lift in place must not split the stroke
		if end != start {
			s.flush()
		}
		if g.HasRange() {
			s.pathRanges = append(s.pathRanges, g.Range())
		}
	case gbt.OpcodeD01_DRAW:
		if g.HasRange() {
			s.pathRanges = append(s.pathRanges, g.Range())
		}
		if seg := CreateSegment(from, end, offset, s.ipMode, s.qMode, s.arcTolerance); seg != nil {
			s.path = append(s.path, seg)
			s.pathTool = s.currentTool
		}
	case gbt.OpcodeG85_SLOT:
		if s.currentTool == nil {
			glog.V(1).Infoln("slot without a tool dropped at", end)
			break
		}
		s.graphics = append(s.graphics, &imagetree.PathGraphic{
			Width:        s.currentTool.Width(),
			Segments:     []imagetree.PathSegment{&imagetree.Line{Start: from, End: end}},
			Erase:        s.erase(),
			SourceRanges: rangesOf(g),
		})
	default:
	}
	s.position = end
}

// flush turns the pending segments into a region or a path.
func (s *state) flush() {
	if len(s.path) == 0 {
		s.pathRanges = nil
		return
	}
	var ranges []gbt.SourceRange
	if len(s.pathRanges) > 0 {
		ranges = s.pathRanges
	}
	if s.region {
		s.graphics = append(s.graphics, &imagetree.RegionGraphic{
			Segments:     s.path,
			Erase:        s.erase(),
			SourceRanges: ranges,
		})
	} else {
		s.graphics = append(s.graphics, &imagetree.PathGraphic{
			Width:        s.pathTool.Width(),
			Segments:     s.path,
			Erase:        s.erase(),
			SourceRanges: ranges,
		})
	}
	s.path = nil
	s.pathTool = nil
	s.pathRanges = nil
}

/*
############################ step and repeat #####################
*/

// stepRepeat closes the open block, if any, and opens a new one. SR
// commands are inert unless expansion is enabled.
func (s *state) stepRepeat(n *gp.StepRepeatNode) {
	if !s.expandSR {
		return
	}
	s.flush()
	s.closeStepRepeat()
	b := srblocks.New(n.X, n.Y, n.I, n.J, len(s.graphics))
	if b.Repeats() {
		if glog.V(2) {
			glog.Infoln(b.String())
		}
		s.srBlock = b
	}
}

func (s *state) closeStepRepeat() {
	if s.srBlock == nil {
		return
	}
	s.graphics = s.srBlock.Unwind(s.graphics)
	s.srBlock = nil
}
