package gerbparser

import (
	"github.com/newmatik/gerbtrace-sub000/amprocessor"
	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

type NodeKind int

const (
	NodeUnits NodeKind = iota + 1
	NodeFormat
	NodeToolDef
	NodeToolMacro
	NodeToolChange
	NodePolarity
	NodeStepRepeat
	NodeInterpolateMode
	NodeRegionMode
	NodeQuadrantMode
	NodeGraphic
	NodeComment
	NodeDone
	NodeUnimplemented
)

func (nk NodeKind) String() string {
	switch nk {
	case NodeUnits:
		return "units"
	case NodeFormat:
		return "format"
	case NodeToolDef:
		return "toolDef"
	case NodeToolMacro:
		return "toolMacro"
	case NodeToolChange:
		return "toolChange"
	case NodePolarity:
		return "polarity"
	case NodeStepRepeat:
		return "stepRepeat"
	case NodeInterpolateMode:
		return "interpolateMode"
	case NodeRegionMode:
		return "regionMode"
	case NodeQuadrantMode:
		return "quadrantMode"
	case NodeGraphic:
		return "graphic"
	case NodeComment:
		return "comment"
	case NodeDone:
		return "done"
	case NodeUnimplemented:
		return "unimplemented"
	default:
	}
	return "unknown"
}

// Node is one command of the AST. The set of implementations is closed;
// consumers switch on the concrete type.
type Node interface {
	Kind() NodeKind
	Range() gbt.SourceRange
	// false for nodes synthesized without source text
	HasRange() bool
	node()
}

// Located carries the source range of a node.
type Located struct {
	Source gbt.SourceRange
}

func (l *Located) Range() gbt.SourceRange { return l.Source }
func (l *Located) HasRange() bool         { return !l.Source.IsEmpty() }
func (l *Located) node()                  {}

func at(r gbt.SourceRange) Located { return Located{Source: r} }

// AST is the parse result shared by the Gerber and the drill grammars.
type AST struct {
	FileType gbt.FileType
	Children []Node
}

type UnitsNode struct {
	Located
	Units gbt.Units
}

// FormatNode fields are optional: a nil Format or a zero enum means the
// directive did not say.
type FormatNode struct {
	Located
	Format          *xy.Format
	ZeroSuppression gbt.ZeroSuppression
	Mode            gbt.CoordMode
}

type ToolShape struct {
	Type   gbt.GerberApType
	Params []float64
	// set for AptypeMacro
	MacroName string
}

type HoleShape struct {
	Type   gbt.GerberApType
	Params []float64
}

type ToolDefNode struct {
	Located
	Code  string
	Shape ToolShape
	Hole  *HoleShape
}

type ToolMacroNode struct {
	Located
	Name   string
	Blocks []amprocessor.Block
}

type ToolChangeNode struct {
	Located
	Code string
}

type PolarityNode struct {
	Located
	Polarity gbt.PolType
}

type StepRepeatNode struct {
	Located
	X int
	Y int
	I float64
	J float64
}

type InterpolateModeNode struct {
	Located
	Mode gbt.IPmode
}

type RegionModeNode struct {
	Located
	Region bool
}

type QuadrantModeNode struct {
	Located
	Quadrant gbt.QuadMode
}

// GraphicNode holds raw coordinate strings keyed by lower-case axis ("x", "y",
// "i", "j", and "x0", "y0" for drill slots). Graphic is zero while no
// operation code has been seen.
type GraphicNode struct {
	Located
	Graphic     gbt.ActType
	Coordinates map[string]string
}

type CommentNode struct {
	Located
	Text string
}

type DoneNode struct {
	Located
}

type UnimplementedNode struct {
	Located
	Value string
}

func (n *UnitsNode) Kind() NodeKind           { return NodeUnits }
func (n *FormatNode) Kind() NodeKind          { return NodeFormat }
func (n *ToolDefNode) Kind() NodeKind         { return NodeToolDef }
func (n *ToolMacroNode) Kind() NodeKind       { return NodeToolMacro }
func (n *ToolChangeNode) Kind() NodeKind      { return NodeToolChange }
func (n *PolarityNode) Kind() NodeKind        { return NodePolarity }
func (n *StepRepeatNode) Kind() NodeKind      { return NodeStepRepeat }
func (n *InterpolateModeNode) Kind() NodeKind { return NodeInterpolateMode }
func (n *RegionModeNode) Kind() NodeKind      { return NodeRegionMode }
func (n *QuadrantModeNode) Kind() NodeKind    { return NodeQuadrantMode }
func (n *GraphicNode) Kind() NodeKind         { return NodeGraphic }
func (n *CommentNode) Kind() NodeKind         { return NodeComment }
func (n *DoneNode) Kind() NodeKind            { return NodeDone }
func (n *UnimplementedNode) Kind() NodeKind   { return NodeUnimplemented }

// constructors used by the drill grammar, which shares these nodes

func NewUnits(u gbt.Units, r gbt.SourceRange) *UnitsNode {
	return &UnitsNode{Located: at(r), Units: u}
}

func NewFormat(f *xy.Format, zs gbt.ZeroSuppression, mode gbt.CoordMode, r gbt.SourceRange) *FormatNode {
	return &FormatNode{Located: at(r), Format: f, ZeroSuppression: zs, Mode: mode}
}

func NewCircleTool(code string, diameter float64, r gbt.SourceRange) *ToolDefNode {
	return &ToolDefNode{
		Located: at(r),
		Code:    code,
		Shape:   ToolShape{Type: gbt.AptypeCircle, Params: []float64{diameter}},
	}
}

func NewToolChange(code string, r gbt.SourceRange) *ToolChangeNode {
	return &ToolChangeNode{Located: at(r), Code: code}
}

func NewGraphic(op gbt.ActType, coords map[string]string, r gbt.SourceRange) *GraphicNode {
	if coords == nil {
		coords = map[string]string{}
	}
	return &GraphicNode{Located: at(r), Graphic: op, Coordinates: coords}
}

func NewComment(text string, r gbt.SourceRange) *CommentNode {
	return &CommentNode{Located: at(r), Text: text}
}

func NewDone(r gbt.SourceRange) *DoneNode {
	return &DoneNode{Located: at(r)}
}
