package gerbparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

const flashProgram = "%FSLAX24Y24*%\n%MOMM*%\n%ADD10C,1.0*%\nD10*\nX50000Y50000D03*\nM02*\n"

func kinds(ast *AST) []NodeKind {
	var retVal []NodeKind
	for _, n := range ast.Children {
		retVal = append(retVal, n.Kind())
	}
	return retVal
}

func TestParse_FlashProgram(t *testing.T) {
	ast := Parse(flashProgram)
	assert.Equal(t, gbt.FileTypeGerber, ast.FileType)
	require.Equal(t, []NodeKind{NodeFormat, NodeUnits, NodeToolDef, NodeToolChange, NodeGraphic, NodeDone}, kinds(ast))

	format := ast.Children[0].(*FormatNode)
	assert.Equal(t, &xy.Format{Int: 2, Dec: 4}, format.Format)
	assert.Equal(t, gbt.ZeroSuppressionLeading, format.ZeroSuppression)
	assert.Equal(t, gbt.CoordModeAbsolute, format.Mode)

	assert.Equal(t, gbt.UnitsMM, ast.Children[1].(*UnitsNode).Units)

	tool := ast.Children[2].(*ToolDefNode)
	assert.Equal(t, "D10", tool.Code)
	assert.Equal(t, ToolShape{Type: gbt.AptypeCircle, Params: []float64{1}}, tool.Shape)
	assert.Nil(t, tool.Hole)

	assert.Equal(t, "D10", ast.Children[3].(*ToolChangeNode).Code)

	g := ast.Children[4].(*GraphicNode)
	assert.Equal(t, gbt.OpcodeD03_FLASH, g.Graphic)
	assert.Equal(t, map[string]string{"x": "50000", "y": "50000"}, g.Coordinates)
	assert.Equal(t, "X50000Y50000D03", flashProgram[g.Range().Start:g.Range().End])
}

func TestParse_OperationWithoutCoordinates(t *testing.T) {
	ast := Parse("G01*D01*")
	require.Equal(t, []NodeKind{NodeInterpolateMode, NodeGraphic}, kinds(ast))
	g := ast.Children[1].(*GraphicNode)
	assert.Equal(t, gbt.OpcodeD01_DRAW, g.Graphic)
	assert.Empty(t, g.Coordinates)

	// only the last node is ever tagged
	ast = Parse("X1Y1D02*D01*")
	require.Len(t, ast.Children, 2)
	assert.Equal(t, gbt.OpcodeD02_MOVE, ast.Children[0].(*GraphicNode).Graphic)
	assert.Equal(t, gbt.OpcodeD01_DRAW, ast.Children[1].(*GraphicNode).Graphic)
	assert.Empty(t, ast.Children[1].(*GraphicNode).Coordinates)
}

func TestParse_BareCoordinate(t *testing.T) {
	ast := Parse("X100Y200*")
	require.Len(t, ast.Children, 1)
	g := ast.Children[0].(*GraphicNode)
	assert.Equal(t, gbt.ActType(0), g.Graphic)
	assert.Equal(t, "X100Y200", "X100Y200"[g.Range().Start:g.Range().End])
}

func TestParse_FormatSpec(t *testing.T) {
	f := Parse("%FSTIX34Y34*%").Children[0].(*FormatNode)
	assert.Equal(t, gbt.ZeroSuppressionTrailing, f.ZeroSuppression)
	assert.Equal(t, gbt.CoordModeIncremental, f.Mode)
	assert.Equal(t, &xy.Format{Int: 3, Dec: 4}, f.Format)

	f = Parse("%FS*%").Children[0].(*FormatNode)
	assert.Nil(t, f.Format)
	assert.Equal(t, gbt.ZeroSuppression(0), f.ZeroSuppression)
	assert.Equal(t, gbt.CoordMode(0), f.Mode)
}

func TestParse_ApertureDefinitions(t *testing.T) {
	ast := Parse("%ADD11R,0.5X0.3X0.1*%%ADD12O,0.5X0.3*%%ADD13P,1X6X30X0.2*%%ADD14C,0.5X0*%%ADD15BOX,2X1*%%ADD16C*%%ADDxx*%")
	require.Len(t, ast.Children, 6)

	rect := ast.Children[0].(*ToolDefNode)
	assert.Equal(t, ToolShape{Type: gbt.AptypeRectangle, Params: []float64{0.5, 0.3}}, rect.Shape)
	assert.Equal(t, &HoleShape{Type: gbt.AptypeCircle, Params: []float64{0.1}}, rect.Hole)

	obround := ast.Children[1].(*ToolDefNode)
	assert.Equal(t, gbt.AptypeObround, obround.Shape.Type)
	assert.Nil(t, obround.Hole)

	poly := ast.Children[2].(*ToolDefNode)
	assert.Equal(t, []float64{1, 6, 30}, poly.Shape.Params)
	assert.Equal(t, []float64{0.2}, poly.Hole.Params)

	assert.Nil(t, ast.Children[3].(*ToolDefNode).Hole, "zero hole diameter")

	macro := ast.Children[4].(*ToolDefNode)
	assert.Equal(t, ToolShape{Type: gbt.AptypeMacro, Params: []float64{2, 1}, MacroName: "BOX"}, macro.Shape)

	bare := ast.Children[5].(*ToolDefNode)
	assert.Equal(t, "D16", bare.Code)
	assert.Equal(t, []float64{0}, bare.Shape.Params)
}

func TestParse_ApertureMacro(t *testing.T) {
	ast := Parse("%AMBOX*0 a box*21,1,$1,$2,0,0,0*%\n%AMEMPTY%")
	require.Len(t, ast.Children, 2)
	m := ast.Children[0].(*ToolMacroNode)
	assert.Equal(t, "BOX", m.Name)
	require.Len(t, m.Blocks, 2)
	assert.Equal(t, "21,1,$1,$2,0,0,0", m.Blocks[1].String())

	empty := ast.Children[1].(*ToolMacroNode)
	assert.Equal(t, "EMPTY", empty.Name)
	assert.Empty(t, empty.Blocks)
}

func TestParse_PolarityAndStepRepeat(t *testing.T) {
	ast := Parse("%LPC*%%LPD*%%SRX3Y2I5.0J4.0*%%SR*%")
	require.Len(t, ast.Children, 4)
	assert.Equal(t, gbt.PolTypeClear, ast.Children[0].(*PolarityNode).Polarity)
	assert.Equal(t, gbt.PolTypeDark, ast.Children[1].(*PolarityNode).Polarity)

	sr := ast.Children[2].(*StepRepeatNode)
	assert.Equal(t, [4]float64{3, 2, 5, 4}, [4]float64{float64(sr.X), float64(sr.Y), sr.I, sr.J})
	closing := ast.Children[3].(*StepRepeatNode)
	assert.Equal(t, [4]float64{1, 1, 0, 0}, [4]float64{float64(closing.X), float64(closing.Y), closing.I, closing.J})
}

func TestParse_GCodes(t *testing.T) {
	ast := Parse("G01*G02*G03*G36*G37*G70*G71*G74*G75*G54D10*G90*G91*G55*")
	require.Equal(t, []NodeKind{
		NodeInterpolateMode, NodeInterpolateMode, NodeInterpolateMode,
		NodeRegionMode, NodeRegionMode, NodeUnits, NodeUnits,
		NodeQuadrantMode, NodeQuadrantMode, NodeToolChange, NodeUnimplemented,
	}, kinds(ast))
	assert.Equal(t, gbt.IPModeCwC, ast.Children[1].(*InterpolateModeNode).Mode)
	assert.True(t, ast.Children[3].(*RegionModeNode).Region)
	assert.False(t, ast.Children[4].(*RegionModeNode).Region)
	assert.Equal(t, gbt.UnitsInch, ast.Children[5].(*UnitsNode).Units)
	assert.Equal(t, gbt.QuadModeSingle, ast.Children[7].(*QuadrantModeNode).Quadrant)
	assert.Equal(t, "G55", ast.Children[10].(*UnimplementedNode).Value)
}

func TestParse_PassThrough(t *testing.T) {
	ast := Parse("G04 made by hand*\n%TF.FileFunction,Copper,L1,Top*%\n%IPPOS*%\nM00*")
	require.Equal(t, []NodeKind{NodeComment, NodeUnimplemented, NodeUnimplemented, NodeDone}, kinds(ast))
	assert.Equal(t, "made by hand", ast.Children[0].(*CommentNode).Text)
	assert.Equal(t, "TF.FileFunction,Copper,L1,Top", ast.Children[1].(*UnimplementedNode).Value)
}

func TestParse_RangesMonotonic(t *testing.T) {
	src := "G04 test*\n%FSLAX26Y26*%\n%MOMM*%\n%AMTHERM*7,0,0,$1,$2,$3,0*%\n%ADD10C,0.100*%\n" +
		"%ADD11THERM,1X0.8X0.1*%\n%LPD*%\nD10*\nX0Y0D02*\nX1000000Y0D01*\nG75*\n" +
		"G03X0Y0I-500000J0D01*\nG36*\nX0Y0D02*\nX100Y0D01*\nX100Y100D01*\nG37*\nD11*\n" +
		"X5000Y5000D03*\nM02*\n"
	ast := Parse(src)
	require.NotEmpty(t, ast.Children)
	for i, n := range ast.Children {
		assert.True(t, n.HasRange(), n.Kind().String())
		if i > 0 {
			assert.LessOrEqual(t, ast.Children[i-1].Range().End, n.Range().Start, n.Kind().String())
		}
	}
}

func TestParseCoordAxes(t *testing.T) {
	assert.Equal(t, map[string]string{"x": "-100", "y": "+200.5", "i": "3", "j": "-4"}, ParseCoordAxes("X-100Y+200.5I3J-4"))
	assert.Equal(t, map[string]string{"x": "1", "y": "2"}, ParseCoordAxes("x1y2"))
	assert.Equal(t, map[string]string{"x": "2"}, ParseCoordAxes("X1X2"))
	assert.Empty(t, ParseCoordAxes("XY"))
}

func TestExtractLetterDelimited(t *testing.T) {
	assert.Equal(t, map[byte]string{'X': "3", 'Y': "2", 'I': "5.0", 'J': "4.0"}, ExtractLetterDelimited("X3Y2I5.0J4.0", "XYIJ"))
	assert.Equal(t, map[byte]string{'X': "4", 'Y': "3", 'I': "2", 'J': "1"}, ExtractLetterDelimited("J1I2Y3X4", "XYIJ"))
	assert.Equal(t, map[byte]string{'Y': "7"}, ExtractLetterDelimited("Y7", "XYIJ"))
}

func TestExport(t *testing.T) {
	out := Parse(flashProgram).Export()
	assert.Equal(t, "gerber", out["filetype"])
	children := out["children"].([]interface{})
	require.Len(t, children, 6)
	format := children[0].(map[string]interface{})
	assert.Equal(t, "format", format["type"])
	assert.Equal(t, []int{2, 4}, format["format"])
	assert.Equal(t, 0, format["sourceStart"])
	flash := children[4].(map[string]interface{})
	assert.Equal(t, "shape", flash["graphic"])
}
