package drillparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
	gp "github.com/newmatik/gerbtrace-sub000/gerbparser"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

func kinds(ast *gp.AST) []gp.NodeKind {
	var retVal []gp.NodeKind
	for _, n := range ast.Children {
		retVal = append(retVal, n.Kind())
	}
	return retVal
}

func TestParse_MetricHeader(t *testing.T) {
	src := "M48\nMETRIC,TZ\nT01C0.8\n%\nT01\nX025000Y025000\nM30\n"
	ast := Parse(src)
	assert.Equal(t, gbt.FileTypeDrill, ast.FileType)
	require.Equal(t, []gp.NodeKind{
		gp.NodeToolDef, gp.NodeUnits, gp.NodeFormat, gp.NodeToolChange, gp.NodeGraphic, gp.NodeDone,
	}, kinds(ast))

	tool := ast.Children[0].(*gp.ToolDefNode)
	assert.Equal(t, "T1", tool.Code)
	assert.Equal(t, []float64{0.8}, tool.Shape.Params)
	assert.Equal(t, "T01C0.8", src[tool.Range().Start:tool.Range().End])

	units := ast.Children[1].(*gp.UnitsNode)
	assert.Equal(t, gbt.UnitsMM, units.Units)
	assert.False(t, units.HasRange())

	format := ast.Children[2].(*gp.FormatNode)
	assert.Nil(t, format.Format)
	assert.Equal(t, gbt.ZeroSuppressionLeading, format.ZeroSuppression, "TZ keeps trailing zeros")
	assert.Equal(t, gbt.CoordModeAbsolute, format.Mode)
	assert.False(t, format.HasRange())

	hit := ast.Children[4].(*gp.GraphicNode)
	assert.Equal(t, gbt.OpcodeD03_FLASH, hit.Graphic)
	assert.Equal(t, "X025000Y025000", src[hit.Range().Start:hit.Range().End])
	x := xy.ParseCoordinate(hit.Coordinates["x"], 0, xy.DefaultFormat, format.ZeroSuppression)
	assert.InDelta(t, 2.5, x, 1e-9)
}

func TestParse_ZeroKeepingIsInverted(t *testing.T) {
	type testdata struct {
		header string
		answer gbt.ZeroSuppression
		x      float64
	}
	var tests = []testdata{
		{"INCH,TZ", gbt.ZeroSuppressionLeading, 0.025},
		{"INCH,LZ", gbt.ZeroSuppressionTrailing, 2.5},
		{"METRIC,LZ", gbt.ZeroSuppressionTrailing, 2.5},
	}
	for _, tt := range tests {
		ast := Parse("M48\n" + tt.header + "\n%\nX0250Y0250\n")
		format := ast.Children[1].(*gp.FormatNode)
		assert.Equal(t, tt.answer, format.ZeroSuppression, tt.header)
		hit := ast.Children[2].(*gp.GraphicNode)
		assert.InDelta(t, tt.x, xy.ParseCoordinate(hit.Coordinates["x"], 0, xy.DefaultFormat, format.ZeroSuppression), 1e-9, tt.header)
	}
}

func TestParse_HeaderFormat(t *testing.T) {
	ast := Parse("M48\nMETRIC,LZ,000.000\nM95\n")
	require.Len(t, ast.Children, 2)
	format := ast.Children[1].(*gp.FormatNode)
	assert.Equal(t, &xy.Format{Int: 3, Dec: 3}, format.Format)
	assert.Equal(t, gbt.ZeroSuppressionTrailing, format.ZeroSuppression)
}

func TestParse_Defaults(t *testing.T) {
	ast := Parse("T1\nX1Y1\n")
	require.Equal(t, []gp.NodeKind{gp.NodeFormat, gp.NodeUnits, gp.NodeToolChange, gp.NodeGraphic}, kinds(ast))
	format := ast.Children[0].(*gp.FormatNode)
	assert.Equal(t, &xy.Format{Int: 2, Dec: 4}, format.Format)
	assert.Equal(t, gbt.ZeroSuppressionLeading, format.ZeroSuppression)
	assert.Equal(t, gbt.UnitsInch, ast.Children[1].(*gp.UnitsNode).Units)
}

func TestParse_CommentFormat(t *testing.T) {
	ast := Parse(";FILE_FORMAT=3:3\n; Suppress Trailing zeros\nX1Y1\n")
	require.Equal(t, []gp.NodeKind{gp.NodeFormat, gp.NodeUnits, gp.NodeComment, gp.NodeComment, gp.NodeGraphic}, kinds(ast))
	format := ast.Children[0].(*gp.FormatNode)
	assert.Equal(t, &xy.Format{Int: 3, Dec: 3}, format.Format)
	assert.Equal(t, gbt.ZeroSuppressionTrailing, format.ZeroSuppression)
	assert.Equal(t, "FILE_FORMAT=3:3", ast.Children[2].(*gp.CommentNode).Text)
}

func TestParse_Routing(t *testing.T) {
	ast := Parse("M48\nINCH\n%\nT2\nG00X0Y0\nM15\nG01X1000Y0\nX1000Y1000\nM16\nX5Y5\nG0X1Y1\nG1X2Y2\n")
	var ops []gbt.ActType
	for _, n := range ast.Children {
		if g, ok := n.(*gp.GraphicNode); ok {
			ops = append(ops, g.Graphic)
		}
	}
	assert.Equal(t, []gbt.ActType{
		gbt.OpcodeD02_MOVE, gbt.OpcodeD01_DRAW, gbt.OpcodeD01_DRAW,
		gbt.OpcodeD03_FLASH, gbt.OpcodeD02_MOVE, gbt.OpcodeD01_DRAW,
	}, ops)
}

func TestParse_Slot(t *testing.T) {
	ast := Parse("X0Y0G85X10000Y0\n")
	g := ast.Children[2].(*gp.GraphicNode)
	assert.Equal(t, gbt.OpcodeG85_SLOT, g.Graphic)
	assert.Equal(t, map[string]string{"x0": "0", "y0": "0", "x": "10000", "y": "0"}, g.Coordinates)
}

func TestParse_UnitSwitchAndIgnored(t *testing.T) {
	src := "M71\nG05\nG81\nR3X100\nFMAT,2\nM72\nM00\n"
	ast := Parse(src)
	require.Equal(t, []gp.NodeKind{gp.NodeFormat, gp.NodeUnits, gp.NodeUnits, gp.NodeDone}, kinds(ast))
	assert.Equal(t, gbt.UnitsMM, ast.Children[1].(*gp.UnitsNode).Units)
	assert.True(t, ast.Children[1].HasRange())
	assert.Equal(t, gbt.UnitsInch, ast.Children[2].(*gp.UnitsNode).Units)
	assert.Equal(t, "M00", src[ast.Children[3].Range().Start:ast.Children[3].Range().End])
}

func TestParse_BodyToolDefinition(t *testing.T) {
	ast := Parse("T3C0.5\nX1Y1\n")
	require.Equal(t, []gp.NodeKind{gp.NodeFormat, gp.NodeUnits, gp.NodeToolDef, gp.NodeToolChange, gp.NodeGraphic}, kinds(ast))
	assert.Equal(t, "T3", ast.Children[2].(*gp.ToolDefNode).Code)
	assert.Equal(t, "T3", ast.Children[3].(*gp.ToolChangeNode).Code)
}

func TestParse_CRLFRanges(t *testing.T) {
	src := "M48\r\nINCH,LZ\r\nT1C0.02\r\n%\r\nT1\r\nX1Y1\r\n"
	ast := Parse(src)
	for _, n := range ast.Children {
		if !n.HasRange() {
			continue
		}
		text := src[n.Range().Start:n.Range().End]
		assert.NotContains(t, text, "\r")
		assert.NotContains(t, text, "\n")
	}
	tool := ast.Children[0].(*gp.ToolDefNode)
	assert.Equal(t, "T1C0.02", src[tool.Range().Start:tool.Range().End])
}

func TestParseCoords(t *testing.T) {
	assert.Equal(t, map[string]string{"x": "-1.5", "y": "200"}, ParseCoords("X-1.5Y200"))
	assert.Equal(t, map[string]string{"y": "7"}, ParseCoords("y7"))
	assert.Empty(t, ParseCoords("M30"))
}
