package plotter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newmatik/gerbtrace-sub000/drillparser"
	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
	gp "github.com/newmatik/gerbtrace-sub000/gerbparser"
	"github.com/newmatik/gerbtrace-sub000/imagetree"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

const header = "%FSLAX24Y24*%\n%MOMM*%\n"

func plotGerber(src string, opts ...Option) *imagetree.ImageTree {
	return Plot(gp.Parse(src), opts...)
}

func assertBounds(t *testing.T, expected, actual imagetree.BoundingBox) {
	t.Helper()
	for i := range expected {
		assert.InDelta(t, expected[i], actual[i], 1e-9, "bounds[%d]", i)
	}
}

func TestPlot_Flash(t *testing.T) {
	tree := plotGerber(header + "%ADD10C,1.0*%\nD10*\nX50000Y50000D03*\nM02*\n")
	assert.Equal(t, gbt.UnitsMM, tree.Units)
	require.Len(t, tree.Children, 1)

	g := tree.Children[0].(*imagetree.ShapeGraphic)
	assert.False(t, g.Erase)
	assert.Equal(t, &imagetree.Circle{Cx: 5, Cy: 5, R: 0.5}, g.Shape)
	require.Len(t, g.SourceRanges, 1)
	assertBounds(t, imagetree.BoundingBox{4.5, 4.5, 5.5, 5.5}, tree.Bounds)
}

func TestPlot_Empty(t *testing.T) {
	tree := plotGerber("X0Y0D03*")
	assert.Empty(t, tree.Children, "flash without a tool is dropped")
	assert.Equal(t, imagetree.BoundingBox{}, tree.Bounds)
	assert.Equal(t, gbt.UnitsInch, tree.Units)
}

func TestPlot_FullCircle(t *testing.T) {
	tree := plotGerber(header + "%ADD10C,0.1*%\nG75*\nG03*\nX10000Y0D02*\nX10000Y0I-10000J0D01*\nM02*\n")
	require.Len(t, tree.Children, 1)
	path := tree.Children[0].(*imagetree.PathGraphic)
	assert.Equal(t, 0.1, path.Width)
	require.Len(t, path.Segments, 1)

	arc := path.Segments[0].(*imagetree.Arc)
	assert.True(t, arc.Counterclockwise)
	assert.InDelta(t, 1.0, arc.Radius, 1e-12)
	assert.InDelta(t, xy.TwoPi, math.Abs(arc.EndAngle-arc.StartAngle), 1e-12)
	assertBounds(t, imagetree.BoundingBox{-1.05, -1.05, 1.05, 1.05}, tree.Bounds)
}

func TestPlot_SingleQuadrant(t *testing.T) {
	tree := plotGerber(header + "%ADD10C,0.1*%\nG74*\nG02*\nX0Y10000D02*\nX10000Y0I0J10000D01*\n")
	require.Len(t, tree.Children, 1)
	arc := tree.Children[0].(*imagetree.PathGraphic).Segments[0].(*imagetree.Arc)
	assert.False(t, arc.Counterclockwise)
	assert.InDelta(t, 0, arc.Center[0], 1e-12)
	assert.InDelta(t, 0, arc.Center[1], 1e-12)
	assert.LessOrEqual(t, math.Abs(arc.Sweep()), math.Pi/2+0.01)
}

func TestPlot_PenLiftInPlace(t *testing.T) {
	tree := plotGerber(header + "%ADD10C,0.1*%\nX0Y0D02*\nX10000Y0D01*\nD02*\nX10000Y10000D01*\nM02*\n")
	require.Len(t, tree.Children, 1)
	path := tree.Children[0].(*imagetree.PathGraphic)
	assert.Len(t, path.Segments, 2)
	assert.Len(t, path.SourceRanges, 4)

	// moving elsewhere does split
	tree = plotGerber(header + "%ADD10C,0.1*%\nX0Y0D02*\nX10000Y0D01*\nX0Y10000D02*\nX10000Y10000D01*\n")
	assert.Len(t, tree.Children, 2)
}

func TestPlot_Hole(t *testing.T) {
	tree := plotGerber(header + "%ADD10C,1.0X0.4*%\nX0Y0D03*\n")
	layered := tree.Children[0].(*imagetree.ShapeGraphic).Shape.(*imagetree.Layered)
	require.Len(t, layered.Shapes, 2)
	assert.Equal(t, &imagetree.Circle{R: 0.5}, layered.Shapes[0])
	assert.Equal(t, &imagetree.Circle{R: 0.2, Erase: true}, layered.Shapes[1])
}

func TestPlot_StandardApertures(t *testing.T) {
	tree := plotGerber(header + "%ADD10R,2X1*%%ADD11O,2X1*%%ADD12P,2X3*%\nX0Y0D03*\nD11*\nX0Y0D03*\nD12*\nX0Y0D03*\n")
	require.Len(t, tree.Children, 3)
	assert.Equal(t, &imagetree.Rect{X: -1, Y: -0.5, W: 2, H: 1}, tree.Children[0].(*imagetree.ShapeGraphic).Shape)
	assert.Equal(t, &imagetree.Rect{X: -1, Y: -0.5, W: 2, H: 1, R: 0.5}, tree.Children[1].(*imagetree.ShapeGraphic).Shape)
	poly := tree.Children[2].(*imagetree.ShapeGraphic).Shape.(*imagetree.Polygon)
	require.Len(t, poly.Points, 3)
	assert.InDelta(t, 1.0, poly.Points[0][0], 1e-12)
}

func TestPlot_ClearPolarity(t *testing.T) {
	tree := plotGerber(header + "%ADD10C,1*%\nX0Y0D03*\n%LPC*%\nX0Y0D03*\n%LPD*%\nX0Y0D01*\nX10000Y0D01*\n")
	require.Len(t, tree.Children, 3)
	assert.False(t, tree.Children[0].Erased())
	assert.True(t, tree.Children[1].Erased())
	assert.False(t, tree.Children[2].Erased())
}

func TestPlot_Region(t *testing.T) {
	tree := plotGerber(header + "%ADD10C,0.1*%\nG36*\nX0Y0D02*\nG01*\nX10000Y0D01*\nX10000Y10000*\nX0Y10000D01*\nX0Y0D01*\nG37*\n")
	require.Len(t, tree.Children, 1)
	region := tree.Children[0].(*imagetree.RegionGraphic)
	assert.Len(t, region.Segments, 4, "bare coordinates draw in region mode")
	assertBounds(t, imagetree.BoundingBox{0, 0, 1, 1}, tree.Bounds)
}

func TestPlot_MacroNameCase(t *testing.T) {
	tree := plotGerber(header + "%AMBOX*21,1,$1,$2,0,0,0*%\n%ADD10box,2X1*%\nX0Y0D03*\n")
	require.Len(t, tree.Children, 1)
	assertBounds(t, imagetree.BoundingBox{-1, -0.5, 1, 0.5}, tree.Bounds)

	tree = plotGerber(header + "%ADD10NOPE,1*%\nX0Y0D03*\n")
	assert.Empty(t, tree.Children)
}

func TestPlot_StepRepeat(t *testing.T) {
	src := header + "%ADD10C,1*%\n%SRX2Y1I5.0J0*%\nX0Y0D03*\n%SR*%\nX0Y20000D03*\n"
	assert.Len(t, plotGerber(src).Children, 2)

	tree := plotGerber(src, WithStepRepeat(true))
	require.Len(t, tree.Children, 3)
	assert.Equal(t, 5.0, tree.Children[1].(*imagetree.ShapeGraphic).Shape.(*imagetree.Circle).Cx)
	assert.Equal(t, 2.0, tree.Children[2].(*imagetree.ShapeGraphic).Shape.(*imagetree.Circle).Cy)
}

func TestPlot_Defaults(t *testing.T) {
	ast := &gp.AST{Children: []gp.Node{
		gp.NewCircleTool("D10", 1, gbt.SourceRange{}),
		gp.NewGraphic(gbt.OpcodeD03_FLASH, map[string]string{"x": "1000"}, gbt.SourceRange{}),
	}}
	c := Plot(ast).Children[0].(*imagetree.ShapeGraphic).Shape.(*imagetree.Circle)
	assert.InDelta(t, 0.1, c.Cx, 1e-12)

	c = Plot(ast, WithDefaultFormat(xy.Format{Int: 3, Dec: 3}), WithDefaultUnits(gbt.UnitsMM)).
		Children[0].(*imagetree.ShapeGraphic).Shape.(*imagetree.Circle)
	assert.InDelta(t, 1.0, c.Cx, 1e-12)
	assert.Nil(t, Plot(ast).Children[0].Ranges())
}

func TestPlot_FormatComment(t *testing.T) {
	ast := &gp.AST{Children: []gp.Node{
		gp.NewComment("FORMAT={3:3}", gbt.SourceRange{}),
		gp.NewCircleTool("T1", 1, gbt.SourceRange{}),
		gp.NewGraphic(gbt.OpcodeD03_FLASH, map[string]string{"x": "1000"}, gbt.SourceRange{}),
	}}
	c := Plot(ast).Children[0].(*imagetree.ShapeGraphic).Shape.(*imagetree.Circle)
	assert.InDelta(t, 1.0, c.Cx, 1e-12)
}

func TestPlot_DrillHit(t *testing.T) {
	tree := Plot(drillparser.Parse("M48\nMETRIC,TZ\nT01C0.8\n%\nT01\nX025000Y025000\nM30\n"))
	assert.Equal(t, gbt.UnitsMM, tree.Units)
	require.Len(t, tree.Children, 1)
	assert.Equal(t, &imagetree.Circle{Cx: 2.5, Cy: 2.5, R: 0.4}, tree.Children[0].(*imagetree.ShapeGraphic).Shape)
}

func TestPlot_DrillSlotAndRoute(t *testing.T) {
	tree := Plot(drillparser.Parse("M48\nMETRIC,LZ,00.000\nT1C1.0\n%\nT1\nX0Y0G85X10.0Y0\nG00X0Y5.0\nM15\nG01X5.0Y5.0\nM16\nM30\n"))
	require.Len(t, tree.Children, 2)
	slot := tree.Children[0].(*imagetree.PathGraphic)
	assert.Equal(t, 1.0, slot.Width)
	assert.Equal(t, &imagetree.Line{Start: xy.Point{0, 0}, End: xy.Point{10, 0}}, slot.Segments[0])

	route := tree.Children[1].(*imagetree.PathGraphic)
	assert.Equal(t, &imagetree.Line{Start: xy.Point{0, 5}, End: xy.Point{5, 5}}, route.Segments[0])
	assertBounds(t, imagetree.BoundingBox{-0.5, -0.5, 10.5, 5.5}, tree.Bounds)
}

func TestCreateSegment(t *testing.T) {
	start, end := xy.Point{1, 0}, xy.Point{0, 1}

	line := CreateSegment(start, end, xy.Point{-1, 0}, gbt.IPModeLinear, gbt.QuadModeMulti, FullCircleTolerance)
	assert.Equal(t, imagetree.SegmentLine, line.Kind())

	degenerate := CreateSegment(start, end, xy.Point{}, gbt.IPModeCCwC, gbt.QuadModeMulti, FullCircleTolerance)
	assert.Equal(t, imagetree.SegmentLine, degenerate.Kind())

	arc := CreateSegment(start, end, xy.Point{-1, 0}, gbt.IPModeCCwC, gbt.QuadModeMulti, FullCircleTolerance).(*imagetree.Arc)
	assert.InDelta(t, 0, arc.StartAngle, 1e-12)
	assert.InDelta(t, math.Pi/2, arc.EndAngle, 1e-12)
	assert.InDelta(t, math.Pi/2, arc.Sweep(), 1e-12)

	cw := CreateSegment(start, start, xy.Point{-1, 0}, gbt.IPModeCwC, gbt.QuadModeMulti, FullCircleTolerance).(*imagetree.Arc)
	assert.InDelta(t, -xy.TwoPi, cw.EndAngle-cw.StartAngle, 1e-12)
}
