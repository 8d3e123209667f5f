package srblocks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newmatik/gerbtrace-sub000/imagetree"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

func TestUnwind(t *testing.T) {
	before := &imagetree.ShapeGraphic{Shape: &imagetree.Circle{R: 1}}
	pad := &imagetree.ShapeGraphic{Shape: &imagetree.Circle{Cx: 1, Cy: 1, R: 0.5}}
	b := New(2, 3, 10, 5, 1)
	require.True(t, b.Repeats())

	out := b.Unwind([]imagetree.Graphic{before, pad})
	require.Len(t, out, 7)
	assert.Same(t, before, out[0])
	assert.Same(t, pad, out[1])

	var centers [][2]float64
	for _, g := range out[1:] {
		c := g.(*imagetree.ShapeGraphic).Shape.(*imagetree.Circle)
		centers = append(centers, [2]float64{c.Cx, c.Cy})
	}
	assert.Equal(t, [][2]float64{{1, 1}, {11, 1}, {1, 6}, {11, 6}, {1, 11}, {11, 11}}, centers)
}

func TestUnwind_NoRepeat(t *testing.T) {
	gs := []imagetree.Graphic{&imagetree.ShapeGraphic{Shape: &imagetree.Circle{R: 1}}}
	b := New(0, 1, 3, 3, 0)
	assert.False(t, b.Repeats())
	assert.Equal(t, gs, b.Unwind(gs))

	var nilBlock *SRBlock
	assert.False(t, nilBlock.Repeats())
	assert.Equal(t, "<nil>", nilBlock.String())
}

func TestTranslateGraphic(t *testing.T) {
	path := &imagetree.PathGraphic{
		Width: 0.1,
		Segments: []imagetree.PathSegment{
			&imagetree.Line{Start: xy.Point{0, 0}, End: xy.Point{1, 0}},
			&imagetree.Arc{Start: xy.Point{1, 0}, End: xy.Point{0, 1}, Center: xy.Point{0, 0}, Radius: 1, EndAngle: 1.5},
		},
	}
	moved := TranslateGraphic(path, 2, 3).(*imagetree.PathGraphic)
	assert.Equal(t, xy.Point{2, 3}, moved.Segments[0].StartPoint())
	arc := moved.Segments[1].(*imagetree.Arc)
	assert.Equal(t, xy.Point{2, 3}, arc.Center)
	assert.Equal(t, 1.5, arc.EndAngle)
	// the original is untouched
	assert.Equal(t, xy.Point{0, 0}, path.Segments[0].StartPoint())

	layered := TranslateShape(&imagetree.Layered{Shapes: []imagetree.Shape{
		&imagetree.Rect{X: 0, Y: 0, W: 1, H: 1},
		&imagetree.Circle{R: 0.2, Erase: true},
	}}, 1, 1).(*imagetree.Layered)
	assert.Equal(t, 1.0, layered.Shapes[0].(*imagetree.Rect).X)
	assert.True(t, layered.Shapes[1].Erased())
}
