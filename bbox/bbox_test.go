package bbox

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/newmatik/gerbtrace-sub000/imagetree"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

func sampleBoxes() []BoundingBox {
	return []BoundingBox{
		Shape(&imagetree.Circle{Cx: 5, Cy: 5, R: 0.5}),
		Shape(&imagetree.Rect{X: -1, Y: 2, W: 3, H: 1}),
		Shape(&imagetree.Polygon{Points: []xy.Point{{0, 0}, {4, -2}, {1, 7}}}),
		Path([]imagetree.PathSegment{&imagetree.Line{Start: xy.Point{10, 10}, End: xy.Point{12, 10}}}, 0.2),
	}
}

func TestMerge_Identity(t *testing.T) {
	for _, b := range sampleBoxes() {
		assert.Equal(t, b, Merge(Empty(), b))
		assert.Equal(t, b, Merge(b, Empty()))
	}
	assert.True(t, IsEmpty(Merge(Empty(), Empty())))
}

func TestMerge_AssociativeCommutative(t *testing.T) {
	boxes := sampleBoxes()
	for _, a := range boxes {
		for _, b := range boxes {
			assert.Equal(t, Merge(a, b), Merge(b, a))
			for _, c := range boxes {
				assert.Equal(t, Merge(Merge(a, b), c), Merge(a, Merge(b, c)))
			}
		}
	}
}

func TestShapeBounds(t *testing.T) {
	boxes := sampleBoxes()
	assert.Equal(t, BoundingBox{4.5, 4.5, 5.5, 5.5}, boxes[0])
	assert.Equal(t, BoundingBox{-1, 2, 2, 3}, boxes[1])
	assert.Equal(t, BoundingBox{0, -2, 4, 7}, boxes[2])
	assert.InDeltaSlice(t, []float64{9.9, 9.9, 12.1, 10.1}, boxes[3][:], 1e-12)
}

func TestLayeredBounds(t *testing.T) {
	l := &imagetree.Layered{Shapes: []imagetree.Shape{
		&imagetree.Rect{X: 0, Y: 0, W: 2, H: 2},
		&imagetree.Circle{Cx: 1, Cy: 1, R: 0.25, Erase: true},
	}}
	assert.Equal(t, BoundingBox{0, 0, 2, 2}, Shape(l))
}

func TestArcBounds(t *testing.T) {
	arc := &imagetree.Arc{
		Start:  xy.Point{1, 0},
		End:    xy.Point{0, 1},
		Center: xy.Point{0, 0},
		Radius: 1,
	}
	assert.Equal(t, BoundingBox{-1, -1, 1, 1}, Segments([]imagetree.PathSegment{arc}))
}

func TestGraphics(t *testing.T) {
	gs := []imagetree.Graphic{
		&imagetree.ShapeGraphic{Shape: &imagetree.Circle{Cx: 0, Cy: 0, R: 1}},
		&imagetree.RegionGraphic{Segments: []imagetree.PathSegment{
			&imagetree.Line{Start: xy.Point{2, 2}, End: xy.Point{3, 4}},
		}},
	}
	assert.Equal(t, BoundingBox{-1, -1, 3, 4}, Graphics(gs))
	assert.Equal(t, BoundingBox{}, OrZero(Graphics(nil)))
	assert.True(t, Intersects(BoundingBox{0, 0, 1, 1}, BoundingBox{1, 1, 2, 2}))
	assert.False(t, Intersects(BoundingBox{0, 0, 1, 1}, Empty()))
}
