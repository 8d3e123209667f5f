package preview

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newmatik/gerbtrace-sub000/imagetree"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

var bw = Options{PixelsPerUnit: 10, Background: "#000000", Foreground: "#ffffff"}

func lit(t *testing.T, tree *imagetree.ImageTree, opts Options, x, y int) bool {
	t.Helper()
	dc, _, err := Render(tree, opts)
	require.NoError(t, err)
	defer dc.Close()
	r, _, _, _ := dc.Image().At(x, y).RGBA()
	return r > 0x8000
}

func TestRender_Flash(t *testing.T) {
	tree := &imagetree.ImageTree{
		Bounds:   imagetree.BoundingBox{4.5, 4.5, 5.5, 5.5},
		Children: []imagetree.Graphic{&imagetree.ShapeGraphic{Shape: &imagetree.Circle{Cx: 5, Cy: 5, R: 0.5}}},
	}
	opts := bw
	opts.Margin = 2
	dc, stat, err := Render(tree, opts)
	require.NoError(t, err)
	defer dc.Close()
	assert.Equal(t, 14, dc.Width())
	assert.Equal(t, 14, dc.Height())
	assert.Equal(t, Statistic{Shapes: 1}, stat)

	assert.True(t, lit(t, tree, opts, 7, 7))
	assert.False(t, lit(t, tree, opts, 0, 0))
}

func TestRender_FlipsY(t *testing.T) {
	tree := &imagetree.ImageTree{
		Bounds:   imagetree.BoundingBox{0, 0, 1, 2},
		Children: []imagetree.Graphic{&imagetree.ShapeGraphic{Shape: &imagetree.Rect{W: 1, H: 1}}},
	}
	// the rectangle sits at the bottom of the picture
	assert.True(t, lit(t, tree, bw, 5, 15))
	assert.False(t, lit(t, tree, bw, 5, 5))
}

func TestRender_Erase(t *testing.T) {
	tree := &imagetree.ImageTree{
		Bounds: imagetree.BoundingBox{-1, -1, 1, 1},
		Children: []imagetree.Graphic{&imagetree.ShapeGraphic{Shape: &imagetree.Layered{Shapes: []imagetree.Shape{
			&imagetree.Rect{X: -1, Y: -1, W: 2, H: 2},
			&imagetree.Circle{R: 0.5, Erase: true},
		}}}},
	}
	assert.False(t, lit(t, tree, bw, 10, 10), "hole")
	assert.True(t, lit(t, tree, bw, 2, 2))

	tree.Children = append(tree.Children, &imagetree.ShapeGraphic{Shape: &imagetree.Rect{X: -1, Y: -1, W: 0.5, H: 2}, Erase: true})
	assert.False(t, lit(t, tree, bw, 2, 2), "cleared by a later graphic")
}

func TestRender_PathAndRegion(t *testing.T) {
	tree := &imagetree.ImageTree{
		Bounds: imagetree.BoundingBox{0, 0, 4, 4},
		Children: []imagetree.Graphic{
			&imagetree.PathGraphic{Width: 0.4, Segments: []imagetree.PathSegment{
				&imagetree.Line{Start: xy.Point{0, 0.5}, End: xy.Point{4, 0.5}},
			}},
			&imagetree.RegionGraphic{Segments: []imagetree.PathSegment{
				&imagetree.Line{Start: xy.Point{2, 2}, End: xy.Point{4, 2}},
				&imagetree.Line{Start: xy.Point{4, 2}, End: xy.Point{4, 4}},
				&imagetree.Line{Start: xy.Point{4, 4}, End: xy.Point{2, 2}},
			}},
		},
	}
	assert.True(t, lit(t, tree, bw, 20, 35), "on the stroke")
	assert.False(t, lit(t, tree, bw, 20, 25))
	assert.True(t, lit(t, tree, bw, 37, 15), "inside the triangle")
	assert.False(t, lit(t, tree, bw, 23, 3))
}

func TestRender_Errors(t *testing.T) {
	_, _, err := Render(&imagetree.ImageTree{}, bw)
	assert.True(t, errors.Is(err, ErrEmptyImage))

	huge := &imagetree.ImageTree{
		Bounds:   imagetree.BoundingBox{0, 0, 1000, 1},
		Children: []imagetree.Graphic{&imagetree.ShapeGraphic{Shape: &imagetree.Circle{R: 1}}},
	}
	_, _, err = Render(huge, Options{PixelsPerUnit: 100})
	assert.True(t, errors.Is(err, ErrTooLarge))
}

func TestEncodePNG(t *testing.T) {
	tree := &imagetree.ImageTree{
		Bounds:   imagetree.BoundingBox{0, 0, 1, 1},
		Children: []imagetree.Graphic{&imagetree.ShapeGraphic{Shape: &imagetree.Circle{Cx: 0.5, Cy: 0.5, R: 0.5}}},
	}
	var buf bytes.Buffer
	_, err := EncodePNG(tree, &buf, bw)
	require.NoError(t, err)
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dx())
}
