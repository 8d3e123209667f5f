/*
Package srblocks unwinds step-and-repeat blocks: the graphics plotted between
an SR command with counts greater than one and the command that closes it are
replicated on an X by Y grid.
*/
package srblocks

import (
	"strconv"

	"github.com/newmatik/gerbtrace-sub000/imagetree"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

/*
############################## step and repeat blocks #################################
*/

type SRBlock struct {
	numX  int
	numY  int
	dX    float64
	dY    float64
	first int // index of the first graphic inside the block
}

// New opens a block whose first graphic will be at index first. Counts below
// one are treated as one.
func New(numX, numY int, dX, dY float64, first int) *SRBlock {
	return &SRBlock{numX: max(numX, 1), numY: max(numY, 1), dX: dX, dY: dY, first: first}
}

func (srblock *SRBlock) String() string {
	if srblock == nil {
		return "<nil>"
	}
	return "Step and repeat block: " +
		strconv.Itoa(srblock.numX) + " x " + strconv.Itoa(srblock.numY) +
		", dX=" + strconv.FormatFloat(srblock.dX, 'f', 5, 64) +
		", dY=" + strconv.FormatFloat(srblock.dY, 'f', 5, 64) +
		", from graphic #" + strconv.Itoa(srblock.first)
}

func (srblock *SRBlock) NumX() int   { return srblock.numX }
func (srblock *SRBlock) NumY() int   { return srblock.numY }
func (srblock *SRBlock) DX() float64 { return srblock.dX }
func (srblock *SRBlock) DY() float64 { return srblock.dY }

// Repeats reports whether the block produces more than one copy.
func (srblock *SRBlock) Repeats() bool {
	return srblock != nil && srblock.numX*srblock.numY > 1
}

// Unwind replaces graphics[first:] with numX*numY copies, Y rows outer and X
// columns inner. The copy at (0, 0) is the original block.
func (srblock *SRBlock) Unwind(graphics []imagetree.Graphic) []imagetree.Graphic {
	if !srblock.Repeats() || srblock.first >= len(graphics) {
		return graphics
	}
	block := graphics[srblock.first:]
	retVal := make([]imagetree.Graphic, 0, srblock.first+len(block)*srblock.numX*srblock.numY)
	retVal = append(retVal, graphics[:srblock.first]...)
	for j := 0; j < srblock.numY; j++ {
		addY := float64(j) * srblock.dY
		for i := 0; i < srblock.numX; i++ {
			addX := float64(i) * srblock.dX
			for _, g := range block {
				retVal = append(retVal, TranslateGraphic(g, addX, addY))
			}
		}
	}
	return retVal
}

/*
############################## translation #################################
*/

// TranslateGraphic returns a copy of g moved by (dx, dy). A zero offset
// returns g itself.
func TranslateGraphic(g imagetree.Graphic, dx, dy float64) imagetree.Graphic {
	if dx == 0 && dy == 0 {
		return g
	}
	switch v := g.(type) {
	case *imagetree.ShapeGraphic:
		return &imagetree.ShapeGraphic{Shape: TranslateShape(v.Shape, dx, dy), Erase: v.Erase, SourceRanges: v.SourceRanges}
	case *imagetree.PathGraphic:
		return &imagetree.PathGraphic{Width: v.Width, Segments: translateSegments(v.Segments, dx, dy), Erase: v.Erase, SourceRanges: v.SourceRanges}
	case *imagetree.RegionGraphic:
		return &imagetree.RegionGraphic{Segments: translateSegments(v.Segments, dx, dy), Erase: v.Erase, SourceRanges: v.SourceRanges}
	default:
	}
	return g
}

func TranslateShape(s imagetree.Shape, dx, dy float64) imagetree.Shape {
	d := xy.Point{dx, dy}
	switch v := s.(type) {
	case *imagetree.Circle:
		return &imagetree.Circle{Cx: v.Cx + dx, Cy: v.Cy + dy, R: v.R, Erase: v.Erase}
	case *imagetree.Rect:
		return &imagetree.Rect{X: v.X + dx, Y: v.Y + dy, W: v.W, H: v.H, R: v.R, Erase: v.Erase}
	case *imagetree.Polygon:
		pts := make([]xy.Point, len(v.Points))
		for i, p := range v.Points {
			pts[i] = p.Add(d)
		}
		return &imagetree.Polygon{Points: pts, Erase: v.Erase}
	case *imagetree.Outline:
		return &imagetree.Outline{Segments: translateSegments(v.Segments, dx, dy), Erase: v.Erase}
	case *imagetree.Layered:
		shapes := make([]imagetree.Shape, len(v.Shapes))
		for i, sub := range v.Shapes {
			shapes[i] = TranslateShape(sub, dx, dy)
		}
		return &imagetree.Layered{Shapes: shapes}
	default:
	}
	return s
}

func translateSegments(segs []imagetree.PathSegment, dx, dy float64) []imagetree.PathSegment {
	d := xy.Point{dx, dy}
	retVal := make([]imagetree.PathSegment, len(segs))
	for i, seg := range segs {
		switch v := seg.(type) {
		case *imagetree.Line:
			retVal[i] = &imagetree.Line{Start: v.Start.Add(d), End: v.End.Add(d)}
		case *imagetree.Arc:
			a := *v
			a.Start, a.End, a.Center = v.Start.Add(d), v.End.Add(d), v.Center.Add(d)
			retVal[i] = &a
		default:
			retVal[i] = seg
		}
	}
	return retVal
}
