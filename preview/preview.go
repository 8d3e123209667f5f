// Package preview rasterizes an image tree into a PNG picture.
//
// Graphics are drawn in order. Erasing graphics are painted in the
// background colour, which is what a viewer of a single layer expects.
package preview

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/golang/glog"
	"github.com/gogpu/gg"

	"github.com/newmatik/gerbtrace-sub000/imagetree"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

// MaxSide limits both dimensions of the canvas, in pixels.
const MaxSide = 16384

const (
	arcMinSteps = 8
	arcMaxStep  = math.Pi / 32
)

var (
	ErrEmptyImage = errors.New("image has no extent")
	ErrTooLarge   = errors.New("canvas too large")
)

type Options struct {
	PixelsPerUnit float64
	// Margin around the image, in pixels
	Margin     int
	Background string
	Foreground string
}

func DefaultOptions() Options {
	return Options{
		PixelsPerUnit: 100,
		Margin:        10,
		Background:    "#000000",
		Foreground:    "#d4af37",
	}
}

// Statistic counts what Render drew.
type Statistic struct {
	Shapes  int
	Paths   int
	Regions int
	Erased  int
}

func (s Statistic) String() string {
	return fmt.Sprintf("shapes: %d, paths: %d, regions: %d, erased: %d", s.Shapes, s.Paths, s.Regions, s.Erased)
}

/*
 ************************** rendering context ****************************
 */
type canvas struct {
	dc   *gg.Context
	opts Options
	minX float64
	maxY float64
	stat Statistic
}

// px maps file coordinates to pixels; Y grows downwards on the canvas.
func (c *canvas) px(p xy.Point) (float64, float64) {
	m := float64(c.opts.Margin)
	return m + (p[0]-c.minX)*c.opts.PixelsPerUnit, m + (c.maxY-p[1])*c.opts.PixelsPerUnit
}

func (c *canvas) scale(v float64) float64 {
	return v * c.opts.PixelsPerUnit
}

func (c *canvas) color(erase bool) string {
	if erase {
		return c.opts.Background
	}
	return c.opts.Foreground
}

// Render draws tree on a new context sized to its bounds. The caller owns
// the returned context.
func Render(tree *imagetree.ImageTree, opts Options) (*gg.Context, Statistic, error) {
	if opts.PixelsPerUnit <= 0 {
		opts.PixelsPerUnit = DefaultOptions().PixelsPerUnit
	}
	if opts.Margin < 0 {
		opts.Margin = 0
	}
	b := tree.Bounds
	w := int(math.Ceil((b[2]-b[0])*opts.PixelsPerUnit)) + 2*opts.Margin
	h := int(math.Ceil((b[3]-b[1])*opts.PixelsPerUnit)) + 2*opts.Margin
	if len(tree.Children) == 0 || w <= 0 || h <= 0 {
		return nil, Statistic{}, ErrEmptyImage
	}
	if w > MaxSide || h > MaxSide {
		return nil, Statistic{}, fmt.Errorf("%w: %dx%d pixels", ErrTooLarge, w, h)
	}

	c := &canvas{dc: gg.NewContext(w, h), opts: opts, minX: b[0], maxY: b[3]}
	c.dc.ClearWithColor(gg.Hex(opts.Background))
	c.dc.SetFillRule(gg.FillRuleEvenOdd)
	c.dc.SetLineCap(gg.LineCapRound)
	c.dc.SetLineJoin(gg.LineJoinRound)

	for i, g := range tree.Children {
		if err := c.graphic(g); err != nil {
			_ = c.dc.Close()
			return nil, c.stat, fmt.Errorf("graphic %d: %w", i, err)
		}
	}
	if glog.V(1) {
		glog.Infof("preview %dx%d px, %s", w, h, c.stat)
	}
	return c.dc, c.stat, nil
}

func (c *canvas) graphic(g imagetree.Graphic) error {
	if g.Erased() {
		c.stat.Erased++
	}
	switch v := g.(type) {
	case *imagetree.ShapeGraphic:
		c.stat.Shapes++
		return c.shape(v.Shape, v.Erase)
	case *imagetree.PathGraphic:
		c.stat.Paths++
		if len(v.Segments) == 0 {
			return nil
		}
		c.dc.SetHexColor(c.color(v.Erase))
		c.dc.SetLineWidth(math.Max(c.scale(v.Width), 1))
		c.trace(v.Segments)
		return c.dc.Stroke()
	case *imagetree.RegionGraphic:
		c.stat.Regions++
		if len(v.Segments) == 0 {
			return nil
		}
		c.dc.SetHexColor(c.color(v.Erase))
		c.trace(v.Segments)
		c.dc.ClosePath()
		return c.dc.Fill()
	default:
	}
	return nil
}

// shape fills s; members of a layered shape flip the colour when erased.
func (c *canvas) shape(s imagetree.Shape, erase bool) error {
	if l, ok := s.(*imagetree.Layered); ok {
		for _, sub := range l.Shapes {
			if err := c.shape(sub, erase != sub.Erased()); err != nil {
				return err
			}
		}
		return nil
	}
	c.dc.SetHexColor(c.color(erase))
	switch v := s.(type) {
	case *imagetree.Circle:
		x, y := c.px(xy.Point{v.Cx, v.Cy})
		c.dc.DrawCircle(x, y, c.scale(v.R))
	case *imagetree.Rect:
		// top left corner on the canvas
		x, y := c.px(xy.Point{v.X, v.Y + v.H})
		if v.R > 0 {
			c.dc.DrawRoundedRectangle(x, y, c.scale(v.W), c.scale(v.H), c.scale(v.R))
		} else {
			c.dc.DrawRectangle(x, y, c.scale(v.W), c.scale(v.H))
		}
	case *imagetree.Polygon:
		if len(v.Points) < 3 {
			return nil
		}
		for i, p := range v.Points {
			x, y := c.px(p)
			if i == 0 {
				c.dc.MoveTo(x, y)
			} else {
				c.dc.LineTo(x, y)
			}
		}
		c.dc.ClosePath()
	case *imagetree.Outline:
		if len(v.Segments) == 0 {
			return nil
		}
		c.trace(v.Segments)
		c.dc.ClosePath()
	default:
		return nil
	}
	return c.dc.Fill()
}

// trace adds segs to the current path, flattening arcs.
func (c *canvas) trace(segs []imagetree.PathSegment) {
	var last xy.Point
	for i, seg := range segs {
		if i == 0 || !xy.PositionsEqual(last, seg.StartPoint()) {
			c.dc.MoveTo(c.px(seg.StartPoint()))
		}
		switch v := seg.(type) {
		case *imagetree.Arc:
			pts := imagetree.ArcPoints(v, arcMinSteps, arcMaxStep)
			for _, p := range pts[1:] {
				c.dc.LineTo(c.px(p))
			}
		default:
			c.dc.LineTo(c.px(seg.EndPoint()))
		}
		last = seg.EndPoint()
	}
}

// SavePNG renders tree into the PNG file path.
func SavePNG(tree *imagetree.ImageTree, path string, opts Options) (Statistic, error) {
	dc, stat, err := Render(tree, opts)
	if err != nil {
		return stat, err
	}
	defer dc.Close()
	if err := dc.SavePNG(path); err != nil {
		return stat, fmt.Errorf("save %s: %w", path, err)
	}
	return stat, nil
}

// EncodePNG renders tree as PNG into w.
func EncodePNG(tree *imagetree.ImageTree, w io.Writer, opts Options) (Statistic, error) {
	dc, stat, err := Render(tree, opts)
	if err != nil {
		return stat, err
	}
	defer dc.Close()
	return stat, dc.EncodePNG(w)
}
