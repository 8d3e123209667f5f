// Aperture Macros support
package amprocessor

import (
	"errors"
	"strconv"
	"strings"

	"github.com/golang/glog"

	"github.com/newmatik/gerbtrace-sub000/calculator"
	"github.com/newmatik/gerbtrace-sub000/imagetree"
)

var ErrUnknownPrimitive = errors.New("unknown aperture macro primitive")

type AMPrimitive interface {
	Type() AMPrimitiveType
	// returns the shapes of the primitive for the evaluated modifiers,
	// translated to the flash point (cx, cy)
	Render(mods []float64, cx, cy float64) []imagetree.Shape
}

// creates and returns new object
func NewAMPrimitive(amp AMPrimitiveType) (AMPrimitive, error) {
	switch amp {
	case AMPrimitive_Comment:
		return AMPrimitiveComment{}, nil
	case AMPrimitive_Circle:
		return AMPrimitiveCircle{}, nil
	case AMPrimitive_VectLine, AMPrimitive_VectLineOld:
		return AMPrimitiveVectLine{}, nil
	case AMPrimitive_CenterLine:
		return AMPrimitiveCenterLine{}, nil
	case AMPrimitive_LowerLeftLine:
		return AMPrimitiveLowerLeftLine{}, nil
	case AMPRimitive_OutLine:
		return AMPrimitiveOutLine{}, nil
	case AMPrimitive_Polygon:
		return AMPrimitivePolygon{}, nil
	case AMPrimitive_Moire:
		return AMPrimitiveMoire{}, nil
	case AMPrimitive_Thermal:
		return AMPrimitiveThermal{}, nil
	default:
	}
	return nil, ErrUnknownPrimitive
}

type AMPrimitiveType int

func (amp AMPrimitiveType) String() string {
	var retVal string
	switch amp {
	case AMPrimitive_Comment:
		retVal = "comment"
	case AMPrimitive_Circle:
		retVal = "circle"
	case AMPrimitive_VectLine, AMPrimitive_VectLineOld:
		retVal = "vector line"
	case AMPrimitive_CenterLine:
		retVal = "center line"
	case AMPrimitive_LowerLeftLine:
		retVal = "lower left line"
	case AMPRimitive_OutLine:
		retVal = "outline"
	case AMPrimitive_Polygon:
		retVal = "polygon"
	case AMPrimitive_Moire:
		retVal = "moire"
	case AMPrimitive_Thermal:
		retVal = "thermal"
	default:
		retVal = "unknown"
	}
	return retVal
}

const (
	AMPrimitive_Comment       AMPrimitiveType = 0
	AMPrimitive_Circle        AMPrimitiveType = 1
	AMPrimitive_VectLineOld   AMPrimitiveType = 2
	AMPrimitive_VectLine      AMPrimitiveType = 20
	AMPrimitive_CenterLine    AMPrimitiveType = 21
	AMPrimitive_LowerLeftLine AMPrimitiveType = 22
	AMPRimitive_OutLine       AMPrimitiveType = 4
	AMPrimitive_Polygon       AMPrimitiveType = 5
	AMPrimitive_Moire         AMPrimitiveType = 6
	AMPrimitive_Thermal       AMPrimitiveType = 7
)

/* #################### macro body ##################### */

type BlockKind int

const (
	BlockComment BlockKind = iota + 1
	BlockVariable
	BlockPrimitive
)

func (bk BlockKind) String() string {
	switch bk {
	case BlockComment:
		return "comment"
	case BlockVariable:
		return "variable"
	case BlockPrimitive:
		return "primitive"
	default:
	}
	return "unknown"
}

// Block is one '*'-terminated statement of a macro body.
// Comment blocks use Text, variable blocks use Name and Value, primitive
// blocks use Code and Params.
type Block struct {
	Kind   BlockKind
	Text   string
	Name   string
	Value  *calculator.Operand
	Code   string
	Params []*calculator.Operand
}

func (b Block) String() string {
	switch b.Kind {
	case BlockComment:
		return "0 " + b.Text
	case BlockVariable:
		return b.Name + "=" + b.Value.String()
	case BlockPrimitive:
		retVal := b.Code
		for _, p := range b.Params {
			retVal = retVal + "," + p.String()
		}
		return retVal
	default:
	}
	return ""
}

// ParseBlocks splits a macro body on '*' and classifies every non-empty part.
func ParseBlocks(body string) []Block {
	var retVal []Block
	for _, part := range strings.Split(body, "*") {
		part = strings.TrimSpace(part)
		if len(part) == 0 {
			continue
		}
		if strings.HasPrefix(part, "0 ") || strings.HasPrefix(part, "0,") {
			retVal = append(retVal, Block{Kind: BlockComment, Text: part[2:]})
			continue
		}
		if strings.HasPrefix(part, "$") && strings.Contains(part, "=") {
			eq := strings.Index(part, "=")
			retVal = append(retVal, Block{
				Kind:  BlockVariable,
				Name:  strings.TrimSpace(part[:eq]),
				Value: calculator.Parse(part[eq+1:]),
			})
			continue
		}
		fields := strings.Split(part, ",")
		blk := Block{Kind: BlockPrimitive, Code: strings.TrimSpace(fields[0])}
		for _, f := range fields[1:] {
			blk.Params = append(blk.Params, calculator.Parse(f))
		}
		retVal = append(retVal, blk)
	}
	return retVal
}

// Evaluate instantiates a macro with the aperture parameters bound to
// $1, $2, ... and flashes it at (cx, cy). Blocks run in order, so a variable
// assignment affects only the primitives after it. A single exposed shape is
// returned bare; anything else is wrapped in a Layered shape. A macro that
// produces nothing returns nil.
func Evaluate(blocks []Block, params []float64, cx, cy float64) imagetree.Shape {
	vars := make(calculator.Variables, len(params))
	for i, p := range params {
		vars["$"+strconv.Itoa(i+1)] = p
	}

	var shapes []imagetree.Shape
	for _, blk := range blocks {
		switch blk.Kind {
		case BlockVariable:
			vars[blk.Name] = blk.Value.Calc(vars)
			continue
		case BlockPrimitive:
		default:
			continue
		}
		code, err := strconv.Atoi(blk.Code)
		if err != nil {
			glog.V(2).Infof("macro primitive code %q is not a number, skipped", blk.Code)
			continue
		}
		prim, err := NewAMPrimitive(AMPrimitiveType(code))
		if err != nil {
			glog.V(2).Infof("%v: %d, skipped", err, code)
			continue
		}
		mods := make([]float64, len(blk.Params))
		for i, p := range blk.Params {
			mods[i] = p.Calc(vars)
		}
		shapes = append(shapes, prim.Render(mods, cx, cy)...)
	}

	switch {
	case len(shapes) == 0:
		return nil
	case len(shapes) == 1 && !shapes[0].Erased():
		return shapes[0]
	}
	return &imagetree.Layered{Shapes: shapes}
}
