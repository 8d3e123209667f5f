package gerbparser

// Export converts the AST into plain maps for YAML or JSON encoding. Every
// node map has a "type" key; nodes with source text also carry
// "sourceStart" and "sourceEnd".
func (ast *AST) Export() map[string]interface{} {
	children := make([]interface{}, 0, len(ast.Children))
	for _, n := range ast.Children {
		children = append(children, ExportNode(n))
	}
	return map[string]interface{}{
		"type":     "root",
		"filetype": ast.FileType.String(),
		"children": children,
	}
}

func ExportNode(n Node) map[string]interface{} {
	retVal := map[string]interface{}{"type": n.Kind().String()}
	if n.HasRange() {
		retVal["sourceStart"] = n.Range().Start
		retVal["sourceEnd"] = n.Range().End
	}
	switch v := n.(type) {
	case *UnitsNode:
		retVal["units"] = v.Units.String()
	case *FormatNode:
		if v.Format != nil {
			retVal["format"] = []int{v.Format.Int, v.Format.Dec}
		}
		if v.ZeroSuppression != 0 {
			retVal["zeroSuppression"] = v.ZeroSuppression.String()
		}
		if v.Mode != 0 {
			retVal["mode"] = v.Mode.String()
		}
	case *ToolDefNode:
		retVal["code"] = v.Code
		shape := map[string]interface{}{
			"type":   v.Shape.Type.String(),
			"params": nonNil(v.Shape.Params),
		}
		if v.Shape.MacroName != "" {
			shape["macroName"] = v.Shape.MacroName
		}
		retVal["shape"] = shape
		if v.Hole != nil {
			retVal["hole"] = map[string]interface{}{
				"type":   v.Hole.Type.String(),
				"params": nonNil(v.Hole.Params),
			}
		}
	case *ToolMacroNode:
		retVal["name"] = v.Name
		blocks := make([]interface{}, 0, len(v.Blocks))
		for _, b := range v.Blocks {
			blocks = append(blocks, map[string]interface{}{
				"type":  b.Kind.String(),
				"block": b.String(),
			})
		}
		retVal["blocks"] = blocks
	case *ToolChangeNode:
		retVal["code"] = v.Code
	case *PolarityNode:
		retVal["polarity"] = v.Polarity.String()
	case *StepRepeatNode:
		retVal["x"], retVal["y"], retVal["i"], retVal["j"] = v.X, v.Y, v.I, v.J
	case *InterpolateModeNode:
		retVal["mode"] = v.Mode.String()
	case *RegionModeNode:
		retVal["region"] = v.Region
	case *QuadrantModeNode:
		retVal["quadrant"] = v.Quadrant.String()
	case *GraphicNode:
		if v.Graphic != 0 {
			retVal["graphic"] = v.Graphic.String()
		}
		coords := make(map[string]interface{}, len(v.Coordinates))
		for k, c := range v.Coordinates {
			coords[k] = c
		}
		retVal["coordinates"] = coords
	case *CommentNode:
		retVal["text"] = v.Text
	case *UnimplementedNode:
		retVal["value"] = v.Value
	case *DoneNode:
	}
	return retVal
}

func nonNil(f []float64) []float64 {
	if f == nil {
		return []float64{}
	}
	return f
}
