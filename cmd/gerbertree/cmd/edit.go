package cmd

import (
	"fmt"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/newmatik/gerbtrace-sub000/configurator"
	"github.com/newmatik/gerbtrace-sub000/editor"
	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
	"github.com/newmatik/gerbtrace-sub000/generator"
	"github.com/newmatik/gerbtrace-sub000/preview"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

var (
	removeIndexes []int

	drillX, drillY, drillDia float64
	inMM                     bool

	drawWidth  float64
	drawFilled bool
	drawText   string
	drawHeight float64
)

var renderCmd = &cobra.Command{
	Use:   "render FILE",
	Short: "Rasterize FILE into a PNG picture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, tree, err := plotFile(args[0])
		if err != nil {
			return err
		}
		out := viperConfig.GetString(configurator.CfgRendererOutFile)
		stat, err := preview.SavePNG(tree, out, configurator.PreviewOptions(viperConfig))
		if err != nil {
			return fmt.Errorf("render %s: %w", args[0], err)
		}
		if viperConfig.GetBool(configurator.CfgCommonPrintStatistic) {
			fmt.Fprintln(os.Stderr, stat)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Image is saved to the file", out)
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove FILE",
	Short: "Delete graphics from FILE by image tree index",
	Long: `Delete the source text behind the given graphics.

Indexes are those printed by "gerbertree hit" or "gerbertree plot".

Examples:
  gerbertree remove board.gtl --graphic 3 --graphic 7 -o edited.gtl`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, tree, err := plotFile(args[0])
		if err != nil {
			return err
		}
		ranges := editor.GraphicRanges(tree, removeIndexes)
		if len(ranges) == 0 {
			glog.Warningln("nothing to remove")
		}
		return writeOutput(cmd, editor.RemoveSourceRanges(src, ranges))
	},
}

var addDrillCmd = &cobra.Command{
	Use:   "add-drill FILE",
	Short: "Add a drill hit to an Excellon file",
	Long: `Add a drill hit to an Excellon file, reusing a tool of the same
diameter or defining a new one.

Examples:
  gerbertree add-drill board.drl --x 12.5 --y 4 --dia 0.8 --mm`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource(args[0])
		if err != nil {
			return err
		}
		ff := generator.ParseDrillFormat(src)
		opts := generator.DrillHitOpts{X: drillX, Y: drillY, Diameter: drillDia}
		if inMM {
			opts.X = generator.MMToFileUnits(opts.X, ff.Units)
			opts.Y = generator.MMToFileUnits(opts.Y, ff.Units)
			opts.Diameter = generator.MMToFileUnits(opts.Diameter, ff.Units)
		}
		c, err := generator.DrillHit(opts, ff, src)
		if err != nil {
			return err
		}
		glog.V(1).Infof("drill file format %s, tool %s", ff, c.ToolSelect)
		return writeOutput(cmd, generator.InjectDrill(src, c))
	},
}

var drawCmd = &cobra.Command{
	Use:   "draw",
	Short: "Add a line, rectangle, circle or text to a Gerber file",
	Long: `Add a primitive to a Gerber file in the file's own format.

Coordinates are in file units unless --mm is given.

Examples:
  gerbertree draw line board.gto 0 0 10 5 --width 0.2
  gerbertree draw rect board.gto 1 1 4 2 --filled
  gerbertree draw circle board.gto 5 5 1.5
  gerbertree draw text board.gto 2 2 --text "REV A" --height 1.5`,
}

// drawRun reads FILE, converts the numeric arguments and injects what gen
// produces.
func drawRun(nums int, gen func(v []float64, ff generator.FileFormat, code int) (generator.Commands, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		src, err := readSource(args[0])
		if err != nil {
			return err
		}
		ff, err := generator.ParseGerberFormat(src)
		if err != nil {
			return err
		}
		v := make([]float64, nums)
		for i := range v {
			if _, err := fmt.Sscan(args[i+1], &v[i]); err != nil {
				return fmt.Errorf("argument %d: %w", i+2, err)
			}
			if inMM {
				v[i] = generator.MMToFileUnits(v[i], ff.Units)
			}
		}
		c, err := gen(v, ff, generator.NextApertureCode(src))
		if err != nil {
			return err
		}
		return writeOutput(cmd, generator.InjectGerber(src, c))
	}
}

// inFileUnits converts a length flag given in millimetres when --mm is set.
func inFileUnits(v float64, units gbt.Units) float64 {
	if inMM {
		return generator.MMToFileUnits(v, units)
	}
	return v
}

var drawLineCmd = &cobra.Command{
	Use:   "line FILE X1 Y1 X2 Y2",
	Short: "Draw a straight stroke",
	Args:  cobra.ExactArgs(5),
	RunE: drawRun(4, func(v []float64, ff generator.FileFormat, code int) (generator.Commands, error) {
		return generator.Line(generator.LineOpts{
			Start: xy.Point{v[0], v[1]},
			End:   xy.Point{v[2], v[3]},
			Width: inFileUnits(drawWidth, ff.Units),
		}, ff, code)
	}),
}

var drawRectCmd = &cobra.Command{
	Use:   "rect FILE X Y W H",
	Short: "Draw a rectangle from its lower left corner",
	Args:  cobra.ExactArgs(5),
	RunE: drawRun(4, func(v []float64, ff generator.FileFormat, code int) (generator.Commands, error) {
		return generator.Rect(generator.RectOpts{
			X: v[0], Y: v[1], W: v[2], H: v[3],
			Filled:      drawFilled,
			StrokeWidth: inFileUnits(drawWidth, ff.Units),
		}, ff, code)
	}),
}

var drawCircleCmd = &cobra.Command{
	Use:   "circle FILE CX CY R",
	Short: "Draw a circle",
	Args:  cobra.ExactArgs(4),
	RunE: drawRun(3, func(v []float64, ff generator.FileFormat, code int) (generator.Commands, error) {
		return generator.Circle(generator.CircleOpts{
			Cx: v[0], Cy: v[1], R: v[2],
			Filled:      drawFilled,
			StrokeWidth: inFileUnits(drawWidth, ff.Units),
		}, ff, code)
	}),
}

var drawTextCmd = &cobra.Command{
	Use:   "text FILE X Y",
	Short: "Draw stroked text with its baseline at Y",
	Args:  cobra.ExactArgs(3),
	RunE: drawRun(2, func(v []float64, ff generator.FileFormat, code int) (generator.Commands, error) {
		return generator.Text(generator.TextOpts{
			Text:        drawText,
			X:           v[0],
			Y:           v[1],
			Height:      inFileUnits(drawHeight, ff.Units),
			StrokeWidth: inFileUnits(drawWidth, ff.Units),
		}, ff, code)
	}),
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as TOML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configurator.WriteConfig(cmd.OutOrStdout(), viperConfig)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd, removeCmd, addDrillCmd, drawCmd, configCmd)
	drawCmd.AddCommand(drawLineCmd, drawRectCmd, drawCircleCmd, drawTextCmd)

	renderCmd.Flags().StringP("out", "o", "", "PNG file (default renderer.OutFile)")
	_ = viperConfig.BindPFlag(configurator.CfgRendererOutFile, renderCmd.Flags().Lookup("out"))

	for _, c := range []*cobra.Command{removeCmd, addDrillCmd, drawCmd} {
		c.PersistentFlags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	}
	for _, c := range []*cobra.Command{addDrillCmd, drawCmd} {
		c.PersistentFlags().BoolVar(&inMM, "mm", false, "values are in millimetres")
	}
	removeCmd.Flags().IntSliceVar(&removeIndexes, "graphic", nil, "image tree index to remove (repeatable)")
	_ = removeCmd.MarkFlagRequired("graphic")

	addDrillCmd.Flags().Float64Var(&drillX, "x", 0, "hit X")
	addDrillCmd.Flags().Float64Var(&drillY, "y", 0, "hit Y")
	addDrillCmd.Flags().Float64Var(&drillDia, "dia", 0, "tool diameter")
	_ = addDrillCmd.MarkFlagRequired("dia")

	drawCmd.PersistentFlags().Float64Var(&drawWidth, "width", generator.DefaultStrokeWidth, "stroke width")
	drawCmd.PersistentFlags().BoolVar(&drawFilled, "filled", false, "fill rectangles and circles")
	drawTextCmd.Flags().StringVar(&drawText, "text", "", "text to draw")
	drawTextCmd.Flags().Float64Var(&drawHeight, "height", 1, "character height")
	_ = drawTextCmd.MarkFlagRequired("text")
}
