package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newmatik/gerbtrace-sub000/configurator"
	"github.com/newmatik/gerbtrace-sub000/dispatcher"
	"github.com/newmatik/gerbtrace-sub000/hittest"
	"github.com/newmatik/gerbtrace-sub000/imagetree"
	"github.com/newmatik/gerbtrace-sub000/regions"
)

var (
	hitAt        []float64
	hitBox       []float64
	hitTolerance float64
)

var detectCmd = &cobra.Command{
	Use:   "detect FILE",
	Short: "Print whether FILE is Gerber or Excellon",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := readSource(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), dispatcher.DetectFileType(src, configurator.DispatcherOptions(viperConfig)...))
		return nil
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse FILE",
	Short: "Dump the syntax tree of FILE",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, ast, err := parseFile(args[0])
		if err != nil {
			return err
		}
		return encode(cmd.OutOrStdout(), ast.Export())
	},
}

var plotCmd = &cobra.Command{
	Use:   "plot FILE",
	Short: "Dump the image tree of FILE",
	Long: `Dump the image tree of FILE.

Examples:
  gerbertree plot board.gtl
  gerbertree plot --expand-sr --format json panel.gbr`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, tree, err := plotFile(args[0])
		if err != nil {
			return err
		}
		return encode(cmd.OutOrStdout(), tree.Export())
	},
}

var boundsCmd = &cobra.Command{
	Use:   "bounds FILE",
	Short: "Print the bounding box of FILE",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, tree, err := plotFile(args[0])
		if err != nil {
			return err
		}
		b := tree.Bounds
		fmt.Fprintf(cmd.OutOrStdout(), "%g %g %g %g %s\n", b[0], b[1], b[2], b[3], tree.Units)
		return nil
	},
}

var areaCmd = &cobra.Command{
	Use:   "area FILE",
	Short: "Print the dark area of FILE after compositing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, tree, err := plotFile(args[0])
		if err != nil {
			return err
		}
		p := regions.Composite(tree)
		b := regions.Bounds(p)
		fmt.Fprintf(cmd.OutOrStdout(), "area %g %s^2, %d contours, extent %g %g %g %g\n",
			regions.Area(p), tree.Units, len(p), b[0], b[1], b[2], b[3])
		return nil
	},
}

var hitCmd = &cobra.Command{
	Use:   "hit FILE",
	Short: "List the graphics under a point or inside a box",
	Long: `List the indexes of the graphics under a point or touching a box.

Examples:
  gerbertree hit board.gtl --at 10.5,3.2 --tolerance 0.05
  gerbertree hit board.gtl --box 0,0,20,10`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, tree, err := plotFile(args[0])
		if err != nil {
			return err
		}
		var found []int
		switch {
		case len(hitAt) == 2:
			found = hittest.At(tree, hitAt[0], hitAt[1], hitTolerance)
		case len(hitBox) == 4:
			found = hittest.Select(tree, imagetree.BoundingBox{
				min(hitBox[0], hitBox[2]), min(hitBox[1], hitBox[3]),
				max(hitBox[0], hitBox[2]), max(hitBox[1], hitBox[3]),
			})
		default:
			return fmt.Errorf("need --at x,y or --box x0,y0,x1,y1")
		}
		for _, i := range found {
			fmt.Fprintf(cmd.OutOrStdout(), "%d %s\n", i, tree.Children[i].Kind())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detectCmd, parseCmd, plotCmd, boundsCmd, areaCmd, hitCmd)

	for _, c := range []*cobra.Command{parseCmd, plotCmd} {
		c.Flags().StringVarP(&outputFormat, "format", "f", "yaml", "output format: yaml or json")
	}
	plotCmd.Flags().Bool("expand-sr", false, "replicate step-and-repeat blocks")
	_ = viperConfig.BindPFlag(configurator.CfgPlotterExpandStepRepeat, plotCmd.Flags().Lookup("expand-sr"))

	hitCmd.Flags().Float64SliceVar(&hitAt, "at", nil, "point x,y")
	hitCmd.Flags().Float64SliceVar(&hitBox, "box", nil, "box x0,y0,x1,y1")
	hitCmd.Flags().Float64Var(&hitTolerance, "tolerance", 0, "extra reach around shapes and strokes")
}
