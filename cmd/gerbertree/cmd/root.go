package cmd

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/newmatik/gerbtrace-sub000/configurator"
	"github.com/newmatik/gerbtrace-sub000/dispatcher"
	gp "github.com/newmatik/gerbtrace-sub000/gerbparser"
	"github.com/newmatik/gerbtrace-sub000/imagetree"
	"github.com/newmatik/gerbtrace-sub000/plotter"
)

var ErrUnknownFormat = errors.New("unknown output format")

var (
	cfgFile      string
	outputFormat string
	outFile      string
	startTime    time.Time
)

// configuration base
var viperConfig = viper.New()

var rootCmd = &cobra.Command{
	Use:   "gerbertree",
	Short: "Gerber RS-274X and Excellon interpreter",
	Long: `gerbertree parses Gerber and Excellon drill files into a flat image tree
of flashes, strokes and regions, and edits their source text.

Settings come from ./config.toml (see "gerbertree config") and may be
overridden with --config.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: report,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.toml)")
	// glog registers -v, -logtostderr and friends on the standard flag set
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)
	rootCmd.PersistentFlags().SetNormalizeFunc(wordSepNormalize)
}

// wordSepNormalize lets --log-dir and --log_dir name the same flag.
func wordSepNormalize(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func setup(cmd *cobra.Command, args []string) error {
	startTime = time.Now()
	configurator.SetDefaults(viperConfig)
	if cfgFile != "" {
		viperConfig.SetConfigFile(cfgFile)
	}
	err := configurator.ProcessConfigFile(viperConfig)
	var notFound viper.ConfigFileNotFoundError
	switch {
	case err == nil:
		glog.V(1).Infoln("config file:", viperConfig.ConfigFileUsed())
	case errors.As(err, &notFound):
		glog.V(1).Infoln("no config file, using built-in defaults")
	default:
		return err
	}
	printMemUsage("Memory usage before processing:")
	return nil
}

func report(cmd *cobra.Command, args []string) error {
	printMemUsage("Memory usage after processing:")
	if viperConfig.GetBool(configurator.CfgCommonPrintStatistic) {
		fmt.Fprintf(os.Stderr, "%s done in %.3f s\n", cmd.Name(), time.Since(startTime).Seconds())
	}
	return nil
}

// printMemUsage outputs the current, total and OS memory being used, and the
// number of garbage collection cycles completed.
func printMemUsage(header string) {
	if !viperConfig.GetBool(configurator.CfgCommonPrintMemoryInfo) {
		return
	}
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)
	fmt.Fprintln(os.Stderr, header)
	fmt.Fprintf(os.Stderr, "Alloc = %v KB\tTotalAlloc = %v KB\tSys = %v KB\tNumGC = %v\n",
		bToKb(memStats.Alloc), bToKb(memStats.TotalAlloc), bToKb(memStats.Sys), memStats.NumGC)
}

func bToKb(b uint64) uint64 {
	return b / 1024
}

/* #### shared helpers #### */

func readSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(b), nil
}

func parseFile(path string) (string, *gp.AST, error) {
	src, err := readSource(path)
	if err != nil {
		return "", nil, err
	}
	return src, dispatcher.Parse(src, configurator.DispatcherOptions(viperConfig)...), nil
}

func plotFile(path string) (string, *imagetree.ImageTree, error) {
	src, ast, err := parseFile(path)
	if err != nil {
		return "", nil, err
	}
	opts, err := configurator.PlotterOptions(viperConfig)
	if err != nil {
		return "", nil, err
	}
	return src, plotter.Plot(ast, opts...), nil
}

func encode(w io.Writer, v interface{}) error {
	switch outputFormat {
	case "yaml", "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, outputFormat)
}

// writeOutput writes edited source to outFile, or to stdout when none is set.
func writeOutput(cmd *cobra.Command, text string) error {
	if outFile == "" || outFile == "-" {
		_, err := io.WriteString(cmd.OutOrStdout(), text)
		return err
	}
	if err := os.WriteFile(outFile, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	glog.V(1).Infoln("written", outFile)
	return nil
}
