package configurator

import (
	"errors"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"

	"github.com/newmatik/gerbtrace-sub000/dispatcher"
	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
	"github.com/newmatik/gerbtrace-sub000/plotter"
	"github.com/newmatik/gerbtrace-sub000/preview"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

const (
	CfgCommonPrintMemoryInfo string = "common.PrintMemoryInfo"
	CfgCommonPrintStatistic  string = "common.PrintStatistic"

	CfgPlotterDefaultUnits           string = "plotter.DefaultUnits"
	CfgPlotterDefaultIntDigits       string = "plotter.DefaultIntDigits"
	CfgPlotterDefaultDecDigits       string = "plotter.DefaultDecDigits"
	CfgPlotterDefaultZeroSuppression string = "plotter.DefaultZeroSuppression"
	CfgPlotterExpandStepRepeat       string = "plotter.ExpandStepRepeat"
	CfgPlotterArcTolerance           string = "plotter.ArcTolerance"

	CfgDispatcherShortScanLines string = "dispatcher.ShortScanLines"
	CfgDispatcherLongScanLines  string = "dispatcher.LongScanLines"

	CfgRendererOutFile       string = "renderer.OutFile"
	CfgRendererPixelsPerUnit string = "renderer.PixelsPerUnit"
	CfgRendererMargin        string = "renderer.Margin"
	CfgRendererBackground    string = "renderer.Background"
	CfgRendererForeground    string = "renderer.Foreground"
)

var (
	ErrConfigFile = errors.New("configuration file error")
	ErrBadValue   = errors.New("bad configuration value")
)

func SetDefaults(v *viper.Viper) {
	v.SetConfigName("config") // no need to include file extension
	v.AddConfigPath(".")      // set the path of your config file
	v.SetConfigType("toml")

	// diagnostic messages
	v.SetDefault(CfgCommonPrintMemoryInfo, false)
	v.SetDefault(CfgCommonPrintStatistic, false)

	// fallbacks for files that declare nothing
	v.SetDefault(CfgPlotterDefaultUnits, gbt.UnitsInch.String())
	v.SetDefault(CfgPlotterDefaultIntDigits, xy.DefaultFormat.Int)
	v.SetDefault(CfgPlotterDefaultDecDigits, xy.DefaultFormat.Dec)
	v.SetDefault(CfgPlotterDefaultZeroSuppression, gbt.ZeroSuppressionLeading.String())
	v.SetDefault(CfgPlotterExpandStepRepeat, false)
	v.SetDefault(CfgPlotterArcTolerance, plotter.FullCircleTolerance)

	v.SetDefault(CfgDispatcherShortScanLines, dispatcher.ShortScanLines)
	v.SetDefault(CfgDispatcherLongScanLines, dispatcher.LongScanLines)

	po := preview.DefaultOptions()
	v.SetDefault(CfgRendererOutFile, "out.png")
	v.SetDefault(CfgRendererPixelsPerUnit, po.PixelsPerUnit)
	v.SetDefault(CfgRendererMargin, po.Margin)
	v.SetDefault(CfgRendererBackground, po.Background)
	v.SetDefault(CfgRendererForeground, po.Foreground)
}

// ProcessConfigFile reads the configuration file. A missing file is
// reported as viper.ConfigFileNotFoundError so callers can go on with the
// defaults.
func ProcessConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return notFound
	}
	return fmt.Errorf("%w: %v", ErrConfigFile, err)
}

// PlotterOptions turns the plotter section into plotter options.
func PlotterOptions(v *viper.Viper) ([]plotter.Option, error) {
	units, ok := gbt.ParseUnits(v.GetString(CfgPlotterDefaultUnits))
	if !ok {
		return nil, fmt.Errorf("%w: %s = %q", ErrBadValue, CfgPlotterDefaultUnits, v.GetString(CfgPlotterDefaultUnits))
	}
	zs, ok := gbt.ParseZeroSuppression(v.GetString(CfgPlotterDefaultZeroSuppression))
	if !ok {
		return nil, fmt.Errorf("%w: %s = %q", ErrBadValue, CfgPlotterDefaultZeroSuppression, v.GetString(CfgPlotterDefaultZeroSuppression))
	}
	f := xy.Format{Int: v.GetInt(CfgPlotterDefaultIntDigits), Dec: v.GetInt(CfgPlotterDefaultDecDigits)}
	if f.Int < 0 || f.Dec < 0 || f.Total() == 0 {
		return nil, fmt.Errorf("%w: format %s", ErrBadValue, f)
	}
	return []plotter.Option{
		plotter.WithDefaultUnits(units),
		plotter.WithDefaultFormat(f),
		plotter.WithDefaultZeroSuppression(zs),
		plotter.WithStepRepeat(v.GetBool(CfgPlotterExpandStepRepeat)),
		plotter.WithArcTolerance(v.GetFloat64(CfgPlotterArcTolerance)),
	}, nil
}

func DispatcherOptions(v *viper.Viper) []dispatcher.Option {
	return []dispatcher.Option{
		dispatcher.WithScanLines(v.GetInt(CfgDispatcherShortScanLines), v.GetInt(CfgDispatcherLongScanLines)),
	}
}

func PreviewOptions(v *viper.Viper) preview.Options {
	return preview.Options{
		PixelsPerUnit: v.GetFloat64(CfgRendererPixelsPerUnit),
		Margin:        v.GetInt(CfgRendererMargin),
		Background:    v.GetString(CfgRendererBackground),
		Foreground:    v.GetString(CfgRendererForeground),
	}
}

// WriteConfig dumps the effective settings as TOML. Keys come out lower
// cased, which viper reads back without complaint.
func WriteConfig(w io.Writer, v *viper.Viper) error {
	return toml.NewEncoder(w).Encode(v.AllSettings())
}
