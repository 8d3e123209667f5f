package plotter

import (
	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

// FullCircleTolerance is the start/end distance, relative to the radius,
// under which a multi-quadrant arc is a full circle.
const FullCircleTolerance = 1e-4

type settings struct {
	units        gbt.Units
	format       xy.Format
	zs           gbt.ZeroSuppression
	expandSR     bool
	arcTolerance float64
}

func defaultSettings() settings {
	return settings{
		units:        gbt.UnitsInch,
		format:       xy.DefaultFormat,
		zs:           gbt.ZeroSuppressionLeading,
		arcTolerance: FullCircleTolerance,
	}
}

// Option adjusts the state a Plot call starts from.
type Option func(*settings)

func WithDefaultUnits(u gbt.Units) Option {
	return func(s *settings) {
		if u != 0 {
			s.units = u
		}
	}
}

func WithDefaultFormat(f xy.Format) Option {
	return func(s *settings) {
		if f.Total() > 0 {
			s.format = f
		}
	}
}

func WithDefaultZeroSuppression(zs gbt.ZeroSuppression) Option {
	return func(s *settings) {
		if zs != 0 {
			s.zs = zs
		}
	}
}

// WithStepRepeat turns on replication of SR blocks. Off by default.
func WithStepRepeat(on bool) Option {
	return func(s *settings) { s.expandSR = on }
}

func WithArcTolerance(t float64) Option {
	return func(s *settings) {
		if t > 0 {
			s.arcTolerance = t
		}
	}
}
