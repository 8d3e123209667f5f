// Base types for Gerber and Excellon parsing and processing
package gerberbasetypes

import "strings"

const (
	MaxInt = int(^uint(0) >> 1)
	MinInt = int(-MaxInt - 1)
)

// Extended command prefixes
const GerberApertureDef = "AD"
const GerberApertureMacroDef = "AM"
const GerberFormatSpec = "FS"
const GerberUnits = "MO"
const GerberLoadPolarity = "LP"
const GerberStepRepeat = "SR"

type FileType int

const (
	FileTypeGerber FileType = iota + 1
	FileTypeDrill
)

func (ft FileType) String() string {
	switch ft {
	case FileTypeGerber:
		return "gerber"
	case FileTypeDrill:
		return "drill"
	default:
	}
	return "unknown"
}

func (ft FileType) MarshalText() ([]byte, error) { return []byte(ft.String()), nil }

type Units int

const (
	UnitsMM Units = iota + 1
	UnitsInch
)

func (u Units) String() string {
	switch u {
	case UnitsMM:
		return "mm"
	case UnitsInch:
		return "in"
	default:
	}
	return "unknown"
}

func (u Units) MarshalText() ([]byte, error) { return []byte(u.String()), nil }

// ParseUnits accepts "mm", "in", "inch" and "metric" in any case.
func ParseUnits(s string) (Units, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mm", "metric":
		return UnitsMM, true
	case "in", "inch":
		return UnitsInch, true
	}
	return 0, false
}

// ZeroSuppression tells which side of a fixed-point digit string may omit zeros.
type ZeroSuppression int

const (
	ZeroSuppressionLeading ZeroSuppression = iota + 1
	ZeroSuppressionTrailing
)

func (zs ZeroSuppression) String() string {
	switch zs {
	case ZeroSuppressionLeading:
		return "leading"
	case ZeroSuppressionTrailing:
		return "trailing"
	default:
	}
	return "unknown"
}

func (zs ZeroSuppression) MarshalText() ([]byte, error) { return []byte(zs.String()), nil }

func ParseZeroSuppression(s string) (ZeroSuppression, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "leading", "l":
		return ZeroSuppressionLeading, true
	case "trailing", "t":
		return ZeroSuppressionTrailing, true
	}
	return 0, false
}

type CoordMode int

const (
	CoordModeAbsolute CoordMode = iota + 1
	CoordModeIncremental
)

func (cm CoordMode) String() string {
	switch cm {
	case CoordModeAbsolute:
		return "absolute"
	case CoordModeIncremental:
		return "incremental"
	default:
	}
	return "unknown"
}

func (cm CoordMode) MarshalText() ([]byte, error) { return []byte(cm.String()), nil }

type GerberApType int

const (
	AptypeCircle GerberApType = iota + 1
	AptypeRectangle
	AptypeObround
	AptypePoly
	AptypeMacro
)

func (ga GerberApType) String() string {
	switch ga {
	case AptypeCircle:
		return "circle"
	case AptypeRectangle:
		return "rectangle"
	case AptypeObround:
		return "obround"
	case AptypePoly:
		return "polygon"
	case AptypeMacro:
		return "macroShape"
	default:
	}
	return "unknown"
}

func (ga GerberApType) MarshalText() ([]byte, error) { return []byte(ga.String()), nil }

type PolType int

const (
	PolTypeDark PolType = iota + 1
	PolTypeClear
)

func (p PolType) String() string {
	switch p {
	case PolTypeDark:
		return "dark"
	case PolTypeClear:
		return "clear"
	default:
	}
	return "unknown"
}

func (p PolType) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// ActType is the operation a graphic node performs.
type ActType int

const (
	OpcodeD01_DRAW ActType = iota + 1
	OpcodeD02_MOVE
	OpcodeD03_FLASH
	OpcodeG85_SLOT
)

func (act ActType) String() string {
	switch act {
	case OpcodeD01_DRAW:
		return "segment"
	case OpcodeD02_MOVE:
		return "move"
	case OpcodeD03_FLASH:
		return "shape"
	case OpcodeG85_SLOT:
		return "slot"
	default:
	}
	return "none"
}

func (act ActType) MarshalText() ([]byte, error) { return []byte(act.String()), nil }

type QuadMode int

const (
	QuadModeSingle QuadMode = iota + 1
	QuadModeMulti
)

func (q QuadMode) String() string {
	switch q {
	case QuadModeSingle:
		return "single"
	case QuadModeMulti:
		return "multi"
	default:
	}
	return "unknown"
}

func (q QuadMode) MarshalText() ([]byte, error) { return []byte(q.String()), nil }

type IPmode int

const (
	IPModeLinear IPmode = iota + 1
	IPModeCwC
	IPModeCCwC
)

func (ipm IPmode) String() string {
	switch ipm {
	case IPModeLinear:
		return "line"
	case IPModeCwC:
		return "cwArc"
	case IPModeCCwC:
		return "ccwArc"
	default:
	}
	return "unknown"
}

func (ipm IPmode) MarshalText() ([]byte, error) { return []byte(ipm.String()), nil }

// SourceRange is a half-open [Start, End) byte range into the source text.
type SourceRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

func (sr SourceRange) IsEmpty() bool {
	return sr.End <= sr.Start
}

func (sr SourceRange) Len() int {
	if sr.IsEmpty() {
		return 0
	}
	return sr.End - sr.Start
}
