// Package generator writes new Gerber and Excellon commands in the format of
// an existing file and splices them into its source text.
//
// Unlike the parsers, the generators are strict: a value that cannot be
// written in the target format is an error, never a silent fallback.
package generator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
	"github.com/newmatik/gerbtrace-sub000/xy"
)

var (
	ErrNonPositiveDiameter = errors.New("diameter must be greater than 0")
	ErrCoordinateOverflow  = errors.New("coordinate exceeds format")
	ErrMixedFormat         = errors.New("unsupported mixed X/Y format")
)

// FileFormat is what a generator has to know about the file it writes into.
type FileFormat struct {
	Units           gbt.Units
	Format          xy.Format
	ZeroSuppression gbt.ZeroSuppression
}

func (ff FileFormat) String() string {
	return fmt.Sprintf("%s %s %s", ff.Units, ff.Format, ff.ZeroSuppression)
}

// FormatCoordinate writes v as a fixed-point digit string in format f with
// the zeros on the zs side suppressed. Zero is written as "0".
func FormatCoordinate(v float64, f xy.Format, zs gbt.ZeroSuppression) (string, error) {
	sign := ""
	if v < 0 {
		sign = "-"
	}
	scaled := math.Round(math.Abs(v) * math.Pow(10, float64(f.Dec)))
	digits := strconv.FormatFloat(scaled, 'f', 0, 64)
	if len(digits) > f.Total() {
		return "", fmt.Errorf("%w: %v does not fit %s", ErrCoordinateOverflow, v, f)
	}
	digits = strings.Repeat("0", f.Total()-len(digits)) + digits
	if zs == gbt.ZeroSuppressionTrailing {
		digits = strings.TrimRight(digits, "0")
	} else {
		digits = strings.TrimLeft(digits, "0")
	}
	if digits == "" {
		digits = "0"
	}
	return sign + digits, nil
}

// coordWriter formats coordinates and keeps the first error.
type coordWriter struct {
	ff       FileFormat
	decimals bool
	err      error
}

func (cw *coordWriter) coord(v float64) string {
	if cw.err != nil {
		return ""
	}
	if cw.decimals {
		return strconv.FormatFloat(v, 'f', cw.ff.Format.Dec, 64)
	}
	retVal, err := FormatCoordinate(v, cw.ff.Format, cw.ff.ZeroSuppression)
	if err != nil {
		cw.err = err
	}
	return retVal
}

func (cw *coordWriter) xy(x, y float64) string {
	return "X" + cw.coord(x) + "Y" + cw.coord(y)
}

// trimDecimal prints v with at most prec decimals and no trailing zeros.
func trimDecimal(v float64, prec int) string {
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
	}
	return s
}

// lineEnding returns the line break the source already uses.
func lineEnding(source string) string {
	if strings.Contains(source, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// insertLines puts the LF separated text into source at pos as lines of
// their own, using the line break of source.
func insertLines(source string, pos int, text string) string {
	eol := lineEnding(source)
	text = strings.ReplaceAll(text, "\n", eol)
	pre, post := "", ""
	if pos > 0 && source[pos-1] != '\n' {
		pre = eol
	}
	if pos == len(source) || (source[pos] != '\r' && source[pos] != '\n') {
		post = eol
	}
	return source[:pos] + pre + text + post + source[pos:]
}

// MMToFileUnits converts millimetres into the units of the file.
func MMToFileUnits(mm float64, units gbt.Units) float64 {
	if units == gbt.UnitsInch {
		return mm / xy.InchesToMM
	}
	return mm
}

// FileUnitsToMM converts a value in the units of the file into millimetres.
func FileUnitsToMM(v float64, units gbt.Units) float64 {
	if units == gbt.UnitsInch {
		return v * xy.InchesToMM
	}
	return v
}
