// Package dispatcher guesses whether a text is Gerber or Excellon and routes it
// to the matching grammar.
package dispatcher

import (
	"regexp"
	"strings"

	"github.com/golang/glog"

	"github.com/newmatik/gerbtrace-sub000/drillparser"
	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
	gp "github.com/newmatik/gerbtrace-sub000/gerbparser"
)

const (
	// ShortScanLines bounds the scan after an ambiguous '%' or ';' start.
	ShortScanLines = 20
	// LongScanLines bounds the scan when the first bytes say nothing.
	LongScanLines = 50
)

var (
	gerberExtendedRe = regexp.MustCompile(`^(MO|FS|AD|AM|LP|LM|LR|LS|SR|TF|TA|TD|TO|IP|OF|IN|AS|IR)`)
	drillToolRe      = regexp.MustCompile(`^T\d+C[\d.]`)
	gerberHeaderRe   = regexp.MustCompile(`^%(FS|MO|AD|AM)`)
	gerberFormatRe   = regexp.MustCompile(`^%(FS|MO)`)
	gerberAnywhereRe = regexp.MustCompile(`%(FS|MO|AD|AM)`)
)

type settings struct {
	shortScan int
	longScan  int
}

type Option func(*settings)

// WithScanLines overrides the short and long scan limits. Values <= 0 keep
// the defaults.
func WithScanLines(short, long int) Option {
	return func(s *settings) {
		if short > 0 {
			s.shortScan = short
		}
		if long > 0 {
			s.longScan = long
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{shortScan: ShortScanLines, longScan: LongScanLines}
	for _, o := range opts {
		o(&s)
	}
	return s
}

// DetectFileType looks at the first bytes and, when they are ambiguous, at a
// bounded number of lines. Anything undecided is Gerber.
func DetectFileType(source string, opts ...Option) gbt.FileType {
	s := newSettings(opts)
	text := strings.TrimLeft(source, " \t\r\n")

	switch {
	case strings.HasPrefix(text, "M48"):
		return gbt.FileTypeDrill
	case strings.HasPrefix(text, "%"):
		rest := strings.TrimLeft(text[1:], " \t")
		if rest != "" && rest[0] != '\n' && rest[0] != '\r' && rest[0] != '%' && gerberExtendedRe.MatchString(rest) {
			return gbt.FileTypeGerber
		}
		// a lone '%' also ends an Excellon header
		for _, line := range firstLines(text, s.shortScan) {
			switch {
			case strings.HasPrefix(line, "M48"), drillToolRe.MatchString(line):
				return gbt.FileTypeDrill
			case gerberHeaderRe.MatchString(line):
				return gbt.FileTypeGerber
			}
		}
	case strings.HasPrefix(text, "G04"):
		return gbt.FileTypeGerber
	case strings.HasPrefix(text, ";"):
		for _, line := range firstLines(text, s.shortScan) {
			switch {
			case strings.HasPrefix(line, "M48"):
				return gbt.FileTypeDrill
			case gerberFormatRe.MatchString(line):
				return gbt.FileTypeGerber
			}
		}
		return gbt.FileTypeDrill
	default:
		for _, line := range firstLines(text, s.longScan) {
			switch {
			case gerberAnywhereRe.MatchString(line):
				return gbt.FileTypeGerber
			case strings.HasPrefix(line, "M48"), drillToolRe.MatchString(line):
				return gbt.FileTypeDrill
			}
		}
	}
	return gbt.FileTypeGerber
}

// firstLines returns up to n trimmed lines of text.
func firstLines(text string, n int) []string {
	lines := strings.SplitN(text, "\n", n+1)
	if len(lines) > n {
		lines = lines[:n]
	}
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return lines
}

// Parse detects the file type and runs the matching parser.
func Parse(source string, opts ...Option) *gp.AST {
	ft := DetectFileType(source, opts...)
	if glog.V(1) {
		glog.Infoln("detected file type:", ft)
	}
	if ft == gbt.FileTypeDrill {
		return drillparser.Parse(source)
	}
	return gp.Parse(source)
}
