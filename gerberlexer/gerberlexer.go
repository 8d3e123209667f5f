// Package gerberlexer splits RS-274X source text into a flat token stream.
//
// Word commands understood by the parser:
//
//	G01 G02 G03      interpolation mode: linear, clockwise, counterclockwise
//	G04              comment, text up to the block trailer
//	G36 G37          region statement begin/end
//	G70 G71          legacy unit selection (inch/mm)
//	G74 G75          single/multi quadrant arcs
//	D01 D02 D03      draw, move, flash
//	Dnn (nn >= 10)   aperture selection
//	M00 M02          end of program
//
// Extended commands are enclosed in '%' and may carry several '*'-terminated
// statements (FS, MO, AD, LP, SR, TF, ...). Aperture macro blocks (%AM...%)
// stay one token because '*' separates macro primitives inside them.
package gerberlexer

import (
	"strconv"
	"strings"

	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
)

type TokenKind int

const (
	Extended TokenKind = iota + 1
	GCode
	DCode
	ToolSelect
	MCode
	Coord
	Comment
)

func (tk TokenKind) String() string {
	switch tk {
	case Extended:
		return "extended"
	case GCode:
		return "gcode"
	case DCode:
		return "dcode"
	case ToolSelect:
		return "toolSelect"
	case MCode:
		return "mcode"
	case Coord:
		return "coord"
	case Comment:
		return "comment"
	default:
	}
	return "unknown"
}

type Delim byte

const (
	DataBlockTrailer Delim = '*'
	ExtCmdDelimiter  Delim = '%'
)

// Token is one lexical unit. Start and End are byte offsets into the source,
// End exclusive. Line is the 1-based line the token starts on.
type Token struct {
	Kind  TokenKind
	Value string
	Line  int
	Start int
	End   int
}

func (t Token) Range() gbt.SourceRange {
	return gbt.SourceRange{Start: t.Start, End: t.End}
}

func (t Token) String() string {
	return "{kind:\"" + t.Kind.String() + "\",val:\"" + t.Value + "\"}"
}

type lexer struct {
	src    string
	pos    int
	line   int
	tokens []Token
}

// Tokenize never fails. Characters that cannot start a token are skipped.
func Tokenize(source string) []Token {
	lx := &lexer{src: source, line: 1}
	lx.run()
	return lx.tokens
}

func (lx *lexer) emit(kind TokenKind, value string, start, end int) {
	lx.tokens = append(lx.tokens, Token{Kind: kind, Value: value, Line: lx.line, Start: start, End: end})
}

func (lx *lexer) run() {
	for lx.pos < len(lx.src) {
		switch c := lx.src[lx.pos]; c {
		case '\n':
			lx.line++
			lx.pos++
		case '\r', ' ', '\t', byte(DataBlockTrailer):
			lx.pos++
		case byte(ExtCmdDelimiter):
			lx.extended()
		case 'G', 'g':
			lx.gcode()
		case 'M', 'm':
			lx.mcode()
		case 'D', 'd':
			if !lx.dcode() {
				lx.pos++
			}
		case 'X', 'Y', 'I', 'J', 'x', 'y', 'i', 'j':
			lx.coords()
		default:
			lx.pos++
		}
	}
}

// digits returns the run of decimal digits starting at from.
func (lx *lexer) digits(from int) string {
	end := from
	for end < len(lx.src) && lx.src[end] >= '0' && lx.src[end] <= '9' {
		end++
	}
	return lx.src[from:end]
}

type statement struct {
	value string
	end   int
}

// extended handles a %...% block. Statements split out of one block get
// consecutive sub-ranges: the first begins at the opening '%', each ends after
// its '*', and the last one also takes the closing '%'.
func (lx *lexer) extended() {
	blockStart := lx.pos
	startLine := lx.line
	lx.pos++
	bodyStart := lx.pos
	for lx.pos < len(lx.src) && lx.src[lx.pos] != byte(ExtCmdDelimiter) {
		if lx.src[lx.pos] == '\n' {
			lx.line++
		}
		lx.pos++
	}
	body := lx.src[bodyStart:lx.pos]
	if lx.pos < len(lx.src) {
		lx.pos++
	}
	blockEnd := lx.pos
	lineAtEnd := lx.line
	lx.line = startLine
	defer func() { lx.line = lineAtEnd }()

	content := stripNewlines(body)
	if strings.HasPrefix(content, gbt.GerberApertureMacroDef) {
		lx.emit(Extended, content, blockStart, blockEnd)
		return
	}

	var stmts []statement
	partStart := 0
	for i := 0; i <= len(body); i++ {
		if i < len(body) && body[i] != byte(DataBlockTrailer) {
			continue
		}
		if v := stripNewlines(body[partStart:i]); len(v) > 0 {
			end := bodyStart + i
			if i < len(body) {
				end++
			}
			stmts = append(stmts, statement{v, end})
		}
		partStart = i + 1
	}
	start := blockStart
	for i, st := range stmts {
		end := st.end
		if i == len(stmts)-1 {
			end = blockEnd
		}
		lx.emit(Extended, st.value, start, end)
		start = end
	}
}

func stripNewlines(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	return strings.NewReplacer("\r", "", "\n", "").Replace(s)
}

func (lx *lexer) gcode() {
	start := lx.pos
	num := lx.digits(start + 1)
	lx.pos = start + 1 + len(num)
	code := FormatCode(num)
	if code != "04" {
		lx.emit(GCode, code, start, lx.pos)
		return
	}
	textStart := lx.pos
	for lx.pos < len(lx.src) && lx.src[lx.pos] != byte(DataBlockTrailer) && lx.src[lx.pos] != '\n' {
		lx.pos++
	}
	text := strings.TrimSpace(lx.src[textStart:lx.pos])
	if lx.pos < len(lx.src) && lx.src[lx.pos] == byte(DataBlockTrailer) {
		lx.pos++
	}
	lx.emit(Comment, text, start, lx.pos)
}

func (lx *lexer) mcode() {
	start := lx.pos
	num := lx.digits(start + 1)
	lx.pos = start + 1 + len(num)
	lx.emit(MCode, FormatCode(num), start, lx.pos)
}

// dcode consumes a D-code at the cursor. It reports false when the D is not
// followed by digits, leaving the cursor untouched.
func (lx *lexer) dcode() bool {
	start := lx.pos
	num := lx.digits(start + 1)
	if len(num) == 0 {
		return false
	}
	lx.pos = start + 1 + len(num)
	num = strings.TrimLeft(num, "0")
	code, err := strconv.Atoi(num)
	switch {
	case err != nil && len(num) > 0:
		// too long for an int, still an aperture number
		lx.emit(ToolSelect, "D"+num, start, lx.pos)
	case code >= 10:
		lx.emit(ToolSelect, "D"+strconv.Itoa(code), start, lx.pos)
	case code >= 1 && code <= 3:
		lx.emit(DCode, "0"+strconv.Itoa(code), start, lx.pos)
	default:
	}
	return true
}

// coords reads an X/Y/I/J run. It ends at a block trailer, a line break, a
// '%', a G or M word, or a D-code, which is emitted as its own token.
func (lx *lexer) coords() {
	start := lx.pos
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if c == byte(DataBlockTrailer) || c == '\n' || c == '\r' || c == byte(ExtCmdDelimiter) {
			break
		}
		if lx.pos > start && (c == 'G' || c == 'g' || c == 'M' || c == 'm' || c == 'D' || c == 'd') {
			break
		}
		lx.pos++
	}
	lx.emit(Coord, lx.src[start:lx.pos], start, lx.pos)
	if lx.pos < len(lx.src) && (lx.src[lx.pos] == 'D' || lx.src[lx.pos] == 'd') {
		lx.dcode()
	}
}

// FormatCode normalizes a G or M code number to at least two digits
// ("1" -> "01", "001" -> "01", "" -> "00").
func FormatCode(num string) string {
	num = strings.TrimLeft(num, "0")
	for len(num) < 2 {
		num = "0" + num
	}
	return num
}
