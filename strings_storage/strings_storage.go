/*
 Supplier and acceptor of source lines
*/

package strings_storage

import (
	"strings"

	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
)

// Line is one trimmed source line. Range covers the untrimmed line without
// its line break.
type Line struct {
	Text  string
	Range gbt.SourceRange
}

type LinesStorage interface {
	Supplier
	Consumer
}

type Supplier interface {
	Next() (Line, bool)
	Len() int
}

type Consumer interface {
	Accept(Line)
}

type Storage struct {
	index int
	lines []Line
}

func NewStorage() *Storage {
	retVal := new(Storage)
	retVal.lines = make([]Line, 0)
	return retVal
}

// SplitLines stores the non-blank lines of source. LF and CRLF breaks are
// both accepted.
func SplitLines(source string) *Storage {
	retVal := NewStorage()
	offset := 0
	for _, raw := range strings.Split(source, "\n") {
		start := offset
		offset += len(raw) + 1
		raw = strings.TrimSuffix(raw, "\r")
		retVal.Accept(Line{
			Text:  strings.TrimSpace(raw),
			Range: gbt.SourceRange{Start: start, End: start + len(raw)},
		})
	}
	return retVal
}

// Next returns the line at the read position and advances it.
func (storage *Storage) Next() (Line, bool) {
	if storage.index >= len(storage.lines) {
		// no more lines in the storage
		return Line{}, false
	}
	storage.index++
	return storage.lines[storage.index-1], true
}

// empty lines are discarded
func (storage *Storage) Accept(l Line) {
	if len(l.Text) > 0 {
		storage.lines = append(storage.lines, l)
	}
}

func (storage *Storage) Len() int {
	return len(storage.lines)
}

func (storage *Storage) ResetPos() {
	storage.index = 0
}

func (storage *Storage) Empty() {
	storage.index = 0
	storage.lines = storage.lines[:0]
}

func (storage *Storage) PeekPos() int {
	return storage.index
}

// Before returns the stored lines that start before pos.
func (storage *Storage) Before(pos int) []Line {
	retVal := make([]Line, 0)
	for _, l := range storage.lines {
		if l.Range.Start >= pos {
			break
		}
		retVal = append(retVal, l)
	}
	return retVal
}

func (storage *Storage) ToArray() []Line {
	retVal := make([]Line, len(storage.lines))
	copy(retVal, storage.lines)
	return retVal
}
