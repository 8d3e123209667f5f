// Package editor removes the source text behind deleted graphics from a
// Gerber or drill file.
package editor

import (
	"regexp"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/stacks/arraystack"

	gbt "github.com/newmatik/gerbtrace-sub000/gerberbasetypes"
	"github.com/newmatik/gerbtrace-sub000/imagetree"
)

var blankLineRe = regexp.MustCompile(`\n[ \t]*\n`)

func byStart(a, b interface{}) int {
	return a.(gbt.SourceRange).Start - b.(gbt.SourceRange).Start
}

// MergeRanges sorts ranges and joins overlapping or touching ones.
func MergeRanges(ranges []gbt.SourceRange) []gbt.SourceRange {
	sorted := arraylist.New()
	for _, r := range ranges {
		sorted.Add(r)
	}
	sorted.Sort(byStart)

	stack := arraystack.New()
	it := sorted.Iterator()
	for it.Next() {
		cur := it.Value().(gbt.SourceRange)
		if top, ok := stack.Peek(); ok {
			last := top.(gbt.SourceRange)
			if cur.Start <= last.End {
				stack.Pop()
				last.End = max(last.End, cur.End)
				stack.Push(last)
				continue
			}
		}
		stack.Push(cur)
	}

	// the stack lists its values top first
	values := stack.Values()
	retVal := make([]gbt.SourceRange, len(values))
	for i, v := range values {
		retVal[len(values)-1-i] = v.(gbt.SourceRange)
	}
	return retVal
}

// RemoveSourceRanges cuts the given [start, end) ranges out of source. After
// each cut, trailing blanks, a line break, a block terminator '*' and one more
// line break are dropped too; blank lines left behind are collapsed.
func RemoveSourceRanges(source string, ranges []gbt.SourceRange) string {
	if len(ranges) == 0 {
		return source
	}
	var sb strings.Builder
	cursor := 0
	for _, r := range MergeRanges(ranges) {
		start, end := clamp(r.Start, len(source)), clamp(r.End, len(source))
		if start > cursor {
			sb.WriteString(source[cursor:start])
		}
		cursor = max(cursor, end)
		for cursor < len(source) && (source[cursor] == ' ' || source[cursor] == '\t') {
			cursor++
		}
		for _, c := range []byte{'\r', '\n', '*', '\r', '\n'} {
			if cursor < len(source) && source[cursor] == c {
				cursor++
			}
		}
	}
	if cursor < len(source) {
		sb.WriteString(source[cursor:])
	}
	return blankLineRe.ReplaceAllString(sb.String(), "\n")
}

func clamp(v, n int) int {
	return min(max(v, 0), n)
}

// GraphicRanges collects the source ranges behind the selected children of
// tree. Out of range indexes are ignored.
func GraphicRanges(tree *imagetree.ImageTree, indexes []int) []gbt.SourceRange {
	var retVal []gbt.SourceRange
	for _, i := range indexes {
		if i < 0 || i >= len(tree.Children) {
			continue
		}
		retVal = append(retVal, tree.Children[i].Ranges()...)
	}
	return retVal
}
