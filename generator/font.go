package generator

import "github.com/newmatik/gerbtrace-sub000/xy"

// polyline is one pen-down stroke in a unit glyph cell.
type polyline []xy.Point

type glyph struct {
	width   float64
	strokes []polyline
}

const (
	glyphSpacing = 0.15
	// advance for characters the font lacks
	missingAdvance = 0.4
)

// strokeFont covers upper case letters, digits and a little punctuation.
// Cells are one unit high; x runs from 0 to the glyph width.
var strokeFont = map[rune]glyph{
	'A': {0.7, []polyline{{{0, 0}, {0.35, 1}, {0.7, 0}}, {{0.15, 0.4}, {0.55, 0.4}}}},
	'B': {0.65, []polyline{{{0, 0}, {0, 1}, {0.45, 1}, {0.6, 0.85}, {0.6, 0.65}, {0.45, 0.5}, {0, 0.5}}, {{0.45, 0.5}, {0.6, 0.35}, {0.6, 0.15}, {0.45, 0}, {0, 0}}}},
	'C': {0.65, []polyline{{{0.6, 0.85}, {0.45, 1}, {0.15, 1}, {0, 0.85}, {0, 0.15}, {0.15, 0}, {0.45, 0}, {0.6, 0.15}}}},
	'D': {0.65, []polyline{{{0, 0}, {0, 1}, {0.4, 1}, {0.6, 0.8}, {0.6, 0.2}, {0.4, 0}, {0, 0}}}},
	'E': {0.55, []polyline{{{0.55, 1}, {0, 1}, {0, 0}, {0.55, 0}}, {{0, 0.5}, {0.4, 0.5}}}},
	'F': {0.55, []polyline{{{0, 0}, {0, 1}, {0.55, 1}}, {{0, 0.5}, {0.4, 0.5}}}},
	'G': {0.65, []polyline{{{0.6, 0.85}, {0.45, 1}, {0.15, 1}, {0, 0.85}, {0, 0.15}, {0.15, 0}, {0.45, 0}, {0.6, 0.15}, {0.6, 0.5}, {0.35, 0.5}}}},
	'H': {0.65, []polyline{{{0, 0}, {0, 1}}, {{0.65, 0}, {0.65, 1}}, {{0, 0.5}, {0.65, 0.5}}}},
	'I': {0.3, []polyline{{{0.15, 0}, {0.15, 1}}}},
	'J': {0.5, []polyline{{{0.4, 1}, {0.4, 0.15}, {0.25, 0}, {0.1, 0}, {0, 0.15}}}},
	'K': {0.6, []polyline{{{0, 0}, {0, 1}}, {{0.6, 1}, {0, 0.4}}, {{0.2, 0.55}, {0.6, 0}}}},
	'L': {0.55, []polyline{{{0, 1}, {0, 0}, {0.55, 0}}}},
	'M': {0.8, []polyline{{{0, 0}, {0, 1}, {0.4, 0.5}, {0.8, 1}, {0.8, 0}}}},
	'N': {0.65, []polyline{{{0, 0}, {0, 1}, {0.65, 0}, {0.65, 1}}}},
	'O': {0.7, []polyline{{{0.15, 0}, {0, 0.15}, {0, 0.85}, {0.15, 1}, {0.55, 1}, {0.7, 0.85}, {0.7, 0.15}, {0.55, 0}, {0.15, 0}}}},
	'P': {0.6, []polyline{{{0, 0}, {0, 1}, {0.45, 1}, {0.6, 0.85}, {0.6, 0.6}, {0.45, 0.45}, {0, 0.45}}}},
	'Q': {0.7, []polyline{{{0.15, 0}, {0, 0.15}, {0, 0.85}, {0.15, 1}, {0.55, 1}, {0.7, 0.85}, {0.7, 0.15}, {0.55, 0}, {0.15, 0}}, {{0.45, 0.2}, {0.7, 0}}}},
	'R': {0.6, []polyline{{{0, 0}, {0, 1}, {0.45, 1}, {0.6, 0.85}, {0.6, 0.6}, {0.45, 0.45}, {0, 0.45}}, {{0.35, 0.45}, {0.6, 0}}}},
	'S': {0.6, []polyline{{{0.55, 0.85}, {0.45, 1}, {0.15, 1}, {0, 0.85}, {0, 0.6}, {0.15, 0.5}, {0.45, 0.5}, {0.6, 0.4}, {0.6, 0.15}, {0.45, 0}, {0.15, 0}, {0, 0.15}}}},
	'T': {0.6, []polyline{{{0, 1}, {0.6, 1}}, {{0.3, 0}, {0.3, 1}}}},
	'U': {0.65, []polyline{{{0, 1}, {0, 0.15}, {0.15, 0}, {0.5, 0}, {0.65, 0.15}, {0.65, 1}}}},
	'V': {0.7, []polyline{{{0, 1}, {0.35, 0}, {0.7, 1}}}},
	'W': {0.9, []polyline{{{0, 1}, {0.2, 0}, {0.45, 0.6}, {0.7, 0}, {0.9, 1}}}},
	'X': {0.65, []polyline{{{0, 0}, {0.65, 1}}, {{0.65, 0}, {0, 1}}}},
	'Y': {0.65, []polyline{{{0, 1}, {0.325, 0.5}, {0.65, 1}}, {{0.325, 0.5}, {0.325, 0}}}},
	'Z': {0.6, []polyline{{{0, 1}, {0.6, 1}, {0, 0}, {0.6, 0}}}},
	'0': {0.65, []polyline{{{0.15, 0}, {0, 0.15}, {0, 0.85}, {0.15, 1}, {0.5, 1}, {0.65, 0.85}, {0.65, 0.15}, {0.5, 0}, {0.15, 0}}}},
	'1': {0.4, []polyline{{{0.1, 0.8}, {0.25, 1}, {0.25, 0}}, {{0.05, 0}, {0.4, 0}}}},
	'2': {0.6, []polyline{{{0, 0.8}, {0.1, 1}, {0.5, 1}, {0.6, 0.85}, {0.6, 0.65}, {0, 0}, {0.6, 0}}}},
	'3': {0.6, []polyline{{{0, 0.85}, {0.1, 1}, {0.45, 1}, {0.6, 0.85}, {0.6, 0.6}, {0.45, 0.5}, {0.2, 0.5}}, {{0.45, 0.5}, {0.6, 0.4}, {0.6, 0.15}, {0.45, 0}, {0.1, 0}, {0, 0.15}}}},
	'4': {0.65, []polyline{{{0.5, 0}, {0.5, 1}, {0, 0.35}, {0.65, 0.35}}}},
	'5': {0.6, []polyline{{{0.55, 1}, {0, 1}, {0, 0.55}, {0.4, 0.55}, {0.6, 0.4}, {0.6, 0.15}, {0.45, 0}, {0.1, 0}, {0, 0.15}}}},
	'6': {0.6, []polyline{{{0.5, 1}, {0.2, 1}, {0, 0.75}, {0, 0.15}, {0.15, 0}, {0.45, 0}, {0.6, 0.15}, {0.6, 0.4}, {0.45, 0.55}, {0.15, 0.55}, {0, 0.4}}}},
	'7': {0.6, []polyline{{{0, 1}, {0.6, 1}, {0.2, 0}}}},
	'8': {0.6, []polyline{{{0.15, 0.5}, {0, 0.65}, {0, 0.85}, {0.15, 1}, {0.45, 1}, {0.6, 0.85}, {0.6, 0.65}, {0.45, 0.5}, {0.15, 0.5}, {0, 0.35}, {0, 0.15}, {0.15, 0}, {0.45, 0}, {0.6, 0.15}, {0.6, 0.35}, {0.45, 0.5}}}},
	'9': {0.6, []polyline{{{0.6, 0.6}, {0.45, 0.45}, {0.15, 0.45}, {0, 0.6}, {0, 0.85}, {0.15, 1}, {0.45, 1}, {0.6, 0.85}, {0.6, 0.25}, {0.4, 0}, {0.1, 0}}}},
	'.': {0.2, []polyline{{{0.1, 0}, {0.1, 0.05}}}},
	',': {0.2, []polyline{{{0.1, 0.1}, {0.05, -0.05}}}},
	'-': {0.45, []polyline{{{0.05, 0.45}, {0.4, 0.45}}}},
	'+': {0.5, []polyline{{{0.25, 0.25}, {0.25, 0.7}}, {{0.05, 0.475}, {0.45, 0.475}}}},
	'/': {0.45, []polyline{{{0, 0}, {0.45, 1}}}},
	':': {0.2, []polyline{{{0.1, 0.2}, {0.1, 0.25}}, {{0.1, 0.7}, {0.1, 0.75}}}},
	' ': {width: 0.35},
	'(': {0.3, []polyline{{{0.25, 1}, {0.05, 0.75}, {0.05, 0.25}, {0.25, 0}}}},
	')': {0.3, []polyline{{{0.05, 1}, {0.25, 0.75}, {0.25, 0.25}, {0.05, 0}}}},
}
