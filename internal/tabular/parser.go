package tabular

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// Package tabular turns raw caret-delimited text into a normalized
// rectangular grid of string cells. It performs no type coercion: a cell
// that looks numeric stays a string.

// Delimiter separates fields within a line. There is no quoting or escaping;
// a literal caret inside data is indistinguishable from a delimiter.
const Delimiter = "^"

// ErrInvalidEncoding is returned when the input bytes are not valid UTF-8.
var ErrInvalidEncoding = errors.New("input is not valid UTF-8 text")

// Grid is an ordered sequence of rows of string cells. After Parse, every
// row has identical length.
type Grid [][]string

// Rows returns the number of rows in the grid.
func (g Grid) Rows() int { return len(g) }

// Width returns the common row length, or 0 for an empty grid.
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Parse decodes data as UTF-8 text and splits it into a rectangular grid.
//
// Lines are split on '\n'; a trailing final newline produces a final empty
// line, which becomes a row like any other. Each line is whitespace-trimmed
// (this also drops a '\r' from CRLF input) and split on the caret delimiter.
// Ragged rows are right-padded with empty cells to the maximum observed
// width, never truncated. Zero input bytes yield an empty grid.
func Parse(data []byte) (Grid, error) {
	if len(data) == 0 {
		return Grid{}, nil
	}
	if !utf8.Valid(data) {
		return nil, ErrInvalidEncoding
	}

	lines := strings.Split(string(data), "\n")
	grid := make(Grid, 0, len(lines))
	maxLen := 0
	for _, line := range lines {
		cells := strings.Split(strings.TrimSpace(line), Delimiter)
		if len(cells) > maxLen {
			maxLen = len(cells)
		}
		grid = append(grid, cells)
	}

	for i, row := range grid {
		for len(row) < maxLen {
			row = append(row, "")
		}
		grid[i] = row
	}
	return grid, nil
}
