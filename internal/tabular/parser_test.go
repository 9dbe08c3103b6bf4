package tabular

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Grid
	}{
		{
			name:  "ragged rows padded to max width",
			input: "a^b^c\nd^e",
			want:  Grid{{"a", "b", "c"}, {"d", "e", ""}},
		},
		{
			name: "trailing newline produces a padded empty row",
			// The final '\n' yields an empty last line, which becomes a row.
			input: "a^b^c\nd^e\n",
			want:  Grid{{"a", "b", "c"}, {"d", "e", ""}, {"", "", ""}},
		},
		{
			name:  "no delimiter yields single-cell rows",
			input: "hello\nworld",
			want:  Grid{{"hello"}, {"world"}},
		},
		{
			name:  "empty input yields empty grid",
			input: "",
			want:  Grid{},
		},
		{
			name:  "lines are whitespace trimmed before splitting",
			input: "  a^b  \n\tc^d\t",
			want:  Grid{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "crlf line endings",
			input: "a^b\r\nc^d",
			want:  Grid{{"a", "b"}, {"c", "d"}},
		},
		{
			name:  "numeric-looking cells stay strings",
			input: "1^2.5^003",
			want:  Grid{{"1", "2.5", "003"}},
		},
		{
			name:  "consecutive delimiters produce empty cells",
			input: "a^^c",
			want:  Grid{{"a", "", "c"}},
		},
		{
			name:  "single blank line is one single-cell row",
			input: " ",
			want:  Grid{{""}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_InvalidEncoding(t *testing.T) {
	_, err := Parse([]byte{0xff, 0xfe, '^', 0xfd})
	assert.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestParse_AllRowsEqualWidth(t *testing.T) {
	// Width invariant: every row ends up as wide as the widest raw line.
	input := strings.Join([]string{
		"a",
		"a^b^c^d^e",
		"a^b",
		"",
		"a^b^c",
	}, "\n")

	grid, err := Parse([]byte(input))
	require.NoError(t, err)

	require.Equal(t, 5, grid.Rows())
	assert.Equal(t, 5, grid.Width())
	for i, row := range grid {
		assert.Len(t, row, 5, "row %d", i)
	}
}

func TestGrid_Accessors(t *testing.T) {
	assert.Equal(t, 0, Grid{}.Rows())
	assert.Equal(t, 0, Grid{}.Width())

	g := Grid{{"a", "b"}, {"c", "d"}}
	assert.Equal(t, 2, g.Rows())
	assert.Equal(t, 2, g.Width())
}
