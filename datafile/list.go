package datafile

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// maxLineSize bounds a single line of a list file.
const maxLineSize = 1 << 20

// Line is one data line of a list file.
type Line struct {
	// Row is the 0-based index of the line in the file. The header line is
	// row 0, so the first data line is row 1.
	Row int
	// Fields are the whitespace-separated tokens of the line.
	Fields []string
}

// Field returns the token at the 0-based column.
func (l Line) Field(column int) (string, error) {
	if column < 0 || column >= len(l.Fields) {
		return "", fmt.Errorf("missing value, line has %d of at least %d fields", len(l.Fields), column+1)
	}

	return l.Fields[column], nil
}

// CheckWidth reports an error when the line carries more than n tokens.
func (l Line) CheckWidth(n int) error {
	if len(l.Fields) > n {
		return fmt.Errorf("unexpected value %q, line has %d fields but %d are expected", l.Fields[n], len(l.Fields), n)
	}

	return nil
}

// ParseField parses the token at column into a T. See Parse for the accepted
// types.
func ParseField[T any](line Line, column int) (T, error) {
	text, err := line.Field(column)
	if err != nil {
		var zero T
		return zero, err
	}

	return Parse[T](text)
}

// ReadList reads a whitespace-delimited list file. The first line is reserved
// for a human-readable header and is never parsed, whatever it contains. Lines
// without any token are skipped.
func ReadList(path string) ([]Line, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var lines []Line
	for row := 0; sc.Scan(); row++ {
		if row == 0 {
			continue
		}

		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}

		lines = append(lines, Line{Row: row, Fields: fields})
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}
