/*
package catalog reads whitespace-separated column files and formats the
columns written to stdout by the formation command line modes.
*/
package catalog

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// CommentString returns a header line naming the output columns. sizes gives
// the number of columns taken up by each name, in output order.
func CommentString(names []string, sizes []int) string {
	if len(names) != len(sizes) {
		panic("Length of names and sizes do not match.")
	}

	tokens := []string{"# Column contents:"}
	n := 0
	for i, name := range names {
		if sizes[i] == 1 {
			tokens = append(tokens, fmt.Sprintf("%s(%d)", name, n))
		} else {
			tokens = append(tokens, fmt.Sprintf("%s(%d-%d)", name,
				n, n+sizes[i]-1))
		}
		n += sizes[i]
	}

	return strings.Join(tokens, " ")
}

// FormatCols lays out integer and float columns as aligned text lines. order
// indexes into the integer columns followed by the float columns.
func FormatCols(intCols [][]int, floatCols [][]float64, order []int) []string {
	if (len(intCols) == 0 && len(floatCols) == 0) ||
		(len(intCols) > 0 && len(intCols[0]) == 0) ||
		(len(floatCols) > 0 && len(floatCols[0]) == 0) {
		return []string{}
	}

	formatted := make([][]string, 0, len(intCols)+len(floatCols))
	height := -1
	check := func(n int) {
		if height == -1 {
			height = n
		} else if height != n {
			panic("Columns of unequal height.")
		}
	}
	for _, col := range intCols {
		check(len(col))
		formatted = append(formatted, formatCol(col, "%d", "%*d"))
	}
	for _, col := range floatCols {
		check(len(col))
		formatted = append(formatted, formatCol(col, "%.6g", "%*.6g"))
	}

	ordered := make([][]string, len(order))
	for i, idx := range order {
		if idx < 0 || idx >= len(formatted) {
			panic("Column ordering out of range.")
		}
		ordered[i] = formatted[idx]
	}

	lines := make([]string, height)
	tokens := make([]string, len(ordered))
	for i := range lines {
		for j := range ordered {
			tokens[j] = ordered[j][i]
		}
		lines[i] = strings.Join(tokens, " ")
	}

	return lines
}

// formatCol right-aligns every element of col to the widest one.
func formatCol[T int | float64](col []T, short, padded string) []string {
	width := 0
	for _, x := range col {
		if n := len(fmt.Sprintf(short, x)); n > width {
			width = n
		}
	}

	out := make([]string, len(col))
	for i, x := range col {
		out[i] = fmt.Sprintf(padded, width, x)
	}
	return out
}

// Parse parses the specified float columns of a text block. Lines beginning
// with '#' and anything following a '#' are ignored.
func Parse(data []byte, colIdxs []int) ([][]float64, error) {
	lines, nComm := split(data, '\n', '#')
	lines = uncomment(lines, '#', nComm)
	lines = trim(lines)
	return parse(lines, colIdxs)
}

// ReadFile parses the specified float columns of the file fname.
func ReadFile(fname string, colIdxs []int) ([][]float64, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	return Parse(data, colIdxs)
}

// Read parses the specified float columns of everything remaining in r.
func Read(r io.Reader, colIdxs []int) ([][]float64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data, colIdxs)
}

// split splits a byte slice at each separator without allocating new
// lines. Comment characters are counted along the way for uncomment.
func split(data []byte, sep, comm byte) (lines [][]byte, nComm int) {
	n := 0
	for _, c := range data {
		if c == sep {
			n++
		}
		if c == comm {
			nComm++
		}
	}

	lines = make([][]byte, 0, n+1)
	for {
		idx := bytes.IndexByte(data, sep)
		if idx == -1 {
			break
		}
		lines = append(lines, data[:idx])
		data = data[idx+1:]
	}
	lines = append(lines, data)

	return lines, nComm
}

// uncomment removes comments of the form "data # comment". Optimized for the
// common case where comments are rare and at the start of the file.
func uncomment(lines [][]byte, comm byte, nComm int) [][]byte {
	if nComm == 0 {
		return lines
	}

	for i, line := range lines {
		start := bytes.IndexByte(line, comm)
		if start == -1 {
			continue
		}
		lines[i] = line[:start]

		nComm -= bytes.Count(line[start:], []byte{comm})
		if nComm == 0 {
			return lines
		}
	}

	return lines
}

// trim removes blank lines.
func trim(lines [][]byte) [][]byte {
	j := 0
	for _, line := range lines {
		if len(bytes.TrimSpace(line)) > 0 {
			lines[j] = line
			j++
		}
	}
	return lines[:j]
}

func parse(lines [][]byte, colIdxs []int) ([][]float64, error) {
	cols := make([][]float64, len(colIdxs))
	for i := range cols {
		cols[i] = make([]float64, len(lines))
	}
	if len(lines) == 0 {
		return cols, nil
	}

	width := len(bytes.Fields(lines[0]))
	for _, idx := range colIdxs {
		if idx < 0 || idx >= width {
			return nil, fmt.Errorf("Column %d was requested, but the data "+
				"only has %d columns.", idx, width)
		}
	}

	for i, line := range lines {
		words := bytes.Fields(line)
		if len(words) != width {
			return nil, fmt.Errorf(
				"Data (not file) line %d has %d columns, not %d.",
				i+1, len(words), width,
			)
		}

		for j, idx := range colIdxs {
			x, err := strconv.ParseFloat(string(words[idx]), 64)
			if err != nil {
				return nil, fmt.Errorf("Data (not file) line %d, column "+
					"%d: %w", i+1, idx, err)
			}
			cols[j][i] = x
		}
	}

	return cols, nil
}
