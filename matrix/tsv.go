// SPDX-License-Identifier: MIT
// Package matrix - tab-delimited text codec.
//
// Purpose:
//   - ReadTSV parses whitespace-delimited integer text into a *Dense and
//     enforces rectangularity.
//   - WriteTSV / WriteRow / WriteDims render results as tab-separated lines.
//
// Format:
//   - One row per line; values separated by runs of tabs/spaces on input and
//     by a single tab on output; every output line ends with '\n'.
//   - Trailing blank lines are ignored. A blank line followed by more data is
//     an empty row and breaks rectangularity.

package matrix

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	opReadTSV  = "ReadTSV"
	opWriteTSV = "WriteTSV"

	_tsvSep     = '\t'
	_tsvEOL     = '\n'
	_scanBufMin = 64 * 1024 // initial line buffer; grows up to math.MaxInt
)

// malformedErrorf tags a parse failure with its 1-based line number.
func malformedErrorf(line int, format string, args ...any) error {
	return fmt.Errorf("%s: line %d: %s: %w", opReadTSV, line, fmt.Sprintf(format, args...), ErrMalformedMatrix)
}

// ReadTSV parses a rectangular integer matrix from r.
//
// Implementation:
//   - Stage 1: scan line by line; split each line on whitespace runs.
//   - Stage 2: parse every token as base-10 int64 and append to a flat buffer.
//   - Stage 3: enforce that every row has as many values as the first row.
//
// Behavior highlights:
//   - Lines of any length are accepted.
//   - A trailing '\r' is whitespace, so CRLF files parse unchanged.
//
// Errors:
//   - ErrMalformedMatrix: empty input, non-integer or out-of-range token,
//     ragged rows, or an empty row before further data.
//   - Any read error from r, wrapped with "ReadTSV".
//
// Complexity:
//   - Time O(bytes), Space O(r*c).
func ReadTSV(r io.Reader) (*Dense, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, _scanBufMin), math.MaxInt)

	var (
		data      []int64
		rows      int
		cols      = -1
		line      int
		blankLine int // first blank line seen since the last data row (0 = none)
	)
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			if blankLine == 0 {
				blankLine = line
			}
			continue // trailing blanks are fine; decided once data follows
		}
		if blankLine != 0 {
			return nil, malformedErrorf(blankLine, "empty row")
		}
		if cols < 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, malformedErrorf(line, "has %d values, want %d", len(fields), cols)
		}
		for j, tok := range fields {
			v, err := strconv.ParseInt(tok, 10, 64)
			if err != nil {
				return nil, malformedErrorf(line, "column %d: invalid integer %q", j+1, tok)
			}
			data = append(data, v)
		}
		rows++
	}
	if err := sc.Err(); err != nil {
		return nil, matrixErrorf(opReadTSV, err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%s: empty input: %w", opReadTSV, ErrMalformedMatrix)
	}

	return &Dense{r: rows, c: cols, data: data}, nil
}

// WriteTSV writes m as tab-separated rows, each terminated by '\n'.
// No trailing blank line is produced. Output is buffered and flushed once.
//
// Errors: ErrNilMatrix; any write error from w.
// Complexity: Time O(r*c).
func WriteTSV(w io.Writer, m Matrix) error {
	if err := ValidateNotNil(m); err != nil {
		return matrixErrorf(opWriteTSV, err)
	}
	bw := bufio.NewWriter(w)
	scratch := make([]byte, 0, 24) // fits any int64 plus separator
	cols := m.Cols()

	if dm, ok := m.(*Dense); ok {
		dm.Do(func(_, j int, v int64) bool {
			scratch = strconv.AppendInt(scratch[:0], v, 10)
			if j+1 < cols {
				scratch = append(scratch, _tsvSep)
			} else {
				scratch = append(scratch, _tsvEOL)
			}
			_, err := bw.Write(scratch)

			return err == nil // bufio.Writer keeps the error for Flush
		})

		return flushTSV(bw)
	}

	var (
		i, j int
		v    int64
		err  error
	)
	for i = 0; i < m.Rows(); i++ {
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return matrixErrorf(opWriteTSV, err)
			}
			scratch = strconv.AppendInt(scratch[:0], v, 10)
			if j+1 < cols {
				scratch = append(scratch, _tsvSep)
			} else {
				scratch = append(scratch, _tsvEOL)
			}
			if _, err = bw.Write(scratch); err != nil {
				return matrixErrorf(opWriteTSV, err)
			}
		}
	}

	return flushTSV(bw)
}

// WriteRow writes a single tab-separated line terminated by '\n'.
// An empty row writes just the newline.
func WriteRow(w io.Writer, row []int64) error {
	buf := make([]byte, 0, len(row)*8+1)
	for j, v := range row {
		if j > 0 {
			buf = append(buf, _tsvSep)
		}
		buf = strconv.AppendInt(buf, v, 10)
	}
	buf = append(buf, _tsvEOL)
	if _, err := w.Write(buf); err != nil {
		return matrixErrorf(opWriteTSV, err)
	}

	return nil
}

// WriteDims writes "<rows> <cols>\n".
func WriteDims(w io.Writer, rows, cols int) error {
	if _, err := fmt.Fprintf(w, "%d %d\n", rows, cols); err != nil {
		return matrixErrorf(opWriteTSV, err)
	}

	return nil
}

func flushTSV(bw *bufio.Writer) error {
	if err := bw.Flush(); err != nil {
		return matrixErrorf(opWriteTSV, err)
	}

	return nil
}
