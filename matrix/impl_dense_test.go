// Package matrix_test contains unit tests for the Dense implementation
// of the Matrix interface in the matrix package.
package matrix_test

import (
	"testing"

	"github.com/katalvlaran/matrix/matrix"
	"github.com/stretchr/testify/require"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 5)                      // attempt to create with zero rows
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions) // expect ErrInvalidDimensions

	_, err = matrix.NewDense(5, 0)                       // attempt to create with zero columns
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions) // expect ErrInvalidDimensions
}

// TestRowsCols verifies that Rows(), Cols() and Shape() agree.
func TestRowsCols(t *testing.T) {
	rows, cols := 3, 4                    // define expected row and column counts
	m, err := matrix.NewDense(rows, cols) // create a Dense matrix of size 3x4
	require.NoError(t, err)               // assert no error on valid dimensions

	require.Equal(t, rows, m.Rows()) // assert Rows() equals expected rows
	require.Equal(t, cols, m.Cols()) // assert Cols() equals expected cols

	r, c := m.Shape()
	require.Equal(t, rows, r)
	require.Equal(t, cols, c)
}

// TestAtSetOutOfBounds ensures At() and Set() return ErrOutOfRange on invalid access.
func TestAtSetOutOfBounds(t *testing.T) {
	m := MustDense(t, 2, 2) // create a 2x2 Dense matrix

	_, err := m.At(-1, 0)                         // negative row index
	require.ErrorIs(t, err, matrix.ErrOutOfRange) // expect ErrOutOfRange

	_, err = m.At(0, 2)                           // column index out of range
	require.ErrorIs(t, err, matrix.ErrOutOfRange) // expect ErrOutOfRange

	err = m.Set(2, 0, 1)                          // row index out of range
	require.ErrorIs(t, err, matrix.ErrOutOfRange) // expect ErrOutOfRange

	err = m.Set(0, -1, 4)                         // negative column index
	require.ErrorIs(t, err, matrix.ErrOutOfRange) // expect ErrOutOfRange

	_, err = m.Row(2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

// TestSetGet validates correct behavior of Set() followed by At() on valid indices.
func TestSetGet(t *testing.T) {
	m := MustDense(t, 2, 3)

	require.NoError(t, m.Set(1, 2, -789)) // set element at row 1, column 2

	val, err := m.At(1, 2)             // retrieve the set element
	require.NoError(t, err)            // assert At() succeeded
	require.Equal(t, int64(-789), val) // assert retrieved value matches set value
}

// TestCloneIndependence ensures Clone() returns a deep copy that does not share storage.
func TestCloneIndependence(t *testing.T) {
	m := FromRows(t, [][]int64{{1, 0}, {0, 2}})

	clone := m.Clone() // clone the matrix

	// modify the clone, but not the original
	require.NoError(t, clone.Set(0, 0, 3))

	require.Equal(t, int64(1), MustAt(t, m, 0, 0))     // original unchanged
	require.Equal(t, int64(3), MustAt(t, clone, 0, 0)) // clone reflects new value
}

// TestNewDenseFrom checks buffer adoption and length validation.
func TestNewDenseFrom(t *testing.T) {
	data := []int64{1, 2, 3, 4, 5, 6}
	m, err := matrix.NewDenseFrom(2, 3, data)
	require.NoError(t, err)
	CompareExact(t, [][]int64{{1, 2, 3}, {4, 5, 6}}, m)

	_, err = matrix.NewDenseFrom(2, 2, data)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.NewDenseFrom(0, 2, nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestNewDenseRowsRagged rejects non-rectangular literals.
func TestNewDenseRowsRagged(t *testing.T) {
	_, err := matrix.NewDenseRows([][]int64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.NewDenseRows(nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestRowAndRows2DAreCopies makes sure callers cannot alias the backing buffer.
func TestRowAndRows2DAreCopies(t *testing.T) {
	m := FromRows(t, [][]int64{{1, 2}, {3, 4}})

	row, err := m.Row(1)
	require.NoError(t, err)
	require.Equal(t, []int64{3, 4}, row)
	row[0] = 99

	grid := m.Rows2D()
	grid[0][0] = 99

	CompareExact(t, [][]int64{{1, 2}, {3, 4}}, m)
}

// TestDoStopsEarly verifies visiting order and early exit.
func TestDoStopsEarly(t *testing.T) {
	m := FromRows(t, [][]int64{{1, 2}, {3, 4}})

	var seen []int64
	m.Do(func(_, _ int, v int64) bool {
		seen = append(seen, v)
		return v < 3
	})
	require.Equal(t, []int64{1, 2, 3}, seen)
}

// TestStringOutput checks that String() formats the matrix as expected.
func TestStringOutput(t *testing.T) {
	m := FromRows(t, [][]int64{{1, -2}, {3, 4}})

	expected := "[1, -2]\n[3, 4]\n"        // define expected string output
	require.Equal(t, expected, m.String()) // assert String() output matches expected format
}
