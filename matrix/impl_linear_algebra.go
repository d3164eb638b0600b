// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation:
// element-wise addition, matrix multiplication and transpose. All functions
// perform strict fail-fast validation and return clear errors on dimension
// mismatches and int64 overflow.
//
// Purpose:
//   - Declare canonical integer linear-algebra kernels used across the package.
//   - Define operation tags and checked arithmetic shared by every kernel.
//
// Notes:
//   - Every kernel has a *Dense fast path (flat slice loops) and a generic
//     At/Set fallback with a fixed i→j order; both produce identical results.
//   - All kernels use central validators and wrap via matrixErrorf.

package matrix

import (
	"fmt"
	"math"
)

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opAdd         = "Add"
	opMul         = "Mul"
	opTranspose   = "Transpose"
	opColumnMeans = "ColumnMeans"
	opDims        = "Dims"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// The wrapper keeps a stable "Op: underlying" shape for uniform reporting.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
//
// Complexity:
//   - Time O(1), Space O(1).
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// checkedAdd returns a+b and false when the sum leaves the int64 range.
func checkedAdd(a, b int64) (int64, bool) {
	s := a + b
	// Overflow iff the sum moved in the opposite direction of b's sign.
	if (s > a) != (b > 0) {
		return 0, false
	}

	return s, true
}

// checkedMul returns a*b and false when the product leaves the int64 range.
func checkedMul(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	// MinInt64 * -1 wraps to itself and survives the division test below.
	if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, false
	}
	p := a * b
	if p/b != a {
		return 0, false
	}

	return p, true
}

// overflowErrorf reports the cell where arithmetic overflowed.
func overflowErrorf(tag string, i, j int) error {
	return matrixErrorf(tag, fmt.Errorf("cell (%d,%d): %w", i, j, ErrOverflow))
}

// Add computes the element-wise sum C = A + B and returns a fresh Dense result.
//
// Implementation:
//   - Stage 1: ValidateBinarySameShape(a, b). Allocate result Dense(rows, cols).
//   - Stage 2: Fast-path if both are *Dense - single flat loop 0..n-1.
//     Otherwise, fallback At/Set with fixed i→j order.
//
// Behavior highlights:
//   - Shapes are compared before any arithmetic; on mismatch no result exists.
//   - Every sum is overflow-checked; the first overflowing cell aborts.
//   - Inputs are never mutated; result is always a freshly allocated Dense.
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (shape mismatch),
//     ErrOverflow (int64 overflow).
//
// Complexity:
//   - Time O(r*c), Space O(r*c). The fast path is bandwidth-bound.
func Add(a, b Matrix) (Matrix, error) {
	// Validate shapes match
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opAdd, err)
	}

	// Allocate result Dense
	rows, cols := a.Rows(), a.Cols()
	res, err := NewDense(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opAdd, err)
	}

	var ok bool
	// Fast path: *Dense with *Dense → single flat loop.
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			length := rows * cols
			for idx := 0; idx < length; idx++ { // deterministic 0..n-1
				if res.data[idx], ok = checkedAdd(da.data[idx], db.data[idx]); !ok {
					return nil, overflowErrorf(opAdd, idx/cols, idx%cols)
				}
			}

			return res, nil
		}
	}

	// Fallback: interface path with fixed i→j order.
	var i, j int          // loop iterators (deterministic order)
	var av, bv, sum int64 // element temporaries
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if av, err = a.At(i, j); err != nil {
				return nil, matrixErrorf(opAdd, err)
			}
			if bv, err = b.At(i, j); err != nil {
				return nil, matrixErrorf(opAdd, err)
			}
			if sum, ok = checkedAdd(av, bv); !ok {
				return nil, overflowErrorf(opAdd, i, j)
			}
			if err = res.Set(i, j, sum); err != nil {
				return nil, matrixErrorf(opAdd, err)
			}
		}
	}

	return res, nil
}

// Mul performs standard matrix multiplication C = A × B (no aliasing).
//
// Implementation:
//   - Stage 1: Validate A,B (not nil) and inner dimensions (A.Cols == B.Rows).
//   - Stage 2: Bᵀ = Transpose(B) so every column of B is a contiguous row.
//   - Stage 3: C[i,k] = dot(row i of A, row k of Bᵀ). If A is *Dense the dot
//     product walks two flat slices; otherwise A is read through At.
//
// Behavior highlights:
//   - Deterministic i→k→j loops; one allocation for Bᵀ and one for C.
//   - Each product and each partial sum is overflow-checked.
//
// Inputs:
//   - A: left matrix with shape (m × n).
//   - B: right matrix with shape (n × p).
//
// Returns:
//   - Matrix: new Dense C with shape (m × p).
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (inner mismatch),
//     ErrOverflow (int64 overflow in a product or sum).
//
// Complexity:
//   - Time O(m*n*p), Space O(n*p + m*p).
func Mul(a, b Matrix) (Matrix, error) {
	// Validate inputs via canonical validator
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	// Columns of B become rows of bt.
	bt, err := transposeDense(b)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	// Allocate result Dense
	aRows, inner, bCols := a.Rows(), a.Cols(), b.Cols()
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	var (
		i, j, k       int
		av, prod, acc int64
		ok            bool
		rowA          []int64
	)
	da, fast := a.(*Dense)
	if !fast {
		rowA = make([]int64, inner) // staging buffer for the generic path
	}
	for i = 0; i < aRows; i++ {
		if fast {
			rowA = da.data[i*inner : (i+1)*inner]
		} else {
			for j = 0; j < inner; j++ {
				if av, err = a.At(i, j); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				rowA[j] = av
			}
		}
		for k = 0; k < bCols; k++ {
			colB := bt.data[k*inner : (k+1)*inner] // column k of B, contiguous
			acc = 0
			for j = 0; j < inner; j++ {
				if prod, ok = checkedMul(rowA[j], colB[j]); !ok {
					return nil, overflowErrorf(opMul, i, k)
				}
				if acc, ok = checkedAdd(acc, prod); !ok {
					return nil, overflowErrorf(opMul, i, k)
				}
			}
			res.data[i*bCols+k] = acc
		}
	}

	return res, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
// Input is validated non-nil; the original matrix is never mutated.
//
// Implementation:
//   - Stage 1: ValidateNotNil(m). Allocate Dense(cols, rows).
//   - Stage 2: If m is *Dense, walk the source in column-major order
//     (flat index i*cols + j for fixed j) and fill the result sequentially;
//     else generic i→j At/Set loop.
//
// Errors:
//   - ErrNilMatrix (from ValidateNotNil).
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for the returned matrix.
func Transpose(m Matrix) (Matrix, error) {
	res, err := transposeDense(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	return res, nil
}

// transposeDense is the kernel behind Transpose and Mul; it returns the
// concrete *Dense so internal callers can reach the flat buffer.
func transposeDense(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, err
	}

	// Allocate result Dense with flipped dimensions
	rows, cols := m.Rows(), m.Cols()
	res, err := NewDense(cols, rows)
	if err != nil {
		return nil, err
	}

	var i, j int // loop iterators
	// Fast-path for Dense → Dense: res.data is written strictly in order.
	if dm, ok := m.(*Dense); ok {
		dst := 0
		for j = 0; j < cols; j++ {
			for i = 0; i < rows; i++ {
				res.data[dst] = dm.data[i*cols+j]
				dst++
			}
		}

		return res, nil
	}

	// Fallback: generic interface loop
	var v int64
	for i = 0; i < rows; i++ {
		for j = 0; j < cols; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, err
			}
			if err = res.Set(j, i, v); err != nil {
				return nil, err
			}
		}
	}

	return res, nil
}
