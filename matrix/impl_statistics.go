// SPDX-License-Identifier: MIT
// Package matrix - column statistics over integer matrices.
//
// Purpose:
//   - Reduce every column of a matrix to one rounded integer mean.
//   - Keep the rounding rule in one place (RoundedDiv) so it is testable alone.
//
// Determinism:
//   - Transpose first, then reduce each row of the transpose left to right.

package matrix

import (
	"math"
	"math/bits"
)

// wideSum is a signed 128-bit accumulator holding hi*2^64 + lo.
// Column sums of int64 values cannot leave its range for any realistic row count.
type wideSum struct {
	hi int64
	lo uint64
}

func (w *wideSum) add(v int64) {
	var carry uint64
	w.lo, carry = bits.Add64(w.lo, uint64(v), 0)
	w.hi += v>>63 + int64(carry) // v>>63 sign-extends v into the high word
}

// roundedDiv divides w by n (n > 0) with the RoundedDiv rule. ok is false
// when the quotient does not fit in int64.
func (w wideSum) roundedDiv(n uint64) (q int64, ok bool) {
	hi, lo := uint64(w.hi), w.lo
	neg := w.hi < 0
	if neg {
		var carry uint64
		lo, carry = bits.Add64(^lo, 1, 0)
		hi = ^hi + carry
	}
	positive := !neg && hi|lo != 0

	// |sum| + n/2 for both signs; the sign is restored after dividing.
	var carry uint64
	lo, carry = bits.Add64(lo, n/2, 0)
	hi += carry

	qhi, rem := hi/n, hi%n
	qlo, _ := bits.Div64(rem, lo, n)
	switch {
	case qhi != 0:
		return 0, false
	case positive:
		if qlo > math.MaxInt64 {
			return 0, false
		}
		return int64(qlo), true
	case qlo > 1<<63:
		return 0, false
	default:
		return -int64(qlo), true // qlo == 1<<63 wraps to MinInt64 as intended
	}
}

// RoundedDiv divides sum by n rounding half away from zero, with zero
// routed through the negative branch:
//
//	sign = +1 if sum > 0 else -1
//	q    = (sum + (n/2)*sign) / n   (truncating division)
//
// The adjustment is evaluated in 128 bits, so it never overflows.
// Examples: (7,2) → 4, (-7,2) → -4, (0,4) → 0, (-1,2) → -1.
//
// Returns:
//   - (q, true) on success; (0, false) when n <= 0.
//
// Complexity:
//   - Time O(1), Space O(1).
func RoundedDiv(sum int64, n int) (int64, bool) {
	if n <= 0 {
		return 0, false
	}
	var w wideSum
	w.add(sum)

	return w.roundedDiv(uint64(n))
}

// ColumnMeans returns one rounded mean per column of m (length Cols(m)).
//
// Implementation:
//   - Stage 1: mt = Transpose(m) so every original column is a contiguous row.
//   - Stage 2: sum each row of mt into a 128-bit accumulator.
//   - Stage 3: apply the RoundedDiv rule with n = Rows(m).
//
// Behavior highlights:
//   - Input is never mutated; the transpose is a private temporary.
//   - A mean of int64 values always fits in int64, so large columns such as
//     {MaxInt64, MaxInt64} succeed.
//
// Errors:
//   - ErrNilMatrix (nil input).
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for the transpose.
func ColumnMeans(m Matrix) ([]int64, error) {
	mt, err := transposeDense(m)
	if err != nil {
		return nil, matrixErrorf(opColumnMeans, err)
	}

	rows, cols := mt.c, mt.r // original shape
	means := make([]int64, cols)
	var (
		j, i int
		sum  wideSum
		ok   bool
	)
	for j = 0; j < cols; j++ {
		sum = wideSum{}
		for i = 0; i < rows; i++ {
			sum.add(mt.data[j*rows+i])
		}
		if means[j], ok = sum.roundedDiv(uint64(rows)); !ok {
			return nil, overflowErrorf(opColumnMeans, rows-1, j)
		}
	}

	return means, nil
}
