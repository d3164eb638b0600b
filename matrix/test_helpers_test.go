// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic test fixtures and utilities for kernels.
//   • Keep random data small enough that products and sums never overflow.

package matrix_test

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/katalvlaran/matrix/matrix"
)

// hide WRAPS any Matrix to hide its concrete type from type assertions.
// Use hide{X} in tests to force the generic At/Set (non-*Dense) paths.
type hide struct{ matrix.Matrix }

// MustDense ALLOCATES an r×c *Dense or fails the test (fatal on error).
func MustDense(t testing.TB, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	if err != nil {
		t.Fatalf("NewDense(%d,%d): %v", r, c, err)
	}

	return m
}

// FromRows BUILDS a *Dense from literal rows or fails the test.
func FromRows(t testing.TB, rows [][]int64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseRows(rows)
	if err != nil {
		t.Fatalf("NewDenseRows: %v", err)
	}

	return m
}

// RandFilledDense RETURNS an r×c *Dense with deterministic values in [-span, span].
// Keep span small when the result feeds Mul so products stay in range.
func RandFilledDense(t testing.TB, r, c int, seed int64, span int64) *matrix.Dense {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	d := MustDense(t, r, c)
	var i, j int
	for i = 0; i < r; i++ {
		for j = 0; j < c; j++ {
			MustSet(t, d, i, j, rng.Int63n(2*span+1)-span)
		}
	}

	return d
}

// MustSet WRITES m[i,j] = v or fails the test.
func MustSet(t testing.TB, m matrix.Matrix, i, j int, v int64) {
	t.Helper()
	if err := m.Set(i, j, v); err != nil {
		t.Fatalf("Set(%d,%d): %v", i, j, err)
	}
}

// MustAt READS m[i,j] or fails the test.
func MustAt(t testing.TB, m matrix.Matrix, i, j int) int64 {
	t.Helper()
	v, err := m.At(i, j)
	if err != nil {
		t.Fatalf("At(%d,%d): %v", i, j, err)
	}

	return v
}

// ToRows COPIES any Matrix into [][]int64 through At (works for hidden types too).
func ToRows(t testing.TB, m matrix.Matrix) [][]int64 {
	t.Helper()
	out := make([][]int64, m.Rows())
	for i := range out {
		out[i] = make([]int64, m.Cols())
		for j := range out[i] {
			out[i][j] = MustAt(t, m, i, j)
		}
	}

	return out
}

// CompareExact FAILS the test with a cell-level diff when m differs from want.
func CompareExact(t testing.TB, want [][]int64, m matrix.Matrix) {
	t.Helper()
	if diff := cmp.Diff(want, ToRows(t, m)); diff != "" {
		t.Fatalf("matrix mismatch (-want +got):\n%s", diff)
	}
}
