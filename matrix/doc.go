// SPDX-License-Identifier: MIT

// Package matrix implements small, exact integer matrix arithmetic over a
// row-major int64 buffer, plus the tab-delimited text codec the matrix CLI
// speaks.
//
// The package provides:
//
//   - Dense: a rectangular rows×cols grid stored as one flat slice
//     (offset = i*cols + j) behind the Matrix interface.
//   - Kernels: Transpose, Add, Mul and ColumnMeans. Every kernel validates
//     shapes first and never mutates its inputs. Add and Mul report int64
//     overflow as ErrOverflow instead of wrapping silently.
//   - Codec: ReadTSV / WriteTSV / WriteRow / WriteDims.
//
// Errors are package sentinels (errors.go) wrapped with an operation tag,
// so callers match them with errors.Is:
//
//	m, err := matrix.ReadTSV(f)
//	if errors.Is(err, matrix.ErrMalformedMatrix) { ... }
//
// Column means use RoundedDiv: half away from zero, with a zero sum taking
// the negative branch. Column sums are accumulated in 128 bits, so every
// mean of int64 values is representable.
package matrix
