// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/katalvlaran/matrix/matrix"
	"github.com/stretchr/testify/require"
)

func TestValidateNotNil(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, matrix.ValidateNotNil(nil), matrix.ErrNilMatrix)

	var d *matrix.Dense
	require.ErrorIs(t, matrix.ValidateNotNil(d), matrix.ErrNilMatrix)

	require.NoError(t, matrix.ValidateNotNil(MustDense(t, 1, 1)))
}

func TestValidateSameShape(t *testing.T) {
	t.Parallel()

	require.NoError(t, matrix.ValidateSameShape(MustDense(t, 2, 3), MustDense(t, 2, 3)))
	require.ErrorIs(t, matrix.ValidateSameShape(MustDense(t, 2, 3), MustDense(t, 3, 3)), matrix.ErrDimensionMismatch)
	require.ErrorIs(t, matrix.ValidateSameShape(MustDense(t, 2, 3), MustDense(t, 2, 2)), matrix.ErrDimensionMismatch)
}

func TestValidateBinarySameShape_Priority(t *testing.T) {
	t.Parallel()

	// nil is reported before any shape comparison.
	require.ErrorIs(t, matrix.ValidateBinarySameShape(nil, MustDense(t, 2, 2)), matrix.ErrNilMatrix)
	require.ErrorIs(t, matrix.ValidateBinarySameShape(MustDense(t, 2, 2), nil), matrix.ErrNilMatrix)
}

func TestValidateMulCompatible(t *testing.T) {
	t.Parallel()

	require.NoError(t, matrix.ValidateMulCompatible(MustDense(t, 2, 3), MustDense(t, 3, 4)))

	err := matrix.ValidateMulCompatible(MustDense(t, 2, 3), MustDense(t, 2, 3))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	require.Contains(t, err.Error(), "2x3 left has 3 columns, 2x3 right has 2 rows")

	require.ErrorIs(t, matrix.ValidateMulCompatible(nil, MustDense(t, 1, 1)), matrix.ErrNilMatrix)
}
