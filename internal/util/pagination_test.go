package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	offset, limit := Calculate(1, 10)
	require.Equal(t, 0, offset)
	require.Equal(t, 10, limit)

	offset, limit = Calculate(3, 20)
	require.Equal(t, 40, offset)
	require.Equal(t, 20, limit)

	// Out-of-range values fall back to defaults.
	offset, limit = Calculate(0, 0)
	require.Equal(t, 0, offset)
	require.Equal(t, DefaultPageSize, limit)

	_, limit = Calculate(1, 1000)
	require.Equal(t, DefaultPageSize, limit)
}
