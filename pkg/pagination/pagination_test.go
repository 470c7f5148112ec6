package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLimit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-5))
	assert.Equal(t, 40, NormalizeLimit(40))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
}

func TestNormalizePage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1, NormalizePage(0))
	assert.Equal(t, 1, NormalizePage(-3))
	assert.Equal(t, 7, NormalizePage(7))
}

func TestTotalPages(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, TotalPages(0, 25))
	assert.Equal(t, 1, TotalPages(1, 25))
	assert.Equal(t, 1, TotalPages(25, 25))
	assert.Equal(t, 2, TotalPages(26, 25))
	assert.Equal(t, 4, TotalPages(100, 30))
}
