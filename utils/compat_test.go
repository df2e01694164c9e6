package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckScreenCompatibility(t *testing.T) {
	valid := []uint{1, 2, 3}

	t.Run("all known", func(t *testing.T) {
		ok, invalid := CheckScreenCompatibility([]uint{1, 3}, valid)
		assert.True(t, ok)
		assert.Empty(t, invalid)
	})

	t.Run("reports every unknown id", func(t *testing.T) {
		ok, invalid := CheckScreenCompatibility([]uint{1, 4, 5}, valid)
		assert.False(t, ok)
		assert.Equal(t, []uint{4, 5}, invalid)
	})

	t.Run("empty selection is compatible", func(t *testing.T) {
		ok, invalid := CheckScreenCompatibility(nil, valid)
		assert.True(t, ok)
		assert.Empty(t, invalid)
	})
}
