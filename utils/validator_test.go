package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStruct(t *testing.T) {
	type form struct {
		Name   string `validate:"required,max=5"`
		Level  string `validate:"omitempty,oneof=Hot Warm Cold"`
		Amount int    `validate:"omitempty,gt=0"`
	}

	t.Run("valid input passes", func(t *testing.T) {
		assert.NoError(t, ValidateStruct(form{Name: "Asha", Level: "Hot", Amount: 10}))
	})

	t.Run("missing required field", func(t *testing.T) {
		err := ValidateStruct(form{})
		assert.ErrorContains(t, err, "name is required")
	})

	t.Run("oneof violation names the choices", func(t *testing.T) {
		err := ValidateStruct(form{Name: "Asha", Level: "Tepid"})
		assert.ErrorContains(t, err, "level must be one of")
	})
}

func TestValidateEmailFormat(t *testing.T) {
	assert.NoError(t, ValidateEmailFormat(""))
	assert.NoError(t, ValidateEmailFormat("asha@example.com"))
	assert.Error(t, ValidateEmailFormat("not-an-email"))
}
