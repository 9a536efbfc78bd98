package utils

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCustomValidators(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterCustomValidators(v))

	type signup struct {
		Password string `validate:"password"`
	}
	assert.NoError(t, v.Struct(signup{Password: "secret1!"}))
	assert.Error(t, v.Struct(signup{Password: "secret"}))
	assert.Error(t, v.Struct(signup{Password: "s1!"}))
}

func TestInitValidator(t *testing.T) {
	require.NoError(t, InitValidator())
}
