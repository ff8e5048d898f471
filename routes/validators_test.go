package routes

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEnums(t *testing.T) {
	v := validator.New()
	require.NoError(t, registerEnums(v, enumValidators))

	type body struct {
		Status string `validate:"task_status"`
	}
	assert.NoError(t, v.Struct(body{Status: "In Progress"}))
	assert.Error(t, v.Struct(body{Status: "Done"}))
}

func TestRegisterEnumsReportsRejectedTag(t *testing.T) {
	err := registerEnums(validator.New(), []enumValidator{
		{"omitempty", func(string) bool { return true }},
		{"site_zone", func(string) bool { return true }},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "omitempty")
	assert.NotContains(t, err.Error(), "site_zone")
}
