package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsPhoneValid(t *testing.T) {
	cases := map[string]bool{
		"11999990000":         true,
		"+55 (11) 99999-0000": true,
		"1234-5678":           true,
		"1234567":             false,
		"1234567890123456":    false,
		"11 9999x0000":        false,
		"":                    false,
	}
	for in, want := range cases {
		assert.Equal(t, want, IsPhoneValid(in), in)
	}
}

func TestRegister(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	type contact struct {
		Phone string `validate:"phone"`
	}
	assert.NoError(t, v.Struct(contact{Phone: "+55 11 99999-0000"}))
	assert.Error(t, v.Struct(contact{Phone: "abc"}))
}
