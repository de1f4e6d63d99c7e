package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRegisterFields(t *testing.T) {
	field, _ := ValidateRegisterFields("", "pass", "Anna")
	assert.Equal(t, "email", field)

	field, _ = ValidateRegisterFields("a@b.dk", "", "Anna")
	assert.Equal(t, "password", field)

	field, _ = ValidateRegisterFields("a@b.dk", "pass", "")
	assert.Equal(t, "name", field)

	field, msg := ValidateRegisterFields("a@b.dk", "pass", "Anna")
	assert.Empty(t, field)
	assert.Empty(t, msg)
}

func TestValidateGuestCode(t *testing.T) {
	cases := map[string]bool{
		"123456":  true,
		"":        false,
		"12345":   false,
		"1234567": false,
		"12a456":  false,
		"12 456":  false,
	}
	for code, ok := range cases {
		field, _ := ValidateGuestCode(code)
		if ok {
			assert.Empty(t, field, "code=%q", code)
		} else {
			assert.Equal(t, "code", field, "code=%q", code)
		}
	}
}

func TestValidateInquiryFields(t *testing.T) {
	field, _ := ValidateInquiryFields("", "a@b.dk", "hello")
	assert.Equal(t, "name", field)

	field, _ = ValidateInquiryFields("Anna", "a@b.dk", "hello")
	assert.Empty(t, field)
}
