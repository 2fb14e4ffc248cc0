package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	valid := []string{
		"johnsmith",
		"John Smith",
		"O'Brien Junior",
		"user.name42",
		"a_b_c_d_e",
		"abcdefgh",                       // exactly 8
		"abcdefghijklmnopqrstuvwxyz1234", // exactly 30
	}
	for _, name := range valid {
		assert.NoError(t, ValidateUsername(name), "expected %q to be accepted", name)
	}

	invalid := []string{
		"",
		"short",
		"seven77",                         // 7 chars
		"abcdefghijklmnopqrstuvwxyz12345", // 31 chars
		".leadingdot",
		"_leadingunderscore",
		"trailingdot.",
		"trailingunderscore_",
		"double..dots",
		"double__underscores",
		"mixed._separators",
		"bad$character",
		"tabs\tinside",
	}
	for _, name := range invalid {
		assert.ErrorIs(t, ValidateUsername(name), ErrInvalidUsername, "expected %q to be rejected", name)
	}
}
