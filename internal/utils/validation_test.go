package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantOK   bool
	}{
		{"minimum length", "abc", true},
		{"maximum length", strings.Repeat("a", 20), true},
		{"too short", "ab", false},
		{"too long", strings.Repeat("a", 21), false},
		{"underscores allowed", "john_doe_99", true},
		{"spaces rejected", "john doe", false},
		{"symbols rejected", "john!", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := ValidateUsername(tt.username)
			if tt.wantOK {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NotEmpty(t, ValidatePassword("1234567"))
	assert.Empty(t, ValidatePassword("12345678"))
}

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email  string
		wantOK bool
	}{
		{"user@example.com", true},
		{"user+tag@example.com", true},
		{"not-an-email", false},
		{"missing@domain", true}, // bare domains parse; the unique index is the backstop
		{"Display Name <user@example.com>", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			msg := ValidateEmail(tt.email)
			if tt.wantOK {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestValidateName(t *testing.T) {
	assert.NotEmpty(t, ValidateName("A"))
	assert.Empty(t, ValidateName("Al"))
	assert.Empty(t, ValidateName(strings.Repeat("a", 50)))
	assert.NotEmpty(t, ValidateName(strings.Repeat("a", 51)))
}

func TestValidateRating(t *testing.T) {
	assert.NotEmpty(t, ValidateRating(0))
	assert.Empty(t, ValidateRating(1))
	assert.Empty(t, ValidateRating(5))
	assert.NotEmpty(t, ValidateRating(6))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	assert.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.True(t, CheckPassword(hash, "correct horse battery"))
	assert.False(t, CheckPassword(hash, "wrong password"))
}
