package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("admin"))
	assert.NoError(t, ValidateUsername("shop_admin_2"))
	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername("has space"))
	assert.Error(t, ValidateUsername("semi;colon"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("admin123"))
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(string(make([]byte, 101))))
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("Customer@Example.com "))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("a@b"))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"prescription.pdf", "prescription.pdf"},
		{"my prescription 2024.png", "my_prescription_2024.png"},
		{"../../etc/passwd", "passwd"},
		{"C:\\Users\\me\\scan.jpg", "scan.jpg"},
		{".hidden", "hidden"},
		{"résumé.pdf", "rsum.pdf"},
		{"", "file"},
		{"...", "file"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, SanitizeFilename(tt.input), "input: %q", tt.input)
	}
}
