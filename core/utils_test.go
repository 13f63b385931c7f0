package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanString(t *testing.T) {
	tests := []struct {
		name  string
		s     string
		lower bool
		want  string
	}{
		{"empty", "", false, ""},
		{"spaces only", "   ", false, ""},
		{"trimmed", "  Math A \t\n", false, "Math A"},
		{"lowered", "  AMINE ", true, "amine"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanString(tt.s, tt.lower))
		})
	}
}

func TestPhoneValidation(t *testing.T) {
	type payload struct {
		Phone string `json:"phone" validate:"phone"`
	}

	tests := []struct {
		phone string
		ok    bool
	}{
		{"+212612345678", true},
		{"212612345678", true},
		{"1234567", true},
		{"+0123456789", false}, // no leading zero
		{"12345", false},       // too short
		{"call me maybe", false},
	}
	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			err := Validate.Struct(&payload{Phone: tt.phone})
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
