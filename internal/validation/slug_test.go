package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateGroupSlug(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		slug    string
		wantErr bool
	}{
		{"Valid", "rock-music", false},
		{"Valid With Digits", "web-dev-101", false},
		{"Too Short", "ab", true},
		{"Uppercase", "Rock", true},
		{"Spaces", "rock music", true},
		{"Leading Hyphen", "-rock", true},
		{"Trailing Hyphen", "rock-", true},
		{"Reserved", "admin", true},
		{"Reserved Feed", "feed", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGroupSlug(tt.slug)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
