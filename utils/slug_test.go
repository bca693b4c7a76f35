package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name", "Acme Media", "acme-media"},
		{"special characters stripped", "Joe's Café!!", "joes-caf"},
		{"multiple spaces collapse", "Big   Brand  Co", "big-brand-co"},
		{"leading and trailing space", "  Studio One  ", "studio-one"},
		{"digits kept", "Agency 42", "agency-42"},
		{"only special characters", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}
