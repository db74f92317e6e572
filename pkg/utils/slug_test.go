package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sunday Service", "sunday-service"},
		{"  Easter  Celebration 2026 ", "easter-celebration-2026"},
		{"Café Worship Night", "cafe-worship-night"},
		{"Faith & Works", "faith-and-works"},
		{"Youth__Camp!!", "youth-camp"},
		{"???", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}
