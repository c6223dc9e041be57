package middlewares_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/mailcast/middlewares"
)

func TestOrigins(t *testing.T) {
	t.Parallel()

	o := middlewares.NewOrigins("https://app.example", "https://*.shop.test", " ")

	tests := []struct {
		origin string
		want   bool
	}{
		{"https://app.example", true},
		{"HTTPS://App.Example/", true},
		{"http://app.example", false},
		{"https://eu.shop.test", true},
		{"https://a.b.shop.test", true},
		{"https://shop.test", false},
		{"http://eu.shop.test", false},
		{"https://evilshop.test", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, o.Allowed(tt.origin))
		})
	}

	assert.False(t, o.Any())
	assert.False(t, o.Empty())
	assert.True(t, middlewares.NewOrigins("*").Allowed("https://anything.test"))
	assert.True(t, middlewares.NewOrigins().Empty())
}
