package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{cents: 0, want: "0.00"},
		{cents: 5, want: "0.05"},
		{cents: 100, want: "1.00"},
		{cents: 1234, want: "12.34"},
		{cents: 100000, want: "1000.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatCents(tt.cents))
	}
}
