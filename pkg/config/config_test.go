package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNetAmountCents(t *testing.T) {
	tests := []struct {
		name       string
		feeBps     int64
		grossCents int64
		want       int64
	}{
		{"10 percent fee", 1000, 1000, 900},
		{"fee rounds down, remainder stays with recipient", 1000, 999, 900},
		{"zero fee", 0, 1000, 1000},
		{"small amount", 1000, 9, 9},
		{"full fee", 10000, 1000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{}
			c.Payout.PlatformFeeBps = tt.feeBps
			assert.Equal(t, tt.want, c.NetAmountCents(tt.grossCents))
		})
	}
}
