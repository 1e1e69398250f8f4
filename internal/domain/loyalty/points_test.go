package loyalty

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestPointsForAmount(t *testing.T) {
	tests := []struct {
		name        string
		amount      string
		perTenUnits int64
		expected    int64
	}{
		{"10000 at 1x", "10000", 1, 1000},
		{"10000 at 2x", "10000", 2, 2000},
		{"rounds down", "10005", 1, 1000},
		{"fractional amount rounds down", "99.99", 1, 9},
		{"small amount", "9", 1, 0},
		{"zero multiplier", "10000", 0, 0},
		{"negative multiplier", "10000", -1, 0},
		{"zero amount", "0", 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tt.amount)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, PointsForAmount(amount, tt.perTenUnits))
		})
	}
}
