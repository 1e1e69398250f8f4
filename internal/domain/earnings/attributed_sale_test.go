package earnings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAttributedSale(t *testing.T) {
	partnerID := uuid.New()
	orderID := uuid.New()
	rate := decimal.NewFromFloat(0.05)

	sale := NewAttributedSale(partnerID, orderID, decimal.NewFromInt(10000), rate)

	assert.Equal(t, partnerID, sale.PartnerID)
	assert.Equal(t, orderID, sale.OrderID)
	assert.True(t, sale.CommissionAmount.Equal(decimal.NewFromInt(500)))
	assert.True(t, sale.CommissionRate.Equal(rate))
}

func TestStaticCommissionResolver(t *testing.T) {
	resolver := NewStaticCommissionResolver(decimal.NewFromFloat(0.05))

	rate, err := resolver.ResolveRate(context.Background(), uuid.New(), uuid.New())
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromFloat(0.05)))
}
