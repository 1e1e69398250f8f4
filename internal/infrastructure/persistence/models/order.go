package models

import (
	"github.com/google/uuid"
	"github.com/markethub/backend/internal/domain/ordering"
	"github.com/markethub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for the Order aggregate root.
// Items are stored as a JSONB document on the order row.
type OrderModel struct {
	AggregateModel
	OrderNumber         string               `gorm:"type:varchar(50);not null;uniqueIndex"`
	SellerID            uuid.UUID            `gorm:"type:uuid;not null;index"`
	BuyerID             uuid.UUID            `gorm:"type:uuid;not null;index"`
	BuyerName           string               `gorm:"type:varchar(200);not null"`
	BuyerEmail          string               `gorm:"type:varchar(320);not null"`
	SellerName          string               `gorm:"type:varchar(200);not null"`
	SellerEmail         string               `gorm:"type:varchar(320);not null"`
	TotalAmount         decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	AmountPaid          decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	BalanceDue          decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Subtotal            decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	PlatformFee         decimal.Decimal      `gorm:"type:decimal(18,4);not null"`
	Status              ordering.OrderStatus `gorm:"type:varchar(20);not null;default:'PENDING_PAYMENT';index"`
	Items               ordering.OrderItems  `gorm:"type:jsonb;default:'[]'"`
	IsDirectFulfillment bool                 `gorm:"not null;default:false"`
	ReferralCode        string               `gorm:"type:varchar(50);index"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *ordering.Order {
	return &ordering.Order{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				UpdatedAt: m.UpdatedAt,
			},
			Version: m.Version,
		},
		OrderNumber:         m.OrderNumber,
		SellerID:            m.SellerID,
		BuyerID:             m.BuyerID,
		BuyerName:           m.BuyerName,
		BuyerEmail:          m.BuyerEmail,
		SellerName:          m.SellerName,
		SellerEmail:         m.SellerEmail,
		TotalAmount:         m.TotalAmount,
		AmountPaid:          m.AmountPaid,
		BalanceDue:          m.BalanceDue,
		Subtotal:            m.Subtotal,
		PlatformFee:         m.PlatformFee,
		Status:              m.Status,
		Items:               m.Items,
		IsDirectFulfillment: m.IsDirectFulfillment,
		ReferralCode:        m.ReferralCode,
	}
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *ordering.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.SellerID = o.SellerID
	m.BuyerID = o.BuyerID
	m.BuyerName = o.BuyerName
	m.BuyerEmail = o.BuyerEmail
	m.SellerName = o.SellerName
	m.SellerEmail = o.SellerEmail
	m.TotalAmount = o.TotalAmount
	m.AmountPaid = o.AmountPaid
	m.BalanceDue = o.BalanceDue
	m.Subtotal = o.Subtotal
	m.PlatformFee = o.PlatformFee
	m.Status = o.Status
	m.Items = o.Items
	m.IsDirectFulfillment = o.IsDirectFulfillment
	m.ReferralCode = o.ReferralCode
}

// OrderModelFromDomain creates a new persistence model from a domain Order.
func OrderModelFromDomain(o *ordering.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}
